package catalog

import (
	"regexp"
	"time"
)

// User is an account allowed to call the API. Staff users are privileged and
// may perform write operations.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	IsStaff   bool      `json:"is_staff" db:"is_staff"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Caller is the identity a request is made on behalf of.
type Caller struct {
	User          User
	Authenticated bool
}

// Privileged reports whether the caller may perform write operations.
func (c Caller) Privileged() bool {
	return c.Authenticated && c.User.IsStaff
}

type CreateUserRequest struct {
	Username string
	Password string
	IsStaff  bool
}

type AuthenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthenticateResponse struct {
	Token string `json:"token"`
}

// Validate checks that both credentials were provided.
func (r AuthenticateRequest) Validate() error {
	v := &ValidationError{}
	if r.Username == "" {
		v.Add("username", MsgRequired)
	}
	if r.Password == "" {
		v.Add("password", MsgRequired)
	}
	return v.Err()
}

var tokenPattern = regexp.MustCompile(`^[a-f0-9]{40}$`)

// ValidToken reports whether token has the shape of an issued key: 40
// lowercase hex characters.
func ValidToken(token string) bool {
	return tokenPattern.MatchString(token)
}
