package postgres

import (
	"context"
	"encoding/hex"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/twitsprout/tools/crypto"
	"golang.org/x/crypto/bcrypt"

	cl "spotifake/pkg/catalog"
)

const tableUsers = "users"

const (
	usersColumnID           = `"id"`
	usersColumnUsername     = `"username"`
	usersColumnPasswordHash = `"password_hash"`
	usersColumnIsStaff      = `"is_staff"`
	usersColumnCreatedAt    = `"created_at"`
)

var usersColumns = []string{
	usersColumnID,
	usersColumnUsername,
	usersColumnIsStaff,
	usersColumnCreatedAt,
}

const tableAuthTokens = "auth_tokens"

const (
	authTokensColumnKey    = `"key"`
	authTokensColumnUserID = `"user_id"`
)

// tokenBytes is the amount of random data in a token; hex encoded it gives
// the 40 character key.
const tokenBytes = 20

// ErrUsernameTaken is returned by CreateUser when the username is in use.
var ErrUsernameTaken = errors.New("a user with that username already exists")

type userRow struct {
	cl.User
	PasswordHash []byte `db:"password_hash"`
}

// Authenticate returns the user matching the credentials, or
// cl.ErrInvalidCredentials.
func (p *Postgres) Authenticate(ctx context.Context, username, password string) (cl.User, error) {
	q, args, err := psql.
		Select(append(tableColumns(tableUsers, usersColumns), tableColumn(tableUsers, usersColumnPasswordHash))...).
		From(tableUsers).
		Where(sq.Eq{tableColumn(tableUsers, usersColumnUsername): username}).
		ToSql()
	if err != nil {
		return cl.User{}, errors.Wrap(err, "build authenticate query")
	}

	var r []userRow
	if err := p.sqldb.SelectContext(ctx, &r, q, args...); err != nil {
		return cl.User{}, errors.Wrap(err, "execute authenticate query")
	}
	if len(r) == 0 {
		return cl.User{}, cl.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(r[0].PasswordHash, []byte(password)); err != nil {
		return cl.User{}, cl.ErrInvalidCredentials
	}
	return r[0].User, nil
}

// Token returns the user's key, creating it on first use. A user has at most
// one key.
func (p *Postgres) Token(ctx context.Context, userID int64) (string, error) {
	buf := make([]byte, tokenBytes)
	if err := crypto.ReadRand(buf); err != nil {
		return "", errors.Wrap(err, "generate token")
	}

	q, args, err := psql.
		Insert(tableAuthTokens).
		Columns(authTokensColumnKey, authTokensColumnUserID).
		Values(hex.EncodeToString(buf), userID).
		Suffix("ON CONFLICT (" + authTokensColumnUserID + ") DO NOTHING").
		ToSql()
	if err != nil {
		return "", errors.Wrap(err, "build create token query")
	}
	if _, err := p.sqldb.ExecContext(ctx, q, args...); err != nil {
		return "", errors.Wrap(err, "execute create token query")
	}

	q, args, err = psql.
		Select(authTokensColumnKey).
		From(tableAuthTokens).
		Where(sq.Eq{authTokensColumnUserID: userID}).
		ToSql()
	if err != nil {
		return "", errors.Wrap(err, "build get token query")
	}
	var token string
	if err := p.sqldb.GetContext(ctx, &token, q, args...); err != nil {
		return "", errors.Wrap(err, "execute get token query")
	}
	return token, nil
}

// UserByToken resolves a key to its user, or returns cl.ErrInvalidToken.
func (p *Postgres) UserByToken(ctx context.Context, token string) (cl.User, error) {
	if !cl.ValidToken(token) {
		return cl.User{}, cl.ErrInvalidToken
	}
	q, args, err := psql.
		Select(tableColumns(tableUsers, usersColumns)...).
		From(tableUsers).
		Join(tableAuthTokens + " ON " + tableColumn(tableAuthTokens, authTokensColumnUserID) + " = " + tableColumn(tableUsers, usersColumnID)).
		Where(sq.Eq{tableColumn(tableAuthTokens, authTokensColumnKey): token}).
		ToSql()
	if err != nil {
		return cl.User{}, errors.Wrap(err, "build user by token query")
	}

	var r []cl.User
	if err := p.sqldb.SelectContext(ctx, &r, q, args...); err != nil {
		return cl.User{}, errors.Wrap(err, "execute user by token query")
	}
	if len(r) == 0 {
		return cl.User{}, cl.ErrInvalidToken
	}
	return r[0], nil
}

func (p *Postgres) CreateUser(ctx context.Context, req cl.CreateUserRequest) (cl.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return cl.User{}, errors.Wrap(err, "hash password")
	}

	q, args, err := psql.
		Insert(tableUsers).
		Columns(usersColumnUsername, usersColumnPasswordHash, usersColumnIsStaff).
		Values(req.Username, hash, req.IsStaff).
		Suffix(returning(usersColumns)).
		ToSql()
	if err != nil {
		return cl.User{}, errors.Wrap(err, "build create user query")
	}

	var u cl.User
	if err := p.sqldb.GetContext(ctx, &u, q, args...); err != nil {
		if isPQCode(err, codeUniqueViolation) {
			return cl.User{}, ErrUsernameTaken
		}
		return cl.User{}, errors.Wrap(err, "execute create user query")
	}
	return u, nil
}

// SetStaff grants or revokes the staff flag of the named user.
func (p *Postgres) SetStaff(ctx context.Context, username string, staff bool) (cl.User, error) {
	q, args, err := psql.
		Update(tableUsers).
		Set(usersColumnIsStaff, staff).
		Where(sq.Eq{usersColumnUsername: username}).
		Suffix(returning(usersColumns)).
		ToSql()
	if err != nil {
		return cl.User{}, errors.Wrap(err, "build set staff query")
	}

	var r []cl.User
	if err := p.sqldb.SelectContext(ctx, &r, q, args...); err != nil {
		return cl.User{}, errors.Wrap(err, "execute set staff query")
	}
	if len(r) == 0 {
		return cl.User{}, cl.ErrNotFound
	}
	return r[0], nil
}
