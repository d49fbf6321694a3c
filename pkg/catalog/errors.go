package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrNotFound = errors.New("not found")
var ErrAuthenticationRequired = errors.New("authentication credentials were not provided")
var ErrInvalidToken = errors.New("invalid token")
var ErrPermissionDenied = errors.New("you do not have permission to perform this action")
var ErrInvalidCredentials = errors.New("unable to log in with provided credentials")

// Field validation messages shared by every payload.
const (
	MsgRequired   = "This field is required."
	MsgBlank      = "This field may not be blank."
	MsgNameLength = "Ensure this field has no more than 256 characters."
	MsgDateFormat = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	MsgNegative   = "Ensure this value is greater than or equal to 0."
	MsgIndexMax   = "Ensure this value is less than or equal to 2147483647."
	MsgNestedEdit = "Nested tracks cannot be updated through the album. Use the track endpoint instead."
)

// MsgUnknownPK returns the message used when a referenced identifier does
// not exist.
func MsgUnknownPK(id int64) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

// ValidationError collects every field-level failure of a request so they can
// be reported together. Field names of nested payloads are dotted, e.g.
// "tracks.1.audio".
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns a ValidationError holding a single message.
func NewValidationError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// Add records msg against field.
func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	v.Fields[field] = append(v.Fields[field], msg)
}

// Merge copies every message of other into v, prefixing the field names.
func (v *ValidationError) Merge(prefix string, other *ValidationError) {
	if other == nil {
		return
	}
	for field, msgs := range other.Fields {
		if prefix != "" {
			field = prefix + "." + field
		}
		for _, msg := range msgs {
			v.Add(field, msg)
		}
	}
}

// Empty reports whether no message has been recorded.
func (v *ValidationError) Empty() bool {
	return v == nil || len(v.Fields) == 0
}

// Err returns v as an error, or nil when it holds no messages.
func (v *ValidationError) Err() error {
	if v.Empty() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	fields := make([]string, 0, len(v.Fields))
	for field := range v.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("validation failed")
	for i, field := range fields {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(field)
		b.WriteString(": ")
		b.WriteString(strings.Join(v.Fields[field], " "))
	}
	return b.String()
}
