package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/guregu/null.v3"
)

const maxNameLength = 256

type Artist struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// RelatedArtists is computed on every read and never stored.
	RelatedArtists []ArtistRef `db:"-"`
}

// ArtistRef is the short form of an artist used inside other resources.
type ArtistRef struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ArtistPayload is the writable representation of an artist as received in a
// create or update request body.
type ArtistPayload struct {
	Name null.String `json:"name"`
}

// Validate records every problem with p in v. When partial is set, missing
// fields are allowed.
func (p ArtistPayload) Validate(v *ValidationError, partial bool) {
	validateName(v, "name", p.Name, partial)
}

type CreateArtistRequest struct {
	Name string
}

type UpdateArtistRequest struct {
	ID   int64
	Name null.String
}

func validateName(v *ValidationError, field string, name null.String, partial bool) {
	if !name.Valid {
		if !partial {
			v.Add(field, MsgRequired)
		}
		return
	}
	if strings.TrimSpace(name.String) == "" {
		v.Add(field, MsgBlank)
		return
	}
	if utf8.RuneCountInString(name.String) > maxNameLength {
		v.Add(field, MsgNameLength)
	}
}

func validateRequired(v *ValidationError, field string, s null.String, partial bool) {
	if !s.Valid {
		if !partial {
			v.Add(field, MsgRequired)
		}
		return
	}
	if s.String == "" {
		v.Add(field, MsgBlank)
	}
}
