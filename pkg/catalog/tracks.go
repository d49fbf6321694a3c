package catalog

import (
	"time"

	"gopkg.in/guregu/null.v3"
)

// Track belongs to exactly one artist and one album. Index is positional and
// not guaranteed to be unique within the album.
type Track struct {
	ID        int64     `db:"id"`
	ArtistID  int64     `db:"artist_id"`
	AlbumID   int64     `db:"album_id"`
	Index     int       `db:"index"`
	Name      string    `db:"name"`
	Audio     string    `db:"audio"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Collaborators []int64 `db:"-"`
}

// MaxTrackIndex is the largest index the tracks table can hold.
const MaxTrackIndex = 1<<31 - 1

// TrackPayload is the writable representation of a track. Audio holds the
// base64 encoded file until it is decoded by the media codec.
type TrackPayload struct {
	Index         null.Int    `json:"index"`
	Name          null.String `json:"name"`
	Audio         null.String `json:"audio"`
	Collaborators *[]int64    `json:"collaborators"`
}

// Validate records every problem with p in v. Audio content is checked by the
// media codec, not here.
func (p TrackPayload) Validate(v *ValidationError, partial bool) {
	if !p.Index.Valid {
		if !partial {
			v.Add("index", MsgRequired)
		}
	} else if p.Index.Int64 < 0 {
		v.Add("index", MsgNegative)
	} else if p.Index.Int64 > MaxTrackIndex {
		v.Add("index", MsgIndexMax)
	}
	validateName(v, "name", p.Name, partial)
	validateRequired(v, "audio", p.Audio, partial)
}

// CollaboratorIDs returns the deduplicated collaborator set of p.
func (p TrackPayload) CollaboratorIDs() []int64 {
	if p.Collaborators == nil {
		return []int64{}
	}
	return uniqueIDs(*p.Collaborators)
}

type CreateTrackRequest struct {
	Index         int
	Name          string
	Audio         string
	Collaborators []int64
}

type UpdateTrackRequest struct {
	ID         int64
	Visibility Visibility
	Index      null.Int
	Name       null.String
	Audio      null.String
	// Collaborators replaces the whole set when non-nil.
	Collaborators *[]int64
}
