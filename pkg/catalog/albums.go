package catalog

import (
	"strconv"
	"time"

	"gopkg.in/guregu/null.v3"
)

type Album struct {
	ID          int64     `db:"id"`
	ArtistID    int64     `db:"artist_id"`
	Name        string    `db:"name"`
	ReleaseDate Date      `db:"release_date"`
	Cover       string    `db:"cover"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	// Tracks are ordered by index. Collaborators is the union of every
	// track's collaborators; both are loaded on read.
	Tracks        []Track `db:"-"`
	Collaborators []int64 `db:"-"`
}

// TrackCount returns the number of tracks owned by the album.
func (a Album) TrackCount() int {
	return len(a.Tracks)
}

// AlbumPayload is the writable representation of an album. On create it
// carries the nested tracks; Cover holds the base64 encoded image until it is
// decoded by the media codec.
type AlbumPayload struct {
	Artist      null.Int        `json:"artist"`
	Name        null.String     `json:"name"`
	ReleaseDate null.String     `json:"release_date"`
	Cover       null.String     `json:"cover"`
	Tracks      *[]TrackPayload `json:"tracks"`
}

// ValidateCreate records every problem with p as an album creation payload.
func (p AlbumPayload) ValidateCreate(v *ValidationError) {
	p.validate(v, false)
	if p.Tracks == nil {
		v.Add("tracks", MsgRequired)
		return
	}
	for i, t := range *p.Tracks {
		tv := &ValidationError{}
		t.Validate(tv, false)
		v.Merge("tracks."+strconv.Itoa(i), tv)
	}
}

// ValidateUpdate records every problem with p as an album update payload.
// Tracks cannot be edited through the album.
func (p AlbumPayload) ValidateUpdate(v *ValidationError, partial bool) {
	p.validate(v, partial)
	if p.Tracks != nil {
		v.Add("tracks", MsgNestedEdit)
	}
}

func (p AlbumPayload) validate(v *ValidationError, partial bool) {
	if !p.Artist.Valid && !partial {
		v.Add("artist", MsgRequired)
	}
	validateName(v, "name", p.Name, partial)
	if !p.ReleaseDate.Valid {
		if !partial {
			v.Add("release_date", MsgRequired)
		}
	} else if _, err := ParseDate(p.ReleaseDate.String); err != nil {
		v.Add("release_date", MsgDateFormat)
	}
	validateRequired(v, "cover", p.Cover, partial)
}

// Release returns the parsed release date. It must only be called once the
// payload has been validated.
func (p AlbumPayload) Release() null.Time {
	if !p.ReleaseDate.Valid {
		return null.Time{}
	}
	d, err := ParseDate(p.ReleaseDate.String)
	if err != nil {
		return null.Time{}
	}
	return null.TimeFrom(d.Time())
}

type ListAlbumsRequest struct {
	// ArtistID restricts the list to one artist's albums when non-zero.
	ArtistID   int64
	Visibility Visibility
}

type CreateAlbumRequest struct {
	ArtistID    int64
	Name        string
	ReleaseDate Date
	Cover       string
	Tracks      []CreateTrackRequest
}

// MediaNames returns every stored media name referenced by r.
func (r CreateAlbumRequest) MediaNames() []string {
	names := make([]string, 0, len(r.Tracks)+1)
	names = append(names, r.Cover)
	for _, t := range r.Tracks {
		names = append(names, t.Audio)
	}
	return names
}

type UpdateAlbumRequest struct {
	ID          int64
	Visibility  Visibility
	ArtistID    null.Int
	Name        null.String
	ReleaseDate null.Time
	Cover       null.String
}
