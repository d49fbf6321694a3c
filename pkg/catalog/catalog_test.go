package catalog

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/guregu/null.v3"
)

func TestRelatedArtists(t *testing.T) {
	slash := ArtistRef{ID: 2, Name: "Slash"}
	duff := ArtistRef{ID: 3, Name: "Duff McKagan"}
	axl := ArtistRef{ID: 4, Name: "Axl Rose"}

	table := []struct {
		label         string
		owners        []ArtistRef
		collaborators []ArtistRef
		expRes        []ArtistRef
	}{
		{
			label:  "should return an empty list for an artist without tracks",
			expRes: []ArtistRef{},
		},
		{
			label:         "should merge owners and collaborators sorted by id",
			owners:        []ArtistRef{axl},
			collaborators: []ArtistRef{duff, slash},
			expRes:        []ArtistRef{slash, duff, axl},
		},
		{
			label:         "should count an artist once when related both ways",
			owners:        []ArtistRef{slash, slash},
			collaborators: []ArtistRef{slash, duff},
			expRes:        []ArtistRef{slash, duff},
		},
	}
	for i := 0; i < len(table); i++ {
		ts := table[i]
		t.Run(ts.label, func(t *testing.T) {
			res := RelatedArtists(ts.owners, ts.collaborators)
			if diff := cmp.Diff(ts.expRes, res); diff != "" {
				t.Fatalf("unexpected related artists: %s", diff)
			}
		})
	}
}

func TestAlbumCollaborators(t *testing.T) {
	tracks := []Track{
		{ID: 1, Collaborators: []int64{5, 2}},
		{ID: 2},
		{ID: 3, Collaborators: []int64{2, 9}},
	}
	if diff := cmp.Diff([]int64{2, 5, 9}, AlbumCollaborators(tracks)); diff != "" {
		t.Fatalf("unexpected collaborators: %s", diff)
	}
	if diff := cmp.Diff([]int64{}, AlbumCollaborators(nil)); diff != "" {
		t.Fatalf("unexpected collaborators for an empty album: %s", diff)
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(1987, time.July, 21)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error marshalling date: %s", err.Error())
	}
	if diff := cmp.Diff(`"1987-07-21"`, string(b)); diff != "" {
		t.Fatalf("unexpected encoding: %s", diff)
	}

	var got Date
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unexpected error unmarshalling date: %s", err.Error())
	}
	if got != d {
		t.Fatalf("unexpected date: %s", got)
	}

	if err := json.Unmarshal([]byte(`"21/07/1987"`), &got); err == nil {
		t.Fatal("expected an error for a malformed date")
	}
}

func TestDateScan(t *testing.T) {
	exp := NewDate(2020, time.February, 29)
	for _, src := range []interface{}{
		time.Date(2020, time.February, 29, 0, 0, 0, 0, time.UTC),
		[]byte("2020-02-29"),
		"2020-02-29T00:00:00Z",
	} {
		var d Date
		if err := d.Scan(src); err != nil {
			t.Fatalf("unexpected error scanning %T: %s", src, err.Error())
		}
		if d != exp {
			t.Fatalf("unexpected date scanned from %T: %s", src, d)
		}
	}
}

func TestVisibility(t *testing.T) {
	now := time.Date(2024, time.May, 6, 23, 30, 0, 0, time.UTC)
	staff := Caller{Authenticated: true, User: User{ID: 1, IsStaff: true}}
	user := Caller{Authenticated: true, User: User{ID: 2}}

	table := []struct {
		label   string
		caller  Caller
		release Date
		exp     bool
	}{
		{
			label:   "should show future albums to staff",
			caller:  staff,
			release: NewDate(2030, time.January, 1),
			exp:     true,
		},
		{
			label:   "should hide future albums from users",
			caller:  user,
			release: NewDate(2024, time.May, 7),
			exp:     false,
		},
		{
			label:   "should show albums released today",
			caller:  user,
			release: NewDate(2024, time.May, 6),
			exp:     true,
		},
		{
			label:   "should show past albums",
			caller:  user,
			release: NewDate(1987, time.July, 21),
			exp:     true,
		},
	}
	for i := 0; i < len(table); i++ {
		ts := table[i]
		t.Run(ts.label, func(t *testing.T) {
			v := NewVisibility(ts.caller, now)
			if got := v.Allows(ts.release); got != ts.exp {
				t.Fatalf("unexpected visibility: %s", cmp.Diff(ts.exp, got))
			}
		})
	}
}

func TestArtistPayloadValidate(t *testing.T) {
	table := []struct {
		label   string
		payload ArtistPayload
		partial bool
		expRes  map[string][]string
	}{
		{
			label:   "should require a name",
			payload: ArtistPayload{},
			expRes:  map[string][]string{"name": {MsgRequired}},
		},
		{
			label:   "should allow a missing name on partial update",
			payload: ArtistPayload{},
			partial: true,
		},
		{
			label:   "should reject a blank name",
			payload: ArtistPayload{Name: null.StringFrom("  ")},
			expRes:  map[string][]string{"name": {MsgBlank}},
		},
		{
			label:   "should reject a name longer than 256 characters",
			payload: ArtistPayload{Name: null.StringFrom(strings.Repeat("é", 257))},
			expRes:  map[string][]string{"name": {MsgNameLength}},
		},
		{
			label:   "should accept a 256 character name",
			payload: ArtistPayload{Name: null.StringFrom(strings.Repeat("é", 256))},
		},
	}
	for i := 0; i < len(table); i++ {
		ts := table[i]
		t.Run(ts.label, func(t *testing.T) {
			v := &ValidationError{}
			ts.payload.Validate(v, ts.partial)
			if diff := cmp.Diff(ts.expRes, v.Fields); diff != "" {
				t.Fatalf("unexpected validation result: %s", diff)
			}
		})
	}
}

func TestAlbumPayloadValidate(t *testing.T) {
	tracks := []TrackPayload{
		{Index: null.IntFrom(0), Name: null.StringFrom("Welcome to the Jungle"), Audio: null.StringFrom("abc")},
		{Index: null.IntFrom(-1), Name: null.StringFrom("")},
		{Index: null.IntFrom(MaxTrackIndex + 1), Name: null.StringFrom("Paradise City"), Audio: null.StringFrom("abc")},
	}
	valid := AlbumPayload{
		Artist:      null.IntFrom(1),
		Name:        null.StringFrom("Appetite for Destruction"),
		ReleaseDate: null.StringFrom("1987-07-21"),
		Cover:       null.StringFrom("abc"),
		Tracks:      &[]TrackPayload{tracks[0]},
	}

	t.Run("should accept a complete album", func(t *testing.T) {
		v := &ValidationError{}
		valid.ValidateCreate(v)
		if !v.Empty() {
			t.Fatalf("unexpected validation error: %s", v.Error())
		}
	})

	t.Run("should report nested track errors with dotted names", func(t *testing.T) {
		p := valid
		p.ReleaseDate = null.StringFrom("July 1987")
		p.Tracks = &tracks
		v := &ValidationError{}
		p.ValidateCreate(v)
		exp := map[string][]string{
			"release_date":   {MsgDateFormat},
			"tracks.1.index": {MsgNegative},
			"tracks.1.name":  {MsgBlank},
			"tracks.1.audio": {MsgRequired},
			"tracks.2.index": {MsgIndexMax},
		}
		if diff := cmp.Diff(exp, v.Fields); diff != "" {
			t.Fatalf("unexpected validation result: %s", diff)
		}
	})

	t.Run("should accept the largest storable index", func(t *testing.T) {
		p := valid
		p.Tracks = &[]TrackPayload{{Index: null.IntFrom(MaxTrackIndex), Name: null.StringFrom("Paradise City"), Audio: null.StringFrom("abc")}}
		v := &ValidationError{}
		p.ValidateCreate(v)
		if !v.Empty() {
			t.Fatalf("unexpected validation error: %s", v.Error())
		}
	})

	t.Run("should require tracks on create", func(t *testing.T) {
		p := valid
		p.Tracks = nil
		v := &ValidationError{}
		p.ValidateCreate(v)
		if diff := cmp.Diff(map[string][]string{"tracks": {MsgRequired}}, v.Fields); diff != "" {
			t.Fatalf("unexpected validation result: %s", diff)
		}
	})

	t.Run("should reject tracks on update", func(t *testing.T) {
		v := &ValidationError{}
		valid.ValidateUpdate(v, true)
		if diff := cmp.Diff(map[string][]string{"tracks": {MsgNestedEdit}}, v.Fields); diff != "" {
			t.Fatalf("unexpected validation result: %s", diff)
		}
	})

	t.Run("should parse the release date", func(t *testing.T) {
		exp := null.TimeFrom(NewDate(1987, time.July, 21).Time())
		if diff := cmp.Diff(exp, valid.Release()); diff != "" {
			t.Fatalf("unexpected release date: %s", diff)
		}
	})
}

func TestValidationErrorMessage(t *testing.T) {
	v := NewValidationError("name", MsgBlank)
	v.Merge("tracks.0", NewValidationError("audio", MsgRequired))
	exp := "validation failed: name: " + MsgBlank + "; tracks.0.audio: " + MsgRequired
	if diff := cmp.Diff(exp, v.Error()); diff != "" {
		t.Fatalf("unexpected message: %s", diff)
	}
	if (&ValidationError{}).Err() != nil {
		t.Fatal("expected an empty validation error to be nil")
	}
}
