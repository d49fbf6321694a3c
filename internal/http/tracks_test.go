package http

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	jsonutils "github.com/twitsprout/tools/json"

	"spotifake/internal/mock"
	cl "spotifake/pkg/catalog"
)

func TestGetTrack(t *testing.T) {
	track := cl.Track{ID: 5, ArtistID: 1, AlbumID: 3, Index: 1, Name: "Patience", Audio: "abcdef01-234.mp3", Collaborators: []int64{2}}

	table := []struct {
		label   string
		token   string
		hidden  bool
		expCode int
		expRes  *trackRes
	}{
		{
			label:   "should render the track",
			token:   userToken,
			expCode: http.StatusOK,
			expRes: &trackRes{
				ID:            5,
				Index:         1,
				Collaborators: []int64{2},
				Name:          "Patience",
				Audio:         "http://example.com/media/abcdef01-234.mp3",
			},
		},
		{
			label:   "should hide tracks of unreleased albums",
			token:   userToken,
			hidden:  true,
			expCode: http.StatusNotFound,
		},
	}
	for i := 0; i < len(table); i++ {
		ts := table[i]
		t.Run(ts.label, func(t *testing.T) {
			h := newTestHandler()
			h.TrackStore = &mock.TrackStore{
				GetTrackFn: func(ctx context.Context, id int64, v cl.Visibility) (cl.Track, error) {
					if ts.hidden && v.Restricted {
						return cl.Track{}, cl.ErrNotFound
					}
					return track, nil
				},
			}

			wr := serve(h, "GET", "/api/track/5/", ts.token, "")
			if wr.Code != ts.expCode {
				t.Fatalf("unexpected response code returned: %s", cmp.Diff(ts.expCode, wr.Code))
			}
			if ts.expRes == nil {
				return
			}
			var res trackRes
			if err := jsonutils.Decode(wr.Body, &res); err != nil {
				t.Fatalf("unexpected error returned from decoding response body: %s", err.Error())
			}
			if !cmp.Equal(res, *ts.expRes) {
				t.Fatalf("unexpected response returned: %s", cmp.Diff(res, *ts.expRes))
			}
		})
	}
}

func TestUpdateTrack(t *testing.T) {
	table := []struct {
		label      string
		method     string
		body       string
		expCode    int
		expCollabs *[]int64
		expAudio   bool
		expField   string
	}{
		{
			label:      "should replace and deduplicate collaborators",
			method:     "PATCH",
			body:       `{"collaborators": [4, 2, 4]}`,
			expCode:    http.StatusOK,
			expCollabs: &[]int64{2, 4},
		},
		{
			label:      "should clear collaborators with an empty list",
			method:     "PATCH",
			body:       `{"collaborators": []}`,
			expCode:    http.StatusOK,
			expCollabs: &[]int64{},
		},
		{
			label:    "should store new audio",
			method:   "PATCH",
			body:     `{"audio": "` + mp3B64 + `"}`,
			expCode:  http.StatusOK,
			expAudio: true,
		},
		{
			label:    "should reject an image as audio",
			method:   "PATCH",
			body:     `{"audio": "` + pngB64 + `"}`,
			expCode:  http.StatusBadRequest,
			expField: "audio",
		},
		{
			label:    "should reject a negative index",
			method:   "PATCH",
			body:     `{"index": -3}`,
			expCode:  http.StatusBadRequest,
			expField: "index",
		},
		{
			label:    "should reject an index too large to store",
			method:   "PATCH",
			body:     `{"index": 3000000000}`,
			expCode:  http.StatusBadRequest,
			expField: "index",
		},
		{
			label:   "should accept an empty partial update",
			method:  "PATCH",
			expCode: http.StatusOK,
		},
		{
			label:    "should require every field on PUT",
			method:   "PUT",
			body:     `{"name": "Patience"}`,
			expCode:  http.StatusBadRequest,
			expField: "audio",
		},
	}
	for i := 0; i < len(table); i++ {
		ts := table[i]
		t.Run(ts.label, func(t *testing.T) {
			var got *cl.UpdateTrackRequest
			store := &mock.MediaStore{}
			h := newTestHandler()
			h.Media = store
			h.TrackStore = &mock.TrackStore{
				GetTrackFn: func(ctx context.Context, id int64, v cl.Visibility) (cl.Track, error) {
					return cl.Track{ID: id}, nil
				},
				UpdateTrackFn: func(ctx context.Context, r cl.UpdateTrackRequest) (cl.Track, error) {
					got = &r
					return cl.Track{ID: r.ID, Audio: r.Audio.String}, nil
				},
			}

			wr := serve(h, ts.method, "/api/track/5/", staffToken, ts.body)
			if wr.Code != ts.expCode {
				t.Fatalf("unexpected response code returned: %s %s", cmp.Diff(ts.expCode, wr.Code), wr.Body.String())
			}

			if ts.expField != "" {
				res := decodeValidationRes(t, wr)
				if _, ok := res.Error.Fields[ts.expField]; !ok {
					t.Fatalf("missing error for %q in %v", ts.expField, res.Error.Fields)
				}
				if got != nil {
					t.Fatalf("store reached for an invalid request")
				}
				return
			}

			if !cmp.Equal(got.Collaborators, ts.expCollabs) {
				t.Fatalf("unexpected collaborators: %s", cmp.Diff(got.Collaborators, ts.expCollabs))
			}
			if ts.expAudio {
				if !got.Audio.Valid || !strings.HasSuffix(got.Audio.String, ".mp3") {
					t.Fatalf("unexpected audio in request: %v", got.Audio)
				}
				if _, ok := store.Saved[got.Audio.String]; !ok {
					t.Fatalf("audio not stored")
				}
			}
		})
	}
}

func TestUpdateTrackForbidden(t *testing.T) {
	h := newTestHandler()
	h.TrackStore = &mock.TrackStore{}

	wr := serve(h, "PATCH", "/api/track/5/", userToken, `{"name": "Patience"}`)
	if wr.Code != http.StatusForbidden {
		t.Fatalf("unexpected response code returned: %s", cmp.Diff(http.StatusForbidden, wr.Code))
	}
	res := decodeErrRes(t, wr)
	if res.Error.Type != errTypePermission {
		t.Fatalf("unexpected error type: %q", res.Error.Type)
	}
}
