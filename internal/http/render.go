package http

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	jsonutils "github.com/twitsprout/tools/json"

	"spotifake/internal/media"
	cl "spotifake/pkg/catalog"
)

type artistRes struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	RelatedArtists []cl.ArtistRef `json:"related_artists"`
}

type trackRes struct {
	ID            int64   `json:"id"`
	Index         int     `json:"index"`
	Collaborators []int64 `json:"collaborators"`
	Name          string  `json:"name"`
	Audio         string  `json:"audio"`
}

type albumRes struct {
	ID            int64      `json:"id"`
	Artist        int64      `json:"artist"`
	Collaborators []int64    `json:"collaborators"`
	Name          string     `json:"name"`
	ReleaseDate   cl.Date    `json:"release_date"`
	Cover         string     `json:"cover"`
	NTracks       int        `json:"n_tracks"`
	Tracks        []trackRes `json:"tracks"`
}

func toArtistRes(a cl.Artist) artistRes {
	related := a.RelatedArtists
	if related == nil {
		related = []cl.ArtistRef{}
	}
	return artistRes{ID: a.ID, Name: a.Name, RelatedArtists: related}
}

func toArtistsRes(artists []cl.Artist) []artistRes {
	res := make([]artistRes, 0, len(artists))
	for _, a := range artists {
		res = append(res, toArtistRes(a))
	}
	return res
}

func toTrackRes(t cl.Track, mediaBase string) trackRes {
	collaborators := t.Collaborators
	if collaborators == nil {
		collaborators = []int64{}
	}
	return trackRes{
		ID:            t.ID,
		Index:         t.Index,
		Collaborators: collaborators,
		Name:          t.Name,
		Audio:         media.URL(mediaBase, t.Audio),
	}
}

func toAlbumRes(a cl.Album, mediaBase string) albumRes {
	tracks := make([]trackRes, 0, len(a.Tracks))
	for _, t := range a.Tracks {
		tracks = append(tracks, toTrackRes(t, mediaBase))
	}
	return albumRes{
		ID:            a.ID,
		Artist:        a.ArtistID,
		Collaborators: cl.AlbumCollaborators(a.Tracks),
		Name:          a.Name,
		ReleaseDate:   a.ReleaseDate,
		Cover:         media.URL(mediaBase, a.Cover),
		NTracks:       a.TrackCount(),
		Tracks:        tracks,
	}
}

func toAlbumsRes(albums []cl.Album, mediaBase string) []albumRes {
	res := make([]albumRes, 0, len(albums))
	for _, a := range albums {
		res = append(res, toAlbumRes(a, mediaBase))
	}
	return res
}

// mediaBase returns the URL prefix stored media are served under.
func (h *Handler) mediaBase(r *http.Request) string {
	if h.MediaBaseURL != "" {
		return h.MediaBaseURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/media"
}

// pathID returns the numeric identifier captured by the route.
func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// decodeBody reads the JSON request body into dst. An empty PATCH body
// leaves dst untouched.
func decodeBody(r *http.Request, dst interface{}) error {
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return errParse{err: err}
	}
	if isPartial(r) && len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := jsonutils.Unmarshal(b, dst); err != nil {
		return errParse{err: err}
	}
	return nil
}

// isPartial reports whether the request updates a subset of fields.
func isPartial(r *http.Request) bool {
	return r.Method == http.MethodPatch
}
