package http

import (
	"net/http"

	httputils "github.com/twitsprout/tools/http"
)

// envelope is the key a list endpoint wraps its items in, so that no response
// body is a bare JSON array. An empty Name falls back to "data".
type envelope struct {
	Name string
}

var (
	artistsEnvelope = envelope{Name: "artists"}
	albumsEnvelope  = envelope{Name: "albums"}
)

// writeList renders items wrapped in e with a 200 status.
func writeList(w http.ResponseWriter, r *http.Request, e envelope, items interface{}) {
	v := r.URL.Query()
	if e.Name == "" {
		_ = httputils.WriteJSONData(w, v, items, http.StatusOK)
		return
	}
	_ = httputils.WriteJSON(w, v, map[string]interface{}{e.Name: items}, http.StatusOK)
}

// writeOne renders a single resource, never wrapped.
func writeOne(w http.ResponseWriter, r *http.Request, res interface{}, code int) {
	_ = httputils.WriteJSON(w, r.URL.Query(), res, code)
}
