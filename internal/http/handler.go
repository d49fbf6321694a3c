package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/twitsprout/tools"
	"github.com/twitsprout/tools/clock"

	"spotifake/internal"
	"spotifake/internal/media"
)

type Handler struct {
	AppName string
	Version string
	router  *mux.Router
	Logger  tools.Logger
	Clock   clock.Clock

	ArtistStore internal.ArtistStore
	AlbumStore  internal.AlbumStore
	TrackStore  internal.TrackStore
	UserStore   internal.UserStore

	// Media stores decoded uploads. MediaHandler, when set, serves them
	// under /media/. MediaBaseURL overrides the URL prefix rendered for
	// stored media; by default it is derived from the request.
	Media        media.Store
	MediaHandler http.Handler
	MediaBaseURL string

	// MaxBodyBytes bounds request bodies; base64 media make them large.
	MaxBodyBytes int
	// AuthLimiter throttles credential checks per client address.
	AuthLimiter *RateLimiter
}

func (h *Handler) now() time.Time {
	if h.Clock == nil {
		return time.Now()
	}
	return h.Clock.Now()
}
