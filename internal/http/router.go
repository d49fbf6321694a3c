package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httputils "github.com/twitsprout/tools/http"
)

const defaultMaxBodyBytes = 64 << 20

// Handler mounts all the handlers at the appropriate routes and adds any required middleware.
func (h *Handler) Handler() http.Handler {
	r := mux.NewRouter()

	maxBody := h.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	r.Use(httputils.TimeoutMiddleware(1 * time.Minute))
	r.Use(httputils.RequestIDMiddleware)
	r.Use(httputils.RealIPMiddleware)
	r.Use(httputils.LimitReaderMiddleware(maxBody))
	r.Use(httputils.LoggingMiddleware(h.Logger))
	r.Use(httputils.RecoverMiddleware(h.Logger, httputils.InternalServerErrorHandler(h.Logger)))
	r.Use(httputils.MaxConnectionsMiddleware(5000, httputils.ServiceUnavailableHandler(h.Logger)))
	r.Use(httputils.ConcurrentLimitMiddleware(250, httputils.ServiceUnavailableHandler(h.Logger)))

	r.MethodNotAllowedHandler = h.authenticateAPI(httputils.MethodNotAllowedHandler(h.Logger))
	r.NotFoundHandler = httputils.NotFoundHandler(h.Logger)

	versionHandler := httputils.VersionHandler(h.AppName, h.Version, h.Logger)
	r.Methods("GET").Path("/").Name("root").Handler(versionHandler)
	r.Methods("GET").Path("/version").Name("version").Handler(versionHandler)

	if h.MediaHandler != nil {
		r.Methods("GET", "HEAD").PathPrefix("/media/").Name("media").Handler(h.MediaHandler)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Methods("POST").Path("/auth/").Name("authenticate").HandlerFunc(h.Authenticate)

	// Everything else requires a token.
	authed := api.NewRoute().Subrouter()
	authed.Use(h.authenticate)

	authed.Methods("GET").Path("/artist/").Name("list_artists").HandlerFunc(h.ListArtists)
	authed.Methods("POST").Path("/artist/").Name("create_artist").HandlerFunc(h.CreateArtist)
	authed.Methods("GET").Path("/artist/{id:[0-9]+}/").Name("get_artist").HandlerFunc(h.GetArtist)
	authed.Methods("PUT", "PATCH").Path("/artist/{id:[0-9]+}/").Name("update_artist").HandlerFunc(h.UpdateArtist)
	authed.Methods("DELETE").Path("/artist/{id:[0-9]+}/").Name("delete_artist").HandlerFunc(h.DeleteArtist)
	authed.Methods("GET").Path("/artist/{id:[0-9]+}/album/").Name("list_artist_albums").HandlerFunc(h.ListArtistAlbums)
	authed.Methods("POST").Path("/artist/{id:[0-9]+}/album/").Name("create_artist_album").HandlerFunc(h.CreateArtistAlbum)

	authed.Methods("GET").Path("/album/").Name("list_albums").HandlerFunc(h.ListAlbums)
	authed.Methods("POST").Path("/album/").Name("create_album").HandlerFunc(h.CreateAlbum)
	authed.Methods("GET").Path("/album/{id:[0-9]+}/").Name("get_album").HandlerFunc(h.GetAlbum)
	authed.Methods("PUT", "PATCH").Path("/album/{id:[0-9]+}/").Name("update_album").HandlerFunc(h.UpdateAlbum)
	authed.Methods("DELETE").Path("/album/{id:[0-9]+}/").Name("delete_album").HandlerFunc(h.DeleteAlbum)

	authed.Methods("GET").Path("/track/{id:[0-9]+}/").Name("get_track").HandlerFunc(h.GetTrack)
	authed.Methods("PUT", "PATCH").Path("/track/{id:[0-9]+}/").Name("update_track").HandlerFunc(h.UpdateTrack)

	h.router = r
	return r
}
