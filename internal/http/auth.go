package http

import (
	"errors"
	"mime"
	"net"
	"net/http"

	cl "spotifake/pkg/catalog"
)

// Authenticate exchanges a username and password for the user's API token.
// The credentials may be sent as JSON or as a urlencoded form.
func (h *Handler) Authenticate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.AuthLimiter.Allow(clientKey(r)) {
		h.writeError(w, r, "[Authenticate]", errThrottled)
		return
	}

	req, err := parseAuthenticateRequest(r)
	if err != nil {
		h.writeError(w, r, "[Authenticate]", err)
		return
	}

	user, err := h.UserStore.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, cl.ErrInvalidCredentials) {
			err = cl.NewValidationError("non_field_errors", "Unable to log in with provided credentials.")
		}
		h.writeError(w, r, "[Authenticate]", err)
		return
	}

	token, err := h.UserStore.Token(ctx, user.ID)
	if err != nil {
		h.writeError(w, r, "[Authenticate]", err)
		return
	}
	writeOne(w, r, cl.AuthenticateResponse{Token: token}, http.StatusOK)
}

func parseAuthenticateRequest(r *http.Request) (cl.AuthenticateRequest, error) {
	var req cl.AuthenticateRequest
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			return req, errParse{err: err}
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
		if ct == "multipart/form-data" {
			req.Username = r.FormValue("username")
			req.Password = r.FormValue("password")
		}
	default:
		if err := decodeBody(r, &req); err != nil {
			return req, err
		}
	}
	return req, req.Validate()
}

// clientKey identifies the caller for throttling. RemoteAddr has already been
// replaced with the forwarded address by the middleware chain.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
