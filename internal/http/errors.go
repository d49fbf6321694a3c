package http

import (
	"errors"
	"net/http"

	httputils "github.com/twitsprout/tools/http"
	"github.com/twitsprout/tools/requestid"

	cl "spotifake/pkg/catalog"
)

const (
	errTypeValidation     = "validation"
	errTypeParse          = "parse"
	errTypeNotFound       = "not_found"
	errTypeAuthentication = "authentication"
	errTypePermission     = "permission_denied"
	errTypeThrottled      = "throttled"
)

// validationErrRes is JSONErrRes with the per field messages attached.
type validationErrRes struct {
	Error validationErr `json:"error"`
}

type validationErr struct {
	Type    string              `json:"type"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields"`
}

// errParse marks a body that could not be decoded at all.
type errParse struct {
	err error
}

func (e errParse) Error() string { return e.err.Error() }
func (e errParse) Unwrap() error { return e.err }

var errThrottled = errors.New("request was throttled")

// writeError maps err onto its status code and writes the JSON error body.
// label names the handler in the log line.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, label string, err error) {
	ctx := r.Context()
	v := r.URL.Query()
	reqID := requestid.Get(ctx)

	var verr *cl.ValidationError
	var perr errParse
	var code int
	var typ string
	switch {
	case errors.As(err, &verr):
		h.Logger.Warn(label+" validation failed",
			"request_id", reqID,
			"details", err.Error(),
		)
		_ = httputils.WriteJSON(w, v, validationErrRes{Error: validationErr{
			Type:    errTypeValidation,
			Message: "Invalid input.",
			Fields:  verr.Fields,
		}}, http.StatusBadRequest)
		return
	case errors.As(err, &perr):
		code, typ = http.StatusBadRequest, errTypeParse
	case errors.Is(err, cl.ErrInvalidCredentials):
		code, typ = http.StatusBadRequest, errTypeValidation
	case errors.Is(err, cl.ErrAuthenticationRequired), errors.Is(err, cl.ErrInvalidToken):
		w.Header().Set("WWW-Authenticate", "Token")
		code, typ = http.StatusUnauthorized, errTypeAuthentication
	case errors.Is(err, cl.ErrPermissionDenied):
		code, typ = http.StatusForbidden, errTypePermission
	case errors.Is(err, cl.ErrNotFound):
		code, typ = http.StatusNotFound, errTypeNotFound
	case errors.Is(err, errThrottled):
		code, typ = http.StatusTooManyRequests, errTypeThrottled
	default:
		h.Logger.Error(label+" unexpected error",
			"request_id", reqID,
			"details", err.Error(),
		)
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusInternalServerError)
		return
	}

	h.Logger.Warn(label+" request failed",
		"request_id", reqID,
		"code", code,
		"details", err.Error(),
	)
	_ = httputils.WriteJSON(w, v, httputils.JSONErrRes{Error: httputils.JSONErr{
		Type:    typ,
		Message: err.Error(),
	}}, code)
}
