package http

import (
	"context"
	"net/http"
	"strings"

	cl "spotifake/pkg/catalog"
)

type ctxKey int

const callerKey ctxKey = iota

const authPath = "/api/auth/"

func withCaller(ctx context.Context, c cl.Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

// callerFrom returns the caller resolved by the authenticate middleware. The
// zero Caller is unauthenticated.
func callerFrom(ctx context.Context) cl.Caller {
	c, _ := ctx.Value(callerKey).(cl.Caller)
	return c
}

// authenticate resolves the "Authorization: Token <key>" header into a
// caller. Requests without a valid token never reach next.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := h.resolveCaller(r)
		if err != nil {
			h.writeError(w, r, "[authenticate]", err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), caller)))
	})
}

// authenticateAPI rejects anonymous requests under /api before next runs.
// mux skips the middleware of a route matched by path only, so a method
// mismatch would otherwise answer 405 to callers that are not logged in.
func (h *Handler) authenticateAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") && r.URL.Path != authPath {
			if _, err := h.resolveCaller(r); err != nil {
				h.writeError(w, r, "[authenticate]", err)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) resolveCaller(r *http.Request) (cl.Caller, error) {
	fields := strings.Fields(r.Header.Get("Authorization"))
	if len(fields) == 0 || !strings.EqualFold(fields[0], "Token") {
		return cl.Caller{}, cl.ErrAuthenticationRequired
	}
	if len(fields) != 2 || !cl.ValidToken(fields[1]) {
		return cl.Caller{}, cl.ErrInvalidToken
	}

	user, err := h.UserStore.UserByToken(r.Context(), fields[1])
	if err != nil {
		return cl.Caller{}, err
	}
	return cl.Caller{User: user, Authenticated: true}, nil
}

// authorizeWrite fails for callers that may not modify the catalog. It runs
// before any lookup, so the outcome never depends on the target.
func authorizeWrite(c cl.Caller) error {
	if !c.Authenticated {
		return cl.ErrAuthenticationRequired
	}
	if !c.Privileged() {
		return cl.ErrPermissionDenied
	}
	return nil
}

// visibility returns the album and track query set narrowing for c.
func (h *Handler) visibility(c cl.Caller) cl.Visibility {
	return cl.NewVisibility(c, h.now())
}
