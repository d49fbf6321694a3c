package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	httputils "github.com/twitsprout/tools/http"
	jsonutils "github.com/twitsprout/tools/json"
	tm "github.com/twitsprout/tools/mock"

	"spotifake/internal/mock"
	cl "spotifake/pkg/catalog"
)

var (
	staffToken = strings.Repeat("a", 40)
	userToken  = strings.Repeat("b", 40)

	staffUser   = cl.User{ID: 1, Username: "admin", IsStaff: true}
	regularUser = cl.User{ID: 2, Username: "listener"}

	today = time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)
)

func newUserStore() *mock.UserStore {
	return &mock.UserStore{
		UserByTokenFn: func(ctx context.Context, token string) (cl.User, error) {
			switch token {
			case staffToken:
				return staffUser, nil
			case userToken:
				return regularUser, nil
			}
			return cl.User{}, cl.ErrInvalidToken
		},
	}
}

// newTestHandler returns a Handler with every dependency a request might
// need. Stores left nil panic when reached.
func newTestHandler() *Handler {
	h := &Handler{
		AppName:   "spotifake",
		Version:   "test",
		Logger:    tm.NopLogger,
		Clock:     &tm.Clock{NowFn: func() time.Time { return today }},
		UserStore: newUserStore(),
		Media:     &mock.MediaStore{},
	}
	h.Handler()
	return h
}

func serve(h *Handler, method, url, token, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, rd)
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	wr := httptest.NewRecorder()
	h.router.ServeHTTP(wr, req)
	return wr
}

func decodeErrRes(t *testing.T, wr *httptest.ResponseRecorder) httputils.JSONErrRes {
	t.Helper()
	var res httputils.JSONErrRes
	if err := jsonutils.Decode(wr.Body, &res); err != nil {
		t.Fatalf("unexpected error returned from decoding response body: %s", err.Error())
	}
	return res
}

func decodeValidationRes(t *testing.T, wr *httptest.ResponseRecorder) validationErrRes {
	t.Helper()
	var res validationErrRes
	if err := jsonutils.Decode(wr.Body, &res); err != nil {
		t.Fatalf("unexpected error returned from decoding response body: %s", err.Error())
	}
	return res
}

func TestAuthenticateMiddleware(t *testing.T) {
	table := []struct {
		label   string
		header  string
		expCode int
		expRes  httputils.JSONErrRes
	}{
		{
			label:   "should fail without an authorization header",
			expCode: http.StatusUnauthorized,
			expRes: httputils.JSONErrRes{Error: httputils.JSONErr{
				Type:    errTypeAuthentication,
				Message: cl.ErrAuthenticationRequired.Error(),
			}},
		},
		{
			label:   "should fail with another scheme",
			header:  "Bearer " + staffToken,
			expCode: http.StatusUnauthorized,
			expRes: httputils.JSONErrRes{Error: httputils.JSONErr{
				Type:    errTypeAuthentication,
				Message: cl.ErrAuthenticationRequired.Error(),
			}},
		},
		{
			label:   "should fail with a malformed token",
			header:  "Token abc",
			expCode: http.StatusUnauthorized,
			expRes: httputils.JSONErrRes{Error: httputils.JSONErr{
				Type:    errTypeAuthentication,
				Message: cl.ErrInvalidToken.Error(),
			}},
		},
		{
			label:   "should fail with an unknown token",
			header:  "Token " + strings.Repeat("c", 40),
			expCode: http.StatusUnauthorized,
			expRes: httputils.JSONErrRes{Error: httputils.JSONErr{
				Type:    errTypeAuthentication,
				Message: cl.ErrInvalidToken.Error(),
			}},
		},
	}
	for i := 0; i < len(table); i++ {
		ts := table[i]
		t.Run(ts.label, func(t *testing.T) {
			h := newTestHandler()

			req := httptest.NewRequest("GET", "/api/artist/", nil)
			if ts.header != "" {
				req.Header.Set("Authorization", ts.header)
			}
			wr := httptest.NewRecorder()
			h.router.ServeHTTP(wr, req)

			if wr.Code != ts.expCode {
				t.Fatalf("unexpected response code returned: %s", cmp.Diff(ts.expCode, wr.Code))
			}
			if got := wr.Header().Get("WWW-Authenticate"); got != "Token" {
				t.Fatalf("unexpected WWW-Authenticate header: %q", got)
			}
			res := decodeErrRes(t, wr)
			if !cmp.Equal(res, ts.expRes) {
				t.Fatalf("unexpected response returned: %s", cmp.Diff(res, ts.expRes))
			}
		})
	}
}

func TestVersionRoutesArePublic(t *testing.T) {
	h := newTestHandler()

	wr := serve(h, "GET", "/version", "", "")
	if wr.Code != http.StatusOK {
		t.Fatalf("unexpected response code returned: %s", cmp.Diff(http.StatusOK, wr.Code))
	}
}

func TestRoutesRequireAuthentication(t *testing.T) {
	table := []struct {
		label  string
		method string
		url    string
	}{
		{label: "list artists", method: "GET", url: "/api/artist/"},
		{label: "create artist", method: "POST", url: "/api/artist/"},
		{label: "get artist", method: "GET", url: "/api/artist/1/"},
		{label: "put artist", method: "PUT", url: "/api/artist/1/"},
		{label: "patch artist", method: "PATCH", url: "/api/artist/1/"},
		{label: "delete artist", method: "DELETE", url: "/api/artist/1/"},
		{label: "list artist albums", method: "GET", url: "/api/artist/1/album/"},
		{label: "create artist album", method: "POST", url: "/api/artist/1/album/"},
		{label: "list albums", method: "GET", url: "/api/album/"},
		{label: "create album", method: "POST", url: "/api/album/"},
		{label: "get album", method: "GET", url: "/api/album/1/"},
		{label: "put album", method: "PUT", url: "/api/album/1/"},
		{label: "patch album", method: "PATCH", url: "/api/album/1/"},
		{label: "delete album", method: "DELETE", url: "/api/album/1/"},
		{label: "get track", method: "GET", url: "/api/track/1/"},
		{label: "put track", method: "PUT", url: "/api/track/1/"},
		{label: "patch track", method: "PATCH", url: "/api/track/1/"},
		{label: "unsupported method on track", method: "DELETE", url: "/api/track/1/"},
		{label: "unsupported method on artist list", method: "PUT", url: "/api/artist/"},
		{label: "unsupported method on album list", method: "DELETE", url: "/api/album/"},
	}
	for i := 0; i < len(table); i++ {
		ts := table[i]
		t.Run("should reject anonymous "+ts.label, func(t *testing.T) {
			h := newTestHandler()

			wr := serve(h, ts.method, ts.url, "", "")
			if wr.Code != http.StatusUnauthorized {
				t.Fatalf("unexpected response code returned: %s", cmp.Diff(http.StatusUnauthorized, wr.Code))
			}
			res := decodeErrRes(t, wr)
			if res.Error.Type != errTypeAuthentication {
				t.Fatalf("unexpected error type: %q", res.Error.Type)
			}
		})
	}
}

func TestUnsupportedMethod(t *testing.T) {
	table := []struct {
		label   string
		method  string
		url     string
		expCode int
	}{
		{
			label:   "should report the method once authenticated",
			method:  "DELETE",
			url:     "/api/track/1/",
			expCode: http.StatusMethodNotAllowed,
		},
		{
			label:   "should not require a token to log in",
			method:  "GET",
			url:     "/api/auth/",
			expCode: http.StatusMethodNotAllowed,
		},
	}
	for i := 0; i < len(table); i++ {
		ts := table[i]
		t.Run(ts.label, func(t *testing.T) {
			h := newTestHandler()

			token := staffToken
			if ts.url == "/api/auth/" {
				token = ""
			}
			wr := serve(h, ts.method, ts.url, token, "")
			if wr.Code != ts.expCode {
				t.Fatalf("unexpected response code returned: %s", cmp.Diff(ts.expCode, wr.Code))
			}
		})
	}
}
