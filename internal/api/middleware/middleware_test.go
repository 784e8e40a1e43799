package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, "abc-123", seen)
	require.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	for _, bad := range []string{"", "has space", strings.Repeat("x", maxRequestIDLen+1)} {
		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, bad)
		w = httptest.NewRecorder()
		h.ServeHTTP(w, req)
		require.NotEqual(t, bad, seen)
		require.Len(t, seen, 36)
	}
}

func TestRecoverer(t *testing.T) {
	h := RequestID(Recoverer(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"code":"ACT_INTERNAL","message":"internal server error"}`, w.Body.String())
}

func TestRoutePattern(t *testing.T) {
	var route string
	r := chi.NewRouter()
	r.Get("/v1/{subjectKind}/{subjectID}/activities", func(w http.ResponseWriter, r *http.Request) {
		route = getRoutePattern(r)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/users/42/activities", nil))
	require.Equal(t, "/v1/{subjectKind}/{subjectID}/activities", route)

	require.Equal(t, unmatchedRoute, getRoutePattern(httptest.NewRequest(http.MethodGet, "/v1/users/42", nil)))
}
