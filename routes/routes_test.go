package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/bracket-pool/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("routes-secret")

func newRouter() http.Handler {
	router := chi.NewRouter()
	SetupRoutes(router, Handlers{
		Bracket:   handlers.NewBracketHandler(nil),
		Entry:     handlers.NewEntryHandler(nil),
		Result:    handlers.NewResultHandler(nil),
		Standings: handlers.NewStandingsHandler(nil, nil),
		WebSocket: handlers.NewWebSocketHandler(nil, nil, []string{"*"}, nil),
	}, Options{JWTSecret: secret, AllowedOrigins: []string{"https://pool.example.com"}})
	return router
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 5,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString(secret)
	require.NoError(t, err)
	return "Bearer " + s
}

func TestProtectedRoutes(t *testing.T) {
	router := newRouter()

	tests := []struct {
		method, path, auth string
		status             int
	}{
		{http.MethodPost, "/years/2025/entries", "", http.StatusUnauthorized},
		{http.MethodGet, "/entries/3", "", http.StatusUnauthorized},
		{http.MethodPut, "/entries/3/picks", "", http.StatusUnauthorized},
		{http.MethodPut, "/admin/years/2025/seeding", "", http.StatusUnauthorized},
		{http.MethodPut, "/admin/years/2025/seeding", bearer(t, "player"), http.StatusForbidden},
		{http.MethodPost, "/admin/years/2025/results", bearer(t, "player"), http.StatusForbidden},
		{http.MethodDelete, "/admin/years/2025/results/east-r64-1", bearer(t, "player"), http.StatusForbidden},
		{http.MethodPost, "/admin/years/2025/standings/export", "Bearer junk", http.StatusUnauthorized},
		{http.MethodGet, "/healthz", "", http.StatusNoContent},
		{http.MethodGet, "/years/x/bracket", "", http.StatusBadRequest},
		{http.MethodGet, "/nowhere", "", http.StatusNotFound},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		if tc.auth != "" {
			req.Header.Set("Authorization", tc.auth)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, tc.status, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newRouter()

	req := httptest.NewRequest(http.MethodOptions, "/entries/3/picks", nil)
	req.Header.Set("Origin", "https://pool.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://pool.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
