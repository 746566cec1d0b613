package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"aozu-ops-hub/internal/config"
)

type stubIdentity string

func (s stubIdentity) IsLoggedIn() bool { return s != "" }
func (s stubIdentity) UserID() string   { return string(s) }

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestIdentityMiddleware(t *testing.T) {
	var seen string
	h := IdentityMiddleware(stubIdentity("u1"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserID(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "u1", seen)
}

func TestRequireSignIn(t *testing.T) {
	tests := []struct {
		name string
		uid  string
		want int
	}{
		{"signed in", "u1", http.StatusOK},
		{"signed out", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := IdentityMiddleware(stubIdentity(tt.uid))(RequireSignIn(okHandler))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sync/pull", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	h := CORSMiddleware(config.CORSConfig{
		AllowedOrigins: "http://localhost:3000, https://ops.aozu.example",
		AllowedMethods: "GET,POST",
		AllowedHeaders: "Content-Type",
	})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://ops.aozu.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://ops.aozu.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	h := limiter.Middleware(okHandler)

	codes := []int{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "other callers have their own bucket")
}

func TestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := LoggerMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "/api/v1/notes", fields["path"])
		assert.Equal(t, int64(http.StatusTeapot), fields["status"])
		assert.Equal(t, "anonymous", fields["user_id"])
	}
}
