package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hranalyse/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultConfig()
	cfg.Server.DevMode = true
	cfg.Data.DataDir = t.TempDir()

	srv, err := NewServer(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		method, path string
		status       int
		contentType  string
	}{
		{http.MethodGet, "/", http.StatusOK, "text/html; charset=utf-8"},
		{http.MethodGet, "/ergebnisse", http.StatusOK, "text/html; charset=utf-8"},
		{http.MethodGet, "/api/status", http.StatusOK, "application/json; charset=utf-8"},
		{http.MethodGet, "/api/unknown", http.StatusNotFound, "application/json; charset=utf-8"},
		{http.MethodOptions, "/api/analyze", http.StatusNoContent, ""},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.status {
			t.Fatalf("%s %s: status=%d, want %d", tc.method, tc.path, rec.Code, tc.status)
		}
		if tc.contentType != "" {
			assert.Equal(t, tc.contentType, rec.Header().Get("Content-Type"), tc.path)
		}
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), tc.path)
	}
}

func TestNewServer_InvalidBenchmarkPath(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Data.DataDir = t.TempDir()
	cfg.Benchmark.Path = "/does/not/exist.yaml"

	_, err := NewServer(cfg, nil)
	require.Error(t, err)
}
