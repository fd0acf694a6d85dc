package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-board/internal/auth"
	"go-board/internal/config"

	"github.com/gin-gonic/gin"
)

func TestSetupRouter_BasicRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	r := SetupRouter(cfg, nil)

	// Health route should exist and return 200
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("GET /health should return 200, got %d", w.Code)
	}

	// Config route should exist and return 200
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("GET", "/config", nil)
	r.ServeHTTP(w2, req2)
	if w2.Code != http.StatusOK {
		t.Errorf("GET /config should return 200, got %d", w2.Code)
	}
}

func TestSetupRouter_Subpath(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.Subpath = "/api"
	r := SetupRouter(cfg, nil)

	// Should correctly prefix routes with subpath
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("GET /api/health should return 200, got %d", w.Code)
	}
}

func TestSetupRouter_UnknownRouteIsJSON404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRouter(&config.Config{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/nowhere", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !contains(w.Body.String(), "Not found") {
		t.Errorf("expected JSON error envelope, got: %s", w.Body.String())
	}
}

func TestSetupRouter_SearchRejectsOtherMethods(t *testing.T) {
	setupTestDB(t)
	gin.SetMode(gin.TestMode)
	r := SetupRouter(&config.Config{}, nil)

	for _, method := range []string{"POST", "PUT", "DELETE"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, "/search?q=go", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("%s /search should return 404, got %d", method, w.Code)
		}
	}
}

func TestSetupRouter_SearchIsRateLimited(t *testing.T) {
	setupTestDB(t)
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.Search.RateLimit.RPS = 0.001
	cfg.Search.RateLimit.Burst = 1
	r := SetupRouter(cfg, nil)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/search?q=go", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("expected [200 429], got %v", codes)
	}
}

func TestSetupRouter_AuthRoutesWithoutRedis(t *testing.T) {
	setupTestDB(t)
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "secret"
	r := SetupRouter(cfg, nil)

	token, err := auth.GenerateJWT("secret", 1, "alice", "user", time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	for _, tc := range []struct{ method, path string }{{"GET", "/auth/me"}, {"POST", "/auth/logout"}} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized || !contains(w.Body.String(), "Session expired or invalid") {
			t.Errorf("%s %s without redis: expected 401 envelope, got %d %q", tc.method, tc.path, w.Code, w.Body.String())
		}
	}
}
