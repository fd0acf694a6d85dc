package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-board/internal/config"
	"go-board/internal/user"

	"github.com/gin-gonic/gin"
)

func setupTestJWT(secret string, userId uint, username, role string, exp time.Duration) string {
	token, _ := GenerateJWT(secret, userId, username, role, exp)
	return token
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "secret"
	return cfg
}

// whoami reports the user id the middleware attached, or 0.
func whoami(c *gin.Context) {
	id, _ := c.Get("userId")
	if id == nil {
		c.JSON(http.StatusOK, gin.H{"userId": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": id})
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(testConfig(), nil, false))
	r.GET("/test", whoami)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(testConfig(), nil, false))
	r.GET("/test", whoami)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer not.a.valid.jwt")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for invalid JWT, got %d", w.Code)
	}
}

func TestAuthMiddleware_SessionInvalid(t *testing.T) {
	cfg := testConfig()
	rdb := setupTestRedis(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(cfg, rdb, false))
	r.GET("/test", whoami)
	token := setupTestJWT(cfg.Server.JWTSecret, 123, "user", "user", time.Minute)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	// No session in Redis, should be session error
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for session error, got %d", w.Code)
	}
}

func TestAuthMiddleware_NonAdminForbidden(t *testing.T) {
	cfg := testConfig()
	rdb := setupTestRedis(t)
	ctx := context.Background()
	userId := uint(123)
	token := setupTestJWT(cfg.Server.JWTSecret, userId, "normaluser", "user", time.Minute)
	_ = SetSession(ctx, rdb, userId, token, time.Minute)
	defer DeleteSession(ctx, rdb, userId)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(cfg, rdb, true))
	r.GET("/test", whoami)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", w.Code)
	}
}

func TestAuthMiddleware_AdminAllowed(t *testing.T) {
	cfg := testConfig()
	rdb := setupTestRedis(t)
	ctx := context.Background()
	userId := uint(222)
	token := setupTestJWT(cfg.Server.JWTSecret, userId, "adminuser", string(user.RoleAdmin), time.Minute)
	_ = SetSession(ctx, rdb, userId, token, time.Minute)
	defer DeleteSession(ctx, rdb, userId)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(cfg, rdb, true))
	r.GET("/test", whoami)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", w.Code)
	}
}

func TestOptionalAuthMiddleware_AnonymousPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(OptionalAuthMiddleware(testConfig(), nil))
	r.GET("/test", whoami)

	for _, header := range []string{"", "Bearer not.a.valid.jwt", "Basic abc"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/test", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK || w.Body.String() != `{"userId":0}` {
			t.Errorf("header %q: expected anonymous 200, got %d %s", header, w.Code, w.Body.String())
		}
	}
}

func TestOptionalAuthMiddleware_LiveSession(t *testing.T) {
	cfg := testConfig()
	rdb := setupTestRedis(t)
	ctx := context.Background()
	userId := uint(321)
	token := setupTestJWT(cfg.Server.JWTSecret, userId, "reader", "user", time.Minute)
	_ = SetSession(ctx, rdb, userId, token, time.Minute)
	defer DeleteSession(ctx, rdb, userId)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(OptionalAuthMiddleware(cfg, rdb))
	r.GET("/test", whoami)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Body.String() != `{"userId":321}` {
		t.Errorf("expected user 321 attached, got %s", w.Body.String())
	}
}

func TestAuthMiddleware_NoSessionStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(testConfig(), nil, false))
	r.GET("/me", whoami)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+setupTestJWT("secret", 1, "alice", string(user.RoleUser), time.Hour))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session store, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Session expired or invalid") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}
