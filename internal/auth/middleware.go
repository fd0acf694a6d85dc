package auth

import (
	"net/http"
	"strings"
	"time"

	"go-board/internal/config"
	"go-board/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const sessionIdle = 30 * time.Minute

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

func setUser(c *gin.Context, claims *Claims) {
	c.Set("userId", claims.UserID)
	c.Set("username", claims.Username)
	c.Set("userRole", claims.Role)
}

func AuthMiddleware(cfg *config.Config, rdb *redis.Client, requireAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Missing or invalid Authorization header"}})
			return
		}
		claims, err := ParseJWT(cfg.Server.JWTSecret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Invalid or expired token"}})
			return
		}
		// Check session in Redis; without a store no session can be live
		if rdb == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Session expired or invalid"}})
			return
		}
		sessionToken, err := GetSession(c.Request.Context(), rdb, claims.UserID)
		if err != nil || sessionToken != tokenStr {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Session expired or invalid"}})
			return
		}
		// Enforce inactivity timeout (refresh expiry)
		_ = SetSession(c.Request.Context(), rdb, claims.UserID, tokenStr, sessionIdle)

		setUser(c, claims)

		if requireAdmin && claims.Role != string(user.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Admin only"}})
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the reader when the request carries a
// valid token with a live session. Anything else continues anonymously.
func OptionalAuthMiddleware(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok || rdb == nil {
			c.Next()
			return
		}
		claims, err := ParseJWT(cfg.Server.JWTSecret, tokenStr)
		if err != nil {
			c.Next()
			return
		}
		if sessionToken, err := GetSession(c.Request.Context(), rdb, claims.UserID); err == nil && sessionToken == tokenStr {
			_ = SetSession(c.Request.Context(), rdb, claims.UserID, tokenStr, sessionIdle)
			setUser(c, claims)
		}
		c.Next()
	}
}
