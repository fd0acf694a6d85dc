package api

import (
	"log"
	"net/http"

	"go-board/internal/auth"
	"go-board/internal/config"
	"go-board/internal/db"
	"go-board/internal/device"
	"go-board/internal/localtime"
	"go-board/internal/ratelimit"
	"go-board/internal/search"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// NewSearchService wires the search service to the shared database.
func NewSearchService(cfg *config.Config) *search.Service {
	sc := cfg.Search
	sc.ApplyDefaults()
	dates, err := localtime.New(sc.Timezone)
	if err != nil {
		log.Printf("[API] %v, formatting dates in UTC", err)
		dates, _ = localtime.New("")
	}
	return search.NewService(db.DB, device.NewResolver(db.DB), dates, search.OptionsFromConfig(sc))
}

func SetupRouter(cfg *config.Config, rdb *redis.Client) *gin.Engine {
	r := gin.Default()
	subpath := cfg.Server.Subpath // e.g. "/board", always starts with '/'

	// Wrong methods fall through to NoRoute as well
	r.NoRoute(notFound)

	searchSvc := NewSearchService(cfg)
	var limiter *ratelimit.KeyedLimiter
	if cfg.Search.RateLimit.RPS > 0 {
		limiter = ratelimit.New(cfg.Search.RateLimit.RPS, cfg.Search.RateLimit.Burst)
	}
	currentUser := auth.OptionalAuthMiddleware(cfg, rdb)

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg))

		// Setup: only if no users
		group.POST("/setup", SetupHandler())

		// Auth
		group.POST("/auth/login", LoginHandler(cfg, rdb))
		group.POST("/auth/logout", auth.AuthMiddleware(cfg, rdb, false), LogoutHandler(rdb))
		group.GET("/auth/me", auth.AuthMiddleware(cfg, rdb, false), MeHandler())

		// --- Search ---
		group.GET("/search", ratelimit.Middleware(limiter), currentUser, SearchHandler(searchSvc))
		group.GET("/search/suggest", ratelimit.Middleware(limiter), SuggestHandler(searchSvc))
		group.GET("/search/history", currentUser, SearchHistoryHandler(searchSvc))
		group.DELETE("/search/history/:id", currentUser, DeleteSearchHistoryHandler(searchSvc))
	}
	return r
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Not found"}})
}
