package redisdb

import (
	"time"

	"go-board/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewClient builds the session store client. Timeouts are short because the
// session lookup sits in front of every authenticated request.
func NewClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}
