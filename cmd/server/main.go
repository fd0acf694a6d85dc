package main

import (
	"fmt"
	"log"
	"os"
	_ "time/tzdata"

	"go-board/internal/api"
	"go-board/internal/config"
	"go-board/internal/db"
	redisdb "go-board/internal/redis"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}

	// Without redis every reader is anonymous
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redisdb.NewClient(cfg)
	} else {
		log.Printf("[Main] redis not configured, sessions disabled")
	}

	r := api.SetupRouter(cfg, rdb)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("[Main] starting server on %s%s (db=%s)", addr, cfg.Server.Subpath, cfg.Database.Driver)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
