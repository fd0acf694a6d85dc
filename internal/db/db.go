package db

import (
	"fmt"
	"log"
	"time"

	"go-board/internal/config"
	"go-board/internal/device"
	"go-board/internal/post"
	"go-board/internal/search"
	"go-board/internal/user"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Models lists every table the board owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&post.Tag{},
		&post.Post{},
		&device.Device{},
		&search.SearchValue{},
		&search.Search{},
	}
}

func dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.Database.Driver {
	case "", "postgres":
		return postgres.Open(cfg.Database.DSN), nil
	case "sqlite":
		return sqlite.Open(cfg.Database.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func Init(cfg *config.Config) error {
	d, err := dialector(cfg)
	if err != nil {
		return err
	}
	db, err := gorm.Open(d, &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}

	DB = db
	log.Printf("[DB] connected (%s) and migrated", driverName(cfg))
	return nil
}

func driverName(cfg *config.Config) string {
	if cfg.Database.Driver == "" {
		return "postgres"
	}
	return cfg.Database.Driver
}
