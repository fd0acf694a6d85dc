package api

import (
	"strings"
	"testing"
	"time"

	"go-board/internal/db"
	"go-board/internal/user"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbConn.AutoMigrate(db.Models()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	db.DB = dbConn
	resetTables(t)
	return dbConn
}

func resetTables(t *testing.T) {
	for _, table := range []string{"post_tags", "searches", "search_values", "devices", "posts", "tags", "users"} {
		if err := db.DB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to reset %s: %v", table, err)
		}
	}
}

func seedUser(t *testing.T, username string, role string) user.User {
	u := user.User{Username: username, PasswordHash: "hash", Role: user.Role(role), CreatedAt: time.Now()}
	if err := db.DB.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
