package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyFmt = "board:session:%d"

// SetSession stores the live token for a user. Only the latest login is
// valid; a new token replaces the old one.
func SetSession(ctx context.Context, rdb *redis.Client, userId uint, token string, duration time.Duration) error {
	return rdb.Set(ctx, fmt.Sprintf(sessionKeyFmt, userId), token, duration).Err()
}

func GetSession(ctx context.Context, rdb *redis.Client, userId uint) (string, error) {
	return rdb.Get(ctx, fmt.Sprintf(sessionKeyFmt, userId)).Result()
}

func DeleteSession(ctx context.Context, rdb *redis.Client, userId uint) error {
	return rdb.Del(ctx, fmt.Sprintf(sessionKeyFmt, userId)).Err()
}
