package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Health pings the configured backends and reports "ok", "down" or
// "disabled" for each.
func Health(ctx context.Context, db *sqlx.DB, client *redis.Client) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"postgres": "disabled", "redis": "disabled"}

	if db != nil {
		status["postgres"] = "ok"
		if err := db.PingContext(ctx); err != nil {
			status["postgres"] = "down"
		}
	}
	if client != nil {
		status["redis"] = "ok"
		if err := client.Ping(ctx).Err(); err != nil {
			status["redis"] = "down"
		}
	}
	return status
}

// Healthy reports whether no backend in status is down.
func Healthy(status map[string]string) bool {
	for _, s := range status {
		if s == "down" {
			return false
		}
	}
	return true
}
