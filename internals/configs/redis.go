package configs

import (
	"context"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/redis/go-redis/v9"
)

// RDB stays nil when REDIS_ADDR is empty or unreachable; callers must check before use.
var RDB *redis.Client

func ConnectRedis() {
	addr := GetEnv("REDIS_ADDR")
	if addr == "" {
		lgr.Printf("[WARN] REDIS_ADDR is not set, report cache disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: GetEnv("REDIS_PASSWORD"),
		DB:       GetEnvInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		lgr.Printf("[ERROR] redis ping failed: %v, report cache disabled", err)
		_ = client.Close()
		return
	}

	RDB = client
	lgr.Printf("[INFO] ✅ Redis connected at %s", addr)
}
