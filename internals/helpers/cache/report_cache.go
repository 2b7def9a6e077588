// file: internals/helpers/cache/report_cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/redis/go-redis/v9"

	"weekreport_backend/internals/configs"
)

const versionKey = "reports:version"

// ReportCache stores rendered report payloads in Redis.
// Every write path bumps a version counter instead of deleting keys; stale keys expire on their own.
// A nil client turns every call into a miss/no-op.
type ReportCache struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewReportCache() *ReportCache {
	return &ReportCache{
		RDB: configs.RDB,
		TTL: time.Duration(configs.GetEnvInt("REPORT_CACHE_TTL_SECONDS", 300)) * time.Second,
	}
}

func (rc *ReportCache) enabled() bool { return rc != nil && rc.RDB != nil }

func (rc *ReportCache) key(ctx context.Context, name string) (string, error) {
	v, err := rc.RDB.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("reports:v%d:%s", v, name), nil
}

// Get decodes a cached payload into dst. false on miss or any cache error.
func (rc *ReportCache) Get(ctx context.Context, name string, dst any) bool {
	if !rc.enabled() {
		return false
	}
	k, err := rc.key(ctx, name)
	if err != nil {
		lgr.Printf("[WARN] report cache key %s: %v", name, err)
		return false
	}
	raw, err := rc.RDB.Get(ctx, k).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			lgr.Printf("[WARN] report cache get %s: %v", k, err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		lgr.Printf("[WARN] report cache decode %s: %v", k, err)
		return false
	}
	return true
}

func (rc *ReportCache) Set(ctx context.Context, name string, v any) {
	if !rc.enabled() {
		return
	}
	k, err := rc.key(ctx, name)
	if err != nil {
		lgr.Printf("[WARN] report cache key %s: %v", name, err)
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := rc.RDB.Set(ctx, k, raw, rc.TTL).Err(); err != nil {
		lgr.Printf("[WARN] report cache set %s: %v", k, err)
	}
}

// Invalidate makes every cached report stale.
func (rc *ReportCache) Invalidate(ctx context.Context) {
	if !rc.enabled() {
		return
	}
	if err := rc.RDB.Incr(ctx, versionKey).Err(); err != nil {
		lgr.Printf("[WARN] report cache invalidate: %v", err)
	}
}

// InvalidateReports is the shortcut used by write handlers.
func InvalidateReports(ctx context.Context) {
	NewReportCache().Invalidate(ctx)
}
