package scheduler

import (
	"context"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"weekreport_backend/internals/configs"
	authRepo "weekreport_backend/internals/features/users/auth/repository"
)

const defaultCleanupSpec = "@every 6h"

// StartBlacklistCleanupScheduler purges expired blacklist rows on TOKEN_CLEANUP_CRON.
// The returned cron must be stopped on shutdown.
func StartBlacklistCleanupScheduler(db *gorm.DB) (*cron.Cron, error) {
	spec := configs.GetEnv("TOKEN_CLEANUP_CRON", defaultCleanupSpec)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, func() { RunBlacklistCleanup(db) }); err != nil {
		return nil, err
	}
	c.Start()
	lgr.Printf("[INFO] token blacklist cleanup scheduled (%s)", spec)
	return c, nil
}

func RunBlacklistCleanup(db *gorm.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := authRepo.CleanupExpiredBlacklist(ctx, db, time.Now())
	if err != nil {
		lgr.Printf("[WARN] blacklist cleanup: %v", err)
		return
	}
	if n > 0 {
		lgr.Printf("[INFO] blacklist cleanup removed %d expired tokens", n)
	}
}
