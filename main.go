package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-pkgz/lgr"
	"github.com/gofiber/fiber/v2"

	"weekreport_backend/internals/configs"
	database "weekreport_backend/internals/databases"
	notifications "weekreport_backend/internals/features/notifications/service"
	scheduler "weekreport_backend/internals/features/users/auth/scheduler"
	weekService "weekreport_backend/internals/features/weeks/service"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/helpers/cache"
	middlewares "weekreport_backend/internals/middlewares"
	routes "weekreport_backend/internals/route"
	"weekreport_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	configs.SetupLogger()

	// `go run . seed` fills the admin user and the default departments, then exits
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		database.ConnectDB()
		defer database.Close()
		if err := seeds.RunAllSeeds(context.Background(), database.DB); err != nil {
			lgr.Fatalf("[ERROR] ❌ seeding failed: %v", err)
		}
		return
	}

	app := fiber.New(fiber.Config{
		// 🚀 fast JSON
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.FiberErrorHandler,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 redis (optional) + DB connect + pool + warm-up
	configs.ConnectRedis()
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	// ⏱ scheduler once the DB is ready
	cleanup, err := scheduler.StartBlacklistCleanupScheduler(database.DB)
	if err != nil {
		lgr.Printf("[WARN] blacklist cleanup scheduler not started: %v", err)
	}

	var notifier weekService.Notifier
	if tg := notifications.NewTelegramNotifierFromEnv(); tg != nil {
		notifier = tg
	}

	// ✅ Routes
	routes.SetupRoutes(app, database.DB, notifier, cache.NewReportCache())

	// 🔒 keep-alive & server timeouts
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		lgr.Printf("[INFO] ✅ listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			lgr.Fatalf("[ERROR] server error: %v", err)
		}
	}()

	// graceful shutdown + close the DB pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lgr.Printf("[INFO] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if cleanup != nil {
		<-cleanup.Stop().Done()
	}
	if configs.RDB != nil {
		_ = configs.RDB.Close()
	}
	database.Close()
}
