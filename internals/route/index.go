// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	deptRoute "weekreport_backend/internals/features/departments/route"
	eventRoute "weekreport_backend/internals/features/events/route"
	mtRoute "weekreport_backend/internals/features/master_tasks/route"
	metricRoute "weekreport_backend/internals/features/metrics/route"
	reportRoute "weekreport_backend/internals/features/reports/route"
	authRoute "weekreport_backend/internals/features/users/auth/route"
	weekService "weekreport_backend/internals/features/weeks/service"
	weekRoute "weekreport_backend/internals/features/weeks/route"
	"weekreport_backend/internals/helpers/cache"
	"weekreport_backend/internals/middlewares"
	authMiddleware "weekreport_backend/internals/middlewares/auth"
)

var startTime time.Time

// SetupRoutes mounts the public endpoints, then everything else under /api behind auth.
// notifier and rc may be nil.
func SetupRoutes(app *fiber.App, db *gorm.DB, notifier weekService.Notifier, rc *cache.ReportCache) {
	startTime = time.Now()

	BaseRoutes(app, db)

	api := app.Group("/api", middlewares.GlobalRateLimiter())

	// ===================== PUBLIC =====================
	lgr.Printf("[INFO] mounting public auth routes")
	authRoute.AuthPublicRoutes(api, db)

	// ===================== PRIVATE =====================
	lgr.Printf("[INFO] mounting private routes")
	private := api.Group("", authMiddleware.AuthMiddleware(db))

	authRoute.AuthRoutes(private, db)
	deptRoute.DepartmentRoutes(private, db, rc)
	mtRoute.MasterTaskRoutes(private, db, rc)
	weekRoute.WeekRoutes(private, db, notifier, rc)
	metricRoute.MetricRoutes(private, db, rc)
	eventRoute.EventRoutes(private, db)
	reportRoute.ReportRoutes(private, db, rc)
}
