package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"weekreport_backend/internals/features/reports/controller"
	"weekreport_backend/internals/helpers/cache"
)

// ReportRoutes is read-only; writes elsewhere invalidate the cache it reads from.
func ReportRoutes(api fiber.Router, db *gorm.DB, rc *cache.ReportCache) {
	h := controller.NewReportController(db, rc)

	g := api.Group("/reports")
	g.Get("/overview", h.Overview)            // 📊 dashboard numbers
	g.Get("/task-metrics", h.TaskMetrics)     // 📈 per-department yearly metrics
	g.Get("/timeline", h.Timeline)            // 🗓️ quarters + weekly points
	g.Get("/tasks-overview", h.TasksOverview) // 📋 grouped by task or department
}
