package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"weekreport_backend/internals/features/weeks/controller"
	"weekreport_backend/internals/features/weeks/service"
	"weekreport_backend/internals/helpers/cache"
)

// WeekRoutes mounts /weeks under an authenticated router.
func WeekRoutes(api fiber.Router, db *gorm.DB, notifier service.Notifier, rc *cache.ReportCache) {
	ctrl := controller.NewWeekController(db, notifier, rc)

	g := api.Group("/weeks")
	g.Get("/", ctrl.ListWeeks)            // 📄 list + counts
	g.Post("/", ctrl.CreateWeek)          // ➕ create with task set
	g.Get("/:id", ctrl.GetWeek)           // 🔍 detail grouped by department
	g.Put("/:id", ctrl.UpdateWeek)        // ✏️ edit + replace task set
	g.Delete("/:id", ctrl.DeleteWeek)     // 🗑️ cascade children
	g.Get("/:id/export", ctrl.ExportWeek) // 📊 xlsx
}
