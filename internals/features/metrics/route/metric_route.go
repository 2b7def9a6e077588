package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"weekreport_backend/internals/features/metrics/controller"
	"weekreport_backend/internals/helpers/cache"
)

// MetricRoutes mounts /metrics (definitions) and /week-metrics (values).
func MetricRoutes(api fiber.Router, db *gorm.DB, rc *cache.ReportCache) {
	ctrl := controller.NewMetricController(db, rc)

	m := api.Group("/metrics")
	m.Get("/", ctrl.ListMetrics)
	m.Get("/:id", ctrl.GetMetric)
	m.Post("/", ctrl.CreateMetric)
	m.Put("/:id", ctrl.UpdateMetric)
	m.Delete("/:id", ctrl.DeleteMetric)

	wm := api.Group("/week-metrics")
	wm.Get("/", ctrl.ListWeekMetrics)
	wm.Get("/table", ctrl.WeekMetricTable)
	wm.Post("/", ctrl.UpsertWeekMetric)
}
