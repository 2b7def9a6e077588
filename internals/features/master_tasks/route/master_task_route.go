package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"weekreport_backend/internals/features/master_tasks/controller"
	"weekreport_backend/internals/helpers/cache"
)

func MasterTaskRoutes(api fiber.Router, db *gorm.DB, rc *cache.ReportCache) {
	ctrl := controller.NewMasterTaskController(db, rc)

	g := api.Group("/master-tasks")
	g.Get("/", ctrl.ListMasterTasks)
	g.Get("/:id", ctrl.GetMasterTask) // with history, newest week first
	g.Post("/", ctrl.CreateMasterTask)
	g.Put("/:id", ctrl.UpdateMasterTask)
	g.Delete("/:id", ctrl.DeleteMasterTask)
}
