package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"weekreport_backend/internals/features/departments/controller"
	"weekreport_backend/internals/helpers/cache"
)

func DepartmentRoutes(api fiber.Router, db *gorm.DB, rc *cache.ReportCache) {
	ctrl := controller.NewDepartmentController(db, rc)

	g := api.Group("/departments")
	g.Get("/", ctrl.ListDepartments)
	g.Get("/:id", ctrl.GetDepartment)
	g.Post("/", ctrl.CreateDepartment)
	g.Put("/:id", ctrl.UpdateDepartment)
	g.Delete("/:id", ctrl.DeleteDepartment) // soft delete, refused while tasks exist
}
