package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"weekreport_backend/internals/features/events/controller"
)

func EventRoutes(api fiber.Router, db *gorm.DB) {
	h := controller.NewEventController(db)

	g := api.Group("/events")
	g.Get("/", h.ListEvents)        // 📅 range list
	g.Get("/week", h.WeekBoard)     // 🗓️ Monday-first board
	g.Post("/", h.CreateEvent)      // ➕ create
	g.Get("/:id", h.GetEvent)       // 🔍 detail
	g.Patch("/:id", h.UpdateEvent)  // ✏️ edit (marks is_edited)
	g.Delete("/:id", h.DeleteEvent) // 🗑️ delete
}
