// file: internals/features/events/controller/event_controller.go
package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"weekreport_backend/internals/configs"
	"weekreport_backend/internals/features/events/dto"
	"weekreport_backend/internals/features/events/service"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/helpers/dbtime"
)

type EventController struct {
	Svc      *service.EventService
	Validate *validator.Validate
}

func NewEventController(db *gorm.DB) *EventController {
	return &EventController{
		Svc:      service.NewEventService(db, configs.GetEnv("CALENDAR_CHAIR_FILTER")),
		Validate: helper.NewValidator(),
	}
}

/* =========================================================
   LIST
   GET /api/events?start_date=&end_date=
   ========================================================= */
func (h *EventController) ListEvents(c *fiber.Ctx) error {
	start, err := optionalDateQuery(c, "start_date")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	end, err := optionalDateQuery(c, "end_date")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	rows, err := h.Svc.List(c.UserContext(), start, end)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "events", dto.FromEventModels(rows), nil)
}

/* =========================================================
   WEEK BOARD
   GET /api/events/week?date=&chair=
   ========================================================= */
func (h *EventController) WeekBoard(c *fiber.Ctx) error {
	date := dbtime.Today()
	if d, err := optionalDateQuery(c, "date"); err != nil {
		return helper.JsonFromError(c, err)
	} else if d != nil {
		date = *d
	}

	var chair *string
	if _, ok := c.Queries()["chair"]; ok {
		s := c.Query("chair")
		chair = &s
	}

	board, err := h.Svc.Week(c.UserContext(), date, chair)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "week board", dto.FromWeekBoard(board))
}

/* =========================================================
   GET BY ID
   GET /api/events/:id
   ========================================================= */
func (h *EventController) GetEvent(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	e, err := h.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "event detail", dto.FromEventModel(e))
}

/* =========================================================
   CREATE
   POST /api/events
   ========================================================= */
func (h *EventController) CreateEvent(c *fiber.Ctx) error {
	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := req.Validate(h.Validate); err != nil {
		return helper.JsonFromError(c, err)
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	e, err := h.Svc.Create(c.UserContext(), in)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "event created", dto.FromEventModel(e))
}

/* =========================================================
   PATCH
   PATCH /api/events/:id
   ========================================================= */
func (h *EventController) UpdateEvent(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := req.Validate(h.Validate); err != nil {
		return helper.JsonFromError(c, err)
	}
	p, err := req.ToPatch()
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	e, err := h.Svc.Update(c.UserContext(), id, p)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "event updated", dto.FromEventModel(e))
}

/* =========================================================
   DELETE
   DELETE /api/events/:id
   ========================================================= */
func (h *EventController) DeleteEvent(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "event deleted", fiber.Map{"id": id})
}

func optionalDateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	s := strings.TrimSpace(c.Query(name))
	if s == "" {
		return nil, nil
	}
	t, err := dbtime.ParseDate(s)
	if err != nil {
		return nil, helper.NewValidationError(name, "must be a date (YYYY-MM-DD)")
	}
	return &t, nil
}
