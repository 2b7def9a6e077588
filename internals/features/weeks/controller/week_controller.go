// file: internals/features/weeks/controller/week_controller.go
package controller

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"weekreport_backend/internals/features/weeks/dto"
	"weekreport_backend/internals/features/weeks/service"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/helpers/cache"
)

type WeekController struct {
	Svc      *service.WeekService
	Validate *validator.Validate
	Cache    *cache.ReportCache
}

func NewWeekController(db *gorm.DB, notifier service.Notifier, rc *cache.ReportCache) *WeekController {
	return &WeekController{
		Svc:      service.NewWeekService(db, notifier),
		Validate: helper.NewValidator(),
		Cache:    rc,
	}
}

/* =========================================================
   LIST
   GET /api/weeks?year=&search=&page=&per_page=
   ========================================================= */
func (h *WeekController) ListWeeks(c *fiber.Ctx) error {
	var f service.ListWeeksFilter
	if s := strings.TrimSpace(c.Query("year")); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return helper.JsonFromError(c, helper.NewValidationError("year", "must be a number"))
		}
		f.Year = &y
	}
	f.Search = c.Query("search")
	f.Paging = helper.ResolvePaging(c, 20, 100)

	items, total, err := h.Svc.ListWeeks(c.UserContext(), f)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	var pg *helper.Pagination
	if f.Paging.Enabled {
		p := helper.BuildPaginationFromPage(total, f.Paging.Page, f.Paging.PerPage, len(items))
		pg = &p
	}
	return helper.JsonList(c, "weeks", dto.FromWeekListItems(items), pg)
}

/* =========================================================
   GET BY ID
   GET /api/weeks/:id
   ========================================================= */
func (h *WeekController) GetWeek(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	d, err := h.Svc.GetWeek(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "week detail", dto.FromWeekDetail(d))
}

/* =========================================================
   CREATE
   POST /api/weeks
   ========================================================= */
func (h *WeekController) CreateWeek(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateWeekRequest
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

	ctx := c.UserContext()
	w, err := h.Svc.CreateWeek(ctx, in, userID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	h.Cache.Invalidate(ctx)

	d, err := h.Svc.GetWeek(ctx, w.WeekID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "week created", dto.FromWeekDetail(d))
}

/* =========================================================
   UPDATE (reconcile)
   PUT /api/weeks/:id
   ========================================================= */
func (h *WeekController) UpdateWeek(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateWeekRequest
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

	ctx := c.UserContext()
	res, err := h.Svc.ReplaceTaskSet(ctx, id, in)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	h.Cache.Invalidate(ctx)

	d, err := h.Svc.GetWeek(ctx, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "week updated", dto.UpdateWeekResponse{
		WeekDetailResponse: dto.FromWeekDetail(d),
		NewTaskProgressIDs: res.TaskProgressIDs,
		NewTaskIDs:         res.AdHocTaskIDs,
	})
}

/* =========================================================
   DELETE
   DELETE /api/weeks/:id
   ========================================================= */
func (h *WeekController) DeleteWeek(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	if err := h.Svc.DeleteWeek(ctx, id); err != nil {
		return helper.JsonFromError(c, err)
	}
	h.Cache.Invalidate(ctx)
	return helper.JsonDeleted(c, "week deleted", fiber.Map{"id": id})
}

/* =========================================================
   EXPORT
   GET /api/weeks/:id/export
   ========================================================= */
func (h *WeekController) ExportWeek(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	d, err := h.Svc.GetWeek(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	wb, err := service.BuildWeekWorkbook(d)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	defer wb.Close()

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	fileName := fmt.Sprintf("bao-cao-tuan-%d-%d.xlsx", d.Week.WeekNumber, d.Week.WeekYear)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+fileName)
	return c.Send(buf.Bytes())
}
