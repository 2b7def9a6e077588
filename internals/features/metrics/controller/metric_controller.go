package controller

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"weekreport_backend/internals/features/metrics/dto"
	"weekreport_backend/internals/features/metrics/service"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/helpers/cache"
	"weekreport_backend/internals/helpers/dbtime"
)

type MetricController struct {
	Svc      *service.MetricService
	Validate *validator.Validate
	Cache    *cache.ReportCache
}

func NewMetricController(db *gorm.DB, rc *cache.ReportCache) *MetricController {
	return &MetricController{Svc: service.NewMetricService(db), Validate: helper.NewValidator(), Cache: rc}
}

/* =========================================================
   Definitions
   ========================================================= */

// GET /api/metrics?department_id=
func (h *MetricController) ListMetrics(c *fiber.Ctx) error {
	deptID, err := helper.ParseUUIDQuery(c, "department_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := h.Svc.ListDefinitions(c.UserContext(), deptID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out := make([]dto.MetricResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromMetricWithCount(r))
	}
	return helper.JsonList(c, "metrics", out, nil)
}

// GET /api/metrics/:id
func (h *MetricController) GetMetric(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	d, err := h.Svc.GetDefinition(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "metric detail", dto.FromMetricDetail(d))
}

// POST /api/metrics
func (h *MetricController) CreateMetric(c *fiber.Ctx) error {
	var req dto.CreateMetricRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := req.Validate(h.Validate); err != nil {
		return helper.JsonFromError(c, err)
	}
	m, err := h.Svc.CreateDefinition(c.UserContext(), req.ToInput())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "metric created", dto.FromMetricModel(*m))
}

// PUT /api/metrics/:id
func (h *MetricController) UpdateMetric(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateMetricRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := req.Validate(h.Validate); err != nil {
		return helper.JsonFromError(c, err)
	}
	m, err := h.Svc.UpdateDefinition(c.UserContext(), id, req.ToInput())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "metric updated", dto.FromMetricModel(*m))
}

// DELETE /api/metrics/:id (is_active=false)
func (h *MetricController) DeleteMetric(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeactivateDefinition(c.UserContext(), id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "metric deleted", fiber.Map{"id": id})
}

/* =========================================================
   Week values
   ========================================================= */

// GET /api/week-metrics?week_id=&metric_id=
func (h *MetricController) ListWeekMetrics(c *fiber.Ctx) error {
	weekID, err := helper.ParseUUIDQuery(c, "week_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	metricID, err := helper.ParseUUIDQuery(c, "metric_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := h.Svc.ListValues(c.UserContext(), service.ValueFilter{WeekID: weekID, MetricID: metricID})
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out := make([]dto.WeekMetricValueResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromValueModel(r))
	}
	return helper.JsonList(c, "week metric values", out, nil)
}

// POST /api/week-metrics (upsert on metric + week)
func (h *MetricController) UpsertWeekMetric(c *fiber.Ctx) error {
	var req dto.UpsertWeekMetricRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(h.Validate); err != nil {
		return helper.JsonFromError(c, err)
	}
	v, err := h.Svc.UpsertValue(c.UserContext(), req.ToInput())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	h.Cache.Invalidate(c.UserContext())
	return helper.JsonCreated(c, "week metric saved", dto.FromValueModel(*v))
}

// GET /api/week-metrics/table?year=&department_id=
func (h *MetricController) WeekMetricTable(c *fiber.Ctx) error {
	year := dbtime.Now().Year()
	if s := strings.TrimSpace(c.Query("year")); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return helper.JsonFromError(c, helper.NewValidationError("year", "must be a number"))
		}
		year = y
	}
	deptID, err := helper.ParseUUIDQuery(c, "department_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	t, err := h.Svc.Table(c.UserContext(), year, deptID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "metric table", dto.FromMetricTable(t))
}
