// file: internals/features/reports/controller/report_controller.go
package controller

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"weekreport_backend/internals/features/reports/service"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/helpers/cache"
	"weekreport_backend/internals/helpers/dbtime"
)

type ReportController struct {
	Svc   *service.ReportService
	Cache *cache.ReportCache
}

func NewReportController(db *gorm.DB, rc *cache.ReportCache) *ReportController {
	return &ReportController{Svc: service.NewReportService(db), Cache: rc}
}

func yearQuery(c *fiber.Ctx) (int, error) {
	s := strings.TrimSpace(c.Query("year"))
	if s == "" {
		return dbtime.Now().Year(), nil
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 2000 || y > 2100 {
		return 0, helper.NewValidationError("year", "must be a year between 2000 and 2100")
	}
	return y, nil
}

func deptKey(id *uuid.UUID) string {
	if id == nil {
		return "all"
	}
	return id.String()
}

/* =========================================================
   OVERVIEW
   GET /api/reports/overview
   ========================================================= */
func (h *ReportController) Overview(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var out service.OverviewReport
	if h.Cache.Get(ctx, "overview", &out) {
		return helper.JsonOK(c, "overview", out)
	}
	r, err := h.Svc.Overview(ctx)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	h.Cache.Set(ctx, "overview", r)
	return helper.JsonOK(c, "overview", r)
}

/* =========================================================
   TASK METRICS
   GET /api/reports/task-metrics?year=&department_id=
   ========================================================= */
func (h *ReportController) TaskMetrics(c *fiber.Ctx) error {
	year, err := yearQuery(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	deptID, err := helper.ParseUUIDQuery(c, "department_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	ctx := c.UserContext()
	key := fmt.Sprintf("task-metrics:%d:%s", year, deptKey(deptID))
	var out service.TaskMetricsReport
	if h.Cache.Get(ctx, key, &out) {
		return helper.JsonOK(c, "task metrics", out)
	}
	r, err := h.Svc.TaskMetrics(ctx, year, deptID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	h.Cache.Set(ctx, key, r)
	return helper.JsonOK(c, "task metrics", r)
}

/* =========================================================
   TIMELINE
   GET /api/reports/timeline?year=&department_id=
   ========================================================= */
func (h *ReportController) Timeline(c *fiber.Ctx) error {
	year, err := yearQuery(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	deptID, err := helper.ParseUUIDQuery(c, "department_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	ctx := c.UserContext()
	key := fmt.Sprintf("timeline:%d:%s", year, deptKey(deptID))
	var out service.TimelineReport
	if h.Cache.Get(ctx, key, &out) {
		return helper.JsonOK(c, "timeline", out)
	}
	r, err := h.Svc.Timeline(ctx, year, deptID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	h.Cache.Set(ctx, key, r)
	return helper.JsonOK(c, "timeline", r)
}

/* =========================================================
   TASKS OVERVIEW
   GET /api/reports/tasks-overview?group_by=task|department&department_id=
   ========================================================= */
func (h *ReportController) TasksOverview(c *fiber.Ctx) error {
	groupBy := service.GroupBy(strings.ToLower(strings.TrimSpace(c.Query("group_by", string(service.GroupByTask)))))
	if groupBy != service.GroupByTask && groupBy != service.GroupByDepartment {
		return helper.JsonFromError(c, helper.NewValidationError("group_by", "must be one of task department"))
	}
	deptID, err := helper.ParseUUIDQuery(c, "department_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	ctx := c.UserContext()
	key := fmt.Sprintf("tasks-overview:%s:%s", groupBy, deptKey(deptID))
	var out service.TasksOverview
	if h.Cache.Get(ctx, key, &out) {
		return helper.JsonOK(c, "tasks overview", out)
	}
	r, err := h.Svc.TasksOverview(ctx, groupBy, deptID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	h.Cache.Set(ctx, key, r)
	return helper.JsonOK(c, "tasks overview", r)
}
