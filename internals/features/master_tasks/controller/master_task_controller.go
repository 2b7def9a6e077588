package controller

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"weekreport_backend/internals/features/master_tasks/dto"
	"weekreport_backend/internals/features/master_tasks/service"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/helpers/cache"
)

type MasterTaskController struct {
	Svc      *service.MasterTaskService
	Validate *validator.Validate
	Cache    *cache.ReportCache
}

func NewMasterTaskController(db *gorm.DB, rc *cache.ReportCache) *MasterTaskController {
	return &MasterTaskController{Svc: service.NewMasterTaskService(db), Validate: helper.NewValidator(), Cache: rc}
}

// GET /api/master-tasks?department_id=&include_progress=true|false
func (h *MasterTaskController) ListMasterTasks(c *fiber.Ctx) error {
	deptID, err := helper.ParseUUIDQuery(c, "department_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	include := false
	if s := strings.TrimSpace(c.Query("include_progress")); s != "" {
		include, err = strconv.ParseBool(s)
		if err != nil {
			return helper.JsonFromError(c, helper.NewValidationError("include_progress", "must be true or false"))
		}
	}

	items, err := h.Svc.List(c.UserContext(), service.ListFilter{DepartmentID: deptID, IncludeProgress: include})
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out := make([]dto.MasterTaskWithProgress, 0, len(items))
	for _, it := range items {
		out = append(out, dto.FromListItem(it))
	}
	return helper.JsonList(c, "master tasks", out, nil)
}

// GET /api/master-tasks/:id
func (h *MasterTaskController) GetMasterTask(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	d, err := h.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "master task detail", dto.FromTaskDetail(d))
}

// POST /api/master-tasks
func (h *MasterTaskController) CreateMasterTask(c *fiber.Ctx) error {
	var req dto.CreateMasterTaskRequest
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

	t, err := h.Svc.Create(c.UserContext(), in)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	h.Cache.Invalidate(c.UserContext())
	return helper.JsonCreated(c, "master task created", dto.FromMasterTaskModel(*t))
}

// PUT /api/master-tasks/:id
func (h *MasterTaskController) UpdateMasterTask(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateMasterTaskRequest
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

	t, err := h.Svc.Update(c.UserContext(), id, in)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	h.Cache.Invalidate(c.UserContext())
	return helper.JsonUpdated(c, "master task updated", dto.FromMasterTaskModel(*t))
}

// DELETE /api/master-tasks/:id
func (h *MasterTaskController) DeleteMasterTask(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.JsonFromError(c, err)
	}
	h.Cache.Invalidate(c.UserContext())
	return helper.JsonDeleted(c, "master task deleted", fiber.Map{"id": id})
}
