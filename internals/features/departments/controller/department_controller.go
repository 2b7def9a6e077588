package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"weekreport_backend/internals/features/departments/dto"
	"weekreport_backend/internals/features/departments/service"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/helpers/cache"
)

type DepartmentController struct {
	Svc      *service.DepartmentService
	Validate *validator.Validate
	Cache    *cache.ReportCache
}

func NewDepartmentController(db *gorm.DB, rc *cache.ReportCache) *DepartmentController {
	return &DepartmentController{Svc: service.NewDepartmentService(db), Validate: helper.NewValidator(), Cache: rc}
}

// GET /api/departments
func (h *DepartmentController) ListDepartments(c *fiber.Ctx) error {
	rows, err := h.Svc.List(c.UserContext())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out := make([]dto.DepartmentResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromDepartmentWithCount(r))
	}
	return helper.JsonList(c, "departments", out, nil)
}

// GET /api/departments/:id
func (h *DepartmentController) GetDepartment(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	d, err := h.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "department detail", dto.FromDepartmentWithCount(*d))
}

// POST /api/departments
func (h *DepartmentController) CreateDepartment(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := req.Validate(h.Validate); err != nil {
		return helper.JsonFromError(c, err)
	}

	d, err := h.Svc.Create(c.UserContext(), req.ToInput())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	h.Cache.Invalidate(c.UserContext())
	return helper.JsonCreated(c, "department created", dto.FromDepartmentModel(*d))
}

// PUT /api/departments/:id
func (h *DepartmentController) UpdateDepartment(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := req.Validate(h.Validate); err != nil {
		return helper.JsonFromError(c, err)
	}

	d, err := h.Svc.Update(c.UserContext(), id, req.ToInput())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	h.Cache.Invalidate(c.UserContext())
	return helper.JsonUpdated(c, "department updated", dto.FromDepartmentModel(*d))
}

// DELETE /api/departments/:id (soft)
func (h *DepartmentController) DeleteDepartment(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.JsonFromError(c, err)
	}
	h.Cache.Invalidate(c.UserContext())
	return helper.JsonDeleted(c, "department deleted", fiber.Map{"id": id})
}
