package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	deptModel "weekreport_backend/internals/features/departments/model"
	"weekreport_backend/internals/features/departments/service"
	helper "weekreport_backend/internals/helpers"
)

// ====================
// Request DTO
// ====================

type CreateDepartmentRequest struct {
	Name        string  `json:"name" validate:"required,max=150"`
	Description *string `json:"description"`
}

type UpdateDepartmentRequest struct {
	Name        *string                   `json:"name" validate:"omitempty,min=1,max=150"`
	Description helper.PatchField[string] `json:"description"`
}

func (r *CreateDepartmentRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = helper.TrimPtr(r.Description)
}

func (r *UpdateDepartmentRequest) Normalize() {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		r.Name = &n
	}
	helper.TrimPatch(&r.Description)
}

func (r *CreateDepartmentRequest) Validate(v *validator.Validate) error {
	return helper.ValidationFromValidator(v.Struct(r))
}

func (r *UpdateDepartmentRequest) Validate(v *validator.Validate) error {
	return helper.ValidationFromValidator(v.Struct(r))
}

func (r CreateDepartmentRequest) ToInput() service.CreateDepartmentInput {
	return service.CreateDepartmentInput{Name: r.Name, Description: r.Description}
}

func (r UpdateDepartmentRequest) ToInput() service.UpdateDepartmentInput {
	desc, set := r.Description.Get()
	return service.UpdateDepartmentInput{Name: r.Name, Description: desc, DescriptionSet: set}
}

// ====================
// Response DTO
// ====================

type DepartmentResponse struct {
	ID              uuid.UUID                 `json:"id"`
	Name            string                    `json:"name"`
	Description     *string                   `json:"description"`
	State           deptModel.DepartmentState `json:"state"`
	MasterTaskCount *int64                    `json:"master_task_count,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

func FromDepartmentModel(d deptModel.DepartmentModel) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.DepartmentID,
		Name:        d.DepartmentName,
		Description: d.DepartmentDescription,
		State:       d.State(),
		CreatedAt:   d.DepartmentCreatedAt,
		UpdatedAt:   d.DepartmentUpdatedAt,
	}
}

func FromDepartmentWithCount(d service.DepartmentWithCount) DepartmentResponse {
	out := FromDepartmentModel(d.Department)
	n := d.MasterTaskCount
	out.MasterTaskCount = &n
	return out
}
