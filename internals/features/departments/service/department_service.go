// file: internals/features/departments/service/department_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"gorm.io/gorm"

	deptModel "weekreport_backend/internals/features/departments/model"
	mtModel "weekreport_backend/internals/features/master_tasks/model"
	weekModel "weekreport_backend/internals/features/weeks/model"
	helper "weekreport_backend/internals/helpers"
)

type DepartmentService struct {
	DB *gorm.DB
}

func NewDepartmentService(db *gorm.DB) *DepartmentService {
	return &DepartmentService{DB: db}
}

type DepartmentWithCount struct {
	Department      deptModel.DepartmentModel
	MasterTaskCount int64
}

type CreateDepartmentInput struct {
	Name        string
	Description *string
}

type UpdateDepartmentInput struct {
	Name           *string
	Description    *string
	DescriptionSet bool
}

// List returns active departments sorted by name (Vietnamese collation).
func (s *DepartmentService) List(ctx context.Context) ([]DepartmentWithCount, error) {
	var rows []deptModel.DepartmentModel
	if err := s.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	counts, err := s.masterTaskCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DepartmentWithCount, 0, len(rows))
	for _, d := range rows {
		out = append(out, DepartmentWithCount{Department: d, MasterTaskCount: counts[d.DepartmentID]})
	}
	helper.SortByName(out, func(d DepartmentWithCount) string { return d.Department.DepartmentName })
	return out, nil
}

type deptCount struct {
	DepartmentID uuid.UUID `gorm:"column:department_id"`
	Total        int64     `gorm:"column:total"`
}

func (s *DepartmentService) masterTaskCounts(ctx context.Context) (map[uuid.UUID]int64, error) {
	var rows []deptCount
	if err := s.DB.WithContext(ctx).Model(&mtModel.MasterTaskModel{}).
		Select("master_task_department_id AS department_id, COUNT(*) AS total").
		Group("master_task_department_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		out[r.DepartmentID] = r.Total
	}
	return out, nil
}

// Get returns an active department; a soft-deleted one is reported as not found.
func (s *DepartmentService) Get(ctx context.Context, id uuid.UUID) (*DepartmentWithCount, error) {
	var d deptModel.DepartmentModel
	if err := s.DB.WithContext(ctx).First(&d, "department_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("department")
		}
		return nil, err
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&mtModel.MasterTaskModel{}).
		Where("master_task_department_id = ?", id).
		Count(&n).Error; err != nil {
		return nil, err
	}
	return &DepartmentWithCount{Department: d, MasterTaskCount: n}, nil
}

func (s *DepartmentService) Create(ctx context.Context, in CreateDepartmentInput) (*deptModel.DepartmentModel, error) {
	name := strings.TrimSpace(in.Name)
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}
	d := deptModel.DepartmentModel{DepartmentName: name, DepartmentDescription: helper.TrimPtr(in.Description)}
	if err := s.DB.WithContext(ctx).Create(&d).Error; err != nil {
		return nil, err
	}
	lgr.Printf("[INFO] department created: %s (%s)", d.DepartmentName, d.DepartmentID)
	return &d, nil
}

func (s *DepartmentService) Update(ctx context.Context, id uuid.UUID, in UpdateDepartmentInput) (*deptModel.DepartmentModel, error) {
	db := s.DB.WithContext(ctx)
	var d deptModel.DepartmentModel
	if err := db.First(&d, "department_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("department")
		}
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name != d.DepartmentName {
			if err := s.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
		}
		updates["department_name"] = name
	}
	if in.DescriptionSet {
		updates["department_description"] = helper.TrimPtr(in.Description)
	}
	if len(updates) > 0 {
		if err := db.Model(&d).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	if err := db.First(&d, "department_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// Delete soft-deletes a department that no master task or ad-hoc task refers to.
func (s *DepartmentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d deptModel.DepartmentModel
		if err := tx.First(&d, "department_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("department")
			}
			return err
		}

		var tasks, adHoc int64
		if err := tx.Model(&mtModel.MasterTaskModel{}).Where("master_task_department_id = ?", id).Count(&tasks).Error; err != nil {
			return err
		}
		if err := tx.Model(&weekModel.AdHocTaskModel{}).Where("ad_hoc_task_department_id = ?", id).Count(&adHoc).Error; err != nil {
			return err
		}
		if tasks+adHoc > 0 {
			return &helper.DependentsError{
				Message:    "department still has tasks; delete or move them first",
				Dependents: tasks + adHoc,
			}
		}

		if err := tx.Delete(&d).Error; err != nil {
			return err
		}
		lgr.Printf("[INFO] department soft-deleted: %s", id)
		return nil
	})
}

// ensureNameFree: names are unique among active departments, compared case-insensitively.
func (s *DepartmentService) ensureNameFree(ctx context.Context, name string, exceptID uuid.UUID) error {
	q := s.DB.WithContext(ctx).Model(&deptModel.DepartmentModel{}).
		Where("LOWER(department_name) = LOWER(?)", name)
	if exceptID != uuid.Nil {
		q = q.Where("department_id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.NewConflict("department %q already exists", name)
	}
	return nil
}
