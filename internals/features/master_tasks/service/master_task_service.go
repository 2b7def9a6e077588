// file: internals/features/master_tasks/service/master_task_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	deptModel "weekreport_backend/internals/features/departments/model"
	mtModel "weekreport_backend/internals/features/master_tasks/model"
	progressSvc "weekreport_backend/internals/features/progress/service"
	weekModel "weekreport_backend/internals/features/weeks/model"
	helper "weekreport_backend/internals/helpers"
)

type MasterTaskService struct {
	DB     *gorm.DB
	Loader *progressSvc.Loader
}

func NewMasterTaskService(db *gorm.DB) *MasterTaskService {
	return &MasterTaskService{DB: db, Loader: progressSvc.NewLoader(db)}
}

/* =========================================================
   Inputs / outputs
   ========================================================= */

type ListFilter struct {
	DepartmentID    *uuid.UUID
	IncludeProgress bool
}

// ListItem carries Summary always; Detail only when the weekly series was asked for.
type ListItem struct {
	Task    mtModel.MasterTaskModel
	Summary progressSvc.Aggregate
	Detail  *progressSvc.Detail
}

type TaskDetail struct {
	Task    mtModel.MasterTaskModel
	Detail  progressSvc.Detail
	History []weekModel.WeekTaskProgressModel
}

type CreateMasterTaskInput struct {
	DepartmentID      uuid.UUID
	Name              string
	Description       *string
	EstimatedDuration *int
	StartDate         *time.Time
	EndDate           *time.Time
}

// UpdateMasterTaskInput: nil pointers are left untouched; the *Set flags allow clearing.
type UpdateMasterTaskInput struct {
	DepartmentID         *uuid.UUID
	Name                 *string
	Description          *string
	DescriptionSet       bool
	EstimatedDuration    *int
	EstimatedDurationSet bool
	StartDate            *time.Time
	StartDateSet         bool
	EndDate              *time.Time
	EndDateSet           bool
}

/* =========================================================
   Queries
   ========================================================= */

// List returns master tasks newest first with their progress aggregate.
func (s *MasterTaskService) List(ctx context.Context, f ListFilter) ([]ListItem, error) {
	q := s.DB.WithContext(ctx).
		Preload("Department", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("master_task_created_at DESC")
	if f.DepartmentID != nil {
		q = q.Where("master_task_department_id = ?", *f.DepartmentID)
	}
	var tasks []mtModel.MasterTaskModel
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(tasks))
	for i, t := range tasks {
		ids[i] = t.MasterTaskID
	}

	items := make([]ListItem, len(tasks))
	if f.IncludeProgress {
		details, err := s.Loader.Details(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i, t := range tasks {
			d := details[t.MasterTaskID]
			items[i] = ListItem{Task: t, Summary: d.Aggregate, Detail: &d}
		}
		return items, nil
	}

	summaries, err := s.Loader.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i, t := range tasks {
		items[i] = ListItem{Task: t, Summary: summaries[t.MasterTaskID]}
	}
	return items, nil
}

// Get returns one task with its series aggregate and its history newest week first.
func (s *MasterTaskService) Get(ctx context.Context, id uuid.UUID) (*TaskDetail, error) {
	var t mtModel.MasterTaskModel
	if err := s.DB.WithContext(ctx).
		Preload("Department", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&t, "master_task_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("master task")
		}
		return nil, err
	}

	details, err := s.Loader.Details(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	history, err := s.Loader.History(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TaskDetail{Task: t, Detail: details[id], History: history}, nil
}

/* =========================================================
   Commands
   ========================================================= */

func (s *MasterTaskService) Create(ctx context.Context, in CreateMasterTaskInput) (*mtModel.MasterTaskModel, error) {
	if err := checkTaskDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	if err := ensureActiveDepartment(db, in.DepartmentID); err != nil {
		return nil, err
	}

	t := mtModel.MasterTaskModel{
		MasterTaskDepartmentID:      in.DepartmentID,
		MasterTaskName:              strings.TrimSpace(in.Name),
		MasterTaskDescription:       helper.TrimPtr(in.Description),
		MasterTaskEstimatedDuration: in.EstimatedDuration,
		MasterTaskStartDate:         toDate(in.StartDate),
		MasterTaskEndDate:           toDate(in.EndDate),
	}
	if err := db.Create(&t).Error; err != nil {
		return nil, err
	}
	lgr.Printf("[INFO] master task created: %s (%s)", t.MasterTaskName, t.MasterTaskID)
	return s.reload(ctx, t.MasterTaskID)
}

func (s *MasterTaskService) Update(ctx context.Context, id uuid.UUID, in UpdateMasterTaskInput) (*mtModel.MasterTaskModel, error) {
	db := s.DB.WithContext(ctx)
	var t mtModel.MasterTaskModel
	if err := db.First(&t, "master_task_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("master task")
		}
		return nil, err
	}

	start, end := fromDate(t.MasterTaskStartDate), fromDate(t.MasterTaskEndDate)
	if in.StartDateSet {
		start = in.StartDate
	}
	if in.EndDateSet {
		end = in.EndDate
	}
	if err := checkTaskDates(start, end); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.DepartmentID != nil && *in.DepartmentID != t.MasterTaskDepartmentID {
		if err := ensureActiveDepartment(db, *in.DepartmentID); err != nil {
			return nil, err
		}
		updates["master_task_department_id"] = *in.DepartmentID
	}
	if in.Name != nil {
		updates["master_task_name"] = strings.TrimSpace(*in.Name)
	}
	if in.DescriptionSet {
		updates["master_task_description"] = helper.TrimPtr(in.Description)
	}
	if in.EstimatedDurationSet {
		updates["master_task_estimated_duration"] = in.EstimatedDuration
	}
	if in.StartDateSet {
		updates["master_task_start_date"] = toDate(in.StartDate)
	}
	if in.EndDateSet {
		updates["master_task_end_date"] = toDate(in.EndDate)
	}
	if len(updates) > 0 {
		if err := db.Model(&t).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.reload(ctx, id)
}

// Delete removes a master task that has never been reported on.
func (s *MasterTaskService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t mtModel.MasterTaskModel
		if err := tx.First(&t, "master_task_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("master task")
			}
			return err
		}
		var n int64
		if err := tx.Model(&weekModel.WeekTaskProgressModel{}).
			Where("task_progress_master_task_id = ?", id).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return &helper.DependentsError{
				Message:    "master task has weekly progress; remove it from those weeks first",
				Dependents: n,
			}
		}
		return tx.Delete(&t).Error
	})
}

func (s *MasterTaskService) reload(ctx context.Context, id uuid.UUID) (*mtModel.MasterTaskModel, error) {
	var t mtModel.MasterTaskModel
	if err := s.DB.WithContext(ctx).
		Preload("Department", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&t, "master_task_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func ensureActiveDepartment(db *gorm.DB, id uuid.UUID) error {
	var n int64
	if err := db.Model(&deptModel.DepartmentModel{}).Where("department_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.NewValidationError("department_id", "department not found")
	}
	return nil
}

func checkTaskDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return helper.NewValidationError("end_date", "must not be before start_date")
	}
	return nil
}

func toDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(*t)
	return &d
}

func fromDate(d *datatypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}
