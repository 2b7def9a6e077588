// file: internals/features/weeks/service/week_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	deptModel "weekreport_backend/internals/features/departments/model"
	mtModel "weekreport_backend/internals/features/master_tasks/model"
	weekModel "weekreport_backend/internals/features/weeks/model"
	helper "weekreport_backend/internals/helpers"
)

// Notifier is told about weeks saved with status COMPLETED. Failures are the notifier's problem.
type Notifier interface {
	WeekCompleted(ctx context.Context, week weekModel.WeekModel)
}

type WeekService struct {
	DB       *gorm.DB
	Notifier Notifier
	Now      func() time.Time
}

func NewWeekService(db *gorm.DB, notifier Notifier) *WeekService {
	return &WeekService{DB: db, Notifier: notifier, Now: time.Now}
}

func (s *WeekService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *WeekService) notifyCompleted(ctx context.Context, weekID uuid.UUID) {
	if s.Notifier == nil {
		return
	}
	var w weekModel.WeekModel
	if err := s.DB.WithContext(ctx).First(&w, "week_id = ?", weekID).Error; err != nil {
		return
	}
	if w.WeekStatus == weekModel.WeekStatusCompleted {
		s.Notifier.WeekCompleted(ctx, w)
	}
}

/* =========================================================
   Inputs
   ========================================================= */

type TaskProgressInput struct {
	MasterTaskID uuid.UUID
	OrderNumber  int
	Result       *string
	TimePeriod   *string
	Progress     *int
	NextWeekPlan *string
	IsImportant  bool
}

type AdHocTaskInput struct {
	DepartmentID uuid.UUID
	OrderNumber  int
	TaskName     string
	Result       *string
	TimePeriod   *string
	Progress     *int
	NextWeekPlan *string
	IsImportant  bool
}

type CreateWeekInput struct {
	WeekNumber    int
	Year          int
	StartDate     time.Time
	EndDate       time.Time
	ReportFileURL *string
	Status        weekModel.WeekStatus
	TaskProgress  []TaskProgressInput
	AdHocTasks    []AdHocTaskInput
}

// WeekFieldsPatch: nil means "leave as is". ReportFileURL is cleared when ReportFileURLSet and nil.
type WeekFieldsPatch struct {
	WeekNumber       *int
	Year             *int
	StartDate        *time.Time
	EndDate          *time.Time
	ReportFileURL    *string
	ReportFileURLSet bool
	Status           *weekModel.WeekStatus
}

// ReplaceTaskSetInput: a nil TaskProgress leaves progress rows alone;
// a non-nil (even empty) one replaces them all. Same for AdHocTasks.
type ReplaceTaskSetInput struct {
	Fields       WeekFieldsPatch
	TaskProgress *[]TaskProgressInput
	AdHocTasks   *[]AdHocTaskInput
}

type ReplaceResult struct {
	WeekID          uuid.UUID   `json:"week_id"`
	TaskProgressIDs []uuid.UUID `json:"task_progress_ids"`
	AdHocTaskIDs    []uuid.UUID `json:"ad_hoc_task_ids"`
}

/* =========================================================
   Shared checks
   ========================================================= */

func checkDuplicateMasterTasks(items []TaskProgressInput) error {
	seen := make(map[uuid.UUID]int, len(items))
	var vErr *helper.ValidationError
	for i, it := range items {
		if first, ok := seen[it.MasterTaskID]; ok {
			if vErr == nil {
				vErr = &helper.ValidationError{}
			}
			vErr.Add(fmt.Sprintf("task_progress[%d].master_task_id", i),
				fmt.Sprintf("duplicates task_progress[%d]", first))
			continue
		}
		seen[it.MasterTaskID] = i
	}
	if vErr.Empty() {
		return nil
	}
	return vErr
}

func checkDateRange(start, end time.Time) error {
	if end.Before(start) {
		return helper.NewValidationError("end_date", "must not be before start_date")
	}
	return nil
}

// ensureMasterTasksExist must run inside the write transaction.
func ensureMasterTasksExist(tx *gorm.DB, items []TaskProgressInput) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.MasterTaskID)
	}
	var found []uuid.UUID
	if err := tx.Model(&mtModel.MasterTaskModel{}).
		Where("master_task_id IN ?", ids).
		Pluck("master_task_id", &found).Error; err != nil {
		return err
	}
	return missingRefs(found, ids, "task_progress[%d].master_task_id", "master task not found")
}

// ensureDepartmentsExist only accepts active (not soft-deleted) departments.
func ensureDepartmentsExist(tx *gorm.DB, items []AdHocTaskInput) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.DepartmentID)
	}
	var found []uuid.UUID
	if err := tx.Model(&deptModel.DepartmentModel{}).
		Where("department_id IN ?", ids).
		Pluck("department_id", &found).Error; err != nil {
		return err
	}
	return missingRefs(found, ids, "tasks[%d].department_id", "department not found")
}

func missingRefs(found, wanted []uuid.UUID, fieldFmt, msg string) error {
	ok := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		ok[id] = true
	}
	var vErr *helper.ValidationError
	for i, id := range wanted {
		if !ok[id] {
			if vErr == nil {
				vErr = &helper.ValidationError{}
			}
			vErr.Add(fmt.Sprintf(fieldFmt, i), msg)
		}
	}
	if vErr.Empty() {
		return nil
	}
	return vErr
}

func buildProgressRows(weekID uuid.UUID, items []TaskProgressInput, now time.Time) []weekModel.WeekTaskProgressModel {
	rows := make([]weekModel.WeekTaskProgressModel, 0, len(items))
	for _, it := range items {
		rows = append(rows, weekModel.WeekTaskProgressModel{
			TaskProgressID:           uuid.New(),
			TaskProgressWeekID:       weekID,
			TaskProgressMasterTaskID: it.MasterTaskID,
			TaskProgressOrderNumber:  it.OrderNumber,
			TaskProgressResult:       it.Result,
			TaskProgressTimePeriod:   it.TimePeriod,
			TaskProgressProgress:     it.Progress,
			TaskProgressNextWeekPlan: it.NextWeekPlan,
			TaskProgressIsImportant:  it.IsImportant,
			TaskProgressCompletedAt:  weekModel.CompletedAtFor(it.Progress, now),
			TaskProgressCreatedAt:    now,
			TaskProgressUpdatedAt:    now,
		})
	}
	return rows
}

func buildAdHocRows(weekID uuid.UUID, items []AdHocTaskInput, now time.Time) []weekModel.AdHocTaskModel {
	rows := make([]weekModel.AdHocTaskModel, 0, len(items))
	for _, it := range items {
		rows = append(rows, weekModel.AdHocTaskModel{
			AdHocTaskID:           uuid.New(),
			AdHocTaskWeekID:       weekID,
			AdHocTaskDepartmentID: it.DepartmentID,
			AdHocTaskOrderNumber:  it.OrderNumber,
			AdHocTaskName:         it.TaskName,
			AdHocTaskResult:       it.Result,
			AdHocTaskTimePeriod:   it.TimePeriod,
			AdHocTaskProgress:     it.Progress,
			AdHocTaskNextWeekPlan: it.NextWeekPlan,
			AdHocTaskIsImportant:  it.IsImportant,
			AdHocTaskCompletedAt:  weekModel.CompletedAtFor(it.Progress, now),
			AdHocTaskCreatedAt:    now,
			AdHocTaskUpdatedAt:    now,
		})
	}
	return rows
}

func progressIDs(rows []weekModel.WeekTaskProgressModel) []uuid.UUID {
	out := make([]uuid.UUID, len(rows))
	for i := range rows {
		out[i] = rows[i].TaskProgressID
	}
	return out
}

func adHocIDs(rows []weekModel.AdHocTaskModel) []uuid.UUID {
	out := make([]uuid.UUID, len(rows))
	for i := range rows {
		out[i] = rows[i].AdHocTaskID
	}
	return out
}
