// file: internals/features/master_tasks/dto/master_task_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	mtModel "weekreport_backend/internals/features/master_tasks/model"
	"weekreport_backend/internals/features/master_tasks/service"
	progressSvc "weekreport_backend/internals/features/progress/service"
	weekModel "weekreport_backend/internals/features/weeks/model"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/helpers/dbtime"
)

/* =========================================================
   Requests
   ========================================================= */

type CreateMasterTaskRequest struct {
	DepartmentID      string  `json:"department_id" validate:"required,uuid"`
	Name              string  `json:"name" validate:"required,max=255"`
	Description       *string `json:"description"`
	EstimatedDuration *int    `json:"estimated_duration" validate:"omitempty,gte=1,lte=520"`
	StartDate         *string `json:"start_date"`
	EndDate           *string `json:"end_date"`
}

type UpdateMasterTaskRequest struct {
	DepartmentID      *string                   `json:"department_id" validate:"omitempty,uuid"`
	Name              *string                   `json:"name" validate:"omitempty,min=1,max=255"`
	Description       helper.PatchField[string] `json:"description"`
	EstimatedDuration helper.PatchField[int]    `json:"estimated_duration"`
	StartDate         helper.PatchField[string] `json:"start_date"`
	EndDate           helper.PatchField[string] `json:"end_date"`
}

func (r *CreateMasterTaskRequest) Normalize() {
	r.DepartmentID = strings.TrimSpace(r.DepartmentID)
	r.Name = strings.TrimSpace(r.Name)
	r.Description = helper.TrimPtr(r.Description)
	r.StartDate = helper.TrimPtr(r.StartDate)
	r.EndDate = helper.TrimPtr(r.EndDate)
}

func (r *UpdateMasterTaskRequest) Normalize() {
	r.DepartmentID = helper.TrimPtr(r.DepartmentID)
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		r.Name = &n
	}
	helper.TrimPatch(&r.Description)
	helper.TrimPatch(&r.StartDate)
	helper.TrimPatch(&r.EndDate)
}

func (r *CreateMasterTaskRequest) Validate(v *validator.Validate) error {
	return helper.ValidationFromValidator(v.Struct(r))
}

func (r *UpdateMasterTaskRequest) Validate(v *validator.Validate) error {
	if err := helper.ValidationFromValidator(v.Struct(r)); err != nil {
		return err
	}
	if d, ok := r.EstimatedDuration.Get(); ok && d != nil && (*d < 1 || *d > 520) {
		return helper.NewValidationError("estimated_duration", "must be between 1 and 520")
	}
	return nil
}

func (r CreateMasterTaskRequest) ToInput() (service.CreateMasterTaskInput, error) {
	vErr := &helper.ValidationError{}
	in := service.CreateMasterTaskInput{
		Name:              r.Name,
		Description:       r.Description,
		EstimatedDuration: r.EstimatedDuration,
	}
	in.DepartmentID, _ = uuid.Parse(r.DepartmentID)
	in.StartDate = optionalDate(vErr, "start_date", r.StartDate)
	in.EndDate = optionalDate(vErr, "end_date", r.EndDate)
	if !vErr.Empty() {
		return service.CreateMasterTaskInput{}, vErr
	}
	return in, nil
}

func (r UpdateMasterTaskRequest) ToInput() (service.UpdateMasterTaskInput, error) {
	vErr := &helper.ValidationError{}
	var in service.UpdateMasterTaskInput
	if r.DepartmentID != nil {
		id, _ := uuid.Parse(*r.DepartmentID)
		in.DepartmentID = &id
	}
	in.Name = r.Name
	in.Description, in.DescriptionSet = r.Description.Get()
	in.EstimatedDuration, in.EstimatedDurationSet = r.EstimatedDuration.Get()
	if v, ok := r.StartDate.Get(); ok {
		in.StartDateSet = true
		in.StartDate = optionalDate(vErr, "start_date", v)
	}
	if v, ok := r.EndDate.Get(); ok {
		in.EndDateSet = true
		in.EndDate = optionalDate(vErr, "end_date", v)
	}
	if !vErr.Empty() {
		return service.UpdateMasterTaskInput{}, vErr
	}
	return in, nil
}

func optionalDate(vErr *helper.ValidationError, field string, raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	t, err := dbtime.ParseDate(*raw)
	if err != nil {
		vErr.Add(field, "must be a date (YYYY-MM-DD)")
		return nil
	}
	return &t
}

/* =========================================================
   Responses
   ========================================================= */

type DepartmentBrief struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type MasterTaskResponse struct {
	ID                uuid.UUID        `json:"id"`
	DepartmentID      uuid.UUID        `json:"department_id"`
	Department        *DepartmentBrief `json:"department,omitempty"`
	Name              string           `json:"name"`
	Description       *string          `json:"description"`
	EstimatedDuration *int             `json:"estimated_duration"`
	StartDate         *string          `json:"start_date"`
	EndDate           *string          `json:"end_date"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// MasterTaskWithProgress is the list row: task + aggregate (+ series when asked).
type MasterTaskWithProgress struct {
	MasterTaskResponse
	progressSvc.Aggregate
	WeeklyProgress []progressSvc.WeeklyProgressPoint `json:"weekly_progress,omitempty"`
	FirstWeek      *progressSvc.WeekRef              `json:"first_week,omitempty"`
	LastWeek       *progressSvc.WeekRef              `json:"last_week,omitempty"`
}

type HistoryWeek struct {
	ID         uuid.UUID `json:"id"`
	WeekNumber int       `json:"week_number"`
	Year       int       `json:"year"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Status     string    `json:"status"`
}

type HistoryEntry struct {
	ID           uuid.UUID    `json:"id"`
	Week         *HistoryWeek `json:"week"`
	OrderNumber  int          `json:"order_number"`
	Result       *string      `json:"result"`
	TimePeriod   *string      `json:"time_period"`
	Progress     *int         `json:"progress"`
	NextWeekPlan *string      `json:"next_week_plan"`
	IsImportant  bool         `json:"is_important"`
	CompletedAt  *time.Time   `json:"completed_at"`
	CreatedAt    time.Time    `json:"created_at"`
}

type MasterTaskDetailResponse struct {
	MasterTaskWithProgress
	History []HistoryEntry `json:"history"`
}

func FromMasterTaskModel(t mtModel.MasterTaskModel) MasterTaskResponse {
	out := MasterTaskResponse{
		ID:                t.MasterTaskID,
		DepartmentID:      t.MasterTaskDepartmentID,
		Name:              t.MasterTaskName,
		Description:       t.MasterTaskDescription,
		EstimatedDuration: t.MasterTaskEstimatedDuration,
		StartDate:         formatDate(t.MasterTaskStartDate),
		EndDate:           formatDate(t.MasterTaskEndDate),
		CreatedAt:         t.MasterTaskCreatedAt,
		UpdatedAt:         t.MasterTaskUpdatedAt,
	}
	if d := t.Department; d != nil {
		out.Department = &DepartmentBrief{ID: d.DepartmentID, Name: d.DepartmentName}
	}
	return out
}

func FromListItem(it service.ListItem) MasterTaskWithProgress {
	out := MasterTaskWithProgress{
		MasterTaskResponse: FromMasterTaskModel(it.Task),
		Aggregate:          it.Summary,
	}
	if it.Detail != nil {
		out.WeeklyProgress = it.Detail.WeeklyProgress
		out.FirstWeek = it.Detail.FirstWeek
		out.LastWeek = it.Detail.LastWeek
	}
	return out
}

func FromTaskDetail(d *service.TaskDetail) MasterTaskDetailResponse {
	out := MasterTaskDetailResponse{
		MasterTaskWithProgress: MasterTaskWithProgress{
			MasterTaskResponse: FromMasterTaskModel(d.Task),
			Aggregate:          d.Detail.Aggregate,
			WeeklyProgress:     d.Detail.WeeklyProgress,
			FirstWeek:          d.Detail.FirstWeek,
			LastWeek:           d.Detail.LastWeek,
		},
		History: make([]HistoryEntry, 0, len(d.History)),
	}
	for _, p := range d.History {
		out.History = append(out.History, fromHistoryRow(p))
	}
	return out
}

func fromHistoryRow(p weekModel.WeekTaskProgressModel) HistoryEntry {
	e := HistoryEntry{
		ID:           p.TaskProgressID,
		OrderNumber:  p.TaskProgressOrderNumber,
		Result:       p.TaskProgressResult,
		TimePeriod:   p.TaskProgressTimePeriod,
		Progress:     p.TaskProgressProgress,
		NextWeekPlan: p.TaskProgressNextWeekPlan,
		IsImportant:  p.TaskProgressIsImportant,
		CompletedAt:  p.TaskProgressCompletedAt,
		CreatedAt:    p.TaskProgressCreatedAt,
	}
	if w := p.Week; w != nil {
		e.Week = &HistoryWeek{
			ID:         w.WeekID,
			WeekNumber: w.WeekNumber,
			Year:       w.WeekYear,
			StartDate:  dbtime.FormatDate(time.Time(w.WeekStartDate)),
			EndDate:    dbtime.FormatDate(time.Time(w.WeekEndDate)),
			Status:     string(w.WeekStatus),
		}
	}
	return e
}

func formatDate(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := dbtime.FormatDate(time.Time(*d))
	return &s
}
