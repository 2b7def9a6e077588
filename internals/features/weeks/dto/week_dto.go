// file: internals/features/weeks/dto/week_dto.go
package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	weekModel "weekreport_backend/internals/features/weeks/model"
	"weekreport_backend/internals/features/weeks/service"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/helpers/dbtime"
)

/* =========================================================
   Requests
   ========================================================= */

type TaskProgressItem struct {
	MasterTaskID string  `json:"master_task_id" validate:"required,uuid"`
	OrderNumber  int     `json:"order_number" validate:"gte=0"`
	Result       *string `json:"result"`
	TimePeriod   *string `json:"time_period" validate:"omitempty,max=120"`
	Progress     *int    `json:"progress" validate:"omitempty,gte=0,lte=100"`
	NextWeekPlan *string `json:"next_week_plan"`
	IsImportant  bool    `json:"is_important"`
}

type AdHocTaskItem struct {
	DepartmentID string  `json:"department_id" validate:"required,uuid"`
	OrderNumber  int     `json:"order_number" validate:"gte=0"`
	TaskName     string  `json:"task_name" validate:"required,max=255"`
	Result       *string `json:"result"`
	TimePeriod   *string `json:"time_period" validate:"omitempty,max=120"`
	Progress     *int    `json:"progress" validate:"omitempty,gte=0,lte=100"`
	NextWeekPlan *string `json:"next_week_plan"`
	IsImportant  bool    `json:"is_important"`
}

type CreateWeekRequest struct {
	WeekNumber    int                `json:"week_number" validate:"required,min=1,max=53"`
	Year          int                `json:"year" validate:"required,min=2000,max=2100"`
	StartDate     string             `json:"start_date" validate:"required"`
	EndDate       string             `json:"end_date" validate:"required"`
	ReportFileURL *string            `json:"report_file_url" validate:"omitempty,max=2048"`
	Status        string             `json:"status" validate:"omitempty,oneof=DRAFT COMPLETED"`
	TaskProgress  []TaskProgressItem `json:"task_progress" validate:"dive"`
	Tasks         []AdHocTaskItem    `json:"tasks" validate:"dive"`
}

// UpdateWeekRequest: absent fields stay untouched. task_progress / tasks, when present
// (even as []), replace the whole set.
type UpdateWeekRequest struct {
	WeekNumber    *int                      `json:"week_number" validate:"omitempty,min=1,max=53"`
	Year          *int                      `json:"year" validate:"omitempty,min=2000,max=2100"`
	StartDate     *string                   `json:"start_date"`
	EndDate       *string                   `json:"end_date"`
	ReportFileURL helper.PatchField[string] `json:"report_file_url"`
	Status        *string                   `json:"status" validate:"omitempty,oneof=DRAFT COMPLETED"`
	TaskProgress  *[]TaskProgressItem       `json:"task_progress" validate:"omitempty,dive"`
	Tasks         *[]AdHocTaskItem          `json:"tasks" validate:"omitempty,dive"`
}

func (r *CreateWeekRequest) Normalize() {
	r.ReportFileURL = helper.TrimPtr(r.ReportFileURL)
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	for i := range r.Tasks {
		r.Tasks[i].TaskName = strings.TrimSpace(r.Tasks[i].TaskName)
	}
}

func (r *UpdateWeekRequest) Normalize() {
	helper.TrimPatch(&r.ReportFileURL)
	if r.Status != nil {
		s := strings.ToUpper(strings.TrimSpace(*r.Status))
		r.Status = &s
	}
	if r.Tasks != nil {
		for i := range *r.Tasks {
			(*r.Tasks)[i].TaskName = strings.TrimSpace((*r.Tasks)[i].TaskName)
		}
	}
}

func (r *CreateWeekRequest) Validate(v *validator.Validate) error {
	return helper.ValidationFromValidator(v.Struct(r))
}

func (r *UpdateWeekRequest) Validate(v *validator.Validate) error {
	return helper.ValidationFromValidator(v.Struct(r))
}

func (r CreateWeekRequest) ToInput() (service.CreateWeekInput, error) {
	vErr := &helper.ValidationError{}
	start := parseDateField(vErr, "start_date", r.StartDate)
	end := parseDateField(vErr, "end_date", r.EndDate)
	progress := toProgressInputs(vErr, r.TaskProgress)
	adHoc := toAdHocInputs(vErr, r.Tasks)
	if !vErr.Empty() {
		return service.CreateWeekInput{}, vErr
	}
	return service.CreateWeekInput{
		WeekNumber:    r.WeekNumber,
		Year:          r.Year,
		StartDate:     start,
		EndDate:       end,
		ReportFileURL: r.ReportFileURL,
		Status:        weekModel.WeekStatus(r.Status),
		TaskProgress:  progress,
		AdHocTasks:    adHoc,
	}, nil
}

func (r UpdateWeekRequest) ToInput() (service.ReplaceTaskSetInput, error) {
	vErr := &helper.ValidationError{}
	var in service.ReplaceTaskSetInput

	in.Fields.WeekNumber = r.WeekNumber
	in.Fields.Year = r.Year
	if r.StartDate != nil {
		t := parseDateField(vErr, "start_date", *r.StartDate)
		in.Fields.StartDate = &t
	}
	if r.EndDate != nil {
		t := parseDateField(vErr, "end_date", *r.EndDate)
		in.Fields.EndDate = &t
	}
	if v, ok := r.ReportFileURL.Get(); ok {
		in.Fields.ReportFileURL = v
		in.Fields.ReportFileURLSet = true
	}
	if r.Status != nil {
		s := weekModel.WeekStatus(*r.Status)
		in.Fields.Status = &s
	}
	if r.TaskProgress != nil {
		items := toProgressInputs(vErr, *r.TaskProgress)
		in.TaskProgress = &items
	}
	if r.Tasks != nil {
		items := toAdHocInputs(vErr, *r.Tasks)
		in.AdHocTasks = &items
	}

	if !vErr.Empty() {
		return service.ReplaceTaskSetInput{}, vErr
	}
	return in, nil
}

func parseDateField(vErr *helper.ValidationError, field, raw string) time.Time {
	t, err := dbtime.ParseDate(raw)
	if err != nil {
		vErr.Add(field, "must be a date (YYYY-MM-DD)")
	}
	return t
}

func toProgressInputs(vErr *helper.ValidationError, items []TaskProgressItem) []service.TaskProgressInput {
	out := make([]service.TaskProgressInput, 0, len(items))
	for i, it := range items {
		id, err := uuid.Parse(it.MasterTaskID)
		if err != nil {
			vErr.Add(fmt.Sprintf("task_progress[%d].master_task_id", i), "must be a valid UUID")
			continue
		}
		out = append(out, service.TaskProgressInput{
			MasterTaskID: id,
			OrderNumber:  it.OrderNumber,
			Result:       it.Result,
			TimePeriod:   helper.TrimPtr(it.TimePeriod),
			Progress:     it.Progress,
			NextWeekPlan: it.NextWeekPlan,
			IsImportant:  it.IsImportant,
		})
	}
	return out
}

func toAdHocInputs(vErr *helper.ValidationError, items []AdHocTaskItem) []service.AdHocTaskInput {
	out := make([]service.AdHocTaskInput, 0, len(items))
	for i, it := range items {
		id, err := uuid.Parse(it.DepartmentID)
		if err != nil {
			vErr.Add(fmt.Sprintf("tasks[%d].department_id", i), "must be a valid UUID")
			continue
		}
		out = append(out, service.AdHocTaskInput{
			DepartmentID: id,
			OrderNumber:  it.OrderNumber,
			TaskName:     it.TaskName,
			Result:       it.Result,
			TimePeriod:   helper.TrimPtr(it.TimePeriod),
			Progress:     it.Progress,
			NextWeekPlan: it.NextWeekPlan,
			IsImportant:  it.IsImportant,
		})
	}
	return out
}
