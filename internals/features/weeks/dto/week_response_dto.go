// file: internals/features/weeks/dto/week_response_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	weekModel "weekreport_backend/internals/features/weeks/model"
	"weekreport_backend/internals/features/weeks/service"
	"weekreport_backend/internals/helpers/dbtime"
)

// ====================
// Response DTO
// ====================

type UserBrief struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type DepartmentBrief struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type MasterTaskBrief struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	DepartmentID uuid.UUID `json:"department_id"`
}

type WeekResponse struct {
	ID            uuid.UUID  `json:"id"`
	WeekNumber    int        `json:"week_number"`
	Year          int        `json:"year"`
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	Status        string     `json:"status"`
	ReportFileURL *string    `json:"report_file_url"`
	CreatedByID   uuid.UUID  `json:"created_by_id"`
	CreatedBy     *UserBrief `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type WeekListItemResponse struct {
	WeekResponse
	DepartmentCount int   `json:"department_count"`
	TaskCount       int64 `json:"task_count"`
}

type TaskProgressResponse struct {
	ID           uuid.UUID        `json:"id"`
	WeekID       uuid.UUID        `json:"week_id"`
	MasterTaskID uuid.UUID        `json:"master_task_id"`
	MasterTask   *MasterTaskBrief `json:"master_task,omitempty"`
	OrderNumber  int              `json:"order_number"`
	Result       *string          `json:"result"`
	TimePeriod   *string          `json:"time_period"`
	Progress     *int             `json:"progress"`
	NextWeekPlan *string          `json:"next_week_plan"`
	IsImportant  bool             `json:"is_important"`
	CompletedAt  *time.Time       `json:"completed_at"`
	CreatedAt    time.Time        `json:"created_at"`
}

type AdHocTaskResponse struct {
	ID           uuid.UUID  `json:"id"`
	WeekID       uuid.UUID  `json:"week_id"`
	DepartmentID uuid.UUID  `json:"department_id"`
	OrderNumber  int        `json:"order_number"`
	TaskName     string     `json:"task_name"`
	Result       *string    `json:"result"`
	TimePeriod   *string    `json:"time_period"`
	Progress     *int       `json:"progress"`
	NextWeekPlan *string    `json:"next_week_plan"`
	IsImportant  bool       `json:"is_important"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

type DepartmentGroupResponse struct {
	Department   DepartmentBrief        `json:"department"`
	TaskProgress []TaskProgressResponse `json:"task_progress"`
	Tasks        []AdHocTaskResponse    `json:"tasks"`
}

type WeekDetailResponse struct {
	WeekResponse
	TaskProgress      []TaskProgressResponse    `json:"task_progress"`
	Tasks             []AdHocTaskResponse       `json:"tasks"`
	TasksByDepartment []DepartmentGroupResponse `json:"tasks_by_department"`
}

// UpdateWeekResponse is the re-read week plus the ids of the rows the update inserted.
type UpdateWeekResponse struct {
	WeekDetailResponse
	NewTaskProgressIDs []uuid.UUID `json:"new_task_progress_ids"`
	NewTaskIDs         []uuid.UUID `json:"new_task_ids"`
}

// ====================
// Converters
// ====================

func FromWeekModel(w weekModel.WeekModel) WeekResponse {
	out := WeekResponse{
		ID:            w.WeekID,
		WeekNumber:    w.WeekNumber,
		Year:          w.WeekYear,
		StartDate:     dbtime.FormatDate(time.Time(w.WeekStartDate)),
		EndDate:       dbtime.FormatDate(time.Time(w.WeekEndDate)),
		Status:        string(w.WeekStatus),
		ReportFileURL: w.WeekReportFileURL,
		CreatedByID:   w.WeekCreatedByID,
		CreatedAt:     w.WeekCreatedAt,
		UpdatedAt:     w.WeekUpdatedAt,
	}
	if w.CreatedBy != nil {
		out.CreatedBy = &UserBrief{ID: w.CreatedBy.ID, Name: w.CreatedBy.UserName, Email: w.CreatedBy.Email}
	}
	return out
}

func FromWeekListItems(items []service.WeekListItem) []WeekListItemResponse {
	out := make([]WeekListItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, WeekListItemResponse{
			WeekResponse:    FromWeekModel(it.Week),
			DepartmentCount: it.DepartmentCount,
			TaskCount:       it.TaskCount,
		})
	}
	return out
}

func FromTaskProgress(p weekModel.WeekTaskProgressModel) TaskProgressResponse {
	out := TaskProgressResponse{
		ID:           p.TaskProgressID,
		WeekID:       p.TaskProgressWeekID,
		MasterTaskID: p.TaskProgressMasterTaskID,
		OrderNumber:  p.TaskProgressOrderNumber,
		Result:       p.TaskProgressResult,
		TimePeriod:   p.TaskProgressTimePeriod,
		Progress:     p.TaskProgressProgress,
		NextWeekPlan: p.TaskProgressNextWeekPlan,
		IsImportant:  p.TaskProgressIsImportant,
		CompletedAt:  p.TaskProgressCompletedAt,
		CreatedAt:    p.TaskProgressCreatedAt,
	}
	if mt := p.MasterTask; mt != nil {
		out.MasterTask = &MasterTaskBrief{ID: mt.MasterTaskID, Name: mt.MasterTaskName, DepartmentID: mt.MasterTaskDepartmentID}
	}
	return out
}

func FromAdHocTask(a weekModel.AdHocTaskModel) AdHocTaskResponse {
	return AdHocTaskResponse{
		ID:           a.AdHocTaskID,
		WeekID:       a.AdHocTaskWeekID,
		DepartmentID: a.AdHocTaskDepartmentID,
		OrderNumber:  a.AdHocTaskOrderNumber,
		TaskName:     a.AdHocTaskName,
		Result:       a.AdHocTaskResult,
		TimePeriod:   a.AdHocTaskTimePeriod,
		Progress:     a.AdHocTaskProgress,
		NextWeekPlan: a.AdHocTaskNextWeekPlan,
		IsImportant:  a.AdHocTaskIsImportant,
		CompletedAt:  a.AdHocTaskCompletedAt,
		CreatedAt:    a.AdHocTaskCreatedAt,
	}
}

func FromWeekDetail(d *service.WeekDetail) WeekDetailResponse {
	out := WeekDetailResponse{
		WeekResponse:      FromWeekModel(d.Week),
		TaskProgress:      make([]TaskProgressResponse, 0, len(d.Week.TaskProgress)),
		Tasks:             make([]AdHocTaskResponse, 0, len(d.Week.AdHocTasks)),
		TasksByDepartment: make([]DepartmentGroupResponse, 0, len(d.TasksByDepartment)),
	}
	for _, p := range d.Week.TaskProgress {
		out.TaskProgress = append(out.TaskProgress, FromTaskProgress(p))
	}
	for _, a := range d.Week.AdHocTasks {
		out.Tasks = append(out.Tasks, FromAdHocTask(a))
	}
	for _, g := range d.TasksByDepartment {
		grp := DepartmentGroupResponse{
			Department:   DepartmentBrief{ID: g.Department.DepartmentID, Name: g.Department.DepartmentName},
			TaskProgress: make([]TaskProgressResponse, 0, len(g.TaskProgress)),
			Tasks:        make([]AdHocTaskResponse, 0, len(g.AdHocTasks)),
		}
		for _, p := range g.TaskProgress {
			grp.TaskProgress = append(grp.TaskProgress, FromTaskProgress(p))
		}
		for _, a := range g.AdHocTasks {
			grp.Tasks = append(grp.Tasks, FromAdHocTask(a))
		}
		out.TasksByDepartment = append(out.TasksByDepartment, grp)
	}
	return out
}
