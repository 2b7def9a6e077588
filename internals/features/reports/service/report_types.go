// file: internals/features/reports/service/report_types.go
package service

import (
	"time"

	"github.com/google/uuid"

	progressSvc "weekreport_backend/internals/features/progress/service"
)

// Every report payload is cached as JSON, so these types carry their wire tags.

type DepartmentRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// TaskView is one master task with its full progress detail, the input of every report.
type TaskView struct {
	ID                uuid.UUID     `json:"id"`
	Name              string        `json:"name"`
	Description       *string       `json:"description"`
	EstimatedDuration *int          `json:"estimated_duration"`
	Department        DepartmentRef `json:"department"`
	CreatedAt         time.Time     `json:"created_at"`
	progressSvc.Detail
}

type TaskBrief struct {
	ID         uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	Department DepartmentRef `json:"department"`
	progressSvc.Aggregate
}

type WeekSummary struct {
	ID              uuid.UUID `json:"id"`
	WeekNumber      int       `json:"week_number"`
	Year            int       `json:"year"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	Status          string    `json:"status"`
	DepartmentCount int       `json:"department_count"`
	TaskCount       int64     `json:"task_count"`
}

/* ===============================
   Overview
=================================*/

type OverviewReport struct {
	TotalDepartments int64         `json:"total_departments"`
	TotalMasterTasks int           `json:"total_master_tasks"`
	TasksInProgress  int           `json:"tasks_in_progress"`
	TasksCompleted   int           `json:"tasks_completed"`
	CompletionRate   int           `json:"completion_rate"`
	RecentWeeks      []WeekSummary `json:"recent_weeks"`
	ImportantTasks   []TaskBrief   `json:"important_tasks"`
}

/* ===============================
   Task metrics
=================================*/

type TaskCounts struct {
	TotalTasks      int   `json:"total_tasks"`
	CompletedTasks  int   `json:"completed_tasks"`
	InProgressTasks int   `json:"in_progress_tasks"`
	NotStartedTasks int   `json:"not_started_tasks"`
	AvgProgress     int   `json:"avg_progress"`
	TotalWeeks      int64 `json:"total_weeks"`
	CompletionRate  int   `json:"completion_rate"`
}

type DepartmentMetrics struct {
	Department DepartmentRef `json:"department"`
	TaskCounts
}

type OverallMetrics struct {
	TaskCounts
	AvgWeeksPerTask int `json:"avg_weeks_per_task"`
}

type MonthlyMetrics struct {
	Month             int    `json:"month"`
	Label             string `json:"label"`
	TasksWithProgress int    `json:"tasks_with_progress"`
	CompletedInMonth  int    `json:"completed_in_month"`
	AvgProgress       int    `json:"avg_progress"`
}

type TaskMetricsReport struct {
	Year           int                 `json:"year"`
	Overall        OverallMetrics      `json:"overall"`
	Departments    []DepartmentMetrics `json:"departments"`
	Monthly        []MonthlyMetrics    `json:"monthly"`
	TopDepartments []DepartmentMetrics `json:"top_departments"`
	TopTasks       []TaskBrief         `json:"top_tasks"`
}

/* ===============================
   Timeline
=================================*/

type Quarter struct {
	Name     string `json:"name"`
	FromWeek int    `json:"from_week"`
	ToWeek   int    `json:"to_week"`
}

type QuarterSummary struct {
	Quarter
	TaskCount   int `json:"task_count"`
	AvgProgress int `json:"avg_progress"`
}

type TimelineTask struct {
	ID             uuid.UUID                         `json:"id"`
	Name           string                            `json:"name"`
	LatestProgress int                               `json:"latest_progress"`
	IsCompleted    bool                              `json:"is_completed"`
	WeekCount      int64                             `json:"week_count"`
	Points         []progressSvc.WeeklyProgressPoint `json:"points"`
}

type TimelineDepartment struct {
	Department DepartmentRef  `json:"department"`
	Tasks      []TimelineTask `json:"tasks"`
}

type TimelineReport struct {
	Year        int                  `json:"year"`
	Departments []TimelineDepartment `json:"departments"`
	Quarters    []QuarterSummary     `json:"quarters"`
}

/* ===============================
   Tasks overview
=================================*/

type GroupBy string

const (
	GroupByTask       GroupBy = "task"
	GroupByDepartment GroupBy = "department"
)

type TaskGroup struct {
	Key   uuid.UUID  `json:"key"`
	Name  string     `json:"name"`
	Items []TaskView `json:"items"`
}

type TasksOverview struct {
	GroupBy         GroupBy     `json:"group_by"`
	TotalTasks      int         `json:"total_tasks"`
	InProgressTasks int         `json:"in_progress_tasks"`
	CompletedTasks  int         `json:"completed_tasks"`
	NotStartedTasks int         `json:"not_started_tasks"`
	Groups          []TaskGroup `json:"groups"`
}
