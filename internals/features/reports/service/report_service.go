// file: internals/features/reports/service/report_service.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	deptSvc "weekreport_backend/internals/features/departments/service"
	mtSvc "weekreport_backend/internals/features/master_tasks/service"
	weekSvc "weekreport_backend/internals/features/weeks/service"
	"weekreport_backend/internals/helpers/dbtime"
)

// ReportService derives the dashboard reports from master-task aggregates.
// It owns no tables; everything is read through the feature services.
type ReportService struct {
	Departments *deptSvc.DepartmentService
	Tasks       *mtSvc.MasterTaskService
	Weeks       *weekSvc.WeekService
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{
		Departments: deptSvc.NewDepartmentService(db),
		Tasks:       mtSvc.NewMasterTaskService(db),
		Weeks:       weekSvc.NewWeekService(db, nil),
	}
}

// loadTasks reads every master task (of one department when given) with its full series.
func (s *ReportService) loadTasks(ctx context.Context, departmentID *uuid.UUID) ([]TaskView, error) {
	items, err := s.Tasks.List(ctx, mtSvc.ListFilter{DepartmentID: departmentID, IncludeProgress: true})
	if err != nil {
		return nil, err
	}
	out := make([]TaskView, 0, len(items))
	for _, it := range items {
		v := TaskView{
			ID:                it.Task.MasterTaskID,
			Name:              it.Task.MasterTaskName,
			Description:       it.Task.MasterTaskDescription,
			EstimatedDuration: it.Task.MasterTaskEstimatedDuration,
			Department:        DepartmentRef{ID: it.Task.MasterTaskDepartmentID},
			CreatedAt:         it.Task.MasterTaskCreatedAt,
		}
		if it.Task.Department != nil {
			v.Department.Name = it.Task.Department.DepartmentName
		}
		if it.Detail != nil {
			v.Detail = *it.Detail
		} else {
			v.Aggregate = it.Summary
		}
		out = append(out, v)
	}
	return out, nil
}

// departments returns the active departments by name, or just the requested one.
func (s *ReportService) departments(ctx context.Context, departmentID *uuid.UUID) ([]DepartmentRef, error) {
	if departmentID != nil {
		d, err := s.Departments.Get(ctx, *departmentID)
		if err != nil {
			return nil, err
		}
		return []DepartmentRef{{ID: d.Department.DepartmentID, Name: d.Department.DepartmentName}}, nil
	}
	rows, err := s.Departments.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DepartmentRef, 0, len(rows))
	for _, d := range rows {
		out = append(out, DepartmentRef{ID: d.Department.DepartmentID, Name: d.Department.DepartmentName})
	}
	return out, nil
}

func (s *ReportService) Overview(ctx context.Context) (*OverviewReport, error) {
	depts, err := s.departments(ctx, nil)
	if err != nil {
		return nil, err
	}
	tasks, err := s.loadTasks(ctx, nil)
	if err != nil {
		return nil, err
	}
	weeks, err := s.Weeks.RecentWeeks(ctx, RecentWeeksCount)
	if err != nil {
		return nil, err
	}

	recent := make([]WeekSummary, 0, len(weeks))
	for _, w := range weeks {
		recent = append(recent, WeekSummary{
			ID:              w.Week.WeekID,
			WeekNumber:      w.Week.WeekNumber,
			Year:            w.Week.WeekYear,
			StartDate:       dbtime.FormatDate(time.Time(w.Week.WeekStartDate)),
			EndDate:         dbtime.FormatDate(time.Time(w.Week.WeekEndDate)),
			Status:          string(w.Week.WeekStatus),
			DepartmentCount: w.DepartmentCount,
			TaskCount:       w.TaskCount,
		})
	}

	r := BuildOverview(int64(len(depts)), tasks, recent)
	return &r, nil
}

func (s *ReportService) TaskMetrics(ctx context.Context, year int, departmentID *uuid.UUID) (*TaskMetricsReport, error) {
	depts, err := s.departments(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.loadTasks(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	r := BuildTaskMetrics(year, depts, tasks)
	return &r, nil
}

func (s *ReportService) Timeline(ctx context.Context, year int, departmentID *uuid.UUID) (*TimelineReport, error) {
	if departmentID != nil {
		if _, err := s.Departments.Get(ctx, *departmentID); err != nil {
			return nil, err
		}
	}
	tasks, err := s.loadTasks(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	r := BuildTimeline(year, tasks)
	return &r, nil
}

func (s *ReportService) TasksOverview(ctx context.Context, groupBy GroupBy, departmentID *uuid.UUID) (*TasksOverview, error) {
	tasks, err := s.loadTasks(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	r := BuildTasksOverview(groupBy, tasks)
	return &r, nil
}
