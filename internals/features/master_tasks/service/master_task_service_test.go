package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	deptService "weekreport_backend/internals/features/departments/service"
	"weekreport_backend/internals/features/master_tasks/service"
	weekService "weekreport_backend/internals/features/weeks/service"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/testutil"
)

func TestMasterTask_CreateRequiresActiveDepartment(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewMasterTaskService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, service.CreateMasterTaskInput{DepartmentID: uuid.New(), Name: "Xây dựng quy chế"})
	var vErr *helper.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err=%v want validation error", err)
	}
	if _, ok := vErr.Fields["department_id"]; !ok {
		t.Fatalf("fields=%v", vErr.Fields)
	}

	d := testutil.CreateDepartment(t, db, "Phòng Tổng hợp")
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 2, 0)
	task, err := svc.Create(ctx, service.CreateMasterTaskInput{
		DepartmentID: d.DepartmentID, Name: " Xây dựng quy chế ", StartDate: &start, EndDate: &end,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.MasterTaskName != "Xây dựng quy chế" || task.Department == nil || task.Department.DepartmentName != "Phòng Tổng hợp" {
		t.Fatalf("task=%+v", task)
	}

	_, err = svc.Create(ctx, service.CreateMasterTaskInput{DepartmentID: d.DepartmentID, Name: "X", StartDate: &end, EndDate: &start})
	if !errors.As(err, &vErr) {
		t.Fatalf("reversed dates err=%v want validation error", err)
	}
}

func TestMasterTask_ListSummaryAndDetailAgree(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewMasterTaskService(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "lead@example.com", "x")
	d := testutil.CreateDepartment(t, db, "Phòng CNTT")
	task := testutil.CreateMasterTask(t, db, d.DepartmentID, "Chuyển đổi số")
	idle := testutil.CreateMasterTask(t, db, d.DepartmentID, "Chưa bắt đầu")

	w3 := testutil.CreateWeek(t, db, 3, 2024, user.ID)
	w1 := testutil.CreateWeek(t, db, 1, 2024, user.ID)
	base := time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC)
	testutil.CreateProgress(t, db, w3.WeekID, task.MasterTaskID, testutil.IntPtr(50), base)
	testutil.CreateProgress(t, db, w1.WeekID, task.MasterTaskID, testutil.IntPtr(10), base.Add(time.Hour))

	summary, err := svc.List(ctx, service.ListFilter{DepartmentID: &d.DepartmentID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	detail, err := svc.List(ctx, service.ListFilter{DepartmentID: &d.DepartmentID, IncludeProgress: true})
	if err != nil {
		t.Fatalf("List detail: %v", err)
	}
	if len(summary) != 2 || len(detail) != 2 {
		t.Fatalf("len summary=%d detail=%d", len(summary), len(detail))
	}

	for i := range summary {
		if summary[i].Task.MasterTaskID != detail[i].Task.MasterTaskID {
			t.Fatalf("order differs at %d", i)
		}
		if summary[i].Summary != detail[i].Summary {
			t.Fatalf("task %s: summary %+v detail %+v", summary[i].Task.MasterTaskName, summary[i].Summary, detail[i].Summary)
		}
		if summary[i].Detail != nil || detail[i].Detail == nil {
			t.Fatalf("detail presence wrong at %d", i)
		}
	}

	byID := map[uuid.UUID]service.ListItem{}
	for _, it := range detail {
		byID[it.Task.MasterTaskID] = it
	}
	got := byID[task.MasterTaskID]
	if got.Summary.LatestProgress != 10 || got.Summary.WeekCount != 2 || got.Summary.IsCompleted {
		t.Fatalf("aggregate=%+v", got.Summary)
	}
	if got.Detail.FirstWeek.WeekNumber != 1 || got.Detail.LastWeek.WeekNumber != 3 {
		t.Fatalf("first=%+v last=%+v", got.Detail.FirstWeek, got.Detail.LastWeek)
	}
	if z := byID[idle.MasterTaskID].Summary; z.LatestProgress != 0 || z.WeekCount != 0 || z.IsCompleted {
		t.Fatalf("idle aggregate=%+v", z)
	}
}

func TestMasterTask_GetWithHistory(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewMasterTaskService(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "lead@example.com", "x")
	d := testutil.CreateDepartment(t, db, "Phòng CNTT")
	task := testutil.CreateMasterTask(t, db, d.DepartmentID, "Chuyển đổi số")
	base := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	for i, n := range []int{5, 7, 6} {
		w := testutil.CreateWeek(t, db, n, 2024, user.ID)
		testutil.CreateProgress(t, db, w.WeekID, task.MasterTaskID, testutil.IntPtr(20*(i+1)), base.Add(time.Duration(i)*time.Hour))
	}

	got, err := svc.Get(ctx, task.MasterTaskID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := []int{7, 6, 5}
	if len(got.History) != 3 {
		t.Fatalf("history=%d", len(got.History))
	}
	for i, h := range got.History {
		if h.Week == nil || h.Week.WeekNumber != want[i] {
			t.Fatalf("history[%d] week=%+v want %d", i, h.Week, want[i])
		}
	}
	if got.Detail.LatestProgress != 60 {
		t.Fatalf("latest=%d want 60 (last created)", got.Detail.LatestProgress)
	}

	if _, err := svc.Get(ctx, uuid.New()); !errors.Is(err, helper.ErrNotFound) {
		t.Fatalf("err=%v want not found", err)
	}
}

func TestMasterTask_UpdateClearsOptionalFields(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewMasterTaskService(db)
	ctx := context.Background()

	d := testutil.CreateDepartment(t, db, "Phòng A")
	desc := "mô tả"
	dur := 4
	task, err := svc.Create(ctx, service.CreateMasterTaskInput{DepartmentID: d.DepartmentID, Name: "Nhiệm vụ", Description: &desc, EstimatedDuration: &dur})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	name := "Nhiệm vụ mới"
	got, err := svc.Update(ctx, task.MasterTaskID, service.UpdateMasterTaskInput{
		Name: &name, DescriptionSet: true, EstimatedDurationSet: true,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.MasterTaskName != name || got.MasterTaskDescription != nil || got.MasterTaskEstimatedDuration != nil {
		t.Fatalf("got=%+v", got)
	}
}

// A department can only go once its tasks are gone, and a task only once no week reports on it.
func TestDeletionOrder_DepartmentTaskProgress(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	depts := deptService.NewDepartmentService(db)
	tasks := service.NewMasterTaskService(db)
	weeks := weekService.NewWeekService(db, nil)

	user := testutil.CreateUser(t, db, "admin@example.com", "x")
	d := testutil.CreateDepartment(t, db, "Phòng Hạ tầng")
	task := testutil.CreateMasterTask(t, db, d.DepartmentID, "Cải tạo trụ sở")

	start := testutil.WeekStart(20, 2024)
	w, err := weeks.CreateWeek(ctx, weekService.CreateWeekInput{
		WeekNumber: 20, Year: 2024, StartDate: start, EndDate: start.AddDate(0, 0, 6),
		TaskProgress: []weekService.TaskProgressInput{{MasterTaskID: task.MasterTaskID, Progress: testutil.IntPtr(40)}},
	}, user.ID)
	if err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}

	var depErr *helper.DependentsError
	if err := depts.Delete(ctx, d.DepartmentID); !errors.As(err, &depErr) || depErr.Dependents != 1 {
		t.Fatalf("department delete err=%v want 1 dependent", err)
	}
	if err := tasks.Delete(ctx, task.MasterTaskID); !errors.As(err, &depErr) || depErr.Dependents != 1 {
		t.Fatalf("task delete err=%v want 1 dependent", err)
	}

	empty := []weekService.TaskProgressInput{}
	if _, err := weeks.ReplaceTaskSet(ctx, w.WeekID, weekService.ReplaceTaskSetInput{TaskProgress: &empty}); err != nil {
		t.Fatalf("clear progress: %v", err)
	}
	if err := tasks.Delete(ctx, task.MasterTaskID); err != nil {
		t.Fatalf("task delete after progress removed: %v", err)
	}
	if err := depts.Delete(ctx, d.DepartmentID); err != nil {
		t.Fatalf("department delete after task removed: %v", err)
	}
}
