package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"weekreport_backend/internals/features/reports/service"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/testutil"
)

func TestReports_FromStoredProgress(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "admin@example.com", "x")
	dept := testutil.CreateDepartment(t, db, "Phòng Kỹ thuật")
	testutil.CreateDepartment(t, db, "Văn phòng")
	running := testutil.CreateMasterTask(t, db, dept.DepartmentID, "Nâng cấp mạng")
	testutil.CreateMasterTask(t, db, dept.DepartmentID, "Chưa bắt đầu")

	base := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	w3 := testutil.CreateWeek(t, db, 3, 2024, user.ID)
	w1 := testutil.CreateWeek(t, db, 1, 2024, user.ID)
	testutil.CreateProgress(t, db, w3.WeekID, running.MasterTaskID, testutil.IntPtr(40), base)
	testutil.CreateProgress(t, db, w1.WeekID, running.MasterTaskID, testutil.IntPtr(10), base.Add(time.Hour))

	svc := service.NewReportService(db)

	ov, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if ov.TotalDepartments != 2 || ov.TotalMasterTasks != 2 || ov.TasksInProgress != 1 {
		t.Fatalf("overview counts: %+v", ov)
	}
	if len(ov.RecentWeeks) != 2 || ov.RecentWeeks[0].WeekNumber != 3 {
		t.Fatalf("recent weeks newest first: %+v", ov.RecentWeeks)
	}
	if len(ov.ImportantTasks) != 1 || ov.ImportantTasks[0].LatestProgress != 10 {
		t.Fatalf("latest progress follows creation order: %+v", ov.ImportantTasks)
	}

	tm, err := svc.TaskMetrics(ctx, 2024, &dept.DepartmentID)
	if err != nil {
		t.Fatalf("task metrics: %v", err)
	}
	if len(tm.Departments) != 1 || tm.Overall.TotalTasks != 2 || tm.Overall.TotalWeeks != 2 {
		t.Fatalf("task metrics: %+v", tm.Overall)
	}

	tl, err := svc.Timeline(ctx, 2024, nil)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if tl.Quarters[0].TaskCount != 1 || tl.Quarters[0].AvgProgress != 25 {
		t.Fatalf("Q1 over weeks 1 and 3: %+v", tl.Quarters[0])
	}

	if _, err := svc.Timeline(ctx, 2024, ptr(uuid.New())); !errors.Is(err, helper.ErrNotFound) {
		t.Fatalf("unknown department: want ErrNotFound, got %v", err)
	}
}

func ptr[T any](v T) *T { return &v }
