package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	metricModel "weekreport_backend/internals/features/metrics/model"
	"weekreport_backend/internals/features/metrics/service"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/testutil"
)

func TestUpsertValue_InsertThenUpdate(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewMetricService(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "a@example.com", "x")
	d := testutil.CreateDepartment(t, db, "Văn phòng")
	w := testutil.CreateWeek(t, db, 10, 2024, user.ID)
	m, err := svc.CreateDefinition(ctx, service.CreateMetricInput{DepartmentID: d.DepartmentID, Name: "Văn bản đến"})
	if err != nil {
		t.Fatalf("CreateDefinition: %v", err)
	}

	first, err := svc.UpsertValue(ctx, service.UpsertValueInput{MetricID: m.MetricID, WeekID: w.WeekID, Value: 12})
	if err != nil {
		t.Fatalf("UpsertValue: %v", err)
	}
	note := "đã cập nhật"
	second, err := svc.UpsertValue(ctx, service.UpsertValueInput{MetricID: m.MetricID, WeekID: w.WeekID, Value: 15.5, Note: &note})
	if err != nil {
		t.Fatalf("UpsertValue again: %v", err)
	}

	if second.WeekMetricID != first.WeekMetricID {
		t.Fatalf("upsert created a second row: %s vs %s", second.WeekMetricID, first.WeekMetricID)
	}
	if second.WeekMetricValue != 15.5 || second.WeekMetricNote == nil || *second.WeekMetricNote != note {
		t.Fatalf("row=%+v", second)
	}
	if second.Metric == nil || second.Week == nil || second.Week.WeekNumber != 10 {
		t.Fatalf("relations not loaded: %+v", second)
	}

	var n int64
	db.Model(&metricModel.WeekMetricValueModel{}).Count(&n)
	if n != 1 {
		t.Fatalf("rows=%d want 1", n)
	}
}

func TestUpsertValue_UnknownReferences(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewMetricService(db)

	_, err := svc.UpsertValue(context.Background(), service.UpsertValueInput{MetricID: uuid.New(), WeekID: uuid.New(), Value: 1})
	var vErr *helper.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err=%v want validation error", err)
	}
	if len(vErr.Fields["metric_id"]) == 0 || len(vErr.Fields["week_id"]) == 0 {
		t.Fatalf("fields=%v", vErr.Fields)
	}
}

func TestDeactivate_HidesFromListButKeepsDetail(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewMetricService(db)
	ctx := context.Background()

	d := testutil.CreateDepartment(t, db, "Văn phòng")
	keep, _ := svc.CreateDefinition(ctx, service.CreateMetricInput{DepartmentID: d.DepartmentID, Name: "Văn bản đi", OrderNumber: 2})
	drop, _ := svc.CreateDefinition(ctx, service.CreateMetricInput{DepartmentID: d.DepartmentID, Name: "Cuộc họp", OrderNumber: 1})

	if err := svc.DeactivateDefinition(ctx, drop.MetricID); err != nil {
		t.Fatalf("DeactivateDefinition: %v", err)
	}
	rows, err := svc.ListDefinitions(ctx, &d.DepartmentID)
	if err != nil {
		t.Fatalf("ListDefinitions: %v", err)
	}
	if len(rows) != 1 || rows[0].Metric.MetricID != keep.MetricID {
		t.Fatalf("rows=%+v", rows)
	}

	got, err := svc.GetDefinition(ctx, drop.MetricID)
	if err != nil || got.Metric.MetricIsActive {
		t.Fatalf("detail of inactive metric: %+v %v", got, err)
	}

	active := true
	if _, err := svc.UpdateDefinition(ctx, drop.MetricID, service.UpdateMetricInput{IsActive: &active}); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	rows, _ = svc.ListDefinitions(ctx, &d.DepartmentID)
	if len(rows) != 2 || rows[0].Metric.MetricID != drop.MetricID {
		t.Fatalf("reactivated metric must sort first by order_number: %+v", rows)
	}

	if err := svc.DeactivateDefinition(ctx, uuid.New()); !errors.Is(err, helper.ErrNotFound) {
		t.Fatalf("err=%v want not found", err)
	}
}

func TestGetDefinition_RecentValuesNewestWeekFirst(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewMetricService(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "a@example.com", "x")
	d := testutil.CreateDepartment(t, db, "Văn phòng")
	m, _ := svc.CreateDefinition(ctx, service.CreateMetricInput{DepartmentID: d.DepartmentID, Name: "Hồ sơ"})

	for _, wk := range []struct{ n, y int }{{52, 2023}, {2, 2024}, {1, 2024}} {
		w := testutil.CreateWeek(t, db, wk.n, wk.y, user.ID)
		if _, err := svc.UpsertValue(ctx, service.UpsertValueInput{MetricID: m.MetricID, WeekID: w.WeekID, Value: float64(wk.n)}); err != nil {
			t.Fatalf("UpsertValue: %v", err)
		}
	}

	got, err := svc.GetDefinition(ctx, m.MetricID)
	if err != nil {
		t.Fatalf("GetDefinition: %v", err)
	}
	want := []float64{2, 1, 52}
	if len(got.Recent) != 3 {
		t.Fatalf("recent=%d", len(got.Recent))
	}
	for i, v := range got.Recent {
		if v.WeekMetricValue != want[i] {
			t.Fatalf("recent[%d]=%v want %v", i, v.WeekMetricValue, want[i])
		}
	}
}

func TestTable_GridAlignedWithWeeks(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewMetricService(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "a@example.com", "x")
	d := testutil.CreateDepartment(t, db, "Văn phòng")
	other := testutil.CreateDepartment(t, db, "Phòng khác")
	m, _ := svc.CreateDefinition(ctx, service.CreateMetricInput{DepartmentID: d.DepartmentID, Name: "Văn bản"})
	_, _ = svc.CreateDefinition(ctx, service.CreateMetricInput{DepartmentID: other.DepartmentID, Name: "Khác"})

	w2 := testutil.CreateWeek(t, db, 2, 2024, user.ID)
	testutil.CreateWeek(t, db, 1, 2024, user.ID)
	testutil.CreateWeek(t, db, 3, 2024, user.ID)
	testutil.CreateWeek(t, db, 3, 2023, user.ID)
	if _, err := svc.UpsertValue(ctx, service.UpsertValueInput{MetricID: m.MetricID, WeekID: w2.WeekID, Value: 7}); err != nil {
		t.Fatalf("UpsertValue: %v", err)
	}

	tbl, err := svc.Table(ctx, 2024, &d.DepartmentID)
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if len(tbl.Weeks) != 3 || tbl.Weeks[0].WeekNumber != 1 || tbl.Weeks[2].WeekNumber != 3 {
		t.Fatalf("weeks=%+v", tbl.Weeks)
	}
	if len(tbl.Rows) != 1 {
		t.Fatalf("rows=%d want 1 (department filter)", len(tbl.Rows))
	}
	vals := tbl.Rows[0].Values
	if vals[0] != nil || vals[2] != nil || vals[1] == nil || *vals[1] != 7 || tbl.Rows[0].Total != 7 {
		t.Fatalf("values=%v total=%v", vals, tbl.Rows[0].Total)
	}
}
