package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	mtModel "weekreport_backend/internals/features/master_tasks/model"
	metricModel "weekreport_backend/internals/features/metrics/model"
	weekModel "weekreport_backend/internals/features/weeks/model"
	"weekreport_backend/internals/features/weeks/service"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/testutil"

	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	svc    *service.WeekService
	userID uuid.UUID
	deptID uuid.UUID
	tasks  []mtModel.MasterTaskModel
	now    time.Time
}

type recordingNotifier struct{ weeks []weekModel.WeekModel }

func (r *recordingNotifier) WeekCompleted(_ context.Context, w weekModel.WeekModel) {
	r.weeks = append(r.weeks, w)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "admin@example.com", "x")
	dept := testutil.CreateDepartment(t, db, "Phòng Kỹ thuật")
	f := &fixture{
		db:     db,
		userID: user.ID,
		deptID: dept.DepartmentID,
		now:    time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC),
	}
	for _, name := range []string{"Nâng cấp mạng", "Bảo trì máy chủ", "Đào tạo"} {
		f.tasks = append(f.tasks, testutil.CreateMasterTask(t, db, dept.DepartmentID, name))
	}
	f.svc = service.NewWeekService(db, nil)
	f.svc.Now = func() time.Time { return f.now }
	return f
}

func (f *fixture) createInput(number, year int, items ...service.TaskProgressInput) service.CreateWeekInput {
	start := testutil.WeekStart(number, year)
	return service.CreateWeekInput{
		WeekNumber:   number,
		Year:         year,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 6),
		TaskProgress: items,
	}
}

func progressRows(t *testing.T, db *gorm.DB, weekID uuid.UUID) []weekModel.WeekTaskProgressModel {
	t.Helper()
	var rows []weekModel.WeekTaskProgressModel
	if err := db.Where("task_progress_week_id = ?", weekID).Order("task_progress_order_number").Find(&rows).Error; err != nil {
		t.Fatalf("load rows: %v", err)
	}
	return rows
}

func TestCreateWeek_RejectsDuplicatePair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CreateWeek(ctx, f.createInput(10, 2024), f.userID); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := f.svc.CreateWeek(ctx, f.createInput(10, 2024), f.userID)
	if !errors.Is(err, helper.ErrConflict) {
		t.Fatalf("err=%v want conflict", err)
	}

	var n int64
	f.db.Model(&weekModel.WeekModel{}).Where("week_number = 10 AND week_year = 2024").Count(&n)
	if n != 1 {
		t.Fatalf("weeks=%d want 1", n)
	}
}

func TestCreateWeek_SetsCompletedAtOnlyAtHundred(t *testing.T) {
	f := newFixture(t)
	w, err := f.svc.CreateWeek(context.Background(), f.createInput(1, 2024,
		service.TaskProgressInput{MasterTaskID: f.tasks[0].MasterTaskID, OrderNumber: 1, Progress: testutil.IntPtr(100)},
		service.TaskProgressInput{MasterTaskID: f.tasks[1].MasterTaskID, OrderNumber: 2, Progress: testutil.IntPtr(99)},
		service.TaskProgressInput{MasterTaskID: f.tasks[2].MasterTaskID, OrderNumber: 3},
	), f.userID)
	if err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}
	if w.WeekCreatedByID != f.userID || w.WeekStatus != weekModel.WeekStatusDraft {
		t.Fatalf("week=%+v", w)
	}

	rows := progressRows(t, f.db, w.WeekID)
	if len(rows) != 3 {
		t.Fatalf("rows=%d want 3", len(rows))
	}
	if rows[0].TaskProgressCompletedAt == nil {
		t.Fatalf("progress 100 must set completed_at")
	}
	if rows[1].TaskProgressCompletedAt != nil || rows[2].TaskProgressCompletedAt != nil {
		t.Fatalf("completed_at must be nil below 100")
	}
}

func TestCreateWeek_UnknownMasterTaskRollsBack(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateWeek(context.Background(), f.createInput(2, 2024,
		service.TaskProgressInput{MasterTaskID: uuid.New(), Progress: testutil.IntPtr(10)},
	), f.userID)
	var vErr *helper.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err=%v want validation error", err)
	}

	var n int64
	f.db.Model(&weekModel.WeekModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("week must not be created when its task set is invalid")
	}
}

func TestReplaceTaskSet_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w, err := f.svc.CreateWeek(ctx, f.createInput(3, 2024,
		service.TaskProgressInput{MasterTaskID: f.tasks[0].MasterTaskID, OrderNumber: 1, Progress: testutil.IntPtr(20)},
	), f.userID)
	if err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}
	oldIDs := map[uuid.UUID]bool{}
	for _, r := range progressRows(t, f.db, w.WeekID) {
		oldIDs[r.TaskProgressID] = true
	}

	items := []service.TaskProgressInput{
		{MasterTaskID: f.tasks[1].MasterTaskID, OrderNumber: 1, Progress: testutil.IntPtr(100), Result: testutil.StrPtr("Hoàn thành")},
		{MasterTaskID: f.tasks[2].MasterTaskID, OrderNumber: 2, Progress: nil, IsImportant: true},
	}
	res, err := f.svc.ReplaceTaskSet(ctx, w.WeekID, service.ReplaceTaskSetInput{TaskProgress: &items})
	if err != nil {
		t.Fatalf("ReplaceTaskSet: %v", err)
	}
	if len(res.TaskProgressIDs) != 2 {
		t.Fatalf("new ids=%v", res.TaskProgressIDs)
	}

	rows := progressRows(t, f.db, w.WeekID)
	if len(rows) != 2 {
		t.Fatalf("rows=%d want 2", len(rows))
	}
	for i, r := range rows {
		if oldIDs[r.TaskProgressID] {
			t.Fatalf("row id %s survived replacement", r.TaskProgressID)
		}
		if r.TaskProgressMasterTaskID != items[i].MasterTaskID || r.TaskProgressOrderNumber != items[i].OrderNumber {
			t.Fatalf("row %d=%+v does not match input", i, r)
		}
	}
	if rows[0].TaskProgressCompletedAt == nil || *rows[0].TaskProgressResult != "Hoàn thành" {
		t.Fatalf("row0=%+v", rows[0])
	}
	if rows[1].TaskProgressProgress != nil || rows[1].TaskProgressCompletedAt != nil || !rows[1].TaskProgressIsImportant {
		t.Fatalf("row1=%+v", rows[1])
	}
}

func TestReplaceTaskSet_EmptyListClearsRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w, err := f.svc.CreateWeek(ctx, f.createInput(4, 2024,
		service.TaskProgressInput{MasterTaskID: f.tasks[0].MasterTaskID, Progress: testutil.IntPtr(50)},
	), f.userID)
	if err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}

	empty := []service.TaskProgressInput{}
	if _, err := f.svc.ReplaceTaskSet(ctx, w.WeekID, service.ReplaceTaskSetInput{TaskProgress: &empty}); err != nil {
		t.Fatalf("ReplaceTaskSet: %v", err)
	}
	if rows := progressRows(t, f.db, w.WeekID); len(rows) != 0 {
		t.Fatalf("rows=%d want 0", len(rows))
	}
}

func TestReplaceTaskSet_AbsentListKeepsRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w, err := f.svc.CreateWeek(ctx, f.createInput(5, 2024,
		service.TaskProgressInput{MasterTaskID: f.tasks[0].MasterTaskID, Progress: testutil.IntPtr(50)},
	), f.userID)
	if err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}
	before := progressRows(t, f.db, w.WeekID)

	completed := weekModel.WeekStatusCompleted
	url := "https://files.example.com/w5.pdf"
	if _, err := f.svc.ReplaceTaskSet(ctx, w.WeekID, service.ReplaceTaskSetInput{
		Fields: service.WeekFieldsPatch{Status: &completed, ReportFileURL: &url, ReportFileURLSet: true},
	}); err != nil {
		t.Fatalf("ReplaceTaskSet: %v", err)
	}

	after := progressRows(t, f.db, w.WeekID)
	if len(after) != 1 || after[0].TaskProgressID != before[0].TaskProgressID {
		t.Fatalf("rows changed without task_progress in payload")
	}
	var got weekModel.WeekModel
	f.db.First(&got, "week_id = ?", w.WeekID)
	if got.WeekStatus != weekModel.WeekStatusCompleted || got.WeekReportFileURL == nil || *got.WeekReportFileURL != url {
		t.Fatalf("week=%+v", got)
	}

	// explicit null clears the report file
	if _, err := f.svc.ReplaceTaskSet(ctx, w.WeekID, service.ReplaceTaskSetInput{
		Fields: service.WeekFieldsPatch{ReportFileURLSet: true},
	}); err != nil {
		t.Fatalf("ReplaceTaskSet: %v", err)
	}
	f.db.First(&got, "week_id = ?", w.WeekID)
	if got.WeekReportFileURL != nil {
		t.Fatalf("report_file_url=%v want nil", *got.WeekReportFileURL)
	}
}

func TestReplaceTaskSet_FailureLeavesEverythingUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w, err := f.svc.CreateWeek(ctx, f.createInput(6, 2024,
		service.TaskProgressInput{MasterTaskID: f.tasks[0].MasterTaskID, Progress: testutil.IntPtr(30)},
	), f.userID)
	if err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}
	before := progressRows(t, f.db, w.WeekID)

	completed := weekModel.WeekStatusCompleted
	items := []service.TaskProgressInput{
		{MasterTaskID: f.tasks[1].MasterTaskID, Progress: testutil.IntPtr(70)},
		{MasterTaskID: uuid.New(), Progress: testutil.IntPtr(10)}, // unknown task
	}
	_, err = f.svc.ReplaceTaskSet(ctx, w.WeekID, service.ReplaceTaskSetInput{
		Fields:       service.WeekFieldsPatch{Status: &completed},
		TaskProgress: &items,
	})
	var vErr *helper.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err=%v want validation error", err)
	}
	if _, ok := vErr.Fields["task_progress[1].master_task_id"]; !ok {
		t.Fatalf("fields=%v", vErr.Fields)
	}

	after := progressRows(t, f.db, w.WeekID)
	if len(after) != 1 || after[0].TaskProgressID != before[0].TaskProgressID {
		t.Fatalf("progress rows changed after failed reconcile: %+v", after)
	}
	var got weekModel.WeekModel
	f.db.First(&got, "week_id = ?", w.WeekID)
	if got.WeekStatus != weekModel.WeekStatusDraft {
		t.Fatalf("status=%s want DRAFT after rollback", got.WeekStatus)
	}
}

func TestReplaceTaskSet_DuplicateMasterTaskRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w, err := f.svc.CreateWeek(ctx, f.createInput(7, 2024), f.userID)
	if err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}
	items := []service.TaskProgressInput{
		{MasterTaskID: f.tasks[0].MasterTaskID},
		{MasterTaskID: f.tasks[0].MasterTaskID},
	}
	_, err = f.svc.ReplaceTaskSet(ctx, w.WeekID, service.ReplaceTaskSetInput{TaskProgress: &items})
	var vErr *helper.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err=%v want validation error", err)
	}
}

func TestReplaceTaskSet_ConflictOnTargetPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.CreateWeek(ctx, f.createInput(8, 2024), f.userID); err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}
	w9, err := f.svc.CreateWeek(ctx, f.createInput(9, 2024,
		service.TaskProgressInput{MasterTaskID: f.tasks[0].MasterTaskID, Progress: testutil.IntPtr(10)},
	), f.userID)
	if err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}

	eight := 8
	items := []service.TaskProgressInput{}
	_, err = f.svc.ReplaceTaskSet(ctx, w9.WeekID, service.ReplaceTaskSetInput{
		Fields:       service.WeekFieldsPatch{WeekNumber: &eight},
		TaskProgress: &items,
	})
	if !errors.Is(err, helper.ErrConflict) {
		t.Fatalf("err=%v want conflict", err)
	}
	if rows := progressRows(t, f.db, w9.WeekID); len(rows) != 1 {
		t.Fatalf("conflict must not touch rows, got %d", len(rows))
	}

	// keeping its own pair is not a conflict
	nine := 9
	if _, err := f.svc.ReplaceTaskSet(ctx, w9.WeekID, service.ReplaceTaskSetInput{
		Fields: service.WeekFieldsPatch{WeekNumber: &nine},
	}); err != nil {
		t.Fatalf("self pair: %v", err)
	}
}

func TestReplaceTaskSet_UnknownWeek(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ReplaceTaskSet(context.Background(), uuid.New(), service.ReplaceTaskSetInput{})
	if !errors.Is(err, helper.ErrNotFound) {
		t.Fatalf("err=%v want not found", err)
	}
}

func TestReplaceTaskSet_NotifiesOnCompleted(t *testing.T) {
	f := newFixture(t)
	n := &recordingNotifier{}
	f.svc.Notifier = n
	ctx := context.Background()

	w, err := f.svc.CreateWeek(ctx, f.createInput(11, 2024), f.userID)
	if err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}
	if len(n.weeks) != 0 {
		t.Fatalf("draft week must not notify")
	}
	completed := weekModel.WeekStatusCompleted
	if _, err := f.svc.ReplaceTaskSet(ctx, w.WeekID, service.ReplaceTaskSetInput{Fields: service.WeekFieldsPatch{Status: &completed}}); err != nil {
		t.Fatalf("ReplaceTaskSet: %v", err)
	}
	if len(n.weeks) != 1 || n.weeks[0].WeekNumber != 11 {
		t.Fatalf("notified=%+v", n.weeks)
	}
}

func TestGetWeek_GroupsByDepartmentAndAdHoc(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := testutil.CreateDepartment(t, f.db, "Ban Giám đốc")
	otherTask := testutil.CreateMasterTask(t, f.db, other.DepartmentID, "Họp giao ban")

	in := f.createInput(12, 2024,
		service.TaskProgressInput{MasterTaskID: f.tasks[1].MasterTaskID, OrderNumber: 2, Progress: testutil.IntPtr(20)},
		service.TaskProgressInput{MasterTaskID: otherTask.MasterTaskID, OrderNumber: 1, Progress: testutil.IntPtr(60)},
		service.TaskProgressInput{MasterTaskID: f.tasks[0].MasterTaskID, OrderNumber: 1, Progress: testutil.IntPtr(40)},
	)
	in.AdHocTasks = []service.AdHocTaskInput{{DepartmentID: f.deptID, OrderNumber: 1, TaskName: "Sửa máy in"}}
	w, err := f.svc.CreateWeek(ctx, in, f.userID)
	if err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}

	d, err := f.svc.GetWeek(ctx, w.WeekID)
	if err != nil {
		t.Fatalf("GetWeek: %v", err)
	}
	if d.Week.CreatedBy == nil || d.Week.CreatedBy.Email != "admin@example.com" {
		t.Fatalf("created_by=%+v", d.Week.CreatedBy)
	}
	if len(d.TasksByDepartment) != 2 {
		t.Fatalf("groups=%d want 2", len(d.TasksByDepartment))
	}
	if d.TasksByDepartment[0].Department.DepartmentName != "Ban Giám đốc" {
		t.Fatalf("groups not sorted by name: %s first", d.TasksByDepartment[0].Department.DepartmentName)
	}
	tech := d.TasksByDepartment[1]
	if len(tech.TaskProgress) != 2 || len(tech.AdHocTasks) != 1 {
		t.Fatalf("tech group=%d progress, %d ad-hoc", len(tech.TaskProgress), len(tech.AdHocTasks))
	}
	if tech.TaskProgress[0].TaskProgressOrderNumber != 1 {
		t.Fatalf("progress rows not ordered by order_number")
	}
}

func TestListWeeks_CountsAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := testutil.CreateDepartment(t, f.db, "Phòng Tài chính")

	in := f.createInput(2, 2024,
		service.TaskProgressInput{MasterTaskID: f.tasks[0].MasterTaskID},
		service.TaskProgressInput{MasterTaskID: f.tasks[1].MasterTaskID},
	)
	in.AdHocTasks = []service.AdHocTaskInput{{DepartmentID: other.DepartmentID, TaskName: "Kiểm kê"}}
	if _, err := f.svc.CreateWeek(ctx, in, f.userID); err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}
	if _, err := f.svc.CreateWeek(ctx, f.createInput(50, 2023), f.userID); err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}
	if _, err := f.svc.CreateWeek(ctx, f.createInput(1, 2024), f.userID); err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}

	items, total, err := f.svc.ListWeeks(ctx, service.ListWeeksFilter{})
	if err != nil {
		t.Fatalf("ListWeeks: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("total=%d len=%d", total, len(items))
	}
	order := [][2]int{{2, 2024}, {1, 2024}, {50, 2023}}
	for i, it := range items {
		if it.Week.WeekNumber != order[i][0] || it.Week.WeekYear != order[i][1] {
			t.Fatalf("items[%d]=%d/%d", i, it.Week.WeekNumber, it.Week.WeekYear)
		}
	}
	if items[0].TaskCount != 3 || items[0].DepartmentCount != 2 {
		t.Fatalf("counts=%d tasks %d departments", items[0].TaskCount, items[0].DepartmentCount)
	}

	year := 2023
	items, total, err = f.svc.ListWeeks(ctx, service.ListWeeksFilter{Year: &year})
	if err != nil || total != 1 || items[0].Week.WeekNumber != 50 {
		t.Fatalf("year filter: total=%d err=%v", total, err)
	}
	items, _, err = f.svc.ListWeeks(ctx, service.ListWeeksFilter{Search: "1"})
	if err != nil || len(items) != 1 || items[0].Week.WeekNumber != 1 {
		t.Fatalf("search filter: %v %v", items, err)
	}
}

func TestDeleteWeek_RemovesChildren(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w, err := f.svc.CreateWeek(ctx, f.createInput(13, 2024,
		service.TaskProgressInput{MasterTaskID: f.tasks[0].MasterTaskID, Progress: testutil.IntPtr(10)},
	), f.userID)
	if err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}
	metric := metricModel.MetricDefinitionModel{MetricDepartmentID: f.deptID, MetricName: "Số văn bản"}
	if err := f.db.Create(&metric).Error; err != nil {
		t.Fatalf("create metric: %v", err)
	}
	if err := f.db.Create(&metricModel.WeekMetricValueModel{WeekMetricMetricID: metric.MetricID, WeekMetricWeekID: w.WeekID, WeekMetricValue: 12}).Error; err != nil {
		t.Fatalf("create metric value: %v", err)
	}

	if err := f.svc.DeleteWeek(ctx, w.WeekID); err != nil {
		t.Fatalf("DeleteWeek: %v", err)
	}
	var n int64
	f.db.Model(&weekModel.WeekTaskProgressModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("progress rows left: %d", n)
	}
	f.db.Model(&metricModel.WeekMetricValueModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("metric values left: %d", n)
	}
	if err := f.svc.DeleteWeek(ctx, w.WeekID); !errors.Is(err, helper.ErrNotFound) {
		t.Fatalf("second delete err=%v want not found", err)
	}
}

func TestBuildWeekWorkbook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w, err := f.svc.CreateWeek(ctx, f.createInput(14, 2024,
		service.TaskProgressInput{MasterTaskID: f.tasks[0].MasterTaskID, Progress: testutil.IntPtr(75), Result: testutil.StrPtr("Đã lắp đặt")},
	), f.userID)
	if err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}
	d, err := f.svc.GetWeek(ctx, w.WeekID)
	if err != nil {
		t.Fatalf("GetWeek: %v", err)
	}
	wb, err := service.BuildWeekWorkbook(d)
	if err != nil {
		t.Fatalf("BuildWeekWorkbook: %v", err)
	}
	got, err := wb.GetCellValue("Tuan 14-2024", "C4")
	if err != nil || got != f.tasks[0].MasterTaskName {
		t.Fatalf("C4=%q err=%v", got, err)
	}
	if got, _ := wb.GetCellValue("Tuan 14-2024", "F4"); got != "75" {
		t.Fatalf("F4=%q want 75", got)
	}
}
