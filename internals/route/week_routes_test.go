package routes

import (
	"net/http"
	"testing"

	weekModel "weekreport_backend/internals/features/weeks/model"
	"weekreport_backend/internals/testutil"
)

func dataOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("no data object in %v", body)
	}
	return data
}

func listOf(t *testing.T, m map[string]any, key string) []any {
	t.Helper()
	v, ok := m[key].([]any)
	if !ok {
		t.Fatalf("%s is not a list: %v", key, m[key])
	}
	return v
}

func TestWeekCreateThenReconcile(t *testing.T) {
	app, db := newTestApp(t)
	_, tok := login(t, app, "123456")

	_, me := do(t, app, http.MethodGet, "/api/auth/me", tok, nil)
	userID := dataOf(t, me)["id"]

	dept := testutil.CreateDepartment(t, db, "Phòng Điều dưỡng")
	planning := testutil.CreateMasterTask(t, db, dept.DepartmentID, "Lập kế hoạch")
	training := testutil.CreateMasterTask(t, db, dept.DepartmentID, "Đào tạo")

	create := map[string]any{
		"week_number":     3,
		"year":            2024,
		"start_date":      "2024-01-15",
		"end_date":        "2024-01-21",
		"report_file_url": "https://files.example.com/w3.pdf",
		"task_progress": []map[string]any{
			{"master_task_id": planning.MasterTaskID.String(), "order_number": 1, "progress": 40, "result": "drafted"},
		},
	}

	// create: creator comes from the session
	status, body := do(t, app, http.MethodPost, "/api/weeks", tok, create)
	if status != http.StatusCreated {
		t.Fatalf("create status=%d (%v)", status, body)
	}
	week := dataOf(t, body)
	if week["created_by_id"] != userID {
		t.Fatalf("created_by_id=%v want %v", week["created_by_id"], userID)
	}
	weekID, _ := week["id"].(string)
	if rows := listOf(t, week, "task_progress"); len(rows) != 1 {
		t.Fatalf("task_progress len=%d want 1", len(rows))
	}

	// same (week_number, year) again
	status, body = do(t, app, http.MethodPost, "/api/weeks", tok, create)
	if status != http.StatusConflict || body["error_code"] != "CONFLICT" {
		t.Fatalf("duplicate status=%d body=%v, want 409 CONFLICT", status, body)
	}
	var weeks int64
	db.Model(&weekModel.WeekModel{}).Where("week_number = ? AND week_year = ?", 3, 2024).Count(&weeks)
	if weeks != 1 {
		t.Fatalf("weeks for 3/2024=%d want 1", weeks)
	}

	// replace the task set; report_file_url omitted so it stays
	status, body = do(t, app, http.MethodPut, "/api/weeks/"+weekID, tok, map[string]any{
		"task_progress": []map[string]any{
			{"master_task_id": training.MasterTaskID.String(), "order_number": 1, "progress": 100},
		},
	})
	if status != http.StatusOK {
		t.Fatalf("update status=%d (%v)", status, body)
	}
	updated := dataOf(t, body)
	if updated["report_file_url"] != "https://files.example.com/w3.pdf" {
		t.Fatalf("report_file_url=%v, want it kept when omitted", updated["report_file_url"])
	}
	newIDs := listOf(t, updated, "new_task_progress_ids")
	rows := listOf(t, updated, "task_progress")
	if len(newIDs) != 1 || len(rows) != 1 {
		t.Fatalf("new ids=%d rows=%d, want 1 and 1", len(newIDs), len(rows))
	}
	row, _ := rows[0].(map[string]any)
	if row["id"] != newIDs[0] {
		t.Fatalf("row id=%v want %v", row["id"], newIDs[0])
	}
	if row["completed_at"] == nil {
		t.Fatalf("progress 100 row has no completed_at")
	}
	mt, _ := row["master_task"].(map[string]any)
	if mt["name"] != "Đào tạo" {
		t.Fatalf("master_task=%v want Đào tạo", row["master_task"])
	}
	groups := listOf(t, updated, "tasks_by_department")
	if len(groups) != 1 {
		t.Fatalf("tasks_by_department len=%d want 1", len(groups))
	}
	group, _ := groups[0].(map[string]any)
	gdept, _ := group["department"].(map[string]any)
	if gdept["name"] != "Phòng Điều dưỡng" {
		t.Fatalf("department=%v want Phòng Điều dưỡng", group["department"])
	}

	// explicit null clears report_file_url and leaves the task set alone
	status, body = do(t, app, http.MethodPut, "/api/weeks/"+weekID, tok, map[string]any{"report_file_url": nil})
	if status != http.StatusOK {
		t.Fatalf("clear status=%d (%v)", status, body)
	}
	cleared := dataOf(t, body)
	if v, present := cleared["report_file_url"]; !present || v != nil {
		t.Fatalf("report_file_url=%v present=%v, want null", v, present)
	}
	kept := listOf(t, cleared, "task_progress")
	if len(kept) != 1 || kept[0].(map[string]any)["id"] != newIDs[0] {
		t.Fatalf("task_progress changed by a scalar-only update: %v", kept)
	}
}

func TestWeekReconcileUnknownTaskKeepsRows(t *testing.T) {
	app, db := newTestApp(t)
	_, tok := login(t, app, "123456")

	dept := testutil.CreateDepartment(t, db, "Phòng Xét nghiệm")
	task := testutil.CreateMasterTask(t, db, dept.DepartmentID, "Kiểm chuẩn")

	status, body := do(t, app, http.MethodPost, "/api/weeks", tok, map[string]any{
		"week_number": 10,
		"year":        2024,
		"start_date":  "2024-03-04",
		"end_date":    "2024-03-10",
		"task_progress": []map[string]any{
			{"master_task_id": task.MasterTaskID.String(), "order_number": 1, "progress": 20},
		},
	})
	if status != http.StatusCreated {
		t.Fatalf("create status=%d (%v)", status, body)
	}
	week := dataOf(t, body)
	weekID, _ := week["id"].(string)
	before := listOf(t, week, "task_progress")[0].(map[string]any)["id"]

	status, body = do(t, app, http.MethodPut, "/api/weeks/"+weekID, tok, map[string]any{
		"task_progress": []map[string]any{
			{"master_task_id": "00000000-0000-4000-8000-000000000001", "order_number": 1, "progress": 50},
		},
	})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d want 422 (%v)", status, body)
	}

	_, body = do(t, app, http.MethodGet, "/api/weeks/"+weekID, tok, nil)
	rows := listOf(t, dataOf(t, body), "task_progress")
	if len(rows) != 1 || rows[0].(map[string]any)["id"] != before {
		t.Fatalf("rows after failed update=%v, want the original row", rows)
	}
}
