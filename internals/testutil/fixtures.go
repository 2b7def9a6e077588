package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	deptModel "weekreport_backend/internals/features/departments/model"
	mtModel "weekreport_backend/internals/features/master_tasks/model"
	userModel "weekreport_backend/internals/features/users/user/model"
	weekModel "weekreport_backend/internals/features/weeks/model"
)

func CreateUser(t *testing.T, db *gorm.DB, email, passwordHash string) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{UserName: "Admin", Email: email, Password: passwordHash, IsActive: true}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func CreateDepartment(t *testing.T, db *gorm.DB, name string) deptModel.DepartmentModel {
	t.Helper()
	d := deptModel.DepartmentModel{DepartmentName: name}
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("create department: %v", err)
	}
	return d
}

func CreateMasterTask(t *testing.T, db *gorm.DB, departmentID uuid.UUID, name string) mtModel.MasterTaskModel {
	t.Helper()
	m := mtModel.MasterTaskModel{MasterTaskDepartmentID: departmentID, MasterTaskName: name}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("create master task: %v", err)
	}
	return m
}

// WeekStart is the Monday of ISO-ish week n of year, good enough for fixtures.
func WeekStart(number, year int) time.Time {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, (number-1)*7)
}

func CreateWeek(t *testing.T, db *gorm.DB, number, year int, createdBy uuid.UUID) weekModel.WeekModel {
	t.Helper()
	start := WeekStart(number, year)
	w := weekModel.WeekModel{
		WeekNumber:      number,
		WeekYear:        year,
		WeekStartDate:   datatypes.Date(start),
		WeekEndDate:     datatypes.Date(start.AddDate(0, 0, 6)),
		WeekStatus:      weekModel.WeekStatusDraft,
		WeekCreatedByID: createdBy,
	}
	if err := db.Create(&w).Error; err != nil {
		t.Fatalf("create week: %v", err)
	}
	return w
}

// CreateProgress inserts one progress row with an explicit creation time.
func CreateProgress(t *testing.T, db *gorm.DB, weekID, taskID uuid.UUID, progress *int, createdAt time.Time) weekModel.WeekTaskProgressModel {
	t.Helper()
	p := weekModel.WeekTaskProgressModel{
		TaskProgressWeekID:       weekID,
		TaskProgressMasterTaskID: taskID,
		TaskProgressProgress:     progress,
		TaskProgressCompletedAt:  weekModel.CompletedAtFor(progress, createdAt),
		TaskProgressCreatedAt:    createdAt,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create progress: %v", err)
	}
	return p
}

func IntPtr(v int) *int { return &v }

func StrPtr(s string) *string { return &s }
