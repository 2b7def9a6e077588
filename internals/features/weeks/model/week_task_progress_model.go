// file: internals/features/weeks/model/week_task_progress_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	mtModel "weekreport_backend/internals/features/master_tasks/model"
)

// WeekTaskProgressModel is the report of one master task in one week.
// At most one row per (week, master task).
type WeekTaskProgressModel struct {
	TaskProgressID           uuid.UUID  `gorm:"type:uuid;primaryKey;column:task_progress_id" json:"task_progress_id"`
	TaskProgressWeekID       uuid.UUID  `gorm:"type:uuid;not null;column:task_progress_week_id;uniqueIndex:uq_task_progress_week_task,priority:1" json:"task_progress_week_id"`
	TaskProgressMasterTaskID uuid.UUID  `gorm:"type:uuid;not null;column:task_progress_master_task_id;uniqueIndex:uq_task_progress_week_task,priority:2;index:idx_task_progress_master_task" json:"task_progress_master_task_id"`
	TaskProgressOrderNumber  int        `gorm:"not null;default:0;column:task_progress_order_number" json:"task_progress_order_number"`
	TaskProgressResult       *string    `gorm:"type:text;column:task_progress_result" json:"task_progress_result"`
	TaskProgressTimePeriod   *string    `gorm:"type:varchar(120);column:task_progress_time_period" json:"task_progress_time_period"`
	TaskProgressProgress     *int       `gorm:"column:task_progress_progress" json:"task_progress_progress"` // 0..100, null = not reported
	TaskProgressNextWeekPlan *string    `gorm:"type:text;column:task_progress_next_week_plan" json:"task_progress_next_week_plan"`
	TaskProgressIsImportant  bool       `gorm:"not null;default:false;column:task_progress_is_important" json:"task_progress_is_important"`
	TaskProgressCompletedAt  *time.Time `gorm:"column:task_progress_completed_at" json:"task_progress_completed_at"`

	TaskProgressCreatedAt time.Time `gorm:"column:task_progress_created_at;autoCreateTime;index:idx_task_progress_created" json:"task_progress_created_at"`
	TaskProgressUpdatedAt time.Time `gorm:"column:task_progress_updated_at;autoUpdateTime" json:"task_progress_updated_at"`

	Week       *WeekModel               `gorm:"foreignKey:TaskProgressWeekID;references:WeekID" json:"week,omitempty"`
	MasterTask *mtModel.MasterTaskModel `gorm:"foreignKey:TaskProgressMasterTaskID;references:MasterTaskID;constraint:OnDelete:RESTRICT" json:"master_task,omitempty"`
}

func (WeekTaskProgressModel) TableName() string { return "week_task_progress" }

func (m *WeekTaskProgressModel) BeforeCreate(tx *gorm.DB) error {
	if m.TaskProgressID == uuid.Nil {
		m.TaskProgressID = uuid.New()
	}
	return nil
}

// CompletedAtFor returns now when progress is exactly 100, nil otherwise.
// Evaluated only when a row is written.
func CompletedAtFor(progress *int, now time.Time) *time.Time {
	if progress != nil && *progress == 100 {
		t := now
		return &t
	}
	return nil
}
