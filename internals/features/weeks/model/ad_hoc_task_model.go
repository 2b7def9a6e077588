// file: internals/features/weeks/model/ad_hoc_task_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	deptModel "weekreport_backend/internals/features/departments/model"
)

// AdHocTaskModel is a one-off task reported by a department in a single week.
type AdHocTaskModel struct {
	AdHocTaskID           uuid.UUID  `gorm:"type:uuid;primaryKey;column:ad_hoc_task_id" json:"ad_hoc_task_id"`
	AdHocTaskWeekID       uuid.UUID  `gorm:"type:uuid;not null;column:ad_hoc_task_week_id;index:idx_ad_hoc_tasks_week_dept,priority:1" json:"ad_hoc_task_week_id"`
	AdHocTaskDepartmentID uuid.UUID  `gorm:"type:uuid;not null;column:ad_hoc_task_department_id;index:idx_ad_hoc_tasks_week_dept,priority:2" json:"ad_hoc_task_department_id"`
	AdHocTaskOrderNumber  int        `gorm:"not null;default:0;column:ad_hoc_task_order_number" json:"ad_hoc_task_order_number"`
	AdHocTaskName         string     `gorm:"type:varchar(255);not null;column:ad_hoc_task_name" json:"ad_hoc_task_name"`
	AdHocTaskResult       *string    `gorm:"type:text;column:ad_hoc_task_result" json:"ad_hoc_task_result"`
	AdHocTaskTimePeriod   *string    `gorm:"type:varchar(120);column:ad_hoc_task_time_period" json:"ad_hoc_task_time_period"`
	AdHocTaskProgress     *int       `gorm:"column:ad_hoc_task_progress" json:"ad_hoc_task_progress"`
	AdHocTaskNextWeekPlan *string    `gorm:"type:text;column:ad_hoc_task_next_week_plan" json:"ad_hoc_task_next_week_plan"`
	AdHocTaskIsImportant  bool       `gorm:"not null;default:false;column:ad_hoc_task_is_important" json:"ad_hoc_task_is_important"`
	AdHocTaskCompletedAt  *time.Time `gorm:"column:ad_hoc_task_completed_at" json:"ad_hoc_task_completed_at"`

	AdHocTaskCreatedAt time.Time `gorm:"column:ad_hoc_task_created_at;autoCreateTime" json:"ad_hoc_task_created_at"`
	AdHocTaskUpdatedAt time.Time `gorm:"column:ad_hoc_task_updated_at;autoUpdateTime" json:"ad_hoc_task_updated_at"`

	Department *deptModel.DepartmentModel `gorm:"foreignKey:AdHocTaskDepartmentID;references:DepartmentID;constraint:OnDelete:RESTRICT" json:"department,omitempty"`
}

func (AdHocTaskModel) TableName() string { return "ad_hoc_tasks" }

func (m *AdHocTaskModel) BeforeCreate(tx *gorm.DB) error {
	if m.AdHocTaskID == uuid.Nil {
		m.AdHocTaskID = uuid.New()
	}
	return nil
}
