// file: internals/features/master_tasks/model/master_task_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	deptModel "weekreport_backend/internals/features/departments/model"
)

// MasterTaskModel is a long-running task of one department, reported on week after week.
type MasterTaskModel struct {
	MasterTaskID                uuid.UUID       `gorm:"type:uuid;primaryKey;column:master_task_id" json:"master_task_id"`
	MasterTaskDepartmentID      uuid.UUID       `gorm:"type:uuid;not null;column:master_task_department_id;index:idx_master_tasks_department" json:"master_task_department_id"`
	MasterTaskName              string          `gorm:"type:varchar(255);not null;column:master_task_name" json:"master_task_name"`
	MasterTaskDescription       *string         `gorm:"type:text;column:master_task_description" json:"master_task_description"`
	MasterTaskEstimatedDuration *int            `gorm:"column:master_task_estimated_duration" json:"master_task_estimated_duration"` // in weeks
	MasterTaskStartDate         *datatypes.Date `gorm:"column:master_task_start_date" json:"master_task_start_date"`
	MasterTaskEndDate           *datatypes.Date `gorm:"column:master_task_end_date" json:"master_task_end_date"`

	MasterTaskCreatedAt time.Time `gorm:"column:master_task_created_at;autoCreateTime;index:idx_master_tasks_created" json:"master_task_created_at"`
	MasterTaskUpdatedAt time.Time `gorm:"column:master_task_updated_at;autoUpdateTime" json:"master_task_updated_at"`

	Department *deptModel.DepartmentModel `gorm:"foreignKey:MasterTaskDepartmentID;references:DepartmentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"department,omitempty"`
}

func (MasterTaskModel) TableName() string { return "master_tasks" }

func (m *MasterTaskModel) BeforeCreate(tx *gorm.DB) error {
	if m.MasterTaskID == uuid.Nil {
		m.MasterTaskID = uuid.New()
	}
	return nil
}
