// file: internals/features/departments/model/department_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DepartmentModel struct {
	DepartmentID          uuid.UUID `gorm:"type:uuid;primaryKey;column:department_id" json:"department_id"`
	DepartmentName        string    `gorm:"type:varchar(150);not null;column:department_name;uniqueIndex:uq_departments_name_alive,expression:LOWER(department_name),where:department_deleted_at IS NULL" json:"department_name"`
	DepartmentDescription *string   `gorm:"type:text;column:department_description" json:"department_description"`

	DepartmentCreatedAt time.Time      `gorm:"column:department_created_at;autoCreateTime" json:"department_created_at"`
	DepartmentUpdatedAt time.Time      `gorm:"column:department_updated_at;autoUpdateTime" json:"department_updated_at"`
	DepartmentDeletedAt gorm.DeletedAt `gorm:"column:department_deleted_at;index" json:"department_deleted_at,omitempty"`
}

func (DepartmentModel) TableName() string { return "departments" }

func (m *DepartmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.DepartmentID == uuid.Nil {
		m.DepartmentID = uuid.New()
	}
	return nil
}

/* =========================================================
   Lifecycle state
   ========================================================= */

type DepartmentStatus string

const (
	DepartmentActive  DepartmentStatus = "ACTIVE"
	DepartmentDeleted DepartmentStatus = "DELETED"
)

// DepartmentState is Active, or Deleted with the moment it was deleted.
type DepartmentState struct {
	Status    DepartmentStatus `json:"status"`
	DeletedAt *time.Time       `json:"deleted_at,omitempty"`
}

func (m *DepartmentModel) State() DepartmentState {
	if m.DepartmentDeletedAt.Valid {
		at := m.DepartmentDeletedAt.Time
		return DepartmentState{Status: DepartmentDeleted, DeletedAt: &at}
	}
	return DepartmentState{Status: DepartmentActive}
}

func (m *DepartmentModel) IsDeleted() bool { return m.DepartmentDeletedAt.Valid }
