// file: internals/features/weeks/model/week_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	userModel "weekreport_backend/internals/features/users/user/model"
)

type WeekStatus string

const (
	WeekStatusDraft     WeekStatus = "DRAFT"
	WeekStatusCompleted WeekStatus = "COMPLETED"
)

func (s WeekStatus) Valid() bool {
	return s == WeekStatusDraft || s == WeekStatusCompleted
}

// WeekModel is one reporting period; (week_number, week_year) is unique.
type WeekModel struct {
	WeekID            uuid.UUID      `gorm:"type:uuid;primaryKey;column:week_id" json:"week_id"`
	WeekNumber        int            `gorm:"not null;column:week_number;uniqueIndex:uq_weeks_number_year,priority:1" json:"week_number"`
	WeekYear          int            `gorm:"not null;column:week_year;uniqueIndex:uq_weeks_number_year,priority:2;index:idx_weeks_year" json:"week_year"`
	WeekStartDate     datatypes.Date `gorm:"not null;column:week_start_date" json:"week_start_date"`
	WeekEndDate       datatypes.Date `gorm:"not null;column:week_end_date" json:"week_end_date"`
	WeekStatus        WeekStatus     `gorm:"type:varchar(20);not null;default:'DRAFT';column:week_status" json:"week_status"`
	WeekReportFileURL *string        `gorm:"type:text;column:week_report_file_url" json:"week_report_file_url"`
	WeekCreatedByID   uuid.UUID      `gorm:"type:uuid;not null;column:week_created_by_id;index" json:"week_created_by_id"`

	WeekCreatedAt time.Time `gorm:"column:week_created_at;autoCreateTime" json:"week_created_at"`
	WeekUpdatedAt time.Time `gorm:"column:week_updated_at;autoUpdateTime" json:"week_updated_at"`

	CreatedBy    *userModel.UserModel    `gorm:"foreignKey:WeekCreatedByID;references:ID;constraint:OnDelete:RESTRICT" json:"created_by,omitempty"`
	TaskProgress []WeekTaskProgressModel `gorm:"foreignKey:TaskProgressWeekID;references:WeekID;constraint:OnDelete:CASCADE" json:"task_progress,omitempty"`
	AdHocTasks   []AdHocTaskModel        `gorm:"foreignKey:AdHocTaskWeekID;references:WeekID;constraint:OnDelete:CASCADE" json:"ad_hoc_tasks,omitempty"`
}

func (WeekModel) TableName() string { return "weeks" }

func (m *WeekModel) BeforeCreate(tx *gorm.DB) error {
	if m.WeekID == uuid.Nil {
		m.WeekID = uuid.New()
	}
	if m.WeekStatus == "" {
		m.WeekStatus = WeekStatusDraft
	}
	return nil
}
