// file: internals/features/metrics/model/metric_definition_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	deptModel "weekreport_backend/internals/features/departments/model"
)

// MetricDefinitionModel is a quantity a department reports every week (e.g. documents processed).
// Deleting a metric only flips metric_is_active.
type MetricDefinitionModel struct {
	MetricID           uuid.UUID `gorm:"type:uuid;primaryKey;column:metric_id" json:"metric_id"`
	MetricDepartmentID uuid.UUID `gorm:"type:uuid;not null;column:metric_department_id;index:idx_metrics_department_order,priority:1" json:"metric_department_id"`
	MetricName         string    `gorm:"type:varchar(255);not null;column:metric_name" json:"metric_name"`
	MetricUnit         *string   `gorm:"type:varchar(50);column:metric_unit" json:"metric_unit"`
	MetricDescription  *string   `gorm:"type:text;column:metric_description" json:"metric_description"`
	MetricOrderNumber  int       `gorm:"not null;default:0;column:metric_order_number;index:idx_metrics_department_order,priority:2" json:"metric_order_number"`
	MetricIsActive     bool      `gorm:"not null;default:true;column:metric_is_active" json:"metric_is_active"`

	MetricCreatedAt time.Time `gorm:"column:metric_created_at;autoCreateTime" json:"metric_created_at"`
	MetricUpdatedAt time.Time `gorm:"column:metric_updated_at;autoUpdateTime" json:"metric_updated_at"`

	Department *deptModel.DepartmentModel `gorm:"foreignKey:MetricDepartmentID;references:DepartmentID;constraint:OnDelete:RESTRICT" json:"department,omitempty"`
}

func (MetricDefinitionModel) TableName() string { return "metric_definitions" }

func (m *MetricDefinitionModel) BeforeCreate(tx *gorm.DB) error {
	if m.MetricID == uuid.Nil {
		m.MetricID = uuid.New()
	}
	return nil
}
