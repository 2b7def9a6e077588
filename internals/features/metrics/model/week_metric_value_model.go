// file: internals/features/metrics/model/week_metric_value_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	weekModel "weekreport_backend/internals/features/weeks/model"
)

// WeekMetricValueModel is the value of one metric in one week; unique on (metric, week).
type WeekMetricValueModel struct {
	WeekMetricID       uuid.UUID `gorm:"type:uuid;primaryKey;column:week_metric_id" json:"week_metric_id"`
	WeekMetricMetricID uuid.UUID `gorm:"type:uuid;not null;column:week_metric_metric_id;uniqueIndex:uq_week_metric_metric_week,priority:1" json:"week_metric_metric_id"`
	WeekMetricWeekID   uuid.UUID `gorm:"type:uuid;not null;column:week_metric_week_id;uniqueIndex:uq_week_metric_metric_week,priority:2;index:idx_week_metric_week" json:"week_metric_week_id"`
	WeekMetricValue    float64   `gorm:"not null;default:0;column:week_metric_value" json:"week_metric_value"`
	WeekMetricNote     *string   `gorm:"type:text;column:week_metric_note" json:"week_metric_note"`

	WeekMetricCreatedAt time.Time `gorm:"column:week_metric_created_at;autoCreateTime" json:"week_metric_created_at"`
	WeekMetricUpdatedAt time.Time `gorm:"column:week_metric_updated_at;autoUpdateTime" json:"week_metric_updated_at"`

	Metric *MetricDefinitionModel `gorm:"foreignKey:WeekMetricMetricID;references:MetricID;constraint:OnDelete:CASCADE" json:"metric,omitempty"`
	Week   *weekModel.WeekModel   `gorm:"foreignKey:WeekMetricWeekID;references:WeekID;constraint:OnDelete:CASCADE" json:"week,omitempty"`
}

func (WeekMetricValueModel) TableName() string { return "week_metric_values" }

func (m *WeekMetricValueModel) BeforeCreate(tx *gorm.DB) error {
	if m.WeekMetricID == uuid.Nil {
		m.WeekMetricID = uuid.New()
	}
	return nil
}
