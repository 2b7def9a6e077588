// file: internals/features/metrics/service/week_metric_service.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	metricModel "weekreport_backend/internals/features/metrics/model"
	weekModel "weekreport_backend/internals/features/weeks/model"
	helper "weekreport_backend/internals/helpers"
)

type ValueFilter struct {
	WeekID   *uuid.UUID
	MetricID *uuid.UUID
}

type UpsertValueInput struct {
	MetricID uuid.UUID
	WeekID   uuid.UUID
	Value    float64
	Note     *string
}

// ListValues returns week metric values newest first, with metric (+department) and week.
func (s *MetricService) ListValues(ctx context.Context, f ValueFilter) ([]metricModel.WeekMetricValueModel, error) {
	q := s.DB.WithContext(ctx).
		Preload("Metric").
		Preload("Metric.Department", preloadDepartment).
		Preload("Week")
	if f.WeekID != nil {
		q = q.Where("week_metric_week_id = ?", *f.WeekID)
	}
	if f.MetricID != nil {
		q = q.Where("week_metric_metric_id = ?", *f.MetricID)
	}
	var rows []metricModel.WeekMetricValueModel
	err := q.Order("week_metric_created_at DESC").Find(&rows).Error
	return rows, err
}

// UpsertValue writes the value of one metric in one week with a single
// INSERT ... ON CONFLICT (metric, week) DO UPDATE.
func (s *MetricService) UpsertValue(ctx context.Context, in UpsertValueInput) (*metricModel.WeekMetricValueModel, error) {
	db := s.DB.WithContext(ctx)

	vErr := &helper.ValidationError{}
	var n int64
	if err := db.Model(&metricModel.MetricDefinitionModel{}).
		Where("metric_id = ? AND metric_is_active = ?", in.MetricID, true).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		vErr.Add("metric_id", "metric not found")
	}
	if err := db.Model(&weekModel.WeekModel{}).Where("week_id = ?", in.WeekID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		vErr.Add("week_id", "week not found")
	}
	if !vErr.Empty() {
		return nil, vErr
	}

	now := time.Now()
	row := metricModel.WeekMetricValueModel{
		WeekMetricID:        uuid.New(),
		WeekMetricMetricID:  in.MetricID,
		WeekMetricWeekID:    in.WeekID,
		WeekMetricValue:     in.Value,
		WeekMetricNote:      helper.TrimPtr(in.Note),
		WeekMetricCreatedAt: now,
		WeekMetricUpdatedAt: now,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "week_metric_metric_id"}, {Name: "week_metric_week_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"week_metric_value", "week_metric_note", "week_metric_updated_at",
		}),
	}).Create(&row).Error; err != nil {
		return nil, err
	}

	var out metricModel.WeekMetricValueModel
	if err := db.Preload("Metric").
		Preload("Metric.Department", preloadDepartment).
		Preload("Week").
		First(&out, "week_metric_metric_id = ? AND week_metric_week_id = ?", in.MetricID, in.WeekID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

/* =========================================================
   Metric x week grid
   ========================================================= */

type TableRow struct {
	Metric metricModel.MetricDefinitionModel
	Values []*float64 // aligned with MetricTable.Weeks; nil = not reported
	Total  float64
}

type MetricTable struct {
	Year  int
	Weeks []weekModel.WeekModel // week_number ascending
	Rows  []TableRow
}

// Table builds the metric x week grid of one year, optionally for one department.
func (s *MetricService) Table(ctx context.Context, year int, departmentID *uuid.UUID) (*MetricTable, error) {
	db := s.DB.WithContext(ctx)

	var weeks []weekModel.WeekModel
	if err := db.Where("week_year = ?", year).Order("week_number ASC").Find(&weeks).Error; err != nil {
		return nil, err
	}
	metrics, err := s.ListDefinitions(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	out := &MetricTable{Year: year, Weeks: weeks, Rows: make([]TableRow, 0, len(metrics))}
	if len(weeks) == 0 || len(metrics) == 0 {
		for _, m := range metrics {
			out.Rows = append(out.Rows, TableRow{Metric: m.Metric, Values: make([]*float64, len(weeks))})
		}
		return out, nil
	}

	weekIdx := make(map[uuid.UUID]int, len(weeks))
	weekIDs := make([]uuid.UUID, len(weeks))
	for i, w := range weeks {
		weekIdx[w.WeekID] = i
		weekIDs[i] = w.WeekID
	}
	metricIDs := make([]uuid.UUID, len(metrics))
	for i, m := range metrics {
		metricIDs[i] = m.Metric.MetricID
	}

	var values []metricModel.WeekMetricValueModel
	if err := db.Where("week_metric_week_id IN ? AND week_metric_metric_id IN ?", weekIDs, metricIDs).
		Find(&values).Error; err != nil {
		return nil, err
	}
	byMetric := map[uuid.UUID][]metricModel.WeekMetricValueModel{}
	for _, v := range values {
		byMetric[v.WeekMetricMetricID] = append(byMetric[v.WeekMetricMetricID], v)
	}

	for _, m := range metrics {
		row := TableRow{Metric: m.Metric, Values: make([]*float64, len(weeks))}
		for _, v := range byMetric[m.Metric.MetricID] {
			val := v.WeekMetricValue
			row.Values[weekIdx[v.WeekMetricWeekID]] = &val
			row.Total += val
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

