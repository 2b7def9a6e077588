// file: internals/features/metrics/service/metric_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"gorm.io/gorm"

	deptModel "weekreport_backend/internals/features/departments/model"
	metricModel "weekreport_backend/internals/features/metrics/model"
	helper "weekreport_backend/internals/helpers"
)

// RecentValuesLimit is how many week values the metric detail carries.
const RecentValuesLimit = 20

type MetricService struct {
	DB *gorm.DB
}

func NewMetricService(db *gorm.DB) *MetricService {
	return &MetricService{DB: db}
}

type MetricWithCount struct {
	Metric     metricModel.MetricDefinitionModel
	ValueCount int64
}

type MetricDetail struct {
	Metric metricModel.MetricDefinitionModel
	Recent []metricModel.WeekMetricValueModel // newest week first
}

type CreateMetricInput struct {
	DepartmentID uuid.UUID
	Name         string
	Unit         *string
	Description  *string
	OrderNumber  int
}

type UpdateMetricInput struct {
	Name           *string
	Unit           *string
	UnitSet        bool
	Description    *string
	DescriptionSet bool
	OrderNumber    *int
	IsActive       *bool
}

func preloadDepartment(db *gorm.DB) *gorm.DB { return db.Unscoped() }

/* =========================================================
   Definitions
   ========================================================= */

// ListDefinitions returns active metrics ordered by department, order_number, created_at.
func (s *MetricService) ListDefinitions(ctx context.Context, departmentID *uuid.UUID) ([]MetricWithCount, error) {
	q := s.DB.WithContext(ctx).
		Preload("Department", preloadDepartment).
		Where("metric_is_active = ?", true)
	if departmentID != nil {
		q = q.Where("metric_department_id = ?", *departmentID)
	}
	var rows []metricModel.MetricDefinitionModel
	if err := q.Order("metric_department_id ASC").
		Order("metric_order_number ASC").
		Order("metric_created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := map[uuid.UUID]int64{}
	if len(rows) > 0 {
		ids := make([]uuid.UUID, len(rows))
		for i, m := range rows {
			ids[i] = m.MetricID
		}
		var cs []struct {
			MetricID uuid.UUID `gorm:"column:metric_id"`
			Total    int64     `gorm:"column:total"`
		}
		if err := s.DB.WithContext(ctx).Model(&metricModel.WeekMetricValueModel{}).
			Select("week_metric_metric_id AS metric_id, COUNT(*) AS total").
			Where("week_metric_metric_id IN ?", ids).
			Group("week_metric_metric_id").
			Scan(&cs).Error; err != nil {
			return nil, err
		}
		for _, c := range cs {
			counts[c.MetricID] = c.Total
		}
	}

	out := make([]MetricWithCount, 0, len(rows))
	for _, m := range rows {
		out = append(out, MetricWithCount{Metric: m, ValueCount: counts[m.MetricID]})
	}
	return out, nil
}

// GetDefinition returns a metric (active or not) with its most recent week values.
func (s *MetricService) GetDefinition(ctx context.Context, id uuid.UUID) (*MetricDetail, error) {
	db := s.DB.WithContext(ctx)
	var m metricModel.MetricDefinitionModel
	if err := db.Preload("Department", preloadDepartment).First(&m, "metric_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("metric")
		}
		return nil, err
	}

	var recent []metricModel.WeekMetricValueModel
	if err := db.Joins("Week").
		Where("week_metric_metric_id = ?", id).
		Order(`"Week"."week_year" DESC`).
		Order(`"Week"."week_number" DESC`).
		Limit(RecentValuesLimit).
		Find(&recent).Error; err != nil {
		return nil, err
	}
	return &MetricDetail{Metric: m, Recent: recent}, nil
}

func (s *MetricService) CreateDefinition(ctx context.Context, in CreateMetricInput) (*metricModel.MetricDefinitionModel, error) {
	db := s.DB.WithContext(ctx)
	var n int64
	if err := db.Model(&deptModel.DepartmentModel{}).Where("department_id = ?", in.DepartmentID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, helper.NewValidationError("department_id", "department not found")
	}

	m := metricModel.MetricDefinitionModel{
		MetricDepartmentID: in.DepartmentID,
		MetricName:         strings.TrimSpace(in.Name),
		MetricUnit:         helper.TrimPtr(in.Unit),
		MetricDescription:  helper.TrimPtr(in.Description),
		MetricOrderNumber:  in.OrderNumber,
		MetricIsActive:     true,
	}
	if err := db.Create(&m).Error; err != nil {
		return nil, err
	}
	lgr.Printf("[INFO] metric created: %s (%s)", m.MetricName, m.MetricID)
	return s.reload(ctx, m.MetricID)
}

func (s *MetricService) UpdateDefinition(ctx context.Context, id uuid.UUID, in UpdateMetricInput) (*metricModel.MetricDefinitionModel, error) {
	db := s.DB.WithContext(ctx)
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["metric_name"] = strings.TrimSpace(*in.Name)
	}
	if in.UnitSet {
		updates["metric_unit"] = helper.TrimPtr(in.Unit)
	}
	if in.DescriptionSet {
		updates["metric_description"] = helper.TrimPtr(in.Description)
	}
	if in.OrderNumber != nil {
		updates["metric_order_number"] = *in.OrderNumber
	}
	if in.IsActive != nil {
		updates["metric_is_active"] = *in.IsActive
	}
	if len(updates) > 0 {
		if err := db.Model(&metricModel.MetricDefinitionModel{}).Where("metric_id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.reload(ctx, id)
}

// DeactivateDefinition is the metric delete: values stay, the metric leaves every listing.
func (s *MetricService) DeactivateDefinition(ctx context.Context, id uuid.UUID) error {
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&metricModel.MetricDefinitionModel{}).
		Where("metric_id = ?", id).
		Update("metric_is_active", false).Error
}

func (s *MetricService) exists(ctx context.Context, id uuid.UUID) error {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&metricModel.MetricDefinitionModel{}).Where("metric_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.NotFound("metric")
	}
	return nil
}

func (s *MetricService) reload(ctx context.Context, id uuid.UUID) (*metricModel.MetricDefinitionModel, error) {
	var m metricModel.MetricDefinitionModel
	if err := s.DB.WithContext(ctx).Preload("Department", preloadDepartment).First(&m, "metric_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
