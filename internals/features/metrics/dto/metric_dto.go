// file: internals/features/metrics/dto/metric_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	metricModel "weekreport_backend/internals/features/metrics/model"
	"weekreport_backend/internals/features/metrics/service"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/helpers/dbtime"
)

/* =========================================================
   Requests
   ========================================================= */

type CreateMetricRequest struct {
	DepartmentID string  `json:"department_id" validate:"required,uuid"`
	Name         string  `json:"name" validate:"required,max=255"`
	Unit         *string `json:"unit" validate:"omitempty,max=50"`
	Description  *string `json:"description"`
	OrderNumber  int     `json:"order_number" validate:"gte=0"`
}

type UpdateMetricRequest struct {
	Name        *string                   `json:"name" validate:"omitempty,min=1,max=255"`
	Unit        helper.PatchField[string] `json:"unit"`
	Description helper.PatchField[string] `json:"description"`
	OrderNumber *int                      `json:"order_number" validate:"omitempty,gte=0"`
	IsActive    *bool                     `json:"is_active"`
}

type UpsertWeekMetricRequest struct {
	MetricID string   `json:"metric_id" validate:"required,uuid"`
	WeekID   string   `json:"week_id" validate:"required,uuid"`
	Value    *float64 `json:"value" validate:"required"`
	Note     *string  `json:"note"`
}

func (r *CreateMetricRequest) Normalize() {
	r.DepartmentID = strings.TrimSpace(r.DepartmentID)
	r.Name = strings.TrimSpace(r.Name)
	r.Unit = helper.TrimPtr(r.Unit)
	r.Description = helper.TrimPtr(r.Description)
}

func (r *UpdateMetricRequest) Normalize() {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		r.Name = &n
	}
	helper.TrimPatch(&r.Unit)
	helper.TrimPatch(&r.Description)
}

func (r *CreateMetricRequest) Validate(v *validator.Validate) error {
	return helper.ValidationFromValidator(v.Struct(r))
}

func (r *UpdateMetricRequest) Validate(v *validator.Validate) error {
	if err := helper.ValidationFromValidator(v.Struct(r)); err != nil {
		return err
	}
	if u, ok := r.Unit.Get(); ok && u != nil && len(*u) > 50 {
		return helper.NewValidationError("unit", "must be at most 50 characters")
	}
	return nil
}

func (r *UpsertWeekMetricRequest) Validate(v *validator.Validate) error {
	return helper.ValidationFromValidator(v.Struct(r))
}

func (r CreateMetricRequest) ToInput() service.CreateMetricInput {
	id, _ := uuid.Parse(r.DepartmentID)
	return service.CreateMetricInput{
		DepartmentID: id,
		Name:         r.Name,
		Unit:         r.Unit,
		Description:  r.Description,
		OrderNumber:  r.OrderNumber,
	}
}

func (r UpdateMetricRequest) ToInput() service.UpdateMetricInput {
	in := service.UpdateMetricInput{Name: r.Name, OrderNumber: r.OrderNumber, IsActive: r.IsActive}
	in.Unit, in.UnitSet = r.Unit.Get()
	in.Description, in.DescriptionSet = r.Description.Get()
	return in
}

func (r UpsertWeekMetricRequest) ToInput() service.UpsertValueInput {
	metricID, _ := uuid.Parse(r.MetricID)
	weekID, _ := uuid.Parse(r.WeekID)
	return service.UpsertValueInput{MetricID: metricID, WeekID: weekID, Value: *r.Value, Note: r.Note}
}

/* =========================================================
   Responses
   ========================================================= */

type DepartmentBrief struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type WeekBrief struct {
	ID         uuid.UUID `json:"id"`
	WeekNumber int       `json:"week_number"`
	Year       int       `json:"year"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
}

type MetricResponse struct {
	ID           uuid.UUID        `json:"id"`
	DepartmentID uuid.UUID        `json:"department_id"`
	Department   *DepartmentBrief `json:"department,omitempty"`
	Name         string           `json:"name"`
	Unit         *string          `json:"unit"`
	Description  *string          `json:"description"`
	OrderNumber  int              `json:"order_number"`
	IsActive     bool             `json:"is_active"`
	ValueCount   *int64           `json:"value_count,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type WeekMetricValueResponse struct {
	ID        uuid.UUID       `json:"id"`
	MetricID  uuid.UUID       `json:"metric_id"`
	WeekID    uuid.UUID       `json:"week_id"`
	Value     float64         `json:"value"`
	Note      *string         `json:"note"`
	Metric    *MetricResponse `json:"metric,omitempty"`
	Week      *WeekBrief      `json:"week,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type MetricDetailResponse struct {
	MetricResponse
	WeekValues []WeekMetricValueResponse `json:"week_values"`
}

type TableRowResponse struct {
	Metric MetricResponse `json:"metric"`
	Values []*float64     `json:"values"`
	Total  float64        `json:"total"`
}

type MetricTableResponse struct {
	Year  int                `json:"year"`
	Weeks []WeekBrief        `json:"weeks"`
	Rows  []TableRowResponse `json:"rows"`
}

func FromMetricModel(m metricModel.MetricDefinitionModel) MetricResponse {
	out := MetricResponse{
		ID:           m.MetricID,
		DepartmentID: m.MetricDepartmentID,
		Name:         m.MetricName,
		Unit:         m.MetricUnit,
		Description:  m.MetricDescription,
		OrderNumber:  m.MetricOrderNumber,
		IsActive:     m.MetricIsActive,
		CreatedAt:    m.MetricCreatedAt,
		UpdatedAt:    m.MetricUpdatedAt,
	}
	if d := m.Department; d != nil {
		out.Department = &DepartmentBrief{ID: d.DepartmentID, Name: d.DepartmentName}
	}
	return out
}

func FromMetricWithCount(m service.MetricWithCount) MetricResponse {
	out := FromMetricModel(m.Metric)
	n := m.ValueCount
	out.ValueCount = &n
	return out
}

func FromValueModel(v metricModel.WeekMetricValueModel) WeekMetricValueResponse {
	out := WeekMetricValueResponse{
		ID:        v.WeekMetricID,
		MetricID:  v.WeekMetricMetricID,
		WeekID:    v.WeekMetricWeekID,
		Value:     v.WeekMetricValue,
		Note:      v.WeekMetricNote,
		CreatedAt: v.WeekMetricCreatedAt,
		UpdatedAt: v.WeekMetricUpdatedAt,
	}
	if v.Metric != nil {
		m := FromMetricModel(*v.Metric)
		out.Metric = &m
	}
	if w := v.Week; w != nil {
		out.Week = &WeekBrief{
			ID:         w.WeekID,
			WeekNumber: w.WeekNumber,
			Year:       w.WeekYear,
			StartDate:  dbtime.FormatDate(time.Time(w.WeekStartDate)),
			EndDate:    dbtime.FormatDate(time.Time(w.WeekEndDate)),
		}
	}
	return out
}

func FromMetricDetail(d *service.MetricDetail) MetricDetailResponse {
	out := MetricDetailResponse{
		MetricResponse: FromMetricModel(d.Metric),
		WeekValues:     make([]WeekMetricValueResponse, 0, len(d.Recent)),
	}
	for _, v := range d.Recent {
		out.WeekValues = append(out.WeekValues, FromValueModel(v))
	}
	return out
}

func FromMetricTable(t *service.MetricTable) MetricTableResponse {
	out := MetricTableResponse{
		Year:  t.Year,
		Weeks: make([]WeekBrief, 0, len(t.Weeks)),
		Rows:  make([]TableRowResponse, 0, len(t.Rows)),
	}
	for _, w := range t.Weeks {
		out.Weeks = append(out.Weeks, WeekBrief{
			ID:         w.WeekID,
			WeekNumber: w.WeekNumber,
			Year:       w.WeekYear,
			StartDate:  dbtime.FormatDate(time.Time(w.WeekStartDate)),
			EndDate:    dbtime.FormatDate(time.Time(w.WeekEndDate)),
		})
	}
	for _, r := range t.Rows {
		out.Rows = append(out.Rows, TableRowResponse{Metric: FromMetricModel(r.Metric), Values: r.Values, Total: r.Total})
	}
	return out
}
