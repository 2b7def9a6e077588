// file: internals/features/weeks/service/week_query.go
package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	deptModel "weekreport_backend/internals/features/departments/model"
	metricModel "weekreport_backend/internals/features/metrics/model"
	weekModel "weekreport_backend/internals/features/weeks/model"
	helper "weekreport_backend/internals/helpers"
)

/* =========================================================
   List
   ========================================================= */

type ListWeeksFilter struct {
	Year   *int
	Search string // week number
	Paging helper.Paging
}

type WeekListItem struct {
	Week            weekModel.WeekModel
	DepartmentCount int
	TaskCount       int64
}

func (s *WeekService) ListWeeks(ctx context.Context, f ListWeeksFilter) ([]WeekListItem, int64, error) {
	q := s.DB.WithContext(ctx).Model(&weekModel.WeekModel{})
	if f.Year != nil {
		q = q.Where("week_year = ?", *f.Year)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		n, err := strconv.Atoi(term)
		if err != nil {
			return nil, 0, helper.NewValidationError("search", "must be a week number")
		}
		q = q.Where("week_number = ?", n)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("week_year DESC").Order("week_number DESC")
	if f.Paging.Enabled {
		q = q.Offset(f.Paging.Offset).Limit(f.Paging.Limit)
	}
	var weeks []weekModel.WeekModel
	if err := q.Find(&weeks).Error; err != nil {
		return nil, 0, err
	}

	items, err := s.withCounts(ctx, weeks)
	return items, total, err
}

type weekDept struct {
	WeekID       uuid.UUID `gorm:"column:week_id"`
	DepartmentID uuid.UUID `gorm:"column:department_id"`
}

type weekTotal struct {
	WeekID uuid.UUID `gorm:"column:week_id"`
	Total  int64     `gorm:"column:total"`
}

// withCounts adds department_count (distinct departments over progress and ad-hoc rows)
// and task_count (progress rows + ad-hoc rows).
func (s *WeekService) withCounts(ctx context.Context, weeks []weekModel.WeekModel) ([]WeekListItem, error) {
	items := make([]WeekListItem, len(weeks))
	if len(weeks) == 0 {
		return items, nil
	}
	ids := make([]uuid.UUID, len(weeks))
	for i, w := range weeks {
		ids[i] = w.WeekID
	}
	db := s.DB.WithContext(ctx)

	var pairs, adHocPairs []weekDept
	if err := db.Table("week_task_progress AS p").
		Select("DISTINCT p.task_progress_week_id AS week_id, mt.master_task_department_id AS department_id").
		Joins("JOIN master_tasks mt ON mt.master_task_id = p.task_progress_master_task_id").
		Where("p.task_progress_week_id IN ?", ids).
		Scan(&pairs).Error; err != nil {
		return nil, err
	}
	if err := db.Table("ad_hoc_tasks").
		Select("DISTINCT ad_hoc_task_week_id AS week_id, ad_hoc_task_department_id AS department_id").
		Where("ad_hoc_task_week_id IN ?", ids).
		Scan(&adHocPairs).Error; err != nil {
		return nil, err
	}

	var progressTotals, adHocTotals []weekTotal
	if err := db.Table("week_task_progress").
		Select("task_progress_week_id AS week_id, COUNT(*) AS total").
		Where("task_progress_week_id IN ?", ids).
		Group("task_progress_week_id").
		Scan(&progressTotals).Error; err != nil {
		return nil, err
	}
	if err := db.Table("ad_hoc_tasks").
		Select("ad_hoc_task_week_id AS week_id, COUNT(*) AS total").
		Where("ad_hoc_task_week_id IN ?", ids).
		Group("ad_hoc_task_week_id").
		Scan(&adHocTotals).Error; err != nil {
		return nil, err
	}

	depts := map[uuid.UUID]map[uuid.UUID]struct{}{}
	for _, p := range append(pairs, adHocPairs...) {
		if depts[p.WeekID] == nil {
			depts[p.WeekID] = map[uuid.UUID]struct{}{}
		}
		depts[p.WeekID][p.DepartmentID] = struct{}{}
	}
	tasks := map[uuid.UUID]int64{}
	for _, t := range append(progressTotals, adHocTotals...) {
		tasks[t.WeekID] += t.Total
	}

	for i, w := range weeks {
		items[i] = WeekListItem{
			Week:            w,
			DepartmentCount: len(depts[w.WeekID]),
			TaskCount:       tasks[w.WeekID],
		}
	}
	return items, nil
}

// RecentWeeks returns the newest n weeks by (year, week_number).
func (s *WeekService) RecentWeeks(ctx context.Context, n int) ([]WeekListItem, error) {
	items, _, err := s.ListWeeks(ctx, ListWeeksFilter{Paging: helper.Paging{Enabled: true, Page: 1, PerPage: n, Limit: n}})
	return items, err
}

/* =========================================================
   Detail
   ========================================================= */

// DepartmentGroup gathers a week's rows of one department, progress rows first.
type DepartmentGroup struct {
	Department   deptModel.DepartmentModel
	TaskProgress []weekModel.WeekTaskProgressModel
	AdHocTasks   []weekModel.AdHocTaskModel
}

type WeekDetail struct {
	Week              weekModel.WeekModel
	TasksByDepartment []DepartmentGroup
}

func unscoped(db *gorm.DB) *gorm.DB { return db.Unscoped() }

// GetWeek loads a week with creator, progress rows (-> master task -> department) and ad-hoc rows,
// both ordered by order_number. Soft-deleted departments are still joined so history stays readable.
func (s *WeekService) GetWeek(ctx context.Context, weekID uuid.UUID) (*WeekDetail, error) {
	var w weekModel.WeekModel
	err := s.DB.WithContext(ctx).
		Preload("CreatedBy").
		Preload("TaskProgress", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_progress_order_number ASC").Order("task_progress_created_at ASC")
		}).
		Preload("TaskProgress.MasterTask").
		Preload("TaskProgress.MasterTask.Department", unscoped).
		Preload("AdHocTasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("ad_hoc_task_order_number ASC").Order("ad_hoc_task_created_at ASC")
		}).
		Preload("AdHocTasks.Department", unscoped).
		First(&w, "week_id = ?", weekID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("week")
		}
		return nil, err
	}
	return &WeekDetail{Week: w, TasksByDepartment: GroupByDepartment(w)}, nil
}

// GroupByDepartment buckets the week's rows per department, departments sorted by name.
func GroupByDepartment(w weekModel.WeekModel) []DepartmentGroup {
	idx := map[uuid.UUID]int{}
	var groups []DepartmentGroup
	bucket := func(d *deptModel.DepartmentModel, id uuid.UUID) *DepartmentGroup {
		if i, ok := idx[id]; ok {
			return &groups[i]
		}
		g := DepartmentGroup{Department: deptModel.DepartmentModel{DepartmentID: id}}
		if d != nil {
			g.Department = *d
		}
		groups = append(groups, g)
		idx[id] = len(groups) - 1
		return &groups[len(groups)-1]
	}

	for _, p := range w.TaskProgress {
		if p.MasterTask == nil {
			continue
		}
		g := bucket(p.MasterTask.Department, p.MasterTask.MasterTaskDepartmentID)
		g.TaskProgress = append(g.TaskProgress, p)
	}
	for _, a := range w.AdHocTasks {
		g := bucket(a.Department, a.AdHocTaskDepartmentID)
		g.AdHocTasks = append(g.AdHocTasks, a)
	}

	helper.SortByName(groups, func(g DepartmentGroup) string { return g.Department.DepartmentName })
	return groups
}

/* =========================================================
   Delete
   ========================================================= */

// DeleteWeek removes the week together with its progress rows, ad-hoc rows and metric values.
func (s *WeekService) DeleteWeek(ctx context.Context, weekID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w weekModel.WeekModel
		if err := tx.First(&w, "week_id = ?", weekID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("week")
			}
			return err
		}
		if err := tx.Where("week_metric_week_id = ?", weekID).Delete(&metricModel.WeekMetricValueModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_progress_week_id = ?", weekID).Delete(&weekModel.WeekTaskProgressModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("ad_hoc_task_week_id = ?", weekID).Delete(&weekModel.AdHocTaskModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&w).Error
	})
}
