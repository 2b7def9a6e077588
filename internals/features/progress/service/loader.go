// file: internals/features/progress/service/loader.go
package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	weekModel "weekreport_backend/internals/features/weeks/model"
)

// Loader reads progress rows for a set of master tasks and derives their aggregates.
type Loader struct {
	DB *gorm.DB
}

func NewLoader(db *gorm.DB) *Loader { return &Loader{DB: db} }

type taskCount struct {
	MasterTaskID uuid.UUID `gorm:"column:master_task_id"`
	Total        int64     `gorm:"column:total"`
}

// Summaries fetches only the newest-created rows per task plus a grouped count.
// Tasks without rows are present in the result with the zero aggregate.
func (l *Loader) Summaries(ctx context.Context, taskIDs []uuid.UUID) (map[uuid.UUID]Aggregate, error) {
	out := make(map[uuid.UUID]Aggregate, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}
	db := l.DB.WithContext(ctx)

	var counts []taskCount
	if err := db.Model(&weekModel.WeekTaskProgressModel{}).
		Select("task_progress_master_task_id AS master_task_id, COUNT(*) AS total").
		Where("task_progress_master_task_id IN ?", taskIDs).
		Group("task_progress_master_task_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	var latest []weekModel.WeekTaskProgressModel
	if err := db.
		Where("task_progress_master_task_id IN ?", taskIDs).
		Where(`task_progress_created_at = (
			SELECT MAX(p2.task_progress_created_at) FROM week_task_progress p2
			WHERE p2.task_progress_master_task_id = week_task_progress.task_progress_master_task_id)`).
		Preload("Week").
		Find(&latest).Error; err != nil {
		return nil, err
	}

	byTask := groupByTask(latest)
	countOf := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		countOf[c.MasterTaskID] = c.Total
	}
	for _, id := range taskIDs {
		out[id] = DeriveSummary(byTask[id], countOf[id])
	}
	return out, nil
}

// Details fetches every row (with its week) of each task and derives series + aggregate.
func (l *Loader) Details(ctx context.Context, taskIDs []uuid.UUID) (map[uuid.UUID]Detail, error) {
	out := make(map[uuid.UUID]Detail, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}

	var rows []weekModel.WeekTaskProgressModel
	if err := l.DB.WithContext(ctx).
		Where("task_progress_master_task_id IN ?", taskIDs).
		Order("task_progress_created_at ASC").
		Preload("Week").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byTask := groupByTask(rows)
	for _, id := range taskIDs {
		d, err := DeriveDetail(byTask[id])
		if err != nil {
			return nil, err
		}
		out[id] = d
	}
	return out, nil
}

// History returns the rows of one task newest week first, with week and master task joined.
func (l *Loader) History(ctx context.Context, taskID uuid.UUID) ([]weekModel.WeekTaskProgressModel, error) {
	var rows []weekModel.WeekTaskProgressModel
	err := l.DB.WithContext(ctx).
		Joins("Week").
		Where("task_progress_master_task_id = ?", taskID).
		Order(`"Week"."week_year" DESC`).
		Order(`"Week"."week_number" DESC`).
		Find(&rows).Error
	return rows, err
}

func groupByTask(rows []weekModel.WeekTaskProgressModel) map[uuid.UUID][]weekModel.WeekTaskProgressModel {
	m := make(map[uuid.UUID][]weekModel.WeekTaskProgressModel)
	for _, r := range rows {
		m[r.TaskProgressMasterTaskID] = append(m[r.TaskProgressMasterTaskID], r)
	}
	return m
}
