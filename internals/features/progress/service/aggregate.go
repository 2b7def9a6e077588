// file: internals/features/progress/service/aggregate.go
package service

import (
	"time"

	"gorm.io/datatypes"

	weekModel "weekreport_backend/internals/features/weeks/model"
)

// Aggregate is the summary every master-task listing shows.
// A task with no progress rows has LatestProgress 0, IsCompleted false, WeekCount 0.
type Aggregate struct {
	LatestProgress int   `json:"latest_progress"`
	IsCompleted    bool  `json:"is_completed"`
	WeekCount      int64 `json:"week_count"`
}

// HasStarted reports whether the task was ever reported on.
func (a Aggregate) HasStarted() bool { return a.WeekCount > 0 }

// InProgress is started and not completed.
func (a Aggregate) InProgress() bool { return a.WeekCount > 0 && !a.IsCompleted }

// Detail adds the chronological series to Aggregate.
type Detail struct {
	Aggregate
	WeeklyProgress []WeeklyProgressPoint `json:"weekly_progress"`
	FirstWeek      *WeekRef              `json:"first_week"`
	LastWeek       *WeekRef              `json:"last_week"`
}

// LatestRow returns the most recently created row: greatest created_at, then the
// chronologically later week when both rows carry one, then the later position in rows.
// Nil when rows is empty.
func LatestRow(rows []weekModel.WeekTaskProgressModel) *weekModel.WeekTaskProgressModel {
	var best *weekModel.WeekTaskProgressModel
	for i := range rows {
		r := &rows[i]
		if best == nil || !createdBefore(r, best) {
			best = r
		}
	}
	return best
}

// createdBefore is true when a sorts strictly before b in creation order.
func createdBefore(a, b *weekModel.WeekTaskProgressModel) bool {
	if !a.TaskProgressCreatedAt.Equal(b.TaskProgressCreatedAt) {
		return a.TaskProgressCreatedAt.Before(b.TaskProgressCreatedAt)
	}
	if a.Week != nil && b.Week != nil {
		wa := WeekRef{WeekNumber: a.Week.WeekNumber, Year: a.Week.WeekYear}
		wb := WeekRef{WeekNumber: b.Week.WeekNumber, Year: b.Week.WeekYear}
		if wa != wb {
			return wa.Before(wb)
		}
	}
	return false
}

// DeriveSummary builds the aggregate from the latest-created candidates and the total row count.
// candidates may hold every row of the task or only the ones sharing the newest created_at.
func DeriveSummary(candidates []weekModel.WeekTaskProgressModel, weekCount int64) Aggregate {
	agg := Aggregate{WeekCount: weekCount}
	if latest := LatestRow(candidates); latest != nil {
		agg.LatestProgress = progressOrZero(latest.TaskProgressProgress)
		agg.IsCompleted = latest.TaskProgressCompletedAt != nil
	}
	return agg
}

// DeriveDetail builds the aggregate and the series from all rows of one task.
func DeriveDetail(rows []weekModel.WeekTaskProgressModel) (Detail, error) {
	series, err := BuildProgressSeries(rows)
	if err != nil {
		return Detail{}, err
	}
	d := Detail{
		Aggregate:      DeriveSummary(rows, int64(len(rows))),
		WeeklyProgress: series,
	}
	if n := len(series); n > 0 {
		first, last := series[0].Ref(), series[n-1].Ref()
		d.FirstWeek, d.LastWeek = &first, &last
	}
	return d, nil
}

func timeOfDate(d datatypes.Date) time.Time { return time.Time(d) }
