// file: internals/features/progress/service/series.go
package service

import (
	"errors"
	"fmt"
	"sort"

	weekModel "weekreport_backend/internals/features/weeks/model"
	"weekreport_backend/internals/helpers/dbtime"
)

// ErrProgressWithoutWeek means a progress row was handed over without its week joined.
// It points at a broken query or broken data, never at bad user input.
var ErrProgressWithoutWeek = errors.New("progress row has no week")

type WeekRef struct {
	WeekNumber int `json:"week_number"`
	Year       int `json:"year"`
}

// Before orders weeks chronologically: year first, then week number.
func (w WeekRef) Before(o WeekRef) bool {
	if w.Year != o.Year {
		return w.Year < o.Year
	}
	return w.WeekNumber < o.WeekNumber
}

type WeeklyProgressPoint struct {
	WeekNumber int     `json:"week_number"`
	Year       int     `json:"year"`
	StartDate  string  `json:"start_date"`
	Progress   int     `json:"progress"`
	Result     *string `json:"result"`
}

func (p WeeklyProgressPoint) Ref() WeekRef {
	return WeekRef{WeekNumber: p.WeekNumber, Year: p.Year}
}

// BuildProgressSeries turns the progress rows of one master task into a chronological series.
// Rows must carry their Week. A null progress becomes 0; rows of the same week keep input order.
func BuildProgressSeries(rows []weekModel.WeekTaskProgressModel) ([]WeeklyProgressPoint, error) {
	out := make([]WeeklyProgressPoint, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		if r.Week == nil {
			return nil, fmt.Errorf("%w: task_progress_id=%s", ErrProgressWithoutWeek, r.TaskProgressID)
		}
		out = append(out, WeeklyProgressPoint{
			WeekNumber: r.Week.WeekNumber,
			Year:       r.Week.WeekYear,
			StartDate:  dbtime.FormatDate(dbtime.CivilDate(timeOfDate(r.Week.WeekStartDate))),
			Progress:   progressOrZero(r.TaskProgressProgress),
			Result:     r.TaskProgressResult,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Ref().Before(out[j].Ref())
	})
	return out, nil
}

func progressOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
