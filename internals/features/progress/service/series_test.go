package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	weekModel "weekreport_backend/internals/features/weeks/model"
)

var baseTime = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func week(number, year int) *weekModel.WeekModel {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, (number-1)*7)
	return &weekModel.WeekModel{
		WeekID:        uuid.New(),
		WeekNumber:    number,
		WeekYear:      year,
		WeekStartDate: datatypes.Date(start),
		WeekEndDate:   datatypes.Date(start.AddDate(0, 0, 6)),
	}
}

func row(w *weekModel.WeekModel, progress *int, createdOffset time.Duration) weekModel.WeekTaskProgressModel {
	r := weekModel.WeekTaskProgressModel{
		TaskProgressID:        uuid.New(),
		TaskProgressProgress:  progress,
		TaskProgressCreatedAt: baseTime.Add(createdOffset),
		Week:                  w,
	}
	if w != nil {
		r.TaskProgressWeekID = w.WeekID
	}
	r.TaskProgressCompletedAt = weekModel.CompletedAtFor(progress, r.TaskProgressCreatedAt)
	return r
}

func TestBuildProgressSeries_SortsByYearThenWeek(t *testing.T) {
	rows := []weekModel.WeekTaskProgressModel{
		row(week(2, 2025), intPtr(70), 0),
		row(week(52, 2024), intPtr(50), time.Hour),
		row(week(3, 2024), intPtr(20), 2*time.Hour),
		row(week(10, 2024), intPtr(30), 3*time.Hour),
	}
	results := map[int]string{2: "rollout", 52: "pilot", 3: "drafted the plan"}
	for i := range rows {
		if s, ok := results[rows[i].Week.WeekNumber]; ok {
			s := s
			rows[i].TaskProgressResult = &s
		}
	}

	series, err := BuildProgressSeries(rows)
	if err != nil {
		t.Fatalf("BuildProgressSeries: %v", err)
	}

	want := []WeekRef{{3, 2024}, {10, 2024}, {52, 2024}, {2, 2025}}
	if len(series) != len(want) {
		t.Fatalf("len=%d want %d", len(series), len(want))
	}
	for i, p := range series {
		if p.Ref() != want[i] {
			t.Fatalf("series[%d]=%+v want %+v", i, p.Ref(), want[i])
		}
	}
	for i := 1; i < len(series); i++ {
		if series[i].Ref().Before(series[i-1].Ref()) {
			t.Fatalf("series not ascending at %d", i)
		}
	}
	for _, p := range series {
		want, ok := results[p.WeekNumber]
		switch {
		case !ok && p.Result != nil:
			t.Fatalf("week %d result=%q want nil", p.WeekNumber, *p.Result)
		case ok && (p.Result == nil || *p.Result != want):
			t.Fatalf("week %d result=%v want %q", p.WeekNumber, p.Result, want)
		}
	}
}

func TestBuildProgressSeries_NullProgressIsZero(t *testing.T) {
	series, err := BuildProgressSeries([]weekModel.WeekTaskProgressModel{row(week(5, 2024), nil, 0)})
	if err != nil {
		t.Fatalf("BuildProgressSeries: %v", err)
	}
	if series[0].Progress != 0 {
		t.Fatalf("progress=%d want 0", series[0].Progress)
	}
	if series[0].StartDate != "2024-01-29" {
		t.Fatalf("start_date=%s want 2024-01-29", series[0].StartDate)
	}
}

func TestBuildProgressSeries_StableForSameWeek(t *testing.T) {
	w := week(7, 2024)
	rows := []weekModel.WeekTaskProgressModel{
		row(w, intPtr(10), 0),
		row(w, intPtr(90), time.Minute),
	}
	series, err := BuildProgressSeries(rows)
	if err != nil {
		t.Fatalf("BuildProgressSeries: %v", err)
	}
	if series[0].Progress != 10 || series[1].Progress != 90 {
		t.Fatalf("input order not kept: %+v", series)
	}
}

func TestBuildProgressSeries_MissingWeekFails(t *testing.T) {
	rows := []weekModel.WeekTaskProgressModel{
		row(week(1, 2024), intPtr(10), 0),
		row(nil, intPtr(20), time.Hour),
	}
	if _, err := BuildProgressSeries(rows); !errors.Is(err, ErrProgressWithoutWeek) {
		t.Fatalf("err=%v want ErrProgressWithoutWeek", err)
	}
}

func TestBuildProgressSeries_Empty(t *testing.T) {
	series, err := BuildProgressSeries(nil)
	if err != nil {
		t.Fatalf("BuildProgressSeries: %v", err)
	}
	if len(series) != 0 {
		t.Fatalf("len=%d want 0", len(series))
	}
}
