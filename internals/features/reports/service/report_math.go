// file: internals/features/reports/service/report_math.go
package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	progressSvc "weekreport_backend/internals/features/progress/service"
	helper "weekreport_backend/internals/helpers"
)

const (
	RecentWeeksCount   = 6
	ImportantTaskCount = 5
	TopDepartmentCount = 5
	TopTaskCount       = 5
)

// Quarters split the reporting year by week number.
var Quarters = []Quarter{
	{Name: "Q1", FromWeek: 1, ToWeek: 13},
	{Name: "Q2", FromWeek: 14, ToWeek: 26},
	{Name: "Q3", FromWeek: 27, ToWeek: 39},
	{Name: "Q4", FromWeek: 40, ToWeek: 53},
}

// percent rounds half up, the way the dashboard always displayed it.
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func roundAvg(sum float64, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(sum / float64(n)))
}

func briefOf(t TaskView) TaskBrief {
	return TaskBrief{ID: t.ID, Name: t.Name, Department: t.Department, Aggregate: t.Aggregate}
}

// topByLatestProgress keeps started tasks, highest latest progress first.
func topByLatestProgress(tasks []TaskView, keep func(TaskView) bool, n int) []TaskBrief {
	picked := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			picked = append(picked, t)
		}
	}
	sort.SliceStable(picked, func(i, j int) bool { return picked[i].LatestProgress > picked[j].LatestProgress })
	if len(picked) > n {
		picked = picked[:n]
	}
	out := make([]TaskBrief, 0, len(picked))
	for _, t := range picked {
		out = append(out, briefOf(t))
	}
	return out
}

func countTasks(tasks []TaskView) TaskCounts {
	c := TaskCounts{TotalTasks: len(tasks)}
	progressSum := 0
	for _, t := range tasks {
		switch {
		case t.IsCompleted:
			c.CompletedTasks++
		case t.WeekCount > 0:
			c.InProgressTasks++
		}
		if t.WeekCount == 0 {
			c.NotStartedTasks++
		}
		progressSum += t.LatestProgress
		c.TotalWeeks += t.WeekCount
	}
	c.AvgProgress = roundAvg(float64(progressSum), len(tasks))
	c.CompletionRate = percent(c.CompletedTasks, len(tasks))
	return c
}

/* ===============================
   Overview
=================================*/

func BuildOverview(totalDepartments int64, tasks []TaskView, recent []WeekSummary) OverviewReport {
	r := OverviewReport{
		TotalDepartments: totalDepartments,
		TotalMasterTasks: len(tasks),
		RecentWeeks:      recent,
	}
	for _, t := range tasks {
		if t.IsCompleted {
			r.TasksCompleted++
		} else if t.WeekCount > 0 {
			r.TasksInProgress++
		}
	}
	r.CompletionRate = percent(r.TasksCompleted, len(tasks))
	r.ImportantTasks = topByLatestProgress(tasks, func(t TaskView) bool { return t.InProgress() }, ImportantTaskCount)
	if r.RecentWeeks == nil {
		r.RecentWeeks = []WeekSummary{}
	}
	return r
}

/* ===============================
   Task metrics
=================================*/

// tasksOfYear: reported on during year, created during year, or never reported on.
func tasksOfYear(tasks []TaskView, year int) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		if len(t.WeeklyProgress) == 0 || t.CreatedAt.Year() == year || hasProgressInYear(t, year) {
			out = append(out, t)
		}
	}
	return out
}

func hasProgressInYear(t TaskView, year int) bool {
	for _, p := range t.WeeklyProgress {
		if p.Year == year {
			return true
		}
	}
	return false
}

// pointsInMonth are the points whose week starts in the given calendar month.
func pointsInMonth(t TaskView, year, month int) []progressSvc.WeeklyProgressPoint {
	var out []progressSvc.WeeklyProgressPoint
	for _, p := range t.WeeklyProgress {
		if d, ok := pointStart(p); ok && d.Year() == year && int(d.Month()) == month {
			out = append(out, p)
		}
	}
	return out
}

func pointStart(p progressSvc.WeeklyProgressPoint) (time.Time, bool) {
	d, err := time.Parse("2006-01-02", p.StartDate)
	return d, err == nil
}

func avgPoints(points []progressSvc.WeeklyProgressPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0
	for _, p := range points {
		sum += p.Progress
	}
	return float64(sum) / float64(len(points))
}

func buildMonthly(tasks []TaskView, year int) []MonthlyMetrics {
	out := make([]MonthlyMetrics, 0, 12)
	for month := 1; month <= 12; month++ {
		m := MonthlyMetrics{Month: month, Label: fmt.Sprintf("T%d", month)}
		var sum float64
		for _, t := range tasks {
			pts := pointsInMonth(t, year, month)
			if len(pts) == 0 {
				continue
			}
			m.TasksWithProgress++
			sum += avgPoints(pts)

			last := t.WeeklyProgress[len(t.WeeklyProgress)-1]
			if d, ok := pointStart(last); ok && t.IsCompleted && d.Year() == year && int(d.Month()) == month {
				m.CompletedInMonth++
			}
		}
		m.AvgProgress = roundAvg(sum, m.TasksWithProgress)
		out = append(out, m)
	}
	return out
}

// BuildTaskMetrics computes the yearly metrics over departments (already filtered and sorted).
func BuildTaskMetrics(year int, departments []DepartmentRef, tasks []TaskView) TaskMetricsReport {
	inYear := tasksOfYear(tasks, year)

	byDept := make(map[string][]TaskView, len(departments))
	for _, t := range inYear {
		k := t.Department.ID.String()
		byDept[k] = append(byDept[k], t)
	}

	r := TaskMetricsReport{
		Year:        year,
		Overall:     OverallMetrics{TaskCounts: countTasks(inYear)},
		Departments: make([]DepartmentMetrics, 0, len(departments)),
		Monthly:     buildMonthly(inYear, year),
		TopTasks:    topByLatestProgress(inYear, func(t TaskView) bool { return t.HasStarted() }, TopTaskCount),
	}
	r.Overall.AvgWeeksPerTask = roundAvg(float64(r.Overall.TotalWeeks), len(inYear))

	for _, d := range departments {
		r.Departments = append(r.Departments, DepartmentMetrics{
			Department: d,
			TaskCounts: countTasks(byDept[d.ID.String()]),
		})
	}

	r.TopDepartments = append([]DepartmentMetrics(nil), r.Departments...)
	sort.SliceStable(r.TopDepartments, func(i, j int) bool {
		return r.TopDepartments[i].CompletionRate > r.TopDepartments[j].CompletionRate
	})
	if len(r.TopDepartments) > TopDepartmentCount {
		r.TopDepartments = r.TopDepartments[:TopDepartmentCount]
	}
	return r
}

/* ===============================
   Timeline
=================================*/

func quarterOf(week int) int {
	for i, q := range Quarters {
		if week >= q.FromWeek && week <= q.ToWeek {
			return i
		}
	}
	return -1
}

// BuildTimeline groups the tasks of year by department and averages each quarter.
// A task counts in a quarter when it has a point there; its quarter value is the mean of those points.
func BuildTimeline(year int, tasks []TaskView) TimelineReport {
	r := TimelineReport{Year: year, Departments: []TimelineDepartment{}, Quarters: make([]QuarterSummary, len(Quarters))}

	index := map[string]int{}
	qSum := make([]float64, len(Quarters))

	for _, t := range tasks {
		if len(t.WeeklyProgress) > 0 && !hasProgressInYear(t, year) {
			continue
		}

		tt := TimelineTask{
			ID:             t.ID,
			Name:           t.Name,
			LatestProgress: t.LatestProgress,
			IsCompleted:    t.IsCompleted,
			WeekCount:      t.WeekCount,
			Points:         []progressSvc.WeeklyProgressPoint{},
		}
		perQuarter := make([][]progressSvc.WeeklyProgressPoint, len(Quarters))
		for _, p := range t.WeeklyProgress {
			if p.Year != year {
				continue
			}
			tt.Points = append(tt.Points, p)
			if q := quarterOf(p.WeekNumber); q >= 0 {
				perQuarter[q] = append(perQuarter[q], p)
			}
		}
		for q, pts := range perQuarter {
			if len(pts) > 0 {
				r.Quarters[q].TaskCount++
				qSum[q] += avgPoints(pts)
			}
		}

		k := t.Department.ID.String()
		i, ok := index[k]
		if !ok {
			i = len(r.Departments)
			index[k] = i
			r.Departments = append(r.Departments, TimelineDepartment{Department: t.Department})
		}
		r.Departments[i].Tasks = append(r.Departments[i].Tasks, tt)
	}

	for i, q := range Quarters {
		r.Quarters[i].Quarter = q
		r.Quarters[i].AvgProgress = roundAvg(qSum[i], r.Quarters[i].TaskCount)
	}
	helper.SortByName(r.Departments, func(d TimelineDepartment) string { return d.Department.Name })
	return r
}

/* ===============================
   Tasks overview
=================================*/

func BuildTasksOverview(groupBy GroupBy, tasks []TaskView) TasksOverview {
	c := countTasks(tasks)
	out := TasksOverview{
		GroupBy:         groupBy,
		TotalTasks:      c.TotalTasks,
		InProgressTasks: c.InProgressTasks,
		CompletedTasks:  c.CompletedTasks,
		NotStartedTasks: c.NotStartedTasks,
		Groups:          []TaskGroup{},
	}

	if groupBy == GroupByDepartment {
		index := map[string]int{}
		for _, t := range tasks {
			k := t.Department.ID.String()
			i, ok := index[k]
			if !ok {
				i = len(out.Groups)
				index[k] = i
				out.Groups = append(out.Groups, TaskGroup{Key: t.Department.ID, Name: t.Department.Name})
			}
			out.Groups[i].Items = append(out.Groups[i].Items, t)
		}
		helper.SortByName(out.Groups, func(g TaskGroup) string { return g.Name })
		return out
	}

	for _, t := range tasks {
		out.Groups = append(out.Groups, TaskGroup{Key: t.ID, Name: t.Name, Items: []TaskView{t}})
	}
	return out
}
