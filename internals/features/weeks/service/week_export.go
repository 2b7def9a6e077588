// file: internals/features/weeks/service/week_export.go
package service

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"STT", "Đơn vị", "Nhiệm vụ", "Kết quả", "Thời gian", "Tiến độ (%)", "Kế hoạch tuần tới", "Quan trọng",
}

// BuildWeekWorkbook renders a week report as a single-sheet XLSX workbook, grouped by department.
func BuildWeekWorkbook(d *WeekDetail) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := fmt.Sprintf("Tuan %d-%d", d.Week.WeekNumber, d.Week.WeekYear)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Báo cáo tuần %d/%d (%s - %s)", d.Week.WeekNumber, d.Week.WeekYear,
		time.Time(d.Week.WeekStartDate).Format("02/01/2006"), time.Time(d.Week.WeekEndDate).Format("02/01/2006"))
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 3)
		_ = f.SetCellStyle(sheet, "A1", last, style)
	}

	row := 4
	n := 0
	for _, g := range d.TasksByDepartment {
		for _, p := range g.TaskProgress {
			n++
			name := ""
			if p.MasterTask != nil {
				name = p.MasterTask.MasterTaskName
			}
			writeExportRow(f, sheet, row, n, g.Department.DepartmentName, name,
				p.TaskProgressResult, p.TaskProgressTimePeriod, p.TaskProgressProgress, p.TaskProgressNextWeekPlan, p.TaskProgressIsImportant)
			row++
		}
		for _, a := range g.AdHocTasks {
			n++
			writeExportRow(f, sheet, row, n, g.Department.DepartmentName, a.AdHocTaskName,
				a.AdHocTaskResult, a.AdHocTaskTimePeriod, a.AdHocTaskProgress, a.AdHocTaskNextWeekPlan, a.AdHocTaskIsImportant)
			row++
		}
	}

	_ = f.SetColWidth(sheet, "B", "C", 30)
	_ = f.SetColWidth(sheet, "D", "D", 45)
	_ = f.SetColWidth(sheet, "G", "G", 45)
	return f, nil
}

func writeExportRow(f *excelize.File, sheet string, row, n int, dept, name string, result, period *string, progress *int, plan *string, important bool) {
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), n)
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), dept)
	_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), name)
	_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), deref(result))
	_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), deref(period))
	if progress != nil {
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), *progress)
	}
	_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), deref(plan))
	if important {
		_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", row), "x")
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
