// file: internals/features/weeks/service/week_creator.go
package service

import (
	"context"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	weekModel "weekreport_backend/internals/features/weeks/model"
	helper "weekreport_backend/internals/helpers"
)

// CreateWeek inserts a week with its initial task set. createdByID is the caller's user id.
// A week with the same (week_number, year) is a conflict.
func (s *WeekService) CreateWeek(ctx context.Context, in CreateWeekInput, createdByID uuid.UUID) (*weekModel.WeekModel, error) {
	if createdByID == uuid.Nil {
		return nil, helper.NewValidationError("created_by_id", "is required")
	}
	if err := checkDuplicateMasterTasks(in.TaskProgress); err != nil {
		return nil, err
	}
	if err := checkDateRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = weekModel.WeekStatusDraft
	}
	if !status.Valid() {
		return nil, helper.NewValidationError("status", "must be one of DRAFT COMPLETED")
	}

	db := s.DB.WithContext(ctx)

	var n int64
	if err := db.Model(&weekModel.WeekModel{}).
		Where("week_number = ? AND week_year = ?", in.WeekNumber, in.Year).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, helper.NewConflict("week %d/%d already exists", in.WeekNumber, in.Year)
	}

	now := s.now()
	week := weekModel.WeekModel{
		WeekID:            uuid.New(),
		WeekNumber:        in.WeekNumber,
		WeekYear:          in.Year,
		WeekStartDate:     datatypes.Date(in.StartDate),
		WeekEndDate:       datatypes.Date(in.EndDate),
		WeekStatus:        status,
		WeekReportFileURL: in.ReportFileURL,
		WeekCreatedByID:   createdByID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&week).Error; err != nil {
			return err
		}
		if err := ensureMasterTasksExist(tx, in.TaskProgress); err != nil {
			return err
		}
		if rows := buildProgressRows(week.WeekID, in.TaskProgress, now); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		if err := ensureDepartmentsExist(tx, in.AdHocTasks); err != nil {
			return err
		}
		if rows := buildAdHocRows(week.WeekID, in.AdHocTasks, now); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	lgr.Printf("[INFO] week %d/%d created by %s (%d progress rows)", week.WeekNumber, week.WeekYear, createdByID, len(in.TaskProgress))
	if status == weekModel.WeekStatusCompleted && s.Notifier != nil {
		s.Notifier.WeekCompleted(ctx, week)
	}
	return &week, nil
}
