// file: internals/features/weeks/service/week_reconciler.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"gorm.io/gorm"

	weekModel "weekreport_backend/internals/features/weeks/model"
	helper "weekreport_backend/internals/helpers"
)

// ReplaceTaskSet edits a week and, when asked, swaps its whole task set.
//
// The (week_number, year) conflict check runs before any write. Everything after it
// (scalar update, delete of the old rows, insert of the new rows) is one transaction:
// on any error nothing changes. Row ids are not preserved; the new ones are returned.
func (s *WeekService) ReplaceTaskSet(ctx context.Context, weekID uuid.UUID, in ReplaceTaskSetInput) (*ReplaceResult, error) {
	if in.TaskProgress != nil {
		if err := checkDuplicateMasterTasks(*in.TaskProgress); err != nil {
			return nil, err
		}
	}
	if in.Fields.Status != nil && !in.Fields.Status.Valid() {
		return nil, helper.NewValidationError("status", "must be one of DRAFT COMPLETED")
	}

	db := s.DB.WithContext(ctx)

	var current weekModel.WeekModel
	if err := db.First(&current, "week_id = ?", weekID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("week")
		}
		return nil, err
	}

	if err := s.checkTargetFree(ctx, &current, in.Fields); err != nil {
		return nil, err
	}

	start, end := time.Time(current.WeekStartDate), time.Time(current.WeekEndDate)
	if in.Fields.StartDate != nil {
		start = *in.Fields.StartDate
	}
	if in.Fields.EndDate != nil {
		end = *in.Fields.EndDate
	}
	if err := checkDateRange(start, end); err != nil {
		return nil, err
	}

	now := s.now()
	res := &ReplaceResult{WeekID: weekID}

	err := db.Transaction(func(tx *gorm.DB) error {
		if updates := weekUpdates(in.Fields); len(updates) > 0 {
			if err := tx.Model(&weekModel.WeekModel{}).
				Where("week_id = ?", weekID).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		if in.TaskProgress != nil {
			items := *in.TaskProgress
			if err := ensureMasterTasksExist(tx, items); err != nil {
				return err
			}
			if err := tx.Where("task_progress_week_id = ?", weekID).
				Delete(&weekModel.WeekTaskProgressModel{}).Error; err != nil {
				return err
			}
			rows := buildProgressRows(weekID, items, now)
			if len(rows) > 0 {
				if err := tx.Create(&rows).Error; err != nil {
					return err
				}
			}
			res.TaskProgressIDs = progressIDs(rows)
		}

		if in.AdHocTasks != nil {
			items := *in.AdHocTasks
			if err := ensureDepartmentsExist(tx, items); err != nil {
				return err
			}
			if err := tx.Where("ad_hoc_task_week_id = ?", weekID).
				Delete(&weekModel.AdHocTaskModel{}).Error; err != nil {
				return err
			}
			rows := buildAdHocRows(weekID, items, now)
			if len(rows) > 0 {
				if err := tx.Create(&rows).Error; err != nil {
					return err
				}
			}
			res.AdHocTaskIDs = adHocIDs(rows)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	lgr.Printf("[INFO] week %s reconciled: %d progress rows, %d ad-hoc rows", weekID, len(res.TaskProgressIDs), len(res.AdHocTaskIDs))
	if in.Fields.Status != nil && *in.Fields.Status == weekModel.WeekStatusCompleted {
		s.notifyCompleted(ctx, weekID)
	}
	return res, nil
}

// checkTargetFree rejects a (week_number, year) already owned by another week.
func (s *WeekService) checkTargetFree(ctx context.Context, current *weekModel.WeekModel, f WeekFieldsPatch) error {
	if f.WeekNumber == nil && f.Year == nil {
		return nil
	}
	number, year := current.WeekNumber, current.WeekYear
	if f.WeekNumber != nil {
		number = *f.WeekNumber
	}
	if f.Year != nil {
		year = *f.Year
	}
	if number == current.WeekNumber && year == current.WeekYear {
		return nil
	}

	var n int64
	if err := s.DB.WithContext(ctx).Model(&weekModel.WeekModel{}).
		Where("week_number = ? AND week_year = ? AND week_id <> ?", number, year, current.WeekID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.NewConflict("week %d/%d already exists", number, year)
	}
	return nil
}

func weekUpdates(f WeekFieldsPatch) map[string]any {
	u := map[string]any{}
	if f.WeekNumber != nil {
		u["week_number"] = *f.WeekNumber
	}
	if f.Year != nil {
		u["week_year"] = *f.Year
	}
	if f.StartDate != nil {
		u["week_start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		u["week_end_date"] = *f.EndDate
	}
	if f.ReportFileURLSet {
		u["week_report_file_url"] = f.ReportFileURL
	}
	if f.Status != nil {
		u["week_status"] = string(*f.Status)
	}
	return u
}
