// file: internals/features/events/service/event_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	eventModel "weekreport_backend/internals/features/events/model"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/helpers/dbtime"
)

type EventService struct {
	DB *gorm.DB
	// DefaultChair filters the week board when the caller does not pass one.
	DefaultChair string
}

func NewEventService(db *gorm.DB, defaultChair string) *EventService {
	return &EventService{DB: db, DefaultChair: defaultChair}
}

type EventInput struct {
	Date         time.Time
	Time         *dbtime.Tod
	Location     *string
	Content      string
	Chair        *string
	Participants *string
	Note         *string
	Status       eventModel.EventStatus
}

// EventPatch: nil = untouched; *Set flags clear optional columns when the value is nil.
type EventPatch struct {
	Date            *time.Time
	Time            *dbtime.Tod
	TimeSet         bool
	Location        *string
	LocationSet     bool
	Content         *string
	Chair           *string
	ChairSet        bool
	Participants    *string
	ParticipantsSet bool
	Note            *string
	NoteSet         bool
	Status          *eventModel.EventStatus
}

// List returns events ordered by date then time. Both bounds or neither.
func (s *EventService) List(ctx context.Context, start, end *time.Time) ([]eventModel.EventModel, error) {
	if (start == nil) != (end == nil) {
		return nil, helper.NewValidationError("end_date", "start_date and end_date must be given together")
	}
	q := s.DB.WithContext(ctx)
	if start != nil {
		if end.Before(*start) {
			return nil, helper.NewValidationError("end_date", "must not be before start_date")
		}
		q = q.Where("event_date >= ? AND event_date <= ?", datatypes.Date(*start), datatypes.Date(*end))
	}
	var rows []eventModel.EventModel
	err := q.Order("event_date ASC").Order("event_time ASC").Find(&rows).Error
	return rows, err
}

// Week builds the Monday-first board of the week containing date.
// chair nil means "use the configured default"; an empty string disables the filter.
func (s *EventService) Week(ctx context.Context, date time.Time, chair *string) (*WeekBoard, error) {
	monday := WeekStart(date)
	sunday := monday.AddDate(0, 0, 6)
	rows, err := s.List(ctx, &monday, &sunday)
	if err != nil {
		return nil, err
	}
	filter := s.DefaultChair
	if chair != nil {
		filter = *chair
	}
	board := BuildWeekBoard(monday, rows, strings.TrimSpace(filter))
	return &board, nil
}

func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*eventModel.EventModel, error) {
	var e eventModel.EventModel
	if err := s.DB.WithContext(ctx).First(&e, "event_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("event")
		}
		return nil, err
	}
	return &e, nil
}

func (s *EventService) Create(ctx context.Context, in EventInput) (*eventModel.EventModel, error) {
	status := in.Status
	if status == "" {
		status = eventModel.EventUnconfirmed
	}
	e := eventModel.EventModel{
		EventDate:         datatypes.Date(dbtime.CivilDate(in.Date)),
		EventTime:         in.Time,
		EventLocation:     helper.TrimPtr(in.Location),
		EventContent:      strings.TrimSpace(in.Content),
		EventChair:        helper.TrimPtr(in.Chair),
		EventParticipants: helper.TrimPtr(in.Participants),
		EventNote:         helper.TrimPtr(in.Note),
		EventStatus:       status,
	}
	if err := s.DB.WithContext(ctx).Create(&e).Error; err != nil {
		return nil, err
	}
	lgr.Printf("[INFO] event created %s on %s", e.EventID, dbtime.FormatDate(time.Time(e.EventDate)))
	return &e, nil
}

// Update applies a partial edit; any edit marks the event as edited.
func (s *EventService) Update(ctx context.Context, id uuid.UUID, p EventPatch) (*eventModel.EventModel, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"event_is_edited": true}
	if p.Date != nil {
		updates["event_date"] = datatypes.Date(dbtime.CivilDate(*p.Date))
	}
	if p.TimeSet {
		updates["event_time"] = p.Time
	}
	if p.LocationSet {
		updates["event_location"] = helper.TrimPtr(p.Location)
	}
	if p.Content != nil {
		updates["event_content"] = strings.TrimSpace(*p.Content)
	}
	if p.ChairSet {
		updates["event_chair"] = helper.TrimPtr(p.Chair)
	}
	if p.ParticipantsSet {
		updates["event_participants"] = helper.TrimPtr(p.Participants)
	}
	if p.NoteSet {
		updates["event_note"] = helper.TrimPtr(p.Note)
	}
	if p.Status != nil {
		updates["event_status"] = string(*p.Status)
	}

	if err := s.DB.WithContext(ctx).Model(e).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&eventModel.EventModel{}, "event_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.NotFound("event")
	}
	return nil
}
