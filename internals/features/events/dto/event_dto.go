// file: internals/features/events/dto/event_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	eventModel "weekreport_backend/internals/features/events/model"
	"weekreport_backend/internals/features/events/service"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/helpers/dbtime"
)

/* =========================================================
   Requests
   ========================================================= */

type CreateEventRequest struct {
	Date         string  `json:"date" validate:"required"`
	Time         *string `json:"time"`
	Location     *string `json:"location" validate:"omitempty,max=255"`
	Content      string  `json:"content" validate:"required"`
	Chair        *string `json:"chair" validate:"omitempty,max=255"`
	Participants *string `json:"participants"`
	Note         *string `json:"note"`
	Status       string  `json:"status" validate:"omitempty,oneof=CONFIRMED UNCONFIRMED"`
}

// UpdateEventRequest: absent = untouched, null clears the optional columns.
type UpdateEventRequest struct {
	Date         *string                   `json:"date"`
	Time         helper.PatchField[string] `json:"time"`
	Location     helper.PatchField[string] `json:"location"`
	Content      *string                   `json:"content" validate:"omitempty,min=1"`
	Chair        helper.PatchField[string] `json:"chair"`
	Participants helper.PatchField[string] `json:"participants"`
	Note         helper.PatchField[string] `json:"note"`
	Status       *string                   `json:"status" validate:"omitempty,oneof=CONFIRMED UNCONFIRMED"`
}

func (r *CreateEventRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	r.Time = helper.TrimPtr(r.Time)
}

func (r *UpdateEventRequest) Normalize() {
	if r.Content != nil {
		s := strings.TrimSpace(*r.Content)
		r.Content = &s
	}
	if r.Status != nil {
		s := strings.ToUpper(strings.TrimSpace(*r.Status))
		r.Status = &s
	}
	helper.TrimPatch(&r.Time)
	helper.TrimPatch(&r.Location)
	helper.TrimPatch(&r.Chair)
	helper.TrimPatch(&r.Participants)
	helper.TrimPatch(&r.Note)
}

func (r *CreateEventRequest) Validate(v *validator.Validate) error {
	return helper.ValidationFromValidator(v.Struct(r))
}

func (r *UpdateEventRequest) Validate(v *validator.Validate) error {
	if err := helper.ValidationFromValidator(v.Struct(r)); err != nil {
		return err
	}
	if loc, ok := r.Location.Get(); ok && loc != nil && len(*loc) > 255 {
		return helper.NewValidationError("location", "must be at most 255 characters")
	}
	if ch, ok := r.Chair.Get(); ok && ch != nil && len(*ch) > 255 {
		return helper.NewValidationError("chair", "must be at most 255 characters")
	}
	return nil
}

func (r CreateEventRequest) ToInput() (service.EventInput, error) {
	vErr := &helper.ValidationError{}
	date, err := dbtime.ParseDate(r.Date)
	if err != nil {
		vErr.Add("date", "must be a date (YYYY-MM-DD)")
	}
	tod := parseTime(vErr, r.Time)
	if !vErr.Empty() {
		return service.EventInput{}, vErr
	}
	return service.EventInput{
		Date:         date,
		Time:         tod,
		Location:     r.Location,
		Content:      r.Content,
		Chair:        r.Chair,
		Participants: r.Participants,
		Note:         r.Note,
		Status:       eventModel.EventStatus(r.Status),
	}, nil
}

func (r UpdateEventRequest) ToPatch() (service.EventPatch, error) {
	vErr := &helper.ValidationError{}
	var p service.EventPatch

	if r.Date != nil {
		d, err := dbtime.ParseDate(*r.Date)
		if err != nil {
			vErr.Add("date", "must be a date (YYYY-MM-DD)")
		}
		p.Date = &d
	}
	if v, ok := r.Time.Get(); ok {
		p.Time = parseTime(vErr, v)
		p.TimeSet = true
	}
	p.Location, p.LocationSet = r.Location.Get()
	p.Content = r.Content
	p.Chair, p.ChairSet = r.Chair.Get()
	p.Participants, p.ParticipantsSet = r.Participants.Get()
	p.Note, p.NoteSet = r.Note.Get()
	if r.Status != nil {
		s := eventModel.EventStatus(*r.Status)
		p.Status = &s
	}

	if !vErr.Empty() {
		return service.EventPatch{}, vErr
	}
	return p, nil
}

func parseTime(vErr *helper.ValidationError, raw *string) *dbtime.Tod {
	if raw == nil {
		return nil
	}
	t, err := dbtime.ParseTod(*raw)
	if err != nil {
		vErr.Add("time", "must be a time (HH:mm)")
		return nil
	}
	return &t
}

/* =========================================================
   Responses
   ========================================================= */

type EventResponse struct {
	ID           string      `json:"id"`
	Date         string      `json:"date"`
	Time         *dbtime.Tod `json:"time"`
	Location     *string     `json:"location"`
	Content      string      `json:"content"`
	Chair        *string     `json:"chair"`
	Participants *string     `json:"participants"`
	Note         *string     `json:"note"`
	Status       string      `json:"status"`
	IsEdited     bool        `json:"is_edited"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type DayResponse struct {
	Date      string          `json:"date"`
	Weekday   string          `json:"weekday"`
	Morning   []EventResponse `json:"morning"`
	Afternoon []EventResponse `json:"afternoon"`
	Unknown   []EventResponse `json:"unknown"`
}

type WeekBoardResponse struct {
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	Chair     string        `json:"chair"`
	Days      []DayResponse `json:"days"`
}

func FromEventModel(m *eventModel.EventModel) EventResponse {
	return EventResponse{
		ID:           m.EventID.String(),
		Date:         dbtime.FormatDate(time.Time(m.EventDate)),
		Time:         m.EventTime,
		Location:     m.EventLocation,
		Content:      m.EventContent,
		Chair:        m.EventChair,
		Participants: m.EventParticipants,
		Note:         m.EventNote,
		Status:       string(m.EventStatus),
		IsEdited:     m.EventIsEdited,
		CreatedAt:    m.EventCreatedAt,
		UpdatedAt:    m.EventUpdatedAt,
	}
}

func FromEventModels(rows []eventModel.EventModel) []EventResponse {
	out := make([]EventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromEventModel(&rows[i]))
	}
	return out
}

func FromWeekBoard(b *service.WeekBoard) WeekBoardResponse {
	out := WeekBoardResponse{
		StartDate: dbtime.FormatDate(b.Start),
		EndDate:   dbtime.FormatDate(b.End),
		Chair:     b.Chair,
		Days:      make([]DayResponse, 0, len(b.Days)),
	}
	for _, d := range b.Days {
		out.Days = append(out.Days, DayResponse{
			Date:      dbtime.FormatDate(d.Date),
			Weekday:   d.Weekday,
			Morning:   FromEventModels(d.Morning),
			Afternoon: FromEventModels(d.Afternoon),
			Unknown:   FromEventModels(d.Unknown),
		})
	}
	return out
}
