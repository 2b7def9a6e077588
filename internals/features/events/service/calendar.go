// file: internals/features/events/service/calendar.go
package service

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	eventModel "weekreport_backend/internals/features/events/model"
)

type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotUnknown   TimeSlot = "unknown"
)

const (
	morningStart   = 7*60      // 07:00
	morningEnd     = 11*60 + 30 // 11:30 inclusive
	afternoonStart = 13*60 + 30 // 13:30
)

var weekdayNames = [7]string{"Thứ Hai", "Thứ Ba", "Thứ Tư", "Thứ Năm", "Thứ Sáu", "Thứ Bảy", "Chủ Nhật"}

// SlotOf places an event time in the morning or afternoon session of the board.
func SlotOf(e eventModel.EventModel) TimeSlot {
	if e.EventTime == nil {
		return SlotUnknown
	}
	m := e.EventTime.Minutes()
	switch {
	case m >= morningStart && m <= morningEnd:
		return SlotMorning
	case m >= afternoonStart:
		return SlotAfternoon
	default:
		return SlotUnknown
	}
}

// WeekStart returns the Monday of the week containing d (Sunday belongs to the week before).
func WeekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	y, m, day := d.Date()
	return time.Date(y, m, day-offset, 0, 0, 0, 0, time.UTC)
}

// SortDayEvents: CONFIRMED before UNCONFIRMED, then by time, events without time last.
func SortDayEvents(events []eventModel.EventModel) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.EventStatus != b.EventStatus {
			return a.EventStatus == eventModel.EventConfirmed
		}
		switch {
		case a.EventTime == nil && b.EventTime == nil:
			return false
		case a.EventTime == nil:
			return false
		case b.EventTime == nil:
			return true
		}
		return a.EventTime.Minutes() < b.EventTime.Minutes()
	})
}

// ChairMatches is a case-insensitive substring match on the chair, tolerant of NFC/NFD input.
// An empty filter matches everything.
func ChairMatches(chair *string, filter string) bool {
	filter = foldText(filter)
	if filter == "" {
		return true
	}
	if chair == nil {
		return false
	}
	return strings.Contains(foldText(*chair), filter)
}

func foldText(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

type DayBoard struct {
	Date      time.Time
	Weekday   string
	Morning   []eventModel.EventModel
	Afternoon []eventModel.EventModel
	Unknown   []eventModel.EventModel
}

type WeekBoard struct {
	Start time.Time
	End   time.Time
	Chair string
	Days  []DayBoard
}

// BuildWeekBoard lays out events of the week starting at monday, one column per day.
func BuildWeekBoard(monday time.Time, events []eventModel.EventModel, chair string) WeekBoard {
	board := WeekBoard{Start: monday, End: monday.AddDate(0, 0, 6), Chair: chair, Days: make([]DayBoard, 7)}
	byDay := make(map[string][]eventModel.EventModel, 7)
	for _, e := range events {
		if !ChairMatches(e.EventChair, chair) {
			continue
		}
		k := time.Time(e.EventDate).Format("2006-01-02")
		byDay[k] = append(byDay[k], e)
	}

	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		day := DayBoard{Date: d, Weekday: weekdayNames[i]}
		list := byDay[d.Format("2006-01-02")]
		SortDayEvents(list)
		for _, e := range list {
			switch SlotOf(e) {
			case SlotMorning:
				day.Morning = append(day.Morning, e)
			case SlotAfternoon:
				day.Afternoon = append(day.Afternoon, e)
			default:
				day.Unknown = append(day.Unknown, e)
			}
		}
		board.Days[i] = day
	}
	return board
}
