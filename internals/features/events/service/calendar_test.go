package service

import (
	"testing"
	"time"

	"gorm.io/datatypes"

	eventModel "weekreport_backend/internals/features/events/model"
	"weekreport_backend/internals/helpers/dbtime"
)

func at(t *testing.T, hhmm string) *dbtime.Tod {
	t.Helper()
	tod, err := dbtime.ParseTod(hhmm)
	if err != nil {
		t.Fatalf("parse %q: %v", hhmm, err)
	}
	return &tod
}

func TestSlotOf_Boundaries(t *testing.T) {
	cases := []struct {
		time string
		want TimeSlot
	}{
		{"06:59", SlotUnknown},
		{"07:00", SlotMorning},
		{"11:30", SlotMorning},
		{"11:31", SlotUnknown},
		{"13:29", SlotUnknown},
		{"13:30", SlotAfternoon},
		{"21:00", SlotAfternoon},
	}
	for _, tc := range cases {
		got := SlotOf(eventModel.EventModel{EventTime: at(t, tc.time)})
		if got != tc.want {
			t.Fatalf("%s: got %s want %s", tc.time, got, tc.want)
		}
	}
	if got := SlotOf(eventModel.EventModel{}); got != SlotUnknown {
		t.Fatalf("no time: got %s", got)
	}
}

func TestWeekStart_MondayFirst(t *testing.T) {
	// 2024-05-06 is a Monday.
	want := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	for day := 6; day <= 12; day++ {
		got := WeekStart(time.Date(2024, 5, day, 15, 0, 0, 0, time.UTC))
		if !got.Equal(want) {
			t.Fatalf("2024-05-%02d: got %s", day, got)
		}
	}
	if got := WeekStart(time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)); got.Day() != 13 {
		t.Fatalf("next monday starts its own week, got %s", got)
	}
}

func TestSortDayEvents_StatusThenTime(t *testing.T) {
	events := []eventModel.EventModel{
		{EventContent: "u-none", EventStatus: eventModel.EventUnconfirmed},
		{EventContent: "u-08", EventStatus: eventModel.EventUnconfirmed, EventTime: at(t, "08:00")},
		{EventContent: "c-none", EventStatus: eventModel.EventConfirmed},
		{EventContent: "c-14", EventStatus: eventModel.EventConfirmed, EventTime: at(t, "14:00")},
		{EventContent: "c-09", EventStatus: eventModel.EventConfirmed, EventTime: at(t, "09:00")},
	}
	SortDayEvents(events)

	want := []string{"c-09", "c-14", "c-none", "u-08", "u-none"}
	for i, w := range want {
		if events[i].EventContent != w {
			t.Fatalf("pos %d: got %s want %s", i, events[i].EventContent, w)
		}
	}
}

func TestChairMatches(t *testing.T) {
	chair := "Ông Nguyễn Văn A, Giám đốc"
	if !ChairMatches(&chair, "") {
		t.Fatalf("empty filter must match")
	}
	if !ChairMatches(&chair, "giám đốc") {
		t.Fatalf("case-insensitive substring must match")
	}
	if ChairMatches(&chair, "Phó") {
		t.Fatalf("unrelated filter must not match")
	}
	if ChairMatches(nil, "Giám đốc") {
		t.Fatalf("missing chair never matches a non-empty filter")
	}
}

func TestBuildWeekBoard_PlacesEvents(t *testing.T) {
	monday := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	gd := "Giám đốc"
	pgd := "Phó Giám đốc"
	events := []eventModel.EventModel{
		{EventContent: "giao ban", EventDate: datatypes.Date(monday), EventTime: at(t, "08:00"), EventChair: &gd, EventStatus: eventModel.EventConfirmed},
		{EventContent: "hop chieu", EventDate: datatypes.Date(monday), EventTime: at(t, "14:00"), EventChair: &gd},
		{EventContent: "khong gio", EventDate: datatypes.Date(monday.AddDate(0, 0, 6)), EventChair: &gd},
		{EventContent: "pho gd", EventDate: datatypes.Date(monday.AddDate(0, 0, 2)), EventChair: &pgd},
	}

	board := BuildWeekBoard(monday, events, "")
	if len(board.Days) != 7 || board.Days[0].Weekday != "Thứ Hai" || board.Days[6].Weekday != "Chủ Nhật" {
		t.Fatalf("unexpected day layout: %+v", board.Days)
	}
	if len(board.Days[0].Morning) != 1 || len(board.Days[0].Afternoon) != 1 {
		t.Fatalf("monday slots wrong: %+v", board.Days[0])
	}
	if len(board.Days[6].Unknown) != 1 {
		t.Fatalf("sunday event without time must be unknown")
	}
	if len(board.Days[2].Unknown) != 1 {
		t.Fatalf("wednesday event missing without filter")
	}

	filtered := BuildWeekBoard(monday, events, "Phó")
	total := 0
	for _, d := range filtered.Days {
		total += len(d.Morning) + len(d.Afternoon) + len(d.Unknown)
	}
	if total != 1 {
		t.Fatalf("chair filter: got %d events want 1", total)
	}
}
