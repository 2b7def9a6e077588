// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"os"
	"strings"
	"sync"
	"time"
)

const DefaultTimezone = "Asia/Ho_Chi_Minh"

var (
	locOnce sync.Once
	appLoc  *time.Location
)

// Location resolves APP_TIMEZONE once:
// 1) APP_TIMEZONE if it loads
// 2) Asia/Ho_Chi_Minh
// 3) time.UTC
func Location() *time.Location {
	locOnce.Do(func() {
		for _, name := range []string{strings.TrimSpace(os.Getenv("APP_TIMEZONE")), DefaultTimezone} {
			if name == "" {
				continue
			}
			if loc, err := time.LoadLocation(name); err == nil {
				appLoc = loc
				return
			}
		}
		appLoc = time.UTC
	})
	return appLoc
}

// Now is the wall clock in the app timezone.
func Now() time.Time {
	return time.Now().In(Location())
}

// Today is the current local date (app timezone) as a civil date.
func Today() time.Time {
	return CivilDate(Now())
}

// CivilDate keeps only t's calendar date, pinned to midnight UTC.
// Every date column is written in this form so comparisons agree across drivers.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts "YYYY-MM-DD" or RFC3339 and returns a civil date.
// An RFC3339 instant is first moved into the app timezone.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return CivilDate(t.In(Location())), nil
}

// FormatDate renders a civil date as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
