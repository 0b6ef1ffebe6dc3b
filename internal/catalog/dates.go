package catalog

import "time"

// DateLayout is the wire and display format for calendar days.
const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is Day in now's own zone, so "today" follows the server clock.
func Today(now time.Time) time.Time { return Day(now) }

// AddDays moves a calendar day by n days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// ParseDate parses a YYYY-MM-DD day.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
