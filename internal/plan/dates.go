package plan

import (
	"fmt"
	"time"
)

const isoLayout = "2006-01-02"

// FormatDate converts a time.Time into an ISODate.
func FormatDate(t time.Time) ISODate {
	return t.Format(isoLayout)
}

// ParseDate converts an ISODate back into a time.Time at midnight local.
func ParseDate(date ISODate) (time.Time, error) {
	t, err := time.ParseInLocation(isoLayout, date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// Today returns the current local date.
func Today() ISODate {
	return FormatDate(time.Now())
}

// AddDays shifts an ISODate by n days (n may be negative).
func AddDays(date ISODate, n int) ISODate {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return FormatDate(t.AddDate(0, 0, n))
}

// DatesFrom returns n consecutive dates starting at and including anchor.
func DatesFrom(anchor ISODate, n int) []ISODate {
	t, err := ParseDate(anchor)
	if err != nil || n <= 0 {
		return nil
	}
	dates := make([]ISODate, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, FormatDate(t.AddDate(0, 0, i)))
	}
	return dates
}

// DatesBetween returns every date from start through end inclusive.
// Returns nil if end precedes start or either date is malformed.
func DatesBetween(start, end ISODate) []ISODate {
	s, err := ParseDate(start)
	if err != nil {
		return nil
	}
	e, err := ParseDate(end)
	if err != nil {
		return nil
	}
	var dates []ISODate
	for !s.After(e) {
		dates = append(dates, FormatDate(s))
		s = s.AddDate(0, 0, 1)
	}
	return dates
}

// WeekDates returns the dates of the given number of whole weeks covering
// the anchor, each week starting on weekStart.
func WeekDates(anchor ISODate, weeks int, weekStart time.Weekday) []ISODate {
	t, err := ParseDate(anchor)
	if err != nil || weeks <= 0 {
		return nil
	}
	var dates []ISODate
	for w := 0; w < weeks; w++ {
		day := t.AddDate(0, 0, w*7)
		offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
		start := day.AddDate(0, 0, -offset)
		for i := 0; i < 7; i++ {
			dates = append(dates, FormatDate(start.AddDate(0, 0, i)))
		}
	}
	return dates
}

// RangeLabel renders a human-readable label for a date range, collapsing
// the month and year when they are shared.
func RangeLabel(first, last ISODate) string {
	f, err := ParseDate(first)
	if err != nil {
		return first + " – " + last
	}
	l, err := ParseDate(last)
	if err != nil {
		return first + " – " + last
	}

	switch {
	case f.Year() == l.Year() && f.Month() == l.Month():
		return fmt.Sprintf("%s – %s", f.Format("Jan 02"), l.Format("02, 2006"))
	case f.Year() == l.Year():
		return fmt.Sprintf("%s – %s", f.Format("Jan 02"), l.Format("Jan 02, 2006"))
	default:
		return fmt.Sprintf("%s – %s", f.Format("Jan 02, 2006"), l.Format("Jan 02, 2006"))
	}
}
