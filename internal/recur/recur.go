// Package recur converts between RRULE strings and the human-readable
// recurrence phrases shown to (or typed by) the user.
package recur

import (
	"strings"
	"time"
)

var dayNames = map[string]string{
	"MO": "Mon",
	"TU": "Tue",
	"WE": "Wed",
	"TH": "Thu",
	"FR": "Fri",
	"SA": "Sat",
	"SU": "Sun",
}

var dayCodes = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SU",
}

var weekdayByPrefix = map[string]string{
	"mo": "MO",
	"tu": "TU",
	"we": "WE",
	"th": "TH",
	"fr": "FR",
	"sa": "SA",
	"su": "SU",
}

// Format renders an RRULE as a short phrase like "Every day", "Weekdays"
// or "Mon, Wed, Fri". Rules it does not understand pass through
// unchanged.
func Format(rrule string) string {
	var frequency, days string
	for _, part := range strings.Split(rrule, ";") {
		switch {
		case strings.HasPrefix(part, "FREQ="):
			frequency = strings.ToLower(strings.TrimPrefix(part, "FREQ="))
		case strings.HasPrefix(part, "BYDAY="):
			days = formatDays(strings.TrimPrefix(part, "BYDAY="))
		}
	}

	switch {
	case frequency == "daily" && days == "":
		return "Every day"
	case frequency == "daily":
		return days
	case frequency == "weekly" && days != "":
		return days
	case frequency == "weekly":
		return "Weekly"
	case frequency == "monthly":
		return "Monthly"
	}
	return rrule
}

func formatDays(dayCode string) string {
	codes := strings.Split(dayCode, ",")
	names := make([]string, len(codes))
	weekend := 0
	for i, c := range codes {
		name, ok := dayNames[c]
		if !ok {
			name = c
		}
		names[i] = name
		if name == "Sat" || name == "Sun" {
			weekend++
		}
	}

	switch {
	case len(names) == 7:
		return "Every day"
	case len(names) == 5 && weekend == 0:
		return "Weekdays"
	case len(names) == 2 && weekend == 2:
		return "Weekends"
	}
	return strings.Join(names, ", ")
}

// Serialize builds a daily RRULE limited to the given weekdays. An empty
// set means every day.
func Serialize(days []time.Weekday) string {
	if len(days) == 0 {
		return "FREQ=DAILY"
	}
	codes := make([]string, len(days))
	for i, d := range days {
		codes[i] = dayCodes[d]
	}
	return "FREQ=DAILY;BYDAY=" + strings.Join(codes, ",")
}

// Parse turns a user phrase like "weekdays", "sat, sun" or "mon wed fri"
// back into an RRULE. Day names only need their first two letters. A
// phrase with no recognizable days means daily.
func Parse(phrase string) string {
	normalized := strings.ToLower(strings.TrimSpace(phrase))

	if normalized == "weekday" || normalized == "weekdays" {
		return "FREQ=DAILY;BYDAY=MO,TU,WE,TH,FR"
	}
	if normalized == "weekend" || normalized == "weekends" {
		return "FREQ=DAILY;BYDAY=SA,SU"
	}

	var days []string
	seen := map[string]bool{}
	add := func(codes ...string) {
		for _, c := range codes {
			if !seen[c] {
				seen[c] = true
				days = append(days, c)
			}
		}
	}

	for _, word := range strings.FieldsFunc(normalized, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	}) {
		if strings.HasPrefix(word, "weekday") {
			add("MO", "TU", "WE", "TH", "FR")
			continue
		}
		if strings.HasPrefix(word, "weekend") {
			add("SA", "SU")
			continue
		}
		if len(word) >= 2 {
			if code, ok := weekdayByPrefix[word[:2]]; ok {
				add(code)
			}
		}
	}

	if len(days) == 0 {
		return "FREQ=DAILY"
	}
	return "FREQ=DAILY;BYDAY=" + strings.Join(days, ",")
}

// Matches reports whether an RRULE fires on the given weekday. Rules
// without a BYDAY part fire every day.
func Matches(rrule string, day time.Weekday) bool {
	for _, part := range strings.Split(rrule, ";") {
		if !strings.HasPrefix(part, "BYDAY=") {
			continue
		}
		code := dayCodes[day]
		for _, c := range strings.Split(strings.TrimPrefix(part, "BYDAY="), ",") {
			if c == code {
				return true
			}
		}
		return false
	}
	return true
}
