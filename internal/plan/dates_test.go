package plan

import (
	"reflect"
	"testing"
	"time"
)

func TestAddDays(t *testing.T) {
	tests := []struct {
		date ISODate
		n    int
		want ISODate
	}{
		{"2026-01-15", 1, "2026-01-16"},
		{"2026-01-31", 1, "2026-02-01"},
		{"2026-03-01", -1, "2026-02-28"},
		{"2026-12-31", 1, "2027-01-01"},
		{"2026-01-15", 0, "2026-01-15"},
		{"not-a-date", 5, "not-a-date"}, // malformed input passes through
	}
	for _, tt := range tests {
		if got := AddDays(tt.date, tt.n); got != tt.want {
			t.Errorf("AddDays(%q, %d) = %q, want %q", tt.date, tt.n, got, tt.want)
		}
	}
}

func TestISODateOrdering(t *testing.T) {
	// String comparison of ISO dates must agree with time comparison.
	dates := []ISODate{"2025-12-31", "2026-01-01", "2026-01-02", "2026-02-01", "2026-10-09"}
	for i := 1; i < len(dates); i++ {
		if !(dates[i-1] < dates[i]) {
			t.Errorf("%s should sort before %s", dates[i-1], dates[i])
		}
	}
}

func TestDatesFrom(t *testing.T) {
	want := []ISODate{"2026-01-30", "2026-01-31", "2026-02-01"}
	if got := DatesFrom("2026-01-30", 3); !reflect.DeepEqual(got, want) {
		t.Errorf("DatesFrom() = %v, want %v", got, want)
	}
	if got := DatesFrom("2026-01-30", 0); got != nil {
		t.Errorf("DatesFrom(n=0) = %v, want nil", got)
	}
}

func TestDatesBetween(t *testing.T) {
	want := []ISODate{"2026-02-27", "2026-02-28", "2026-03-01"}
	if got := DatesBetween("2026-02-27", "2026-03-01"); !reflect.DeepEqual(got, want) {
		t.Errorf("DatesBetween() = %v, want %v", got, want)
	}
	if got := DatesBetween("2026-03-01", "2026-02-27"); got != nil {
		t.Errorf("DatesBetween(reversed) = %v, want nil", got)
	}
}

func TestWeekDates(t *testing.T) {
	// 2026-01-15 is a Thursday; the Sunday-start week covering it begins
	// 2026-01-11.
	got := WeekDates("2026-01-15", 1, time.Sunday)
	want := DatesFrom("2026-01-11", 7)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WeekDates(Sunday) = %v, want %v", got, want)
	}

	got = WeekDates("2026-01-15", 2, time.Monday)
	if len(got) != 14 {
		t.Fatalf("WeekDates(2 weeks) returned %d dates, want 14", len(got))
	}
	if got[0] != "2026-01-12" {
		t.Errorf("first date = %s, want 2026-01-12 (Monday)", got[0])
	}
	if got[13] != "2026-01-25" {
		t.Errorf("last date = %s, want 2026-01-25", got[13])
	}
}

func TestRangeLabel(t *testing.T) {
	tests := []struct {
		first, last ISODate
		want        string
	}{
		{"2026-01-05", "2026-01-11", "Jan 05 – 11, 2026"},
		{"2026-01-26", "2026-02-01", "Jan 26 – Feb 01, 2026"},
		{"2025-12-29", "2026-01-04", "Dec 29, 2025 – Jan 04, 2026"},
	}
	for _, tt := range tests {
		if got := RangeLabel(tt.first, tt.last); got != tt.want {
			t.Errorf("RangeLabel(%s, %s) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}

func TestTimeString(t *testing.T) {
	if got := (Time{Hours: 6, Minutes: 5}).String(); got != "06:05" {
		t.Errorf("String() = %q, want %q", got, "06:05")
	}
}

func TestSwapItems(t *testing.T) {
	in := []int{1, 2, 3}
	if got := SwapItems(in, 0, 2); !reflect.DeepEqual(got, []int{3, 2, 1}) {
		t.Errorf("SwapItems() = %v", got)
	}
	if in[0] != 1 {
		t.Error("SwapItems mutated its input")
	}
	if got := SwapItems(in, 0, 5); !reflect.DeepEqual(got, in) {
		t.Errorf("SwapItems(out of range) = %v, want input unchanged", got)
	}
}
