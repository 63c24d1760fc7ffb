package templates

import (
	"reflect"
	"testing"

	"github.com/caasion/holos/internal/plan"
)

func storeWith(dates ...plan.TDate) *Store {
	s := NewStore()
	for _, d := range dates {
		s.Set(d, plan.Template{})
	}
	return s
}

func TestResolveDate(t *testing.T) {
	s := storeWith("2026-01-01", "2026-02-01")

	tests := []struct {
		date plan.ISODate
		want plan.TDate
	}{
		{"2025-12-31", ""},
		{"2026-01-01", "2026-01-01"},
		{"2026-01-15", "2026-01-01"},
		{"2026-01-31", "2026-01-01"},
		{"2026-02-01", "2026-02-01"},
		{"2026-02-15", "2026-02-01"},
		{"2027-01-01", "2026-02-01"},
	}

	for _, tt := range tests {
		if got := s.ResolveDate(tt.date); got != tt.want {
			t.Errorf("ResolveDate(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestResolveDateEmptyStore(t *testing.T) {
	s := NewStore()
	if got := s.ResolveDate("2026-01-01"); got != "" {
		t.Errorf("ResolveDate on empty store = %q, want empty", got)
	}
}

func TestResolveDateMonotonic(t *testing.T) {
	s := storeWith("2026-01-10", "2026-03-05", "2026-07-20")

	prev := ""
	for _, date := range plan.DatesFrom("2026-01-01", 250) {
		got := s.ResolveDate(date)
		if got < prev {
			t.Fatalf("resolution decreased at %s: %q after %q", date, got, prev)
		}
		prev = got
	}
}

func TestDatesOf(t *testing.T) {
	s := storeWith("2026-01-01", "2026-01-05")

	got := s.DatesOf("2026-01-01")
	want := []plan.ISODate{"2026-01-01", "2026-01-02", "2026-01-03", "2026-01-04"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DatesOf() = %v, want %v", got, want)
	}
}

func TestDatesOfLastTemplateUsesLookahead(t *testing.T) {
	s := storeWith("2026-01-01")

	got := s.DatesOf("2026-01-01")
	if len(got) != lookaheadDays+1 {
		t.Errorf("got %d dates, want %d", len(got), lookaheadDays+1)
	}
	if got[0] != "2026-01-01" {
		t.Errorf("first date = %s", got[0])
	}
}

func TestDatesOfUnknown(t *testing.T) {
	s := storeWith("2026-01-01")
	if got := s.DatesOf("2026-02-01"); got != nil {
		t.Errorf("DatesOf(unknown) = %v, want nil", got)
	}
}

func TestSetKeepsDatesSorted(t *testing.T) {
	s := storeWith("2026-03-01", "2026-01-01", "2026-02-01")

	want := []plan.TDate{"2026-01-01", "2026-02-01", "2026-03-01"}
	if got := s.Dates(); !reflect.DeepEqual(got, want) {
		t.Errorf("Dates() = %v, want %v", got, want)
	}

	s.Remove("2026-02-01")
	want = []plan.TDate{"2026-01-01", "2026-03-01"}
	if got := s.Dates(); !reflect.DeepEqual(got, want) {
		t.Errorf("Dates() after Remove = %v, want %v", got, want)
	}
}

func TestResolveLabel(t *testing.T) {
	s := NewStore()
	s.Set("2026-01-01", plan.Template{
		"item-fit": {Label: "Fitness", Order: 1},
	})

	if got := s.ResolveLabel("2026-01-15", "Fitness"); got != "item-fit" {
		t.Errorf("ResolveLabel = %q, want item-fit", got)
	}
	if got := s.ResolveLabel("2026-01-15", "Unknown"); got != "" {
		t.Errorf("ResolveLabel(unknown label) = %q, want empty", got)
	}
	if got := s.ResolveLabel("2025-01-01", "Fitness"); got != "" {
		t.Errorf("ResolveLabel before any template = %q, want empty", got)
	}
}

func TestItemMutation(t *testing.T) {
	s := storeWith("2026-01-01")

	if !s.SetItem("2026-01-01", "item-a", plan.ItemMeta{Label: "A", Order: 1}) {
		t.Fatal("SetItem on existing template failed")
	}
	if s.SetItem("2026-06-01", "item-a", plan.ItemMeta{}) {
		t.Error("SetItem on missing template succeeded")
	}

	if !s.RemoveItem("2026-01-01", "item-a") {
		t.Error("RemoveItem on existing item failed")
	}
	if s.RemoveItem("2026-01-01", "item-a") {
		t.Error("RemoveItem on removed item succeeded")
	}
}
