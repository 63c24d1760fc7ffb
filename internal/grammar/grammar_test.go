package grammar

import (
	"reflect"
	"testing"

	"github.com/caasion/holos/internal/plan"
)

func intp(n int) *int { return &n }

func TestParseElementLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want plan.Element
	}{
		{
			name: "plain text",
			line: "\t- Water the plants",
			want: plan.Element{Text: "Water the plants"},
		},
		{
			name: "open task",
			line: "\t- [ ] Write report",
			want: plan.Element{Text: "Write report", IsTask: true, TaskStatus: plan.StatusOpen},
		},
		{
			name: "done task",
			line: "\t- [x] Write report",
			want: plan.Element{Text: "Write report", IsTask: true, TaskStatus: plan.StatusDone},
		},
		{
			name: "dropped task",
			line: "\t- [-] Write report",
			want: plan.Element{Text: "Write report", IsTask: true, TaskStatus: plan.StatusDropped},
		},
		{
			name: "start time",
			line: "\t- Standup @ 9:30",
			want: plan.Element{Text: "Standup", StartTime: &plan.Time{Hours: 9, Minutes: 30}},
		},
		{
			name: "start time without space after at",
			line: "\t- Standup @9:30",
			want: plan.Element{Text: "Standup", StartTime: &plan.Time{Hours: 9, Minutes: 30}},
		},
		{
			name: "duration only",
			line: "\t- Reading [30 min]",
			want: plan.Element{Text: "Reading", Duration: intp(30), Unit: plan.UnitMin},
		},
		{
			name: "progress and duration",
			line: "\t- Reading [10/30 min]",
			want: plan.Element{Text: "Reading", Progress: intp(10), Duration: intp(30), Unit: plan.UnitMin},
		},
		{
			name: "bare slash counts as zero progress",
			line: "\t- Reading [/2 hr]",
			want: plan.Element{Text: "Reading", Progress: intp(0), Duration: intp(2), Unit: plan.UnitHr},
		},
		{
			name: "all annotations together",
			line: "\t- [x] Deep work @ 14:00 [1/2 hr]",
			want: plan.Element{
				Text: "Deep work", IsTask: true, TaskStatus: plan.StatusDone,
				StartTime: &plan.Time{Hours: 14, Minutes: 0},
				Progress:  intp(1), Duration: intp(2), Unit: plan.UnitHr,
			},
		},
		{
			name: "annotations absent independently",
			line: "\t- [ ] Errands [45 min]",
			want: plan.Element{Text: "Errands", IsTask: true, TaskStatus: plan.StatusOpen, Duration: intp(45), Unit: plan.UnitMin},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseElementLine(tt.line)
			got.Raw = ""
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseElementLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseItemHeader(t *testing.T) {
	tests := []struct {
		line        string
		wantLabel   string
		wantMinutes int
		wantOK      bool
	}{
		{"- Draft blog post", "Draft blog post", 60, true},
		{"- [x] Draft blog post (30 min)", "Draft blog post", 30, true},
		{"- Deep work (2 hr)", "Deep work", 120, true},
		{"- Review (90 mins)", "Review", 90, true},
		{"- Sprint (1 h)", "Sprint", 60, true},
		{"- Sprints (3 hrs)", "Sprints", 180, true},
		{"\t- not a header", "", 0, false},
		{"prose line", "", 0, false},
	}

	for _, tt := range tests {
		label, minutes, ok := ParseItemHeader(tt.line)
		if ok != tt.wantOK || label != tt.wantLabel || (ok && minutes != tt.wantMinutes) {
			t.Errorf("ParseItemHeader(%q) = (%q, %d, %v), want (%q, %d, %v)",
				tt.line, label, minutes, ok, tt.wantLabel, tt.wantMinutes, tt.wantOK)
		}
	}
}

func TestParseItemSection(t *testing.T) {
	body := "- Fitness (2 hr)\n" +
		"\t- [x] Morning run @ 7:00 [30 min]\n" +
		"\t\t- around the lake\n" +
		"\n" +
		"stray prose that must be skipped\n" +
		"- Writing\n" +
		"\t- Draft chapter [1/3 hr]\n" +
		"\t- [ ] Edit intro"

	resolve := func(label string) plan.ItemID {
		if label == "Fitness" {
			return "item-fitness"
		}
		return ""
	}

	items := ParseItemSection(body, resolve)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	fitness := items["item-fitness"]
	if fitness == nil {
		t.Fatal("resolved item missing")
	}
	if fitness.Time != 120 {
		t.Errorf("fitness time = %d, want 120", fitness.Time)
	}
	if len(fitness.Elements) != 1 {
		t.Fatalf("fitness has %d elements, want 1", len(fitness.Elements))
	}
	el := fitness.Elements[0]
	if !el.IsTask || el.TaskStatus != plan.StatusDone || el.Text != "Morning run" {
		t.Errorf("unexpected element: %+v", el)
	}
	if el.StartTime == nil || el.StartTime.Hours != 7 {
		t.Errorf("start time not parsed: %+v", el.StartTime)
	}
	if !reflect.DeepEqual(el.Children, []string{"around the lake"}) {
		t.Errorf("children = %v", el.Children)
	}

	// Unresolved labels keep the label as identity.
	writing := items["Writing"]
	if writing == nil {
		t.Fatal("unresolved item not kept under its label")
	}
	if writing.Time != plan.DefaultCommitment {
		t.Errorf("writing time = %d, want default", writing.Time)
	}
	if len(writing.Elements) != 2 {
		t.Errorf("writing has %d elements, want 2", len(writing.Elements))
	}
}

func TestParseItemSectionEmpty(t *testing.T) {
	if items := ParseItemSection("", nil); len(items) != 0 {
		t.Errorf("empty section produced %d items", len(items))
	}
	if items := ParseItemSection("no bullets here\njust prose", nil); len(items) != 0 {
		t.Errorf("prose-only section produced %d items", len(items))
	}
}

func TestParseDataSection(t *testing.T) {
	body := "- [ ] Ship feature [2 hr]\n" +
		"\t- needs review first\n" +
		"- Plain note"

	elements := ParseDataSection(body)
	if len(elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(elements))
	}
	if !elements[0].IsTask || elements[0].Text != "Ship feature" {
		t.Errorf("first element: %+v", elements[0])
	}
	if !reflect.DeepEqual(elements[0].Children, []string{"needs review first"}) {
		t.Errorf("children = %v", elements[0].Children)
	}
	if elements[1].IsTask || elements[1].Text != "Plain note" {
		t.Errorf("second element: %+v", elements[1])
	}
}

func TestParseHabitSection(t *testing.T) {
	body := "- Morning run (FREQ=DAILY)\n- Journal\nnot a habit"

	habits := ParseHabitSection(body)
	if len(habits) != 2 {
		t.Fatalf("got %d habits, want 2", len(habits))
	}

	run := habits[HabitID("Morning run")]
	if run.Label != "Morning run" || run.RRule != "FREQ=DAILY" {
		t.Errorf("unexpected habit: %+v", run)
	}
	journal := habits[HabitID("Journal")]
	if journal.Label != "Journal" || journal.RRule != "" {
		t.Errorf("unexpected habit: %+v", journal)
	}
}
