// Package plan defines the domain types for holos planning data.
//
// Planning data lives as markdown text inside note files; these types are
// the structured view that the grammar and sync layers build from that text
// and serialize back into it.
package plan

import "fmt"

// ISODate is a calendar date in YYYY-MM-DD form. The fixed-width form is
// total-ordered by plain string comparison, which the template resolver's
// binary search relies on.
type ISODate = string

// TDate is the effective-from date of a template. Templates are keyed and
// ordered by TDate.
type TDate = ISODate

// ItemID identifies a top-level record within a date's planner section.
type ItemID = string

// Time is a clock time attached to an element (the "@ HH:MM" token).
type Time struct {
	Hours   int
	Minutes int
}

// String formats the time zero-padded, as it appears in note text.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hours, t.Minutes)
}

// Unit is the time unit of a progress/duration annotation.
type Unit string

const (
	UnitMin Unit = "min"
	UnitHr  Unit = "hr"
)

// Status is the single-character task status inside a checkbox token.
type Status string

const (
	StatusOpen    Status = " "
	StatusDone    Status = "x"
	StatusDropped Status = "-"
)

// Element is one bullet node: a task or timed entry with optional
// annotations and plain child lines (one level below, no deeper nesting).
//
// If Duration is set, Unit is set. Progress is only meaningful alongside
// Duration.
type Element struct {
	// Raw is the source line the element was parsed from, kept for
	// diagnostics. Empty for elements constructed in memory.
	Raw string

	// Text is the display text with all annotations stripped.
	Text string

	// Children are plain text lines nested one level under the element.
	Children []string

	IsTask     bool
	TaskStatus Status

	StartTime *Time

	Progress *int
	Duration *int
	Unit     Unit
}

// Item is a date-scoped record composed of ordered elements. Its identity
// is resolved from its visible label against the template governing the
// date it belongs to.
type Item struct {
	ID ItemID

	// Time is the time commitment in minutes. Defaults to 60 when the
	// header line carries no explicit commitment.
	Time int

	Elements []Element
}

// DefaultCommitment is the time commitment assumed when an item header
// carries no explicit "(N unit)" suffix.
const DefaultCommitment = 60

// ItemMeta is the template-side description of an item: its visible label
// and its canonical position within a date's section.
type ItemMeta struct {
	Label string `yaml:"label"`
	Order int    `yaml:"order"`
	Time  int    `yaml:"time,omitempty"`
}

// Template describes the items valid from its TDate forward until the next
// later template date.
type Template map[ItemID]ItemMeta

// Habit is a recurring entry attached to a track or project.
type Habit struct {
	ID    string
	Label string
	RRule string
}

// Project is a track-scoped body of work with an active date interval.
// EndDate is empty while the interval is open-ended.
type Project struct {
	ID        string
	Label     string
	StartDate ISODate
	EndDate   ISODate

	Elements []Element
	Habits   map[string]Habit
}

// Track is a top-level grouping backed by its own folder of note files.
type Track struct {
	ID          string
	Label       string
	Description string
	Order       int
	Color       string

	// TimeCommitment is in hours.
	TimeCommitment int

	// JournalHeader is the heading label this track contributes to daily
	// notes.
	JournalHeader string

	Habits map[string]Habit

	ActiveProjectID string
	Projects        map[string]Project
}
