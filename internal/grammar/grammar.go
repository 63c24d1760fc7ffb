// Package grammar parses and serializes the bullet-line dialect that holos
// embeds in markdown notes.
//
// The dialect is a narrow subset of markdown: a 3-level bullet hierarchy
// where a top-level bullet opens a record, a one-tab bullet is an element
// of that record, and a two-tab bullet is a plain child line of the
// current element. The grammar is lossy-tolerant: any line that matches no
// recognized pattern is skipped, never an error.
package grammar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/caasion/holos/internal/plan"
)

var (
	bulletRe     = regexp.MustCompile(`^\t*- `)
	taskStatusRe = regexp.MustCompile(`^\[([ x-])\] ?`)
	startTimeRe  = regexp.MustCompile(`@\s*(\d{1,2}):(\d{2})`)
	progressRe   = regexp.MustCompile(`\[(?:(\d*)(/))?(\d+)\s*(hr|min)\]`)
	commitmentRe = regexp.MustCompile(`\((\d+)\s*(h|hr|hrs|m|min|mins)\)`)
	habitRRuleRe = regexp.MustCompile(`\(([^()]*)\)\s*$`)
)

// ParseElementLine parses one bullet line into an Element.
//
// Each annotation is matched and removed from the working text
// independently, in a fixed order, so the absence of one token never
// breaks extraction of the others: bullet marker, then task status, then
// start time, then progress/duration. Whatever text remains, trimmed, is
// the display text.
func ParseElementLine(line string) plan.Element {
	el := plan.Element{Raw: line}

	text := bulletRe.ReplaceAllString(line, "")

	if m := taskStatusRe.FindStringSubmatch(text); m != nil {
		el.IsTask = true
		el.TaskStatus = plan.Status(m[1])
		text = strings.TrimSpace(strings.Replace(text, m[0], "", 1))
	}

	if m := startTimeRe.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		el.StartTime = &plan.Time{Hours: hours, Minutes: minutes}
		text = strings.Replace(text, m[0], "", 1)
	}

	if m := progressRe.FindStringSubmatch(text); m != nil {
		if m[2] == "/" {
			progress, _ := strconv.Atoi(m[1])
			el.Progress = &progress
		}
		duration, _ := strconv.Atoi(m[3])
		el.Duration = &duration
		el.Unit = plan.Unit(m[4])
		text = strings.Replace(text, m[0], "", 1)
	}

	el.Text = strings.TrimSpace(text)
	return el
}

// ParseItemHeader splits a top-level record line into its visible label
// and time commitment in minutes. An optional checkbox token is tolerated
// and dropped; an absent "(N unit)" suffix defaults to 60 minutes.
// ok is false for lines that are not top-level bullets.
func ParseItemHeader(line string) (label string, minutes int, ok bool) {
	if !strings.HasPrefix(line, "- ") {
		return "", 0, false
	}

	text := strings.TrimPrefix(line, "- ")
	text = strings.TrimSpace(taskStatusRe.ReplaceAllString(text, ""))

	minutes = plan.DefaultCommitment
	if m := commitmentRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		if strings.HasPrefix(m[2], "h") {
			n *= 60
		}
		minutes = n
		text = strings.TrimSpace(strings.Replace(text, m[0], "", 1))
	}

	return text, minutes, true
}

// Resolver maps an item's visible label to its identity under the template
// governing the date being parsed. An empty result means the label is not
// in the template.
type Resolver func(label string) plan.ItemID

// ParseItemSection assembles the flat bullet lines of a planner section
// into items keyed by resolved identity. Labels the resolver does not know
// keep the label itself as identity so no record is lost on reload.
func ParseItemSection(sectionBody string, resolve Resolver) map[plan.ItemID]*plan.Item {
	items := make(map[plan.ItemID]*plan.Item)

	var curr *plan.Item
	var currEl *plan.Element

	flushElement := func() {
		if currEl != nil && curr != nil {
			curr.Elements = append(curr.Elements, *currEl)
		}
		currEl = nil
	}
	flushItem := func() {
		flushElement()
		if curr != nil {
			items[curr.ID] = curr
		}
		curr = nil
	}

	for _, line := range strings.Split(sectionBody, "\n") {
		switch {
		case strings.HasPrefix(line, "- "):
			flushItem()
			label, minutes, ok := ParseItemHeader(line)
			if !ok {
				continue
			}
			id := ""
			if resolve != nil {
				id = resolve(label)
			}
			if id == "" {
				id = label
			}
			curr = &plan.Item{ID: id, Time: minutes}

		case strings.HasPrefix(line, "\t- "):
			flushElement()
			el := ParseElementLine(line)
			currEl = &el

		case strings.HasPrefix(line, "\t\t- "):
			if currEl != nil {
				child := strings.TrimSpace(strings.TrimPrefix(line, "\t\t- "))
				currEl.Children = append(currEl.Children, child)
			}

		default:
			// Blank lines and stray prose are tolerated, not errors.
		}
	}
	flushItem()

	return items
}

// ParseDataSection parses a project's task list, where elements sit at the
// top level and their children one tab below.
func ParseDataSection(sectionBody string) []plan.Element {
	var elements []plan.Element
	var currEl *plan.Element

	flush := func() {
		if currEl != nil {
			elements = append(elements, *currEl)
		}
		currEl = nil
	}

	for _, line := range strings.Split(sectionBody, "\n") {
		switch {
		case strings.HasPrefix(line, "- "):
			flush()
			el := ParseElementLine(line)
			currEl = &el
		case strings.HasPrefix(line, "\t- "):
			if currEl != nil {
				child := strings.TrimSpace(strings.TrimPrefix(line, "\t- "))
				currEl.Children = append(currEl.Children, child)
			}
		}
	}
	flush()

	return elements
}

// ParseHabitSection parses a Habits section of "- Label (RRULE)" lines.
// The rule suffix is optional. Habit identity is derived from the label.
func ParseHabitSection(sectionBody string) map[string]plan.Habit {
	habits := make(map[string]plan.Habit)

	for _, line := range strings.Split(sectionBody, "\n") {
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		text := strings.TrimSpace(strings.TrimPrefix(line, "- "))
		if text == "" {
			continue
		}

		rrule := ""
		if m := habitRRuleRe.FindStringSubmatch(text); m != nil {
			rrule = m[1]
			text = strings.TrimSpace(strings.Replace(text, m[0], "", 1))
		}

		h := plan.Habit{ID: HabitID(text), Label: text, RRule: rrule}
		habits[h.ID] = h
	}

	return habits
}

// HabitID derives a stable identity from a habit label.
func HabitID(label string) string {
	return "habit-" + slugify(label)
}

// ItemID derives a stable identity from a template item label.
func ItemID(label string) plan.ItemID {
	return plan.ItemID("item-" + slugify(label))
}

func slugify(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return b.String()
}

func formatProgressDuration(progress, duration *int, unit plan.Unit) string {
	if progress != nil {
		return fmt.Sprintf("[%d/%d %s]", *progress, *duration, unit)
	}
	return fmt.Sprintf("[%d %s]", *duration, unit)
}
