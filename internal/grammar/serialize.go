package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/caasion/holos/internal/plan"
)

// orderSentinel sorts items missing from the governing template after
// every templated item.
const orderSentinel = 1 << 30

// SerializeElement reconstructs the canonical text of an element at one
// tab of indentation, followed by one two-tab line per child.
func SerializeElement(el plan.Element) string {
	return serializeElementAt(el, 1)
}

func serializeElementAt(el plan.Element, depth int) string {
	indent := strings.Repeat("\t", depth)

	var b strings.Builder
	b.WriteString(indent + "- ")

	if el.IsTask {
		status := el.TaskStatus
		if status == "" {
			status = plan.StatusOpen
		}
		fmt.Fprintf(&b, "[%s] ", status)
	}

	b.WriteString(strings.TrimSpace(el.Text))

	if el.StartTime != nil {
		b.WriteString(" @ " + el.StartTime.String())
	}
	if el.Duration != nil && el.Unit != "" {
		b.WriteString(" " + formatProgressDuration(el.Progress, el.Duration, el.Unit))
	}

	for _, child := range el.Children {
		b.WriteString("\n" + indent + "\t- " + child)
	}

	return b.String()
}

// SerializeItem emits an item's header line under the given label followed
// by its elements. The time commitment appears only when it differs from
// the 60-minute default, as whole hours when possible.
func SerializeItem(label string, item *plan.Item) string {
	var b strings.Builder
	b.WriteString("- " + label)

	if item.Time != 0 && item.Time != plan.DefaultCommitment {
		if item.Time%60 == 0 {
			fmt.Fprintf(&b, " (%d hr)", item.Time/60)
		} else {
			fmt.Fprintf(&b, " (%d min)", item.Time)
		}
	}

	for _, el := range item.Elements {
		b.WriteString("\n" + SerializeElement(el))
	}

	return b.String()
}

// SerializeSection emits a date's items as a section body. Ordering is the
// canonical invariant the template supplies and the document does not:
// items appear in ascending template order, with items the template does
// not know sorted last under their own identity as label.
func SerializeSection(template plan.Template, items map[plan.ItemID]*plan.Item) string {
	ids := make([]plan.ItemID, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}

	order := func(id plan.ItemID) int {
		if meta, ok := template[id]; ok {
			return meta.Order
		}
		return orderSentinel
	}
	sort.Slice(ids, func(i, j int) bool {
		oi, oj := order(ids[i]), order(ids[j])
		if oi != oj {
			return oi < oj
		}
		return ids[i] < ids[j]
	})

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		label := id
		if meta, ok := template[id]; ok {
			label = meta.Label
		}
		parts = append(parts, SerializeItem(label, items[id]))
	}

	return strings.Join(parts, "\n")
}

// SerializeDataSection emits a project's task list with elements at the
// top level and children one tab below.
func SerializeDataSection(elements []plan.Element) string {
	parts := make([]string, 0, len(elements))
	for _, el := range elements {
		parts = append(parts, serializeElementAt(el, 0))
	}
	return strings.Join(parts, "\n")
}

// SerializeHabits emits a Habits section body, one bullet per habit,
// ordered by label for stable output.
func SerializeHabits(habits map[string]plan.Habit) string {
	list := make([]plan.Habit, 0, len(habits))
	for _, h := range habits {
		list = append(list, h)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Label < list[j].Label })

	parts := make([]string, 0, len(list))
	for _, h := range list {
		line := "- " + h.Label
		if h.RRule != "" {
			line += " (" + h.RRule + ")"
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, "\n")
}
