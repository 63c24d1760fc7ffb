package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/caasion/holos/internal/plan"
	"github.com/caasion/holos/internal/planner"
	"github.com/caasion/holos/internal/templates"
)

var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show the planned items for a date",
	Long: `Show the planner section of a date's daily note.

The date may be an ISO date (2026-01-15) or natural language like
"tomorrow" or "next friday". It defaults to today.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		date, err := parseDateArg(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		settings, store, err := openVault()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		tpl, err := templates.LoadFolder(store, settings.TemplateFolder)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading templates: %v\n", err)
			os.Exit(1)
		}

		svc := planner.New(store, tpl, planner.Options{
			SectionHeading: settings.SectionHeading,
			NotePath:       dailyNotePath(settings),
		})
		defer svc.Close()

		if err := svc.Load([]plan.ISODate{date}); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", date, err)
			os.Exit(1)
		}

		printDate(date, tpl, svc.Items(date))
	},
}

// parseDateArg resolves an optional date argument, accepting ISO dates
// and natural language. No argument means today.
func parseDateArg(args []string) (plan.ISODate, error) {
	if len(args) == 0 {
		return plan.Today(), nil
	}
	arg := args[0]

	if _, err := plan.ParseDate(plan.ISODate(arg)); err == nil {
		return plan.ISODate(arg), nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	r, err := w.Parse(arg, time.Now())
	if err != nil || r == nil {
		return "", fmt.Errorf("could not understand date %q", arg)
	}
	return plan.FormatDate(r.Time), nil
}

func printDate(date plan.ISODate, tpl *templates.Store, items map[plan.ItemID]*plan.Item) {
	fmt.Fprintln(color.Output, color.New(color.Bold, color.Underline).Sprint(date))

	if len(items) == 0 {
		fmt.Fprintln(color.Output, "Nothing planned.")
		return
	}

	template, _ := tpl.Get(tpl.ResolveDate(date))

	ids := make([]plan.ItemID, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		oi, oj := template[ids[i]].Order, template[ids[j]].Order
		if oi != oj {
			return oi != 0 && (oj == 0 || oi < oj)
		}
		return ids[i] < ids[j]
	})

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.AddRow(bold("Item"), bold("Time"), bold("Entries"))
	for _, id := range ids {
		item := items[id]
		label := string(id)
		if meta, ok := template[id]; ok {
			label = meta.Label
		}
		tbl.AddRow(label, fmt.Sprintf("%d min", item.Time), renderElements(item.Elements))
	}
	fmt.Fprintln(color.Output, tbl)
}

func renderElements(elements []plan.Element) string {
	var lines []string
	for _, el := range elements {
		lines = append(lines, renderElement(el))
		for _, child := range el.Children {
			lines = append(lines, "  "+child)
		}
	}
	return strings.Join(lines, "\n")
}

func renderElement(el plan.Element) string {
	var b strings.Builder
	if el.IsTask {
		switch el.TaskStatus {
		case plan.StatusDone:
			b.WriteString(color.GreenString("[x] "))
		case plan.StatusDropped:
			b.WriteString(color.New(color.Faint).Sprint("[-] "))
		default:
			b.WriteString("[ ] ")
		}
	}
	b.WriteString(el.Text)
	if el.StartTime != nil {
		b.WriteString(color.CyanString(" @ %s", el.StartTime))
	}
	if el.Duration != nil {
		if el.Progress != nil {
			b.WriteString(fmt.Sprintf(" [%d/%d %s]", *el.Progress, *el.Duration, el.Unit))
		} else {
			b.WriteString(fmt.Sprintf(" [%d %s]", *el.Duration, el.Unit))
		}
	}
	return b.String()
}

func bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}
