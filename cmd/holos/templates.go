package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/caasion/holos/internal/plan"
	"github.com/caasion/holos/internal/templates"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List templates and the dates each governs",
	Run: func(cmd *cobra.Command, args []string) {
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

		dates := tpl.Dates()
		if len(dates) == 0 {
			fmt.Fprintf(color.Output, "No templates found under %s.\n", settings.TemplateFolder)
			return
		}

		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow(bold("Effective"), bold("Governs through"), bold("Items"))
		for i, date := range dates {
			through := "open-ended"
			if i+1 < len(dates) {
				through = string(plan.AddDays(plan.ISODate(dates[i+1]), -1))
			}
			template, _ := tpl.Get(date)
			tbl.AddRow(string(date), through, itemLabels(template))
		}
		fmt.Fprintln(color.Output, tbl)
	},
}

func itemLabels(template plan.Template) string {
	metas := make([]plan.ItemMeta, 0, len(template))
	for _, meta := range template {
		metas = append(metas, meta)
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Order < metas[j].Order })

	out := ""
	for i, meta := range metas {
		if i > 0 {
			out += ", "
		}
		out += meta.Label
	}
	return out
}
