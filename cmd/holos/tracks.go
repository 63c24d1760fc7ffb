package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/caasion/holos/internal/plan"
	"github.com/caasion/holos/internal/recur"
	"github.com/caasion/holos/internal/tracks"
)

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List tracks, their projects and habits",
	Run: func(cmd *cobra.Command, args []string) {
		settings, store, err := openVault()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		svc := tracks.New(store, tracks.Options{Folder: settings.TrackFolder})
		if err := svc.LoadAll(); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading tracks: %v\n", err)
			os.Exit(1)
		}

		all := svc.Tracks()
		if len(all) == 0 {
			fmt.Fprintf(color.Output, "No tracks found under %s.\n", settings.TrackFolder)
			return
		}

		sorted := make([]plan.Track, 0, len(all))
		for _, track := range all {
			sorted = append(sorted, track)
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

		for _, track := range sorted {
			printTrack(track)
		}
	},
}

func printTrack(track plan.Track) {
	header := color.New(color.Bold, color.Underline).Sprint(track.Label)
	if track.TimeCommitment > 0 {
		header += fmt.Sprintf("  (%d hr/week)", track.TimeCommitment)
	}
	fmt.Fprintln(color.Output, header)
	if track.Description != "" {
		fmt.Fprintln(color.Output, track.Description)
	}

	if len(track.Habits) > 0 {
		fmt.Fprintln(color.Output, bold("Habits"))
		for _, habit := range sortedHabits(track.Habits) {
			fmt.Fprintf(color.Output, "  %s  %s\n", habit.Label, color.New(color.Faint).Sprint(recur.Format(habit.RRule)))
		}
	}

	if len(track.Projects) > 0 {
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow(bold("Project"), bold("Dates"), bold("Tasks"))
		for _, project := range sortedProjects(track.Projects) {
			label := project.Label
			if project.ID == track.ActiveProjectID {
				label = color.GreenString("%s (active)", label)
			}
			tbl.AddRow(label, projectDates(project), fmt.Sprintf("%d", len(project.Elements)))
		}
		fmt.Fprintln(color.Output, tbl)
	}
	fmt.Fprintln(color.Output)
}

func projectDates(project plan.Project) string {
	if project.EndDate == "" {
		return fmt.Sprintf("%s →", project.StartDate)
	}
	return plan.RangeLabel(project.StartDate, project.EndDate)
}

func sortedHabits(habits map[string]plan.Habit) []plan.Habit {
	out := make([]plan.Habit, 0, len(habits))
	for _, h := range habits {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Label) < strings.ToLower(out[j].Label)
	})
	return out
}

func sortedProjects(projects map[string]plan.Project) []plan.Project {
	out := make([]plan.Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out
}
