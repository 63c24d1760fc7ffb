package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/caasion/holos/internal/plan"
	"github.com/caasion/holos/internal/planner"
	"github.com/caasion/holos/internal/templates"
	"github.com/caasion/holos/internal/tracks"
	"github.com/caasion/holos/internal/vault"
)

var watchLogFile string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the vault and keep caches in sync",
	Long: `Run the sync daemon.

Loads the planner and track caches, watches the vault for file changes,
and routes events into both services. External edits are picked up as
they happen; the daemon's own writes are suppressed so they do not
trigger reload loops. A periodic full reload catches anything the
watcher missed. Stop with Ctrl-C.`,
	Run: func(cmd *cobra.Command, args []string) {
		settings, store, err := openVault()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		logger := log.New(os.Stderr, "[holos] ", log.LstdFlags)
		if watchLogFile != "" {
			logger.SetOutput(&lumberjack.Logger{
				Filename:   watchLogFile,
				MaxSize:    10, // MB
				MaxBackups: 3,
				MaxAge:     28, // days
			})
		}

		tpl, err := templates.LoadFolder(store, settings.TemplateFolder)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading templates: %v\n", err)
			os.Exit(1)
		}

		planSvc := planner.New(store, tpl, planner.Options{
			SectionHeading: settings.SectionHeading,
			Debounce:       settings.Debounce(),
			NotePath:       dailyNotePath(settings),
			Logger:         logger,
		})
		defer planSvc.Close()

		trackSvc := tracks.New(store, tracks.Options{
			Folder: settings.TrackFolder,
			Logger: logger,
		})

		dates := watchedDates(settings.Columns * settings.Blocks)
		if err := planSvc.Load(dates); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading daily notes: %v\n", err)
			os.Exit(1)
		}
		if err := trackSvc.LoadAll(); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading tracks: %v\n", err)
			os.Exit(1)
		}

		dailyFolder := settings.DailyFolder
		if dailyFolder == "" {
			dailyFolder = "."
		}
		watcher, err := vault.NewFSWatcher(store, dailyFolder, settings.TrackFolder, settings.TemplateFolder)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating watcher: %v\n", err)
			os.Exit(1)
		}
		if err := watcher.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting watcher: %v\n", err)
			os.Exit(1)
		}

		logger.Printf("Watching %s (%d dates, %d tracks)", store.Root(), len(dates), len(trackSvc.Tracks()))

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		refresh := time.NewTicker(settings.RefreshInterval())
		defer refresh.Stop()

		for {
			select {
			case ev, ok := <-watcher.Events():
				if !ok {
					return
				}
				if planSvc.HandleEvent(ev) {
					logger.Printf("Reloaded daily note %s", ev.Path)
				}
				if trackSvc.HandleEvent(ev) {
					logger.Printf("Refreshed tracks after %s on %s", ev.Op, ev.Path)
				}

			case err, ok := <-watcher.Errors():
				if !ok {
					return
				}
				logger.Printf("Watcher error: %v", err)

			case <-refresh.C:
				if err := planSvc.Load(dates); err != nil {
					logger.Printf("Error on periodic reload: %v", err)
				}
				if err := trackSvc.Invalidate(); err != nil {
					logger.Printf("Error on periodic track reload: %v", err)
				}

			case <-sig:
				logger.Printf("Shutting down")
				if err := watcher.Stop(); err != nil {
					logger.Printf("Error stopping watcher: %v", err)
				}
				return
			}
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "write the daemon log to this file (rotated)")
}

// watchedDates is the date window the daemon keeps loaded: today plus the
// view ahead.
func watchedDates(days int) []plan.ISODate {
	if days < 1 {
		days = 1
	}
	return plan.DatesFrom(plan.Today(), days)
}
