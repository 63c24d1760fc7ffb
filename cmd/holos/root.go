package main

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/caasion/holos/internal/config"
	"github.com/caasion/holos/internal/plan"
	"github.com/caasion/holos/internal/vault"
)

var (
	vaultFlag  string
	configFlag string
)

var rootCmd = &cobra.Command{
	Use:   "holos",
	Short: "Markdown-backed planner",
	Long: `Holos plans your days inside plain markdown notes.

Daily notes carry a planner-owned section of items and tasks, tracks and
projects live in their own folders, and templates decide which items a
given date gets. Every command reads and writes the notes directly; the
files stay the single source of truth.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&vaultFlag, "vault", "", "vault root folder (default: current directory or config)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default: .holos.yaml in the vault)")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(tracksCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(watchCmd)
}

// openVault loads settings and opens the store they point at.
func openVault() (config.Settings, *vault.OSStore, error) {
	settings, err := config.Load(configFlag, vaultFlag)
	if err != nil {
		return config.Settings{}, nil, err
	}
	store, err := vault.NewOSStore(settings.Vault)
	if err != nil {
		return config.Settings{}, nil, fmt.Errorf("failed to open vault: %w", err)
	}
	return settings, store, nil
}

// dailyNotePath builds the per-date note path for the configured daily
// folder.
func dailyNotePath(settings config.Settings) func(plan.ISODate) string {
	return func(date plan.ISODate) string {
		name := string(date) + ".md"
		if settings.DailyFolder == "" {
			return name
		}
		return path.Join(settings.DailyFolder, name)
	}
}
