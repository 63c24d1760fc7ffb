// Package config loads holos settings from a .holos.yaml file in the
// vault (or an explicit path) merged over defaults, with HOLOS_*
// environment overrides.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Settings is the full runtime configuration.
type Settings struct {
	// Vault is the root folder holding the notes.
	Vault string `mapstructure:"vault"`

	// SectionHeading names the daily-note section the planner owns.
	SectionHeading string `mapstructure:"sectionHeading"`

	// TrackFolder is the vault-relative folder holding track folders.
	TrackFolder string `mapstructure:"trackFolder"`

	// TemplateFolder is the vault-relative folder holding template notes.
	TemplateFolder string `mapstructure:"templateFolder"`

	// DailyFolder is the vault-relative folder holding daily notes.
	DailyFolder string `mapstructure:"dailyFolder"`

	// Blocks and Columns shape the default planner view.
	Blocks  int `mapstructure:"blocks"`
	Columns int `mapstructure:"columns"`

	// WeekFormat aligns date ranges to calendar weeks starting on
	// WeekStartOn (0 = Sunday).
	WeekFormat  bool `mapstructure:"weekFormat"`
	WeekStartOn int  `mapstructure:"weekStartOn"`

	// AutosaveDebounceMs is how long edits are coalesced before the
	// note is written back.
	AutosaveDebounceMs int `mapstructure:"autosaveDebounceMs"`

	// RefreshRemoteMs is the interval for the periodic full reload that
	// catches changes file events missed.
	RefreshRemoteMs int `mapstructure:"refreshRemoteMs"`

	// LookaheadDays bounds how far an open-ended template projects
	// forward.
	LookaheadDays int `mapstructure:"lookaheadDays"`

	Debug bool `mapstructure:"debug"`
}

// Debounce returns the autosave debounce as a duration.
func (s Settings) Debounce() time.Duration {
	return time.Duration(s.AutosaveDebounceMs) * time.Millisecond
}

// RefreshInterval returns the periodic reload interval as a duration.
func (s Settings) RefreshInterval() time.Duration {
	return time.Duration(s.RefreshRemoteMs) * time.Millisecond
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("vault", ".")
	v.SetDefault("sectionHeading", "Holos")
	v.SetDefault("trackFolder", "Tracks")
	v.SetDefault("templateFolder", "Templates")
	v.SetDefault("dailyFolder", "")
	v.SetDefault("blocks", 1)
	v.SetDefault("columns", 7)
	v.SetDefault("weekFormat", true)
	v.SetDefault("weekStartOn", 0)
	v.SetDefault("autosaveDebounceMs", 200)
	v.SetDefault("refreshRemoteMs", 300000)
	v.SetDefault("lookaheadDays", 14)
	v.SetDefault("debug", false)
}

// Load reads settings from the given config file, or searches the vault
// and working directory for .holos.yaml when path is empty. A missing
// config file is not an error; defaults apply.
func Load(path, vault string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("HOLOS")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".holos")
		v.SetConfigType("yaml")
		if vault != "" {
			v.AddConfigPath(vault)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return Settings{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if vault != "" {
		s.Vault = vault
	}
	return s, nil
}
