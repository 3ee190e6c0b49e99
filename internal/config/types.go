package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the process-wide configuration. Files may be JSON or YAML;
// unknown keys are rejected so a typo never silently disables a section.
type Config struct {
	Sounds   SoundsConfig    `json:"sounds"`
	Schedule ScheduleConfig  `json:"schedule"`
	Logging  LoggingConfig   `json:"logging"`
	Storage  *StorageConfig  `json:"storage,omitempty"`
	Telegram *TelegramConfig `json:"telegram,omitempty"`
}

// SoundsConfig locates the sound library and the external player.
type SoundsConfig struct {
	// Dir is the single base directory all tune and strike files resolve
	// against.
	Dir string `json:"dir"`
	// Extension is appended to tune names entered without one. Default ".mp3".
	Extension string `json:"extension,omitempty"`
	// Player and PlayerArgs form the blocking playback command; the resolved
	// file path is appended. Default "mpg123 -q".
	Player     string   `json:"player,omitempty"`
	PlayerArgs []string `json:"player_args,omitempty"`
	// VerifyOnStart checks the twelve strike files at startup.
	VerifyOnStart bool `json:"verify_on_start,omitempty"`
}

// ScheduleConfig controls the rule set pre-populated at startup.
//
// Defaults is a pointer so "omitted" (install the tower-clock defaults)
// differs from an explicit false (start with an empty schedule).
type ScheduleConfig struct {
	Defaults  *bool `json:"defaults,omitempty"`
	StartHour int   `json:"start_hour,omitempty"`
	EndHour   *int  `json:"end_hour,omitempty"` // default 23
}

type LoggingConfig struct {
	Level   string      `json:"level,omitempty"`
	Console *bool       `json:"console,omitempty"` // default true
	File    FileConfig  `json:"file,omitempty"`
	Alert   AlertConfig `json:"alert,omitempty"`
}

type FileConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// AlertConfig forwards WARN+ log lines to the Telegram notifier.
type AlertConfig struct {
	Enabled    bool   `json:"enabled"`
	MinLevel   string `json:"min_level,omitempty"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
}

// StorageConfig controls the optional playout audit log.
//
// Example:
//
//	"storage": { "driver": "sqlite", "path": "./carillon.db" }
type StorageConfig struct {
	Driver        string `json:"driver"`
	Path          string `json:"path"`
	BusyTimeout   string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
	RetentionDays int    `json:"retention_days,omitempty"`
}

type TelegramConfig struct {
	Token  string `json:"token"`
	ChatID int64  `json:"chat_id"`
}

func (c *Config) ScheduleDefaultsEnabled() bool {
	return c.Schedule.Defaults == nil || *c.Schedule.Defaults
}

func (c *Config) ScheduleEndHour() int {
	if c.Schedule.EndHour == nil {
		return 23
	}
	return *c.Schedule.EndHour
}

func (c *Config) ConsoleEnabled() bool {
	return c.Logging.Console == nil || *c.Logging.Console
}

func (c *Config) StorageBusyTimeout() (time.Duration, error) {
	if c.Storage == nil || strings.TrimSpace(c.Storage.BusyTimeout) == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Storage.BusyTimeout)
}

func (c *Config) Retention() time.Duration {
	if c.Storage == nil || c.Storage.RetentionDays <= 0 {
		return 90 * 24 * time.Hour
	}
	return time.Duration(c.Storage.RetentionDays) * 24 * time.Hour
}

// Validate rejects configs the daemon could not run with. It runs on load
// and again before a hot reload is committed.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Sounds.Dir) == "" {
		return fmt.Errorf("sounds.dir is required")
	}
	if h := c.Schedule.StartHour; h < 0 || h > 23 {
		return fmt.Errorf("schedule.start_hour %d must be between 0 and 23", h)
	}
	if h := c.ScheduleEndHour(); h < 0 || h > 23 {
		return fmt.Errorf("schedule.end_hour %d must be between 0 and 23", h)
	}
	if c.Schedule.StartHour > c.ScheduleEndHour() {
		return fmt.Errorf("schedule.start_hour must not exceed schedule.end_hour")
	}
	if c.Storage != nil {
		switch strings.ToLower(strings.TrimSpace(c.Storage.Driver)) {
		case "", "none", "file", "sqlite", "sqlite3":
		default:
			return fmt.Errorf("storage.driver %q is not known", c.Storage.Driver)
		}
		if _, err := c.StorageBusyTimeout(); err != nil {
			return fmt.Errorf("storage.busy_timeout: %w", err)
		}
	}
	if c.Logging.Alert.Enabled && c.Telegram == nil {
		return fmt.Errorf("logging.alert.enabled requires a telegram section")
	}
	return nil
}
