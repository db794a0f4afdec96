package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nvasani/tempo/internal/pomodoro"
)

type WorkingHours struct {
	Start string `mapstructure:"start"` // "08:00"
	End   string `mapstructure:"end"`   // "18:00"
}

type PomodoroConfig struct {
	WorkMinutes      int `mapstructure:"work"`
	BreakMinutes     int `mapstructure:"break"`
	LongBreakMinutes int `mapstructure:"long_break"`
	BeforeLongBreak  int `mapstructure:"before_long_break"`
}

type ReminderConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Time     string   `mapstructure:"time"`     // "17:00"
	Workdays []string `mapstructure:"workdays"` // ["Mon","Tue","Wed","Thu","Fri"]
}

type Config struct {
	DataFile      string         `mapstructure:"data_file"`
	WeekStart     string         `mapstructure:"week_start"` // sunday | monday
	WorkingHours  WorkingHours   `mapstructure:"working_hours"`
	Pomodoro      PomodoroConfig `mapstructure:"pomodoro"`
	SoundEnabled  bool           `mapstructure:"sound_enabled"`
	Notifications bool           `mapstructure:"notifications_enabled"`
	QuickOffsets  []int          `mapstructure:"quick_offsets"` // minutes
	Reminder      ReminderConfig `mapstructure:"reminder"`
}

func Default() Config {
	return Config{
		DataFile:  defaultDataFile(),
		WeekStart: "monday",
		WorkingHours: WorkingHours{
			Start: "08:00",
			End:   "18:00",
		},
		Pomodoro: PomodoroConfig{
			WorkMinutes:      25,
			BreakMinutes:     5,
			LongBreakMinutes: 15,
			BeforeLongBreak:  4,
		},
		SoundEnabled:  true,
		Notifications: true,
		QuickOffsets:  []int{5, 10, 15, 30},
		Reminder: ReminderConfig{
			Enabled:  false,
			Time:     "17:00",
			Workdays: []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
		},
	}
}

func defaultDataFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "timelog.txt"
	}
	return filepath.Join(home, ".local", "share", "tempo", "timelog.txt")
}

func xdgConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "tempo")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Load() (Config, error) {
	cfg := Default()

	path, err := xdgConfigPath()
	if err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	// defaults
	v.SetDefault("data_file", cfg.DataFile)
	v.SetDefault("week_start", cfg.WeekStart)
	v.SetDefault("working_hours.start", cfg.WorkingHours.Start)
	v.SetDefault("working_hours.end", cfg.WorkingHours.End)
	v.SetDefault("pomodoro.work", cfg.Pomodoro.WorkMinutes)
	v.SetDefault("pomodoro.break", cfg.Pomodoro.BreakMinutes)
	v.SetDefault("pomodoro.long_break", cfg.Pomodoro.LongBreakMinutes)
	v.SetDefault("pomodoro.before_long_break", cfg.Pomodoro.BeforeLongBreak)
	v.SetDefault("sound_enabled", cfg.SoundEnabled)
	v.SetDefault("notifications_enabled", cfg.Notifications)
	v.SetDefault("quick_offsets", cfg.QuickOffsets)
	v.SetDefault("reminder.enabled", cfg.Reminder.Enabled)
	v.SetDefault("reminder.time", cfg.Reminder.Time)
	v.SetDefault("reminder.workdays", cfg.Reminder.Workdays)

	_ = v.ReadInConfig() // ok if missing
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects timer misconfiguration before it can reach the timer, and
// normalizes the week-start spelling.
func (c *Config) Validate() error {
	c.WeekStart = strings.ToLower(strings.TrimSpace(c.WeekStart))
	if c.WeekStart != "sunday" && c.WeekStart != "monday" {
		return fmt.Errorf("week_start must be sunday or monday, got %q", c.WeekStart)
	}

	if c.Pomodoro.WorkMinutes <= 0 || c.Pomodoro.BreakMinutes <= 0 || c.Pomodoro.LongBreakMinutes <= 0 {
		return fmt.Errorf("pomodoro durations must be positive")
	}
	if c.Pomodoro.BeforeLongBreak <= 0 {
		return fmt.Errorf("pomodoro.before_long_break must be positive")
	}

	if len(c.QuickOffsets) == 0 {
		return fmt.Errorf("quick_offsets must list at least one value")
	}
	for _, m := range c.QuickOffsets {
		if m <= 0 {
			return fmt.Errorf("quick_offsets must be positive minutes, got %d", m)
		}
	}

	// An enabled reminder with no recognizable workday would never fire and
	// the scheduler's roll-forward would spin looking for one.
	if c.Reminder.Enabled {
		if _, err := time.Parse("15:04", c.Reminder.Time); err != nil {
			return fmt.Errorf("reminder.time must be HH:MM, got %q", c.Reminder.Time)
		}
		if !hasWeekday(c.Reminder.Workdays) {
			return fmt.Errorf("reminder.workdays must name at least one weekday")
		}
	}
	return nil
}

var weekdayAbbrevs = map[string]bool{
	"sun": true, "mon": true, "tue": true, "wed": true,
	"thu": true, "fri": true, "sat": true,
}

func hasWeekday(days []string) bool {
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if len(d) >= 3 && weekdayAbbrevs[d[:3]] {
			return true
		}
	}
	return false
}

// WeekStartDay maps the configured spelling onto time.Weekday.
func (c Config) WeekStartDay() time.Weekday {
	if c.WeekStart == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

// TimerOptions converts the validated pomodoro section for the timer.
func (c Config) TimerOptions() pomodoro.Options {
	return pomodoro.Options{
		WorkMinutes:      c.Pomodoro.WorkMinutes,
		BreakMinutes:     c.Pomodoro.BreakMinutes,
		LongBreakMinutes: c.Pomodoro.LongBreakMinutes,
		BeforeLongBreak:  c.Pomodoro.BeforeLongBreak,
	}
}
