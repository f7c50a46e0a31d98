package config

import (
	"fmt"
	"time"

	"github.com/yildizm/statelist/internal/reconcile"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	Table   TableConfig  `yaml:"table" json:"table"`
	Blink   BlinkConfig  `yaml:"blink" json:"blink"`
	Output  OutputConfig `yaml:"output" json:"output"`
	Watch   WatchConfig  `yaml:"watch" json:"watch"`
}

// TableConfig configures how the list applies changes
type TableConfig struct {
	RowAnimation      string        `yaml:"row_animation" json:"row_animation"`           // fade|right|left|top|bottom|none|middle|automatic
	AnimationDuration time.Duration `yaml:"animation_duration" json:"animation_duration"` // how long a batch stays highlighted
	ShouldInterrupt   bool          `yaml:"should_interrupt" json:"should_interrupt"`     // stop every reload before its first batch
	PageSize          int           `yaml:"page_size" json:"page_size"`                   // rows moved by pgup/pgdown
}

// BlinkConfig configures the blinking title label
type BlinkConfig struct {
	Enabled  bool          `yaml:"enabled" json:"enabled"`
	Interval time.Duration `yaml:"interval" json:"interval"` // one fade-out cycle
	Text     string        `yaml:"text" json:"text"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // json|text|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Theme         string `yaml:"theme" json:"theme"`                   // default|high-contrast|minimal
	Verbose       bool   `yaml:"verbose" json:"verbose"`               // default verbosity
	LogFile       string `yaml:"log_file" json:"log_file"`             // where the TUI writes its log
}

// WatchConfig configures the watch command
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" json:"debounce"` // quiet period before a changed file is reloaded
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Table: TableConfig{
			RowAnimation:      "fade",
			AnimationDuration: 300 * time.Millisecond,
			ShouldInterrupt:   false,
			PageSize:          10,
		},
		Blink: BlinkConfig{
			Enabled:  true,
			Interval: 250 * time.Millisecond,
			Text:     "I blink!",
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Theme:         "default",
			Verbose:       false,
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateTableConfig(); err != nil {
		return err
	}
	if err := c.validateBlinkConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("debounce must be non-negative")
	}
	return nil
}

// Animation returns the parsed row animation
func (c *Config) Animation() reconcile.RowAnimation {
	a, err := reconcile.ParseRowAnimation(c.Table.RowAnimation)
	if err != nil {
		return reconcile.AnimationFade
	}
	return a
}

// validateTableConfig validates list-related configuration
func (c *Config) validateTableConfig() error {
	if c.Table.RowAnimation != "" {
		if _, err := reconcile.ParseRowAnimation(c.Table.RowAnimation); err != nil {
			return err
		}
	}
	if c.Table.AnimationDuration < 0 {
		return fmt.Errorf("animation_duration must be non-negative")
	}
	if c.Table.PageSize < 1 {
		return fmt.Errorf("page_size must be greater than 0")
	}
	return nil
}

// validateBlinkConfig validates blink-related configuration
func (c *Config) validateBlinkConfig() error {
	if c.Blink.Enabled && c.Blink.Interval <= 0 {
		return fmt.Errorf("blink interval must be positive when blinking is enabled")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.Output.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Output.Theme)
		}
	}
	return nil
}
