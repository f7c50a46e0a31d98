package config

import (
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", cfg.Version)
	}
	if cfg.Table.RowAnimation != "fade" {
		t.Errorf("Expected default row animation fade, got %s", cfg.Table.RowAnimation)
	}
	if cfg.Table.ShouldInterrupt {
		t.Error("Expected interruption to be off by default")
	}
	if cfg.Blink.Interval != 250*time.Millisecond {
		t.Errorf("Expected 250ms blink interval, got %v", cfg.Blink.Interval)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad animation", func(c *Config) { c.Table.RowAnimation = "spin" }, "invalid row animation"},
		{"negative duration", func(c *Config) { c.Table.AnimationDuration = -time.Second }, "animation_duration"},
		{"zero page size", func(c *Config) { c.Table.PageSize = 0 }, "page_size"},
		{"zero blink interval", func(c *Config) { c.Blink.Interval = 0 }, "blink interval"},
		{"zero interval disabled", func(c *Config) { c.Blink.Enabled = false; c.Blink.Interval = 0 }, ""},
		{"bad format", func(c *Config) { c.Output.DefaultFormat = "xml" }, "invalid output format"},
		{"bad color mode", func(c *Config) { c.Output.ColorMode = "sometimes" }, "invalid color mode"},
		{"bad theme", func(c *Config) { c.Output.Theme = "neon" }, "invalid theme"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -1 }, "debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAnimation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Table.RowAnimation = "none"
	if got := cfg.Animation().String(); got != "none" {
		t.Errorf("Expected none, got %s", got)
	}

	cfg.Table.RowAnimation = "bogus"
	if got := cfg.Animation().String(); got != "fade" {
		t.Errorf("Expected fallback to fade, got %s", got)
	}
}

func TestSampleConfigsParse(t *testing.T) {
	for name, sample := range map[string]string{
		"full":    SampleConfig(),
		"minimal": MinimalSampleConfig(),
	} {
		cfg := DefaultConfig()
		if err := yaml.Unmarshal([]byte(sample), cfg); err != nil {
			t.Errorf("%s sample does not parse: %v", name, err)
			continue
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s sample is invalid: %v", name, err)
		}
	}
}

func TestMarshal(t *testing.T) {
	data, err := DefaultConfig().Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), "row_animation: fade") {
		t.Errorf("Expected row_animation in output, got:\n%s", data)
	}
}

func TestExpandPath(t *testing.T) {
	if got := expandPath("./config.yaml"); got != "./config.yaml" {
		t.Errorf("Expected relative path unchanged, got %s", got)
	}
	if got := expandPath("/etc/statelist/config.yaml"); got != "/etc/statelist/config.yaml" {
		t.Errorf("Expected absolute path unchanged, got %s", got)
	}
	if got := expandPath("~/.config/statelist/config.yaml"); strings.HasPrefix(got, "~") {
		t.Errorf("Expected home directory to be expanded, got %s", got)
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := GetConfigPaths()
	if len(paths) != 3 {
		t.Fatalf("Expected 3 config paths, got %d", len(paths))
	}
	if paths[0] != "./.statelist.yaml" {
		t.Errorf("Expected project config first, got %s", paths[0])
	}
	if paths[2] != "/etc/statelist/config.yaml" {
		t.Errorf("Expected system config last, got %s", paths[2])
	}
}
