package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# statelist configuration
version: "1.0"

table:
  # Animation used for applied edits: fade, right, left, top, bottom, none, middle, automatic
  row_animation: fade
  # How long a batch stays highlighted before the next one is applied
  animation_duration: 300ms
  # Stop every reload before its first batch (the list never changes while set)
  should_interrupt: false
  # Rows moved by page up / page down
  page_size: 10

blink:
  enabled: true
  # Length of one fade-out cycle
  interval: 250ms
  text: "I blink!"

output:
  # Default format for the diff command: text, json, markdown, csv
  default_format: text
  # auto, always, never
  color_mode: auto
  # default, high-contrast, minimal
  theme: default
  verbose: false
  # Log file used by the interactive commands (empty disables logging)
  log_file: ""

watch:
  # Quiet period before a changed file is reloaded
  debounce: 100ms
`
}

// MinimalSampleConfig returns a short configuration file
func MinimalSampleConfig() string {
	return `version: "1.0"
table:
  row_animation: fade
output:
  default_format: text
`
}

// Marshal encodes c as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
