package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := executeCommand(t, "config", "init", "--path", path)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("Expected path in output, got %q", out)
	}
	if !fileExists(path) {
		t.Fatal("Expected config file to be written")
	}

	if _, err := executeCommand(t, "config", "init", "--path", path); err == nil {
		t.Error("Expected existing file to be refused without --force")
	}
	if _, err := executeCommand(t, "config", "init", "--path", path, "--force", "--minimal"); err != nil {
		t.Errorf("Expected --force to overwrite, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("blink:\n  interval: 0s\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := NewRootCommand("dev", "none", "unknown")
	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", path, "config", "validate"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("Expected validation to fail")
	}
	if !strings.Contains(out.String(), "Configuration validation failed") {
		t.Errorf("Expected failure report, got:\n%s", out.String())
	}
}

func TestConfigShowJSON(t *testing.T) {
	out, err := executeCommand(t, "config", "show", "--format", "json")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, `"row_animation": "fade"`) {
		t.Errorf("Expected default row animation, got:\n%s", out)
	}
}
