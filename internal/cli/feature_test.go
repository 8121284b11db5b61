package cli

import (
	"os"
	"strings"
	"testing"

	"github.com/andreagrandi/jvm-wire/internal/config"
)

func TestFeatureEnableCommand(t *testing.T) {
	configPath := testEnv(t)

	output, err := executeRootCommand(t, "feature", "enable", "tui")
	if err != nil {
		t.Fatalf("expected command to succeed: %v", err)
	}

	if !strings.Contains(output, `Feature "tui" enabled.`) {
		t.Fatalf("unexpected output %q", output)
	}

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}

	if !cfg.IsFeatureEnabled(config.FeatureTUI) {
		t.Fatal("expected tui to be persisted as enabled")
	}
}

func TestFeatureDisableCommand(t *testing.T) {
	configPath := testEnv(t)

	output, err := executeRootCommand(t, "feature", "disable", "ssh-import")
	if err != nil {
		t.Fatalf("expected command to succeed: %v", err)
	}

	if !strings.Contains(output, `Feature "ssh-import" disabled.`) {
		t.Fatalf("unexpected output %q", output)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}

	if !strings.Contains(string(data), "ssh-import") {
		t.Fatalf("expected flag in config file, got %s", data)
	}
}

func TestFeatureListCommand(t *testing.T) {
	testEnv(t)

	output, err := executeRootCommand(t, "feature", "list")
	if err != nil {
		t.Fatalf("expected command to succeed: %v", err)
	}

	if !strings.Contains(output, "Feature flags:") {
		t.Fatalf("expected header in output, got %q", output)
	}

	for _, want := range []string{"ssh-import", "tui"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output, got %q", want, output)
		}
	}

	tuiLine := ""
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "tui") {
			tuiLine = line
		}
	}

	if !strings.Contains(tuiLine, "disabled") {
		t.Fatalf("expected tui to default to disabled, got %q", tuiLine)
	}
}

func TestFeatureEnableUnknownFeature(t *testing.T) {
	testEnv(t)

	_, err := executeRootCommand(t, "feature", "enable", "nonexistent")
	if err == nil {
		t.Fatal("expected error for unknown feature")
	}

	if !strings.Contains(err.Error(), "nonexistent") {
		t.Fatalf("expected feature name in error, got %v", err)
	}
}
