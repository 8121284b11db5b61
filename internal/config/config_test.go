package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	return path
}

func TestLoadFromReturnsDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("expected load to succeed: %v", err)
	}

	if cfg.IsFeatureEnabled(FeatureTUI) {
		t.Fatal("expected tui feature to be disabled by default")
	}

	if !cfg.IsFeatureEnabled(FeatureSSHImport) {
		t.Fatal("expected ssh-import feature to be enabled by default")
	}

	if cfg.CatalogPath() != "" || cfg.LogLevel() != "" {
		t.Fatal("expected no catalog or log level by default")
	}

	if cfg.ProgressDelays().First != time.Second {
		t.Fatalf("expected default first delay, got %v", cfg.ProgressDelays().First)
	}
}

func TestLoadFromAcceptsCommentsAndTrailingCommas(t *testing.T) {
	path := writeConfig(t, `{
  // enable the full-screen UI
  "features": {"tui": true, "ssh-import": false,},
  "catalog": "~/java/catalog.toml",
  "log_level": "debug",
  /* faster demo runs */
  "progress": {
    "first_delay": "100ms",
    "final_delay": "200ms",
    "interior_min": "150ms",
    "interior_max": "250ms",
  },
}`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("expected load to succeed: %v", err)
	}

	if !cfg.IsFeatureEnabled(FeatureTUI) || cfg.IsFeatureEnabled(FeatureSSHImport) {
		t.Fatal("expected feature values from file")
	}

	if cfg.CatalogPath() != "~/java/catalog.toml" {
		t.Fatalf("unexpected catalog path %q", cfg.CatalogPath())
	}

	if cfg.LogLevel() != "debug" {
		t.Fatalf("unexpected log level %q", cfg.LogLevel())
	}

	d := cfg.ProgressDelays()
	if d.First != 100*time.Millisecond || d.Final != 200*time.Millisecond ||
		d.InteriorMin != 150*time.Millisecond || d.InteriorMax != 250*time.Millisecond {
		t.Fatalf("unexpected delays %+v", d)
	}
}

func TestLoadFromPartialProgressKeepsDefaults(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, `{"progress": {"final_delay": "5s"}}`))
	if err != nil {
		t.Fatalf("expected load to succeed: %v", err)
	}

	d := cfg.ProgressDelays()
	if d.Final != 5*time.Second || d.First != time.Second {
		t.Fatalf("unexpected delays %+v", d)
	}
}

func TestLoadFromRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"invalid json":      "{not json}",
		"features type":     `{"features":"not-a-map"}`,
		"catalog type":      `{"catalog": 42}`,
		"bad duration":      `{"progress": {"first_delay": "soon"}}`,
		"negative duration": `{"progress": {"first_delay": "-1s"}}`,
		"inverted range":    `{"progress": {"interior_min": "3s", "interior_max": "1s"}}`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFrom(writeConfig(t, content)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadFromEmptyFile(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, "  \n"))
	if err != nil {
		t.Fatalf("expected empty file to load: %v", err)
	}

	if cfg.IsFeatureEnabled(FeatureTUI) {
		t.Fatal("expected defaults")
	}
}

func TestSetFeaturePersistsAndPreservesUnknownKeys(t *testing.T) {
	path := writeConfig(t, `{"catalog": "/etc/jvm-wire/catalog.toml", "custom": {"keep": true}}`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("expected load to succeed: %v", err)
	}

	if err := cfg.SetFeature(FeatureTUI, true); err != nil {
		t.Fatalf("expected enable to succeed: %v", err)
	}

	reloaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("expected reload to succeed: %v", err)
	}

	if !reloaded.IsFeatureEnabled(FeatureTUI) {
		t.Fatal("expected tui to persist")
	}

	if reloaded.CatalogPath() != "/etc/jvm-wire/catalog.toml" {
		t.Fatalf("expected catalog to be kept, got %q", reloaded.CatalogPath())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("expected saved file to be plain JSON: %v", err)
	}

	if _, ok := raw["custom"]; !ok {
		t.Fatal("expected unknown key to be preserved")
	}
}

func TestSetFeatureRejectsUnknownAndBlank(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("expected load to succeed: %v", err)
	}

	if err := cfg.SetFeature("registry", true); err == nil {
		t.Fatal("expected unknown feature to be rejected")
	}

	if err := cfg.SetFeature(" ", true); err == nil {
		t.Fatal("expected blank feature to be rejected")
	}
}

func TestFeaturesSorted(t *testing.T) {
	var cfg *Config

	features := cfg.Features()
	if len(features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(features))
	}

	if features[0].Name != FeatureSSHImport || features[1].Name != FeatureTUI {
		t.Fatalf("unexpected order: %s, %s", features[0].Name, features[1].Name)
	}

	if !features[0].Enabled || features[1].Enabled {
		t.Fatal("expected registry defaults for nil config")
	}
}

func TestDefaultPath(t *testing.T) {
	if !strings.HasSuffix(DefaultPath(), filepath.Join(".config", "jvm-wire", "config.json")) {
		t.Fatalf("unexpected default path %q", DefaultPath())
	}
}
