package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/andreagrandi/jvm-wire/internal/app"
	"github.com/andreagrandi/jvm-wire/internal/progress"
)

const configFileName = "config.json"

// Feature names.
const (
	FeatureTUI       = "tui"
	FeatureSSHImport = "ssh-import"
)

// FeatureRegistry defines all known feature flags and their defaults.
var FeatureRegistry = map[string]FeatureDefinition{
	FeatureTUI: {
		Name:        FeatureTUI,
		Description: "Full-screen Bubble Tea terminal UI",
		Default:     false,
	},
	FeatureSSHImport: {
		Name:        FeatureSSHImport,
		Description: "Offer hosts from ~/.ssh/config when entering the inventory",
		Default:     true,
	},
}

// FeatureDefinition describes a feature flag.
type FeatureDefinition struct {
	Name        string
	Description string
	Default     bool
}

// FeatureStatus describes the current state of a feature flag.
type FeatureStatus struct {
	Name        string
	Description string
	Enabled     bool
}

// progressSettings is the "progress" object. Values are Go durations.
type progressSettings struct {
	FirstDelay  string `json:"first_delay"`
	FinalDelay  string `json:"final_delay"`
	InteriorMin string `json:"interior_min"`
	InteriorMax string `json:"interior_max"`
}

// Config holds jvm-wire local settings. Keys it does not know about are
// preserved when the file is rewritten.
type Config struct {
	path     string
	raw      map[string]json.RawMessage
	features map[string]bool
	catalog  string
	logLevel string
	delays   progress.DefaultDelays
}

// Load reads the config from the default path.
func Load() (*Config, error) {
	return LoadFrom("")
}

// DefaultPath returns ~/.config/jvm-wire/config.json.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", app.ConfigDirName, configFileName)
	}

	return filepath.Join(homeDir, ".config", app.ConfigDirName, configFileName)
}

// LoadFrom reads the config at path, or DefaultPath when path is empty.
// Comments and trailing commas are accepted. A missing file yields the
// defaults.
func LoadFrom(path string) (*Config, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		resolved = DefaultPath()
	}

	cfg := &Config{
		path:     resolved,
		raw:      make(map[string]json.RawMessage),
		features: make(map[string]bool),
		delays:   progress.NewDefaultDelays(),
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("read config file %q: %w", resolved, err)
	}

	if strings.TrimSpace(string(data)) == "" {
		return cfg, nil
	}

	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg.raw); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", resolved, err)
	}

	if err := cfg.decode(); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", resolved, err)
	}

	return cfg, nil
}

func (c *Config) decode() error {
	if raw, ok := c.raw["features"]; ok {
		var features map[string]bool
		if err := json.Unmarshal(raw, &features); err != nil {
			return fmt.Errorf("features: %w", err)
		}

		for k, v := range features {
			c.features[k] = v
		}
	}

	if raw, ok := c.raw["catalog"]; ok {
		if err := json.Unmarshal(raw, &c.catalog); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
	}

	if raw, ok := c.raw["log_level"]; ok {
		if err := json.Unmarshal(raw, &c.logLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}

	if raw, ok := c.raw["progress"]; ok {
		var p progressSettings
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("progress: %w", err)
		}

		delays, err := p.apply(c.delays)
		if err != nil {
			return fmt.Errorf("progress: %w", err)
		}
		c.delays = delays
	}

	return nil
}

func (p progressSettings) apply(d progress.DefaultDelays) (progress.DefaultDelays, error) {
	fields := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"first_delay", p.FirstDelay, &d.First},
		{"final_delay", p.FinalDelay, &d.Final},
		{"interior_min", p.InteriorMin, &d.InteriorMin},
		{"interior_max", p.InteriorMax, &d.InteriorMax},
	}

	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}

		parsed, err := time.ParseDuration(strings.TrimSpace(f.value))
		if err != nil {
			return d, fmt.Errorf("%s: %w", f.name, err)
		}
		if parsed < 0 {
			return d, fmt.Errorf("%s must not be negative", f.name)
		}

		*f.dst = parsed
	}

	if d.InteriorMax < d.InteriorMin {
		return d, errors.New("interior_max must not be less than interior_min")
	}

	return d, nil
}

// Path returns the config file location.
func (c *Config) Path() string {
	if c == nil {
		return ""
	}

	return c.path
}

// CatalogPath returns the extra catalog file, if configured.
func (c *Config) CatalogPath() string {
	if c == nil {
		return ""
	}

	return strings.TrimSpace(c.catalog)
}

// LogLevel returns the configured log level name. Empty means info.
func (c *Config) LogLevel() string {
	if c == nil {
		return ""
	}

	return c.logLevel
}

// ProgressDelays returns the installation stage timing.
func (c *Config) ProgressDelays() progress.DefaultDelays {
	if c == nil {
		return progress.NewDefaultDelays()
	}

	return c.delays
}

// IsFeatureEnabled returns whether a feature flag is enabled.
//
// If the feature has not been explicitly set, the registry default is used.
// Unknown feature names always return false.
func (c *Config) IsFeatureEnabled(name string) bool {
	trimmed := strings.TrimSpace(name)

	if c != nil {
		if val, ok := c.features[trimmed]; ok {
			return val
		}
	}

	if def, ok := FeatureRegistry[trimmed]; ok {
		return def.Default
	}

	return false
}

// SetFeature sets a feature flag value and persists the config.
func (c *Config) SetFeature(name string, enabled bool) error {
	if c == nil {
		return errors.New("config is nil")
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.New("feature name is required")
	}

	if _, ok := FeatureRegistry[trimmed]; !ok {
		return fmt.Errorf("unknown feature %q", trimmed)
	}

	c.features[trimmed] = enabled

	return c.save()
}

// Features returns all known features with their status, sorted by name.
func (c *Config) Features() []FeatureStatus {
	result := make([]FeatureStatus, 0, len(FeatureRegistry))

	for _, def := range FeatureRegistry {
		result = append(result, FeatureStatus{
			Name:        def.Name,
			Description: def.Description,
			Enabled:     c.IsFeatureEnabled(def.Name),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// save writes the config back as plain JSON. Comments in the original file
// are not kept.
func (c *Config) save() error {
	configDir := filepath.Dir(c.path)
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("create config directory %q: %w", configDir, err)
	}

	featuresJSON, err := json.Marshal(c.features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}

	c.raw["features"] = featuresJSON

	data, err := json.MarshalIndent(c.raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write config file %q: %w", c.path, err)
	}

	return nil
}
