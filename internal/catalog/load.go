package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	bundledcatalogs "github.com/andreagrandi/jvm-wire/catalogs"
)

const (
	artifactPrefix = "installation-"
	profilePrefix  = "profile-"
)

// catalogEntry is the on-disk shape of one catalog table. Artifact and
// profile tables share it; the table name decides which fields apply.
type catalogEntry struct {
	FriendlyName string `toml:"friendly_name"`
	OS           string `toml:"os"`

	Version        string `toml:"version"`
	Filename       string `toml:"filename"`
	Exists         *bool  `toml:"exists"`
	ExtractCommand string `toml:"extract_command"`
	InstallCommand string `toml:"install_command"`
	Vendor         string `toml:"vendor"`
	Checksum       string `toml:"checksum"`
	SizeMB         int    `toml:"size_mb"`

	InstallPath    string `toml:"install_path"`
	BackupEnabled  bool   `toml:"backup_enabled"`
	BackupPath     string `toml:"backup_path"`
	BasePath       string `toml:"base_path"`
	SymlinkEnabled bool   `toml:"symlink_enabled"`
	SymlinkPath    string `toml:"symlink_path"`
}

// LoadStore builds a store from the bundled default catalog followed by any
// extra catalog files. Entries in later files replace earlier entries with the
// same id. Missing extra files are skipped.
func LoadStore(paths ...string) (*Store, error) {
	artifacts := newOrderedSet[Artifact]()
	profiles := newOrderedSet[Profile]()

	data, err := bundledcatalogs.FS.ReadFile("default.toml")
	if err != nil {
		return nil, fmt.Errorf("read embedded catalog: %w", err)
	}

	if err := mergeCatalog("embedded/default.toml", data, artifacts, profiles); err != nil {
		return nil, err
	}

	for _, rawPath := range paths {
		if strings.TrimSpace(rawPath) == "" {
			continue
		}

		path, err := expandHome(rawPath)
		if err != nil {
			return nil, fmt.Errorf("expand catalog path %q: %w", rawPath, err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}

			return nil, fmt.Errorf("read catalog file %q: %w", path, err)
		}

		if err := mergeCatalog(path, data, artifacts, profiles); err != nil {
			return nil, err
		}
	}

	return NewStore(artifacts.values(), profiles.values()), nil
}

// ParseCatalog decodes a catalog document into artifacts and profiles,
// ordered by id.
func ParseCatalog(path string, data []byte) ([]Artifact, []Profile, error) {
	var doc map[string]catalogEntry
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse catalog file %q: %w", path, err)
	}

	ids := make([]string, 0, len(doc))
	for id := range doc {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return naturalLess(ids[i], ids[j])
	})

	var artifacts []Artifact
	var profiles []Profile

	for _, id := range ids {
		entry := doc[id]

		switch {
		case strings.HasPrefix(id, artifactPrefix):
			a := entry.artifact(id)
			if err := ValidateArtifact(a); err != nil {
				return nil, nil, fmt.Errorf("validate catalog file %q: %w", path, err)
			}
			artifacts = append(artifacts, a)

		case strings.HasPrefix(id, profilePrefix):
			p := entry.profile(id)
			if err := ValidateProfile(p); err != nil {
				return nil, nil, fmt.Errorf("validate catalog file %q: %w", path, err)
			}
			profiles = append(profiles, p)

		default:
			return nil, nil, fmt.Errorf("catalog file %q: table %q is neither an installation nor a profile", path, id)
		}
	}

	return artifacts, profiles, nil
}

// ValidateArtifact validates required fields for an artifact definition.
func ValidateArtifact(a Artifact) error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("installation id is required")
	}

	if strings.TrimSpace(a.FriendlyName) == "" {
		return fmt.Errorf("installation %q friendly_name is required", a.ID)
	}

	if _, ok := ParseOS(string(a.OS)); !ok {
		return fmt.Errorf("installation %q has unsupported os %q", a.ID, a.OS)
	}

	if strings.TrimSpace(a.ArchivePath) == "" {
		return fmt.Errorf("installation %q filename is required", a.ID)
	}

	return nil
}

// ValidateProfile validates required fields for a profile definition.
func ValidateProfile(p Profile) error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("profile id is required")
	}

	if strings.TrimSpace(p.FriendlyName) == "" {
		return fmt.Errorf("profile %q friendly_name is required", p.ID)
	}

	if _, ok := ParseOS(string(p.OS)); !ok {
		return fmt.Errorf("profile %q has unsupported os %q", p.ID, p.OS)
	}

	if strings.TrimSpace(p.InstallPath) == "" {
		return fmt.Errorf("profile %q install_path is required", p.ID)
	}

	if p.BackupEnabled && strings.TrimSpace(p.BackupPath) == "" {
		return fmt.Errorf("profile %q enables backup without backup_path", p.ID)
	}

	if p.SymlinkEnabled && strings.TrimSpace(p.SymlinkPath) == "" {
		return fmt.Errorf("profile %q enables symlink without symlink_path", p.ID)
	}

	return nil
}

func (e catalogEntry) artifact(id string) Artifact {
	osValue, _ := ParseOS(e.OS)
	if osValue == "" {
		osValue = OS(strings.TrimSpace(e.OS))
	}

	command := strings.TrimSpace(e.ExtractCommand)
	if command == "" {
		command = strings.TrimSpace(e.InstallCommand)
	}
	if command == "" {
		command = osValue.DefaultExtractCommand()
	}

	exists := true
	if e.Exists != nil {
		exists = *e.Exists
	}

	return Artifact{
		ID:             id,
		FriendlyName:   strings.TrimSpace(e.FriendlyName),
		Version:        strings.TrimSpace(e.Version),
		OS:             osValue,
		ArchivePath:    strings.TrimSpace(e.Filename),
		Exists:         exists,
		ExtractCommand: command,
		Vendor:         strings.TrimSpace(e.Vendor),
		Checksum:       strings.TrimSpace(e.Checksum),
		SizeMB:         e.SizeMB,
	}
}

func (e catalogEntry) profile(id string) Profile {
	osValue, _ := ParseOS(e.OS)
	if osValue == "" {
		osValue = OS(strings.TrimSpace(e.OS))
	}

	p := Profile{
		ID:             id,
		FriendlyName:   strings.TrimSpace(e.FriendlyName),
		InstallPath:    strings.TrimSpace(e.InstallPath),
		BackupEnabled:  e.BackupEnabled,
		BasePath:       strings.TrimSpace(e.BasePath),
		SymlinkEnabled: e.SymlinkEnabled,
		OS:             osValue,
	}

	if p.BackupEnabled {
		p.BackupPath = strings.TrimSpace(e.BackupPath)
	}

	if p.SymlinkEnabled {
		p.SymlinkPath = strings.TrimSpace(e.SymlinkPath)
	}

	return p
}

func mergeCatalog(path string, data []byte, artifacts *orderedSet[Artifact], profiles *orderedSet[Profile]) error {
	parsedArtifacts, parsedProfiles, err := ParseCatalog(path, data)
	if err != nil {
		return err
	}

	for _, a := range parsedArtifacts {
		artifacts.put(a.ID, a)
	}

	for _, p := range parsedProfiles {
		profiles.put(p.ID, p)
	}

	return nil
}

// orderedSet keeps values keyed by id in order of first appearance.
type orderedSet[T any] struct {
	index map[string]int
	items []T
}

func newOrderedSet[T any]() *orderedSet[T] {
	return &orderedSet[T]{index: make(map[string]int)}
}

func (s *orderedSet[T]) put(id string, value T) {
	if i, ok := s.index[id]; ok {
		s.items[i] = value
		return
	}

	s.index[id] = len(s.items)
	s.items = append(s.items, value)
}

func (s *orderedSet[T]) values() []T {
	return s.items
}

// naturalLess orders ids like "installation-2" before "installation-10".
func naturalLess(a, b string) bool {
	prefixA, numA, okA := splitNumericSuffix(a)
	prefixB, numB, okB := splitNumericSuffix(b)

	if okA && okB && prefixA == prefixB {
		return numA < numB
	}

	return a < b
}

func splitNumericSuffix(id string) (string, int, bool) {
	dash := strings.LastIndex(id, "-")
	if dash < 0 || dash == len(id)-1 {
		return id, 0, false
	}

	n, err := strconv.Atoi(id[dash+1:])
	if err != nil {
		return id, 0, false
	}

	return id[:dash], n, true
}

func expandHome(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}

	if !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~\\") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, path[2:]), nil
}
