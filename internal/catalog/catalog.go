package catalog

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when an artifact or profile id has no match.
var ErrNotFound = errors.New("not found")

// OS identifies the operating system an artifact or profile targets.
type OS string

const (
	OSLinux   OS = "linux"
	OSWindows OS = "windows"
	OSAIX     OS = "aix"
)

// KnownOS lists the supported operating systems in display order.
var KnownOS = []OS{OSLinux, OSWindows, OSAIX}

// ParseOS converts a case-insensitive name into an OS.
func ParseOS(value string) (OS, bool) {
	normalized := OS(strings.ToLower(strings.TrimSpace(value)))
	for _, os := range KnownOS {
		if os == normalized {
			return os, true
		}
	}

	return "", false
}

// Label returns a human-friendly name for the OS.
func (o OS) Label() string {
	switch o {
	case OSLinux:
		return "Linux"
	case OSWindows:
		return "Windows"
	case OSAIX:
		return "AIX"
	default:
		return string(o)
	}
}

// DefaultExtractCommand returns the command used to unpack archives built
// for the OS.
func (o OS) DefaultExtractCommand() string {
	if o == OSWindows {
		return "unzip"
	}

	return "tar -xvzf"
}

// Artifact is an installable, versioned Java package tied to one OS.
type Artifact struct {
	ID             string
	FriendlyName   string
	Version        string
	OS             OS
	ArchivePath    string
	Exists         bool
	ExtractCommand string

	Vendor   string
	Checksum string
	SizeMB   int
}

// DisplayName returns the label used in selection lists.
func (a Artifact) DisplayName() string {
	return a.FriendlyName + " (" + a.Version + ") - " + string(a.OS)
}

// Profile is a named deployment configuration tied to one OS.
type Profile struct {
	ID             string
	FriendlyName   string
	InstallPath    string
	BackupEnabled  bool
	BackupPath     string
	BasePath       string
	SymlinkEnabled bool
	SymlinkPath    string
	OS             OS
}

// DisplayName returns the label used in selection lists.
func (p Profile) DisplayName() string {
	return p.FriendlyName + " (" + string(p.OS) + ")"
}

// Store holds the in-memory artifact and profile collections for one
// process. Deletions are not persisted.
type Store struct {
	artifacts []Artifact
	profiles  []Profile
}

// NewStore creates a store seeded with the given entries, keeping their order.
func NewStore(artifacts []Artifact, profiles []Profile) *Store {
	a := make([]Artifact, len(artifacts))
	copy(a, artifacts)

	p := make([]Profile, len(profiles))
	copy(p, profiles)

	return &Store{artifacts: a, profiles: p}
}

// ListArtifacts returns a snapshot of all artifacts in insertion order.
func (s *Store) ListArtifacts() []Artifact {
	if s == nil {
		return nil
	}

	cp := make([]Artifact, len(s.artifacts))
	copy(cp, s.artifacts)
	return cp
}

// ListProfiles returns a snapshot of all profiles in insertion order.
func (s *Store) ListProfiles() []Profile {
	if s == nil {
		return nil
	}

	cp := make([]Profile, len(s.profiles))
	copy(cp, s.profiles)
	return cp
}

// FindArtifact looks up an artifact by id.
func (s *Store) FindArtifact(id string) (Artifact, bool) {
	if s == nil {
		return Artifact{}, false
	}

	target := strings.TrimSpace(id)
	if target == "" {
		return Artifact{}, false
	}

	for _, a := range s.artifacts {
		if a.ID == target {
			return a, true
		}
	}

	return Artifact{}, false
}

// FindProfile looks up a profile by id.
func (s *Store) FindProfile(id string) (Profile, bool) {
	if s == nil {
		return Profile{}, false
	}

	target := strings.TrimSpace(id)
	if target == "" {
		return Profile{}, false
	}

	for _, p := range s.profiles {
		if p.ID == target {
			return p, true
		}
	}

	return Profile{}, false
}

// DeleteArtifact removes the artifact with the given id and reports whether
// anything was removed. Unknown ids are a no-op.
func (s *Store) DeleteArtifact(id string) bool {
	if s == nil {
		return false
	}

	target := strings.TrimSpace(id)
	for i, a := range s.artifacts {
		if a.ID != target {
			continue
		}

		s.artifacts = append(s.artifacts[:i:i], s.artifacts[i+1:]...)
		return true
	}

	return false
}

// ArtifactCount returns the number of artifacts in the store.
func (s *Store) ArtifactCount() int {
	if s == nil {
		return 0
	}

	return len(s.artifacts)
}

// ProfileCount returns the number of profiles in the store.
func (s *Store) ProfileCount() int {
	if s == nil {
		return 0
	}

	return len(s.profiles)
}
