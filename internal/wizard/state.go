package wizard

import (
	"strings"

	"github.com/andreagrandi/jvm-wire/internal/catalog"
)

// InstallationSource selects between a catalog artifact and a new upload.
type InstallationSource string

const (
	SourceExisting InstallationSource = "existing"
	SourceUpload   InstallationSource = "upload"
)

// ProfileSource selects between a catalog profile and a new one.
type ProfileSource string

const (
	ProfileExisting ProfileSource = "existing"
	ProfileNew      ProfileSource = "new"
)

// AuthMethod is the credential kind used for non-Windows hosts.
type AuthMethod string

const (
	AuthKey      AuthMethod = "key"
	AuthPassword AuthMethod = "password"
)

// ParseAuthMethod converts a case-insensitive name into an AuthMethod.
func ParseAuthMethod(value string) (AuthMethod, bool) {
	switch AuthMethod(strings.ToLower(strings.TrimSpace(value))) {
	case AuthKey:
		return AuthKey, true
	case AuthPassword:
		return AuthPassword, true
	}

	return "", false
}

// Upload carries the answers for a newly uploaded archive.
type Upload struct {
	FileName       string
	OS             catalog.OS
	FriendlyName   string
	ExtractCommand string
}

// Installation holds the step 1 answers.
type Installation struct {
	Source     InstallationSource
	ArtifactID string
	// Artifact is the selected catalog entry, copied by value.
	Artifact *catalog.Artifact
	Upload   Upload
}

// RemoteExec holds the step 2 answers. OS is derived from the installation
// and never set by the user.
type RemoteExec struct {
	Inventory  []string
	Username   string
	OS         catalog.OS
	AuthMethod AuthMethod
	KeyFile    string
	Password   string
}

// NewProfile is a profile being defined in the wizard.
type NewProfile struct {
	FriendlyName   string
	InstallPath    string
	BackupEnabled  bool
	BackupPath     string
	BasePath       string
	SymlinkEnabled bool
	SymlinkPath    string
	OS             catalog.OS
}

// ProfileChoice holds the step 3 answers.
type ProfileChoice struct {
	Source    ProfileSource
	ProfileID string
	Selected  *catalog.Profile
	New       NewProfile
}

// State is the accumulated wizard answers for one session. The summary is
// never stored here; see Summarize.
type State struct {
	Installation Installation
	RemoteExec   RemoteExec
	Profile      ProfileChoice
}

// InstallationOS returns the OS implied by the installation answers,
// falling back to linux when nothing has been chosen yet.
func (s State) InstallationOS() catalog.OS {
	switch s.Installation.Source {
	case SourceExisting:
		if s.Installation.Artifact != nil && s.Installation.Artifact.OS != "" {
			return s.Installation.Artifact.OS
		}
	case SourceUpload:
		if s.Installation.Upload.OS != "" {
			return s.Installation.Upload.OS
		}
	}

	return catalog.OSLinux
}

// Windows reports whether the derived target OS is windows.
func (s State) Windows() bool {
	return s.RemoteExec.OS == catalog.OSWindows
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	cp := s

	if s.Installation.Artifact != nil {
		a := *s.Installation.Artifact
		cp.Installation.Artifact = &a
	}

	if s.RemoteExec.Inventory != nil {
		cp.RemoteExec.Inventory = append([]string(nil), s.RemoteExec.Inventory...)
	}

	if s.Profile.Selected != nil {
		p := *s.Profile.Selected
		cp.Profile.Selected = &p
	}

	return cp
}

// deriveOS copies the installation OS into the dependent forms.
func (s *State) deriveOS() {
	osValue := s.InstallationOS()
	s.RemoteExec.OS = osValue
	s.Profile.New.OS = osValue
}

// ResolvedProfile returns the profile the answers point to, either the
// selected catalog entry or the new profile definition.
func (p ProfileChoice) ResolvedProfile() (catalog.Profile, bool) {
	switch p.Source {
	case ProfileExisting:
		if p.Selected == nil {
			return catalog.Profile{}, false
		}

		return *p.Selected, true
	case ProfileNew:
		return catalog.Profile{
			FriendlyName:   p.New.FriendlyName,
			InstallPath:    p.New.InstallPath,
			BackupEnabled:  p.New.BackupEnabled,
			BackupPath:     p.New.BackupPath,
			BasePath:       p.New.BasePath,
			SymlinkEnabled: p.New.SymlinkEnabled,
			SymlinkPath:    p.New.SymlinkPath,
			OS:             p.New.OS,
		}, true
	}

	return catalog.Profile{}, false
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
