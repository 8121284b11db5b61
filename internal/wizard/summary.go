package wizard

import (
	"fmt"
	"strings"

	"github.com/andreagrandi/jvm-wire/internal/catalog"
)

// Summary is the review-step projection of a finalized State.
type Summary struct {
	Installation InstallationSummary
	RemoteExec   RemoteExecSummary
	Profile      ProfileSummary
	Warnings     []string
}

// InstallationSummary describes the chosen artifact or upload.
type InstallationSummary struct {
	Source         InstallationSource
	SourceLabel    string
	Name           string
	Version        string
	OS             catalog.OS
	ExtractCommand string
	ArchivePath    string
	ArchiveMissing bool
}

// RemoteExecSummary describes the target hosts and login.
type RemoteExecSummary struct {
	HostCount int
	Hosts     []string
	Username  string
	OS        catalog.OS
	AuthLabel string
}

// ProfileSummary describes the deployment profile. Paths for disabled
// features are always empty.
type ProfileSummary struct {
	Source         ProfileSource
	Name           string
	InstallPath    string
	BasePath       string
	BackupEnabled  bool
	BackupPath     string
	SymlinkEnabled bool
	SymlinkPath    string
	OS             catalog.OS
}

// Section is a titled group of summary rows.
type Section struct {
	Title string
	Items []Item
}

// Item is one labelled summary row.
type Item struct {
	Label string
	Value string
}

// Summarize projects state into a Summary. It does not fill defaults;
// call Finalize first.
func Summarize(state State) Summary {
	var s Summary

	in := state.Installation
	s.Installation.Source = in.Source
	if in.Source == SourceExisting {
		s.Installation.SourceLabel = "Existing Configuration"
		if in.Artifact != nil {
			s.Installation.Name = in.Artifact.FriendlyName
			s.Installation.Version = in.Artifact.Version
			s.Installation.OS = in.Artifact.OS
			s.Installation.ExtractCommand = in.Artifact.ExtractCommand
			s.Installation.ArchivePath = in.Artifact.ArchivePath
			s.Installation.ArchiveMissing = !in.Artifact.Exists
		}
	} else {
		s.Installation.SourceLabel = "New Upload"
		s.Installation.Name = in.Upload.FriendlyName
		s.Installation.OS = in.Upload.OS
		s.Installation.ExtractCommand = in.Upload.ExtractCommand
		s.Installation.ArchivePath = in.Upload.FileName
	}

	re := state.RemoteExec
	s.RemoteExec.Hosts = append([]string(nil), re.Inventory...)
	s.RemoteExec.HostCount = len(re.Inventory)
	s.RemoteExec.Username = re.Username
	s.RemoteExec.OS = re.OS
	s.RemoteExec.AuthLabel = authLabel(re)

	if p, ok := state.Profile.ResolvedProfile(); ok {
		s.Profile = ProfileSummary{
			Source:         state.Profile.Source,
			Name:           p.FriendlyName,
			InstallPath:    p.InstallPath,
			BasePath:       p.BasePath,
			BackupEnabled:  p.BackupEnabled,
			SymlinkEnabled: p.SymlinkEnabled,
			OS:             p.OS,
		}
		if p.BackupEnabled {
			s.Profile.BackupPath = p.BackupPath
		}
		if p.SymlinkEnabled {
			s.Profile.SymlinkPath = p.SymlinkPath
		}
	}

	if s.Installation.ArchiveMissing {
		s.Warnings = append(s.Warnings, fmt.Sprintf("installation archive %q is missing", s.Installation.ArchivePath))
	}

	if s.Profile.OS != "" && s.Installation.OS != "" && s.Profile.OS != s.Installation.OS {
		s.Warnings = append(s.Warnings, fmt.Sprintf("profile %q targets %s but the installation targets %s",
			s.Profile.Name, s.Profile.OS.Label(), s.Installation.OS.Label()))
	}

	return s
}

func authLabel(re RemoteExec) string {
	if re.OS == catalog.OSWindows {
		return "password (WinRM)"
	}

	if re.AuthMethod == "" {
		return string(DefaultAuthMethod)
	}

	return string(re.AuthMethod)
}

// Sections returns the summary as display rows grouped like the review
// screen.
func (s Summary) Sections() []Section {
	installation := Section{Title: "Installation Details"}
	installation.add("Source", s.Installation.SourceLabel)
	installation.add("Name", s.Installation.Name)
	if s.Installation.Version != "" {
		installation.add("Version", s.Installation.Version)
	}
	installation.add("OS", string(s.Installation.OS))
	installation.add("Command", s.Installation.ExtractCommand)
	installation.add("Archive", s.Installation.ArchivePath)

	remote := Section{Title: "Remote Execution"}
	remote.add("Hosts", fmt.Sprintf("%d host(s)", s.RemoteExec.HostCount))
	remote.add("Inventory", strings.Join(s.RemoteExec.Hosts, ", "))
	remote.add("Username", s.RemoteExec.Username)
	remote.add("Auth Method", s.RemoteExec.AuthLabel)

	profile := Section{Title: "Installation Profile"}
	profile.add("Profile", s.Profile.Name)
	profile.add("Install Path", s.Profile.InstallPath)
	profile.add("Base Path", s.Profile.BasePath)
	profile.add("Backup", yesNo(s.Profile.BackupEnabled))
	if s.Profile.BackupEnabled {
		profile.add("Backup Path", s.Profile.BackupPath)
	}
	if s.Profile.SymlinkEnabled {
		profile.add("Symlink", s.Profile.SymlinkPath)
	}

	return []Section{installation, remote, profile}
}

func (s *Section) add(label, value string) {
	s.Items = append(s.Items, Item{Label: label, Value: value})
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}

	return "No"
}
