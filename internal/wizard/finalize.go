package wizard

import (
	"strings"

	"github.com/andreagrandi/jvm-wire/internal/catalog"
)

// Defaults applied by Finalize to answers left blank.
const (
	DefaultUploadFileName     = "java-sample.tar.gz"
	DefaultUploadOS           = catalog.OSLinux
	DefaultUploadFriendlyName = "Sample Java Installation"
	DefaultUsername           = "admin"
	DefaultAuthMethod         = AuthPassword
	PlaceholderSecret         = "***"
	DefaultProfileName        = "New Profile"
	DefaultInstallPath        = "/opt/java"
	DefaultBasePath           = "/opt"
	DefaultBackupPath         = "/opt/java-backup"
	DefaultSymlinkPath        = "/usr/bin/java"
)

// DefaultInventory is used when no hosts were entered.
var DefaultInventory = []string{"host1.example.com", "host2.example.com"}

// Finalize returns a copy of state with every blank answer replaced by its
// default. Selections that no longer resolve against the store fall back to
// the first catalog entry.
func Finalize(state State, store *catalog.Store) State {
	s := state.Clone()

	finalizeInstallation(&s.Installation, store)
	s.deriveOS()
	finalizeRemoteExec(&s.RemoteExec)
	finalizeProfile(&s.Profile, s.RemoteExec.OS, store)

	return s
}

func finalizeInstallation(in *Installation, store *catalog.Store) {
	if in.Source == "" {
		in.Source = SourceUpload
	}

	if in.Source == SourceExisting {
		artifact, ok := store.FindArtifact(in.ArtifactID)
		if !ok {
			artifacts := store.ListArtifacts()
			if len(artifacts) > 0 {
				artifact, ok = artifacts[0], true
			}
		}

		if ok {
			in.ArtifactID = artifact.ID
			in.Artifact = &artifact
			return
		}

		in.Source = SourceUpload
		in.ArtifactID = ""
		in.Artifact = nil
	}

	up := &in.Upload
	if isBlank(up.FileName) {
		up.FileName = DefaultUploadFileName
	}
	if up.OS == "" {
		up.OS = DefaultUploadOS
	}
	if isBlank(up.FriendlyName) {
		up.FriendlyName = DefaultUploadFriendlyName
	}
	if isBlank(up.ExtractCommand) {
		up.ExtractCommand = up.OS.DefaultExtractCommand()
	}
}

func finalizeRemoteExec(re *RemoteExec) {
	hosts := compactHosts(re.Inventory)
	if len(hosts) == 0 {
		hosts = append([]string(nil), DefaultInventory...)
	}
	re.Inventory = hosts

	if isBlank(re.Username) {
		re.Username = DefaultUsername
	}

	if re.OS == catalog.OSWindows {
		if isBlank(re.Password) {
			re.Password = PlaceholderSecret
		}
		return
	}

	if re.AuthMethod == "" {
		re.AuthMethod = DefaultAuthMethod
	}

	switch re.AuthMethod {
	case AuthKey:
		if isBlank(re.KeyFile) {
			re.KeyFile = PlaceholderSecret
		}
	case AuthPassword:
		if isBlank(re.Password) {
			re.Password = PlaceholderSecret
		}
	}
}

func finalizeProfile(p *ProfileChoice, osValue catalog.OS, store *catalog.Store) {
	if p.Source == "" {
		p.Source = ProfileNew
	}

	if p.Source == ProfileExisting {
		profile, ok := store.FindProfile(p.ProfileID)
		if !ok {
			profiles := store.ListProfiles()
			if len(profiles) > 0 {
				profile, ok = profiles[0], true
			}
		}

		if ok {
			p.ProfileID = profile.ID
			p.Selected = &profile
			return
		}

		p.Source = ProfileNew
		p.ProfileID = ""
		p.Selected = nil
	}

	np := &p.New
	np.OS = osValue

	if isBlank(np.FriendlyName) {
		np.FriendlyName = DefaultProfileName
	}
	if isBlank(np.InstallPath) {
		np.InstallPath = DefaultInstallPath
	}
	if isBlank(np.BasePath) {
		np.BasePath = DefaultBasePath
	}

	if np.BackupEnabled && isBlank(np.BackupPath) {
		np.BackupPath = DefaultBackupPath
	}
	if !np.BackupEnabled {
		np.BackupPath = ""
	}

	// Windows hosts have no symlink step.
	if np.OS == catalog.OSWindows {
		np.SymlinkEnabled = false
	}
	if np.SymlinkEnabled && isBlank(np.SymlinkPath) {
		np.SymlinkPath = DefaultSymlinkPath
	}
	if !np.SymlinkEnabled {
		np.SymlinkPath = ""
	}
}

func compactHosts(hosts []string) []string {
	var out []string
	for _, h := range hosts {
		if isBlank(h) {
			continue
		}
		out = append(out, strings.TrimSpace(h))
	}

	return out
}
