package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreagrandi/jvm-wire/internal/catalog"
)

func TestFinalizeEmptyStateUsesDefaults(t *testing.T) {
	final := Finalize(State{}, testStore(t))

	in := final.Installation
	assert.Equal(t, SourceUpload, in.Source)
	assert.Equal(t, "java-sample.tar.gz", in.Upload.FileName)
	assert.Equal(t, catalog.OSLinux, in.Upload.OS)
	assert.Equal(t, "Sample Java Installation", in.Upload.FriendlyName)
	assert.Equal(t, "tar -xvzf", in.Upload.ExtractCommand)

	re := final.RemoteExec
	assert.Equal(t, []string{"host1.example.com", "host2.example.com"}, re.Inventory)
	assert.Equal(t, "admin", re.Username)
	assert.Equal(t, catalog.OSLinux, re.OS)
	assert.Equal(t, AuthPassword, re.AuthMethod)
	assert.Equal(t, "***", re.Password)

	p := final.Profile
	assert.Equal(t, ProfileNew, p.Source)
	assert.Equal(t, "New Profile", p.New.FriendlyName)
	assert.Equal(t, "/opt/java", p.New.InstallPath)
	assert.Equal(t, "/opt", p.New.BasePath)
	assert.Empty(t, p.New.BackupPath)
	assert.Empty(t, p.New.SymlinkPath)
	assert.Equal(t, catalog.OSLinux, p.New.OS)
}

func TestFinalizeDoesNotMutateInput(t *testing.T) {
	state := State{RemoteExec: RemoteExec{Inventory: []string{"", "web1"}}}

	final := Finalize(state, testStore(t))

	assert.Equal(t, []string{"", "web1"}, state.RemoteExec.Inventory)
	assert.Equal(t, []string{"web1"}, final.RemoteExec.Inventory)
	assert.Empty(t, state.RemoteExec.Username)
}

func TestFinalizeKeepsUserAnswers(t *testing.T) {
	state := State{
		Installation: Installation{Source: SourceUpload, Upload: Upload{
			FileName: "jdk17.zip", OS: catalog.OSWindows, FriendlyName: "JDK 17", ExtractCommand: "unzip -o",
		}},
		RemoteExec: RemoteExec{Inventory: []string{"win1"}, Username: "Administrator", Password: "pw"},
		Profile: ProfileChoice{Source: ProfileNew, New: NewProfile{
			FriendlyName: "Win", InstallPath: `C:\Java`, BasePath: `C:\`, SymlinkEnabled: true, SymlinkPath: "x",
		}},
	}

	final := Finalize(state, testStore(t))

	assert.Equal(t, "unzip -o", final.Installation.Upload.ExtractCommand)
	assert.Equal(t, catalog.OSWindows, final.RemoteExec.OS)
	assert.Equal(t, "pw", final.RemoteExec.Password)
	assert.Empty(t, final.RemoteExec.AuthMethod)
	assert.False(t, final.Profile.New.SymlinkEnabled, "windows profiles never use symlinks")
	assert.Empty(t, final.Profile.New.SymlinkPath)
}

func TestFinalizeWindowsExtractDefault(t *testing.T) {
	state := State{Installation: Installation{Source: SourceUpload, Upload: Upload{OS: catalog.OSWindows}}}

	final := Finalize(state, testStore(t))
	assert.Equal(t, "unzip", final.Installation.Upload.ExtractCommand)
	assert.Equal(t, "***", final.RemoteExec.Password)
}

func TestFinalizeKeyAuthDefault(t *testing.T) {
	state := State{RemoteExec: RemoteExec{AuthMethod: AuthKey}}

	final := Finalize(state, testStore(t))
	assert.Equal(t, "***", final.RemoteExec.KeyFile)
	assert.Empty(t, final.RemoteExec.Password)
}

func TestFinalizeExistingFallsBackToFirstEntry(t *testing.T) {
	state := State{
		Installation: Installation{Source: SourceExisting, ArtifactID: "installation-42"},
		Profile:      ProfileChoice{Source: ProfileExisting},
	}

	final := Finalize(state, testStore(t))

	require.NotNil(t, final.Installation.Artifact)
	assert.Equal(t, "installation-1", final.Installation.ArtifactID)
	assert.Equal(t, "Java 21 Linux", final.Installation.Artifact.FriendlyName)

	require.NotNil(t, final.Profile.Selected)
	assert.Equal(t, "profile-1", final.Profile.ProfileID)
}

func TestFinalizeExistingWithEmptyStoreUsesNewDefaults(t *testing.T) {
	state := State{
		Installation: Installation{Source: SourceExisting, ArtifactID: "installation-1"},
		Profile:      ProfileChoice{Source: ProfileExisting, ProfileID: "profile-1"},
	}

	final := Finalize(state, catalog.NewStore(nil, nil))

	assert.Equal(t, SourceUpload, final.Installation.Source)
	assert.Nil(t, final.Installation.Artifact)
	assert.Equal(t, "Sample Java Installation", final.Installation.Upload.FriendlyName)

	assert.Equal(t, ProfileNew, final.Profile.Source)
	assert.Equal(t, "New Profile", final.Profile.New.FriendlyName)
}

func TestFinalizeOptionalPaths(t *testing.T) {
	state := State{Profile: ProfileChoice{Source: ProfileNew, New: NewProfile{
		BackupEnabled:  true,
		SymlinkEnabled: true,
	}}}

	final := Finalize(state, testStore(t))
	assert.Equal(t, "/opt/java-backup", final.Profile.New.BackupPath)
	assert.Equal(t, "/usr/bin/java", final.Profile.New.SymlinkPath)

	state.Profile.New = NewProfile{BackupPath: "/keep/out", SymlinkPath: "/also/out"}
	final = Finalize(state, testStore(t))
	assert.Empty(t, final.Profile.New.BackupPath)
	assert.Empty(t, final.Profile.New.SymlinkPath)
}

func TestFinalizeDerivesOSFromSelectedArtifact(t *testing.T) {
	store := testStore(t)
	state := State{Installation: Installation{
		Source:     SourceExisting,
		ArtifactID: "installation-3",
		Artifact:   artifactRef(t, store, "installation-3"),
	}}

	final := Finalize(state, store)
	assert.Equal(t, catalog.OSAIX, final.RemoteExec.OS)
	assert.Equal(t, catalog.OSAIX, final.Profile.New.OS)
}
