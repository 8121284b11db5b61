package catalog

import "testing"

func sampleArtifacts() []Artifact {
	return []Artifact{
		{ID: "installation-1", FriendlyName: "Java 21 Linux", Version: "21.2", OS: OSLinux, ArchivePath: "installation/java21-linux.tar.gz", Exists: true, ExtractCommand: "tar -xvzf"},
		{ID: "installation-2", FriendlyName: "Java 21 Windows", Version: "21.2", OS: OSWindows, ArchivePath: "installation/java21-win.zip", Exists: true, ExtractCommand: "unzip"},
		{ID: "installation-3", FriendlyName: "Java 8 AIX", Version: "8.0", OS: OSAIX, ArchivePath: "installation/java8-aix.tar.gz", Exists: false, ExtractCommand: "tar -xvzf"},
	}
}

func sampleProfiles() []Profile {
	return []Profile{
		{ID: "profile-1", FriendlyName: "Development Linux", InstallPath: "/opt/java", BasePath: "/opt", OS: OSLinux},
		{ID: "profile-2", FriendlyName: "Production Windows", InstallPath: `C:\Program Files\Java`, BasePath: `C:\Program Files`, OS: OSWindows},
	}
}

func TestParseOS(t *testing.T) {
	tests := map[string]OS{
		"linux":    OSLinux,
		" Windows": OSWindows,
		"AIX":      OSAIX,
	}

	for input, expected := range tests {
		got, ok := ParseOS(input)
		if !ok {
			t.Fatalf("expected %q to parse", input)
		}
		if got != expected {
			t.Fatalf("expected %q, got %q", expected, got)
		}
	}

	if _, ok := ParseOS("solaris"); ok {
		t.Fatal("expected solaris to be rejected")
	}
}

func TestDefaultExtractCommand(t *testing.T) {
	if OSWindows.DefaultExtractCommand() != "unzip" {
		t.Fatalf("expected unzip for windows, got %q", OSWindows.DefaultExtractCommand())
	}
	if OSLinux.DefaultExtractCommand() != "tar -xvzf" {
		t.Fatalf("expected tar for linux, got %q", OSLinux.DefaultExtractCommand())
	}
	if OSAIX.DefaultExtractCommand() != "tar -xvzf" {
		t.Fatalf("expected tar for aix, got %q", OSAIX.DefaultExtractCommand())
	}
}

func TestListArtifactsPreservesInsertionOrder(t *testing.T) {
	store := NewStore(sampleArtifacts(), sampleProfiles())

	artifacts := store.ListArtifacts()
	if len(artifacts) != 3 {
		t.Fatalf("expected 3 artifacts, got %d", len(artifacts))
	}

	for i, id := range []string{"installation-1", "installation-2", "installation-3"} {
		if artifacts[i].ID != id {
			t.Fatalf("expected artifact %d to be %q, got %q", i, id, artifacts[i].ID)
		}
	}
}

func TestListArtifactsReturnsSnapshot(t *testing.T) {
	store := NewStore(sampleArtifacts(), nil)

	artifacts := store.ListArtifacts()
	artifacts[0].FriendlyName = "changed"

	found, ok := store.FindArtifact("installation-1")
	if !ok {
		t.Fatal("expected installation-1 to be found")
	}
	if found.FriendlyName != "Java 21 Linux" {
		t.Fatalf("expected store to be unaffected by snapshot mutation, got %q", found.FriendlyName)
	}
}

func TestNewStoreCopiesInput(t *testing.T) {
	input := sampleArtifacts()
	store := NewStore(input, nil)

	input[0].ID = "mutated"

	if _, ok := store.FindArtifact("installation-1"); !ok {
		t.Fatal("expected store to keep its own copy of the input")
	}
}

func TestListProfiles(t *testing.T) {
	store := NewStore(nil, sampleProfiles())

	profiles := store.ListProfiles()
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].ID != "profile-1" || profiles[1].ID != "profile-2" {
		t.Fatalf("unexpected profile order: %q, %q", profiles[0].ID, profiles[1].ID)
	}
}

func TestFindArtifact(t *testing.T) {
	store := NewStore(sampleArtifacts(), nil)

	a, ok := store.FindArtifact(" installation-2 ")
	if !ok {
		t.Fatal("expected installation-2 to be found")
	}
	if a.OS != OSWindows {
		t.Fatalf("expected windows, got %q", a.OS)
	}

	if _, ok := store.FindArtifact("installation-9"); ok {
		t.Fatal("expected unknown id to be not found")
	}

	if _, ok := store.FindArtifact(""); ok {
		t.Fatal("expected empty id to be not found")
	}
}

func TestFindProfile(t *testing.T) {
	store := NewStore(nil, sampleProfiles())

	p, ok := store.FindProfile("profile-2")
	if !ok {
		t.Fatal("expected profile-2 to be found")
	}
	if p.FriendlyName != "Production Windows" {
		t.Fatalf("unexpected profile name %q", p.FriendlyName)
	}

	if _, ok := store.FindProfile("profile-7"); ok {
		t.Fatal("expected unknown profile to be not found")
	}
}

func TestDeleteArtifactRemovesEntry(t *testing.T) {
	store := NewStore(sampleArtifacts(), sampleProfiles())

	if !store.DeleteArtifact("installation-1") {
		t.Fatal("expected delete to report removal")
	}

	if _, ok := store.FindArtifact("installation-1"); ok {
		t.Fatal("expected deleted artifact to be gone")
	}

	for _, a := range store.ListArtifacts() {
		if a.ID == "installation-1" {
			t.Fatal("expected deleted artifact to be absent from list")
		}
	}

	if store.ArtifactCount() != 2 {
		t.Fatalf("expected 2 artifacts left, got %d", store.ArtifactCount())
	}

	if store.ProfileCount() != 2 {
		t.Fatalf("expected profiles to be untouched, got %d", store.ProfileCount())
	}
}

func TestDeleteArtifactUnknownIsNoop(t *testing.T) {
	store := NewStore(sampleArtifacts(), nil)

	if store.DeleteArtifact("installation-42") {
		t.Fatal("expected delete of unknown id to report no removal")
	}

	if store.ArtifactCount() != 3 {
		t.Fatalf("expected 3 artifacts, got %d", store.ArtifactCount())
	}
}

func TestDeleteArtifactDoesNotAffectEarlierSnapshot(t *testing.T) {
	store := NewStore(sampleArtifacts(), nil)
	before := store.ListArtifacts()

	store.DeleteArtifact("installation-1")

	if len(before) != 3 || before[0].ID != "installation-1" {
		t.Fatal("expected snapshot taken before delete to be unchanged")
	}
}

func TestNilStoreIsEmpty(t *testing.T) {
	var store *Store

	if len(store.ListArtifacts()) != 0 {
		t.Fatal("expected no artifacts from nil store")
	}
	if _, ok := store.FindProfile("profile-1"); ok {
		t.Fatal("expected nil store lookups to miss")
	}
	if store.DeleteArtifact("installation-1") {
		t.Fatal("expected nil store delete to be a no-op")
	}
}

func TestDisplayNames(t *testing.T) {
	a := sampleArtifacts()[0]
	if a.DisplayName() != "Java 21 Linux (21.2) - linux" {
		t.Fatalf("unexpected artifact display name %q", a.DisplayName())
	}

	p := sampleProfiles()[0]
	if p.DisplayName() != "Development Linux (linux)" {
		t.Fatalf("unexpected profile display name %q", p.DisplayName())
	}
}
