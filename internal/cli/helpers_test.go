package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/andreagrandi/jvm-wire/internal/config"
	"github.com/andreagrandi/jvm-wire/internal/credential"
	"github.com/andreagrandi/jvm-wire/internal/inventory"
	"github.com/andreagrandi/jvm-wire/internal/progress"
)

// testEnv points every package-level dependency at temporary files and
// returns the config path.
func testEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	credentialsPath := filepath.Join(dir, "credentials")

	originalLoadConfig := loadConfig
	originalInitLogging := initLogging
	originalFileSource := newCredentialFileSource
	originalSequencer := newSequencer
	originalSSHHosts := loadSSHHosts
	originalInspectKey := inspectKey
	originalInteractive := isInteractive
	t.Cleanup(func() {
		loadConfig = originalLoadConfig
		initLogging = originalInitLogging
		newCredentialFileSource = originalFileSource
		newSequencer = originalSequencer
		loadSSHHosts = originalSSHHosts
		inspectKey = originalInspectKey
		isInteractive = originalInteractive
	})

	loadConfig = func() (*config.Config, error) {
		return config.LoadFrom(configPath)
	}
	initLogging = func(bool, string) {}
	newCredentialFileSource = func() *credential.FileSource {
		return credential.NewFileSource(credentialsPath)
	}
	newSequencer = func(*config.Config) *progress.Sequencer {
		return progress.New(progress.WithDelay(progress.NoDelay))
	}
	loadSSHHosts = func() ([]inventory.SSHHost, error) { return nil, nil }
	inspectKey = func(path string) (credential.KeyInfo, error) {
		return credential.KeyInfo{Path: path, Type: "ssh-ed25519", Fingerprint: "SHA256:test"}, nil
	}
	isInteractive = func(*cobra.Command) bool { return false }

	for name := range credential.Known {
		t.Setenv(name, "")
	}

	return configPath
}

func executeRootCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	return executeRootCommandWithInput(t, "", args...)
}

func executeRootCommandWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	resetFlags(rootCmd)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs([]string{})
		rootCmd.SetIn(nil)
	})

	err := rootCmd.Execute()
	output := stdout.String() + stderr.String()

	return output, err
}

// resetFlags restores flag defaults between executions of the shared root
// command.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})

	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
