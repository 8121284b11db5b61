package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreagrandi/jvm-wire/internal/credential"
	"github.com/andreagrandi/jvm-wire/internal/inventory"
	"github.com/andreagrandi/jvm-wire/internal/progress"
)

const linuxAnswers = `installation:
  source: existing
  artifact: installation-1
remote_exec:
  inventory:
    - web1.example.com
    - web2.example.com
  username: deploy
  auth_method: password
profile:
  source: existing
  id: profile-1
`

func writeAnswers(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInstallDryRunWritesPlan(t *testing.T) {
	testEnv(t)
	t.Setenv(credential.SSHPassword, "s3cret")

	answers := writeAnswers(t, linuxAnswers)
	planPath := filepath.Join(t.TempDir(), "out", "plan.yaml")

	output, err := executeRootCommand(t, "install", "--answers", answers, "--dry-run", "--plan-out", planPath)
	require.NoError(t, err)

	assert.Contains(t, output, "Installation Details")
	assert.Contains(t, output, "Java 21 Linux")
	assert.Contains(t, output, "2 host(s)")
	assert.Contains(t, output, "Development Linux")
	assert.Contains(t, output, "Plan written to "+planPath)
	assert.Contains(t, output, "Dry run: nothing was installed.")
	assert.NotContains(t, output, progress.CompletionMessage(2))
	assert.NotContains(t, output, "s3cret")

	data, err := os.ReadFile(planPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "java_hosts")
	assert.Contains(t, string(data), "web1.example.com: {}")
	assert.Contains(t, string(data), "<redacted>")
	assert.NotContains(t, string(data), "s3cret")
}

func TestInstallWithYesRunsAllStages(t *testing.T) {
	testEnv(t)
	t.Setenv(credential.SSHPassword, "s3cret")

	output, err := executeRootCommand(t, "install", "--answers", writeAnswers(t, linuxAnswers), "--yes")
	require.NoError(t, err)

	for _, stage := range progress.DefaultStages {
		assert.Contains(t, output, stage)
	}
	assert.Contains(t, output, "100%")
	assert.Contains(t, output, progress.CompletionMessage(2))
}

func TestInstallAsksForConfirmation(t *testing.T) {
	testEnv(t)
	answers := writeAnswers(t, linuxAnswers)

	_, err := executeRootCommand(t, "credentials", "set", credential.SSHPassword, "--value", "s3cret")
	require.NoError(t, err)

	output, err := executeRootCommandWithInput(t, "n\n", "install", "--answers", answers)
	require.NoError(t, err)
	assert.Contains(t, output, "Start the installation?")
	assert.Contains(t, output, "Installation cancelled.")
	assert.NotContains(t, output, progress.CompletionMessage(2))

	output, err = executeRootCommandWithInput(t, "yes\n", "install", "--answers", answers)
	require.NoError(t, err)
	assert.Contains(t, output, progress.CompletionMessage(2))
}

func TestInstallConfirmationNeedsInput(t *testing.T) {
	testEnv(t)
	t.Setenv(credential.SSHPassword, "s3cret")

	_, err := executeRootCommand(t, "install", "--answers", writeAnswers(t, linuxAnswers))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

func TestInstallIncompleteAnswers(t *testing.T) {
	testEnv(t)

	answers := writeAnswers(t, `installation:
  source: existing
  artifact: installation-3
profile:
  source: existing
  id: profile-1
`)

	_, err := executeRootCommand(t, "install", "--answers", answers, "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1 (Installation) are incomplete")
}

func TestInstallUnknownAnswersKey(t *testing.T) {
	testEnv(t)

	_, err := executeRootCommand(t, "install", "--answers", writeAnswers(t, "installation:\n  sauce: existing\n"), "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse answers file")
}

func TestInstallDryRunRequiresAnswers(t *testing.T) {
	testEnv(t)

	_, err := executeRootCommand(t, "install", "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "require --answers")
}

func TestInstallResolvesSSHConfigHosts(t *testing.T) {
	testEnv(t)
	loadSSHHosts = func() ([]inventory.SSHHost, error) {
		return []inventory.SSHHost{{Alias: "bastion", Hostname: "10.0.0.1", Port: 22}}, nil
	}
	t.Setenv(credential.SSHKeyFile, "/keys/id_ed25519")

	answers := writeAnswers(t, `installation:
  source: existing
  artifact: installation-1
remote_exec:
  ssh_config_hosts: [bastion]
  username: deploy
  auth_method: key
profile:
  source: existing
  id: profile-1
`)

	output, err := executeRootCommand(t, "install", "--answers", answers, "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, output, "10.0.0.1")
	assert.Contains(t, output, "/keys/id_ed25519 (ssh-ed25519, SHA256:test)")
}

func TestInstallSkipsSSHImportWhenDisabled(t *testing.T) {
	testEnv(t)
	t.Setenv(credential.SSHPassword, "s3cret")
	loadSSHHosts = func() ([]inventory.SSHHost, error) {
		t.Fatal("ssh config must not be read when the feature is off")
		return nil, nil
	}

	_, err := executeRootCommand(t, "feature", "disable", "ssh-import")
	require.NoError(t, err)

	_, err = executeRootCommand(t, "install", "--answers", writeAnswers(t, linuxAnswers), "--dry-run")
	require.NoError(t, err)
}
