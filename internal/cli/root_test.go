package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreagrandi/jvm-wire/internal/app"
	"github.com/andreagrandi/jvm-wire/internal/tui"
	"github.com/andreagrandi/jvm-wire/internal/wizard"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{
			name:     "version flag",
			args:     []string{"--version"},
			contains: "jvm-wire version " + app.Version,
		},
		{
			name:     "help flag",
			args:     []string{"--help"},
			contains: "jvm-wire",
		},
		{
			name:     "install help",
			args:     []string{"install", "--help"},
			contains: "--answers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := executeRootCommand(t, tt.args...)
			assert.NoError(t, err)
			assert.Contains(t, output, tt.contains)
		})
	}
}

func TestRootCommandUsesTUIWhenEnabled(t *testing.T) {
	testEnv(t)
	isInteractive = func(*cobra.Command) bool { return true }

	original := runTUI
	t.Cleanup(func() { runTUI = original })

	var got tui.Options
	runTUI = func(session *wizard.Session, opts tui.Options) error {
		got = opts
		assert.Equal(t, wizard.StepInstallation, session.Step())
		return nil
	}

	_, err := executeRootCommand(t, "feature", "enable", "tui")
	require.NoError(t, err)

	_, err = executeRootCommand(t)
	require.NoError(t, err)

	assert.Equal(t, app.Version, got.Version)
	assert.NotNil(t, got.Sequencer)
	assert.NotNil(t, got.InspectKey)
}

func TestRootCommandFallsBackToPlainPrompts(t *testing.T) {
	testEnv(t)

	original := runTUI
	t.Cleanup(func() { runTUI = original })
	runTUI = func(*wizard.Session, tui.Options) error {
		t.Fatal("TUI must not start without a terminal")
		return nil
	}

	_, err := executeRootCommand(t, "feature", "enable", "tui")
	require.NoError(t, err)

	output, err := executeRootCommandWithInput(t, "")
	assert.Error(t, err)
	assert.Contains(t, output, "Step 1/4: Installation")
}
