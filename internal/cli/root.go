package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreagrandi/jvm-wire/internal/app"
	"github.com/andreagrandi/jvm-wire/internal/config"
	"github.com/andreagrandi/jvm-wire/internal/logger"
	"github.com/andreagrandi/jvm-wire/internal/tui"
	"github.com/andreagrandi/jvm-wire/internal/wizard"
)

var rootCmd = &cobra.Command{
	Use:   "jvm-wire",
	Short: "Plan and run Java installations on remote hosts",
	Long: `jvm-wire walks you through a Java installation in four steps:
pick an installation artifact, describe the target hosts and how to reach them,
choose a deployment profile, then review and start.

Artifacts and profiles come from TOML catalogs. Run without arguments for the
guided wizard, or use "jvm-wire install --answers file.yaml" for scripted runs.`,
	Version:       app.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runGuidedWizard(cmd)
	},
}

func init() {
	rootCmd.SetVersionTemplate(app.New().GetFullVersion() + "\n")
}

// Execute runs the root command. An interrupt cancels the command context,
// which stops a running installation between stages.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer func() { _ = logger.Close() }()

	return rootCmd.ExecuteContext(ctx)
}

// runGuidedWizard picks the richest front end the terminal supports.
func runGuidedWizard(cmd *cobra.Command) error {
	interactive := isInteractive(cmd)

	env, err := loadEnvironment(true)
	if err != nil {
		return err
	}

	session := wizard.NewSession(env.store)

	if interactive && env.cfg.IsFeatureEnabled(config.FeatureTUI) {
		return runTUI(session, tui.Options{
			Version:    app.Version,
			Sequencer:  newSequencer(env.cfg),
			SSHHosts:   env.sshHosts,
			InspectKey: inspectKey,
		})
	}

	var p prompter
	if interactive {
		p = newSurveyPrompter(cmd)
	} else {
		p = newPlainPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	return newGuidedRun(cmd, env, session, p).run()
}

func readTrimmedLine(reader *bufio.Reader, output io.Writer, prompt string) (string, error) {
	fmt.Fprint(output, prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		if len(strings.TrimSpace(line)) == 0 {
			return "", err
		}
	}

	return strings.TrimSpace(line), nil
}
