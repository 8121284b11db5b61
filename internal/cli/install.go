package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreagrandi/jvm-wire/internal/plan"
	"github.com/andreagrandi/jvm-wire/internal/wizard"
)

var loadAnswers = plan.LoadAnswers

type installOptions struct {
	answersPath string
	planOut     string
	dryRun      bool
	yes         bool
}

func init() {
	rootCmd.AddCommand(newInstallCmd())
}

func newInstallCmd() *cobra.Command {
	var opts installOptions

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install Java on remote hosts",
		Long: `Without --answers, install starts the guided wizard.

With --answers, the wizard is filled from a YAML answers file, its summary is
printed, and the installation starts after confirmation. Missing passwords and
key files are looked up in the environment and the credentials file.`,
		Example: "  jvm-wire install\n" +
			"  jvm-wire install --answers answers.yaml --dry-run --plan-out plan.yaml\n" +
			"  jvm-wire install --answers answers.yaml --yes",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.answersPath) == "" {
				if cmd.Flags().Changed("dry-run") || cmd.Flags().Changed("plan-out") {
					return errors.New("--dry-run and --plan-out require --answers")
				}

				return runGuidedWizard(cmd)
			}

			return runInstallFromAnswers(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.answersPath, "answers", "", "Read wizard answers from a YAML file")
	cmd.Flags().StringVar(&opts.planOut, "plan-out", "", "Write the installation plan YAML to this path")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the summary without installing")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Start without asking for confirmation")

	return cmd
}

func runInstallFromAnswers(cmd *cobra.Command, opts installOptions) error {
	out := cmd.OutOrStdout()

	env, err := loadEnvironment(false)
	if err != nil {
		return err
	}

	answers, err := loadAnswers(opts.answersPath)
	if err != nil {
		return err
	}

	session := wizard.NewSession(env.store)
	if err := answers.Apply(session, plan.ApplyOptions{Secrets: env.secrets, SSHHosts: env.sshHosts}); err != nil {
		return err
	}

	if err := walkToSummary(session); err != nil {
		return err
	}

	summary, _ := session.Summary()
	final, _ := session.Finalized()
	printSummary(out, summary, describeKey(final))

	seq := newSequencer(env.cfg)

	if opts.planOut != "" {
		if err := plan.Build(final, seq.Stages).WriteFile(opts.planOut); err != nil {
			return fmt.Errorf("write plan %q: %w", opts.planOut, err)
		}
		fmt.Fprintf(out, "Plan written to %s\n", opts.planOut)
	}

	if opts.dryRun {
		fmt.Fprintln(out, "Dry run: nothing was installed.")
		return nil
	}

	if !opts.yes {
		confirmed, err := confirmPrompter(cmd).Confirm("Start the installation?", false)
		if err != nil {
			if errors.Is(err, errCancelled) || errors.Is(err, errBack) {
				fmt.Fprintln(out, "Installation cancelled.")
				return nil
			}
			return fmt.Errorf("read confirmation (use --yes to skip): %w", err)
		}
		if !confirmed {
			fmt.Fprintln(out, "Installation cancelled.")
			return nil
		}
	}

	events, err := session.Dispatch(wizard.RequestStart{})
	if err != nil {
		return fmt.Errorf("start installation: %w", err)
	}

	for _, ev := range events {
		if req, ok := ev.(wizard.StartRequested); ok {
			return runInstallation(cmd.Context(), out, seq, req.Hosts, isInteractive(cmd))
		}
	}

	return errors.New("start installation: no start event")
}

// walkToSummary advances a filled session to the review step, failing on
// the first incomplete step.
func walkToSummary(session *wizard.Session) error {
	for session.Step() != wizard.StepSummary {
		step := session.Step()

		_, err := session.Dispatch(wizard.RequestAdvance{})
		var verr *wizard.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("answers for step %d (%s) are incomplete: missing %s", int(step), step, strings.Join(verr.Missing, ", "))
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func confirmPrompter(cmd *cobra.Command) prompter {
	if isInteractive(cmd) {
		return newSurveyPrompter(cmd)
	}

	return newPlainPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}
