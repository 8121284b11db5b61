package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/andreagrandi/jvm-wire/internal/logger"
	"github.com/andreagrandi/jvm-wire/internal/progress"
	"github.com/andreagrandi/jvm-wire/internal/wizard"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	stageColor   = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.Faint)
)

// printSummary writes the review sections. keyLine, when set, is shown
// under the remote execution section.
func printSummary(out io.Writer, summary wizard.Summary, keyLine string) {
	for _, section := range summary.Sections() {
		fmt.Fprintln(out)
		headingColor.Fprintln(out, section.Title)

		width := 0
		for _, item := range section.Items {
			width = max(width, len(item.Label))
		}

		for _, item := range section.Items {
			fmt.Fprintf(out, "  %-*s  %s\n", width, item.Label+":", item.Value)
		}

		if section.Title == "Remote Execution" && keyLine != "" {
			fmt.Fprintf(out, "  %-*s  %s\n", width, "Key:", keyLine)
		}
	}

	if len(summary.Warnings) > 0 {
		fmt.Fprintln(out)
		for _, w := range summary.Warnings {
			warningColor.Fprintf(out, "[!] %s\n", w)
		}
	}

	fmt.Fprintln(out)
}

// describeKey inspects the SSH key of a finalized state. It returns "" when
// the hosts are not reached with a key.
func describeKey(final wizard.State) string {
	re := final.RemoteExec
	if final.Windows() || re.AuthMethod != wizard.AuthKey || re.KeyFile == "" {
		return ""
	}

	info, err := inspectKey(re.KeyFile)
	if err != nil {
		logger.Warn("ssh key inspection failed", "path", re.KeyFile, "error", err)
		return fmt.Sprintf("%s (unreadable: %v)", re.KeyFile, err)
	}

	return info.String()
}

// runInstallation runs seq and prints one line per stage. With animate set
// a spinner runs while each stage works.
func runInstallation(ctx context.Context, out io.Writer, seq *progress.Sequencer, hosts []string, animate bool) error {
	var s *spinner.Spinner
	if animate {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
		_ = s.Color("cyan")
	}

	stop := func() {
		if s != nil {
			s.Stop()
		}
	}

	headingColor.Fprintf(out, "Installing Java on %d host(s)\n", len(hosts))

	completion, err := seq.Run(ctx, hosts, progress.Observer{
		OnUpdate: func(u progress.Update) {
			stop()
			stageColor.Fprintf(out, "%3d%% ", u.Percent())
			fmt.Fprintln(out, u.Line)

			if s != nil && !u.Terminal {
				s.Suffix = " " + dimColor.Sprint(u.Stage)
				s.Start()
			}
		},
	})
	stop()

	if err != nil {
		errorColor.Fprintf(out, "Installation failed: %v\n", err)
		return fmt.Errorf("run installation: %w", err)
	}

	fmt.Fprintln(out)
	successColor.Fprintln(out, completion.Message)
	return nil
}
