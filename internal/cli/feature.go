package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func init() {
	featureCmd := &cobra.Command{
		Use:   "feature",
		Short: "Manage feature flags",
		Long: `Feature flags are kept in ~/.config/jvm-wire/config.json.

  tui          full-screen terminal UI for the guided wizard
  ssh-import   offer hosts from ~/.ssh/config on the remote execution step`,
	}

	featureCmd.AddCommand(newFeatureToggleCmd("enable", "Enable a feature flag", true))
	featureCmd.AddCommand(newFeatureToggleCmd("disable", "Disable a feature flag", false))
	featureCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all feature flags and their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listFeatures(cmd.OutOrStdout())
		},
	})
	rootCmd.AddCommand(featureCmd)
}

func newFeatureToggleCmd(verb, short string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <feature>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if err := cfg.SetFeature(args[0], enabled); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Feature %q %sd.\n", args[0], verb)
			return nil
		},
	}
}

func listFeatures(output io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	features := cfg.Features()
	if len(features) == 0 {
		fmt.Fprintln(output, "No feature flags available.")
		return nil
	}

	fmt.Fprintln(output, "Feature flags:")
	fmt.Fprintln(output)

	width := 0
	for _, f := range features {
		width = max(width, len(f.Name))
	}

	for _, f := range features {
		status := "disabled"
		if f.Enabled {
			status = "enabled"
		}

		fmt.Fprintf(output, "  %-*s  %-8s  %s\n", width, f.Name, status, f.Description)
	}

	return nil
}
