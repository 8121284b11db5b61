package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreagrandi/jvm-wire/internal/catalog"
)

func init() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog artifacts and profiles",
	}

	listCmd.AddCommand(newListArtifactsCmd())
	listCmd.AddCommand(newListProfilesCmd())
	rootCmd.AddCommand(listCmd)
}

func newListArtifactsCmd() *cobra.Command {
	var osName string

	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "List installation artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := parseOSFilter(osName)
			if err != nil {
				return err
			}

			store, err := loadCatalogStore()
			if err != nil {
				return err
			}

			printArtifactsList(cmd.OutOrStdout(), store.ListArtifacts(), filter)
			return nil
		},
	}

	cmd.Flags().StringVar(&osName, "os", "", "Only show entries for this OS (linux, windows, aix)")
	return cmd
}

func newListProfilesCmd() *cobra.Command {
	var osName string

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List deployment profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := parseOSFilter(osName)
			if err != nil {
				return err
			}

			store, err := loadCatalogStore()
			if err != nil {
				return err
			}

			printProfilesList(cmd.OutOrStdout(), store.ListProfiles(), filter)
			return nil
		},
	}

	cmd.Flags().StringVar(&osName, "os", "", "Only show entries for this OS (linux, windows, aix)")
	return cmd
}

// loadCatalogStore loads the bundled catalog plus the configured one.
func loadCatalogStore() (*catalog.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	store, err := loadStore(cfg.CatalogPath())
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return store, nil
}

func parseOSFilter(value string) (catalog.OS, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}

	osValue, ok := catalog.ParseOS(value)
	if !ok {
		return "", fmt.Errorf("unknown OS %q (expected linux, windows, or aix)", value)
	}

	return osValue, nil
}

func printArtifactsList(output io.Writer, artifacts []catalog.Artifact, filter catalog.OS) {
	rows := make([]catalog.Artifact, 0, len(artifacts))
	for _, a := range artifacts {
		if filter == "" || a.OS == filter {
			rows = append(rows, a)
		}
	}

	if len(rows) == 0 {
		fmt.Fprintln(output, "No artifacts found.")
		return
	}

	fmt.Fprintln(output, "Artifacts:")
	fmt.Fprintln(output)

	idWidth, nameWidth := 0, 0
	for _, a := range rows {
		idWidth = max(idWidth, len(a.ID))
		nameWidth = max(nameWidth, len(a.FriendlyName+" "+a.Version))
	}

	for _, a := range rows {
		status := ""
		if !a.Exists {
			status = "  [missing]"
		}

		fmt.Fprintf(output, "  %-*s  %-*s  %-7s  %s%s\n",
			idWidth, a.ID, nameWidth, a.FriendlyName+" "+a.Version, a.OS, a.ArchivePath, status)
	}
}

func printProfilesList(output io.Writer, profiles []catalog.Profile, filter catalog.OS) {
	rows := make([]catalog.Profile, 0, len(profiles))
	for _, p := range profiles {
		if filter == "" || p.OS == filter {
			rows = append(rows, p)
		}
	}

	if len(rows) == 0 {
		fmt.Fprintln(output, "No profiles found.")
		return
	}

	fmt.Fprintln(output, "Profiles:")
	fmt.Fprintln(output)

	idWidth, nameWidth := 0, 0
	for _, p := range rows {
		idWidth = max(idWidth, len(p.ID))
		nameWidth = max(nameWidth, len(p.FriendlyName))
	}

	for _, p := range rows {
		fmt.Fprintf(output, "  %-*s  %-*s  %-7s  %s\n", idWidth, p.ID, nameWidth, p.FriendlyName, p.OS, p.InstallPath)
	}
}
