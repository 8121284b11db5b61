package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreagrandi/jvm-wire/internal/credential"
)

func init() {
	credentialsCmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage stored SSH and WinRM secrets",
		Long: `Secrets are read from environment variables first, then from the
credentials file (~/.config/jvm-wire/credentials). Values are never printed.`,
	}

	credentialsCmd.AddCommand(newCredentialsSetCmd())
	credentialsCmd.AddCommand(newCredentialsUnsetCmd())
	credentialsCmd.AddCommand(newCredentialsListCmd())
	rootCmd.AddCommand(credentialsCmd)
}

func newCredentialsSetCmd() *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Store a secret in the credentials file",
		Example: "  jvm-wire credentials set JVM_WIRE_SSH_PASSWORD\n" +
			"  jvm-wire credentials set JVM_WIRE_SSH_KEY_FILE --value ~/.ssh/id_ed25519",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := knownCredentialName(args[0])
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("value") {
				p := newPlainPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				value, err = p.Secret(credential.Known[name])
				if err != nil {
					return err
				}
			}

			if strings.TrimSpace(value) == "" {
				return fmt.Errorf("credential %q: value cannot be empty", name)
			}

			source := newCredentialFileSource()
			if err := source.Store(name, value); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s in %s.\n", name, source.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "Secret value (prompted for when omitted)")
	return cmd
}

func newCredentialsUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <name>...",
		Short: "Remove secrets from the credentials file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := newCredentialFileSource()

			removed, err := source.Delete(args...)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d credential(s) from %s.\n", removed, source.Path())
			return nil
		},
	}
}

func newCredentialsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show which secrets are set and where they come from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listCredentials(cmd.OutOrStdout())
		},
	}
}

func listCredentials(output io.Writer) error {
	file := newCredentialFileSource()
	resolver := credential.NewResolver(credential.NewEnvSource(), file)

	stored, err := file.Names()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(credential.Known)+len(stored))
	for name := range credential.Known {
		names = append(names, name)
	}
	for _, name := range stored {
		if _, ok := credential.Known[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	fmt.Fprintln(output, "Credentials:")
	fmt.Fprintln(output)

	for _, name := range names {
		status := "not set"
		if res, ok := resolver.Resolve(name); ok {
			status = "set (" + res.Source + ")"
		}

		fmt.Fprintf(output, "  %-*s  %-17s  %s\n", width, name, status, credential.Known[name])
	}

	return nil
}

func knownCredentialName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if _, ok := credential.Known[trimmed]; ok {
		return trimmed, nil
	}

	known := make([]string, 0, len(credential.Known))
	for k := range credential.Known {
		known = append(known, k)
	}
	sort.Strings(known)

	return "", fmt.Errorf("unknown credential %q (known: %s)", trimmed, strings.Join(known, ", "))
}
