package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/andreagrandi/jvm-wire/internal/catalog"
	"github.com/andreagrandi/jvm-wire/internal/config"
	"github.com/andreagrandi/jvm-wire/internal/credential"
	"github.com/andreagrandi/jvm-wire/internal/inventory"
	"github.com/andreagrandi/jvm-wire/internal/logger"
	"github.com/andreagrandi/jvm-wire/internal/progress"
	"github.com/andreagrandi/jvm-wire/internal/tui"
)

var loadConfig = config.Load
var initLogging = logger.Init
var loadStore = catalog.LoadStore
var inspectKey = credential.InspectKey
var runTUI = tui.Run
var newCredentialFileSource = func() *credential.FileSource { return credential.NewFileSource("") }
var newSequencer = func(cfg *config.Config) *progress.Sequencer {
	return progress.New(progress.WithDelay(cfg.ProgressDelays()))
}
var loadSSHHosts = func() ([]inventory.SSHHost, error) {
	path, err := inventory.DefaultSSHConfigPath()
	if err != nil {
		return nil, err
	}

	return inventory.LoadSSHConfig(path)
}
var isInteractive = func(cmd *cobra.Command) bool {
	return canUseInteractiveUI(cmd.InOrStdin(), cmd.OutOrStdout())
}

// environment is what the wizard-driving commands share.
type environment struct {
	cfg      *config.Config
	store    *catalog.Store
	secrets  *credential.Resolver
	sshHosts []inventory.SSHHost
}

// loadEnvironment reads the config, starts logging, and loads the catalog.
// Interactive front ends log to the file only.
func loadEnvironment(interactive bool) (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	initLogging(interactive, cfg.LogLevel())

	store, err := loadStore(cfg.CatalogPath())
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	env := &environment{
		cfg:     cfg,
		store:   store,
		secrets: credential.NewResolver(credential.NewEnvSource(), newCredentialFileSource()),
	}

	if cfg.IsFeatureEnabled(config.FeatureSSHImport) {
		hosts, err := loadSSHHosts()
		if err != nil {
			logger.Warn("ssh config import disabled", "error", err)
		} else {
			env.sshHosts = hosts
		}
	}

	logger.Debug("environment loaded",
		"artifacts", store.ArtifactCount(),
		"profiles", store.ProfileCount(),
		"ssh_hosts", len(env.sshHosts),
	)

	return env, nil
}

func canUseInteractiveUI(input io.Reader, output io.Writer) bool {
	inputFile, inputOK := input.(*os.File)
	outputFile, outputOK := output.(*os.File)
	if !inputOK || !outputOK {
		return false
	}

	return term.IsTerminal(int(inputFile.Fd())) && term.IsTerminal(int(outputFile.Fd()))
}
