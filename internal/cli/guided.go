package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreagrandi/jvm-wire/internal/catalog"
	"github.com/andreagrandi/jvm-wire/internal/credential"
	"github.com/andreagrandi/jvm-wire/internal/inventory"
	"github.com/andreagrandi/jvm-wire/internal/plan"
	"github.com/andreagrandi/jvm-wire/internal/wizard"
)

var (
	installationSources = []wizard.InstallationSource{wizard.SourceExisting, wizard.SourceUpload}
	profileSources      = []wizard.ProfileSource{wizard.ProfileExisting, wizard.ProfileNew}
	authMethods         = []wizard.AuthMethod{wizard.AuthKey, wizard.AuthPassword}
)

// guidedRun drives a wizard session from line-oriented prompts.
type guidedRun struct {
	cmd     *cobra.Command
	out     io.Writer
	env     *environment
	session *wizard.Session
	prompt  prompter
}

func newGuidedRun(cmd *cobra.Command, env *environment, session *wizard.Session, p prompter) *guidedRun {
	return &guidedRun{
		cmd:     cmd,
		out:     cmd.OutOrStdout(),
		env:     env,
		session: session,
		prompt:  p,
	}
}

func (g *guidedRun) run() error {
	fmt.Fprintln(g.out, "Java Installation Wizard")
	if _, ok := g.prompt.(*plainPrompter); ok {
		fmt.Fprintf(g.out, "Enter %q at any prompt to go back.\n", backInput)
	}

	for {
		step := g.session.Step()
		fmt.Fprintln(g.out)
		fmt.Fprintf(g.out, "Step %d/%d: %s\n", int(step), len(wizard.Steps), step)

		var err error
		switch step {
		case wizard.StepInstallation:
			err = g.installationStep()
		case wizard.StepRemoteExec:
			err = g.remoteExecStep()
		case wizard.StepProfile:
			err = g.profileStep()
		case wizard.StepSummary:
			err = g.summaryStep()
			if err == nil {
				return nil
			}
		}

		switch {
		case errors.Is(err, errBack):
			if _, err := g.session.Dispatch(wizard.RequestRetreat{}); err != nil {
				return err
			}
			continue
		case errors.Is(err, errCancelled):
			fmt.Fprintln(g.out, "Installation cancelled.")
			return nil
		case err != nil:
			return err
		}

		if err := g.advance(); err != nil {
			return err
		}
	}
}

// advance moves on, or prints what is missing and stays on the step.
func (g *guidedRun) advance() error {
	_, err := g.session.Dispatch(wizard.RequestAdvance{})

	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		warningColor.Fprintf(g.out, "%s Missing: %s.\n", wizard.NoticeMessage, strings.Join(verr.Missing, ", "))
		return nil
	}

	return err
}

func (g *guidedRun) dispatch(cmd wizard.Command) ([]wizard.Event, error) {
	events, err := g.session.Dispatch(cmd)
	if err != nil {
		return nil, fmt.Errorf("apply answer: %w", err)
	}

	return events, nil
}

func (g *guidedRun) installationStep() error {
	state := g.session.State()

	labels := []string{"Existing Configuration", "New Upload"}
	idx, err := g.prompt.Select("Installation source", labels, indexOf(installationSources, state.Installation.Source))
	if err != nil {
		return err
	}

	source := installationSources[idx]
	if _, err := g.dispatch(wizard.SelectInstallationSource{Source: source}); err != nil {
		return err
	}

	if source == wizard.SourceExisting {
		return g.pickArtifact()
	}

	return g.describeUpload()
}

func (g *guidedRun) pickArtifact() error {
	for {
		artifacts := g.session.Store().ListArtifacts()
		if len(artifacts) == 0 {
			fmt.Fprintln(g.out, "The catalog has no artifacts. Choose New Upload instead.")
			return nil
		}

		labels := artifactLabels(artifacts)
		ids := make([]string, len(artifacts))
		for i, a := range artifacts {
			ids[i] = a.ID
		}

		options := append(labels, "Delete an artifact...")
		idx, err := g.prompt.Select("Artifact", options, indexOf(ids, g.session.State().Installation.ArtifactID))
		if err != nil {
			return err
		}

		if idx == len(artifacts) {
			if err := g.deleteArtifact(artifacts, labels); err != nil {
				return err
			}
			continue
		}

		if _, err := g.dispatch(wizard.SelectArtifact{ID: ids[idx]}); err != nil {
			return err
		}

		if chosen := artifacts[idx]; !chosen.Exists {
			warningColor.Fprintf(g.out, "Archive %s is missing. Choose another artifact.\n", chosen.ArchivePath)
		}

		return nil
	}
}

func (g *guidedRun) deleteArtifact(artifacts []catalog.Artifact, labels []string) error {
	idx, err := g.prompt.Select("Delete which artifact?", labels, -1)
	if err != nil {
		return err
	}

	events, err := g.dispatch(wizard.RequestDeleteArtifact{ID: artifacts[idx].ID})
	if err != nil {
		return err
	}

	for _, ev := range events {
		if deleted, ok := ev.(wizard.ArtifactDeleted); ok {
			msg := "Deleted " + artifacts[idx].FriendlyName
			if deleted.WasSelected {
				msg += " (selection cleared)"
			}
			fmt.Fprintln(g.out, msg)
		}
	}

	return nil
}

func (g *guidedRun) describeUpload() error {
	upload := g.session.State().Installation.Upload

	file, err := g.prompt.Input("Archive file name", upload.FileName)
	if err != nil {
		return err
	}
	if _, err := g.dispatch(wizard.AttachFile{FileName: file}); err != nil {
		return err
	}

	upload = g.session.State().Installation.Upload
	osLabels := make([]string, len(catalog.KnownOS))
	for i, o := range catalog.KnownOS {
		osLabels[i] = o.Label()
	}

	idx, err := g.prompt.Select("Target OS", osLabels, indexOf(catalog.KnownOS, upload.OS))
	if err != nil {
		return err
	}
	if chosen := catalog.KnownOS[idx]; chosen != upload.OS {
		if _, err := g.dispatch(wizard.ChooseOS{OS: chosen}); err != nil {
			return err
		}
	}

	upload = g.session.State().Installation.Upload
	name, err := g.prompt.Input("Friendly name", upload.FriendlyName)
	if err != nil {
		return err
	}

	command, err := g.prompt.Input("Extract command", upload.ExtractCommand)
	if err != nil {
		return err
	}

	_, err = g.dispatch(wizard.SetUploadMetadata{FriendlyName: name, ExtractCommand: command})
	return err
}

func (g *guidedRun) remoteExecStep() error {
	state := g.session.State()
	re := state.RemoteExec

	hosts := re.Inventory
	if n := len(g.env.sshHosts); n > 0 {
		ok, err := g.prompt.Confirm(fmt.Sprintf("Import %d host(s) from ~/.ssh/config?", n), false)
		if err != nil {
			return err
		}
		if ok {
			hosts = inventory.Merge(hosts, inventory.Addresses(g.env.sshHosts))
		}
	}

	text, err := g.prompt.Hosts("Target hosts", inventory.Format(hosts))
	if err != nil {
		return err
	}

	username, err := g.prompt.Input("Username", re.Username)
	if err != nil {
		return err
	}

	fields := wizard.SetRemoteExecFields{
		InventoryText: text,
		Username:      username,
		KeyFile:       re.KeyFile,
		Password:      re.Password,
	}

	if state.Windows() {
		fields.Password, err = g.secret("WinRM password", credential.WinRMPassword, re.Password)
		if err != nil {
			return err
		}

		_, err = g.dispatch(fields)
		return err
	}

	idx, err := g.prompt.Select("Authentication", []string{"SSH key", "Password"}, indexOf(authMethods, re.AuthMethod))
	if err != nil {
		return err
	}
	if _, err := g.dispatch(wizard.ChooseAuthMethod{Method: authMethods[idx]}); err != nil {
		return err
	}

	if authMethods[idx] == wizard.AuthKey {
		keyFile := re.KeyFile
		if keyFile == "" {
			keyFile = g.env.secrets.Value(credential.SSHKeyFile)
		}

		fields.KeyFile, err = g.prompt.Input("SSH key file", keyFile)
	} else {
		fields.Password, err = g.secret("SSH password", credential.SSHPassword, re.Password)
	}
	if err != nil {
		return err
	}

	_, err = g.dispatch(fields)
	return err
}

// secret asks for a password. Leaving it empty keeps current, then falls
// back to the stored credential called name.
func (g *guidedRun) secret(label, name, current string) (string, error) {
	hint := label
	if current != "" {
		hint += " (Enter to keep)"
	} else if _, ok := g.env.secrets.Resolve(name); ok {
		hint += " (Enter to use stored value)"
	}

	value, err := g.prompt.Secret(hint)
	if err != nil {
		return "", err
	}
	if value != "" {
		return value, nil
	}
	if current != "" {
		return current, nil
	}

	if res, ok := g.env.secrets.Resolve(name); ok {
		fmt.Fprintf(g.out, "Using %s from %s.\n", name, res.Source)
		return res.Value, nil
	}

	return "", nil
}

func (g *guidedRun) profileStep() error {
	state := g.session.State()

	labels := []string{"Existing Profile", "New Profile"}
	idx, err := g.prompt.Select("Profile source", labels, indexOf(profileSources, state.Profile.Source))
	if err != nil {
		return err
	}

	source := profileSources[idx]
	if _, err := g.dispatch(wizard.SelectProfileSource{Source: source}); err != nil {
		return err
	}

	if source == wizard.ProfileExisting {
		return g.pickProfile()
	}

	return g.describeProfile()
}

func (g *guidedRun) pickProfile() error {
	profiles := g.session.Store().ListProfiles()
	if len(profiles) == 0 {
		fmt.Fprintln(g.out, "The catalog has no profiles. Choose New Profile instead.")
		return nil
	}

	labels := make([]string, len(profiles))
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		labels[i] = p.DisplayName()
		ids[i] = p.ID
	}

	state := g.session.State()
	idx, err := g.prompt.Select("Profile", labels, indexOf(ids, state.Profile.ProfileID))
	if err != nil {
		return err
	}

	if _, err := g.dispatch(wizard.SelectProfile{ID: ids[idx]}); err != nil {
		return err
	}

	if chosen, target := profiles[idx].OS, state.InstallationOS(); chosen != target {
		warningColor.Fprintf(g.out, "This profile targets %s, the installation targets %s.\n", chosen.Label(), target.Label())
	}

	return nil
}

func (g *guidedRun) describeProfile() error {
	state := g.session.State()
	np := state.Profile.New

	fields := wizard.SetNewProfileFields{
		BackupPath:  np.BackupPath,
		SymlinkPath: np.SymlinkPath,
	}

	var err error
	if fields.FriendlyName, err = g.prompt.Input("Profile name", np.FriendlyName); err != nil {
		return err
	}
	if fields.InstallPath, err = g.prompt.Input("Install path", np.InstallPath); err != nil {
		return err
	}
	if fields.BasePath, err = g.prompt.Input("Base path", np.BasePath); err != nil {
		return err
	}

	backup, err := g.prompt.Confirm("Back up the current installation?", np.BackupEnabled)
	if err != nil {
		return err
	}
	if _, err := g.dispatch(wizard.ToggleBackup{Enabled: backup}); err != nil {
		return err
	}
	if backup {
		if fields.BackupPath, err = g.prompt.Input("Backup path", np.BackupPath); err != nil {
			return err
		}
	}

	if !state.Windows() {
		symlink, err := g.prompt.Confirm("Create a java symlink?", np.SymlinkEnabled)
		if err != nil {
			return err
		}
		if _, err := g.dispatch(wizard.ToggleSymlink{Enabled: symlink}); err != nil {
			return err
		}
		if symlink {
			if fields.SymlinkPath, err = g.prompt.Input("Symlink path", np.SymlinkPath); err != nil {
				return err
			}
		}
	}

	_, err = g.dispatch(fields)
	return err
}

// summaryStep returns nil once the installation has run.
func (g *guidedRun) summaryStep() error {
	for {
		summary, _ := g.session.Summary()
		final, _ := g.session.Finalized()
		printSummary(g.out, summary, describeKey(final))

		idx, err := g.prompt.Select("Ready to install?", []string{"Install", "Show plan", "Back", "Cancel"}, 0)
		if err != nil {
			return err
		}

		switch idx {
		case 0:
			return g.start()
		case 1:
			data, err := plan.Build(final, newSequencer(g.env.cfg).Stages).Marshal()
			if err != nil {
				return err
			}
			fmt.Fprintln(g.out)
			fmt.Fprint(g.out, string(data))
		case 2:
			return errBack
		default:
			return errCancelled
		}
	}
}

func (g *guidedRun) start() error {
	events, err := g.session.Dispatch(wizard.RequestStart{})
	if err != nil {
		return fmt.Errorf("start installation: %w", err)
	}

	for _, ev := range events {
		if req, ok := ev.(wizard.StartRequested); ok {
			fmt.Fprintln(g.out)
			return runInstallation(g.cmd.Context(), g.out, newSequencer(g.env.cfg), req.Hosts, isInteractive(g.cmd))
		}
	}

	return errors.New("start installation: no start event")
}

func artifactLabels(artifacts []catalog.Artifact) []string {
	labels := make([]string, len(artifacts))
	for i, a := range artifacts {
		labels[i] = a.DisplayName()
		if !a.Exists {
			labels[i] += " [missing]"
		}
	}

	return labels
}

func indexOf[T comparable](values []T, v T) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}

	return -1
}
