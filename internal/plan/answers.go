// Package plan reads wizard answers from YAML files and renders the
// finalized answers as an installation plan.
package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andreagrandi/jvm-wire/internal/catalog"
	"github.com/andreagrandi/jvm-wire/internal/credential"
	"github.com/andreagrandi/jvm-wire/internal/inventory"
	"github.com/andreagrandi/jvm-wire/internal/wizard"
)

// Answers is the on-disk form of a complete wizard run.
type Answers struct {
	Installation InstallationAnswers `yaml:"installation"`
	RemoteExec   RemoteExecAnswers   `yaml:"remote_exec"`
	Profile      ProfileAnswers      `yaml:"profile"`
}

type InstallationAnswers struct {
	Source         string `yaml:"source"`
	Artifact       string `yaml:"artifact,omitempty"`
	File           string `yaml:"file,omitempty"`
	OS             string `yaml:"os,omitempty"`
	Name           string `yaml:"name,omitempty"`
	ExtractCommand string `yaml:"extract_command,omitempty"`
}

type RemoteExecAnswers struct {
	Inventory []string `yaml:"inventory,omitempty"`
	// SSHConfigHosts names Host aliases to pull from ~/.ssh/config.
	SSHConfigHosts []string `yaml:"ssh_config_hosts,omitempty"`
	Username       string   `yaml:"username,omitempty"`
	AuthMethod     string   `yaml:"auth_method,omitempty"`
	KeyFile        string   `yaml:"key_file,omitempty"`
	Password       string   `yaml:"password,omitempty"`
}

type ProfileAnswers struct {
	Source      string         `yaml:"source"`
	ID          string         `yaml:"id,omitempty"`
	Name        string         `yaml:"name,omitempty"`
	InstallPath string         `yaml:"install_path,omitempty"`
	BasePath    string         `yaml:"base_path,omitempty"`
	Backup      OptionalAnswer `yaml:"backup,omitempty"`
	Symlink     OptionalAnswer `yaml:"symlink,omitempty"`
}

// OptionalAnswer is a feature toggle with an optional path.
type OptionalAnswer struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// LoadAnswers reads an answers file. Unknown keys are rejected.
func LoadAnswers(path string) (*Answers, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open answers file %q: %w", path, err)
	}
	defer f.Close()

	answers, err := DecodeAnswers(f)
	if err != nil {
		return nil, fmt.Errorf("parse answers file %q: %w", path, err)
	}

	return answers, nil
}

// DecodeAnswers reads answers YAML from r.
func DecodeAnswers(r io.Reader) (*Answers, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var answers Answers
	if len(bytes.TrimSpace(data)) == 0 {
		return &answers, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&answers); err != nil {
		return nil, err
	}

	return &answers, nil
}

// ApplyOptions supplies what Apply needs beyond the answers themselves.
type ApplyOptions struct {
	// Secrets fills passwords and key files the answers leave out.
	Secrets *credential.Resolver
	// SSHHosts resolves ssh_config_hosts aliases.
	SSHHosts []inventory.SSHHost
}

// Apply dispatches the answers to s as wizard commands. The installation
// is applied first so the remote-exec secrets match the derived OS.
func (a *Answers) Apply(s *wizard.Session, opts ApplyOptions) error {
	if a == nil {
		return errors.New("answers are nil")
	}

	for _, cmd := range a.installationCommands() {
		if _, err := s.Dispatch(cmd); err != nil {
			return fmt.Errorf("apply installation answers: %w", err)
		}
	}

	if in := s.State().Installation; in.Source == wizard.SourceUpload {
		meta := wizard.SetUploadMetadata{
			FriendlyName:   a.Installation.Name,
			ExtractCommand: a.Installation.ExtractCommand,
		}
		// Keep the command detected from the file or OS unless overridden.
		if meta.ExtractCommand == "" {
			meta.ExtractCommand = in.Upload.ExtractCommand
		}

		if _, err := s.Dispatch(meta); err != nil {
			return fmt.Errorf("apply installation answers: %w", err)
		}
	}

	remote, err := a.remoteExecCommands(s.State().Windows(), opts)
	if err != nil {
		return err
	}

	for _, cmd := range remote {
		if _, err := s.Dispatch(cmd); err != nil {
			return fmt.Errorf("apply remote execution answers: %w", err)
		}
	}

	for _, cmd := range a.profileCommands() {
		if _, err := s.Dispatch(cmd); err != nil {
			return fmt.Errorf("apply profile answers: %w", err)
		}
	}

	return nil
}

func (a *Answers) installationCommands() []wizard.Command {
	in := a.Installation
	source := wizard.InstallationSource(strings.ToLower(strings.TrimSpace(in.Source)))
	if source == "" {
		return nil
	}

	cmds := []wizard.Command{wizard.SelectInstallationSource{Source: source}}

	if source == wizard.SourceExisting {
		return append(cmds, wizard.SelectArtifact{ID: in.Artifact})
	}

	if in.File != "" {
		cmds = append(cmds, wizard.AttachFile{FileName: in.File})
	}
	if in.OS != "" {
		cmds = append(cmds, wizard.ChooseOS{OS: catalog.OS(in.OS)})
	}

	return cmds
}

func (a *Answers) remoteExecCommands(windows bool, opts ApplyOptions) ([]wizard.Command, error) {
	re := a.RemoteExec

	hosts := append([]string(nil), re.Inventory...)
	if len(re.SSHConfigHosts) > 0 {
		imported, err := resolveAliases(re.SSHConfigHosts, opts.SSHHosts)
		if err != nil {
			return nil, err
		}
		hosts = inventory.Merge(hosts, imported)
	}

	fields := wizard.SetRemoteExecFields{
		InventoryText: inventory.Format(hosts),
		Username:      re.Username,
		KeyFile:       re.KeyFile,
		Password:      re.Password,
	}

	var cmds []wizard.Command

	method := strings.TrimSpace(re.AuthMethod)
	if method != "" && !windows {
		cmds = append(cmds, wizard.ChooseAuthMethod{Method: wizard.AuthMethod(method)})
	}

	switch {
	case windows:
		if fields.Password == "" {
			fields.Password = opts.Secrets.Value(credential.WinRMPassword)
		}
	case strings.EqualFold(method, string(wizard.AuthKey)):
		if fields.KeyFile == "" {
			fields.KeyFile = opts.Secrets.Value(credential.SSHKeyFile)
		}
	case strings.EqualFold(method, string(wizard.AuthPassword)):
		if fields.Password == "" {
			fields.Password = opts.Secrets.Value(credential.SSHPassword)
		}
	}

	return append(cmds, fields), nil
}

func (a *Answers) profileCommands() []wizard.Command {
	p := a.Profile
	source := wizard.ProfileSource(strings.ToLower(strings.TrimSpace(p.Source)))
	if source == "" {
		return nil
	}

	cmds := []wizard.Command{wizard.SelectProfileSource{Source: source}}

	if source == wizard.ProfileExisting {
		return append(cmds, wizard.SelectProfile{ID: p.ID})
	}

	return append(cmds,
		wizard.ToggleBackup{Enabled: p.Backup.Enabled},
		wizard.ToggleSymlink{Enabled: p.Symlink.Enabled},
		wizard.SetNewProfileFields{
			FriendlyName: p.Name,
			InstallPath:  p.InstallPath,
			BasePath:     p.BasePath,
			BackupPath:   p.Backup.Path,
			SymlinkPath:  p.Symlink.Path,
		},
	)
}

func resolveAliases(aliases []string, hosts []inventory.SSHHost) ([]string, error) {
	byAlias := make(map[string]inventory.SSHHost, len(hosts))
	for _, h := range hosts {
		byAlias[h.Alias] = h
	}

	out := make([]string, 0, len(aliases))
	for _, alias := range aliases {
		h, ok := byAlias[strings.TrimSpace(alias)]
		if !ok {
			return nil, fmt.Errorf("ssh config host %q: %w", alias, catalog.ErrNotFound)
		}
		out = append(out, h.Address())
	}

	return out, nil
}
