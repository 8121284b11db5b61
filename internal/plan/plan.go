package plan

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/andreagrandi/jvm-wire/internal/app"
	"github.com/andreagrandi/jvm-wire/internal/catalog"
	"github.com/andreagrandi/jvm-wire/internal/wizard"
)

// HostGroup is the inventory group the target hosts are placed in.
const HostGroup = "java_hosts"

// Redacted replaces secret values in rendered plans.
const Redacted = "<redacted>"

// Plan is the exportable description of an installation run. It never
// carries secrets.
type Plan struct {
	GeneratedBy  string           `yaml:"generated_by"`
	Installation PlanInstallation `yaml:"installation"`
	Profile      PlanProfile      `yaml:"profile"`
	Inventory    Inventory        `yaml:"inventory"`
	Stages       []string         `yaml:"stages"`
	Warnings     []string         `yaml:"warnings,omitempty"`
}

type PlanInstallation struct {
	Source         string `yaml:"source"`
	ArtifactID     string `yaml:"artifact_id,omitempty"`
	Name           string `yaml:"name"`
	Version        string `yaml:"version,omitempty"`
	OS             string `yaml:"os"`
	Archive        string `yaml:"archive"`
	ExtractCommand string `yaml:"extract_command"`
}

type PlanProfile struct {
	ProfileID   string `yaml:"profile_id,omitempty"`
	Name        string `yaml:"name"`
	InstallPath string `yaml:"install_path"`
	BasePath    string `yaml:"base_path"`
	BackupPath  string `yaml:"backup_path,omitempty"`
	SymlinkPath string `yaml:"symlink_path,omitempty"`
}

// Inventory is an Ansible-style YAML inventory with a single group.
type Inventory struct {
	All InventoryRoot `yaml:"all"`
}

type InventoryRoot struct {
	Children map[string]InventoryGroup `yaml:"children"`
}

type InventoryGroup struct {
	Hosts HostList          `yaml:"hosts"`
	Vars  map[string]string `yaml:"vars"`
}

// HostList keeps inventory order when rendered as a YAML mapping.
type HostList []string

func (h HostList) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, host := range h {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: host},
			&yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle},
		)
	}

	return node, nil
}

// Build turns finalized answers into a plan.
func Build(final wizard.State, stages []string) Plan {
	summary := wizard.Summarize(final)

	p := Plan{
		GeneratedBy: app.Name + " " + app.Version,
		Installation: PlanInstallation{
			Source:         string(final.Installation.Source),
			ArtifactID:     final.Installation.ArtifactID,
			Name:           summary.Installation.Name,
			Version:        summary.Installation.Version,
			OS:             string(summary.Installation.OS),
			Archive:        summary.Installation.ArchivePath,
			ExtractCommand: summary.Installation.ExtractCommand,
		},
		Profile: PlanProfile{
			ProfileID:   final.Profile.ProfileID,
			Name:        summary.Profile.Name,
			InstallPath: summary.Profile.InstallPath,
			BasePath:    summary.Profile.BasePath,
			BackupPath:  summary.Profile.BackupPath,
			SymlinkPath: summary.Profile.SymlinkPath,
		},
		Inventory: Inventory{All: InventoryRoot{Children: map[string]InventoryGroup{
			HostGroup: {
				Hosts: HostList(append([]string(nil), final.RemoteExec.Inventory...)),
				Vars:  connectionVars(final.RemoteExec),
			},
		}}},
		Stages:   append([]string(nil), stages...),
		Warnings: summary.Warnings,
	}

	return p
}

func connectionVars(re wizard.RemoteExec) map[string]string {
	vars := map[string]string{"ansible_user": re.Username}

	if re.OS == catalog.OSWindows {
		vars["ansible_connection"] = "winrm"
		vars["ansible_password"] = redact(re.Password)
		return vars
	}

	vars["ansible_connection"] = "ssh"
	if re.AuthMethod == wizard.AuthKey {
		vars["ansible_ssh_private_key_file"] = re.KeyFile
	} else {
		vars["ansible_password"] = redact(re.Password)
	}

	return vars
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}

	return Redacted
}

// Marshal renders the plan as YAML.
func (p Plan) Marshal() ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteFile renders the plan to path, creating parent directories.
func (p Plan) WriteFile(path string) error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create plan directory %q: %w", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write plan file %q: %w", path, err)
	}

	return nil
}
