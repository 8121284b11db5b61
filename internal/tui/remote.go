package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andreagrandi/jvm-wire/internal/inventory"
	"github.com/andreagrandi/jvm-wire/internal/logger"
	"github.com/andreagrandi/jvm-wire/internal/wizard"
)

var authMethods = []wizard.AuthMethod{wizard.AuthKey, wizard.AuthPassword}

var authMethodLabels = []string{"SSH key", "Password"}

// RemoteExecScreen is step 2: target hosts and credentials. Windows
// targets always use a WinRM password.
type RemoteExecScreen struct {
	theme    Theme
	session  *wizard.Session
	form     *form
	sshHosts []inventory.SSHHost
	message  string
	width    int
}

// NewRemoteExecScreen builds the step 2 form. sshHosts, when present, can
// be merged into the inventory with Ctrl+O.
func NewRemoteExecScreen(theme Theme, session *wizard.Session, sshHosts []inventory.SSHHost) *RemoteExecScreen {
	st := session.State().RemoteExec

	s := &RemoteExecScreen{theme: theme, session: session, sshHosts: sshHosts}
	s.form = newForm(
		newAreaField("hosts", "Inventory (one host per line)", inventory.Format(st.Inventory)),
		newTextField("username", "Username", st.Username),
		newChoiceField("auth", "Authentication", authMethodLabels, indexOf(authMethods, st.AuthMethod)),
		newTextField("keyfile", "SSH key file", st.KeyFile),
		newSecretField("password", "Password", st.Password),
	)

	s.refresh()
	return s
}

func (s *RemoteExecScreen) Init() tea.Cmd { return nil }

func (s *RemoteExecScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		return s, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+o" && len(s.sshHosts) > 0 {
			s.importSSHHosts()
			return s, nil
		}

		// Enter adds a line in the inventory editor.
		f := s.form.focused()
		inArea := f != nil && f.kind == fieldArea
		switch {
		case key == "enter" && !inArea:
			return s, send(advanceMsg{})
		case key == "esc":
			return s, send(BackMsg{})
		}

		changed, cmd := s.form.update(msg)
		if changed != nil {
			s.apply(changed)
		}
		return s, tea.Batch(cmd, s.form.ensureVisible())
	}

	return s, nil
}

func (s *RemoteExecScreen) apply(f *field) {
	var cmd wizard.Command = s.fields()
	if f.key == "auth" {
		cmd = wizard.ChooseAuthMethod{Method: authMethods[f.choice]}
	}

	if _, err := s.session.Dispatch(cmd); err != nil {
		logger.Warn("remote execution field rejected", "field", f.key, "error", err)
	}

	s.refresh()
}

func (s *RemoteExecScreen) fields() wizard.SetRemoteExecFields {
	return wizard.SetRemoteExecFields{
		InventoryText: s.form.field("hosts").value(),
		Username:      s.form.field("username").value(),
		KeyFile:       s.form.field("keyfile").value(),
		Password:      s.form.field("password").value(),
	}
}

func (s *RemoteExecScreen) importSSHHosts() {
	hosts := s.form.field("hosts")
	current := inventory.Parse(hosts.value())
	merged := inventory.Merge(current, inventory.Addresses(s.sshHosts))

	hosts.setValue(inventory.Format(merged))
	if _, err := s.session.Dispatch(s.fields()); err != nil {
		logger.Warn("ssh config import rejected", "error", err)
	}

	s.message = fmt.Sprintf("Imported %d host(s) from ~/.ssh/config", len(merged)-len(current))
	logger.Info("imported ssh config hosts", "added", len(merged)-len(current))
}

// refresh switches between the SSH and WinRM credential forms.
func (s *RemoteExecScreen) refresh() {
	st := s.session.State()
	re := st.RemoteExec
	windows := st.Windows()

	s.form.field("auth").hidden = windows
	s.form.field("auth").choice = indexOf(authMethods, re.AuthMethod)
	s.form.field("keyfile").hidden = windows || re.AuthMethod != wizard.AuthKey

	password := s.form.field("password")
	password.hidden = !windows && re.AuthMethod != wizard.AuthPassword
	password.label = "SSH password"
	if windows {
		password.label = "WinRM password"
	}
}

func (s *RemoteExecScreen) View() string {
	var b strings.Builder

	b.WriteString("\n")

	target := s.session.State().InstallationOS().Label()
	b.WriteString(s.theme.Dim.Render("  Target OS: "+target) + "\n\n")
	b.WriteString(s.form.view(s.theme, s.width))

	if s.message != "" {
		b.WriteString("\n" + s.theme.Completed.Render("  "+s.message) + "\n")
	}

	return b.String()
}

func (s *RemoteExecScreen) StatusHints() []KeyHint {
	hints := stepHints()
	if len(s.sshHosts) > 0 {
		hints = append(hints, KeyHint{Key: "Ctrl+O", Desc: "import ~/.ssh/config"})
	}

	return hints
}

// Focused returns the key of the focused field (for testing).
func (s *RemoteExecScreen) Focused() string {
	return s.form.Focused()
}
