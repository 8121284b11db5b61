package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andreagrandi/jvm-wire/internal/catalog"
	"github.com/andreagrandi/jvm-wire/internal/logger"
	"github.com/andreagrandi/jvm-wire/internal/wizard"
)

var profileSources = []wizard.ProfileSource{wizard.ProfileExisting, wizard.ProfileNew}

var profileSourceLabels = []string{"Existing Profile", "New Profile"}

// ProfileScreen is step 3: the deployment profile.
type ProfileScreen struct {
	theme    Theme
	session  *wizard.Session
	form     *form
	profiles []catalog.Profile
	width    int
}

// NewProfileScreen builds the step 3 form from the session answers.
func NewProfileScreen(theme Theme, session *wizard.Session) *ProfileScreen {
	st := session.State().Profile
	np := st.New

	s := &ProfileScreen{theme: theme, session: session, profiles: session.Store().ListProfiles()}

	labels := make([]string, len(s.profiles))
	for i, p := range s.profiles {
		labels[i] = p.DisplayName()
	}

	s.form = newForm(
		newChoiceField("source", "Profile", profileSourceLabels, indexOf(profileSources, st.Source)),
		newListField("profile", "Existing profiles", labels, s.profileIndex(st.ProfileID)),
		newTextField("name", "Profile name", np.FriendlyName),
		newTextField("install", "Install path", np.InstallPath),
		newTextField("base", "Base path", np.BasePath),
		newToggleField("backup", "Back up the previous installation", np.BackupEnabled),
		newTextField("backup_path", "Backup path", np.BackupPath),
		newToggleField("symlink", "Create a java symlink", np.SymlinkEnabled),
		newTextField("symlink_path", "Symlink path", np.SymlinkPath),
	)

	s.refresh()
	return s
}

func (s *ProfileScreen) profileIndex(id string) int {
	for i, p := range s.profiles {
		if p.ID == id {
			return i
		}
	}

	return -1
}

func (s *ProfileScreen) Init() tea.Cmd { return nil }

func (s *ProfileScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return s, send(advanceMsg{})
		case "esc":
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

func (s *ProfileScreen) apply(f *field) {
	var cmd wizard.Command

	switch f.key {
	case "source":
		cmd = wizard.SelectProfileSource{Source: profileSources[f.choice]}
	case "profile":
		if f.choice >= 0 && f.choice < len(s.profiles) {
			cmd = wizard.SelectProfile{ID: s.profiles[f.choice].ID}
		}
	case "backup":
		cmd = wizard.ToggleBackup{Enabled: f.on}
	case "symlink":
		cmd = wizard.ToggleSymlink{Enabled: f.on}
	default:
		cmd = wizard.SetNewProfileFields{
			FriendlyName: s.form.field("name").value(),
			InstallPath:  s.form.field("install").value(),
			BasePath:     s.form.field("base").value(),
			BackupPath:   s.form.field("backup_path").value(),
			SymlinkPath:  s.form.field("symlink_path").value(),
		}
	}

	if cmd == nil {
		return
	}

	if _, err := s.session.Dispatch(cmd); err != nil {
		logger.Warn("profile field rejected", "field", f.key, "error", err)
	}

	s.refresh()
}

// refresh hides the fields that do not apply. Windows targets have no
// symlink option.
func (s *ProfileScreen) refresh() {
	st := s.session.State()
	p := st.Profile
	isNew := p.Source == wizard.ProfileNew

	s.form.field("profile").hidden = p.Source != wizard.ProfileExisting
	for _, key := range []string{"name", "install", "base", "backup"} {
		s.form.field(key).hidden = !isNew
	}

	s.form.field("backup_path").hidden = !isNew || !p.New.BackupEnabled
	s.form.field("symlink").hidden = !isNew || st.Windows()
	s.form.field("symlink_path").hidden = !isNew || st.Windows() || !p.New.SymlinkEnabled
}

func (s *ProfileScreen) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(s.form.view(s.theme, s.width))

	st := s.session.State()
	if selected, ok := st.Profile.ResolvedProfile(); ok && st.Profile.Source == wizard.ProfileExisting {
		b.WriteString("\n")
		b.WriteString(s.theme.Dim.Render("  Install path: "+selected.InstallPath) + "\n")
		if selected.OS != st.InstallationOS() {
			b.WriteString(s.theme.Warning.Render("  This profile targets "+selected.OS.Label()+
				", the installation targets "+st.InstallationOS().Label()+".") + "\n")
		}
	}

	return b.String()
}

func (s *ProfileScreen) StatusHints() []KeyHint {
	hints := stepHints()
	if f := s.form.focused(); f != nil && f.kind == fieldToggle {
		hints = append(hints, KeyHint{Key: "Space", Desc: "toggle"})
	}

	return hints
}

// Focused returns the key of the focused field (for testing).
func (s *ProfileScreen) Focused() string {
	return s.form.Focused()
}
