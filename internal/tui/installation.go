package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andreagrandi/jvm-wire/internal/catalog"
	"github.com/andreagrandi/jvm-wire/internal/logger"
	"github.com/andreagrandi/jvm-wire/internal/wizard"
)

var installationSources = []wizard.InstallationSource{wizard.SourceExisting, wizard.SourceUpload}

var installationSourceLabels = []string{"Existing Configuration", "New Upload"}

// InstallationScreen is step 1: pick a catalog artifact or describe an
// uploaded archive.
type InstallationScreen struct {
	theme     Theme
	session   *wizard.Session
	form      *form
	artifacts []catalog.Artifact
	message   string
	width     int
}

// NewInstallationScreen builds the step 1 form from the session answers.
func NewInstallationScreen(theme Theme, session *wizard.Session) *InstallationScreen {
	st := session.State().Installation

	s := &InstallationScreen{theme: theme, session: session}

	osLabels := make([]string, len(catalog.KnownOS))
	for i, o := range catalog.KnownOS {
		osLabels[i] = o.Label()
	}

	s.form = newForm(
		newChoiceField("source", "Source", installationSourceLabels, indexOf(installationSources, st.Source)),
		newListField("artifact", "Installation", nil, -1),
		newTextField("file", "Archive file", st.Upload.FileName),
		newChoiceField("os", "Operating system", osLabels, indexOf(catalog.KnownOS, st.Upload.OS)),
		newTextField("name", "Friendly name", st.Upload.FriendlyName),
		newTextField("command", "Extract command", st.Upload.ExtractCommand),
	)

	s.refresh()
	return s
}

func (s *InstallationScreen) Init() tea.Cmd { return nil }

func (s *InstallationScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
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
		case "ctrl+d":
			s.deleteArtifact()
			return s, s.form.ensureVisible()
		}

		changed, cmd := s.form.update(msg)
		if changed != nil {
			s.apply(changed)
		}
		return s, tea.Batch(cmd, s.form.ensureVisible())
	}

	return s, nil
}

// apply dispatches the command matching the edited field.
func (s *InstallationScreen) apply(f *field) {
	var cmd wizard.Command

	switch f.key {
	case "source":
		cmd = wizard.SelectInstallationSource{Source: installationSources[f.choice]}
	case "artifact":
		if f.choice >= 0 && f.choice < len(s.artifacts) {
			cmd = wizard.SelectArtifact{ID: s.artifacts[f.choice].ID}
		}
	case "file":
		cmd = wizard.AttachFile{FileName: f.value()}
	case "os":
		cmd = wizard.ChooseOS{OS: catalog.KnownOS[f.choice]}
	case "name", "command":
		cmd = wizard.SetUploadMetadata{
			FriendlyName:   s.form.field("name").value(),
			ExtractCommand: s.form.field("command").value(),
		}
	}

	if cmd == nil {
		return
	}

	if _, err := s.session.Dispatch(cmd); err != nil {
		logger.Warn("installation field rejected", "field", f.key, "error", err)
	}

	s.message = ""
	s.refresh()
}

func (s *InstallationScreen) deleteArtifact() {
	f := s.form.field("artifact")
	if f.hidden || f.choice < 0 || f.choice >= len(s.artifacts) {
		return
	}

	target := s.artifacts[f.choice]
	events, err := s.session.Dispatch(wizard.RequestDeleteArtifact{ID: target.ID})
	if err != nil {
		logger.Warn("delete artifact failed", "id", target.ID, "error", err)
		return
	}

	for _, ev := range events {
		if deleted, ok := ev.(wizard.ArtifactDeleted); ok {
			s.message = "Deleted " + target.DisplayName()
			if deleted.WasSelected {
				s.message += " (selection cleared)"
			}
		}
	}

	s.refresh()
}

// refresh pulls derived values back from the session: visibility, the
// detected OS and the extract command.
func (s *InstallationScreen) refresh() {
	st := s.session.State().Installation
	upload := st.Source == wizard.SourceUpload

	s.artifacts = s.session.Store().ListArtifacts()
	list := s.form.field("artifact")
	list.options = make([]string, len(s.artifacts))
	list.choice = -1
	for i, a := range s.artifacts {
		label := a.DisplayName()
		if !a.Exists {
			label += " [missing]"
		}
		list.options[i] = label
		if a.ID == st.ArtifactID {
			list.choice = i
		}
	}

	list.hidden = st.Source != wizard.SourceExisting
	for _, key := range []string{"file", "os", "name", "command"} {
		s.form.field(key).hidden = !upload
	}

	s.form.field("os").choice = indexOf(catalog.KnownOS, st.Upload.OS)
	s.form.field("command").setValue(st.Upload.ExtractCommand)
}

func (s *InstallationScreen) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(s.form.view(s.theme, s.width))

	if a, ok := s.selectedArtifact(); ok {
		b.WriteString("\n")
		b.WriteString(s.theme.Dim.Render("  Archive: "+a.ArchivePath) + "\n")
		if a.Vendor != "" {
			b.WriteString(s.theme.Dim.Render("  Vendor:  "+a.Vendor) + "\n")
		}
		if !a.Exists {
			b.WriteString(s.theme.Warning.Render("  The archive for this installation is missing.") + "\n")
		}
	}

	if s.message != "" {
		b.WriteString("\n" + s.theme.Completed.Render("  "+s.message) + "\n")
	}

	return b.String()
}

func (s *InstallationScreen) selectedArtifact() (catalog.Artifact, bool) {
	st := s.session.State().Installation
	if st.Source != wizard.SourceExisting || st.Artifact == nil {
		return catalog.Artifact{}, false
	}

	return *st.Artifact, true
}

func (s *InstallationScreen) StatusHints() []KeyHint {
	hints := stepHints()
	if f := s.form.focused(); f != nil && f.key == "artifact" {
		hints = append(hints, KeyHint{Key: "Ctrl+D", Desc: "delete"})
	}

	return hints
}

// Focused returns the key of the focused field (for testing).
func (s *InstallationScreen) Focused() string {
	return s.form.Focused()
}

func indexOf[T comparable](values []T, v T) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}

	return -1
}
