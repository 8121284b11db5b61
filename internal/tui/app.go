package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andreagrandi/jvm-wire/internal/app"
	"github.com/andreagrandi/jvm-wire/internal/inventory"
	"github.com/andreagrandi/jvm-wire/internal/logger"
	"github.com/andreagrandi/jvm-wire/internal/plan"
	"github.com/andreagrandi/jvm-wire/internal/progress"
	"github.com/andreagrandi/jvm-wire/internal/wizard"
)

// Options provides what the TUI needs beyond the wizard session.
type Options struct {
	Version string
	// Sequencer runs the installation stages. A default sequencer is used
	// when nil.
	Sequencer *progress.Sequencer
	// SSHHosts are offered for import on the remote execution step.
	SSHHosts []inventory.SSHHost
	// InspectKey describes the SSH key shown in the summary.
	InspectKey KeyInspector
}

// WizardModel is the root Bubble Tea model for the full-screen TUI.
type WizardModel struct {
	theme   Theme
	session *wizard.Session
	opts    Options
	screen  Screen
	covered Screen // screen hidden behind an output screen
	ctx     context.Context
	cancel  context.CancelFunc
	width   int
	height  int
}

// NewWizardModel creates a root model on the session's current step.
func NewWizardModel(session *wizard.Session, opts Options) WizardModel {
	if opts.Sequencer == nil {
		opts.Sequencer = progress.New()
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := WizardModel{
		theme:   NewTheme(),
		session: session,
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
	}
	m.screen = m.stepScreen(session.Step())

	return m
}

func (m WizardModel) Init() tea.Cmd {
	return m.screen.Init()
}

func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Forward to screen so it can adjust (e.g. scroll bounds).

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}

		if !m.session.Started() && m.covered == nil {
			if step, ok := jumpKeys[msg.String()]; ok {
				return m.dispatch(wizard.RequestJump{Step: step})
			}
			if msg.String() == "ctrl+n" {
				return m.dispatch(wizard.RequestAdvance{})
			}
		}

	case advanceMsg:
		return m.dispatch(wizard.RequestAdvance{})

	case BackMsg:
		return m.dispatch(wizard.RequestRetreat{})

	case startMsg:
		return m.dispatch(wizard.RequestStart{})

	case showPlanMsg:
		return m.showPlan()

	case closeOutputMsg:
		if m.covered != nil {
			m.screen = m.covered
			m.covered = nil
		}
		return m, nil

	case noticeExpiredMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)
	return m, cmd
}

var jumpKeys = map[string]wizard.Step{
	"f1": wizard.StepInstallation,
	"f2": wizard.StepRemoteExec,
	"f3": wizard.StepProfile,
	"f4": wizard.StepSummary,
}

// dispatch sends cmd to the session and reacts to the events it returns.
func (m WizardModel) dispatch(cmd wizard.Command) (tea.Model, tea.Cmd) {
	events, err := m.session.Dispatch(cmd)
	if err != nil && !errors.Is(err, wizard.ErrValidation) {
		logger.Warn("wizard command rejected", "command", cmd, "error", err)
	}

	var cmds []tea.Cmd
	for _, ev := range events {
		switch e := ev.(type) {
		case wizard.StepChanged:
			cmds = append(cmds, m.setScreen(m.stepScreen(e.Step)))

		case wizard.ValidationFailed:
			cmds = append(cmds, tea.Tick(wizard.NoticeDuration, func(time.Time) tea.Msg {
				return noticeExpiredMsg{}
			}))

		case wizard.StartRequested:
			stream := progress.Stream(m.ctx, m.opts.Sequencer, e.Hosts)
			cmds = append(cmds, m.setScreen(NewApplyScreen(m.theme, stream)))
		}
	}

	return m, tea.Batch(cmds...)
}

// setScreen replaces the active screen and replays the terminal size.
func (m *WizardModel) setScreen(s Screen) tea.Cmd {
	if m.width > 0 || m.height > 0 {
		s, _ = s.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}

	m.screen = s
	return s.Init()
}

func (m WizardModel) stepScreen(step wizard.Step) Screen {
	switch step {
	case wizard.StepRemoteExec:
		return NewRemoteExecScreen(m.theme, m.session, m.opts.SSHHosts)
	case wizard.StepProfile:
		return NewProfileScreen(m.theme, m.session)
	case wizard.StepSummary:
		return NewReviewScreen(m.theme, m.session, m.opts.InspectKey)
	default:
		return NewInstallationScreen(m.theme, m.session)
	}
}

func (m WizardModel) showPlan() (tea.Model, tea.Cmd) {
	final, ok := m.session.Finalized()
	if !ok {
		return m, nil
	}

	content := ""
	data, err := plan.Build(final, m.opts.Sequencer.Stages).Marshal()
	if err != nil {
		content = "Error: " + err.Error()
	} else {
		content = string(data)
	}

	m.covered = m.screen
	m.screen = NewOutputScreen(m.theme, "Installation plan", content, m.contentHeight())
	return m, nil
}

func (m WizardModel) View() string {
	// Title bar.
	titleLabel := app.Name
	if m.opts.Version != "" {
		titleLabel += " v" + m.opts.Version
	}

	titleText := m.theme.Title.Render(titleLabel)
	breadcrumb := RenderBreadcrumb(m.theme, wizardSteps(m.session.Step(), m.session.Started()))

	titleBar := titleText
	if breadcrumb != "" {
		titleBar += "  " + breadcrumb
	}

	// Separator line.
	sepWidth := m.width
	if sepWidth <= 0 {
		sepWidth = 40
	}

	separator := m.theme.Separator.Render(strings.Repeat("─", sepWidth))

	// Content area, with the validation notice on top while it lasts.
	content := m.screen.View()
	if notice, ok := m.session.Notice(); ok && m.covered == nil {
		line := "  " + notice.Message
		if len(notice.Missing) > 0 {
			line += " Missing: " + strings.Join(notice.Missing, ", ") + "."
		}
		content = m.theme.Warning.Render(line) + "\n" + content
	}
	content = padToHeight(content, m.contentHeight())

	// Status bar.
	statusBar := RenderStatusBar(m.theme, m.screen.StatusHints(), m.width)

	return titleBar + "\n" + separator + "\n" + content + "\n" + statusBar
}

func (m WizardModel) contentHeight() int {
	return contentHeightFromTerminal(m.height)
}

// contentHeightFromTerminal calculates the content area height from the
// terminal height, subtracting the chrome lines (title + separator + status bar).
func contentHeightFromTerminal(termHeight int) int {
	if termHeight <= 0 {
		return ContentHeight
	}

	return max(termHeight-ChromeLines, 1)
}

// padToHeight pads or truncates content to exactly targetHeight lines.
func padToHeight(content string, targetHeight int) string {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for len(lines) < targetHeight {
		lines = append(lines, "")
	}

	if len(lines) > targetHeight {
		lines = lines[:targetHeight]
	}

	return strings.Join(lines, "\n")
}

// Screen returns the active screen (for testing).
func (m WizardModel) Screen() Screen {
	return m.screen
}

// Run starts the full-screen TUI on session.
func Run(session *wizard.Session, opts Options) error {
	m := NewWizardModel(session, opts)
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
