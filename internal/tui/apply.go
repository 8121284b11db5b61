package tui

import (
	"strings"

	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andreagrandi/jvm-wire/internal/progress"
)

const (
	applySubStateRunning = iota
	applySubStateDone
)

// applyEventMsg carries one event from the installation stream.
type applyEventMsg struct {
	event progress.Event
}

// applyClosedMsg is sent when the stream closes without a final event.
type applyClosedMsg struct{}

// logLine is one rendered stage of the log. The terminal stage is drawn as
// a success.
type logLine struct {
	text     string
	terminal bool
}

// ApplyScreen shows the installation stages as they run, with a progress
// bar and a timestamped log.
type ApplyScreen struct {
	theme   Theme
	events  <-chan progress.Event
	bar     progressbar.Model
	spinner spinner.Model

	lines    []logLine
	stage    string
	fraction float64

	subState   int
	completion *progress.Completion
	err        error
	width      int
}

// NewApplyScreen creates an apply screen reading from events, usually a
// progress.Stream.
func NewApplyScreen(theme Theme, events <-chan progress.Event) *ApplyScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Active

	return &ApplyScreen{
		theme:   theme,
		events:  events,
		bar:     progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithWidth(40)),
		spinner: sp,
	}
}

func (a *ApplyScreen) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, waitApplyEvent(a.events))
}

func waitApplyEvent(events <-chan progress.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return applyClosedMsg{}
		}

		return applyEventMsg{event: ev}
	}
}

func (a *ApplyScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		if w := msg.Width - 8; w > 10 && w < 80 {
			a.bar.Width = w
		}
		return a, nil

	case spinner.TickMsg:
		if a.subState == applySubStateDone {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case applyEventMsg:
		return a.handleEvent(msg.event)

	case applyClosedMsg:
		a.subState = applySubStateDone
		return a, nil

	case tea.KeyMsg:
		if a.subState == applySubStateDone {
			switch msg.String() {
			case "enter", "q", "esc":
				return a, tea.Quit
			}
		}
	}

	return a, nil
}

func (a *ApplyScreen) handleEvent(ev progress.Event) (Screen, tea.Cmd) {
	switch {
	case ev.Update != nil:
		a.lines = append(a.lines, logLine{text: ev.Update.Line, terminal: ev.Update.Terminal})
		a.stage = ev.Update.Stage
		a.fraction = ev.Update.Fraction
		return a, waitApplyEvent(a.events)

	case ev.Completion != nil:
		c := *ev.Completion
		a.completion = &c
		a.fraction = 1
		a.subState = applySubStateDone

	case ev.Err != nil:
		a.err = ev.Err
		a.subState = applySubStateDone
	}

	return a, nil
}

func (a *ApplyScreen) View() string {
	var b strings.Builder

	b.WriteString("\n")

	switch {
	case a.err != nil:
		b.WriteString(a.theme.Error.Render("  Installation failed: "+a.err.Error()) + "\n")
	case a.completion != nil:
		b.WriteString(a.theme.Completed.Render("  "+a.completion.Message) + "\n")
	case a.stage != "":
		b.WriteString("  " + a.spinner.View() + " " + a.theme.Stage.Render(a.stage) + "\n")
	default:
		b.WriteString("  " + a.spinner.View() + " Starting installation...\n")
	}

	b.WriteString("\n  " + a.bar.ViewAs(a.fraction) + "\n\n")

	for _, line := range a.lines {
		style := a.theme.Dim
		if line.terminal {
			style = a.theme.Completed
		}
		b.WriteString(style.Render("  "+line.text) + "\n")
	}

	return b.String()
}

func (a *ApplyScreen) StatusHints() []KeyHint {
	if a.subState == applySubStateDone {
		return []KeyHint{{Key: "Enter", Desc: "exit"}}
	}

	return []KeyHint{{Key: "Ctrl+C", Desc: "cancel"}}
}

// Lines returns the stage log (for testing).
func (a *ApplyScreen) Lines() []string {
	lines := make([]string, len(a.lines))
	for i, l := range a.lines {
		lines[i] = l.text
	}

	return lines
}

// Fraction returns the last reported completion fraction (for testing).
func (a *ApplyScreen) Fraction() float64 {
	return a.fraction
}

// ApplySubState returns the current sub-state (for testing).
func (a *ApplyScreen) ApplySubState() int {
	return a.subState
}
