package tui

import tea "github.com/charmbracelet/bubbletea"

// KeyHint describes a keybinding shown in the status bar.
type KeyHint struct {
	Key  string
	Desc string
}

// Screen defines the interface each wizard screen must implement.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	StatusHints() []KeyHint
}

// BackMsg requests the previous wizard step.
type BackMsg struct{}

// advanceMsg requests the next wizard step.
type advanceMsg struct{}

// startMsg is sent when the user confirms the installation.
type startMsg struct{}

// showPlanMsg opens the rendered plan in an output screen.
type showPlanMsg struct{}

// closeOutputMsg returns from an output screen to the screen it covered.
type closeOutputMsg struct{}

// noticeExpiredMsg triggers a redraw once a validation notice times out.
type noticeExpiredMsg struct{}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// stepHints are the navigation keys shared by the form steps.
func stepHints() []KeyHint {
	return []KeyHint{
		{Key: "Tab", Desc: "next field"},
		{Key: "Enter", Desc: "continue"},
		{Key: "Esc", Desc: "back"},
		{Key: "F1-F4", Desc: "jump"},
	}
}
