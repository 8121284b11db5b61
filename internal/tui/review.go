package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andreagrandi/jvm-wire/internal/credential"
	"github.com/andreagrandi/jvm-wire/internal/wizard"
)

// KeyInspector describes an SSH private key for the summary.
type KeyInspector func(path string) (credential.KeyInfo, error)

// ReviewScreen is step 4: the finalized summary with Install/Back
// choices.
type ReviewScreen struct {
	theme   Theme
	summary wizard.Summary
	keyLine string
	cursor  int // 0 = Install, 1 = Back
	width   int
}

// NewReviewScreen renders the session's current summary. inspect may be
// nil.
func NewReviewScreen(theme Theme, session *wizard.Session, inspect KeyInspector) *ReviewScreen {
	summary, _ := session.Summary()
	r := &ReviewScreen{theme: theme, summary: summary}

	final, ok := session.Finalized()
	if ok && inspect != nil && !final.Windows() && final.RemoteExec.AuthMethod == wizard.AuthKey &&
		final.RemoteExec.KeyFile != wizard.PlaceholderSecret {
		info, err := inspect(final.RemoteExec.KeyFile)
		if err != nil {
			r.keyLine = theme.Warning.Render("  Key: " + err.Error())
		} else {
			r.keyLine = theme.Dim.Render("  Key: " + info.String())
		}
	}

	return r
}

func (r *ReviewScreen) Init() tea.Cmd { return nil }

func (r *ReviewScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		return r, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			if r.cursor > 0 {
				r.cursor--
			}
		case "right", "l":
			if r.cursor < 1 {
				r.cursor++
			}
		case "p":
			return r, send(showPlanMsg{})
		case "enter":
			if r.cursor == 0 {
				return r, send(startMsg{})
			}
			return r, send(BackMsg{})
		case "esc":
			return r, send(BackMsg{})
		}
	}

	return r, nil
}

func (r *ReviewScreen) View() string {
	var b strings.Builder

	for _, section := range r.summary.Sections() {
		b.WriteString("\n")
		b.WriteString("  " + r.theme.Active.Render(section.Title) + "\n")

		for _, item := range section.Items {
			b.WriteString(r.theme.Dim.Render(fmt.Sprintf("    %-13s", item.Label+":")) + " " + item.Value + "\n")
		}

		if section.Title == "Remote Execution" && r.keyLine != "" {
			b.WriteString("  " + r.keyLine + "\n")
		}
	}

	if len(r.summary.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range r.summary.Warnings {
			b.WriteString(r.theme.Warning.Render("  [!] "+w) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(r.renderChoices())

	return b.String()
}

func (r *ReviewScreen) renderChoices() string {
	labels := []string{"Install", "Back"}
	var parts []string

	for i, label := range labels {
		if i == r.cursor {
			if r.width > 0 {
				parts = append(parts, r.theme.Highlight.Render(" "+label+" "))
			} else {
				parts = append(parts, r.theme.Cursor.Render("["+label+"]"))
			}
		} else {
			parts = append(parts, r.theme.Dim.Render(" "+label+" "))
		}
	}

	return "  " + strings.Join(parts, "  ")
}

func (r *ReviewScreen) StatusHints() []KeyHint {
	return []KeyHint{
		{Key: "←→", Desc: "choose"},
		{Key: "Enter", Desc: "confirm"},
		{Key: "p", Desc: "plan"},
		{Key: "Esc", Desc: "back"},
		{Key: "F1-F4", Desc: "jump"},
	}
}

// Cursor returns the current cursor position (for testing).
func (r *ReviewScreen) Cursor() int {
	return r.cursor
}
