package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// OutputScreen displays pre-rendered text, such as the installation plan,
// with scrolling. Any other key closes it.
type OutputScreen struct {
	theme      Theme
	title      string
	lines      []string
	offset     int
	viewHeight int
}

// NewOutputScreen creates a screen that displays content text.
func NewOutputScreen(theme Theme, title, content string, viewHeight int) *OutputScreen {
	trimmed := strings.TrimRight(content, "\n")

	lines := []string{""}
	if trimmed != "" {
		lines = strings.Split(trimmed, "\n")
	}

	return &OutputScreen{
		theme:      theme,
		title:      title,
		lines:      lines,
		viewHeight: viewHeight,
	}
}

func (o *OutputScreen) Init() tea.Cmd { return nil }

func (o *OutputScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		o.viewHeight = contentHeightFromTerminal(msg.Height)
		if o.offset > o.maxOffset() {
			o.offset = o.maxOffset()
		}
		return o, nil

	case tea.KeyMsg:
		if o.scrollable() {
			switch msg.String() {
			case "up", "k":
				if o.offset > 0 {
					o.offset--
				}
				return o, nil
			case "down", "j":
				if o.offset < o.maxOffset() {
					o.offset++
				}
				return o, nil
			}
		}

		return o, send(closeOutputMsg{})
	}

	return o, nil
}

func (o *OutputScreen) bodyHeight() int {
	// One line for the title.
	h := o.viewHeight - 1
	if h < 1 {
		h = 1
	}

	return h
}

func (o *OutputScreen) View() string {
	var b strings.Builder

	b.WriteString(o.theme.Active.Render(o.title) + "\n")

	height := o.bodyHeight()
	hasMore := o.offset+height < len(o.lines)
	if hasMore {
		height--
	}

	end := min(o.offset+height, len(o.lines))
	for _, line := range o.lines[o.offset:end] {
		b.WriteString(line + "\n")
	}

	if hasMore {
		b.WriteString(o.theme.Dim.Render(fmt.Sprintf("  ▼ ... %d more", len(o.lines)-end)))
	}

	return b.String()
}

func (o *OutputScreen) StatusHints() []KeyHint {
	if o.scrollable() {
		return []KeyHint{
			{Key: "↑↓", Desc: "scroll"},
			{Key: "any key", Desc: "close"},
		}
	}

	return []KeyHint{{Key: "any key", Desc: "close"}}
}

func (o *OutputScreen) scrollable() bool {
	return len(o.lines) > o.bodyHeight()
}

func (o *OutputScreen) maxOffset() int {
	return max(len(o.lines)-o.bodyHeight(), 0)
}

// Offset returns the current scroll offset (for testing).
func (o *OutputScreen) Offset() int {
	return o.offset
}
