package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const hintGap = "  "

// RenderStatusBar renders keybinding hints for the bottom status bar.
// Hints that do not fit in width are dropped from the end; width <= 0
// means unlimited.
func RenderStatusBar(theme Theme, hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	used := 0

	for _, h := range hints {
		part := theme.StatusKey.Render(h.Key) + " " + h.Desc

		extra := lipgloss.Width(part)
		if len(parts) > 0 {
			extra += len(hintGap)
		}
		if width > 0 && used+extra > width {
			break
		}

		parts = append(parts, part)
		used += extra
	}

	return theme.StatusBar.Render(strings.Join(parts, hintGap))
}
