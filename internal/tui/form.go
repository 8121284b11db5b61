package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldSecret
	fieldArea
	fieldChoice
	fieldList
	fieldToggle
)

// field is one row of a step form.
type field struct {
	key    string
	label  string
	kind   fieldKind
	hidden bool

	input textinput.Model
	area  textarea.Model

	// options and choice back fieldChoice and fieldList. A choice of -1
	// means nothing is selected yet.
	options []string
	choice  int

	on bool
}

func newTextField(key, label, value string) *field {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 500
	ti.SetValue(value)

	return &field{key: key, label: label, kind: fieldText, input: ti}
}

func newSecretField(key, label, value string) *field {
	f := newTextField(key, label, value)
	f.kind = fieldSecret
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '*'
	return f
}

func newAreaField(key, label, value string) *field {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = "  "
	ta.SetHeight(4)
	ta.SetWidth(48)
	ta.SetValue(value)

	return &field{key: key, label: label, kind: fieldArea, area: ta}
}

func newChoiceField(key, label string, options []string, choice int) *field {
	return &field{key: key, label: label, kind: fieldChoice, options: options, choice: choice}
}

func newListField(key, label string, options []string, choice int) *field {
	return &field{key: key, label: label, kind: fieldList, options: options, choice: choice}
}

func newToggleField(key, label string, on bool) *field {
	return &field{key: key, label: label, kind: fieldToggle, on: on}
}

func (f *field) value() string {
	switch f.kind {
	case fieldArea:
		return f.area.Value()
	case fieldText, fieldSecret:
		return f.input.Value()
	}

	return ""
}

// setValue replaces a text value without moving focus. It is a no-op when
// the value is unchanged so the cursor stays put while typing.
func (f *field) setValue(v string) {
	if f.value() == v {
		return
	}

	switch f.kind {
	case fieldArea:
		f.area.SetValue(v)
	case fieldText, fieldSecret:
		f.input.SetValue(v)
	}
}

func (f *field) focus() tea.Cmd {
	switch f.kind {
	case fieldArea:
		return f.area.Focus()
	case fieldText, fieldSecret:
		return f.input.Focus()
	}

	return nil
}

func (f *field) blur() {
	switch f.kind {
	case fieldArea:
		f.area.Blur()
	case fieldText, fieldSecret:
		f.input.Blur()
	}
}

// form is a vertical list of fields with a single focused row. Hidden
// fields are skipped by navigation and not rendered.
type form struct {
	fields []*field
	focus  int
}

func newForm(fields ...*field) *form {
	f := &form{fields: fields}
	f.focus = f.next(-1, 1)
	if f.focus >= 0 {
		f.fields[f.focus].focus()
	}

	return f
}

func (f *form) field(key string) *field {
	for _, fd := range f.fields {
		if fd.key == key {
			return fd
		}
	}

	return nil
}

func (f *form) focused() *field {
	if f.focus < 0 || f.focus >= len(f.fields) {
		return nil
	}

	return f.fields[f.focus]
}

// next returns the index of the next visible field from i in direction
// dir, or i when there is none.
func (f *form) next(i, dir int) int {
	for j := i + dir; j >= 0 && j < len(f.fields); j += dir {
		if !f.fields[j].hidden {
			return j
		}
	}

	return i
}

func (f *form) move(dir int) tea.Cmd {
	to := f.next(f.focus, dir)
	if to == f.focus || to < 0 {
		return nil
	}

	if cur := f.focused(); cur != nil {
		cur.blur()
	}
	f.focus = to

	return f.fields[to].focus()
}

// ensureVisible moves focus off a field that has just been hidden.
func (f *form) ensureVisible() tea.Cmd {
	cur := f.focused()
	if cur == nil || !cur.hidden {
		return nil
	}

	if to := f.next(f.focus, -1); to != f.focus {
		cur.blur()
		f.focus = to
		return f.fields[to].focus()
	}

	return f.move(1)
}

// update routes a key to the focused field. It reports the field whose
// value changed, if any. Enter and Esc are left to the caller.
func (f *form) update(msg tea.KeyMsg) (*field, tea.Cmd) {
	cur := f.focused()
	if cur == nil {
		return nil, nil
	}

	key := msg.String()

	switch key {
	case "tab":
		return nil, f.move(1)
	case "shift+tab":
		return nil, f.move(-1)
	}

	switch cur.kind {
	case fieldText, fieldSecret:
		switch key {
		case "up":
			return nil, f.move(-1)
		case "down":
			return nil, f.move(1)
		}

		before := cur.input.Value()
		var cmd tea.Cmd
		cur.input, cmd = cur.input.Update(msg)
		if cur.input.Value() != before {
			return cur, cmd
		}
		return nil, cmd

	case fieldArea:
		before := cur.area.Value()
		var cmd tea.Cmd
		cur.area, cmd = cur.area.Update(msg)
		if cur.area.Value() != before {
			return cur, cmd
		}
		return nil, cmd

	case fieldChoice:
		switch key {
		case "up", "k":
			return nil, f.move(-1)
		case "down", "j":
			return nil, f.move(1)
		case "left", "h":
			if cur.choice > 0 {
				cur.choice--
				return cur, nil
			}
		case "right", "l", " ":
			if cur.choice < len(cur.options)-1 {
				cur.choice++
				return cur, nil
			}
		}

	case fieldList:
		switch key {
		case "up", "k":
			if cur.choice <= 0 {
				return nil, f.move(-1)
			}
			cur.choice--
			return cur, nil
		case "down", "j":
			if cur.choice >= len(cur.options)-1 {
				return nil, f.move(1)
			}
			cur.choice++
			return cur, nil
		}

	case fieldToggle:
		switch key {
		case "up", "k":
			return nil, f.move(-1)
		case "down", "j":
			return nil, f.move(1)
		case " ", "x":
			cur.on = !cur.on
			return cur, nil
		}
	}

	return nil, nil
}

func (f *form) view(theme Theme, width int) string {
	var b strings.Builder

	for i, fd := range f.fields {
		if fd.hidden {
			continue
		}

		focused := i == f.focus
		b.WriteString(renderField(theme, fd, focused, width))
	}

	return b.String()
}

func renderField(theme Theme, fd *field, focused bool, width int) string {
	marker := "  "
	label := theme.Dim.Render(fd.label + ":")
	if focused {
		marker = theme.Cursor.Render("❯ ")
		label = theme.Active.Render(fd.label + ":")
	}

	switch fd.kind {
	case fieldText, fieldSecret:
		return marker + label + " " + fd.input.View() + "\n"

	case fieldArea:
		return marker + label + "\n" + fd.area.View() + "\n"

	case fieldChoice:
		var parts []string
		for i, opt := range fd.options {
			switch {
			case i == fd.choice && focused && width > 0:
				parts = append(parts, theme.Highlight.Render(" "+opt+" "))
			case i == fd.choice:
				parts = append(parts, theme.Cursor.Render("["+opt+"]"))
			default:
				parts = append(parts, theme.Dim.Render(" "+opt+" "))
			}
		}
		return marker + label + " " + strings.Join(parts, " ") + "\n"

	case fieldList:
		var b strings.Builder
		b.WriteString(marker + label + "\n")
		if len(fd.options) == 0 {
			b.WriteString(theme.Dim.Render("      (none available)") + "\n")
		}
		for i, opt := range fd.options {
			if i == fd.choice {
				b.WriteString("    " + theme.Selected.Render("◉ "+opt) + "\n")
			} else {
				b.WriteString("    " + theme.Dim.Render("○ "+opt) + "\n")
			}
		}
		return b.String()

	case fieldToggle:
		box := "[ ]"
		if fd.on {
			box = theme.Selected.Render("[x]")
		}
		return marker + box + " " + fd.label + "\n"
	}

	return ""
}

// Focused returns the key of the focused field (for testing).
func (f *form) Focused() string {
	if cur := f.focused(); cur != nil {
		return cur.key
	}

	return ""
}
