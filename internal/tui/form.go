package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type option struct {
	value string
	label string
}

// formField is either a text input or, when options is set, a select
// cycled with left/right/space.
type formField struct {
	key      string
	label    string
	input    textinput.Model
	options  []option
	selected int
}

func textField(key, label, placeholder, value string) formField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 120
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.SetValue(value)
	return formField{key: key, label: label, input: ti}
}

func selectField(key, label string, opts []option, value string) formField {
	f := formField{key: key, label: label, options: opts}
	for i, o := range opts {
		if o.value == value {
			f.selected = i
		}
	}
	return f
}

func (f *formField) cycle(delta int) {
	n := len(f.options)
	if n == 0 {
		return
	}
	f.selected = ((f.selected+delta)%n + n) % n
}

func (f formField) value() string {
	if f.options != nil {
		if len(f.options) == 0 {
			return ""
		}
		return f.options[f.selected].value
	}
	return strings.TrimSpace(f.input.Value())
}

type form struct {
	title  string
	fields []formField
	focus  int
}

func newForm(title string, fields ...formField) *form {
	f := &form{title: title, fields: fields}
	f.focusField(0)
	return f
}

func (f *form) focusField(i int) {
	if len(f.fields) == 0 {
		return
	}
	for j := range f.fields {
		f.fields[j].input.Blur()
	}
	f.focus = i
	if f.fields[i].options == nil {
		f.fields[i].input.Focus()
	}
}

func (f *form) move(delta int) {
	n := len(f.fields)
	if n == 0 {
		return
	}
	f.focusField(((f.focus+delta)%n + n) % n)
}

// Update routes a key to the focused field.
func (f *form) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		f.move(1)
		return nil
	case "shift+tab", "up":
		f.move(-1)
		return nil
	}
	if len(f.fields) == 0 {
		return nil
	}
	fld := &f.fields[f.focus]
	if fld.options != nil {
		switch msg.String() {
		case "left":
			fld.cycle(-1)
		case "right", " ", "space":
			fld.cycle(1)
		}
		return nil
	}
	var cmd tea.Cmd
	fld.input, cmd = fld.input.Update(msg)
	return cmd
}

// Value returns the trimmed value of the field with key.
func (f *form) Value(key string) string {
	for _, fld := range f.fields {
		if fld.key == key {
			return fld.value()
		}
	}
	return ""
}

// Values returns every field whose key has the given prefix, prefix stripped.
func (f *form) Values(prefix string) map[string]string {
	out := map[string]string{}
	for _, fld := range f.fields {
		if strings.HasPrefix(fld.key, prefix) {
			out[strings.TrimPrefix(fld.key, prefix)] = fld.value()
		}
	}
	return out
}

func (f *form) View(st styles) string {
	var b strings.Builder
	b.WriteString(st.title.Render(f.title) + "\n")
	width := 0
	for _, fld := range f.fields {
		if len(fld.label) > width {
			width = len(fld.label)
		}
	}
	for i, fld := range f.fields {
		marker := " "
		label := st.muted
		if i == f.focus {
			marker = "▶"
			label = st.selected
		}
		var value string
		switch {
		case fld.options == nil:
			value = fld.input.View()
		case len(fld.options) > 0:
			value = "< " + fld.options[fld.selected].label + " >"
		}
		fmt.Fprintf(&b, "%s %s  %s\n", marker, label.Render(fmt.Sprintf("%-*s", width, fld.label)), value)
	}
	b.WriteString(st.muted.Render("[tab] Next field  [←/→] Change option  [enter] Save  [esc] Cancel"))
	return b.String()
}
