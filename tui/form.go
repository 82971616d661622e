package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type fieldSpec struct {
	label       string
	placeholder string
	value       string
	password    bool
	limit       int
}

type formField struct {
	label string
	input textinput.Model
}

// form is a vertical stack of text inputs. Enter advances; enter on the last
// field submits.
type form struct {
	fields []formField
	focus  int
}

func newForm(specs ...fieldSpec) form {
	f := form{fields: make([]formField, 0, len(specs))}
	for _, spec := range specs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = spec.placeholder
		ti.SetValue(spec.value)
		if spec.limit > 0 {
			ti.CharLimit = spec.limit
		}
		if spec.password {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.fields = append(f.fields, formField{label: spec.label, input: ti})
	}
	return f
}

func (f *form) focusAt(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	if i < 0 {
		i = len(f.fields) - 1
	}
	if i >= len(f.fields) {
		i = 0
	}
	for j := range f.fields {
		f.fields[j].input.Blur()
	}
	f.focus = i
	return f.fields[i].input.Focus()
}

func (f form) value(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return strings.TrimSpace(f.fields[i].input.Value())
}

// raw returns the untrimmed value, for passwords.
func (f form) raw(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return f.fields[i].input.Value()
}

func (f *form) set(i int, v string) {
	if i < 0 || i >= len(f.fields) {
		return
	}
	f.fields[i].input.SetValue(v)
}

func (f form) onLast() bool {
	return f.focus == len(f.fields)-1
}

// update reports submitted when enter is pressed on the last field.
func (f form) update(msg tea.Msg) (form, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return f, f.focusAt(f.focus + 1), false
		case "shift+tab", "up":
			return f, f.focusAt(f.focus - 1), false
		case "enter":
			if f.onLast() {
				return f, nil, true
			}
			return f, f.focusAt(f.focus + 1), false
		}
	}
	if len(f.fields) == 0 {
		return f, nil, false
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd, false
}

func (f form) view() string {
	lines := make([]string, 0, len(f.fields))
	for i, field := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = priceStyle.Render("> ")
		}
		lines = append(lines, marker+labelStyle.Render(field.label)+field.input.View())
	}
	return strings.Join(lines, "\n")
}
