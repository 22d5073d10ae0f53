package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is a vertical list of prompted text inputs with one focused field.
type form struct {
	prompts []string
	inputs  []textinput.Model
	focus   int
}

func newForm(prompts ...string) form {
	f := form{prompts: prompts, inputs: make([]textinput.Model, len(prompts))}
	for i := range f.inputs {
		ti := textinput.New()
		ti.CharLimit = 256
		ti.Width = 50
		ti.Prompt = "> "
		f.inputs[i] = ti
	}
	return f
}

func newLoginForm() form {
	f := newForm("Enter your username:", "Enter your password:")
	f.inputs[1].EchoMode = textinput.EchoPassword
	f.inputs[1].EchoCharacter = '•'
	return f
}

func newSearchForm() form {
	f := newForm("Enter artist name:", "Enter track title:")
	f.inputs[0].Placeholder = "Artist"
	f.inputs[1].Placeholder = "Track (optional)"
	return f
}

func (f *form) focusField(i int) {
	f.focus = min(max(i, 0), len(f.inputs)-1)
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

// next focuses the following field. It returns false on the last field.
func (f *form) next() bool {
	if f.focus >= len(f.inputs)-1 {
		return false
	}
	f.focusField(f.focus + 1)
	return true
}

func (f *form) prev() {
	f.focusField(f.focus - 1)
}

func (f form) value(i int) string {
	return f.inputs[i].Value()
}

func (f *form) setValue(i int, v string) {
	f.inputs[i].SetValue(v)
}

func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.focusField(0)
}

func (f *form) setWidth(width int) {
	for i := range f.inputs {
		f.inputs[i].Width = max(width-4, 10)
	}
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f form) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if i == f.focus {
			b.WriteString(promptStyle().Render(f.prompts[i]))
		} else {
			b.WriteString(dimStyle().Render(f.prompts[i]))
		}
		b.WriteString("\n")
		b.WriteString(in.View())
	}
	return b.String()
}
