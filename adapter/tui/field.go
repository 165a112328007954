// Package tui adapts the modal and form capability interfaces onto
// charmbracelet's terminal toolkit. It exists so the validation and dialog
// packages can be driven by a real focus surface instead of fakes.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/rosterkit/internal/forms"
	"github.com/felixgeelhaar/rosterkit/internal/modal"
)

var (
	labelStyle   = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	validStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4D96FF"))
)

// FieldAdapter backs one bound form field with a textinput model. It
// implements both forms.Field (validation visuals) and modal.Focusable
// (focus ring membership).
type FieldAdapter struct {
	name    string
	label   string
	input   textinput.Model
	status  forms.FieldStatus
	message string
}

// NewField creates a labelled text input bound under the given name.
func NewField(name, label, placeholder string) *FieldAdapter {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = "> "
	return &FieldAdapter{
		name:   name,
		label:  label,
		input:  input,
		status: forms.StatusPristine,
	}
}

// Name returns the field's binding name.
func (f *FieldAdapter) Name() string { return f.name }

// ID returns the focus ring identity.
func (f *FieldAdapter) ID() string { return f.name }

// Value returns the current input content.
func (f *FieldAdapter) Value() string { return f.input.Value() }

// SetValue replaces the input content.
func (f *FieldAdapter) SetValue(v string) { f.input.SetValue(v) }

// MarkInvalid applies the error visual state with the given message.
func (f *FieldAdapter) MarkInvalid(message string) {
	f.status = forms.StatusInvalid
	f.message = message
}

// MarkValid applies the success visual state.
func (f *FieldAdapter) MarkValid() {
	f.status = forms.StatusValid
	f.message = ""
}

// ClearValidation removes any validation visual state.
func (f *FieldAdapter) ClearValidation() {
	f.status = forms.StatusPristine
	f.message = ""
}

// Status exposes the current validation visual state.
func (f *FieldAdapter) Status() forms.FieldStatus { return f.status }

// Focus moves keyboard focus to the input.
func (f *FieldAdapter) Focus() { f.input.Focus() }

// Blur removes keyboard focus from the input.
func (f *FieldAdapter) Blur() { f.input.Blur() }

// Focused reports whether the input holds keyboard focus.
func (f *FieldAdapter) Focused() bool { return f.input.Focused() }

// Update forwards a message to the focused input.
func (f *FieldAdapter) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// View renders the label, input, and any validation message.
func (f *FieldAdapter) View() string {
	label := labelStyle.Render(f.label)
	if f.Focused() {
		label = focusedStyle.Render(f.label)
	}
	out := label + "\n" + f.input.View()
	switch f.status {
	case forms.StatusInvalid:
		out += "\n" + errorStyle.Render(f.message)
	case forms.StatusValid:
		out += "\n" + validStyle.Render("ok")
	}
	return out
}

var (
	_ forms.Field     = (*FieldAdapter)(nil)
	_ modal.Focusable = (*FieldAdapter)(nil)
)
