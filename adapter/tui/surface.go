package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/rosterkit/internal/modal"
)

// focusReporter is implemented by focusables that can say whether they hold
// keyboard focus right now.
type focusReporter interface {
	Focused() bool
}

// SurfaceAdapter is the terminal's focus surface: the ordered focus ring of
// the active screen. It serves both modal.Surface (who is focused, what
// still exists) and modal.Content (the ring handed to an opening modal).
type SurfaceAdapter struct {
	items []modal.Focusable
}

// NewSurface builds a surface over the given focus ring, in tab order.
func NewSurface(items ...modal.Focusable) *SurfaceAdapter {
	return &SurfaceAdapter{items: items}
}

// Focusables returns the ring in tab order.
func (s *SurfaceAdapter) Focusables() []modal.Focusable {
	out := make([]modal.Focusable, len(s.items))
	copy(out, s.items)
	return out
}

// Focused returns the ring member currently holding keyboard focus.
func (s *SurfaceAdapter) Focused() (modal.Focusable, bool) {
	for _, item := range s.items {
		if r, ok := item.(focusReporter); ok && r.Focused() {
			return item, true
		}
	}
	return nil, false
}

// Exists reports whether the given focusable is still part of the ring.
func (s *SurfaceAdapter) Exists(f modal.Focusable) bool {
	for _, item := range s.items {
		if item.ID() == f.ID() {
			return true
		}
	}
	return false
}

// Remove drops a member from the ring, e.g. when its widget is torn down.
func (s *SurfaceAdapter) Remove(id string) {
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID() != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
}

var (
	_ modal.Surface = (*SurfaceAdapter)(nil)
	_ modal.Content = (*SurfaceAdapter)(nil)
)

var (
	buttonStyle         = lipgloss.NewStyle().Bold(true).Padding(0, 2)
	buttonFocusedStyle  = buttonStyle.Foreground(lipgloss.Color("#4D96FF"))
	buttonDisabledStyle = buttonStyle.Foreground(lipgloss.Color("#888888"))
)

// Button is a focusable action control, used for the dialog submit control.
type Button struct {
	id       string
	label    string
	focused  bool
	disabled bool
}

// NewButton creates a button with the given identity and label.
func NewButton(id, label string) *Button {
	return &Button{id: id, label: label}
}

// ID returns the focus ring identity.
func (b *Button) ID() string { return b.id }

// Focus gives the button keyboard focus.
func (b *Button) Focus() { b.focused = true }

// Blur removes keyboard focus.
func (b *Button) Blur() { b.focused = false }

// Focused reports whether the button holds keyboard focus.
func (b *Button) Focused() bool { return b.focused }

// SetDisabled toggles whether activation is allowed.
func (b *Button) SetDisabled(disabled bool) { b.disabled = disabled }

// Disabled reports whether activation is allowed.
func (b *Button) Disabled() bool { return b.disabled }

// View renders the button.
func (b *Button) View() string {
	switch {
	case b.disabled:
		return buttonDisabledStyle.Render("[ " + b.label + " ]")
	case b.focused:
		return buttonFocusedStyle.Render("[ " + b.label + " ]")
	default:
		return buttonStyle.Render("[ " + b.label + " ]")
	}
}

var _ modal.Focusable = (*Button)(nil)
