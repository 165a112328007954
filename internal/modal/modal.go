// Package modal owns dialog open/close state, keyboard focus containment,
// and restoration of prior focus. The UI toolkit supplies the concrete
// focus primitive through the Focusable and Surface capability interfaces.
package modal

import (
	"log/slog"
	"sync"
)

// Focusable is one keyboard-focusable target.
type Focusable interface {
	// ID identifies the target within its surface.
	ID() string

	// Focus moves keyboard focus to the target.
	Focus()

	// Blur removes keyboard focus from the target.
	Blur()
}

// Surface is the document-level focus capability the UI toolkit
// implements.
type Surface interface {
	// Focused returns the currently focused target, if any.
	Focused() (Focusable, bool)

	// Exists reports whether the target is still present. Focus is only
	// restored to targets that still exist.
	Exists(f Focusable) bool
}

// Content is what a dialog places inside the modal: an ordered list of
// focusable targets.
type Content interface {
	Focusables() []Focusable
}

// Key is a keyboard traversal event the manager understands.
type Key int

const (
	// KeyTab moves focus forward, wrapping past the last target.
	KeyTab Key = iota
	// KeyShiftTab moves focus backward, wrapping before the first target.
	KeyShiftTab
	// KeyEscape requests closing the modal. The request is cancelable.
	KeyEscape
)

// CloseReason says why a close was requested.
type CloseReason string

const (
	// ReasonEscape is the Escape key.
	ReasonEscape CloseReason = "escape"
	// ReasonOverlay is a click outside the dialog.
	ReasonOverlay CloseReason = "overlay"
	// ReasonExplicit is a close control or programmatic close.
	ReasonExplicit CloseReason = "explicit"
)

// FocusTrapState is a snapshot of the trap owned by one open modal.
type FocusTrapState struct {
	Active   bool
	Previous Focusable
	First    Focusable
	Last     Focusable
}

// Options configures one Open call.
type Options struct {
	// OnClose runs exactly once when the modal closes.
	OnClose func()

	// OnCloseRequest decides whether a cancelable close request (Escape,
	// overlay click) proceeds. Nil means every request proceeds.
	OnCloseRequest func(reason CloseReason) bool
}

// Manager drives the closed → open → closed lifecycle of one modal at a
// time. Opening while another dialog is open force-closes it first.
type Manager struct {
	surface Surface
	logger  *slog.Logger

	mu         sync.Mutex
	open       bool
	previous   Focusable
	focusables []Focusable
	current    int
	opts       Options
	closed     bool // onClose already fired for this cycle
}

// NewManager creates a modal manager over the given surface.
func NewManager(surface Surface, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		surface: surface,
		logger:  logger,
	}
}

// Open shows content in the modal: the current document focus is
// recorded, the first focusable descendant receives focus, and the trap
// activates.
func (m *Manager) Open(content Content, opts Options) {
	m.mu.Lock()
	wasOpen := m.open
	m.mu.Unlock()

	if wasOpen {
		m.logger.Debug("modal already open, force-closing prior instance")
		m.Close()
	}

	m.mu.Lock()
	if prev, ok := m.surface.Focused(); ok {
		m.previous = prev
	} else {
		m.previous = nil
	}
	m.focusables = content.Focusables()
	m.current = 0
	m.opts = opts
	m.open = true
	m.closed = false

	var first Focusable
	if len(m.focusables) > 0 {
		first = m.focusables[0]
	}
	m.mu.Unlock()

	if first != nil {
		first.Focus()
	}
}

// IsOpen reports whether the modal is open.
func (m *Manager) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// TrapState returns a snapshot of the focus trap.
func (m *Manager) TrapState() FocusTrapState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := FocusTrapState{
		Active:   m.open,
		Previous: m.previous,
	}
	if len(m.focusables) > 0 {
		state.First = m.focusables[0]
		state.Last = m.focusables[len(m.focusables)-1]
	}
	return state
}

// HandleKey processes a traversal key. Tab past the last focusable wraps
// to the first; Shift+Tab before the first wraps to the last; Escape
// emits a cancelable close request. Returns false when the modal is not
// open.
func (m *Manager) HandleKey(key Key) bool {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return false
	}

	switch key {
	case KeyTab, KeyShiftTab:
		if len(m.focusables) == 0 {
			m.mu.Unlock()
			return true
		}
		prev := m.focusables[m.current]
		if key == KeyTab {
			m.current = (m.current + 1) % len(m.focusables)
		} else {
			m.current = (m.current - 1 + len(m.focusables)) % len(m.focusables)
		}
		next := m.focusables[m.current]
		m.mu.Unlock()

		prev.Blur()
		next.Focus()
		return true

	case KeyEscape:
		m.mu.Unlock()
		return m.RequestClose(ReasonEscape)
	}

	m.mu.Unlock()
	return false
}

// RequestClose emits a cancelable close request. The modal closes only if
// the OnCloseRequest callback (when set) allows it.
func (m *Manager) RequestClose(reason CloseReason) bool {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return false
	}
	decide := m.opts.OnCloseRequest
	m.mu.Unlock()

	if decide != nil && !decide(reason) {
		m.logger.Debug("close request cancelled", "reason", string(reason))
		return false
	}
	m.Close()
	return true
}

// Close deactivates the trap, restores the previously focused target if
// it still exists, and fires OnClose exactly once.
func (m *Manager) Close() {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return
	}
	m.open = false
	previous := m.previous
	onClose := m.opts.OnClose
	alreadyClosed := m.closed
	m.closed = true
	m.focusables = nil
	m.current = 0
	m.mu.Unlock()

	if previous != nil && m.surface.Exists(previous) {
		previous.Focus()
	}
	if onClose != nil && !alreadyClosed {
		onClose()
	}
}
