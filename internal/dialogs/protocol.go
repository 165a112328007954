// Package dialogs implements the mutation submission protocol shared by the
// trade, reschedule, change-employee, and quick-schedule dialogs. Each dialog
// owns its selection state and request assembly; the protocol owns the
// submit lifecycle and the interpretation of the server's outcome.
package dialogs

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rosterkit/internal/events"
	"github.com/felixgeelhaar/rosterkit/internal/schedule/domain"
	"github.com/felixgeelhaar/rosterkit/pkg/observability"
)

var (
	// ErrSubmitInFlight is returned when a submission is already running.
	ErrSubmitInFlight = errors.New("submission already in flight")
	// ErrDialogClosed is returned when submitting after a successful outcome
	// has closed the dialog.
	ErrDialogClosed = errors.New("dialog already closed")
)

// Phase is the protocol's lifecycle state.
type Phase string

const (
	// PhaseEditing accepts selection changes and submissions. Conflict and
	// failure outcomes return here so the user can correct and resubmit.
	PhaseEditing Phase = "editing"
	// PhaseSubmitting has a mutation call in flight. Submission and close
	// are refused until the call resolves.
	PhaseSubmitting Phase = "submitting"
	// PhaseSuccess is terminal. The dialog has been closed and the view
	// reload requested.
	PhaseSuccess Phase = "success"
)

// Submitter issues one mutation call and interprets the response.
// *transport.Client satisfies this.
type Submitter interface {
	SubmitMutation(ctx context.Context, req domain.MutationRequest) (domain.MutationOutcome, error)
}

// Closer closes the modal hosting the dialog. *modal.Manager satisfies this.
type Closer interface {
	Close()
}

// Protocol drives one dialog's submit lifecycle. Zero value is not usable;
// construct with NewProtocol.
type Protocol struct {
	id         uuid.UUID
	kind       domain.MutationKind
	submitter  Submitter
	dispatcher *events.Dispatcher
	closer     Closer
	logger     *slog.Logger

	mu           sync.Mutex
	phase        Phase
	conflicts    []domain.Conflict
	errMessage   string
	confirmation string
}

// NewProtocol creates a protocol for one dialog instance.
func NewProtocol(kind domain.MutationKind, submitter Submitter, logger *slog.Logger) *Protocol {
	if logger == nil {
		logger = slog.Default()
	}
	return &Protocol{
		id:        uuid.New(),
		kind:      kind,
		submitter: submitter,
		logger:    logger,
		phase:     PhaseEditing,
	}
}

// WithDispatcher wires lifecycle signal emission.
func (p *Protocol) WithDispatcher(d *events.Dispatcher) *Protocol {
	p.dispatcher = d
	return p
}

// WithCloser wires the modal to close on success.
func (p *Protocol) WithCloser(c Closer) *Protocol {
	p.closer = c
	return p
}

// ID identifies this dialog instance in signals and logs.
func (p *Protocol) ID() uuid.UUID { return p.id }

// Kind identifies the mutation flow this protocol drives.
func (p *Protocol) Kind() domain.MutationKind { return p.kind }

// Phase returns the current lifecycle state.
func (p *Protocol) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Conflicts returns the conflict set from the last rejected submission, or
// nil when none is displayed.
func (p *Protocol) Conflicts() []domain.Conflict {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.conflicts) == 0 {
		return nil
	}
	out := make([]domain.Conflict, len(p.conflicts))
	copy(out, p.conflicts)
	return out
}

// ErrorMessage returns the display text from the last failed submission.
func (p *Protocol) ErrorMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errMessage
}

// TakeConfirmation returns the transient success confirmation once. Further
// calls report no confirmation pending.
func (p *Protocol) TakeConfirmation() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.confirmation == "" {
		return "", false
	}
	msg := p.confirmation
	p.confirmation = ""
	return msg, true
}

// CloseAllowed reports whether the dialog may close right now. A dialog with
// a submission in flight refuses to close. Suitable as a modal close-request
// guard.
func (p *Protocol) CloseAllowed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase != PhaseSubmitting
}

// NoteSelectionChanged records that the user picked a new target while a
// prior conflict or error was displayed. The display is cleared so the next
// submission reads as a fresh attempt.
func (p *Protocol) NoteSelectionChanged() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phase != PhaseEditing {
		return
	}
	p.conflicts = nil
	p.errMessage = ""
}

// Submit issues exactly one mutation call for the given request and applies
// the outcome to the dialog state. The request must validate; an incomplete
// selection is an input error and never reaches the network. Submit refuses
// re-entry while a call is in flight and refuses entirely after success.
func (p *Protocol) Submit(ctx context.Context, req domain.MutationRequest) (domain.MutationOutcome, error) {
	p.mu.Lock()
	switch p.phase {
	case PhaseSubmitting:
		p.mu.Unlock()
		return domain.MutationOutcome{}, ErrSubmitInFlight
	case PhaseSuccess:
		p.mu.Unlock()
		return domain.MutationOutcome{}, ErrDialogClosed
	}
	if err := req.Validate(); err != nil {
		p.mu.Unlock()
		return domain.MutationOutcome{}, err
	}
	p.phase = PhaseSubmitting
	p.conflicts = nil
	p.errMessage = ""
	p.mu.Unlock()

	ctx = observability.WithOperation(ctx, "mutation."+string(p.kind))
	p.emit(ctx, events.SignalDialogSubmitted, nil)
	p.logger.InfoContext(ctx, "mutation submitted",
		slog.String("dialog_id", p.id.String()),
		slog.String("kind", string(p.kind)))

	outcome, err := p.submitter.SubmitMutation(ctx, req)
	if err != nil {
		p.logger.WarnContext(ctx, "mutation call failed",
			slog.String("dialog_id", p.id.String()),
			slog.String("kind", string(p.kind)),
			slog.String("error", err.Error()))
		outcome = domain.FailureOutcome(err.Error())
	}

	p.apply(ctx, outcome)
	return outcome, nil
}

func (p *Protocol) apply(ctx context.Context, outcome domain.MutationOutcome) {
	p.mu.Lock()
	switch outcome.Kind {
	case domain.OutcomeSuccess:
		p.phase = PhaseSuccess
		p.confirmation = confirmationFor(p.kind)
		p.mu.Unlock()
		p.emit(ctx, events.SignalDialogSucceeded, nil)
		p.emit(ctx, events.SignalViewReload, map[string]any{"kind": string(p.kind)})
		if p.closer != nil {
			p.closer.Close()
		}
	case domain.OutcomeConflict:
		p.phase = PhaseEditing
		p.conflicts = outcome.Conflicts
		p.mu.Unlock()
		p.emit(ctx, events.SignalDialogConflict, map[string]any{
			"conflict_count": len(outcome.Conflicts),
		})
	default:
		p.phase = PhaseEditing
		p.errMessage = outcome.Message
		p.mu.Unlock()
	}
}

func (p *Protocol) emit(ctx context.Context, name string, fields map[string]any) {
	if p.dispatcher == nil {
		return
	}
	merged := map[string]any{
		"dialog_id": p.id.String(),
		"kind":      string(p.kind),
	}
	for k, v := range fields {
		merged[k] = v
	}
	if err := p.dispatcher.Emit(ctx, name, merged); err != nil {
		p.logger.WarnContext(ctx, "signal dispatch failed",
			slog.String("signal", name),
			slog.String("error", err.Error()))
	}
}

func confirmationFor(kind domain.MutationKind) string {
	switch kind {
	case domain.MutationTrade:
		return "Schedules traded"
	case domain.MutationReschedule:
		return "Schedule moved"
	case domain.MutationChangeEmployee:
		return "Employee reassigned"
	case domain.MutationQuickSchedule:
		return "Schedule created"
	default:
		return "Change saved"
	}
}
