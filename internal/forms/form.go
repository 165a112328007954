package forms

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/rosterkit/internal/events"
)

// Form binds named fields to declarative rules and tracks per-field
// validation state. One Form belongs to one dialog and dies with it.
type Form struct {
	mu     sync.Mutex
	fields map[string]Field
	order  []string
	rules  map[string][]Rule
	states map[string]*FieldState

	announcer  Announcer
	dispatcher *events.Dispatcher
	logger     *slog.Logger
}

// New creates an empty form.
func New(logger *slog.Logger) *Form {
	if logger == nil {
		logger = slog.Default()
	}
	return &Form{
		fields:    make(map[string]Field),
		rules:     make(map[string][]Rule),
		states:    make(map[string]*FieldState),
		announcer: NoopAnnouncer{},
		logger:    logger,
	}
}

// WithAnnouncer replaces the announcer.
func (f *Form) WithAnnouncer(a Announcer) *Form {
	if a != nil {
		f.announcer = a
	}
	return f
}

// WithDispatcher wires a signal dispatcher for submission outcomes.
func (f *Form) WithDispatcher(d *events.Dispatcher) *Form {
	f.dispatcher = d
	return f
}

// Bind registers a field with its rules. Binding order determines which
// invalid field receives focus when submission is intercepted.
func (f *Form) Bind(field Field, rules ...Rule) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := field.Name()
	if _, exists := f.fields[name]; !exists {
		f.order = append(f.order, name)
	}
	f.fields[name] = field
	f.rules[name] = sortRules(rules)
	f.states[name] = &FieldState{Status: StatusPristine}
}

// ValidateField evaluates the named field's rules in dispatch order,
// short-circuiting on the first failure. The field is marked pending
// while async rules run.
func (f *Form) ValidateField(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	field, ok := f.fields[name]
	if !ok {
		f.mu.Unlock()
		return false, fmt.Errorf("no field bound as %q", name)
	}
	rules := f.rules[name]
	state := f.states[name]
	state.Touched = true
	f.mu.Unlock()

	value := field.Value()
	resolve := f.resolveValue

	for _, rule := range rules {
		switch r := rule.(type) {
		case SyncRule:
			if !r.check(value, resolve) {
				f.markInvalid(name, field, state, rule.message(name))
				return false, nil
			}
		case AsyncRule:
			f.setStatus(state, StatusPending, "")
			passed, err := r.checkAsync(ctx, value)
			if err != nil {
				f.logger.Warn("async rule errored",
					"field", name,
					"error", err,
				)
				f.markInvalid(name, field, state, rule.message(name))
				return false, nil
			}
			if !passed {
				f.markInvalid(name, field, state, rule.message(name))
				return false, nil
			}
		}
	}

	f.setStatus(state, StatusValid, "")
	field.MarkValid()
	return true, nil
}

// ValidateForm validates every bound field concurrently and aggregates to
// a boolean. One summary announcement is made, success or failure, never
// one per field.
func (f *Form) ValidateForm(ctx context.Context) bool {
	f.mu.Lock()
	names := make([]string, len(f.order))
	copy(names, f.order)
	f.mu.Unlock()

	var invalid atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		g.Go(func() error {
			ok, err := f.ValidateField(gctx, name)
			if err != nil || !ok {
				invalid.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	failures := int(invalid.Load())
	if failures > 0 {
		f.announcer.Announce(fmt.Sprintf("%d validation errors", failures), true)
		return false
	}
	f.announcer.Announce("all fields valid", false)
	return true
}

// ClearFieldValidation resets the named field to pristine. This is the
// only path back to pristine.
func (f *Form) ClearFieldValidation(name string) {
	f.mu.Lock()
	field, ok := f.fields[name]
	if ok {
		f.states[name] = &FieldState{Status: StatusPristine}
	}
	f.mu.Unlock()

	if ok {
		field.ClearValidation()
	}
}

// State returns a copy of the named field's state.
func (f *Form) State(name string) (FieldState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, ok := f.states[name]
	if !ok {
		return FieldState{}, false
	}
	return *state, true
}

// FieldNames returns the bound field names in binding order.
func (f *Form) FieldNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, len(f.order))
	copy(names, f.order)
	return names
}

// Submit intercepts a submission attempt. On validation failure the first
// invalid field (in binding order) receives focus, a failure signal is
// emitted, and false is returned — the caller must not submit. On success
// a success signal is emitted and the caller performs the actual network
// submission; the engine never submits anything itself.
func (f *Form) Submit(ctx context.Context) bool {
	if !f.ValidateForm(ctx) {
		if field := f.firstInvalidField(); field != nil {
			field.Focus()
		}
		f.emit(ctx, events.SignalFormValidationFailed)
		return false
	}
	f.emit(ctx, events.SignalFormValidationPassed)
	return true
}

func (f *Form) emit(ctx context.Context, name string) {
	if f.dispatcher == nil {
		return
	}
	if err := f.dispatcher.Emit(ctx, name, map[string]any{"fields": len(f.order)}); err != nil {
		f.logger.Warn("signal dispatch failed", "signal", name, "error", err)
	}
}

func (f *Form) firstInvalidField() Field {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, name := range f.order {
		if f.states[name].Status == StatusInvalid {
			return f.fields[name]
		}
	}
	return nil
}

func (f *Form) resolveValue(name string) (string, bool) {
	f.mu.Lock()
	field, ok := f.fields[name]
	f.mu.Unlock()

	if !ok {
		return "", false
	}
	return field.Value(), true
}

func (f *Form) markInvalid(name string, field Field, state *FieldState, message string) {
	f.setStatus(state, StatusInvalid, message)
	field.MarkInvalid(message)
}

func (f *Form) setStatus(state *FieldState, status FieldStatus, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state.Status = status
	state.Message = message
}
