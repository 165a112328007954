// Package events provides a synchronous in-process signal dispatcher used
// by dialogs and forms to announce lifecycle transitions (submission,
// conflict, view reload) to whoever is listening.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Well-known signal names.
const (
	SignalFormValidationPassed = "form.validation_passed"
	SignalFormValidationFailed = "form.validation_failed"
	SignalDialogOpened         = "dialog.opened"
	SignalDialogClosed         = "dialog.closed"
	SignalDialogSubmitted      = "dialog.submitted"
	SignalDialogConflict       = "dialog.conflict"
	SignalDialogSucceeded      = "dialog.succeeded"
	SignalViewReload           = "view.reload"
)

// Signal is one dispatched occurrence.
type Signal struct {
	ID     uuid.UUID
	Name   string
	At     time.Time
	Fields map[string]any
}

// NewSignal creates a signal with the given name and fields.
func NewSignal(name string, fields map[string]any) Signal {
	return Signal{
		ID:     uuid.New(),
		Name:   name,
		At:     time.Now(),
		Fields: fields,
	}
}

// Consumer handles signals for its declared names.
type Consumer interface {
	// SignalNames returns the signal names this consumer wants.
	SignalNames() []string

	// Handle processes one signal.
	Handle(ctx context.Context, sig Signal) error
}

// ConsumerFunc adapts a function to the Consumer interface for a fixed set
// of signal names.
type ConsumerFunc struct {
	Names []string
	Fn    func(ctx context.Context, sig Signal) error
}

// SignalNames returns the declared names.
func (c ConsumerFunc) SignalNames() []string { return c.Names }

// Handle invokes the wrapped function.
func (c ConsumerFunc) Handle(ctx context.Context, sig Signal) error { return c.Fn(ctx, sig) }

// Dispatcher delivers signals synchronously to registered consumers.
type Dispatcher struct {
	mu        sync.RWMutex
	consumers map[string][]Consumer
	logger    *slog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		consumers: make(map[string][]Consumer),
		logger:    logger,
	}
}

// Register adds a consumer for its declared signal names.
func (d *Dispatcher) Register(consumer Consumer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, name := range consumer.SignalNames() {
		d.consumers[name] = append(d.consumers[name], consumer)
		d.logger.Debug("registered signal consumer", "signal", name)
	}
}

// Dispatch sends a signal to all consumers registered for its name.
// Consumer errors are logged and aggregated; delivery continues past a
// failing consumer.
func (d *Dispatcher) Dispatch(ctx context.Context, sig Signal) error {
	d.mu.RLock()
	consumers := d.consumers[sig.Name]
	d.mu.RUnlock()

	if len(consumers) == 0 {
		d.logger.Debug("no consumers for signal", "signal", sig.Name)
		return nil
	}

	var lastErr error
	for _, consumer := range consumers {
		if err := consumer.Handle(ctx, sig); err != nil {
			d.logger.Error("signal consumer failed",
				"signal", sig.Name,
				"signal_id", sig.ID,
				"error", err,
			)
			lastErr = err
		}
	}
	return lastErr
}

// Emit is shorthand for Dispatch(NewSignal(name, fields)).
func (d *Dispatcher) Emit(ctx context.Context, name string, fields map[string]any) error {
	return d.Dispatch(ctx, NewSignal(name, fields))
}

// ConsumerCount returns the number of registered consumer bindings.
func (d *Dispatcher) ConsumerCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	count := 0
	for _, list := range d.consumers {
		count += len(list)
	}
	return count
}
