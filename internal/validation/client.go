package validation

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/felixgeelhaar/rosterkit/internal/schedule/domain"
	"github.com/felixgeelhaar/rosterkit/pkg/observability"
)

// State describes what the validation client is currently doing.
type State int32

const (
	// StateIdle means no validation is pending or in flight.
	StateIdle State = iota
	// StateDebouncing means a request is waiting out the quiet period.
	StateDebouncing
	// StateInFlight means a network validation call is outstanding.
	StateInFlight
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDebouncing:
		return "debouncing"
	case StateInFlight:
		return "in_flight"
	default:
		return "idle"
	}
}

// RemoteValidator performs the network validation call. Implemented by the
// transport client.
type RemoteValidator interface {
	ValidateSchedule(ctx context.Context, req domain.ValidationRequest) (domain.ValidationResult, error)
}

// UpdateFunc receives the tagged update stream for one validation call.
type UpdateFunc func(domain.ValidationUpdate)

// Client combines the debounce gate and the result cache around the network
// validation call. At most one request is in flight per instance; calls
// arriving mid-flight are dropped, not queued, so a stale response can
// never overwrite a newer result.
type Client struct {
	remote    RemoteValidator
	store     ResultStore
	debouncer *Debouncer
	logger    *slog.Logger

	state    atomic.Int32
	inFlight atomic.Bool
}

// NewClient creates a validation client with an in-memory result store and
// the default debounce delay.
func NewClient(remote RemoteValidator, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		remote:    remote,
		store:     NewMemoryStore(DefaultCacheTTL),
		debouncer: NewDebouncer(DefaultDebounceDelay),
		logger:    logger,
	}
}

// WithStore replaces the result store.
func (c *Client) WithStore(store ResultStore) *Client {
	if store != nil {
		c.store = store
	}
	return c
}

// WithDebounceDelay replaces the debounce quiet period.
func (c *Client) WithDebounceDelay(delay time.Duration) *Client {
	if delay > 0 {
		c.debouncer = NewDebouncer(delay)
	}
	return c
}

// State returns the client's current pipeline state.
func (c *Client) State() State {
	return State(c.state.Load())
}

// Validate checks the proposed schedule assignment, streaming updates to
// fn. Malformed requests fail synchronously with no retry. A cache hit is
// emitted immediately without a loading update or a network call. A miss
// emits a loading update, waits out the debounce window, and issues the
// network call unless one is already in flight, in which case this call is
// dropped silently.
func (c *Client) Validate(ctx context.Context, req domain.ValidationRequest, fn UpdateFunc) {
	if err := req.Validate(); err != nil {
		fn(domain.FailedUpdate(fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err), nil))
		return
	}

	req = req.Normalize()
	key := req.Fingerprint()
	ctx = observability.WithEmployeeID(ctx, req.EmployeeID)

	if result, ok := c.store.Get(ctx, key); ok {
		c.logger.Debug("validation served from cache", "fingerprint", key)
		fn(domain.CompletedUpdate(result))
		return
	}

	fn(domain.LoadingUpdate())

	c.state.CompareAndSwap(int32(StateIdle), int32(StateDebouncing))
	c.debouncer.Do(func() {
		if !c.inFlight.CompareAndSwap(false, true) {
			// Drop, don't queue: the call already in flight wins.
			c.logger.Debug("validation dropped, request already in flight",
				"fingerprint", key,
			)
			return
		}
		c.state.Store(int32(StateInFlight))
		c.run(ctx, req, key, fn)
	})
}

// run issues the network call. The in-flight guard is held on entry and
// released exactly once here.
func (c *Client) run(ctx context.Context, req domain.ValidationRequest, key string, fn UpdateFunc) {
	start := time.Now()
	result, err := c.remote.ValidateSchedule(ctx, req)

	c.inFlight.Store(false)
	c.state.Store(int32(StateIdle))

	if err != nil {
		c.logger.Warn("validation call failed",
			"fingerprint", key,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		fn(domain.FailedUpdate(err, func() {
			c.Validate(ctx, req, fn)
		}))
		return
	}

	if err := c.store.Set(ctx, key, result); err != nil {
		// A dead cache only costs an extra round-trip next time.
		c.logger.Warn("caching validation result failed",
			"fingerprint", key,
			"error", err,
		)
	}

	c.logger.Debug("validation completed",
		"fingerprint", key,
		"severity", string(result.Severity),
		"valid", result.Valid,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	fn(domain.CompletedUpdate(result))
}

// ClearCache empties the result cache. Call after any mutation that could
// invalidate previously cached validations for the same fingerprint.
func (c *Client) ClearCache(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Close cancels any pending debounced call.
func (c *Client) Close() {
	c.debouncer.Stop()
}
