// Package transport implements the HTTP contract between the client core
// and the roster server: the validation endpoint and one mutation endpoint
// per dialog kind.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/rosterkit/internal/schedule/domain"
	"github.com/felixgeelhaar/rosterkit/pkg/observability"
)

const (
	defaultValidatePath = "/api/schedule/validate"

	// CSRFHeader carries the anti-forgery token on mutating calls.
	CSRFHeader = "X-CSRF-Token"
)

var defaultMutationPaths = map[domain.MutationKind]string{
	domain.MutationTrade:          "/api/schedule/trade",
	domain.MutationReschedule:     "/api/schedule/reschedule",
	domain.MutationChangeEmployee: "/api/schedule/change-employee",
	domain.MutationQuickSchedule:  "/api/schedule/quick",
}

// TokenSource supplies the anti-forgery token attached to every mutating
// call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource is a TokenSource returning a fixed token.
type StaticTokenSource string

// Token returns the fixed token.
func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// BreakerConfig configures the per-endpoint circuit breakers.
type BreakerConfig struct {
	// Enabled turns circuit breaking on.
	Enabled bool

	// MaxRequests is the maximum number of requests allowed in half-open
	// state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold is the consecutive-failure count that trips the
	// breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns a sensible default configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          true,
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// httpResult is what a breaker-guarded round-trip produces.
type httpResult struct {
	status int
	body   []byte
}

// Client talks to the roster server. An open circuit breaker surfaces as a
// transport failure; the client never retries on its own.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	logger        *slog.Logger
	tokens        TokenSource
	validatePath  string
	mutationPaths map[domain.MutationKind]string
	breakerCfg    BreakerConfig

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[httpResult]
}

// NewClient creates a transport client for the given API base URL.
func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:       baseURL,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		logger:        logger,
		tokens:        tokens,
		validatePath:  defaultValidatePath,
		mutationPaths: defaultMutationPaths,
		breakerCfg:    DefaultBreakerConfig(),
		breakers:      make(map[string]*gobreaker.CircuitBreaker[httpResult]),
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	if client != nil {
		c.httpClient = client
	}
	return c
}

// WithValidatePath overrides the validation endpoint path.
func (c *Client) WithValidatePath(path string) *Client {
	if path != "" {
		c.validatePath = path
	}
	return c
}

// WithBreakerConfig replaces the circuit breaker configuration.
func (c *Client) WithBreakerConfig(cfg BreakerConfig) *Client {
	c.breakerCfg = cfg
	return c
}

// getBreaker returns the circuit breaker for an endpoint group, creating
// it if needed.
func (c *Client) getBreaker(name string) *gobreaker.CircuitBreaker[httpResult] {
	if !c.breakerCfg.Enabled {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if breaker, exists := c.breakers[name]; exists {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: c.breakerCfg.MaxRequests,
		Interval:    c.breakerCfg.Interval,
		Timeout:     c.breakerCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.breakerCfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Info("circuit breaker state changed",
				"endpoint", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	breaker := gobreaker.NewCircuitBreaker[httpResult](settings)
	c.breakers[name] = breaker
	return breaker
}

// roundTrip POSTs a JSON body and returns status plus response body.
// Business-level statuses (409, 422, ...) count as successful round-trips
// for the breaker; only transport failures trip it.
func (c *Client) roundTrip(ctx context.Context, breakerName, path string, body any, headers map[string]string) (httpResult, error) {
	do := func() (httpResult, error) {
		payload, err := json.Marshal(body)
		if err != nil {
			return httpResult{}, fmt.Errorf("encoding request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return httpResult{}, err
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return httpResult{}, err
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return httpResult{}, err
		}
		return httpResult{status: resp.StatusCode, body: data}, nil
	}

	breaker := c.getBreaker(breakerName)
	if breaker == nil {
		return do()
	}
	return breaker.Execute(do)
}

// validateResponse is the wire shape of the validation endpoint.
type validateResponse struct {
	Success   bool              `json:"success"`
	Severity  domain.Severity   `json:"severity"`
	Valid     bool              `json:"valid"`
	Conflicts []domain.Conflict `json:"conflicts"`
	Warnings  []domain.Warning  `json:"warnings"`
	Error     string            `json:"error"`
}

// ValidateSchedule asks the server whether a proposed assignment is valid.
func (c *Client) ValidateSchedule(ctx context.Context, req domain.ValidationRequest) (domain.ValidationResult, error) {
	req = req.Normalize()
	timer := observability.StartTimer("validate_schedule").WithLogger(c.logger)

	body := struct {
		EmployeeID       string `json:"employee_id"`
		EventID          int64  `json:"event_id"`
		ScheduleDatetime string `json:"schedule_datetime"`
		DurationMinutes  int    `json:"duration_minutes"`
	}{
		EmployeeID:       req.EmployeeID,
		EventID:          req.EventID,
		ScheduleDatetime: req.ScheduleAt.Format(domain.FingerprintTimeLayout),
		DurationMinutes:  req.DurationMinutes,
	}

	result, err := c.roundTrip(ctx, "validate", c.validatePath, body, nil)
	if err != nil {
		timer.StopWithError(err)
		return domain.ValidationResult{}, err
	}

	if result.status != http.StatusOK {
		err := &APIError{
			Status:  result.status,
			Code:    "validation_unavailable",
			Message: displayMessage(result.body, "validation request failed"),
		}
		timer.StopWithError(err)
		return domain.ValidationResult{}, err
	}

	var parsed validateResponse
	if err := json.Unmarshal(result.body, &parsed); err != nil {
		timer.StopWithError(err)
		return domain.ValidationResult{}, fmt.Errorf("%w: %v", ErrUnparseableResponse, err)
	}

	if !parsed.Success {
		err := &APIError{
			Status:  result.status,
			Code:    "validation_rejected",
			Message: parsed.Error,
		}
		timer.StopWithError(err)
		return domain.ValidationResult{}, err
	}

	timer.Stop()
	vr := domain.ValidationResult{
		Severity:  parsed.Severity,
		Valid:     parsed.Valid,
		Conflicts: parsed.Conflicts,
		Warnings:  parsed.Warnings,
	}
	if vr.Conflicts == nil {
		vr.Conflicts = []domain.Conflict{}
	}
	if vr.Warnings == nil {
		vr.Warnings = []domain.Warning{}
	}
	return vr, nil
}

// conflictResponse is the wire shape of a 409 mutation rejection.
type conflictResponse struct {
	Conflicts []domain.Conflict `json:"conflicts"`
}

// SubmitMutation sends a proposed schedule change. The returned outcome is
// Success on 2xx, ConflictSet on 409, Failure on any other status. A
// transport-level failure is returned as an error instead. A client with no
// token source refuses every mutating call with ErrNoToken. Each mutation
// kind runs behind its own circuit breaker.
func (c *Client) SubmitMutation(ctx context.Context, req domain.MutationRequest) (domain.MutationOutcome, error) {
	path, ok := c.mutationPaths[req.Kind()]
	if !ok {
		return domain.MutationOutcome{}, fmt.Errorf("no endpoint for mutation kind %q", req.Kind())
	}

	if c.tokens == nil {
		return domain.MutationOutcome{}, ErrNoToken
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return domain.MutationOutcome{}, err
	}

	timer := observability.StartTimer("submit_" + string(req.Kind())).WithLogger(c.logger)
	result, err := c.roundTrip(ctx, "mutation_"+string(req.Kind()), path, req.Body(), map[string]string{
		CSRFHeader: token,
	})
	if err != nil {
		timer.StopWithError(err)
		return domain.MutationOutcome{}, err
	}
	timer.Stop()

	switch {
	case result.status >= 200 && result.status < 300:
		return domain.SuccessOutcome(), nil

	case result.status == http.StatusConflict:
		var parsed conflictResponse
		if err := json.Unmarshal(result.body, &parsed); err != nil {
			return domain.MutationOutcome{}, fmt.Errorf("%w: %v", ErrUnparseableResponse, err)
		}
		c.logger.Info("mutation rejected with conflicts",
			"kind", string(req.Kind()),
			"conflicts", len(parsed.Conflicts),
		)
		return domain.ConflictOutcome(parsed.Conflicts), nil

	default:
		return domain.FailureOutcome(displayMessage(result.body, http.StatusText(result.status))), nil
	}
}

// displayMessage pulls the error/message field from a response body,
// falling back to a default.
func displayMessage(body []byte, fallback string) string {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return fallback
}
