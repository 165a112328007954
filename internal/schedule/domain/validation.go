// Package domain defines the shared value types of the roster client core:
// validation requests and results, conflicts, and mutation payloads.
package domain

import (
	"fmt"
	"time"
)

// DefaultDurationMinutes is assumed when a validation request carries no
// explicit duration.
const DefaultDurationMinutes = 120

// FingerprintTimeLayout is the canonical datetime layout used in cache keys
// and on the wire.
const FingerprintTimeLayout = "2006-01-02T15:04:05"

// Severity classifies a validation result or a single conflict.
type Severity string

const (
	// SeveritySuccess indicates the proposed change passed all rules.
	SeveritySuccess Severity = "success"
	// SeverityWarning indicates the change is allowed but questionable.
	SeverityWarning Severity = "warning"
	// SeverityError indicates the change violates a hard rule.
	SeverityError Severity = "error"
)

// Blocks reports whether this severity prevents submission.
func (s Severity) Blocks() bool {
	return s == SeverityError
}

// ValidationRequest describes a proposed schedule assignment to be checked
// by the server-side constraint solver. Immutable once constructed; its
// fingerprint is the cache key.
type ValidationRequest struct {
	EmployeeID      string
	EventID         int64
	ScheduleAt      time.Time
	DurationMinutes int
}

// Normalize returns a copy with defaults applied.
func (r ValidationRequest) Normalize() ValidationRequest {
	if r.DurationMinutes <= 0 {
		r.DurationMinutes = DefaultDurationMinutes
	}
	return r
}

// Validate checks that the request is well-formed. A malformed request must
// never reach the network.
func (r ValidationRequest) Validate() error {
	if r.EmployeeID == "" {
		return ErrMissingEmployeeID
	}
	if r.EventID == 0 {
		return ErrMissingEventID
	}
	if r.ScheduleAt.IsZero() {
		return ErrMissingScheduleTime
	}
	return nil
}

// Fingerprint returns the canonical serialization of the request's fields,
// used as the result cache key.
func (r ValidationRequest) Fingerprint() string {
	n := r.Normalize()
	return fmt.Sprintf("%s|%d|%s|%d",
		n.EmployeeID,
		n.EventID,
		n.ScheduleAt.Format(FingerprintTimeLayout),
		n.DurationMinutes,
	)
}

// Conflict is a structured, business-rule-level reason a change was
// rejected. The core does not interpret Type semantically, only renders it.
type Conflict struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	Detail   string   `json:"detail,omitempty"`
	Severity Severity `json:"severity"`
}

// Warning is a non-blocking rule finding attached to a validation result.
type Warning struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	Detail   string   `json:"detail,omitempty"`
	Severity Severity `json:"severity"`
}

// ValidationResult is the server's answer to a ValidationRequest.
type ValidationResult struct {
	Severity  Severity   `json:"severity"`
	Valid     bool       `json:"valid"`
	Conflicts []Conflict `json:"conflicts"`
	Warnings  []Warning  `json:"warnings"`
}

// MaySubmit reports whether submission may proceed with this result.
func (r ValidationResult) MaySubmit() bool {
	return r.Valid && !r.Severity.Blocks()
}

// UpdateKind tags the variants of a ValidationUpdate.
type UpdateKind string

const (
	// UpdateLoading signals that a validation round-trip has started.
	UpdateLoading UpdateKind = "loading"
	// UpdateFailed signals an input or transport failure.
	UpdateFailed UpdateKind = "failed"
	// UpdateCompleted carries the final validation result.
	UpdateCompleted UpdateKind = "completed"
)

// ValidationUpdate is one element of the callback result stream emitted by
// the validation client: Loading, Failed (with an optional retry closure),
// or Completed.
type ValidationUpdate struct {
	Kind   UpdateKind
	Err    error
	Retry  func()
	Result ValidationResult
}

// LoadingUpdate signals the start of a validation round-trip.
func LoadingUpdate() ValidationUpdate {
	return ValidationUpdate{Kind: UpdateLoading}
}

// FailedUpdate wraps a failure. retry may be nil for input errors, which
// are not retryable.
func FailedUpdate(err error, retry func()) ValidationUpdate {
	return ValidationUpdate{Kind: UpdateFailed, Err: err, Retry: retry}
}

// CompletedUpdate wraps a final result.
func CompletedUpdate(result ValidationResult) ValidationUpdate {
	return ValidationUpdate{Kind: UpdateCompleted, Result: result}
}
