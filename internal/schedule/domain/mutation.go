package domain

import (
	"errors"
	"time"
)

// MutationKind identifies which mutation flow a request belongs to. Each
// kind maps to its own server endpoint.
type MutationKind string

const (
	// MutationTrade swaps two schedule records between employees.
	MutationTrade MutationKind = "trade"
	// MutationReschedule moves one schedule record to a new date and time.
	MutationReschedule MutationKind = "reschedule"
	// MutationChangeEmployee reassigns a schedule record to another employee.
	MutationChangeEmployee MutationKind = "change_employee"
	// MutationQuickSchedule creates a schedule record in one step.
	MutationQuickSchedule MutationKind = "quick_schedule"
)

// MutationRequest is the proposed change a dialog submits on confirm. Each
// variant references the schedule record(s) being mutated plus the proposed
// new values.
type MutationRequest interface {
	// Kind identifies the mutation flow.
	Kind() MutationKind

	// Validate checks that the selection is complete and unambiguous.
	Validate() error

	// Body returns the wire payload for the mutation endpoint.
	Body() any
}

// TradeRequest swaps two schedule records.
type TradeRequest struct {
	ScheduleID1 int64
	ScheduleID2 int64
}

// Kind identifies the mutation flow.
func (r TradeRequest) Kind() MutationKind { return MutationTrade }

// Validate checks that both schedule records are selected and distinct.
func (r TradeRequest) Validate() error {
	if r.ScheduleID1 == 0 || r.ScheduleID2 == 0 {
		return ErrIncompleteSelection
	}
	if r.ScheduleID1 == r.ScheduleID2 {
		return errors.New("cannot trade a schedule with itself")
	}
	return nil
}

// Body returns the wire payload.
func (r TradeRequest) Body() any {
	return struct {
		ScheduleID1 int64 `json:"schedule_1_id"`
		ScheduleID2 int64 `json:"schedule_2_id"`
	}{r.ScheduleID1, r.ScheduleID2}
}

// RescheduleRequest moves a schedule record to a new date and time.
type RescheduleRequest struct {
	ScheduleID int64
	NewDate    string // YYYY-MM-DD
	NewTime    string // HH:MM
}

// Kind identifies the mutation flow.
func (r RescheduleRequest) Kind() MutationKind { return MutationReschedule }

// Validate checks that a target date and time are selected.
func (r RescheduleRequest) Validate() error {
	if r.ScheduleID == 0 || r.NewDate == "" || r.NewTime == "" {
		return ErrIncompleteSelection
	}
	if _, err := time.Parse("2006-01-02", r.NewDate); err != nil {
		return errors.New("new date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", r.NewTime); err != nil {
		return errors.New("new time must be HH:MM")
	}
	return nil
}

// Body returns the wire payload.
func (r RescheduleRequest) Body() any {
	return struct {
		ScheduleID int64  `json:"schedule_id"`
		NewDate    string `json:"new_date"`
		NewTime    string `json:"new_time"`
	}{r.ScheduleID, r.NewDate, r.NewTime}
}

// ChangeEmployeeRequest reassigns a schedule record to another employee.
type ChangeEmployeeRequest struct {
	ScheduleID    int64
	NewEmployeeID string
}

// Kind identifies the mutation flow.
func (r ChangeEmployeeRequest) Kind() MutationKind { return MutationChangeEmployee }

// Validate checks that a replacement employee is selected.
func (r ChangeEmployeeRequest) Validate() error {
	if r.ScheduleID == 0 || r.NewEmployeeID == "" {
		return ErrIncompleteSelection
	}
	return nil
}

// Body returns the wire payload.
func (r ChangeEmployeeRequest) Body() any {
	return struct {
		ScheduleID    int64  `json:"schedule_id"`
		NewEmployeeID string `json:"new_employee_id"`
	}{r.ScheduleID, r.NewEmployeeID}
}

// QuickScheduleRequest creates a schedule record in one step.
type QuickScheduleRequest struct {
	EmployeeID      string
	EventID         int64
	ScheduleAt      time.Time
	DurationMinutes int
}

// Kind identifies the mutation flow.
func (r QuickScheduleRequest) Kind() MutationKind { return MutationQuickSchedule }

// Validate checks that the assignment is fully specified.
func (r QuickScheduleRequest) Validate() error {
	req := ValidationRequest{
		EmployeeID:      r.EmployeeID,
		EventID:         r.EventID,
		ScheduleAt:      r.ScheduleAt,
		DurationMinutes: r.DurationMinutes,
	}
	return req.Validate()
}

// Body returns the wire payload.
func (r QuickScheduleRequest) Body() any {
	duration := r.DurationMinutes
	if duration <= 0 {
		duration = DefaultDurationMinutes
	}
	return struct {
		EmployeeID       string `json:"employee_id"`
		EventID          int64  `json:"event_id"`
		ScheduleDatetime string `json:"schedule_datetime"`
		DurationMinutes  int    `json:"duration_minutes"`
	}{r.EmployeeID, r.EventID, r.ScheduleAt.Format(FingerprintTimeLayout), duration}
}

// OutcomeKind tags the variants of a MutationOutcome.
type OutcomeKind string

const (
	// OutcomeSuccess means the server accepted the mutation.
	OutcomeSuccess OutcomeKind = "success"
	// OutcomeConflict means the server rejected the mutation with a
	// structured conflict set.
	OutcomeConflict OutcomeKind = "conflict"
	// OutcomeFailure means the call failed for a non-business reason.
	OutcomeFailure OutcomeKind = "failure"
)

// MutationOutcome is the interpreted server response to a mutation
// submission. Created per submission, consumed once by the owning dialog,
// then discarded.
type MutationOutcome struct {
	Kind      OutcomeKind
	Conflicts []Conflict
	Message   string
}

// SuccessOutcome reports an accepted mutation.
func SuccessOutcome() MutationOutcome {
	return MutationOutcome{Kind: OutcomeSuccess}
}

// ConflictOutcome reports a constraint violation with its conflict set.
func ConflictOutcome(conflicts []Conflict) MutationOutcome {
	return MutationOutcome{Kind: OutcomeConflict, Conflicts: conflicts}
}

// FailureOutcome reports a generic error with display text.
func FailureOutcome(message string) MutationOutcome {
	return MutationOutcome{Kind: OutcomeFailure, Message: message}
}
