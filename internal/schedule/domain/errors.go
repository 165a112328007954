package domain

import "errors"

var (
	// ErrMissingEmployeeID indicates the request has no employee.
	ErrMissingEmployeeID = errors.New("employee id is required")

	// ErrMissingEventID indicates the request has no event.
	ErrMissingEventID = errors.New("event id is required")

	// ErrMissingScheduleTime indicates the request has no schedule datetime.
	ErrMissingScheduleTime = errors.New("schedule datetime is required")

	// ErrInvalidRequest indicates malformed form data that must not reach
	// the network.
	ErrInvalidRequest = errors.New("invalid form data")

	// ErrIncompleteSelection indicates a mutation was submitted before an
	// unambiguous target selection existed.
	ErrIncompleteSelection = errors.New("selection is incomplete")
)
