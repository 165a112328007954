package transport

import (
	"errors"
	"fmt"
)

// APIError is a structured error returned by the roster API.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrNoToken indicates the anti-forgery token source produced nothing.
	// The server will reject the call; callers see it as an opaque
	// endpoint error, not a special case.
	ErrNoToken = errors.New("anti-forgery token unavailable")

	// ErrUnparseableResponse indicates the response body could not be
	// decoded.
	ErrUnparseableResponse = errors.New("unparseable response body")
)
