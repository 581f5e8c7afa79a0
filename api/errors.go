package api

import (
	"errors"
	"fmt"
)

// ErrUnexpectedContentType is wrapped by the TransportError returned when a
// response is not JSON.
var ErrUnexpectedContentType = errors.New("unexpected content-type")

// defaultErrorMsg is the message of a business error without msg.
const defaultErrorMsg = "API error"

// Error is a business failure: the envelope status is not StatusOK.
type Error struct {
	Status int
	Msg    string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return defaultErrorMsg
	}
	return e.Msg
}

// TransportError is a failure before the envelope could be read: a non 2xx
// HTTP status or a response that is not JSON.
type TransportError struct {
	StatusCode int
	Msg        string // server msg when the error body carried one
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusOf returns the business or HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return tErr.StatusCode
	}
	return 0
}
