package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FallbackMessage is shown when an error carries no usable text.
const FallbackMessage = "Something went wrong."

// Error is a non-2xx response from the generation service.
type Error struct {
	Status int
	// Detail is the server-supplied "detail" string, if any.
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Request failed with status code %d", e.Status)
}

// Temporary reports whether the status is worth retrying.
func (e *Error) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// TransportError wraps a failure to reach the service or read its reply.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "network error"
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Message returns the single user-facing line for err: the server detail
// when present, otherwise the error text, otherwise FallbackMessage.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return FallbackMessage
}

// newError builds an *Error from a response body, picking up a string
// "detail" field when the body is a JSON object carrying one.
func newError(status int, body []byte) *Error {
	e := &Error{Status: status}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil && len(payload.Detail) > 0 {
		var detail string
		if json.Unmarshal(payload.Detail, &detail) == nil {
			e.Detail = detail
		}
	}
	return e
}
