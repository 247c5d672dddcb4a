// Package apperr defines the error taxonomy of the client. Every error that
// reaches the user carries a Kind and a human-readable message.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by where it came from.
type Kind int

const (
	KindUnknown Kind = iota
	// KindIO is local file access.
	KindIO
	// KindNetwork is a transport-level failure talking to a remote service.
	KindNetwork
	// KindAPI is a non-2xx status or malformed payload from a known endpoint.
	KindAPI
	// KindConfig is invalid persisted settings.
	KindConfig
	// KindInput is local validation of user-entered text.
	KindInput
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "I/O"
	case KindNetwork:
		return "Network"
	case KindAPI:
		return "API"
	case KindConfig:
		return "Configuration"
	case KindInput:
		return "Input"
	default:
		return "Unknown"
	}
}

// Error is a classified application error.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IO wraps a local file access failure.
func IO(msg string, err error) *Error {
	return &Error{Kind: KindIO, Message: msg, Err: err}
}

// Network wraps a transport failure.
func Network(msg string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: msg, Err: err}
}

// API reports a failure from a known endpoint.
func API(msg string) *Error {
	return &Error{Kind: KindAPI, Message: msg}
}

// APIStatus reports a non-2xx response.
func APIStatus(what string, status int) *Error {
	return &Error{
		Kind:       KindAPI,
		Message:    fmt.Sprintf("Failed to %s: HTTP status %d", what, status),
		StatusCode: status,
	}
}

// Decode reports a malformed payload.
func Decode(what string, err error) *Error {
	return &Error{Kind: KindAPI, Message: "Malformed response while trying to " + what, Err: err}
}

// Config reports invalid settings.
func Config(msg string) *Error {
	return &Error{Kind: KindConfig, Message: msg}
}

// Input reports a validation failure on user-entered text.
func Input(msg string) *Error {
	return &Error{Kind: KindInput, Message: msg}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusCode returns the HTTP status attached to err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// UserMessage returns the message without the kind prefix for input errors,
// which are shown next to the field that caused them.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindInput {
		return e.Message
	}
	return err.Error()
}
