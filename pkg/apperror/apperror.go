// Package apperror classifies failures so the interactive session can decide
// whether to abort (startup) or report and continue (everything else).
package apperror

import (
	"errors"
	"fmt"
)

// Kind is the category of an application error.
type Kind string

const (
	// KindStartup covers missing model, tokenizer or schema. Fatal.
	KindStartup Kind = "startup"
	// KindInference covers forward-pass failures. Recoverable.
	KindInference Kind = "inference"
	// KindPersistence covers store failures and constraint violations. Recoverable.
	KindPersistence Kind = "persistence"
	// KindInput covers malformed user input. Recoverable, re-prompt.
	KindInput Kind = "input"
)

// Error is a categorized error with a user-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Startup creates a fatal startup error.
func Startup(message string, cause error) *Error {
	return &Error{Kind: KindStartup, Message: message, Cause: cause}
}

// Inference creates a recoverable inference error.
func Inference(message string, cause error) *Error {
	return &Error{Kind: KindInference, Message: message, Cause: cause}
}

// Persistence creates a recoverable persistence error.
func Persistence(message string, cause error) *Error {
	return &Error{Kind: KindPersistence, Message: message, Cause: cause}
}

// Input creates a recoverable input error.
func Input(message string) *Error {
	return &Error{Kind: KindInput, Message: message}
}

// Inputf creates an input error with a formatted message.
func Inputf(format string, args ...any) *Error {
	return Input(fmt.Sprintf(format, args...))
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// UserMessage returns a message safe to show to the user: the message of the
// categorized error without its internal cause, or a generic text otherwise.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "unexpected error"
}
