package engine

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures so the HTTP surface can map each one to
// the right status and disclosure level.
type Kind string

const (
	// KindNotFound covers unknown services, screens, components and actions.
	// Safe to show the raw message to the client.
	KindNotFound Kind = "not_found"
	// KindContractViolation covers cache/tree inconsistencies: unknown node
	// types in a snapshot, missing required bindings. Never user-actionable;
	// logged with full context.
	KindContractViolation Kind = "contract_violation"
	// KindHandlerFailure is an error or panic escaping an event handler.
	// Detail is only disclosed when debug mode is on.
	KindHandlerFailure Kind = "handler_failure"
	// KindValidationFailure is a malformed event request, rejected before
	// any handler runs, with structured per-field messages.
	KindValidationFailure Kind = "validation_failure"
)

// Error is the engine's error type. Fields carries per-field messages for
// validation failures only.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NotFoundf builds a not-found error.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// ContractViolationf builds a contract-violation error.
func ContractViolationf(format string, args ...any) *Error {
	return &Error{Kind: KindContractViolation, Message: fmt.Sprintf(format, args...)}
}

// HandlerFailed wraps an error escaping a handler.
func HandlerFailed(action string, err error) *Error {
	return &Error{
		Kind:    KindHandlerFailure,
		Message: fmt.Sprintf("handler for %q failed", action),
		Err:     err,
	}
}

// ValidationFailed builds a validation error with per-field messages.
func ValidationFailed(fields map[string]string) *Error {
	return &Error{
		Kind:    KindValidationFailure,
		Message: "event request failed validation",
		Fields:  fields,
	}
}

// KindOf extracts the Kind from an error chain; unknown errors are treated
// as handler failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindHandlerFailure
}
