package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies workflow failures.
type ErrorKind string

// Workflow error kinds
const (
	KindNotFound               ErrorKind = "NotFound"
	KindInvalidTransition      ErrorKind = "InvalidTransition"
	KindValidationFailed       ErrorKind = "ValidationFailed"
	KindConcurrentModification ErrorKind = "ConcurrentModification"
	KindPersistenceFailure     ErrorKind = "PersistenceFailure"
)

// Sentinels matching each kind, usable with errors.Is.
var (
	ErrNotFound               = errors.New("withdrawal request not found")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrValidationFailed       = errors.New("validation failed")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrPersistenceFailure     = errors.New("persistence failure")
)

var sentinels = map[ErrorKind]error{
	KindNotFound:               ErrNotFound,
	KindInvalidTransition:      ErrInvalidTransition,
	KindValidationFailed:       ErrValidationFailed,
	KindConcurrentModification: ErrConcurrentModification,
	KindPersistenceFailure:     ErrPersistenceFailure,
}

// WorkflowError is the typed error returned by every workflow operation.
type WorkflowError struct {
	Kind    ErrorKind
	Current Status // Status the request was in, when known
	Action  Action // Attempted action, when relevant
	Field   string // Offending payload field for ValidationFailed
	Message string
	Err     error // Underlying cause, if any
}

func (e *WorkflowError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = sentinels[e.Kind].Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *WorkflowError) Unwrap() []error {
	errs := []error{sentinels[e.Kind]}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the kind of a workflow error, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we.Kind
	}
	for kind, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return ""
}

// NewNotFound reports an unknown request id.
func NewNotFound(id fmt.Stringer) *WorkflowError {
	return &WorkflowError{Kind: KindNotFound, Message: fmt.Sprintf("withdrawal request %s not found", id)}
}

// NewInvalidTransition reports an action that is not legal from the current status.
func NewInvalidTransition(current Status, action Action, msg string) *WorkflowError {
	if msg == "" {
		msg = fmt.Sprintf("action %s is not allowed from status %s", action, current)
	}
	return &WorkflowError{Kind: KindInvalidTransition, Current: current, Action: action, Message: msg}
}

// NewValidationFailed reports a missing or malformed input field.
func NewValidationFailed(field, msg string) *WorkflowError {
	return &WorkflowError{Kind: KindValidationFailed, Field: field, Message: msg}
}

// NewConcurrentModification reports a lost optimistic write.
func NewConcurrentModification(msg string) *WorkflowError {
	return &WorkflowError{Kind: KindConcurrentModification, Message: msg}
}

// NewPersistenceFailure wraps a storage error.
func NewPersistenceFailure(op string, err error) *WorkflowError {
	return &WorkflowError{Kind: KindPersistenceFailure, Message: op, Err: err}
}
