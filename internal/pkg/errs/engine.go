package errs

import (
	"errors"
	"fmt"
)

var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrEmpty             = errors.New("nothing to process")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInfrastructure    = errors.New("infrastructure failure")
)

// ObjectNotFoundError reports that the entity identified by ID does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
	}
	return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)", ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ConflictError reports a lost race. The caller should refresh its view of
// Resource before trying again.
type ConflictError struct {
	Resource string
	Reason   string
	Cause    error
}

func NewConflictError(resource, reason string) *ConflictError {
	return &ConflictError{Resource: resource, Reason: reason}
}

func NewConflictErrorWithCause(resource, reason string, cause error) *ConflictError {
	return &ConflictError{Resource: resource, Reason: reason, Cause: cause}
}

func (e *ConflictError) Error() string {
	return withCause(fmt.Sprintf("%s: %s: %s", ErrConflict, e.Resource, e.Reason), e.Cause)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// InvalidTransitionError reports an action that is not a legal edge from
// State. It means the client and the server disagree about the order state.
type InvalidTransitionError struct {
	Action string
	State  string
}

func NewInvalidTransitionError(action, state string) *InvalidTransitionError {
	return &InvalidTransitionError{Action: action, State: state}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s from state %s", ErrInvalidTransition, e.Action, e.State)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// EmptyError reports that a batch operation found nothing to work on.
type EmptyError struct {
	ParamName string
}

func NewEmptyError(paramName string) *EmptyError {
	return &EmptyError{ParamName: paramName}
}

func (e *EmptyError) Error() string {
	return fmt.Sprintf("%s: no %s", ErrEmpty, e.ParamName)
}

func (e *EmptyError) Unwrap() error {
	return ErrEmpty
}

// UnauthorizedError reports that Subject may not perform the action.
type UnauthorizedError struct {
	Subject string
	Reason  string
}

func NewUnauthorizedError(subject, reason string) *UnauthorizedError {
	return &UnauthorizedError{Subject: subject, Reason: reason}
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrUnauthorized, e.Subject, e.Reason)
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// InfrastructureError wraps a storage or transport failure.
type InfrastructureError struct {
	Operation string
	Cause     error
}

func NewInfrastructureError(operation string) *InfrastructureError {
	return &InfrastructureError{Operation: operation}
}

func NewInfrastructureErrorWithCause(operation string, cause error) *InfrastructureError {
	return &InfrastructureError{Operation: operation, Cause: cause}
}

func (e *InfrastructureError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrInfrastructure, e.Operation), e.Cause)
}

func (e *InfrastructureError) Unwrap() error {
	return ErrInfrastructure
}
