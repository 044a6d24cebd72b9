// Package errs is the domain error taxonomy shared by every service.
//
// Each structured error matches one sentinel through errors.Is, so callers can
// branch on the kind without caring about the details:
//
//	if errors.Is(err, errs.ErrNotFound) { ... }
//
// and recover the details with errors.As when they need the entity or id.
package errs

import (
	"errors"
	"fmt"
)

// Entity names the kind of record an error refers to.
type Entity string

const (
	EntityLedgerEntry Entity = "ledger entry"
	EntityAccount     Entity = "account"
	EntityClient      Entity = "client"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotFound            = errors.New("not found")
	ErrUpstream            = errors.New("upstream service failure")
	ErrConflict            = errors.New("conflict")
	// ErrUnauthorized is returned for any failed login or token refresh.
	ErrUnauthorized = errors.New("invalid credentials")
)

// ValidationError reports malformed input detected before any I/O.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid is shorthand for a ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// InsufficientBalanceError reports a closing balance below zero.
type InsufficientBalanceError struct {
	Opening int64
	Amount  int64
	Closing int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: opening %d, amount %d, closing %d", e.Opening, e.Amount, e.Closing)
}

func (e *InsufficientBalanceError) Is(target error) bool { return target == ErrInsufficientBalance }

// NotFoundError reports a legitimately absent record, local or remote.
type NotFoundError struct {
	Entity Entity
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// UpstreamError reports a remote dependency that failed for a reason other
// than absence. Cause is for logs only; it must not reach API callers.
type UpstreamError struct {
	Entity Entity
	ID     int64
	Cause  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("failed to resolve %s %d: %v", e.Entity, e.ID, e.Cause)
}

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

func (e *UpstreamError) Unwrap() error { return e.Cause }

// ConflictError reports a mutation refused because of the record's relations.
type ConflictError struct {
	Entity Entity
	ID     int64
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d: %s", e.Entity, e.ID, e.Reason)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// IsNotFoundOf reports whether err is a NotFoundError for the given entity.
func IsNotFoundOf(err error, entity Entity) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Entity == entity
}

// IsClientError reports whether err was caused by the caller's input or by
// the state of the records it referenced, as opposed to infrastructure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrUnauthorized)
}
