package errprocess

import (
	"errors"
	"fmt"

	"messenger_service/pkg/logger"

	"go.uber.org/zap"
)

// error kinds, match with errors.Is
var (
	ErrTransport  = errors.New("transport error")
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

// TransportError network or HTTP failure talking to the backend
type TransportError struct {
	Method string
	URL    string
	Status int // 0 when no response was received
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is match ErrTransport
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ValidationError empty required field or invalid input
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is match ErrValidation
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError referenced entity absent
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// Is match ErrNotFound
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateContactError owner already has a contact with this phone number
type DuplicateContactError struct {
	OwnerID     string
	PhoneNumber string
}

func (e *DuplicateContactError) Error() string {
	return fmt.Sprintf("contact %s already exists", e.PhoneNumber)
}

// Is a duplicate contact is a validation failure
func (e *DuplicateContactError) Is(target error) bool { return target == ErrValidation }

// Validation build a ValidationError
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFound build a NotFoundError
func NotFound(resource, key string) error {
	return &NotFoundError{Resource: resource, Key: key}
}

// Set log err and return it unchanged
func Set(op string, err error) error {
	if err == nil {
		return nil
	}
	logger.Log.Error(op, zap.Error(err))
	return err
}
