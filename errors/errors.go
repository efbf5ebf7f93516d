/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when no node exists at a path
	ErrNotFound = errors.New("node not found")

	// ErrMalformedPayload is returned when a raw value cannot be read as structured data
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrDecode is returned when a structured value does not match the target type
	ErrDecode = errors.New("decode failed")

	// ErrStoreUnavailable is returned when a round trip to the underlying store fails
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrIdentityMissing is returned when an operation needs an identity and none is resolvable
	ErrIdentityMissing = errors.New("identity missing")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError represents an absent node at a path
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no node at %q", e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MalformedPayloadError represents a raw value that is not valid structured data
type MalformedPayloadError struct {
	Path string
	Err  error
}

func (e *MalformedPayloadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("malformed payload at %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("malformed payload: %v", e.Err)
}

func (e *MalformedPayloadError) Is(target error) bool {
	return target == ErrMalformedPayload
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

// DecodeError represents a structurally present value that does not fit the target type.
// Field is empty when the mismatch is not attributable to a single field.
type DecodeError struct {
	Path  string
	Type  string
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("cannot decode %s", e.Type)
	if e.Path != "" {
		msg += fmt.Sprintf(" at %q", e.Path)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %q)", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StoreUnavailableError represents a failed read or write round trip
type StoreUnavailableError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("%s %q failed: %v", e.Op, e.Path, e.Err)
}

func (e *StoreUnavailableError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// IdentityMissingError represents an identity-requiring operation without a signed-in identity
type IdentityMissingError struct {
	Op string
}

func (e *IdentityMissingError) Error() string {
	return fmt.Sprintf("%s requires a current identity", e.Op)
}

func (e *IdentityMissingError) Is(target error) bool {
	return target == ErrIdentityMissing
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(path string) error {
	return &NotFoundError{Path: path}
}

// NewMalformedPayloadError creates a new MalformedPayloadError
func NewMalformedPayloadError(path string, err error) error {
	return &MalformedPayloadError{Path: path, Err: err}
}

// NewDecodeError creates a new DecodeError
func NewDecodeError(path, typeName, field string, err error) error {
	return &DecodeError{Path: path, Type: typeName, Field: field, Err: err}
}

// NewStoreUnavailableError creates a new StoreUnavailableError
func NewStoreUnavailableError(op, path string, err error) error {
	return &StoreUnavailableError{Op: op, Path: path, Err: err}
}

// NewIdentityMissingError creates a new IdentityMissingError
func NewIdentityMissingError(op string) error {
	return &IdentityMissingError{Op: op}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMalformedPayload checks if an error is a malformed payload error
func IsMalformedPayload(err error) bool {
	return errors.Is(err, ErrMalformedPayload)
}

// IsDecode checks if an error is a decode error
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsStoreUnavailable checks if an error is a store round trip failure
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsIdentityMissing checks if an error is an identity missing error
func IsIdentityMissing(err error) bool {
	return errors.Is(err, ErrIdentityMissing)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// AtPath fills in the path of a DecodeError or MalformedPayloadError raised without one.
// Other errors are returned unchanged.
func AtPath(err error, path string) error {
	var de *DecodeError
	if errors.As(err, &de) && de.Path == "" {
		return &DecodeError{Path: path, Type: de.Type, Field: de.Field, Err: de.Err}
	}
	var me *MalformedPayloadError
	if errors.As(err, &me) && me.Path == "" {
		return &MalformedPayloadError{Path: path, Err: me.Err}
	}
	return err
}
