/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("users/u1")

	expected := `no node at "users/u1"`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}

	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for NotFoundError")
	}
}

func TestMalformedPayloadError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")

	t.Run("with path", func(t *testing.T) {
		err := NewMalformedPayloadError("alarms", cause)
		expected := `malformed payload at "alarms": unexpected end of JSON input`
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}
		if !IsMalformedPayload(err) {
			t.Error("IsMalformedPayload should return true")
		}
		if !errors.Is(err, cause) {
			t.Error("MalformedPayloadError should unwrap to its cause")
		}
	})

	t.Run("without path", func(t *testing.T) {
		err := NewMalformedPayloadError("", cause)
		expected := "malformed payload: unexpected end of JSON input"
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}
	})
}

func TestDecodeError(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		field    string
		err      error
		expected string
	}{
		{
			name:     "full",
			path:     "alarms/a1",
			field:    "name",
			err:      errors.New("expected string"),
			expected: `cannot decode Alarm at "alarms/a1" (field "name"): expected string`,
		},
		{
			name:     "no path no field",
			expected: "cannot decode Alarm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDecodeError(tt.path, "Alarm", tt.field, tt.err)
			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}
			if !IsDecode(err) {
				t.Error("IsDecode should return true for DecodeError")
			}
		})
	}
}

func TestStoreUnavailableError(t *testing.T) {
	err := NewStoreUnavailableError("read", "users", io.ErrUnexpectedEOF)

	expected := `read "users" failed: unexpected EOF`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsStoreUnavailable(err) {
		t.Error("IsStoreUnavailable should return true")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("StoreUnavailableError should unwrap to its cause")
	}
}

func TestIdentityMissingError(t *testing.T) {
	err := NewIdentityMissingError("integration key")

	expected := "integration key requires a current identity"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsIdentityMissing(err) {
		t.Error("IsIdentityMissing should return true")
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "with field",
			field:    "limit",
			message:  "must not be negative",
			expected: `validation failed for field "limit": must not be negative`,
		},
		{
			name:     "without field",
			field:    "",
			message:  "missing required fields",
			expected: "validation failed: missing required fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}

			if !errors.Is(err, ErrInvalidInput) {
				t.Error("ValidationError should match ErrInvalidInput")
			}

			if !IsValidationError(err) {
				t.Error("IsValidationError should return true for ValidationError")
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	original := NewDecodeError("users/u1", "User", "age", nil)
	wrapped := fmt.Errorf("load failed: %w", original)

	if !errors.Is(wrapped, ErrDecode) {
		t.Error("Wrapped DecodeError should still match ErrDecode")
	}

	var de *DecodeError
	if !errors.As(wrapped, &de) || de.Field != "age" {
		t.Errorf("errors.As should recover the DecodeError, got %+v", de)
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrMalformedPayload,
		ErrDecode,
		ErrStoreUnavailable,
		ErrIdentityMissing,
		ErrInvalidInput,
	}

	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v matches %v", err1, err2)
			}
		}
	}
}

func TestAtPath(t *testing.T) {
	err := AtPath(fmt.Errorf("loading: %w", NewDecodeError("", "Alarm", "label", fmt.Errorf("bad"))), "users/u1/a1")
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Expected DecodeError, got %T", err)
	}
	if de.Path != "users/u1/a1" || de.Field != "label" || de.Type != "Alarm" {
		t.Errorf("Unexpected fields: %+v", de)
	}

	err = AtPath(NewMalformedPayloadError("", fmt.Errorf("bad json")), "x")
	if err.Error() != `malformed payload at "x": bad json` {
		t.Errorf("Unexpected message %q", err.Error())
	}

	located := NewDecodeError("a", "T", "", nil)
	if AtPath(located, "b") != located {
		t.Error("A located error should be returned unchanged")
	}
	other := NewValidationError("f", "m")
	if AtPath(other, "b") != other {
		t.Error("Unrelated errors should be returned unchanged")
	}
}
