// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error taxonomy shared by the domain packages.
// Errors are raised at the point of detection and travel unmodified to the
// HTTP boundary, where a single translation maps them to status codes.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both genuinely missing resources and resources the
	// caller is not allowed to know exist. The two are indistinguishable on
	// purpose.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied is raised on mutating operations once existence is
	// already legitimately known to the caller.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUpstream marks a failure of an external collaborator (search,
	// object storage). Never substituted with empty results.
	ErrUpstream = errors.New("upstream failure")
)

// ValidationError rejects malformed or inconsistent input before any
// mutation. Field names which input failed.
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

// Validation builds a ValidationError for a named field.
func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundf wraps ErrNotFound with resource context.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}
