// Package core holds the error taxonomy shared by the gate service layers.
package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateVehicle is returned when a registration already exists for
	// the same vehicle number, compared case-insensitively.
	ErrDuplicateVehicle = errors.New("vehicle number already registered")

	// ErrDuplicateQueueNumber is returned when an insert collides with an
	// existing queue number, e.g. a stale caller-supplied number.
	ErrDuplicateQueueNumber = errors.New("queue number already taken")

	// ErrNotFound is returned by identity-based administrative lookups.
	ErrNotFound = errors.New("record not found")
)

// ValidationError reports every missing or invalid input field at once.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
