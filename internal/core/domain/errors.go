package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports every missing or malformed required field by
// name, so the caller can fix all of them in one round trip.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InvalidStatusError rejects a status value outside the enumerated set,
// echoing the valid set back to the caller.
type InvalidStatusError struct {
	Given string
	Valid []string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q, must be one of: %s", e.Given, strings.Join(e.Valid, ", "))
}
