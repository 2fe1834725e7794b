package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound signals that a project id does not resolve to a live row.
var ErrNotFound = errors.New("project not found")

// ValidationError aggregates every missing required structure found before
// any row is written. Callers can render it apart from internal errors.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid document: %s", strings.Join(e.Missing, "; "))
}
