package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCatalogUnavailable marks transient failures talking to the Plex server.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrNotFound marks lookups for titles or sessions that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks rejected input (empty titles, malformed arguments).
	ErrValidation = errors.New("validation error")
	// ErrPersistence marks snapshot and database failures.
	ErrPersistence = errors.New("persistence failure")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrCatalogUnavailable
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsUnavailable reports whether err represents a transient catalog failure.
// Callers treat these as "no answer this pass" rather than hard failures.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrCatalogUnavailable)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
