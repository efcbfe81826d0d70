package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownRun    = errors.New("unknown run id")
	ErrMissingFolder = errors.New("run folder does not exist")
	ErrValidation    = errors.New("validation error")
)

// wrap builds an error message that includes operation context while tagging
// it with the provided marker for later classification.
func wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "dispatch failure"
	}
	return strings.Join(parts, ": ")
}
