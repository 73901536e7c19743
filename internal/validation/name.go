package validation

import (
	"strings"
)

// ValidateName validates a first or last name field.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return Error("name is required")
	}

	if len(trimmed) > 30 {
		return Error("name is too long (max 30 characters)")
	}

	return nil
}
