package validation

import (
	"time"
)

// ParseBirthDate parses an optional birth date submitted by a date input
// (YYYY-MM-DD). An empty string is valid and returns nil.
func ParseBirthDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, Error("invalid birth date")
	}

	if t.After(time.Now()) {
		return nil, Error("birth date cannot be in the future")
	}

	return &t, nil
}
