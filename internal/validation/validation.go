// Package validation checks user-submitted form values. All failures are
// reported as Error values whose text is safe to show to the user.
package validation

// Error is a user-presentable validation failure.
type Error string

func (e Error) Error() string { return string(e) }
