// Package verification holds the timing rules for re-sending verification
// emails. State lives on the user row (last_verification_email_sent); these
// helpers are pure so the login flow and the resend endpoint share one clock
// arithmetic.
package verification

import "time"

// ResendTimeout is the cooldown between verification-email sends.
const ResendTimeout = 10 * time.Minute

// Elapsed returns how long ago the last verification email was sent.
func Elapsed(lastSent, now time.Time) time.Duration {
	return now.Sub(lastSent)
}

// CanResend reports whether enough time has passed to send another
// verification email. The window only opens strictly after the timeout.
func CanResend(elapsed, timeout time.Duration) bool {
	return elapsed > timeout
}

// MinutesLeft returns the whole minutes remaining until the resend window
// opens, as floor(remaining seconds / 60). Only meaningful while
// elapsed <= timeout; it reaches 0 exactly at the timeout boundary.
func MinutesLeft(elapsed, timeout time.Duration) int {
	remaining := timeout - elapsed
	if remaining < 0 {
		return 0
	}
	return int(remaining/time.Second) / 60
}
