package handler

import (
	"errors"
	"fmt"

	"github.com/ezapply/ezapply/internal/validation"
)

// User-facing flash strings, collected in one place so handlers and tests
// agree on the exact wording.
const (
	msgRegistrationSuccess = "Registration successful. Please check your email to verify your account."
	msgSpamDetected        = "Something went wrong. Please try again."
	msgLoginInvalid        = "Invalid email or password."
	msgLoggedOut           = "You have been logged out."
	msgEmailNotVerified    = "Your email is not verified. Please check your inbox or request a new verification email."
	msgResendSuccess       = "Verification email sent. Please check your inbox."
	msgAlreadyVerified     = "Your email is already verified. You can log in."
	msgNoAccountFound      = "No account found with that email."
	msgEmailVerified       = "Your email has been verified. You can now log in."
	msgPasswordResetSent   = "We've sent you an email with a link to reset your password."
	msgPasswordResetDone   = "Your password has been reset. You can now log in."
	msgPasswordMismatch    = "Passwords do not match."
	msgResetLinkInvalid    = "This password reset link is invalid or has expired. Please request a new one."
	msgSettingsSaved       = "Settings saved."
	msgNotYourProfile      = "You can only view your own profile and settings."
	msgAccountDeleted      = "Your account has been deleted."
	msgGenericError        = "An error occurred. Please try again."
)

// isValidationError reports whether err carries user-presentable text from
// the validation package.
func isValidationError(err error) bool {
	var verr validation.Error
	return errors.As(err, &verr)
}

func msgResendThrottled(minutesLeft int) string {
	if minutesLeft == 1 {
		return "A verification email was sent recently. Please wait 1 minute before requesting another."
	}
	return fmt.Sprintf("A verification email was sent recently. Please wait %d minutes before requesting another.", minutesLeft)
}
