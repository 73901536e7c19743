package service

import "fmt"

func verificationEmailTemplate(verifyURL, appName string) (string, string, string) {
	subject := fmt.Sprintf("Verify your email for %s", appName)
	text := fmt.Sprintf(`Please click the link to verify your email: %s

This link expires in 24 hours.

If you didn't create an account, you can safely ignore this email.

Best,
The %s Team`, verifyURL, appName)

	html := fmt.Sprintf(`<p>Please click the link to verify your email: <a href="%s">%s</a></p>
<p>This link expires in 24 hours.</p>
<p>If you didn't create an account, you can safely ignore this email.</p>
<p>Best,<br>The %s Team</p>`, verifyURL, verifyURL, appName)

	return subject, text, html
}

func passwordResetEmailTemplate(resetURL, appName string) (string, string, string) {
	subject := fmt.Sprintf("Reset your password for %s", appName)
	text := fmt.Sprintf(`Please click the link to reset your password: %s

This link expires in 1 hour and can only be used once.

If you didn't request this, you can safely ignore this email. Your password won't be changed.

Best,
The %s Team`, resetURL, appName)

	html := fmt.Sprintf(`<p>Please click the link to reset your password: <a href="%s">%s</a></p>
<p>This link expires in 1 hour and can only be used once.</p>
<p>If you didn't request this, you can safely ignore this email. Your password won't be changed.</p>
<p>Best,<br>The %s Team</p>`, resetURL, resetURL, appName)

	return subject, text, html
}

func accountDeletedEmailTemplate(name, appName string) (string, string, string) {
	if name == "" {
		name = "there"
	}
	subject := fmt.Sprintf("Your %s account has been deleted", appName)
	text := fmt.Sprintf(`Hi %s,

Your account and all associated data have been permanently deleted.

We're sorry to see you go. If you change your mind, you're always welcome to create a new account.

Best,
The %s Team`, name, appName)

	html := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your account and all associated data have been permanently deleted.</p>
<p>We're sorry to see you go. If you change your mind, you're always welcome to create a new account.</p>
<p>Best,<br>The %s Team</p>`, name, appName)

	return subject, text, html
}
