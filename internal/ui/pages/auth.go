package pages

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/ezapply/ezapply/internal/flash"
)

// honeypotField renders a text input hidden from people but filled by bots.
// Submissions with it populated are discarded before any other processing.
func honeypotField() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="honeypot-field" aria-hidden="true"><input type="text" name="honeypot" tabindex="-1" autocomplete="off"></div>
`)
		return err
	})
}

func Login(email string, msg *flash.Message) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="auth-form">
<h1>Log in</h1>
<form method="post" action="/login">
`); err != nil {
			return err
		}
		if err := csrfField().Render(ctx, w); err != nil {
			return err
		}
		if err := honeypotField().Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, `<label>Email <input type="email" name="email" value="%s" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Log in</button>
</form>
<p><a href="/password-reset">Forgot your password?</a></p>
<p>New here? <a href="/register">Create an account</a></p>
</section>
`, html.EscapeString(email))
		return err
	})
	return layout("Log in", msg, body)
}

// RegisterForm carries the values to re-fill after a failed submission.
type RegisterForm struct {
	Email     string
	FirstName string
	LastName  string
}

func Register(form RegisterForm, msg *flash.Message) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="auth-form">
<h1>Create your account</h1>
<form method="post" action="/register">
`); err != nil {
			return err
		}
		if err := csrfField().Render(ctx, w); err != nil {
			return err
		}
		if err := honeypotField().Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, `<label>First name <input type="text" name="first_name" value="%s" maxlength="30" required></label>
<label>Last name <input type="text" name="last_name" value="%s" maxlength="30" required></label>
<label>Email <input type="email" name="email" value="%s" required></label>
<label>Password <input type="password" name="password" minlength="12" required></label>
<button type="submit">Register</button>
</form>
<p>Already registered? <a href="/login">Log in</a></p>
</section>
`, html.EscapeString(form.FirstName), html.EscapeString(form.LastName), html.EscapeString(form.Email))
		return err
	})
	return layout("Register", msg, body)
}

func ResendVerification(email string, msg *flash.Message) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="auth-form">
<h1>Resend verification email</h1>
<p>Enter your email and we'll send you a new verification link.</p>
<form method="post" action="/resend">
`); err != nil {
			return err
		}
		if err := csrfField().Render(ctx, w); err != nil {
			return err
		}
		if err := honeypotField().Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, `<label>Email <input type="email" name="email" value="%s" required></label>
<button type="submit">Resend</button>
</form>
</section>
`, html.EscapeString(email))
		return err
	})
	return layout("Resend Verification", msg, body)
}

func PasswordReset(msg *flash.Message) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="auth-form">
<h1>Reset your password</h1>
<p>Enter your email and we'll send you a reset link.</p>
<form method="post" action="/password-reset">
`); err != nil {
			return err
		}
		if err := csrfField().Render(ctx, w); err != nil {
			return err
		}
		if err := honeypotField().Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<label>Email <input type="email" name="email" required></label>
<button type="submit">Send reset link</button>
</form>
</section>
`)
		return err
	})
	return layout("Password Reset", msg, body)
}

func PasswordResetConfirm(userID, token string, msg *flash.Message) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section class="auth-form">
<h1>Choose a new password</h1>
<form method="post" action="/password-reset-confirm/%s/%s">
`, html.EscapeString(userID), html.EscapeString(token)); err != nil {
			return err
		}
		if err := csrfField().Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<label>New password <input type="password" name="password" minlength="12" required></label>
<label>Confirm password <input type="password" name="password_confirm" minlength="12" required></label>
<button type="submit">Set password</button>
</form>
</section>
`)
		return err
	})
	return layout("New Password", msg, body)
}
