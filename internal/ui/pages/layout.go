package pages

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/ezapply/ezapply/internal/ctxkeys"
	"github.com/ezapply/ezapply/internal/flash"
)

// layout wraps page content in the shared HTML shell: head, nav, flash
// notice, footer. Nav links depend on whether a user is in the context.
func layout(title string, msg *flash.Message, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		appName := "EzApply"
		if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
			appName = cfg.AppName
		}

		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s | %s</title>
<link rel="stylesheet" href="/assets/css/app.css">
</head>
<body>
<header>
<nav>
<a href="/" class="brand">%s</a>
`, html.EscapeString(title), html.EscapeString(appName), html.EscapeString(appName)); err != nil {
			return err
		}

		user := ctxkeys.User(ctx)
		profile := ctxkeys.Profile(ctx)
		if user != nil && profile != nil {
			if _, err := fmt.Fprintf(w, `<a href="/dashboard">Dashboard</a>
<a href="/profile/%s">Profile</a>
<a href="/settings/%s">Settings</a>
<a href="/logout">Log out</a>
`, html.EscapeString(profile.ID), html.EscapeString(profile.ID)); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<a href="/login">Log in</a>
<a href="/register">Register</a>
`); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, "</nav>\n</header>\n<main>\n"); err != nil {
			return err
		}

		if msg != nil {
			if _, err := fmt.Fprintf(w, `<div class="flash flash-%s" role="alert">%s</div>
`, html.EscapeString(msg.Kind), html.EscapeString(msg.Text)); err != nil {
				return err
			}
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		_, err := fmt.Fprintf(w, "</main>\n<footer>&copy; %s</footer>\n</body>\n</html>\n", html.EscapeString(appName))
		return err
	})
}

// csrfField renders the hidden CSRF input from the token seeded by the
// middleware.
func csrfField() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		token := ctxkeys.CSRFToken(ctx)
		_, err := fmt.Fprintf(w, `<input type="hidden" name="csrf_token" value="%s">
`, html.EscapeString(token))
		return err
	})
}
