package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/ezapply/ezapply/internal/flash"
)

func Home(msg *flash.Message) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="hero">
<h1>Track your job search</h1>
<p>Log applications, interviews, and offers, and see how they convert.</p>
<p><a href="/register" class="button">Get started</a></p>
</section>
`)
		return err
	})
	return layout("Home", msg, body)
}

func NotFound() templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section>
<h1>Page not found</h1>
<p>The page you are looking for does not exist.</p>
<p><a href="/">Back to home</a></p>
</section>
`)
		return err
	})
	return layout("Not Found", nil, body)
}
