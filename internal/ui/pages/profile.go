package pages

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/ezapply/ezapply/internal/flash"
	"github.com/ezapply/ezapply/internal/model"
	"github.com/ezapply/ezapply/internal/service"
)

func Profile(user *model.User, profile *model.Profile, stats service.ProfileStats, msg *flash.Message) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		birthDate := ""
		if profile.BirthDate != nil {
			birthDate = profile.BirthDate.Format("2006-01-02")
		}
		optIn := "No"
		if profile.EmailCommsOptIn {
			optIn = "Yes"
		}

		_, err := fmt.Fprintf(w, `<section class="profile">
<h1>%s</h1>
<dl>
<dt>Email</dt><dd>%s</dd>
<dt>Birth date</dt><dd>%s</dd>
<dt>Email updates</dt><dd>%s</dd>
<dt>Member since</dt><dd>%s</dd>
</dl>
<h2>Job search</h2>
<dl>
<dt>Applications</dt><dd>%d</dd>
<dt>Interviews</dt><dd>%d</dd>
<dt>Offers</dt><dd>%d</dd>
<dt>Conversion score</dt><dd>%.1f</dd>
</dl>
<p><a href="/settings/%s">Edit settings</a></p>
</section>
`,
			html.EscapeString(user.FullName()),
			html.EscapeString(user.Email),
			html.EscapeString(birthDate),
			optIn,
			user.DateJoined.Format("January 2, 2006"),
			stats.Applications,
			stats.Interviews,
			stats.Offers,
			stats.ConversionScore,
			html.EscapeString(profile.ID),
		)
		return err
	})
	return layout("Profile", msg, body)
}

func Settings(user *model.User, profile *model.Profile, msg *flash.Message) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		birthDate := ""
		if profile.BirthDate != nil {
			birthDate = profile.BirthDate.Format("2006-01-02")
		}
		optInChecked := ""
		if profile.EmailCommsOptIn {
			optInChecked = " checked"
		}

		if _, err := fmt.Fprintf(w, `<section class="settings">
<h1>Settings</h1>
<form method="post" action="/settings/%s">
`, html.EscapeString(profile.ID)); err != nil {
			return err
		}
		if err := csrfField().Render(ctx, w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<label>First name <input type="text" name="first_name" value="%s" maxlength="30" required></label>
<label>Last name <input type="text" name="last_name" value="%s" maxlength="30" required></label>
<label>Email <input type="email" name="email" value="%s" required></label>
<label>Birth date <input type="date" name="birth_date" value="%s"></label>
<label><input type="checkbox" name="email_comms_opt_in"%s> Receive email updates</label>
<fieldset>
<legend>Job search counters</legend>
<label>Applications <input type="number" name="applications" value="%d" min="0"></label>
<label>Interviews <input type="number" name="interviews" value="%d" min="0"></label>
<label>Offers <input type="number" name="offers" value="%d" min="0"></label>
</fieldset>
<button type="submit">Save</button>
</form>
<p><a href="/delete-account" class="danger">Delete account</a></p>
</section>
`,
			html.EscapeString(user.FirstName),
			html.EscapeString(user.LastName),
			html.EscapeString(user.Email),
			html.EscapeString(birthDate),
			optInChecked,
			profile.Applications,
			profile.Interviews,
			profile.Offers,
		); err != nil {
			return err
		}
		return nil
	})
	return layout("Settings", msg, body)
}

func Dashboard(user *model.User, stats service.ProfileStats, msg *flash.Message) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section class="dashboard">
<h1>Welcome back, %s</h1>
<div class="stats">
<div class="stat"><span class="value">%d</span><span class="label">Applications</span></div>
<div class="stat"><span class="value">%d</span><span class="label">Interviews</span></div>
<div class="stat"><span class="value">%d</span><span class="label">Offers</span></div>
</div>
<div class="rates">
<div class="rate"><span class="value">%.1f%%</span><span class="label">Interview rate</span></div>
<div class="rate"><span class="value">%.1f%%</span><span class="label">Offer rate</span></div>
<div class="rate"><span class="value">%.1f%%</span><span class="label">Conversion rate</span></div>
<div class="rate"><span class="value">%.1f</span><span class="label">Conversion score</span></div>
</div>
<p class="streak">%d days since your last counter update.</p>
</section>
`,
			html.EscapeString(user.FirstName),
			stats.Applications,
			stats.Interviews,
			stats.Offers,
			stats.InterviewRate,
			stats.OfferRate,
			stats.ConversionRate,
			stats.ConversionScore,
			stats.StreakDays,
		)
		return err
	})
	return layout("Dashboard", msg, body)
}

func DeleteAccount(msg *flash.Message) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="delete-account">
<h1>Delete your account</h1>
<p>This permanently removes your account, profile, and all job search data. This cannot be undone.</p>
<form method="post" action="/delete-account">
`); err != nil {
			return err
		}
		if err := csrfField().Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<button type="submit" class="danger">Delete my account</button>
</form>
<p><a href="/dashboard">Never mind, take me back</a></p>
</section>
`)
		return err
	})
	return layout("Delete Account", msg, body)
}
