package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ezapply/ezapply/internal/ctxkeys"
	"github.com/ezapply/ezapply/internal/flash"
	"github.com/ezapply/ezapply/internal/service"
	"github.com/ezapply/ezapply/internal/ui"
	"github.com/ezapply/ezapply/internal/ui/pages"
)

type settingsHandler struct {
	userService *service.UserService
}

func NewSettingsHandler(userService *service.UserService) *settingsHandler {
	return &settingsHandler{
		userService: userService,
	}
}

func (h *settingsHandler) SettingsPage(w http.ResponseWriter, r *http.Request) {
	if !ownsProfile(w, r) {
		return
	}

	user := ctxkeys.User(r.Context())
	profile := ctxkeys.Profile(r.Context())
	msg := popFlash(w, r)
	ui.Render(w, r, pages.Settings(user, profile, msg))
}

func (h *settingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !ownsProfile(w, r) {
		return
	}

	user := ctxkeys.User(r.Context())
	profile := ctxkeys.Profile(r.Context())

	input := service.SettingsInput{
		FirstName:       r.FormValue("first_name"),
		LastName:        r.FormValue("last_name"),
		Email:           r.FormValue("email"),
		EmailCommsOptIn: r.FormValue("email_comms_opt_in") != "",
		BirthDate:       r.FormValue("birth_date"),
		Applications:    formInt(r, "applications"),
		Interviews:      formInt(r, "interviews"),
		Offers:          formInt(r, "offers"),
	}

	err := h.userService.UpdateSettings(user.ID, input)
	if err != nil {
		text := msgGenericError
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			text = "An account with that email already exists."
		case errors.Is(err, service.ErrInvalidEmail):
			text = "Please provide a valid email address."
		case isValidationError(err):
			text = err.Error()
		default:
			slog.Error("settings update failed", "error", err, "user_id", user.ID)
		}
		ui.Render(w, r, pages.Settings(user, profile, &flash.Message{Kind: flash.KindError, Text: text}))
		return
	}

	flash.Success(w, msgSettingsSaved)
	http.Redirect(w, r, "/profile/"+profile.ID, http.StatusSeeOther)
}

// ownsProfile checks that the {id} in the path is the requester's own
// profile. A mismatch redirects to the dashboard with an explanation.
func ownsProfile(w http.ResponseWriter, r *http.Request) bool {
	profile := ctxkeys.Profile(r.Context())
	if profile == nil || profile.ID != r.PathValue("id") {
		flash.Error(w, msgNotYourProfile)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return false
	}
	return true
}

func formInt(r *http.Request, field string) int {
	n, err := strconv.Atoi(r.FormValue(field))
	if err != nil {
		return 0
	}
	return n
}
