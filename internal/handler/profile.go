package handler

import (
	"net/http"
	"time"

	"github.com/ezapply/ezapply/internal/ctxkeys"
	"github.com/ezapply/ezapply/internal/service"
	"github.com/ezapply/ezapply/internal/ui"
	"github.com/ezapply/ezapply/internal/ui/pages"
)

type profileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *profileHandler {
	return &profileHandler{
		profileService: profileService,
	}
}

func (h *profileHandler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	if !ownsProfile(w, r) {
		return
	}

	user := ctxkeys.User(r.Context())
	profile := ctxkeys.Profile(r.Context())
	stats := h.profileService.Stats(profile, time.Now())

	msg := popFlash(w, r)
	ui.Render(w, r, pages.Profile(user, profile, stats, msg))
}
