package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ezapply/ezapply/internal/ctxkeys"
	"github.com/ezapply/ezapply/internal/service"
	"github.com/ezapply/ezapply/internal/ui"
	"github.com/ezapply/ezapply/internal/ui/pages"
)

type dashboardHandler struct {
	profileService *service.ProfileService
}

func NewDashboardHandler(profileService *service.ProfileService) *dashboardHandler {
	return &dashboardHandler{
		profileService: profileService,
	}
}

func (h *dashboardHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	profile := ctxkeys.Profile(r.Context())
	stats := h.profileService.Stats(profile, time.Now())

	msg := popFlash(w, r)
	ui.Render(w, r, pages.Dashboard(user, stats, msg))
}

type statsResponse struct {
	BasicStats service.ProfileStats `json:"basic_stats"`
	Streak     int                  `json:"streak"`
}

// Stats serves the dashboard numbers as JSON for the profile in the path.
// Only the owner may read them.
func (h *dashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	profile := ctxkeys.Profile(r.Context())
	if profile == nil || profile.ID != r.PathValue("id") {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	stats := h.profileService.Stats(profile, time.Now())

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(statsResponse{
		BasicStats: stats,
		Streak:     stats.StreakDays,
	})
	if err != nil {
		slog.Error("failed to encode stats", "error", err, "profile_id", profile.ID)
	}
}
