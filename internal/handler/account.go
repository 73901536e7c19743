package handler

import (
	"log/slog"
	"net/http"

	"github.com/ezapply/ezapply/internal/ctxkeys"
	"github.com/ezapply/ezapply/internal/flash"
	"github.com/ezapply/ezapply/internal/service"
	"github.com/ezapply/ezapply/internal/ui"
	"github.com/ezapply/ezapply/internal/ui/pages"
)

type accountHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAccountHandler(authService *service.AuthService, userService *service.UserService) *accountHandler {
	return &accountHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *accountHandler) DeleteAccountPage(w http.ResponseWriter, r *http.Request) {
	msg := popFlash(w, r)
	ui.Render(w, r, pages.DeleteAccount(msg))
}

func (h *accountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.userService.DeleteAccount(user.ID)
	if err != nil {
		slog.Error("account deletion failed", "error", err, "user_id", user.ID)
		ui.Render(w, r, pages.DeleteAccount(&flash.Message{Kind: flash.KindError, Text: msgGenericError}))
		return
	}

	h.authService.ClearJWTCookie(w)
	flash.Info(w, msgAccountDeleted)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
