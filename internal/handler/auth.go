package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ezapply/ezapply/internal/flash"
	"github.com/ezapply/ezapply/internal/repository"
	"github.com/ezapply/ezapply/internal/service"
	"github.com/ezapply/ezapply/internal/ui"
	"github.com/ezapply/ezapply/internal/ui/pages"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{
		authService: authService,
	}
}

func (h *authHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	msg := popFlash(w, r)
	ui.Render(w, r, pages.Login("", msg))
}

// spamCheck rejects submissions with the hidden honeypot field filled in,
// before any other processing or state change. Returns true when handled.
func spamCheck(w http.ResponseWriter, r *http.Request) bool {
	if r.FormValue("honeypot") == "" {
		return false
	}
	slog.Warn("honeypot triggered", "path", r.URL.Path, "ip", r.RemoteAddr)
	flash.Error(w, msgSpamDetected)
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return true
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	if spamCheck(w, r) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	user, backend, err := h.authService.Login(email, password)
	if err != nil {
		if errors.Is(err, service.ErrEmailNotVerified) {
			h.redirectUnverified(w, r, email)
			return
		}
		ui.Render(w, r, pages.Login(email, &flash.Message{Kind: flash.KindError, Text: msgLoginInvalid}))
		return
	}

	jwtToken, err := h.authService.GenerateJWT(user, backend)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		ui.Render(w, r, pages.Login(email, &flash.Message{Kind: flash.KindError, Text: msgGenericError}))
		return
	}

	h.authService.SetJWTCookie(w, jwtToken, time.Now().Add(h.authService.JWTExpiry()))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// redirectUnverified sends a user with correct credentials but an unverified
// email to the resend page, with a hint whether resending is possible yet.
func (h *authHandler) redirectUnverified(w http.ResponseWriter, r *http.Request, email string) {
	canResend, minutesLeft, err := h.authService.ResendAdviceByEmail(email, time.Now())
	switch {
	case err != nil || canResend:
		flash.Info(w, msgEmailNotVerified)
	default:
		flash.Info(w, msgResendThrottled(minutesLeft))
	}
	http.Redirect(w, r, "/resend", http.StatusSeeOther)
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	flash.Info(w, msgLoggedOut)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *authHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	msg := popFlash(w, r)
	ui.Render(w, r, pages.Register(pages.RegisterForm{}, msg))
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	if spamCheck(w, r) {
		return
	}

	form := pages.RegisterForm{
		Email:     strings.TrimSpace(r.FormValue("email")),
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
	}
	password := r.FormValue("password")

	_, err := h.authService.Register(form.Email, password, form.FirstName, form.LastName)
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
			slog.Error("registration failed", "error", err, "email", form.Email)
		}
		ui.Render(w, r, pages.Register(form, &flash.Message{Kind: flash.KindError, Text: text}))
		return
	}

	flash.Success(w, msgRegistrationSuccess)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *authHandler) ResendPage(w http.ResponseWriter, r *http.Request) {
	msg := popFlash(w, r)
	ui.Render(w, r, pages.ResendVerification("", msg))
}

func (h *authHandler) Resend(w http.ResponseWriter, r *http.Request) {
	if spamCheck(w, r) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))

	err := h.authService.ResendVerification(email)
	if err != nil {
		var throttled *service.ThrottledError
		switch {
		case errors.As(err, &throttled):
			ui.Render(w, r, pages.ResendVerification(email, &flash.Message{Kind: flash.KindInfo, Text: msgResendThrottled(throttled.MinutesLeft)}))
		case errors.Is(err, service.ErrAlreadyVerified):
			flash.Info(w, msgAlreadyVerified)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		case errors.Is(err, repository.ErrUserNotFound):
			ui.Render(w, r, pages.ResendVerification(email, &flash.Message{Kind: flash.KindError, Text: msgNoAccountFound}))
		default:
			slog.Error("resend verification failed", "error", err, "email", email)
			ui.Render(w, r, pages.ResendVerification(email, &flash.Message{Kind: flash.KindError, Text: msgGenericError}))
		}
		return
	}

	flash.Success(w, msgResendSuccess)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// VerifyEmail handles the link from the verification email. Anything wrong
// with the token renders a plain 404 so the URL space stays unprobeable.
func (h *authHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	token := r.PathValue("token")

	_, err := h.authService.VerifyEmail(userID, token)
	if err != nil {
		slog.Warn("email verification failed", "error", err, "user_id", userID)
		w.WriteHeader(http.StatusNotFound)
		ui.Render(w, r, pages.NotFound())
		return
	}

	flash.Success(w, msgEmailVerified)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *authHandler) PasswordResetPage(w http.ResponseWriter, r *http.Request) {
	msg := popFlash(w, r)
	ui.Render(w, r, pages.PasswordReset(msg))
}

func (h *authHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	if spamCheck(w, r) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))

	err := h.authService.RequestPasswordReset(email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			flash.Error(w, msgNoAccountFound)
		case errors.Is(err, service.ErrInvalidEmail):
			flash.Error(w, "Please provide a valid email address.")
		default:
			slog.Error("password reset request failed", "error", err)
			flash.Error(w, msgGenericError)
		}
		http.Redirect(w, r, "/password-reset", http.StatusSeeOther)
		return
	}

	flash.Success(w, msgPasswordResetSent)
	http.Redirect(w, r, "/password-reset", http.StatusSeeOther)
}

func (h *authHandler) PasswordResetConfirmPage(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	token := r.PathValue("token")
	msg := popFlash(w, r)
	ui.Render(w, r, pages.PasswordResetConfirm(userID, token, msg))
}

func (h *authHandler) PasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	token := r.PathValue("token")
	password := r.FormValue("password")
	passwordConfirm := r.FormValue("password_confirm")

	if password != passwordConfirm {
		ui.Render(w, r, pages.PasswordResetConfirm(userID, token, &flash.Message{Kind: flash.KindError, Text: msgPasswordMismatch}))
		return
	}

	err := h.authService.ConfirmPasswordReset(userID, token, password)
	if err != nil {
		if errors.Is(err, service.ErrTokenInvalid) {
			flash.Error(w, msgResetLinkInvalid)
			http.Redirect(w, r, "/password-reset", http.StatusSeeOther)
			return
		}
		if isValidationError(err) {
			ui.Render(w, r, pages.PasswordResetConfirm(userID, token, &flash.Message{Kind: flash.KindError, Text: err.Error()}))
			return
		}
		slog.Error("password reset confirm failed", "error", err, "user_id", userID)
		ui.Render(w, r, pages.PasswordResetConfirm(userID, token, &flash.Message{Kind: flash.KindError, Text: msgGenericError}))
		return
	}

	flash.Success(w, msgPasswordResetDone)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
