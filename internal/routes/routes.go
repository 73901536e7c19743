package routes

import (
	"io/fs"
	"net/http"

	"github.com/ezapply/ezapply/assets"
	"github.com/ezapply/ezapply/internal/app"
	"github.com/ezapply/ezapply/internal/handler"
	"github.com/ezapply/ezapply/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler()
	auth := handler.NewAuthHandler(app.AuthService)
	account := handler.NewAccountHandler(app.AuthService, app.UserService)
	profile := handler.NewProfileHandler(app.ProfileService)
	dashboard := handler.NewDashboardHandler(app.ProfileService)
	settings := handler.NewSettingsHandler(app.UserService)

	mux := http.NewServeMux()

	// Static files
	sub, _ := fs.Sub(assets.AssetsFS, ".")
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))

	// Public pages
	mux.HandleFunc("GET /{$}", home.HomePage)

	// Auth flow (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("GET /login", middleware.RequireGuest(auth.LoginPage))
	mux.HandleFunc("POST /login", rateLimiter(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("GET /logout", middleware.RequireAuth(auth.Logout))

	mux.HandleFunc("GET /register", middleware.RequireGuest(auth.RegisterPage))
	mux.HandleFunc("POST /register", rateLimiter(middleware.RequireGuest(auth.Register)))

	mux.HandleFunc("GET /resend", middleware.RequireGuest(auth.ResendPage))
	mux.HandleFunc("POST /resend", rateLimiter(middleware.RequireGuest(auth.Resend)))
	mux.HandleFunc("GET /verify-email/{userID}/{token}", auth.VerifyEmail)

	mux.HandleFunc("GET /password-reset", middleware.RequireGuest(auth.PasswordResetPage))
	mux.HandleFunc("POST /password-reset", rateLimiter(middleware.RequireGuest(auth.PasswordReset)))
	mux.HandleFunc("GET /password-reset-confirm/{userID}/{token}", auth.PasswordResetConfirmPage)
	mux.HandleFunc("POST /password-reset-confirm/{userID}/{token}", rateLimiter(auth.PasswordResetConfirm))

	// Account pages
	mux.HandleFunc("GET /dashboard", middleware.RequireAuth(dashboard.DashboardPage))
	mux.HandleFunc("GET /profile/{id}", middleware.RequireAuth(profile.ProfilePage))
	mux.HandleFunc("GET /settings/{id}", middleware.RequireAuth(settings.SettingsPage))
	mux.HandleFunc("POST /settings/{id}", middleware.RequireAuth(settings.Update))
	mux.HandleFunc("GET /delete-account", middleware.RequireAuth(account.DeleteAccountPage))
	mux.HandleFunc("POST /delete-account", middleware.RequireAuth(account.DeleteAccount))

	// JSON API
	mux.HandleFunc("GET /api/profile/{id}/stats", middleware.RequireAuth(dashboard.Stats))

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware, executed top to bottom
	h := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService, app.UserService, app.ProfileService),
		middleware.WithURLPath,
	)

	return h
}
