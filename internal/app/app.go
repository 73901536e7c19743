package app

import (
	"fmt"
	"log/slog"

	"github.com/ezapply/ezapply/internal/config"
	"github.com/ezapply/ezapply/internal/db"
	"github.com/ezapply/ezapply/internal/event"
	"github.com/ezapply/ezapply/internal/repository"
	"github.com/ezapply/ezapply/internal/service"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Bus            *event.Bus
	AuthService    *service.AuthService
	UserService    *service.UserService
	ProfileService *service.ProfileService
	EmailService   *service.EmailService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	tokenRepository := repository.NewTokenRepository(database)

	// Services
	sender, err := service.NewSender(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email sender: %v", err)
	}
	emailService := service.NewEmailService(sender, cfg.AppURL, cfg.AppName)

	authenticators := service.NewAuthenticatorChain(
		service.NewPasswordAuthenticator(userRepository),
	)

	bus := event.NewBus()
	bus.SubscribeLogin(func(e event.Login) {
		slog.Info("user logged in", "user_id", e.UserID, "email", e.Email, "backend", e.Backend)
	})

	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		tokenRepository,
		emailService,
		authenticators,
		bus,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
		cfg.TokenEmailVerifyExpiry,
		cfg.TokenPasswordResetExpiry,
		cfg.VerificationResendWindow,
	)
	userService := service.NewUserService(userRepository, profileRepository, emailService)
	profileService := service.NewProfileService(profileRepository)

	return &App{
		Cfg:            cfg,
		DB:             database,
		Bus:            bus,
		AuthService:    authService,
		UserService:    userService,
		ProfileService: profileService,
		EmailService:   emailService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
