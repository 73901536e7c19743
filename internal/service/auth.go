package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ezapply/ezapply/internal/event"
	"github.com/ezapply/ezapply/internal/model"
	"github.com/ezapply/ezapply/internal/repository"
	"github.com/ezapply/ezapply/internal/validation"
	"github.com/ezapply/ezapply/internal/verification"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrTokenInvalid       = errors.New("invalid or expired token")
)

// ThrottledError reports that a verification email was sent too recently.
// MinutesLeft is the whole minutes remaining before another send is allowed.
type ThrottledError struct {
	MinutesLeft int
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("verification email throttled, %d minutes left", e.MinutesLeft)
}

type AuthService struct {
	userRepository           repository.UserRepository
	profileRepository        repository.ProfileRepository
	tokenRepository          repository.TokenRepository
	emailService             *EmailService
	authenticators           *AuthenticatorChain
	bus                      *event.Bus
	jwtSecret                string
	isProduction             bool
	jwtExpiry                time.Duration
	tokenEmailVerifyExpiry   time.Duration
	tokenPasswordResetExpiry time.Duration
	resendWindow             time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	tokenRepository repository.TokenRepository,
	emailService *EmailService,
	authenticators *AuthenticatorChain,
	bus *event.Bus,
	jwtSecret string,
	isProduction bool,
	jwtExpiry time.Duration,
	tokenEmailVerifyExpiry time.Duration,
	tokenPasswordResetExpiry time.Duration,
	resendWindow time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:           userRepository,
		profileRepository:        profileRepository,
		tokenRepository:          tokenRepository,
		emailService:             emailService,
		authenticators:           authenticators,
		bus:                      bus,
		jwtSecret:                jwtSecret,
		isProduction:             isProduction,
		jwtExpiry:                jwtExpiry,
		tokenEmailVerifyExpiry:   tokenEmailVerifyExpiry,
		tokenPasswordResetExpiry: tokenPasswordResetExpiry,
		resendWindow:             resendWindow,
	}
}

// Register creates an unverified account with its profile and sends the
// first verification email. The send is not recorded against the resend
// window, so the user can request a resend right away if it never arrives.
func (s *AuthService) Register(email, password, firstName, lastName string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if err := validation.ValidateEmail(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if err := validation.ValidateName(firstName); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(lastName); err != nil {
		return nil, err
	}

	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
		DateJoined:   now,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	profile := &model.Profile{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		LastReset: now,
	}
	err = s.profileRepository.Create(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	err = s.sendVerification(user)
	if err != nil {
		slog.Error("failed to send verification email", "error", err, "email", user.Email)
		return nil, fmt.Errorf("failed to send verification email: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login runs the authenticator chain and publishes a login event on success.
// The returned backend name identifies which authenticator matched.
func (s *AuthService) Login(email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, backend, err := s.authenticators.Authenticate(email, password)
	if err != nil {
		return nil, "", err
	}

	s.bus.PublishLogin(event.Login{
		UserID:  user.ID,
		Email:   user.Email,
		Backend: backend,
		At:      time.Now(),
	})

	return user, backend, nil
}

// ResendAdvice reports whether the user may request another verification
// email right now, and if not, how many whole minutes remain.
func (s *AuthService) ResendAdvice(user *model.User, now time.Time) (bool, int) {
	if user.LastVerificationEmailSent == nil {
		return true, 0
	}
	elapsed := verification.Elapsed(*user.LastVerificationEmailSent, now)
	if verification.CanResend(elapsed, s.resendWindow) {
		return true, 0
	}
	return false, verification.MinutesLeft(elapsed, s.resendWindow)
}

// ResendAdviceByEmail is ResendAdvice for callers that only hold the email,
// such as the login handler steering an unverified user to the resend page.
func (s *AuthService) ResendAdviceByEmail(email string, now time.Time) (bool, int, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		return false, 0, err
	}
	ok, minutesLeft := s.ResendAdvice(user, now)
	return ok, minutesLeft, nil
}

// ResendVerification sends another verification email, subject to the resend
// window. The send timestamp is claimed with a conditional update before the
// email goes out, so two racing requests produce exactly one email; the loser
// gets a ThrottledError.
func (s *AuthService) ResendVerification(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return repository.ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.EmailVerified {
		return ErrAlreadyVerified
	}

	now := time.Now()
	if ok, minutesLeft := s.ResendAdvice(user, now); !ok {
		return &ThrottledError{MinutesLeft: minutesLeft}
	}

	claimed, err := s.userRepository.StampVerificationSent(user.ID, user.LastVerificationEmailSent, now)
	if err != nil {
		return fmt.Errorf("failed to record send time: %w", err)
	}
	if !claimed {
		// Lost the race to a concurrent resend. Report the remaining wait
		// based on the timestamp the winner wrote.
		fresh, err := s.userRepository.ByEmail(email)
		if err != nil {
			return &ThrottledError{MinutesLeft: int(s.resendWindow / time.Minute)}
		}
		_, minutesLeft := s.ResendAdvice(fresh, time.Now())
		return &ThrottledError{MinutesLeft: minutesLeft}
	}

	err = s.sendVerification(user)
	if err != nil {
		slog.Error("failed to resend verification email", "error", err, "email", user.Email)
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	slog.Info("verification email resent", "user_id", user.ID, "email", user.Email)
	return nil
}

func (s *AuthService) sendVerification(user *model.User) error {
	err := s.tokenRepository.DeleteByUserAndType(user.ID, model.TokenTypeEmailVerify)
	if err != nil {
		slog.Warn("failed to delete old verification tokens", "error", err, "user_id", user.ID)
	}

	verificationToken, err := s.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	token := &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeEmailVerify,
		Token:     verificationToken,
		ExpiresAt: time.Now().Add(s.tokenEmailVerifyExpiry),
	}
	err = s.tokenRepository.Create(token)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	return s.emailService.SendVerificationEmail(user.Email, user.ID, verificationToken)
}

// VerifyEmail consumes a verification token and marks the account verified.
// The token must belong to the user in the URL; any mismatch, reuse, or
// expiry collapses into ErrTokenInvalid.
func (s *AuthService) VerifyEmail(userID, token string) (*model.User, error) {
	tokenModel, err := s.tokenRepository.ConsumeToken(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	if tokenModel.Type != model.TokenTypeEmailVerify || tokenModel.UserID != userID {
		return nil, ErrTokenInvalid
	}

	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	if !user.EmailVerified {
		err = s.userRepository.SetEmailVerified(user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to mark email verified: %w", err)
		}
		user.EmailVerified = true
	}

	// Any other outstanding verification links are now meaningless.
	err = s.tokenRepository.DeleteByUserAndType(user.ID, model.TokenTypeEmailVerify)
	if err != nil {
		slog.Warn("failed to delete verification tokens", "error", err, "user_id", user.ID)
	}

	slog.Info("email verified", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// RequestPasswordReset sends a reset link to the account holding the email.
// An unknown email surfaces as ErrUserNotFound so the form can say so.
func (s *AuthService) RequestPasswordReset(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if err := validation.ValidateEmail(email); err != nil {
		return ErrInvalidEmail
	}

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Info("password reset requested for unknown email", "email", email)
			return repository.ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = s.tokenRepository.DeleteByUserAndType(user.ID, model.TokenTypePasswordReset)
	if err != nil {
		slog.Warn("failed to delete old reset tokens", "error", err, "user_id", user.ID)
	}

	resetToken, err := s.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	token := &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypePasswordReset,
		Token:     resetToken,
		ExpiresAt: time.Now().Add(s.tokenPasswordResetExpiry),
	}
	err = s.tokenRepository.Create(token)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	err = s.emailService.SendPasswordResetEmail(user.Email, user.ID, resetToken)
	if err != nil {
		slog.Error("failed to send password reset email", "error", err, "email", user.Email)
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("password reset link sent", "user_id", user.ID)
	return nil
}

// ConfirmPasswordReset sets a new password using a reset token. The password
// is validated before the token is consumed so a weak choice doesn't burn
// the link.
func (s *AuthService) ConfirmPasswordReset(userID, token, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	tokenModel, err := s.tokenRepository.ConsumeToken(token)
	if err != nil {
		return ErrTokenInvalid
	}

	if tokenModel.Type != model.TokenTypePasswordReset || tokenModel.UserID != userID {
		return ErrTokenInvalid
	}

	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return ErrTokenInvalid
	}

	hashedPassword, err := s.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hashedPassword
	err = s.userRepository.Update(user)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// The password changed; remaining reset links are bound to the old one.
	err = s.tokenRepository.DeleteByUserAndType(user.ID, model.TokenTypePasswordReset)
	if err != nil {
		slog.Warn("failed to delete reset tokens", "error", err, "user_id", user.ID)
	}

	slog.Info("password reset completed", "user_id", user.ID)
	return nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *AuthService) GenerateJWT(user *model.User, backend string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":      user.ID,
		"email":        user.Email,
		"auth_backend": backend,
		"exp":          time.Now().Add(s.jwtExpiry).Unix(),
		"iat":          time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) JWTExpiry() time.Duration {
	return s.jwtExpiry
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
