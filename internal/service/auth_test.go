package service

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ezapply/ezapply/internal/event"
	"github.com/ezapply/ezapply/internal/model"
	"github.com/ezapply/ezapply/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	to      []string
	subject string
	text    string
	html    string
}

type recordingSender struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (s *recordingSender) Send(to []string, subject, text, html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentEmail{to: to, subject: subject, text: text, html: html})
	return nil
}

func (s *recordingSender) last() sentEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[len(s.sent)-1]
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// tokenFromEmail pulls the trailing path segment out of the first URL in an
// email body, which is where the verification and reset links carry their
// tokens.
func tokenFromEmail(text string) string {
	for _, field := range strings.Fields(text) {
		if strings.HasPrefix(field, "http") {
			parts := strings.Split(field, "/")
			return parts[len(parts)-1]
		}
	}
	return ""
}

type authFixture struct {
	auth     *AuthService
	users    *repository.InMemUserRepository
	profiles *repository.InMemProfileRepository
	tokens   *repository.InMemTokenRepository
	sender   *recordingSender
	bus      *event.Bus
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	users := repository.NewInMemUserRepository()
	profiles := repository.NewInMemProfileRepository()
	tokens := repository.NewInMemTokenRepository()
	sender := &recordingSender{}
	emailService := NewEmailService(sender, "http://localhost:8090", "EzApply")
	chain := NewAuthenticatorChain(NewPasswordAuthenticator(users))
	bus := event.NewBus()

	auth := NewAuthService(
		users,
		profiles,
		tokens,
		emailService,
		chain,
		bus,
		"test-secret",
		false,
		168*time.Hour,
		24*time.Hour,
		1*time.Hour,
		10*time.Minute,
	)

	return &authFixture{
		auth:     auth,
		users:    users,
		profiles: profiles,
		tokens:   tokens,
		sender:   sender,
		bus:      bus,
	}
}

const testPassword = "horse-battery-staple-42"

func (f *authFixture) register(t *testing.T, email string) *model.User {
	t.Helper()
	user, err := f.auth.Register(email, testPassword, "Ada", "Lovelace")
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)

	user := f.register(t, "ada@example.com")

	assert.Equal(t, "ada@example.com", user.Email)
	assert.False(t, user.EmailVerified)
	assert.True(t, user.IsActive)
	assert.Nil(t, user.LastVerificationEmailSent, "registration must not start the resend window")
	assert.NotEqual(t, testPassword, user.PasswordHash)

	profile, err := f.profiles.ByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.Applications)

	require.Equal(t, 1, f.sender.count())
	mail := f.sender.last()
	assert.Equal(t, []string{"ada@example.com"}, mail.to)
	assert.Contains(t, mail.text, "verify your email")
	assert.Contains(t, mail.text, "/verify-email/"+user.ID+"/")
}

func TestRegisterNormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)

	user := f.register(t, "  Ada@Example.COM ")
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com")

	_, err := f.auth.Register("ada@example.com", testPassword, "Ada", "Lovelace")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.auth.Register("ada@example.com", "short", "Ada", "Lovelace")
	require.Error(t, err)

	_, err = f.users.ByEmail("ada@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func (f *authFixture) verify(t *testing.T, user *model.User) {
	t.Helper()
	token := tokenFromEmail(f.sender.last().text)
	_, err := f.auth.VerifyEmail(user.ID, token)
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")
	f.verify(t, user)

	var events []event.Login
	f.bus.SubscribeLogin(func(e event.Login) { events = append(events, e) })

	got, backend, err := f.auth.Login("ada@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "password", backend)

	require.Len(t, events, 1)
	assert.Equal(t, user.ID, events[0].UserID)
	assert.Equal(t, "password", events[0].Backend)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")
	f.verify(t, user)

	_, _, err := f.auth.Login("ada@example.com", "not-the-password-at-all")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.auth.Login("nobody@example.com", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnverifiedEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com")

	_, _, err := f.auth.Login("ada@example.com", testPassword)
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestLoginInactiveAccount(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")
	f.verify(t, user)

	user, err := f.users.ByID(user.ID)
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, f.users.Update(user))

	_, _, err = f.auth.Login("ada@example.com", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResendVerification(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")
	require.Equal(t, 1, f.sender.count())

	// First explicit resend is always allowed: registration never stamps.
	err := f.auth.ResendVerification("ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, f.sender.count())

	stamped, err := f.users.ByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, stamped.LastVerificationEmailSent)

	// A second resend inside the window is throttled.
	err = f.auth.ResendVerification("ada@example.com")
	var throttled *ThrottledError
	require.ErrorAs(t, err, &throttled)
	assert.Equal(t, 9, throttled.MinutesLeft)
	assert.Equal(t, 2, f.sender.count())
}

func TestResendVerificationAfterWindow(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")

	past := time.Now().Add(-11 * time.Minute)
	stored, err := f.users.ByID(user.ID)
	require.NoError(t, err)
	stored.LastVerificationEmailSent = &past
	require.NoError(t, f.users.Update(stored))

	err = f.auth.ResendVerification("ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, f.sender.count())

	refreshed, err := f.users.ByID(user.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.LastVerificationEmailSent.After(past))
}

func TestResendVerificationAlreadyVerified(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")
	f.verify(t, user)

	err := f.auth.ResendVerification("ada@example.com")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestResendVerificationUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	err := f.auth.ResendVerification("nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestResendInvalidatesOldToken(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")
	oldToken := tokenFromEmail(f.sender.last().text)

	require.NoError(t, f.auth.ResendVerification("ada@example.com"))

	_, err := f.auth.VerifyEmail(user.ID, oldToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	newToken := tokenFromEmail(f.sender.last().text)
	_, err = f.auth.VerifyEmail(user.ID, newToken)
	assert.NoError(t, err)
}

func TestResendAdvice(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")

	now := time.Now()
	ok, minutesLeft := f.auth.ResendAdvice(user, now)
	assert.True(t, ok)
	assert.Equal(t, 0, minutesLeft)

	sent := now.Add(-4 * time.Minute)
	user.LastVerificationEmailSent = &sent
	ok, minutesLeft = f.auth.ResendAdvice(user, now)
	assert.False(t, ok)
	assert.Equal(t, 6, minutesLeft)

	// The window boundary itself is still inside the window.
	sent = now.Add(-10 * time.Minute)
	user.LastVerificationEmailSent = &sent
	ok, _ = f.auth.ResendAdvice(user, now)
	assert.False(t, ok)
}

// lostRaceUserRepo makes every stamp attempt lose to a concurrent resend
// that recorded winnerSentAt instead.
type lostRaceUserRepo struct {
	*repository.InMemUserRepository
	winnerSentAt time.Time
}

func (r *lostRaceUserRepo) StampVerificationSent(id string, prev *time.Time, sentAt time.Time) (bool, error) {
	if _, err := r.InMemUserRepository.StampVerificationSent(id, prev, r.winnerSentAt); err != nil {
		return false, err
	}
	return false, nil
}

func TestResendVerificationLostRaceReportsExactWait(t *testing.T) {
	users := repository.NewInMemUserRepository()
	profiles := repository.NewInMemProfileRepository()
	tokens := repository.NewInMemTokenRepository()
	sender := &recordingSender{}
	emailService := NewEmailService(sender, "http://localhost:8090", "EzApply")

	// The winner stamped almost the whole window ago, so under a minute
	// remains. The loser must report that, not the full window.
	racing := &lostRaceUserRepo{
		InMemUserRepository: users,
		winnerSentAt:        time.Now().Add(-9*time.Minute - 30*time.Second),
	}
	auth := NewAuthService(
		racing,
		profiles,
		tokens,
		emailService,
		NewAuthenticatorChain(NewPasswordAuthenticator(racing)),
		event.NewBus(),
		"test-secret",
		false,
		168*time.Hour,
		24*time.Hour,
		1*time.Hour,
		10*time.Minute,
	)

	_, err := auth.Register("ada@example.com", testPassword, "Ada", "Lovelace")
	require.NoError(t, err)
	require.Equal(t, 1, sender.count())

	err = auth.ResendVerification("ada@example.com")
	var throttled *ThrottledError
	require.ErrorAs(t, err, &throttled)
	assert.Equal(t, 0, throttled.MinutesLeft)
	assert.Equal(t, 1, sender.count(), "the losing request must not send")
}

func TestVerifyEmail(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")
	token := tokenFromEmail(f.sender.last().text)

	verified, err := f.auth.VerifyEmail(user.ID, token)
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)

	stored, err := f.users.ByID(user.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)
}

func TestVerifyEmailTokenSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")
	token := tokenFromEmail(f.sender.last().text)

	_, err := f.auth.VerifyEmail(user.ID, token)
	require.NoError(t, err)

	_, err = f.auth.VerifyEmail(user.ID, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyEmailWrongUser(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com")
	token := tokenFromEmail(f.sender.last().text)
	other := f.register(t, "grace@example.com")

	_, err := f.auth.VerifyEmail(other.ID, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyEmailBogusToken(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")

	_, err := f.auth.VerifyEmail(user.ID, "deadbeef")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRequestPasswordReset(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")
	f.verify(t, user)
	before := f.sender.count()

	err := f.auth.RequestPasswordReset("ada@example.com")
	require.NoError(t, err)
	require.Equal(t, before+1, f.sender.count())

	mail := f.sender.last()
	assert.Contains(t, mail.text, "reset your password")
	assert.Contains(t, mail.text, "/password-reset-confirm/"+user.ID+"/")
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	err := f.auth.RequestPasswordReset("nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.Equal(t, 0, f.sender.count())
}

func TestConfirmPasswordReset(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")
	f.verify(t, user)
	require.NoError(t, f.auth.RequestPasswordReset("ada@example.com"))
	token := tokenFromEmail(f.sender.last().text)

	newPassword := "completely-different-pw-9"
	err := f.auth.ConfirmPasswordReset(user.ID, token, newPassword)
	require.NoError(t, err)

	_, _, err = f.auth.Login("ada@example.com", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, backend, err := f.auth.Login("ada@example.com", newPassword)
	require.NoError(t, err)
	assert.Equal(t, "password", backend)
}

func TestConfirmPasswordResetWeakPasswordKeepsToken(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")
	f.verify(t, user)
	require.NoError(t, f.auth.RequestPasswordReset("ada@example.com"))
	token := tokenFromEmail(f.sender.last().text)

	err := f.auth.ConfirmPasswordReset(user.ID, token, "short")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenInvalid)

	// The link still works with an acceptable password.
	err = f.auth.ConfirmPasswordReset(user.ID, token, "completely-different-pw-9")
	assert.NoError(t, err)
}

func TestConfirmPasswordResetTokenSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")
	f.verify(t, user)
	require.NoError(t, f.auth.RequestPasswordReset("ada@example.com"))
	token := tokenFromEmail(f.sender.last().text)

	require.NoError(t, f.auth.ConfirmPasswordReset(user.ID, token, "completely-different-pw-9"))

	err := f.auth.ConfirmPasswordReset(user.ID, token, "yet-another-password-55")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTRoundTrip(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")

	token, err := f.auth.GenerateJWT(user, "password")
	require.NoError(t, err)

	claims, err := f.auth.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Email, claims["email"])
	assert.Equal(t, "password", claims["auth_backend"])
}

func TestVerifyJWTRejectsTampering(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")

	token, err := f.auth.GenerateJWT(user, "password")
	require.NoError(t, err)

	_, err = f.auth.VerifyJWT(token + "x")
	assert.Error(t, err)
}
