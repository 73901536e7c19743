package service

import (
	"errors"
	"fmt"

	"github.com/ezapply/ezapply/internal/model"
	"github.com/ezapply/ezapply/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Authenticator is one credential-checking backend. Backends are tried in
// registration order; the first to return a user wins, and its Name is
// recorded in the session so later requests know which backend authenticated.
type Authenticator interface {
	Name() string
	Authenticate(email, password string) (*model.User, error)
}

// PasswordAuthenticator checks a bcrypt hash against the stored credentials.
// It rejects inactive accounts before comparing, and unverified accounts
// after, so a correct password against an unverified account surfaces as
// ErrEmailNotVerified rather than a generic failure.
type PasswordAuthenticator struct {
	userRepository repository.UserRepository
}

func NewPasswordAuthenticator(userRepository repository.UserRepository) *PasswordAuthenticator {
	return &PasswordAuthenticator{userRepository: userRepository}
}

func (a *PasswordAuthenticator) Name() string {
	return "password"
}

func (a *PasswordAuthenticator) Authenticate(email, password string) (*model.User, error) {
	user, err := a.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	return user, nil
}

// AuthenticatorChain tries each backend in order. A backend that cannot match
// the credentials passes to the next; any other failure stops the chain,
// since it carries meaning (for example an unverified email).
type AuthenticatorChain struct {
	backends []Authenticator
}

func NewAuthenticatorChain(backends ...Authenticator) *AuthenticatorChain {
	return &AuthenticatorChain{backends: backends}
}

// Authenticate returns the matched user and the name of the winning backend.
func (c *AuthenticatorChain) Authenticate(email, password string) (*model.User, string, error) {
	for _, backend := range c.backends {
		user, err := backend.Authenticate(email, password)
		if err == nil {
			return user, backend.Name(), nil
		}
		if errors.Is(err, ErrInvalidCredentials) {
			continue
		}
		return nil, "", err
	}
	return nil, "", ErrInvalidCredentials
}
