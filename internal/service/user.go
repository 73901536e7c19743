package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ezapply/ezapply/internal/model"
	"github.com/ezapply/ezapply/internal/repository"
	"github.com/ezapply/ezapply/internal/validation"
)

// SettingsInput carries the editable account and profile fields from the
// settings form. Counter values are absolute, not deltas.
type SettingsInput struct {
	FirstName       string
	LastName        string
	Email           string
	EmailCommsOptIn bool
	BirthDate       string
	Applications    int
	Interviews      int
	Offers          int
}

type UserService struct {
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
	emailService      *EmailService
}

func NewUserService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	emailService *EmailService,
) *UserService {
	return &UserService{
		userRepository:    userRepository,
		profileRepository: profileRepository,
		emailService:      emailService,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

// UpdateSettings applies the settings form to both the user row and the
// profile row. Email changes keep the account verified; the address was
// entered by an already-authenticated, already-verified user.
func (s *UserService) UpdateSettings(userID string, input SettingsInput) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if err := validation.ValidateEmail(email); err != nil {
		return ErrInvalidEmail
	}

	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if err := validation.ValidateName(firstName); err != nil {
		return err
	}
	if err := validation.ValidateName(lastName); err != nil {
		return err
	}

	birthDate, err := validation.ParseBirthDate(input.BirthDate)
	if err != nil {
		return err
	}

	if input.Applications < 0 || input.Interviews < 0 || input.Offers < 0 {
		return errors.New("counters cannot be negative")
	}

	if email != user.Email {
		existing, err := s.userRepository.ByEmail(email)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if existing != nil {
			return ErrEmailAlreadyExists
		}
	}

	user.Email = email
	user.FirstName = firstName
	user.LastName = lastName

	err = s.userRepository.Update(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	profile, err := s.profileRepository.ByUserID(userID)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}

	profile.EmailCommsOptIn = input.EmailCommsOptIn
	profile.BirthDate = birthDate
	profile.Applications = input.Applications
	profile.Interviews = input.Interviews
	profile.Offers = input.Offers

	err = s.profileRepository.Update(profile)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	slog.Info("settings updated", "user_id", userID)
	return nil
}

// DeleteAccount removes the profile and the user, then sends a farewell
// email. The profile is deleted explicitly even though the foreign key
// cascades, so the in-memory repositories behave the same as SQL.
func (s *UserService) DeleteAccount(userID string) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	name := user.FirstName
	email := user.Email

	err = s.profileRepository.DeleteByUserID(userID)
	if err != nil {
		slog.Warn("failed to delete profile", "user_id", userID, "error", err)
	}

	err = s.userRepository.Delete(userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	err = s.emailService.SendAccountDeletedEmail(email, name)
	if err != nil {
		slog.Warn("failed to send account deleted email", "user_id", userID, "email", email, "error", err)
	}

	slog.Info("account deleted", "user_id", userID)
	return nil
}
