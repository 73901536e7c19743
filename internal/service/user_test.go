package service

import (
	"testing"
	"time"

	"github.com/ezapply/ezapply/internal/model"
	"github.com/ezapply/ezapply/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userFixture struct {
	*authFixture
	userService *UserService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	af := newAuthFixture(t)
	emailService := NewEmailService(af.sender, "http://localhost:8090", "EzApply")
	return &userFixture{
		authFixture: af,
		userService: NewUserService(af.users, af.profiles, emailService),
	}
}

func validSettings(email string) SettingsInput {
	return SettingsInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           email,
		EmailCommsOptIn: true,
		BirthDate:       "1990-12-10",
		Applications:    12,
		Interviews:      3,
		Offers:          1,
	}
}

func TestUpdateSettings(t *testing.T) {
	f := newUserFixture(t)
	user := f.register(t, "ada@example.com")

	err := f.userService.UpdateSettings(user.ID, validSettings("ada@example.com"))
	require.NoError(t, err)

	profile, err := f.profiles.ByUserID(user.ID)
	require.NoError(t, err)
	assert.True(t, profile.EmailCommsOptIn)
	require.NotNil(t, profile.BirthDate)
	assert.Equal(t, "1990-12-10", profile.BirthDate.Format("2006-01-02"))
	assert.Equal(t, 12, profile.Applications)
	assert.Equal(t, 3, profile.Interviews)
	assert.Equal(t, 1, profile.Offers)
}

func TestUpdateSettingsChangesEmail(t *testing.T) {
	f := newUserFixture(t)
	user := f.register(t, "ada@example.com")

	err := f.userService.UpdateSettings(user.ID, validSettings("countess@example.com"))
	require.NoError(t, err)

	updated, err := f.users.ByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "countess@example.com", updated.Email)
}

func TestUpdateSettingsRejectsTakenEmail(t *testing.T) {
	f := newUserFixture(t)
	user := f.register(t, "ada@example.com")
	f.register(t, "grace@example.com")

	err := f.userService.UpdateSettings(user.ID, validSettings("grace@example.com"))
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestUpdateSettingsRejectsNegativeCounters(t *testing.T) {
	f := newUserFixture(t)
	user := f.register(t, "ada@example.com")

	input := validSettings("ada@example.com")
	input.Applications = -1

	err := f.userService.UpdateSettings(user.ID, input)
	assert.Error(t, err)
}

func TestUpdateSettingsRejectsFutureBirthDate(t *testing.T) {
	f := newUserFixture(t)
	user := f.register(t, "ada@example.com")

	input := validSettings("ada@example.com")
	input.BirthDate = time.Now().AddDate(1, 0, 0).Format("2006-01-02")

	err := f.userService.UpdateSettings(user.ID, input)
	assert.Error(t, err)
}

func TestDeleteAccount(t *testing.T) {
	f := newUserFixture(t)
	user := f.register(t, "ada@example.com")
	before := f.sender.count()

	err := f.userService.DeleteAccount(user.ID)
	require.NoError(t, err)

	_, err = f.users.ByID(user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = f.profiles.ByUserID(user.ID)
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)

	require.Equal(t, before+1, f.sender.count())
	assert.Contains(t, f.sender.last().subject, "deleted")
}

func TestProfileStats(t *testing.T) {
	profiles := repository.NewInMemProfileRepository()
	svc := NewProfileService(profiles)

	now := time.Now()
	profile := &model.Profile{
		ID:           "p1",
		UserID:       "u1",
		Applications: 10,
		Interviews:   2,
		Offers:       1,
		LastReset:    now.Add(-49 * time.Hour),
	}

	got := svc.Stats(profile, now)
	assert.Equal(t, 10, got.Applications)
	assert.InDelta(t, 20.0, got.InterviewRate, 0.001)
	assert.InDelta(t, 10.0, got.OfferRate, 0.001)
	assert.InDelta(t, 30.0, got.ConversionRate, 0.001)
	assert.InDelta(t, 40.0, got.ConversionScore, 0.001)
	assert.Equal(t, 2, got.StreakDays)
}

func TestProfileStatsZeroProfile(t *testing.T) {
	profiles := repository.NewInMemProfileRepository()
	svc := NewProfileService(profiles)

	now := time.Now()
	got := svc.Stats(&model.Profile{LastReset: now}, now)
	assert.Zero(t, got.InterviewRate)
	assert.Zero(t, got.ConversionRate)
	assert.Zero(t, got.ConversionScore)
	assert.Zero(t, got.StreakDays)
}
