package repository

import (
	"database/sql"
	"time"

	"github.com/ezapply/ezapply/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ProfileRepository interface {
	Create(profile *model.Profile) error
	ByID(id string) (*model.Profile, error)
	ByUserID(userID string) (*model.Profile, error)
	Update(profile *model.Profile) error
	DeleteByUserID(userID string) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *model.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.LastReset.IsZero() {
		profile.LastReset = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO profiles (id, user_id, email_comms_opt_in, birth_date, current_applications_made, current_interviews_made, current_offers_received, last_reset)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, profile.ID, profile.UserID, profile.EmailCommsOptIn, profile.BirthDate, profile.Applications, profile.Interviews, profile.Offers, profile.LastReset)

	return err
}

func (r *profileRepository) ByID(id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Get(&profile, `SELECT * FROM profiles WHERE id = $1`, id)

	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) ByUserID(userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Get(&profile, `SELECT * FROM profiles WHERE user_id = $1`, userID)

	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// Update persists all mutable profile fields. last_reset is refreshed on
// every save; it tracks the most recent modification, not a user input.
func (r *profileRepository) Update(profile *model.Profile) error {
	profile.LastReset = time.Now()

	result, err := r.db.Exec(`
		UPDATE profiles
		SET email_comms_opt_in = $1, birth_date = $2, current_applications_made = $3, current_interviews_made = $4, current_offers_received = $5, last_reset = $6
		WHERE id = $7
	`, profile.EmailCommsOptIn, profile.BirthDate, profile.Applications, profile.Interviews, profile.Offers, profile.LastReset, profile.ID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *profileRepository) DeleteByUserID(userID string) error {
	_, err := r.db.Exec(`DELETE FROM profiles WHERE user_id = $1`, userID)
	return err
}
