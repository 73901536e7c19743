package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ezapply/ezapply/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrProfileNotFound = errors.New("profile not found")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	Update(user *model.User) error
	SetEmailVerified(id string) error
	StampVerificationSent(id string, prev *time.Time, sentAt time.Time) (bool, error)
	Delete(id string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, email_verified, last_verification_email_sent, is_active, is_staff, date_joined)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.EmailVerified,
		user.LastVerificationEmailSent,
		user.IsActive,
		user.IsStaff,
		user.DateJoined,
	)
	if err != nil {
		// Check for unique constraint violation (works for both SQLite and PostgreSQL)
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.Get(user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) Update(user *model.User) error {
	query := `
		UPDATE users
		SET email = $1, password_hash = $2, first_name = $3, last_name = $4, email_verified = $5, last_verification_email_sent = $6, is_active = $7
		WHERE id = $8
	`
	_, err := r.db.Exec(query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.EmailVerified,
		user.LastVerificationEmailSent,
		user.IsActive,
		user.ID,
	)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateEmail
		}
	}
	return err
}

// SetEmailVerified flips the verification flag. It is never flipped back.
func (r *userRepository) SetEmailVerified(id string) error {
	result, err := r.db.Exec(`UPDATE users SET email_verified = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// StampVerificationSent records sentAt as the last verification-email send,
// but only if the column still holds prev. The conditional update makes two
// concurrent resend attempts resolve to a single email: the loser sees zero
// rows affected and returns false.
func (r *userRepository) StampVerificationSent(id string, prev *time.Time, sentAt time.Time) (bool, error) {
	var result sql.Result
	var err error

	if prev == nil {
		result, err = r.db.Exec(`
			UPDATE users
			SET last_verification_email_sent = $1
			WHERE id = $2 AND last_verification_email_sent IS NULL
		`, sentAt, id)
	} else {
		result, err = r.db.Exec(`
			UPDATE users
			SET last_verification_email_sent = $1
			WHERE id = $2 AND last_verification_email_sent = $3
		`, sentAt, id, *prev)
	}
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *userRepository) Delete(id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}
