package model

import (
	"time"
)

type User struct {
	ID                        string     `db:"id"`
	Email                     string     `db:"email"`
	PasswordHash              string     `db:"password_hash"`
	FirstName                 string     `db:"first_name"`
	LastName                  string     `db:"last_name"`
	EmailVerified             bool       `db:"email_verified"`
	LastVerificationEmailSent *time.Time `db:"last_verification_email_sent"`
	IsActive                  bool       `db:"is_active"`
	IsStaff                   bool       `db:"is_staff"`
	DateJoined                time.Time  `db:"date_joined"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
