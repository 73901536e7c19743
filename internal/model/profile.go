package model

import "time"

// Profile extends a User with the application-tracking fields shown on the
// dashboard. Exactly one Profile exists per User; the row is removed together
// with its owner.
type Profile struct {
	ID              string     `db:"id"`
	UserID          string     `db:"user_id"`
	EmailCommsOptIn bool       `db:"email_comms_opt_in"`
	BirthDate       *time.Time `db:"birth_date"`
	Applications    int        `db:"current_applications_made"`
	Interviews      int        `db:"current_interviews_made"`
	Offers          int        `db:"current_offers_received"`
	LastReset       time.Time  `db:"last_reset"`
}
