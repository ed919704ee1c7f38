package models

import "time"

// Volunteer represents an acolyte or administrator stored in the volunteers table.
type Volunteer struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// VolunteerRef is the short form used in candidate lists and broadcasts.
type VolunteerRef struct {
	ID    string `db:"id" json:"id"`
	Email string `db:"email" json:"-"`
	Name  string `db:"name" json:"name"`
}
