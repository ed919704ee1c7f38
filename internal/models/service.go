package models

import "time"

// Service is a scheduled mass requiring staffed role slots.
// Time is the civil time-of-day in "15:04" form; Date carries only the
// civil date component.
type Service struct {
	ID        string    `db:"id" json:"id"`
	Date      time.Time `db:"service_date" json:"date"`
	Time      string    `db:"service_time" json:"time"`
	Archived  bool      `db:"archived" json:"archived"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Slots []Slot `db:"-" json:"slots,omitempty"`
}

// Slot is a single role position within a service. A nil VolunteerID means
// the slot is vacant.
type Slot struct {
	ID          string  `db:"id" json:"id"`
	ServiceID   string  `db:"service_id" json:"service_id"`
	Role        string  `db:"role" json:"role"`
	Position    int     `db:"position" json:"position"`
	VolunteerID *string `db:"volunteer_id" json:"volunteer_id,omitempty"`

	// OccupantName is joined in by list queries; empty when vacant.
	OccupantName *string `db:"occupant_name" json:"occupant_name,omitempty"`
}

// Vacant reports whether the slot has no occupant.
func (s Slot) Vacant() bool {
	return s.VolunteerID == nil || *s.VolunteerID == ""
}
