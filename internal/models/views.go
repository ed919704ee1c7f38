package models

import "time"

// AdminSlotView decorates a slot with the advisory candidate list shown to
// administrators. Candidates hold the matching qualification and are not
// administrators; the list is a suggestion, not a constraint.
type AdminSlotView struct {
	Slot
	Candidates []VolunteerRef `json:"candidates"`
}

// AdminServiceView is the administrator listing entry: newest date first,
// slots in creation order.
type AdminServiceView struct {
	Service
	SlotViews []AdminSlotView `json:"slots"`
}

// APISlot is the volunteer-facing slot payload.
type APISlot struct {
	SlotID       string  `json:"slotId"`
	Role         string  `json:"role"`
	OccupantName *string `json:"occupantName"`
	IsMine       bool    `json:"isMine"`
}

// APIService is the volunteer-facing service payload, soonest first.
type APIService struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	WeekdayName string    `json:"weekdayName"`
	Time        string    `json:"time"`
	Slots       []APISlot `json:"slots"`
}

var weekdayNames = [...]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
}

// WeekdayName renders the weekday shown on schedule cards.
func WeekdayName(d time.Time) string {
	return weekdayNames[d.Weekday()]
}
