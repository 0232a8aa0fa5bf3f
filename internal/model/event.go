package model

import (
	"time"
)

type Event struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	StartDate   time.Time `db:"start_date" json:"startDate"`
	EndDate     time.Time `db:"end_date" json:"endDate"`
	AllDay      bool      `db:"all_day" json:"allDay"`
	Type        string    `db:"type" json:"type"`
	Priority    string    `db:"priority" json:"priority"`
	Status      string    `db:"status" json:"status"`
	Color       string    `db:"color" json:"color"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Overlaps reports whether the event intersects [from, to).
// A zero bound is open.
func (e *Event) Overlaps(from, to time.Time) bool {
	if !from.IsZero() && e.EndDate.Before(from) {
		return false
	}
	if !to.IsZero() && !e.StartDate.Before(to) {
		return false
	}
	return true
}
