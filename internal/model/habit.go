package model

import (
	"time"
)

type Habit struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"userId"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description"`
	Frequency     string    `db:"frequency" json:"frequency"`
	CurrentStreak int       `db:"current_streak" json:"currentStreak"`
	LongestStreak int       `db:"longest_streak" json:"longestStreak"`
	Category      string    `db:"category" json:"category"`
	IsActive      bool      `db:"is_active" json:"isActive"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`

	// Sorted YYYY-MM-DD days from habit_completions
	CompletedDates []string `db:"-" json:"completedDates"`
}

func (h *Habit) CompletedOn(day string) bool {
	for _, d := range h.CompletedDates {
		if d == day {
			return true
		}
	}
	return false
}
