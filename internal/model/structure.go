package model

import (
	"time"
)

// Structure is a user-defined relabeling of the planning hierarchy.
type Structure struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"userId"`
	Name      string     `db:"name" json:"name"`
	Levels    StringList `db:"levels" json:"levels"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}

var DefaultLevels = []string{"Goal", "Objective", "Project", "Task"}
