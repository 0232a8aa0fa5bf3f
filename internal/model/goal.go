package model

import (
	"time"
)

type Goal struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Name      string    `db:"name" json:"name"`
	Status    string    `db:"status" json:"status"`
	Category  string    `db:"category" json:"category"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Ordered objective ids from goal_objectives
	Objectives []string `db:"-" json:"objectives"`
}
