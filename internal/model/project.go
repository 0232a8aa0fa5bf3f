package model

import (
	"time"
)

type Project struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"userId"`
	Name      string     `db:"name" json:"name"`
	Status    string     `db:"status" json:"status"`
	Priority  string     `db:"priority" json:"priority"`
	StartDate *time.Time `db:"start_date" json:"startDate"`
	DueDate   *time.Time `db:"due_date" json:"dueDate"`
	IsPublic  bool       `db:"is_public" json:"isPublic"`
	Color     string     `db:"color" json:"color"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`

	Objectives []string `db:"-" json:"objectives"`
}
