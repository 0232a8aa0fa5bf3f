package model

import (
	"time"
)

type Task struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"userId"`
	Name        string     `db:"name" json:"name"`
	Status      string     `db:"status" json:"status"`
	Priority    string     `db:"priority" json:"priority"`
	Type        string     `db:"type" json:"type"`
	ProjectID   *string    `db:"project_id" json:"projectId"`
	ObjectiveID *string    `db:"objective_id" json:"objectiveId"`
	DueDate     *time.Time `db:"due_date" json:"dueDate"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}
