package model

import (
	"time"
)

type Note struct {
	ID         string     `db:"id" json:"id"`
	UserID     string     `db:"user_id" json:"userId"`
	Title      string     `db:"title" json:"title"`
	Content    string     `db:"content" json:"content"`
	Category   string     `db:"category" json:"category"`
	Tags       StringList `db:"tags" json:"tags"`
	IsFavorite bool       `db:"is_favorite" json:"isFavorite"`
	IsPinned   bool       `db:"is_pinned" json:"isPinned"`
	Color      string     `db:"color" json:"color"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
}

// RenderedNote is a note's markdown content converted to HTML.
type RenderedNote struct {
	ID   string         `json:"id"`
	HTML string         `json:"html"`
	Meta map[string]any `json:"meta"`
}
