package model

import "time"

// Export is a complete snapshot of one user's data.
type Export struct {
	ExportedAt time.Time    `json:"exportedAt"`
	User       *User        `json:"user"`
	Goals      []*Goal      `json:"goals"`
	Objectives []*Objective `json:"objectives"`
	Projects   []*Project   `json:"projects"`
	Tasks      []*Task      `json:"tasks"`
	Habits     []*Habit     `json:"habits"`
	Notes      []*Note      `json:"notes"`
	Events     []*Event     `json:"events"`
	Structures []*Structure `json:"structures"`
}

type ExportArchive struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Dashboard struct {
	Counts         map[string]int `json:"counts"`
	GoalProgress   int            `json:"goalProgress"`
	TasksDueSoon   []*Task        `json:"tasksDueSoon"`
	HabitsDone     int            `json:"habitsCompletedToday"`
	HabitsActive   int            `json:"habitsActive"`
	PinnedNotes    []*Note        `json:"pinnedNotes"`
	UpcomingEvents []*Event       `json:"upcomingEvents"`
}
