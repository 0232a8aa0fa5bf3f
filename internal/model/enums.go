package model

// StatusCompleted is the only status that counts toward progress roll-ups.
const StatusCompleted = "Completed"

// Goal, Objective and Project share one status set.
const (
	StatusActive = "Active"
	StatusNext   = "Next"
	StatusPaused = "Paused"
)

var PlanStatuses = []string{StatusActive, StatusCompleted, StatusNext, StatusPaused}

const (
	TaskStatusNotStarted = "Not Started"
	TaskStatusInProgress = "In Progress"
)

var TaskStatuses = []string{TaskStatusNotStarted, TaskStatusInProgress, StatusCompleted}

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

const (
	FrequencyDaily   = "Daily"
	FrequencyWeekly  = "Weekly"
	FrequencyMonthly = "Monthly"
)

var Frequencies = []string{FrequencyDaily, FrequencyWeekly, FrequencyMonthly}

var NoteCategories = []string{"Personal", "Work", "Ideas", "Learning", "Other"}

var EventTypes = []string{"Meeting", "Appointment", "Reminder", "Deadline", "Personal", "Work", "Other"}

const (
	EventStatusScheduled  = "Scheduled"
	EventStatusInProgress = "In Progress"
	EventStatusCancelled  = "Cancelled"
)

var EventStatuses = []string{EventStatusScheduled, EventStatusInProgress, StatusCompleted, EventStatusCancelled}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var Roles = []string{RoleUser, RoleAdmin}

const (
	DefaultColor     = "#3B82F6"
	DefaultNoteColor = "#FFFFFF"
	DefaultTaskType  = "Task"
	DefaultCategory  = "General"
)
