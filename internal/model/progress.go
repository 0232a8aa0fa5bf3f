package model

// GoalProgress is embedded into every goal response.
type GoalProgress struct {
	ObjectiveCount      int `json:"objectiveCount"`
	CompletedObjectives int `json:"completedObjectives"`
	ProgressPercent     int `json:"progressPercent"`
	ProjectCount        int `json:"projectCount"`
	ProjectProgress     int `json:"projectProgress"`
}

type ObjectiveProgress struct {
	ProjectCount      int `json:"projectCount"`
	CompletedProjects int `json:"completedProjects"`
	ProgressPercent   int `json:"progressPercent"`
	TaskProgress      int `json:"taskProgress"`
}

type ProjectProgress struct {
	TaskCount       int `json:"taskCount"`
	CompletedTasks  int `json:"completedTasks"`
	ProgressPercent int `json:"progressPercent"`
}

type GoalWithProgress struct {
	*Goal
	GoalProgress
}

type ObjectiveWithProgress struct {
	*Objective
	ObjectiveProgress
}

type ProjectWithProgress struct {
	*Project
	ProjectProgress
}
