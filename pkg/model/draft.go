package model

import "time"

// Draft holds the caller-supplied fields of a new task.
type Draft struct {
	Title         string
	Description   string
	DueDate       *time.Time
	Category      string
	Priority      Priority
	Tags          []Tag
	EstimatedTime int
}

// Patch is a partial update. Nil fields are left unchanged; a non-nil Tags
// slice (even an empty one) replaces the task's tags.
type Patch struct {
	Title         *string
	Description   *string
	Completed     *bool
	DueDate       *time.Time
	ClearDueDate  bool
	Category      *string
	Priority      *Priority
	Tags          []Tag
	TimeSpent     *int
	EstimatedTime *int
}
