package types

import "time"

// TaskStatus is the board column a task sits in.
type TaskStatus string

const (
	StatusToDo           TaskStatus = "To Do"
	StatusWorkInProgress TaskStatus = "Work In Progress"
	StatusUnderReview    TaskStatus = "Under Review"
	StatusCompleted      TaskStatus = "Completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusToDo, StatusWorkInProgress, StatusUnderReview, StatusCompleted:
		return true
	}
	return false
}

// TaskPriority orders tasks by urgency.
type TaskPriority string

const (
	PriorityUrgent  TaskPriority = "Urgent"
	PriorityHigh    TaskPriority = "High"
	PriorityMedium  TaskPriority = "Medium"
	PriorityLow     TaskPriority = "Low"
	PriorityBacklog TaskPriority = "Backlog"
)

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow, PriorityBacklog:
		return true
	}
	return false
}

// Task is a unit of work inside a project.
type Task struct {
	// ID is the unique identifier of the task.
	ID int `json:"id" db:"id"`

	// Title is the short summary shown on boards.
	Title string `json:"title" db:"title"`

	// Description holds the full task body.
	Description *string `json:"description,omitempty" db:"description"`

	// Status is the current board column.
	Status *TaskStatus `json:"status,omitempty" db:"status"`

	// Priority is the urgency label.
	Priority *TaskPriority `json:"priority,omitempty" db:"priority"`

	// Tags is a comma-separated label list, stored as entered.
	Tags *string `json:"tags,omitempty" db:"tags"`

	StartDate *time.Time `json:"startDate,omitempty" db:"start_date"`
	DueDate   *time.Time `json:"dueDate,omitempty" db:"due_date"`

	// Points is the effort estimate.
	Points *int `json:"points,omitempty" db:"points"`

	// ProjectID references the owning project.
	ProjectID int `json:"projectId" db:"project_id"`

	// AuthorUserID is the user who created the task.
	AuthorUserID *int `json:"authorUserId,omitempty" db:"author_user_id"`

	// AssignedUserID is the user currently responsible for the task.
	AssignedUserID *int `json:"assignedUserId,omitempty" db:"assigned_user_id"`
}
