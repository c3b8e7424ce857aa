package types

import "time"

// Project groups tasks under a shared name and optional schedule.
type Project struct {
	// ID is the unique identifier of the project.
	ID int `json:"id" db:"id"`

	// Name is the human-readable project name.
	Name string `json:"name" db:"name"`

	// Description is an optional free-form summary.
	Description *string `json:"description,omitempty" db:"description"`

	// StartDate and EndDate bound the planned schedule, when known.
	StartDate *time.Time `json:"startDate,omitempty" db:"start_date"`
	EndDate   *time.Time `json:"endDate,omitempty" db:"end_date"`
}
