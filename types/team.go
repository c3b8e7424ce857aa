package types

// Team is a named group of users with optional owner roles.
type Team struct {
	ID                   int    `json:"teamId" db:"team_id"`
	Name                 string `json:"teamName" db:"team_name"`
	ProductOwnerUserID   *int   `json:"productOwnerUserId,omitempty" db:"product_owner_user_id"`
	ProjectManagerUserID *int   `json:"projectManagerUserId,omitempty" db:"project_manager_user_id"`
}
