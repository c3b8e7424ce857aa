package types

import "time"

// User represents an account in the system.
// It contains identity, team membership, and audit metadata.
type User struct {
	// ID is the unique identifier of the user, assigned by the store.
	ID int `json:"userId" db:"user_id"`

	// Username is the unique login name chosen at registration.
	// It cannot be changed afterwards.
	Username string `json:"username" db:"username"`

	// PasswordHash stores the bcrypt representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// ProfilePictureURL is the public URL of the uploaded profile picture,
	// or nil when the user registered without one.
	ProfilePictureURL *string `json:"profilePictureUrl,omitempty" db:"profile_picture_url"`

	// TeamID references the team the user belongs to, if any.
	TeamID *int `json:"teamId,omitempty" db:"team_id"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"-" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// Identity is the password-free view of a user held by clients.
type Identity struct {
	UserID            int     `json:"userId"`
	Username          string  `json:"username"`
	ProfilePictureURL *string `json:"profilePictureUrl,omitempty"`
	TeamID            *int    `json:"teamId,omitempty"`
}

// Identity returns the safe projection of the user.
func (u User) Identity() Identity {
	return Identity{
		UserID:            u.ID,
		Username:          u.Username,
		ProfilePictureURL: u.ProfilePictureURL,
		TeamID:            u.TeamID,
	}
}
