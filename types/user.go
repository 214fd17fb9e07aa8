package types

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account in the system.
// It contains identity, role, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username mirrors Email; it is kept as a separate column so the login
	// handle can diverge from the contact address later without a migration.
	Username string `json:"username" db:"username"`

	// Email is the user's unique email address and login handle.
	Email string `json:"email" db:"email"`

	// FirstName is the user's given name.
	FirstName string `json:"first_name" db:"first_name"`

	// LastName is the user's family name.
	LastName string `json:"last_name" db:"last_name"`

	// Role indicates the user's authorization level or role
	// within the system (e.g., "admin", "user").
	Role string `json:"-" db:"role"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"-" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile holds the extended, self-editable details of a user.
// Every profile belongs to exactly one user.
type Profile struct {
	// ID is the unique identifier of the profile.
	ID int `json:"id" db:"id"`

	// UserID references the owning user. It is never changed after creation.
	UserID int `json:"user" db:"user_id"`

	// Bio is a free-text biography.
	Bio string `json:"bio" db:"bio"`

	// Website, GitHub, LinkedIn and Twitter are optional profile links.
	Website  string `json:"website" db:"website"`
	GitHub   string `json:"github" db:"github"`
	LinkedIn string `json:"linkedin" db:"linkedin"`
	Twitter  string `json:"twitter" db:"twitter"`

	// ProfileImage is the object storage key of the avatar, empty when unset.
	ProfileImage string `json:"-" db:"profile_image"`

	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}
