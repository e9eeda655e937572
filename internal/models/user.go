package models

// User is a registered identity. Users are immutable once created.
type User struct {
	// ID is the database-assigned identifier.
	ID int64

	// Name is the display name.
	Name string

	// Email is unique across all users.
	Email string

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64
}
