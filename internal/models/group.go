package models

// Group is a named collection of users that transactions belong to.
// Membership is fixed at creation; no removal is modeled.
type Group struct {
	// ID is the database-assigned identifier.
	ID int64

	// Name is the display name of the group.
	Name string

	// Members are the user IDs belonging to this group.
	Members []int64

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
