package entities

import "time"

// Todo is a single item of the todo collection. ID is assigned by the store
// on creation and is opaque to callers.
type Todo struct {
	ID        string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
