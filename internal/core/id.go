package core

import "github.com/google/uuid"

// NewID generates a time-ordered UUID v7.
func NewID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}
