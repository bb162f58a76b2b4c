package domain

import "github.com/google/uuid"

// NewSessionID creates a new unique identifier for a focus session.
func NewSessionID() string {
	return uuid.New().String()
}
