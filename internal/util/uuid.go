package util

import "github.com/google/uuid"

// NewUUID returns a random (v4) UUID string used for file and quiz identities.
func NewUUID() string {
	return uuid.NewString()
}
