package core

import "github.com/google/uuid"

// NewID returns a new UUID string, used for agent identifiers and any
// caller that prefers generated record ids over supplied ones.
func NewID() string { return uuid.NewString() }
