package service

import "github.com/google/uuid"

// Actor identifies the caller on behalf of whom an operation runs. It is
// supplied by the auth layer; the engines never re-check permissions, they
// only stamp the actor onto audit events.
type Actor struct {
	ID       string
	Tier     string
	ClientIP string
}

// UUID returns the actor id parsed as UUID, or nil for automated callers.
func (a Actor) UUID() *uuid.UUID {
	if parsed, err := uuid.Parse(a.ID); err == nil {
		return &parsed
	}
	return nil
}
