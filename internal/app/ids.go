package app

import "github.com/google/uuid"

// NewPlayerID returns a fresh random player identifier.
func NewPlayerID() string { return uuid.NewString() }

// ValidID reports whether s looks like an identifier this package hands out.
func ValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
