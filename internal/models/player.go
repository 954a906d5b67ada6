package models

import "github.com/google/uuid"

// Player is one seat in a room. ID is the connection id; Idx is the join order (0 or 1).
type Player struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Idx       int       `json:"idx"`
	Ready     bool      `json:"ready"`
	Score     int       `json:"score"`
	Connected bool      `json:"connected"`

	// DoubleUsed marks that the player spent their one quiz double for the match.
	DoubleUsed bool `json:"doubleUsed"`
}
