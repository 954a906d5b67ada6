// internal/game/commands.go
package game

import "github.com/google/uuid"

// Command is a player action addressed to one room. The set is closed: only the types in this
// file implement it.
type Command interface {
	actor() uuid.UUID
}

// ReadyCmd toggles the sender's ready flag while the room is in the lobby.
type ReadyCmd struct {
	PlayerID uuid.UUID
}

type XOMoveCmd struct {
	PlayerID uuid.UUID
	Cell     int
}

type XORematchCmd struct {
	PlayerID uuid.UUID
}

// StopSubmitCmd carries a player's answers for the current round, keyed by category.
type StopSubmitCmd struct {
	PlayerID uuid.UUID
	Answers  map[string]string
}

// HockeyMoveCmd sets the sender's paddle position; Y is clamped to the sender's half.
type HockeyMoveCmd struct {
	PlayerID uuid.UUID
	X, Y     float64
}

type QuizPickCmd struct {
	PlayerID uuid.UUID
	Category int
	Question int
	Double   bool
}

type QuizAnswerCmd struct {
	PlayerID uuid.UUID
	Answer   string
}

func (c ReadyCmd) actor() uuid.UUID      { return c.PlayerID }
func (c XOMoveCmd) actor() uuid.UUID     { return c.PlayerID }
func (c XORematchCmd) actor() uuid.UUID  { return c.PlayerID }
func (c StopSubmitCmd) actor() uuid.UUID { return c.PlayerID }
func (c HockeyMoveCmd) actor() uuid.UUID { return c.PlayerID }
func (c QuizPickCmd) actor() uuid.UUID   { return c.PlayerID }
func (c QuizAnswerCmd) actor() uuid.UUID { return c.PlayerID }
