// internal/models/room.go
package models

import "strings"

// GameType selects which engine drives a room. It never changes after the room is created.
type GameType string

const (
	GameXO     GameType = "xo"
	GameStop   GameType = "stop"
	GameHockey GameType = "hockey"
	GameQuiz   GameType = "quiz"
)

// Valid reports whether t names one of the four games.
func (t GameType) Valid() bool {
	switch t {
	case GameXO, GameStop, GameHockey, GameQuiz:
		return true
	}
	return false
}

// RoomState is the lobby/playing phase of a room.
type RoomState string

const (
	RoomLobby   RoomState = "lobby"
	RoomPlaying RoomState = "playing"
)

const (
	// DefaultRoomID is used when a client joins without a room code.
	DefaultRoomID = "TEST"

	DefaultStopSeconds = 60
	MaxStopSeconds     = 600
)

// DefaultTeamNames are the quiz seat names when the host supplies none.
var DefaultTeamNames = [2]string{"الفريق 1", "الفريق 2"}

// RoomOptions are the creation-time settings supplied by the first joiner.
type RoomOptions struct {
	Categories  []string  `json:"categories,omitempty"`
	TeamNames   [2]string `json:"teamNames"`
	StopSeconds int       `json:"timeLimit"`
}

// NormalizeRoomID upper-cases and trims a room code, defaulting to DefaultRoomID.
func NormalizeRoomID(id string) string {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return DefaultRoomID
	}
	return id
}

// NewRoomOptions applies defaults to the raw options sent with a join request.
func NewRoomOptions(categories, teamNames []string, timeLimit int) RoomOptions {
	opts := RoomOptions{
		Categories:  categories,
		TeamNames:   DefaultTeamNames,
		StopSeconds: DefaultStopSeconds,
	}
	if len(teamNames) >= 2 {
		for i := 0; i < 2; i++ {
			if n := strings.TrimSpace(teamNames[i]); n != "" {
				opts.TeamNames[i] = n
			}
		}
	}
	if timeLimit > 0 && timeLimit <= MaxStopSeconds {
		opts.StopSeconds = timeLimit
	}
	return opts
}
