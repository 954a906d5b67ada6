// internal/game/events.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/majlis/internal/models"
	"github.com/jason-s-yu/majlis/internal/quizbank"
)

// EventType is an enum-like type for events pushed to room members.
type EventType string

const (
	EventLobbyUpdate       EventType = "lobby_update"
	EventHockeyLobbyUpdate EventType = "hockey_lobby_update"
	EventHockeyCountdown   EventType = "hockey_countdown"
	EventGameStart         EventType = "game_start"

	EventXOStart  EventType = "xo_start"
	EventXOUpdate EventType = "xo_update"

	EventStopRoundStart  EventType = "stop_round_start"
	EventStopTimer       EventType = "stop_timer"
	EventStopForceSubmit EventType = "stop_force_submit"
	EventStopRoundEnd    EventType = "stop_round_end"
	EventStopGameOver    EventType = "stop_game_over"

	EventHockeyStart    EventType = "hockey_start"
	EventHockeyTick     EventType = "hockey_tick"
	EventHockeyGameOver EventType = "hockey_game_over"

	EventQuizBoard        EventType = "quiz_board"
	EventQuizOpenQuestion EventType = "quiz_open_question"
	EventQuizSteal        EventType = "quiz_steal"
	EventQuizTimer        EventType = "quiz_timer"
	EventQuizResult       EventType = "quiz_result"
	EventQuizGameOver     EventType = "quiz_game_over"

	// Replies to a single connection, never broadcast.
	EventCategories EventType = "categories"
	EventPong       EventType = "pong"
	EventError      EventType = "error"
)

// Event is the envelope every server message is serialized as.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// Sink receives the events addressed to one player. Write must not block.
type Sink interface {
	Write(ev Event)
}

// LobbyPayload lists the seats of a room that has not started yet.
type LobbyPayload struct {
	RoomID  string          `json:"roomId"`
	Type    models.GameType `json:"gameType"`
	Players []models.Player `json:"players"`
}

// CountdownPayload carries the seconds left on a lobby, round or question countdown.
type CountdownPayload struct {
	Remaining int `json:"remaining"`
}

// GameStartPayload is sent once when a room moves from lobby to playing.
type GameStartPayload struct {
	Room Snapshot `json:"roomState"`
}

// XOPayload is the board after a start, move or rematch.
type XOPayload struct {
	Board  [9]string  `json:"board"`
	TurnID *uuid.UUID `json:"turn,omitempty"`
	Winner *uuid.UUID `json:"winner,omitempty"`
	Draw   bool       `json:"draw,omitempty"`
}

type StopRoundStartPayload struct {
	Letter  string `json:"char"`
	Round   int    `json:"round"`
	Seconds int    `json:"time"`
}

// StopResult is one player's scored submission for a round.
type StopResult struct {
	Answers map[string]string `json:"ans"`
	Score   int               `json:"score"`
	Details map[string]int    `json:"details"`
}

type StopRoundEndPayload struct {
	Round   int                      `json:"round"`
	Results map[uuid.UUID]StopResult `json:"results"`
	Players []models.Player          `json:"players"`
}

// GameOverPayload closes a stop or quiz match. WinnerID is nil on a tie.
type GameOverPayload struct {
	Players  []models.Player `json:"players"`
	WinnerID *uuid.UUID      `json:"winnerId,omitempty"`
}

type HockeyStartPayload struct {
	Players []models.Player `json:"players"`
}

// HockeyTickPayload is the full simulation state after one step. Ev is "goal" on a scoring tick.
type HockeyTickPayload struct {
	Puck    Puck         `json:"puck"`
	Paddles Paddles      `json:"paddles"`
	Scores  HockeyScores `json:"scores"`
	Ev      string       `json:"ev,omitempty"`
}

type HockeyGameOverPayload struct {
	Winner uuid.UUID    `json:"winner"`
	Scores HockeyScores `json:"scores"`
}

// QuizCategoryView is a board column as shown to clients.
type QuizCategoryView struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type QuizBoardPayload struct {
	Categories []QuizCategoryView       `json:"cats"`
	Answered   [quizSize][quizSize]bool `json:"answered"`
	ActiveIdx  int                      `json:"activeIdx"`
	Phase      QuizPhase                `json:"qState"`
	Players    []models.Player          `json:"players"`
}

type QuizOpenPayload struct {
	Question  QuizQuestion `json:"q"`
	ActiveIdx int          `json:"activeIdx"`
	Phase     QuizPhase    `json:"qState"`
	Double    bool         `json:"double"`
}

// QuizStealPayload announces that the other player may steal. Reason is "wrong" or "timeout".
type QuizStealPayload struct {
	Reason      string `json:"reason"`
	StealingIdx int    `json:"stealingIdx"`
}

// QuizResultPayload resolves a question. PlayerIdx is the credited player, or -1.
type QuizResultPayload struct {
	OK        bool            `json:"ok"`
	Answer    string          `json:"ans"`
	Points    int             `json:"pts"`
	PlayerIdx int             `json:"playerIdx"`
	Players   []models.Player `json:"players"`
}

type CategoriesPayload struct {
	Categories []quizbank.CategoryInfo `json:"cats"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// ErrorEvent builds the error reply sent to a single connection.
func ErrorEvent(msg string) Event {
	return Event{Type: EventError, Payload: ErrorPayload{Message: msg}}
}
