// internal/handlers/messages.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jason-s-yu/majlis/internal/game"
	"github.com/jason-s-yu/majlis/internal/models"
)

// Limits on client input.
const (
	maxNameRunes       = 32
	maxCategories      = 24
	maxStopAnswers     = 20
	maxStopKeyRunes    = 50
	maxStopAnswerRunes = 100
	maxQuizAnswerRunes = 200
)

var (
	errInvalidPayload = errors.New("invalid payload")
	errUnknownType    = errors.New("unknown message type")
)

// ClientMessage is the envelope of every inbound websocket message.
type ClientMessage struct {
	Type    string          `json:"type"`
	RoomID  string          `json:"roomId"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinLobbyPayload is the payload of join_lobby. The options only apply when the join creates
// the room.
type JoinLobbyPayload struct {
	PlayerName string   `json:"playerName"`
	GameType   string   `json:"gameType"`
	Categories []string `json:"cats"`
	TeamNames  []string `json:"teamNames"`
	TimeLimit  int      `json:"timeLimit"`
}

type xoMovePayload struct {
	Idx *int `json:"idx"`
}

type stopSubmitPayload struct {
	Answers map[string]string `json:"answers"`
}

type hockeyMovePayload struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type quizPickPayload struct {
	Category *int `json:"cI"`
	Question *int `json:"qI"`
	Double   bool `json:"dbl"`
}

type quizAnswerPayload struct {
	Answer string `json:"ans"`
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errInvalidPayload}, args...)...)
}

func tooLong(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}

// parseJoin validates a join_lobby message into a store request for conn.
func parseJoin(msg ClientMessage, conn *Connection) (game.JoinRequest, error) {
	var p JoinLobbyPayload
	if err := decodePayload(msg.Payload, &p); err != nil {
		return game.JoinRequest{}, err
	}
	gt := models.GameType(p.GameType)
	if !gt.Valid() {
		return game.JoinRequest{}, invalid("unknown game type %q", p.GameType)
	}
	name := strings.TrimSpace(p.PlayerName)
	if tooLong(name, maxNameRunes) {
		return game.JoinRequest{}, invalid("playerName longer than %d characters", maxNameRunes)
	}
	if len(p.Categories) > maxCategories {
		return game.JoinRequest{}, invalid("at most %d categories", maxCategories)
	}
	if len(p.TeamNames) > 2 {
		return game.JoinRequest{}, invalid("at most 2 team names")
	}
	for _, tn := range p.TeamNames {
		if tooLong(tn, maxNameRunes) {
			return game.JoinRequest{}, invalid("team name longer than %d characters", maxNameRunes)
		}
	}
	return game.JoinRequest{
		RoomID:     msg.RoomID,
		PlayerID:   conn.ID,
		UserID:     conn.UserID,
		PlayerName: name,
		GameType:   gt,
		Options:    models.NewRoomOptions(p.Categories, p.TeamNames, p.TimeLimit),
		Sink:       conn,
	}, nil
}

// parseCommand validates a room-scoped game message.
func parseCommand(msg ClientMessage, playerID uuid.UUID) (game.Command, error) {
	switch msg.Type {
	case "ready":
		return game.ReadyCmd{PlayerID: playerID}, nil

	case "xo_move":
		var p xoMovePayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		if p.Idx == nil || *p.Idx < 0 || *p.Idx > 8 {
			return nil, invalid("idx must be 0..8")
		}
		return game.XOMoveCmd{PlayerID: playerID, Cell: *p.Idx}, nil

	case "xo_rematch":
		return game.XORematchCmd{PlayerID: playerID}, nil

	case "stop_submit":
		var p stopSubmitPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		if len(p.Answers) > maxStopAnswers {
			return nil, invalid("at most %d answers", maxStopAnswers)
		}
		for k, v := range p.Answers {
			if tooLong(k, maxStopKeyRunes) || tooLong(v, maxStopAnswerRunes) {
				return nil, invalid("answer for %q too long", k)
			}
		}
		if p.Answers == nil {
			p.Answers = map[string]string{}
		}
		return game.StopSubmitCmd{PlayerID: playerID, Answers: p.Answers}, nil

	case "hockey_move":
		var p hockeyMovePayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		if p.X == nil || p.Y == nil || !finite(*p.X) || !finite(*p.Y) {
			return nil, invalid("x and y must be numbers")
		}
		return game.HockeyMoveCmd{PlayerID: playerID, X: *p.X, Y: *p.Y}, nil

	case "quiz_pick":
		var p quizPickPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		if p.Category == nil || p.Question == nil ||
			*p.Category < 0 || *p.Category > 5 || *p.Question < 0 || *p.Question > 5 {
			return nil, invalid("cI and qI must be 0..5")
		}
		return game.QuizPickCmd{PlayerID: playerID, Category: *p.Category, Question: *p.Question, Double: p.Double}, nil

	case "quiz_answer":
		var p quizAnswerPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		if tooLong(p.Answer, maxQuizAnswerRunes) {
			return nil, invalid("ans longer than %d characters", maxQuizAnswerRunes)
		}
		return game.QuizAnswerCmd{PlayerID: playerID, Answer: p.Answer}, nil
	}
	return nil, fmt.Errorf("%w: %q", errUnknownType, msg.Type)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
