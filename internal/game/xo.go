// internal/game/xo.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/majlis/internal/models"
)

var xoMarks = [MaxPlayers]string{"X", "O"}

var xoLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

type xoState struct {
	board     [9]string
	turn      int // seat index to move
	startTurn int // seat that opened the current game
	finished  bool
}

// xoWinner reports whether mark holds a full line on board.
func xoWinner(board [9]string, mark string) bool {
	for _, l := range xoLines {
		if board[l[0]] == mark && board[l[1]] == mark && board[l[2]] == mark {
			return true
		}
	}
	return false
}

func xoFull(board [9]string) bool {
	for _, c := range board {
		if c == "" {
			return false
		}
	}
	return true
}

func (r *Room) xoStart() {
	r.xo.board = [9]string{}
	r.xo.turn = r.xo.startTurn
	r.xo.finished = false
	r.broadcast(Event{Type: EventXOStart, Payload: r.xoPayload()})
}

func (r *Room) xoMove(playerID uuid.UUID, cell int) {
	if r.Type != models.GameXO || r.state != models.RoomPlaying || r.xo.finished {
		return
	}
	if cell < 0 || cell >= len(r.xo.board) || r.xo.board[cell] != "" {
		return
	}
	if r.players[r.xo.turn].ID != playerID {
		return
	}

	mark := xoMarks[r.xo.turn]
	r.xo.board[cell] = mark
	payload := r.xoPayload()
	switch {
	case xoWinner(r.xo.board, mark):
		r.xo.finished = true
		winner := playerID
		payload.Winner = &winner
		payload.TurnID = nil
		r.logger.Infof("xo won by %s", playerID)
	case xoFull(r.xo.board):
		r.xo.finished = true
		payload.Draw = true
		payload.TurnID = nil
	default:
		r.xo.turn = 1 - r.xo.turn
		payload = r.xoPayload()
	}
	r.broadcast(Event{Type: EventXOUpdate, Payload: payload})
}

// xoRematch clears the board and hands the opening move to the other seat.
func (r *Room) xoRematch(playerID uuid.UUID) {
	if r.Type != models.GameXO || r.state != models.RoomPlaying || r.playerByID(playerID) == nil {
		return
	}
	r.xo.startTurn = 1 - r.xo.startTurn
	r.xoStart()
}

func (r *Room) xoPayload() XOPayload {
	turn := r.players[r.xo.turn].ID
	return XOPayload{Board: r.xo.board, TurnID: &turn}
}

func (s xoState) view(players []*models.Player) *XOPayload {
	out := &XOPayload{Board: s.board}
	if !s.finished && s.turn < len(players) {
		id := players[s.turn].ID
		out.TurnID = &id
	}
	return out
}
