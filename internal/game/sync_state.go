// internal/game/sync_state.go
package game

import "github.com/jason-s-yu/majlis/internal/models"

// Snapshot is a point-in-time copy of a room. Only the section for the room's game is set.
type Snapshot struct {
	RoomID  string             `json:"roomId"`
	Type    models.GameType    `json:"gameType"`
	State   models.RoomState   `json:"state"`
	Options models.RoomOptions `json:"options"`
	Players []models.Player    `json:"players"`

	XO     *XOPayload         `json:"xo,omitempty"`
	Stop   *StopView          `json:"stop,omitempty"`
	Hockey *HockeyTickPayload `json:"hockey,omitempty"`
	Quiz   *QuizBoardPayload  `json:"quiz,omitempty"`
}

func (r *Room) snapshot() Snapshot {
	opts := r.Options
	opts.Categories = append([]string(nil), r.Options.Categories...)
	snap := Snapshot{
		RoomID:  r.ID,
		Type:    r.Type,
		State:   r.state,
		Options: opts,
		Players: r.playersCopy(),
	}
	switch r.Type {
	case models.GameXO:
		snap.XO = r.xo.view(r.players)
	case models.GameStop:
		snap.Stop = r.stop.view()
	case models.GameHockey:
		h := r.hockey.payload()
		snap.Hockey = &h
	case models.GameQuiz:
		q := r.quiz.boardPayload(snap.Players)
		snap.Quiz = &q
	}
	return snap
}
