// internal/game/lobby.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/majlis/internal/models"
)

var defaultSeatNames = [MaxPlayers]string{"Host", "Guest"}

func (r *Room) handleJoin(m joinMsg) {
	if p := r.playerByID(m.player.ID); p != nil {
		// Same connection joining again: re-attach and resend the lobby.
		p.Connected = true
		r.sinks[p.ID] = m.sink
		m.reply <- joinResult{player: *p}
		r.broadcastLobby()
		return
	}
	if len(r.players) >= MaxPlayers || r.state == models.RoomPlaying {
		m.reply <- joinResult{err: ErrRoomFull}
		return
	}

	p := m.player
	p.Idx = len(r.players)
	p.Ready = false
	p.Score = 0
	p.DoubleUsed = false
	p.Connected = true
	switch {
	case r.Type == models.GameQuiz:
		p.Name = r.Options.TeamNames[p.Idx]
	case p.Name == "":
		p.Name = defaultSeatNames[p.Idx]
	}
	r.players = append(r.players, p)
	r.sinks[p.ID] = m.sink
	m.reply <- joinResult{player: *p}

	r.logger.Infof("player %s joined seat %d", p.ID, p.Idx)
	r.broadcastLobby()

	if r.Type == models.GameHockey && len(r.players) == MaxPlayers {
		r.startHockeyCountdown()
	}
}

func (r *Room) handleLeave(playerID uuid.UUID) {
	p := r.playerByID(playerID)
	if p == nil {
		return
	}
	delete(r.sinks, playerID)
	p.Connected = false
	r.logger.Infof("player %s disconnected", playerID)
	if r.state == models.RoomLobby {
		r.broadcastLobby()
	}
}

func (r *Room) broadcastLobby() {
	evType := EventLobbyUpdate
	if r.Type == models.GameHockey {
		evType = EventHockeyLobbyUpdate
	}
	r.broadcast(Event{Type: evType, Payload: LobbyPayload{
		RoomID:  r.ID,
		Type:    r.Type,
		Players: r.playersCopy(),
	}})
}

// toggleReady flips the sender's ready flag. Hockey rooms start on their own and ignore it.
func (r *Room) toggleReady(playerID uuid.UUID) {
	if r.state != models.RoomLobby || r.Type == models.GameHockey {
		return
	}
	p := r.playerByID(playerID)
	if p == nil {
		return
	}
	p.Ready = !p.Ready
	r.broadcastLobby()

	if len(r.players) < MaxPlayers {
		return
	}
	for _, pl := range r.players {
		if !pl.Ready {
			return
		}
	}
	r.startGame()
}

func (r *Room) startGame() {
	r.state = models.RoomPlaying
	r.logger.Info("game started")
	r.broadcast(Event{Type: EventGameStart, Payload: GameStartPayload{Room: r.snapshot()}})

	switch r.Type {
	case models.GameXO:
		r.xoStart()
	case models.GameStop:
		r.stopStartRound()
	case models.GameHockey:
		r.hockeyStart()
	case models.GameQuiz:
		r.quizBegin()
	}
}
