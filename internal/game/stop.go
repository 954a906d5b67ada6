// internal/game/stop.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/majlis/internal/models"
	"github.com/jason-s-yu/majlis/internal/textmatch"
)

type stopPhase int

const (
	stopIdle stopPhase = iota
	stopCollecting
	stopReviewing
	stopOver
)

type stopState struct {
	round   int
	letter  string
	phase   stopPhase
	results map[uuid.UUID]StopResult
}

var stopAlphabet = []rune(stopLetters)

func (r *Room) stopStartRound() {
	r.stop.round++
	r.stop.letter = string(stopAlphabet[r.rng.Intn(len(stopAlphabet))])
	r.stop.phase = stopCollecting
	r.stop.results = make(map[uuid.UUID]StopResult, len(r.players))

	seconds := r.Options.StopSeconds
	if seconds <= 0 {
		seconds = models.DefaultStopSeconds
	}
	r.broadcast(Event{Type: EventStopRoundStart, Payload: StopRoundStartPayload{
		Letter:  r.stop.letter,
		Round:   r.stop.round,
		Seconds: seconds,
	}})
	r.countdown(timerStopCountdown, seconds,
		func(remaining int) {
			r.broadcast(Event{Type: EventStopTimer, Payload: CountdownPayload{Remaining: remaining}})
		},
		func() {
			r.broadcast(Event{Type: EventStopForceSubmit})
			if r.timing.StopGrace > 0 {
				r.after(timerStopGrace, r.timing.StopGrace, r.stopCloseRound)
			}
		},
	)
}

// stopSubmit scores a player's answers. Only the first submission per round counts.
func (r *Room) stopSubmit(playerID uuid.UUID, answers map[string]string) {
	if r.Type != models.GameStop || r.state != models.RoomPlaying || r.stop.phase != stopCollecting {
		return
	}
	p := r.playerByID(playerID)
	if p == nil {
		return
	}
	if _, dup := r.stop.results[playerID]; dup {
		return
	}

	kept := make(map[string]string, len(answers))
	for k, v := range answers {
		kept[k] = v
	}
	score := textmatch.ScoreWordRound(kept, r.stop.letter)
	r.stop.results[playerID] = StopResult{Answers: kept, Score: score.Total, Details: score.Details}
	p.Score += score.Total

	if len(r.stop.results) >= len(r.players) {
		r.stopEndRound()
	}
}

// stopCloseRound ends a round whose grace period ran out, recording an empty submission for
// anyone who never answered.
func (r *Room) stopCloseRound() {
	if r.stop.phase != stopCollecting {
		return
	}
	for _, p := range r.players {
		if _, ok := r.stop.results[p.ID]; !ok {
			r.logger.Infof("stop round %d: %s did not submit", r.stop.round, p.ID)
			r.stop.results[p.ID] = StopResult{Answers: map[string]string{}, Details: map[string]int{}}
		}
	}
	r.stopEndRound()
}

func (r *Room) stopEndRound() {
	r.cancel(timerStopCountdown)
	r.cancel(timerStopGrace)
	r.stop.phase = stopReviewing

	results := make(map[uuid.UUID]StopResult, len(r.stop.results))
	for id, res := range r.stop.results {
		results[id] = res
	}
	r.broadcast(Event{Type: EventStopRoundEnd, Payload: StopRoundEndPayload{
		Round:   r.stop.round,
		Results: results,
		Players: r.playersCopy(),
	}})

	r.after(timerStopNext, r.timing.StopReview, func() {
		if r.stop.round < stopRounds {
			r.stopStartRound()
			return
		}
		r.stop.phase = stopOver
		r.logger.Info("stop match over")
		r.broadcast(Event{Type: EventStopGameOver, Payload: GameOverPayload{
			Players:  r.playersCopy(),
			WinnerID: leader(r.players),
		}})
	})
}

type StopView struct {
	Round  int    `json:"round"`
	Letter string `json:"char"`
	Over   bool   `json:"over"`
}

func (s stopState) view() *StopView {
	return &StopView{Round: s.round, Letter: s.letter, Over: s.phase == stopOver}
}
