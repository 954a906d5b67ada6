// internal/game/hockey.go
package game

import (
	"math"

	"github.com/google/uuid"
	"github.com/jason-s-yu/majlis/internal/models"
)

type Puck struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type Paddle struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Paddles holds both paddles. P1 belongs to seat 0 and defends the bottom goal.
type Paddles struct {
	P1 Paddle `json:"p1"`
	P2 Paddle `json:"p2"`
}

type HockeyScores struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
}

type hockeyState struct {
	puck    Puck
	paddles Paddles
	scores  HockeyScores
	running bool
	over    bool
}

func newHockeyState(cfg HockeyConfig) hockeyState {
	h := hockeyState{paddles: Paddles{P1: cfg.P1Start, P2: cfg.P2Start}}
	h.centerPuck(cfg)
	return h
}

func (h *hockeyState) centerPuck(cfg HockeyConfig) {
	h.puck = Puck{X: cfg.Width / 2, Y: cfg.Height / 2}
}

// step advances the simulation by one tick. It returns the scoring seat and true when the puck
// crossed a goal line; the puck is then back at center and at rest.
func (h *hockeyState) step(cfg HockeyConfig) (int, bool) {
	p := &h.puck
	p.X += p.DX
	p.Y += p.DY
	p.DX *= cfg.Drag
	p.DY *= cfg.Drag

	if p.X <= cfg.WallMinX || p.X >= cfg.WallMaxX {
		p.DX = -p.DX
		p.X = clamp(p.X, cfg.WallMinX, cfg.WallMaxX)
	}

	inMouth := p.X > cfg.GoalMinX && p.X < cfg.GoalMaxX
	if p.Y <= 0 {
		if inMouth {
			h.scores.P1++
			h.centerPuck(cfg)
			return 0, true
		}
		p.Y = 0
		p.DY = -p.DY
	}
	if p.Y >= cfg.Height {
		if inMouth {
			h.scores.P2++
			h.centerPuck(cfg)
			return 1, true
		}
		p.Y = cfg.Height
		p.DY = -p.DY
	}

	h.strike(h.paddles.P1, cfg)
	h.strike(h.paddles.P2, cfg)
	return -1, false
}

// strike deflects the puck away from a paddle it overlaps, pushing it out of contact.
func (h *hockeyState) strike(pd Paddle, cfg HockeyConfig) {
	p := &h.puck
	dx := p.X - pd.X
	dy := p.Y - pd.Y
	dist := math.Hypot(dx, dy)
	if dist >= cfg.CollisionRadius {
		return
	}
	angle := math.Atan2(dy, dx)
	speed := clamp(math.Hypot(p.DX, p.DY), cfg.MinStrikeSpeed, cfg.MaxStrikeSpeed)
	p.DX = math.Cos(angle) * speed * cfg.StrikeBoost
	p.DY = math.Sin(angle) * speed * cfg.StrikeBoost
	push := cfg.CollisionRadius - dist
	p.X += math.Cos(angle) * push
	p.Y += math.Sin(angle) * push
}

func (r *Room) startHockeyCountdown() {
	r.countdown(timerLobbyCountdown, hockeyCountdownFrom+1,
		func(remaining int) {
			r.broadcast(Event{Type: EventHockeyCountdown, Payload: CountdownPayload{Remaining: remaining}})
		},
		r.startGame,
	)
}

func (r *Room) hockeyStart() {
	r.hockey.running = true
	r.broadcast(Event{Type: EventHockeyStart, Payload: HockeyStartPayload{Players: r.playersCopy()}})
	r.every(timerHockeyTick, r.timing.HockeyTick, r.hockeyTick)
}

func (r *Room) hockeyTick() {
	if !r.hockey.running {
		return
	}
	scorer, goal := r.hockey.step(r.hockeyCfg)
	payload := r.hockey.payload()
	if goal {
		payload.Ev = "goal"
		r.logger.Infof("goal for seat %d (%d-%d)", scorer, r.hockey.scores.P1, r.hockey.scores.P2)
	}
	r.broadcast(Event{Type: EventHockeyTick, Payload: payload})
	if !goal {
		return
	}

	winner := -1
	switch {
	case r.hockey.scores.P1 >= r.hockeyCfg.TargetScore:
		winner = 0
	case r.hockey.scores.P2 >= r.hockeyCfg.TargetScore:
		winner = 1
	}
	if winner < 0 {
		r.after(timerHockeyRelaunch, r.timing.PuckRespawn, r.hockeyRelaunch)
		return
	}

	r.hockey.running = false
	r.hockey.over = true
	r.cancel(timerHockeyTick)
	r.cancel(timerHockeyRelaunch)
	for _, p := range r.players {
		if p.Idx == 0 {
			p.Score = r.hockey.scores.P1
		} else {
			p.Score = r.hockey.scores.P2
		}
	}
	r.logger.Infof("hockey won by seat %d", winner)
	r.broadcast(Event{Type: EventHockeyGameOver, Payload: HockeyGameOverPayload{
		Winner: r.players[winner].ID,
		Scores: r.hockey.scores,
	}})
}

// hockeyRelaunch sends the puck from center at a random angle toward either half.
func (r *Room) hockeyRelaunch() {
	if !r.hockey.running {
		return
	}
	cfg := r.hockeyCfg
	angle := cfg.RelaunchMinAngle + r.rng.Float64()*(cfg.RelaunchMaxAngle-cfg.RelaunchMinAngle)
	dir := 1.0
	if r.rng.Intn(2) == 0 {
		dir = -1
	}
	r.hockey.puck.DX = math.Cos(angle) * cfg.RelaunchSpeed * dir
	r.hockey.puck.DY = math.Sin(angle) * cfg.RelaunchSpeed * dir
}

func (r *Room) hockeyMove(playerID uuid.UUID, x, y float64) {
	if r.Type != models.GameHockey || r.hockey.over {
		return
	}
	p := r.playerByID(playerID)
	if p == nil {
		return
	}
	r.hockey.movePaddle(r.hockeyCfg, p.Idx, x, y)
}

// movePaddle places a seat's paddle, keeping it inside the field and its own half.
func (h *hockeyState) movePaddle(cfg HockeyConfig, seat int, x, y float64) {
	x = clamp(x, 0, cfg.Width)
	if seat == 0 {
		h.paddles.P1 = Paddle{X: x, Y: clamp(y, cfg.P1MinY, cfg.P1MaxY)}
	} else {
		h.paddles.P2 = Paddle{X: x, Y: clamp(y, cfg.P2MinY, cfg.P2MaxY)}
	}
}

func (h hockeyState) payload() HockeyTickPayload {
	return HockeyTickPayload{Puck: h.puck, Paddles: h.paddles, Scores: h.scores}
}
