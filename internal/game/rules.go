// internal/game/rules.go
package game

import (
	"math"
	"time"
)

// Timing holds every wall-clock duration a room uses. Tests shrink these to run games fast.
type Timing struct {
	Second      time.Duration // one step of every visible countdown
	HockeyTick  time.Duration
	PuckRespawn time.Duration // pause between a goal and the relaunch
	StopReview  time.Duration // pause after a stop round before the next one
	StopGrace   time.Duration // wait after stop_force_submit before closing the round; 0 waits forever
	StealPause  time.Duration
	TurnAdvance time.Duration // quiz board lock after a question resolves
}

// DefaultTiming returns the production durations.
func DefaultTiming() Timing {
	return Timing{
		Second:      time.Second,
		HockeyTick:  time.Second / 60,
		PuckRespawn: time.Second,
		StopReview:  8 * time.Second,
		StopGrace:   5 * time.Second,
		StealPause:  1500 * time.Millisecond,
		TurnAdvance: 3 * time.Second,
	}
}

// HockeyConfig is the field geometry and physics of the hockey game, in field units.
type HockeyConfig struct {
	Width, Height float64

	WallMinX, WallMaxX float64
	GoalMinX, GoalMaxX float64

	Drag            float64 // velocity multiplier applied every tick
	CollisionRadius float64 // puck-center to paddle-center distance that counts as contact
	MinStrikeSpeed  float64
	MaxStrikeSpeed  float64
	StrikeBoost     float64

	RelaunchSpeed    float64
	RelaunchMinAngle float64
	RelaunchMaxAngle float64

	TargetScore int

	// Player 0 defends the bottom goal, player 1 the top.
	P1MinY, P1MaxY float64
	P2MinY, P2MaxY float64
	P1Start        Paddle
	P2Start        Paddle
}

// DefaultHockeyConfig returns the standard 400x600 field.
func DefaultHockeyConfig() HockeyConfig {
	return HockeyConfig{
		Width:            400,
		Height:           600,
		WallMinX:         12,
		WallMaxX:         388,
		GoalMinX:         120,
		GoalMaxX:         280,
		Drag:             0.995,
		CollisionRadius:  34,
		MinStrikeSpeed:   12,
		MaxStrikeSpeed:   25,
		StrikeBoost:      1.05,
		RelaunchSpeed:    8,
		RelaunchMinAngle: math.Pi / 4,
		RelaunchMaxAngle: 3 * math.Pi / 4,
		TargetScore:      7,
		P1MinY:           322,
		P1MaxY:           578,
		P2MinY:           22,
		P2MaxY:           278,
		P1Start:          Paddle{X: 200, Y: 550},
		P2Start:          Paddle{X: 200, Y: 50},
	}
}

const (
	// Countdown lengths, in Timing.Second steps.
	hockeyCountdownFrom = 3
	quizAnswerSeconds   = 60
	quizStealSeconds    = 15

	stopRounds  = 3
	stopLetters = "ابتثجحخدذرزسشصضطظعغفقكلمنهوي"
)
