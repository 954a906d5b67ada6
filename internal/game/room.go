// internal/game/room.go
package game

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/majlis/internal/cache"
	"github.com/jason-s-yu/majlis/internal/models"
	"github.com/sirupsen/logrus"
)

// MaxPlayers is the seat count of every room.
const MaxPlayers = 2

var (
	ErrRoomFull        = errors.New("room is full")
	ErrRoomClosed      = errors.New("room is closed")
	ErrInvalidGameType = errors.New("invalid game type")
)

const inboxSize = 64

// Room is one match between two players. All state below the inbox is owned by the run
// goroutine; other goroutines reach it only through messages.
type Room struct {
	ID      string
	Type    models.GameType
	Options models.RoomOptions

	inbox     chan any
	done      chan struct{}
	closeOnce sync.Once

	lastActive atomic.Int64 // unix nanos of the last join or command

	timing    Timing
	hockeyCfg HockeyConfig
	rng       *rand.Rand
	logger    *logrus.Entry
	journal   Journal // nil disables journaling

	state   models.RoomState
	players []*models.Player
	sinks   map[uuid.UUID]Sink

	timers   map[timerKey]*roomTimer
	timerSeq uint64

	journalSeq int

	xo     xoState
	stop   stopState
	hockey hockeyState
	quiz   quizState
}

// roomDeps are the collaborators a store hands to every room it creates.
type roomDeps struct {
	timing  Timing
	hockey  HockeyConfig
	journal Journal
	logger  *logrus.Logger
	rng     *rand.Rand
}

type joinMsg struct {
	player *models.Player
	sink   Sink
	reply  chan joinResult
}

type joinResult struct {
	player models.Player
	err    error
}

type leaveMsg struct {
	playerID uuid.UUID
}

// inspectMsg runs fn on the room goroutine.
type inspectMsg struct {
	fn   func(r *Room)
	done chan struct{}
}

func newRoom(id string, gameType models.GameType, opts models.RoomOptions, board []QuizCategory, deps roomDeps) *Room {
	r := &Room{
		ID:        id,
		Type:      gameType,
		Options:   opts,
		inbox:     make(chan any, inboxSize),
		done:      make(chan struct{}),
		timing:    deps.timing,
		hockeyCfg: deps.hockey,
		rng:       deps.rng,
		logger:    deps.logger.WithFields(logrus.Fields{"room": id, "game": gameType}),
		journal:   deps.journal,
		state:     models.RoomLobby,
		sinks:     make(map[uuid.UUID]Sink),
		timers:    make(map[timerKey]*roomTimer),
	}
	switch gameType {
	case models.GameHockey:
		r.hockey = newHockeyState(r.hockeyCfg)
	case models.GameQuiz:
		r.quiz = newQuizState(board)
	}
	r.touch()
	go r.run()
	return r
}

func (r *Room) run() {
	defer r.cancelAll()
	for {
		select {
		case <-r.done:
			return
		case msg := <-r.inbox:
			r.handle(msg)
		}
	}
}

func (r *Room) handle(msg any) {
	switch m := msg.(type) {
	case timerFired:
		r.fire(m)
	case joinMsg:
		r.handleJoin(m)
	case leaveMsg:
		r.handleLeave(m.playerID)
	case inspectMsg:
		m.fn(r)
		close(m.done)
	case ReadyCmd:
		r.toggleReady(m.PlayerID)
	case XOMoveCmd:
		r.xoMove(m.PlayerID, m.Cell)
	case XORematchCmd:
		r.xoRematch(m.PlayerID)
	case StopSubmitCmd:
		r.stopSubmit(m.PlayerID, m.Answers)
	case HockeyMoveCmd:
		r.hockeyMove(m.PlayerID, m.X, m.Y)
	case QuizPickCmd:
		r.quizPick(m.PlayerID, m.Category, m.Question, m.Double)
	case QuizAnswerCmd:
		r.quizAnswer(m.PlayerID, m.Answer)
	default:
		r.logger.Warnf("unhandled room message %T", msg)
	}
}

// post delivers msg to the inbox unless the room has been closed.
func (r *Room) post(msg any) bool {
	select {
	case r.inbox <- msg:
		return true
	case <-r.done:
		return false
	}
}

// Send queues a player command. It blocks only while the inbox is full.
func (r *Room) Send(ctx context.Context, cmd Command) error {
	if r.closed() {
		return ErrRoomClosed
	}
	r.touch()
	select {
	case r.inbox <- cmd:
		return nil
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// join seats p in the room, returning the seated copy.
func (r *Room) join(ctx context.Context, p *models.Player, sink Sink) (models.Player, error) {
	if r.closed() {
		return models.Player{}, ErrRoomClosed
	}
	r.touch()
	reply := make(chan joinResult, 1)
	select {
	case r.inbox <- joinMsg{player: p, sink: sink, reply: reply}:
	case <-r.done:
		return models.Player{}, ErrRoomClosed
	case <-ctx.Done():
		return models.Player{}, ctx.Err()
	}
	// Once queued the room will seat the player, so wait for the answer even if ctx ends.
	select {
	case res := <-reply:
		return res.player, res.err
	case <-r.done:
		return models.Player{}, ErrRoomClosed
	}
}

// Leave detaches the player's sink. The seat stays taken so the match can continue.
func (r *Room) Leave(playerID uuid.UUID) {
	r.post(leaveMsg{playerID: playerID})
}

// Snapshot returns a copy of the current room state.
func (r *Room) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := r.inspect(ctx, func(r *Room) { snap = r.snapshot() })
	return snap, err
}

func (r *Room) inspect(ctx context.Context, fn func(r *Room)) error {
	if r.closed() {
		return ErrRoomClosed
	}
	msg := inspectMsg{fn: fn, done: make(chan struct{})}
	select {
	case r.inbox <- msg:
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-msg.done:
		return nil
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the room goroutine and every timer it armed. Safe to call more than once.
func (r *Room) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}

// Done is closed once the room has been closed.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

func (r *Room) closed() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// IdleSince reports the last time a player joined or sent a command.
func (r *Room) IdleSince() time.Time {
	return time.Unix(0, r.lastActive.Load())
}

func (r *Room) touch() {
	r.lastActive.Store(time.Now().UnixNano())
}

func (r *Room) playerByID(id uuid.UUID) *models.Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// playersCopy returns value copies of the seats, safe to hand to sinks.
func (r *Room) playersCopy() []models.Player {
	out := make([]models.Player, len(r.players))
	for i, p := range r.players {
		out[i] = *p
	}
	return out
}

// broadcast writes ev to every attached sink and journals it.
func (r *Room) broadcast(ev Event) {
	for _, p := range r.players {
		if s, ok := r.sinks[p.ID]; ok {
			s.Write(ev)
		}
	}
	r.record(ev)
}

func (r *Room) record(ev Event) {
	if r.journal == nil || !journaled(ev.Type) {
		return
	}
	r.journalSeq++
	rec := cache.RoomEventRecord{
		RoomID:    r.ID,
		GameType:  string(r.Type),
		Seq:       r.journalSeq,
		EventType: string(ev.Type),
		Payload:   ev.Payload,
		Timestamp: time.Now().UnixMilli(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := r.journal.PublishRoomEvent(ctx, rec); err != nil {
			r.logger.Warnf("failed to journal %s #%d: %v", rec.EventType, rec.Seq, err)
		}
	}()
}
