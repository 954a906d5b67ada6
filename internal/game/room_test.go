// internal/game/room_test.go
package game

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/majlis/internal/cache"
	"github.com/jason-s-yu/majlis/internal/models"
	"github.com/jason-s-yu/majlis/internal/quizbank"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

// mockSink collects events instead of sending them over WS.
type mockSink struct {
	mu     sync.Mutex
	events []Event
}

func (m *mockSink) Write(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

func (m *mockSink) ofType(t EventType) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, ev := range m.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func (m *mockSink) count(t EventType) int {
	return len(m.ofType(t))
}

func (m *mockSink) last(t EventType) (Event, bool) {
	evs := m.ofType(t)
	if len(evs) == 0 {
		return Event{}, false
	}
	return evs[len(evs)-1], true
}

// mockJournal records what the room publishes.
type mockJournal struct {
	mu      sync.Mutex
	records []cache.RoomEventRecord
}

func (j *mockJournal) PublishRoomEvent(_ context.Context, rec cache.RoomEventRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, rec)
	return nil
}

func (j *mockJournal) types() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.records))
	for i, r := range j.records {
		out[i] = r.EventType
	}
	return out
}

func testTiming() Timing {
	return Timing{
		Second:      5 * time.Millisecond,
		HockeyTick:  time.Millisecond,
		PuckRespawn: 5 * time.Millisecond,
		StopReview:  10 * time.Millisecond,
		StopGrace:   10 * time.Millisecond,
		StealPause:  5 * time.Millisecond,
		TurnAdvance: 5 * time.Millisecond,
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestStore(t *testing.T, bank *quizbank.Bank, mutate func(*StoreConfig)) *RoomStore {
	t.Helper()
	cfg := StoreConfig{Timing: testTiming(), Hockey: DefaultHockeyConfig(), Seed: 42}
	if mutate != nil {
		mutate(&cfg)
	}
	s := NewRoomStore(bank, cfg, quietLogger())
	t.Cleanup(s.Close)
	return s
}

type seat struct {
	player models.Player
	sink   *mockSink
}

// joinPair seats two players in roomID and returns them in seat order.
func joinPair(t *testing.T, s *RoomStore, roomID string, gt models.GameType, opts models.RoomOptions) (*Room, [2]seat) {
	t.Helper()
	var seats [2]seat
	var room *Room
	for i := range seats {
		sink := &mockSink{}
		r, p, err := s.Join(context.Background(), JoinRequest{
			RoomID:   roomID,
			PlayerID: uuid.New(),
			GameType: gt,
			Options:  opts,
			Sink:     sink,
		})
		require.NoError(t, err)
		require.Equal(t, i, p.Idx)
		seats[i] = seat{player: p, sink: sink}
		room = r
	}
	return room, seats
}

// readyBoth toggles both seats ready and waits for the game to start.
func readyBoth(t *testing.T, room *Room, seats [2]seat) {
	t.Helper()
	for _, st := range seats {
		require.NoError(t, room.Send(context.Background(), ReadyCmd{PlayerID: st.player.ID}))
	}
	require.Eventually(t, func() bool {
		return seats[0].sink.count(EventGameStart) == 1 && seats[1].sink.count(EventGameStart) == 1
	}, waitFor, time.Millisecond)
}

// withRoom runs fn on the room goroutine.
func withRoom(t *testing.T, room *Room, fn func(r *Room)) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, room.inspect(ctx, fn))
}

func TestJoinNormalizesRoomID(t *testing.T) {
	s := newTestStore(t, nil, nil)
	room, seats := joinPair(t, s, "abcd", models.GameXO, models.NewRoomOptions(nil, nil, 0))

	assert.Equal(t, "ABCD", room.ID)
	got, ok := s.Get("ABCD")
	require.True(t, ok)
	assert.Same(t, room, got)
	assert.Equal(t, "Host", seats[0].player.Name)
	assert.Equal(t, "Guest", seats[1].player.Name)

	_, p, err := s.Join(context.Background(), JoinRequest{PlayerID: uuid.New(), GameType: models.GameStop, Sink: &mockSink{}})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Idx)
	_, ok = s.Get(models.DefaultRoomID)
	assert.True(t, ok)
}

func TestJoinRejections(t *testing.T) {
	s := newTestStore(t, nil, nil)
	joinPair(t, s, "FULL", models.GameXO, models.NewRoomOptions(nil, nil, 0))

	_, _, err := s.Join(context.Background(), JoinRequest{RoomID: "full", PlayerID: uuid.New(), GameType: models.GameXO, Sink: &mockSink{}})
	assert.ErrorIs(t, err, ErrRoomFull)

	_, _, err = s.Join(context.Background(), JoinRequest{RoomID: "OTHER", PlayerID: uuid.New(), GameType: "chess", Sink: &mockSink{}})
	assert.ErrorIs(t, err, ErrInvalidGameType)
	assert.Equal(t, 1, s.Len())

	// A room of another game counts as full.
	_, _, err = s.Join(context.Background(), JoinRequest{RoomID: "ONE", PlayerID: uuid.New(), GameType: models.GameXO, Sink: &mockSink{}})
	require.NoError(t, err)
	_, _, err = s.Join(context.Background(), JoinRequest{RoomID: "ONE", PlayerID: uuid.New(), GameType: models.GameQuiz, Sink: &mockSink{}})
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestQuizSeatsTakeTeamNames(t *testing.T) {
	s := newTestStore(t, nil, nil)
	_, seats := joinPair(t, s, "Q", models.GameQuiz, models.NewRoomOptions(nil, []string{"Red", "Blue"}, 0))
	assert.Equal(t, "Red", seats[0].player.Name)
	assert.Equal(t, "Blue", seats[1].player.Name)
}

func TestReadyToggle(t *testing.T) {
	s := newTestStore(t, nil, nil)
	room, seats := joinPair(t, s, "R", models.GameXO, models.NewRoomOptions(nil, nil, 0))
	ctx := context.Background()

	require.NoError(t, room.Send(ctx, ReadyCmd{PlayerID: seats[0].player.ID}))
	require.NoError(t, room.Send(ctx, ReadyCmd{PlayerID: seats[0].player.ID}))
	require.NoError(t, room.Send(ctx, ReadyCmd{PlayerID: seats[1].player.ID}))

	withRoom(t, room, func(r *Room) {
		assert.Equal(t, models.RoomLobby, r.state)
		assert.False(t, r.players[0].Ready)
		assert.True(t, r.players[1].Ready)
	})
	assert.Equal(t, 0, seats[0].sink.count(EventGameStart))

	require.NoError(t, room.Send(ctx, ReadyCmd{PlayerID: seats[0].player.ID}))
	require.Eventually(t, func() bool { return seats[1].sink.count(EventGameStart) == 1 }, waitFor, time.Millisecond)

	ev, _ := seats[1].sink.last(EventGameStart)
	snap := ev.Payload.(GameStartPayload).Room
	assert.Equal(t, models.RoomPlaying, snap.State)
	assert.Len(t, snap.Players, 2)
	require.NotNil(t, snap.XO)

	// Ready is ignored once playing.
	require.NoError(t, room.Send(ctx, ReadyCmd{PlayerID: seats[0].player.ID}))
	withRoom(t, room, func(r *Room) {
		assert.Equal(t, models.RoomPlaying, r.state)
		assert.True(t, r.players[0].Ready)
	})
}

func TestJoinWhilePlayingIsFull(t *testing.T) {
	s := newTestStore(t, nil, nil)
	room, seats := joinPair(t, s, "P", models.GameXO, models.NewRoomOptions(nil, nil, 0))
	readyBoth(t, room, seats)

	// The same connection joining again is re-attached, a new one is refused.
	_, p, err := s.Join(context.Background(), JoinRequest{RoomID: "P", PlayerID: seats[0].player.ID, GameType: models.GameXO, Sink: seats[0].sink})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Idx)

	_, _, err = s.Join(context.Background(), JoinRequest{RoomID: "P", PlayerID: uuid.New(), GameType: models.GameXO, Sink: &mockSink{}})
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestLeaveDetachesSink(t *testing.T) {
	s := newTestStore(t, nil, nil)
	room, seats := joinPair(t, s, "L", models.GameXO, models.NewRoomOptions(nil, nil, 0))

	room.Leave(seats[1].player.ID)
	withRoom(t, room, func(r *Room) {
		assert.False(t, r.players[1].Connected)
		assert.NotContains(t, r.sinks, seats[1].player.ID)
	})
	before := seats[1].sink.count(EventLobbyUpdate)

	require.NoError(t, room.Send(context.Background(), ReadyCmd{PlayerID: seats[0].player.ID}))
	withRoom(t, room, func(*Room) {})
	assert.Equal(t, before, seats[1].sink.count(EventLobbyUpdate))

	ev, ok := seats[0].sink.last(EventLobbyUpdate)
	require.True(t, ok)
	assert.False(t, ev.Payload.(LobbyPayload).Players[1].Connected)
}

func TestStaleTimerFiringIsDropped(t *testing.T) {
	s := newTestStore(t, nil, nil)
	room, _ := joinPair(t, s, "T", models.GameXO, models.NewRoomOptions(nil, nil, 0))

	withRoom(t, room, func(r *Room) {
		calls := 0
		r.after(timerQuizAdvance, time.Hour, func() { calls++ })
		first := r.timers[timerQuizAdvance].seq

		r.cancel(timerQuizAdvance)
		r.fire(timerFired{key: timerQuizAdvance, seq: first})
		assert.Equal(t, 0, calls)

		r.after(timerQuizAdvance, time.Hour, func() { calls++ })
		second := r.timers[timerQuizAdvance].seq
		r.fire(timerFired{key: timerQuizAdvance, seq: first})
		assert.Equal(t, 0, calls)

		r.fire(timerFired{key: timerQuizAdvance, seq: second})
		assert.Equal(t, 1, calls)
		assert.False(t, r.armed(timerQuizAdvance))

		// A one-shot fires at most once.
		r.fire(timerFired{key: timerQuizAdvance, seq: second})
		assert.Equal(t, 1, calls)
	})
}

func TestCountdownTicksToZero(t *testing.T) {
	s := newTestStore(t, nil, nil)
	room, _ := joinPair(t, s, "C", models.GameXO, models.NewRoomOptions(nil, nil, 0))

	var mu sync.Mutex
	var ticks []int
	zero := make(chan struct{})
	withRoom(t, room, func(r *Room) {
		r.countdown(timerLobbyCountdown, 3, func(rem int) {
			mu.Lock()
			ticks = append(ticks, rem)
			mu.Unlock()
		}, func() { close(zero) })
	})

	select {
	case <-zero:
	case <-time.After(waitFor):
		t.Fatal("countdown never reached zero")
	}
	mu.Lock()
	assert.Equal(t, []int{2, 1, 0}, ticks)
	mu.Unlock()
	withRoom(t, room, func(r *Room) { assert.False(t, r.armed(timerLobbyCountdown)) })
}

func TestIdleRoomsAreEvicted(t *testing.T) {
	s := newTestStore(t, nil, func(c *StoreConfig) {
		c.IdleTimeout = 20 * time.Millisecond
		c.SweepInterval = 5 * time.Millisecond
	})
	room, seats := joinPair(t, s, "IDLE", models.GameXO, models.NewRoomOptions(nil, nil, 0))

	require.Eventually(t, func() bool { return s.Len() == 0 }, waitFor, time.Millisecond)
	select {
	case <-room.Done():
	default:
		t.Fatal("evicted room was not closed")
	}
	assert.ErrorIs(t, room.Send(context.Background(), ReadyCmd{PlayerID: seats[0].player.ID}), ErrRoomClosed)

	// The code is free again.
	_, p, err := s.Join(context.Background(), JoinRequest{RoomID: "IDLE", PlayerID: uuid.New(), GameType: models.GameStop, Sink: &mockSink{}})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Idx)
}

func TestSweepKeepsActiveRooms(t *testing.T) {
	s := newTestStore(t, nil, func(c *StoreConfig) { c.IdleTimeout = time.Minute })
	joinPair(t, s, "A", models.GameXO, models.NewRoomOptions(nil, nil, 0))

	s.sweep(time.Now())
	assert.Equal(t, 1, s.Len())
	s.sweep(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, s.Len())
}

func TestJournalSkipsHighFrequencyEvents(t *testing.T) {
	j := &mockJournal{}
	s := newTestStore(t, nil, func(c *StoreConfig) { c.Journal = j })
	room, seats := joinPair(t, s, "J", models.GameXO, models.NewRoomOptions(nil, nil, 0))
	readyBoth(t, room, seats)

	require.Eventually(t, func() bool {
		for _, typ := range j.types() {
			if typ == string(EventXOStart) {
				return true
			}
		}
		return false
	}, waitFor, time.Millisecond)
	assert.Contains(t, j.types(), string(EventGameStart))
	assert.Contains(t, j.types(), string(EventLobbyUpdate))

	assert.False(t, journaled(EventHockeyTick))
	assert.False(t, journaled(EventStopTimer))
	assert.True(t, journaled(EventQuizResult))
}

func TestLeader(t *testing.T) {
	a := &models.Player{ID: uuid.New(), Score: 30}
	b := &models.Player{ID: uuid.New(), Score: 20}
	got := leader([]*models.Player{a, b})
	require.NotNil(t, got)
	assert.Equal(t, a.ID, *got)

	b.Score = 30
	assert.Nil(t, leader([]*models.Player{a, b}))
}

func TestJoinSeatsPlayerEvenIfCallerGivesUp(t *testing.T) {
	s := newTestStore(t, nil, nil)
	room, _, err := s.Join(context.Background(), JoinRequest{
		RoomID: "GHOST", PlayerID: uuid.New(), GameType: models.GameXO, Sink: &mockSink{},
	})
	require.NoError(t, err)

	// Hold the room goroutine so the join sits in the inbox.
	started, release := make(chan struct{}), make(chan struct{})
	go room.inspect(context.Background(), func(*Room) {
		close(started)
		<-release
	})
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	guest := uuid.New()
	type result struct {
		p   models.Player
		err error
	}
	res := make(chan result, 1)
	go func() {
		p, err := room.join(ctx, &models.Player{ID: guest}, &mockSink{})
		res <- result{p, err}
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()
	close(release)

	got := <-res
	require.NoError(t, got.err)
	assert.Equal(t, guest, got.p.ID)
	withRoom(t, room, func(r *Room) {
		require.NotNil(t, r.playerByID(guest))
	})
}

func TestRoomWithoutJournalSkipsRecording(t *testing.T) {
	s := newTestStore(t, nil, nil)
	room, _ := joinPair(t, s, "QUIET", models.GameXO, models.NewRoomOptions(nil, nil, 0))

	withRoom(t, room, func(r *Room) {
		assert.Nil(t, r.journal)
		r.broadcast(Event{Type: EventLobbyUpdate})
		assert.Zero(t, r.journalSeq)
	})
}
