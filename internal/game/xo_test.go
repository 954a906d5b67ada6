// internal/game/xo_test.go
package game

import (
	"context"
	"testing"
	"time"

	"github.com/jason-s-yu/majlis/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXOWinner(t *testing.T) {
	var b [9]string
	b[0], b[3], b[6] = "X", "X", "X"
	assert.True(t, xoWinner(b, "X"))
	assert.False(t, xoWinner(b, "O"))

	b = [9]string{"X", "O", "X", "X", "O", "O", "O", "X", "X"}
	assert.False(t, xoWinner(b, "X"))
	assert.False(t, xoWinner(b, "O"))
	assert.True(t, xoFull(b))
}

func TestXOLeftColumnWin(t *testing.T) {
	s := newTestStore(t, nil, nil)
	room, seats := joinPair(t, s, "abcd", models.GameXO, models.NewRoomOptions(nil, nil, 0))
	readyBoth(t, room, seats)

	start, ok := seats[0].sink.last(EventXOStart)
	require.True(t, ok)
	require.NotNil(t, start.Payload.(XOPayload).TurnID)
	assert.Equal(t, seats[0].player.ID, *start.Payload.(XOPayload).TurnID)

	ctx := context.Background()
	p0, p1 := seats[0].player.ID, seats[1].player.ID
	for _, m := range []XOMoveCmd{
		{PlayerID: p0, Cell: 0},
		{PlayerID: p1, Cell: 1},
		{PlayerID: p0, Cell: 3},
		{PlayerID: p1, Cell: 4},
		{PlayerID: p0, Cell: 6},
	} {
		require.NoError(t, room.Send(ctx, m))
	}

	require.Eventually(t, func() bool { return seats[1].sink.count(EventXOUpdate) == 5 }, waitFor, time.Millisecond)
	ev, _ := seats[1].sink.last(EventXOUpdate)
	final := ev.Payload.(XOPayload)
	require.NotNil(t, final.Winner)
	assert.Equal(t, p0, *final.Winner)
	assert.Nil(t, final.TurnID)
	assert.Equal(t, "X", final.Board[0])
	assert.Equal(t, "O", final.Board[1])

	// Moves after the win are ignored.
	require.NoError(t, room.Send(ctx, XOMoveCmd{PlayerID: p1, Cell: 8}))
	withRoom(t, room, func(r *Room) { assert.Equal(t, "", r.xo.board[8]) })
	assert.Equal(t, 5, seats[1].sink.count(EventXOUpdate))
}

func TestXOIgnoresIllegalMoves(t *testing.T) {
	s := newTestStore(t, nil, nil)
	room, seats := joinPair(t, s, "ILLEGAL", models.GameXO, models.NewRoomOptions(nil, nil, 0))
	ctx := context.Background()
	p0, p1 := seats[0].player.ID, seats[1].player.ID

	// Not started yet.
	require.NoError(t, room.Send(ctx, XOMoveCmd{PlayerID: p0, Cell: 0}))
	readyBoth(t, room, seats)

	require.NoError(t, room.Send(ctx, XOMoveCmd{PlayerID: p1, Cell: 0})) // out of turn
	require.NoError(t, room.Send(ctx, XOMoveCmd{PlayerID: p0, Cell: 9})) // out of range
	require.NoError(t, room.Send(ctx, XOMoveCmd{PlayerID: p0, Cell: 4}))
	require.NoError(t, room.Send(ctx, XOMoveCmd{PlayerID: p1, Cell: 4})) // occupied

	withRoom(t, room, func(r *Room) {
		assert.Equal(t, [9]string{4: "X"}, r.xo.board)
		assert.Equal(t, 1, r.xo.turn)
	})
	assert.Equal(t, 1, seats[0].sink.count(EventXOUpdate))
}

func TestXODraw(t *testing.T) {
	s := newTestStore(t, nil, nil)
	room, seats := joinPair(t, s, "DRAW", models.GameXO, models.NewRoomOptions(nil, nil, 0))
	readyBoth(t, room, seats)

	// X O X / X O O / O X X
	order := []struct{ seat, cell int }{
		{0, 0}, {1, 1}, {0, 2}, {1, 4}, {0, 3}, {1, 5}, {0, 7}, {1, 6}, {0, 8},
	}
	for _, m := range order {
		require.NoError(t, room.Send(context.Background(), XOMoveCmd{PlayerID: seats[m.seat].player.ID, Cell: m.cell}))
	}
	require.Eventually(t, func() bool { return seats[0].sink.count(EventXOUpdate) == 9 }, waitFor, time.Millisecond)
	ev, _ := seats[0].sink.last(EventXOUpdate)
	final := ev.Payload.(XOPayload)
	assert.True(t, final.Draw)
	assert.Nil(t, final.Winner)
}

func TestXORematchAlternatesOpener(t *testing.T) {
	s := newTestStore(t, nil, nil)
	room, seats := joinPair(t, s, "REMATCH", models.GameXO, models.NewRoomOptions(nil, nil, 0))
	readyBoth(t, room, seats)
	ctx := context.Background()

	require.NoError(t, room.Send(ctx, XOMoveCmd{PlayerID: seats[0].player.ID, Cell: 0}))
	require.NoError(t, room.Send(ctx, XORematchCmd{PlayerID: seats[1].player.ID}))
	require.Eventually(t, func() bool { return seats[0].sink.count(EventXOStart) == 2 }, waitFor, time.Millisecond)

	ev, _ := seats[0].sink.last(EventXOStart)
	restart := ev.Payload.(XOPayload)
	assert.Equal(t, [9]string{}, restart.Board)
	assert.Equal(t, seats[1].player.ID, *restart.TurnID)

	// The second seat opens with its own mark.
	require.NoError(t, room.Send(ctx, XOMoveCmd{PlayerID: seats[1].player.ID, Cell: 4}))
	withRoom(t, room, func(r *Room) { assert.Equal(t, "O", r.xo.board[4]) })

	require.NoError(t, room.Send(ctx, XORematchCmd{PlayerID: seats[0].player.ID}))
	require.Eventually(t, func() bool { return seats[0].sink.count(EventXOStart) == 3 }, waitFor, time.Millisecond)
	ev, _ = seats[0].sink.last(EventXOStart)
	assert.Equal(t, seats[0].player.ID, *ev.Payload.(XOPayload).TurnID)
}
