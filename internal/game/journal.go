// internal/game/journal.go
package game

import (
	"context"

	"github.com/jason-s-yu/majlis/internal/cache"
)

// Journal receives a record of every low-frequency room event. *cache.RedisJournal implements it.
type Journal interface {
	PublishRoomEvent(ctx context.Context, record cache.RoomEventRecord) error
}

// journaled reports whether events of type t go to the journal. Per-second countdowns and
// physics ticks are left out.
func journaled(t EventType) bool {
	switch t {
	case EventHockeyTick, EventHockeyCountdown, EventStopTimer, EventQuizTimer:
		return false
	}
	return true
}
