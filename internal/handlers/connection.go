// internal/handlers/connection.go
package handlers

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jason-s-yu/majlis/internal/game"
	"github.com/sirupsen/logrus"
)

const outChanSize = 64

// Connection is one websocket client. It is the game.Sink for every room it joins; events are
// queued on OutChan and written by the write pump.
type Connection struct {
	ID      uuid.UUID
	UserID  string
	OutChan chan game.Event

	logger *logrus.Entry

	// rooms joined through this connection, by normalized id. Only the read pump touches it.
	rooms map[string]*game.Room
}

func NewConnection(userID string, logger *logrus.Logger) *Connection {
	id := uuid.New()
	return &Connection{
		ID:      id,
		UserID:  userID,
		OutChan: make(chan game.Event, outChanSize),
		logger:  logger.WithField("conn", id),
		rooms:   make(map[string]*game.Room),
	}
}

// Write queues ev without blocking; the event is dropped when the client is not keeping up.
func (c *Connection) Write(ev game.Event) {
	select {
	case c.OutChan <- ev:
	default:
		c.logger.Warnf("out channel full, dropping %s", ev.Type)
	}
}

// WriteError queues an error event for this client only.
func (c *Connection) WriteError(msg string) {
	c.Write(game.ErrorEvent(msg))
}

// leaveAll detaches this connection from every room it joined and returns their ids, sorted.
func (c *Connection) leaveAll() []string {
	ids := make([]string, 0, len(c.rooms))
	for id, room := range c.rooms {
		room.Leave(c.ID)
		delete(c.rooms, id)
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
