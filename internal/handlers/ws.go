// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/majlis/internal/game"
	"github.com/jason-s-yu/majlis/internal/middleware"
	"github.com/jason-s-yu/majlis/internal/models"
)

const (
	subprotocol  = "majlis"
	pingInterval = 30 * time.Second
	writeTimeout = 5 * time.Second
)

// roomFullMessage is shown to a client whose join was refused.
const roomFullMessage = "الغرفة ممتلئة"

// WSHandler upgrades the request to a websocket and serves one client until it disconnects.
// A client may join several rooms over the same socket.
func (gs *GameServer) WSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The session cookie has to be set before the upgrade response is written.
		userID, sessionErr := gs.ensureGuest(w, r)

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{subprotocol},
			OriginPatterns: gs.originPatterns,
		})
		if err != nil {
			gs.logger.Warnf("WebSocket accept error from %s: %v", r.RemoteAddr, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != subprotocol {
			gs.logger.Warnf("Client %s connected with invalid subprotocol: %q", r.RemoteAddr, c.Subprotocol())
			c.Close(BadSubprotocolError, "Client must use the 'majlis' subprotocol.")
			return
		}
		if sessionErr != nil {
			gs.logger.Warnf("Guest session failed for %s: %v", r.RemoteAddr, sessionErr)
			c.Close(InvalidSessionError, "Could not issue a guest session.")
			return
		}

		conn := NewConnection(userID, gs.logger)
		middleware.LogWebSocketConnect(gs.logger, r.RemoteAddr, conn.ID.String(), conn.UserID)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go gs.writePump(ctx, c, conn)
		err = gs.readPump(ctx, c, conn)

		rooms := conn.leaveAll()
		middleware.LogWebSocketDisconnect(gs.logger, r.RemoteAddr, conn.ID.String(), rooms, err)
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// readPump reads client messages until the socket fails or ctx ends. A normal close returns nil.
func (gs *GameServer) readPump(ctx context.Context, c *websocket.Conn, conn *Connection) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			conn.logger.Debugf("ignoring non-text message type %d", msgType)
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			conn.logger.Debugf("invalid JSON: %v", err)
			conn.WriteError("Invalid JSON format.")
			continue
		}
		gs.dispatch(ctx, conn, msg)
	}
}

// dispatch handles one decoded client message.
func (gs *GameServer) dispatch(ctx context.Context, conn *Connection, msg ClientMessage) {
	switch msg.Type {
	case "ping":
		conn.Write(game.Event{Type: game.EventPong})
		return
	case "get_categories":
		conn.Write(game.Event{Type: game.EventCategories, Payload: game.CategoriesPayload{Categories: gs.Rooms.Categories()}})
		return
	case "join_lobby":
		gs.handleJoin(ctx, conn, msg)
		return
	}

	cmd, err := parseCommand(msg, conn.ID)
	if err != nil {
		conn.logger.Debugf("rejected %q: %v", msg.Type, err)
		conn.WriteError(err.Error())
		return
	}
	room, ok := conn.rooms[models.NormalizeRoomID(msg.RoomID)]
	if !ok {
		conn.logger.Debugf("%s for room %q this connection has not joined", msg.Type, msg.RoomID)
		return
	}
	if err := room.Send(ctx, cmd); err != nil {
		conn.logger.Debugf("%s to room %s not delivered: %v", msg.Type, room.ID, err)
		if errors.Is(err, game.ErrRoomClosed) {
			delete(conn.rooms, room.ID)
		}
	}
}

func (gs *GameServer) handleJoin(ctx context.Context, conn *Connection, msg ClientMessage) {
	req, err := parseJoin(msg, conn)
	if err != nil {
		conn.WriteError(err.Error())
		return
	}
	room, p, err := gs.Rooms.Join(ctx, req)
	switch {
	case errors.Is(err, game.ErrRoomFull):
		conn.WriteError(roomFullMessage)
		return
	case err != nil:
		conn.logger.Warnf("join %q failed: %v", req.RoomID, err)
		conn.WriteError(err.Error())
		return
	}
	conn.rooms[room.ID] = room
	conn.logger.WithField("user", conn.UserID).Infof("joined room %s as seat %d", room.ID, p.Idx)
}

// writePump drains the connection's out channel onto the socket and keeps it alive with pings.
func (gs *GameServer) writePump(ctx context.Context, c *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-conn.OutChan:
			data, err := json.Marshal(ev)
			if err != nil {
				conn.logger.Warnf("failed to marshal %s: %v", ev.Type, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				conn.logger.Debugf("write failed: %v", err)
				_ = c.Close(websocket.StatusGoingAway, "write failed")
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				conn.logger.Debugf("ping failed: %v", err)
				_ = c.Close(websocket.StatusGoingAway, "ping failed")
				return
			}
		}
	}
}
