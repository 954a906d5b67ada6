// internal/handlers/api_server.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jason-s-yu/majlis/internal/game"
	"github.com/jason-s-yu/majlis/internal/models"
	"github.com/jason-s-yu/majlis/internal/quizbank"
)

// CategoriesHandler lists the quiz categories so the client can offer a selection before
// creating a room.
func (gs *GameServer) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	cats := gs.Rooms.Categories()
	if cats == nil {
		cats = []quizbank.CategoryInfo{}
	}
	writeJSON(w, http.StatusOK, game.CategoriesPayload{Categories: cats})
}

// RoomSnapshotHandler returns the current state of a live room.
func (gs *GameServer) RoomSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	id := models.NormalizeRoomID(chi.URLParam(r, "roomID"))
	room, ok := gs.Rooms.Get(id)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	snap, err := room.Snapshot(r.Context())
	if err != nil {
		// closed between lookup and snapshot
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
