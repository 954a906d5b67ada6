// internal/handlers/game_server.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jason-s-yu/majlis/internal/auth"
	"github.com/jason-s-yu/majlis/internal/game"
	"github.com/jason-s-yu/majlis/internal/middleware"
	"github.com/sirupsen/logrus"
)

// GameServer owns the room store and serves the HTTP and websocket surface.
type GameServer struct {
	Rooms  *game.RoomStore
	Issuer *auth.Issuer

	logger         *logrus.Logger
	originPatterns []string
}

// NewGameServer wires a server around an existing store. originPatterns are host patterns
// accepted for websocket upgrades and CORS (e.g. "*.example.com"); nil only allows same-origin
// websockets.
func NewGameServer(rooms *game.RoomStore, issuer *auth.Issuer, logger *logrus.Logger, originPatterns []string) *GameServer {
	return &GameServer{
		Rooms:          rooms,
		Issuer:         issuer,
		logger:         logger,
		originPatterns: originPatterns,
	}
}

// Routes builds the router. allowedOrigins feeds CORS; pass {"https://*", "http://*"} in development.
func (gs *GameServer) Routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.Heartbeat("/ping"))
	r.Use(middleware.LogMiddleware(gs.logger))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/quiz/categories", gs.CategoriesHandler)
	r.Post("/session", gs.SessionHandler)
	r.Get("/rooms/{roomID}", gs.RoomSnapshotHandler)
	r.Get("/ws", gs.WSHandler())

	return r
}
