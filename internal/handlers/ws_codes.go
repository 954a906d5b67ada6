// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the room gateway.
// These provide more specific reasons for closure than standard codes.
const (
	BadSubprotocolError = 3000 // Client connected without the "majlis" subprotocol.
	InvalidSessionError = 3001 // A guest session could not be issued for the connection.
)
