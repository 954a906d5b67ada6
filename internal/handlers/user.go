// internal/handlers/user.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

type sessionResponse struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// ensureGuest returns the guest id carried by the auth_token cookie. Requests without a valid
// token get a fresh guest id and a new cookie.
func (gs *GameServer) ensureGuest(w http.ResponseWriter, r *http.Request) (string, error) {
	if token := cookieToken(r); token != "" {
		if userID, err := gs.Issuer.AuthenticateJWT(token); err == nil {
			return userID, nil
		}
	}
	userID, _, err := gs.newGuest(w)
	return userID, err
}

func (gs *GameServer) newGuest(w http.ResponseWriter) (string, string, error) {
	userID := uuid.NewString()
	token, err := gs.Issuer.CreateJWT(userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to create guest JWT: %w", err)
	}
	setSessionCookie(w, token)
	return userID, token, nil
}

// SessionHandler issues a guest session, or echoes the current one when the cookie is still valid.
//
// Response payload:
//
//	{
//	  "userId": "{uuid}",
//	  "token": "{jwt}"
//	}
func (gs *GameServer) SessionHandler(w http.ResponseWriter, r *http.Request) {
	if token := cookieToken(r); token != "" {
		if userID, err := gs.Issuer.AuthenticateJWT(token); err == nil {
			writeJSON(w, http.StatusOK, sessionResponse{UserID: userID, Token: token})
			return
		}
	}
	userID, token, err := gs.newGuest(w)
	if err != nil {
		gs.logger.Errorf("guest session: %v", err)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{UserID: userID, Token: token})
}
