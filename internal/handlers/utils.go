package handlers

import (
	"encoding/json"
	"net/http"
)

const authCookieName = "auth_token"

// cookieToken returns the auth_token cookie value, or empty if not present.
func cookieToken(r *http.Request) string {
	c, err := r.Cookie(authCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// headers are already out; an encode error here means the client went away
	_ = json.NewEncoder(w).Encode(v)
}
