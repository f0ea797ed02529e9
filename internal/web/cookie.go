package web

import (
	"net/http"

	"github.com/jaminalder/cubechess/internal/app"
)

const playerCookie = "player_id"

// ensurePlayerCookie returns the caller's player id, issuing a new one when
// the cookie is missing or was not handed out by us.
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookie); err == nil && app.ValidID(c.Value) {
		return c.Value
	}
	v := app.NewPlayerID()
	http.SetCookie(w, &http.Cookie{Name: playerCookie, Value: v, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return v
}
