package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/startup-analyzer/session"
)

// sessionID returns the caller's session id, issuing a new cookie when the
// request carries none or an invalid one.
func (h *Handler) sessionID(c *gin.Context) string {
	if id, ok := h.existingSessionID(c); ok {
		return id
	}
	id := session.NewID()
	cfg := h.sessions.Config()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, id, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)
	return id
}

func (h *Handler) existingSessionID(c *gin.Context) (string, bool) {
	id, err := c.Cookie(h.sessions.Config().CookieName)
	if err != nil || !session.ValidID(id) {
		return "", false
	}
	return id, true
}
