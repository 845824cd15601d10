package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ravesdeleste/PluginPitch/internal/services"
)

const (
	// VoterSessionHeader carries the persisted voter session token
	VoterSessionHeader = "X-Session-Token"
	// AdminSessionHeader carries the persisted admin session token
	AdminSessionHeader = "X-Admin-Token"
)

// SessionMW resolves session tokens into request context
type SessionMW struct {
	sessions *services.SessionService
}

func NewSessionMW(sessions *services.SessionService) *SessionMW {
	return &SessionMW{sessions: sessions}
}

// RequireVoter rejects requests without a live voter session. Expired
// and unknown tokens both read back as no session, so a single 401
// covers them.
func (m *SessionMW) RequireVoter() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := m.sessions.VoterSession(c.Request.Context(), c.GetHeader(VoterSessionHeader))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Session lookup failed"})
			c.Abort()
			return
		}
		if session == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid or expired"})
			c.Abort()
			return
		}

		c.Set("session", session)
		c.Set("user_email", session.UserEmail)
		c.Set("user_role", string(session.Role))
		c.Next()
	}
}

// RequireAdmin rejects requests without a live admin session
func (m *SessionMW) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := m.sessions.AdminSession(c.Request.Context(), c.GetHeader(AdminSessionHeader))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Session lookup failed"})
			c.Abort()
			return
		}
		if session == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin session invalid or expired"})
			c.Abort()
			return
		}

		c.Set("admin_session", session)
		c.Set("user_role", string(session.Role))
		c.Next()
	}
}
