package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ravesdeleste/PluginPitch/internal/http/middleware"
	"github.com/ravesdeleste/PluginPitch/internal/services"
)

// AppHandlers exposes the application state machine to clients that
// restore their screen from stored tokens on startup
type AppHandlers struct {
	flow *services.FlowService
}

func NewAppHandlers(flow *services.FlowService) *AppHandlers {
	return &AppHandlers{flow: flow}
}

// State resolves the screen a client should show: verification params in
// the query short-circuit to verification, otherwise stored sessions
// decide between the admin panel, voting and the welcome screen. The
// snapshot is taken atomically so concurrent clients cannot read each
// other's message or vote info.
func (h *AppHandlers) State(c *gin.Context) {
	snap := h.flow.ResolveSnapshot(c.Request.Context(), services.IncomingRequest{
		Code:           c.Query("code"),
		Email:          c.Query("email"),
		LinkToken:      c.Query("token"),
		VoterSessionID: c.GetHeader(middleware.VoterSessionHeader),
		AdminSessionID: c.GetHeader(middleware.AdminSessionHeader),
	})

	body := gin.H{
		"state":    snap.State,
		"projects": snap.Projects,
		"winner":   snap.Winner,
	}
	if snap.Message != "" {
		body["message"] = snap.Message
	}
	if snap.VoteInfo != nil && snap.VoteInfo.Found {
		body["vote"] = gin.H{"project_id": snap.VoteInfo.ProjectID, "is_jury": snap.VoteInfo.IsJury}
	}

	c.JSON(http.StatusOK, gin.H{"data": body})
}
