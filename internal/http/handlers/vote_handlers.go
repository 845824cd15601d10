package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// VoteHandlers serves the public project list, the winner announcement
// and the vote endpoints
type VoteHandlers struct {
	votes    domain.VoteGateway
	projects domain.ProjectRepository
	winners  domain.WinnerRepository
}

func NewVoteHandlers(votes domain.VoteGateway, projects domain.ProjectRepository, winners domain.WinnerRepository) *VoteHandlers {
	return &VoteHandlers{votes: votes, projects: projects, winners: winners}
}

// CastRequest represents a vote submission
type CastRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
}

// ListProjects returns all projects open for voting
func (h *VoteHandlers) ListProjects(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"projects": projects}})
}

// Winner returns the current winner announcement; the winner field is
// null while no announcement is live
func (h *VoteHandlers) Winner(c *gin.Context) {
	winner, err := h.winners.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrWinnerNotSet) {
			c.JSON(http.StatusOK, gin.H{"data": gin.H{"winner": nil}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load winner"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"winner": winner}})
}

// MyVote reports whether the authenticated identity voted today
func (h *VoteHandlers) MyVote(c *gin.Context) {
	value, _ := c.Get("session")
	session := value.(*domain.Session)

	lookup, err := h.votes.Lookup(c.Request.Context(), session.UserEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check vote status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"voted":      lookup.Found,
			"project_id": lookup.ProjectID,
			"is_jury":    lookup.IsJury,
		},
	})
}

// Cast records a vote for the authenticated identity with the weight of
// its session. An identity that already voted today gets 409.
func (h *VoteHandlers) Cast(c *gin.Context) {
	var req CastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	value, _ := c.Get("session")
	session := value.(*domain.Session)

	lookup, err := h.votes.Lookup(c.Request.Context(), session.UserEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check vote status"})
		return
	}
	if lookup.Found {
		c.JSON(http.StatusConflict, gin.H{"error": "You already voted today"})
		return
	}

	if err := h.votes.Cast(c.Request.Context(), session.UserEmail, req.ProjectID, session.Weight); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"message":    "Vote recorded",
			"project_id": req.ProjectID,
		},
	})
}
