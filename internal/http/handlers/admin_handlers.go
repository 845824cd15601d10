package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ravesdeleste/PluginPitch/domain"
	"github.com/ravesdeleste/PluginPitch/internal/services"
)

// AdminHandlers serves the administrator login and the project and
// winner management endpoints
type AdminHandlers struct {
	adminKeys domain.AdminKeyService
	sessions  *services.SessionService
	projects  domain.ProjectRepository
	winners   domain.WinnerRepository
	votes     domain.VoteGateway
}

func NewAdminHandlers(adminKeys domain.AdminKeyService, sessions *services.SessionService, projects domain.ProjectRepository, winners domain.WinnerRepository, votes domain.VoteGateway) *AdminHandlers {
	return &AdminHandlers{
		adminKeys: adminKeys,
		sessions:  sessions,
		projects:  projects,
		winners:   winners,
		votes:     votes,
	}
}

// AdminLoginRequest represents an administrator login request
type AdminLoginRequest struct {
	Key string `json:"key" binding:"required"`
}

// ProjectRequest represents a project create or update payload
type ProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// WinnerRequest represents a winner announcement payload
type WinnerRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
}

// Login validates the admin key and opens an admin session
func (h *AdminHandlers) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adminKeys.Validate(req.Key); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect administrator key"})
		return
	}

	session, err := h.sessions.CreateAdminSession(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create admin session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"session_id": session.ID,
			"role":       session.Role,
			"expires_at": session.ExpiresAt,
		},
	})
}

// Logout clears the current admin session
func (h *AdminHandlers) Logout(c *gin.Context) {
	value, _ := c.Get("admin_session")
	session := value.(*domain.Session)

	if err := h.sessions.ClearAdminSession(c.Request.Context(), session.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Logged out successfully",
		},
	})
}

// CreateProject adds a project to the ballot
func (h *AdminHandlers) CreateProject(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := &domain.Project{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.projects.Create(c.Request.Context(), project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"project": project}})
}

// UpdateProject edits an existing project
func (h *AdminHandlers) UpdateProject(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := &domain.Project{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.projects.Update(c.Request.Context(), project); err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"project": project}})
}

// DeleteProject removes a project from the ballot
func (h *AdminHandlers) DeleteProject(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Project deleted"}})
}

// Tally returns the weighted standings per project
func (h *AdminHandlers) Tally(c *gin.Context) {
	tally, err := h.votes.Tally(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute tally"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"tally": tally}})
}

// SetWinner announces a project as the winner
func (h *AdminHandlers) SetWinner(c *gin.Context) {
	var req WinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projects.FindByID(c.Request.Context(), req.ProjectID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load project"})
		return
	}

	winner, err := h.winners.Set(c.Request.Context(), project.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to announce winner"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"winner": winner}})
}

// ClearWinner retracts the winner announcement
func (h *AdminHandlers) ClearWinner(c *gin.Context) {
	if err := h.winners.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear winner"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Winner cleared"}})
}
