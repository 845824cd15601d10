package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ravesdeleste/PluginPitch/domain"
	"github.com/ravesdeleste/PluginPitch/internal/services"
)

// AuthHandlers handles registration, verification and session HTTP requests
type AuthHandlers struct {
	creds    domain.CredentialService
	sessions *services.SessionService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(creds domain.CredentialService, sessions *services.SessionService) *AuthHandlers {
	return &AuthHandlers{creds: creds, sessions: sessions}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	JuryCode string `json:"jury_code,omitempty"`
}

// VerifyRequest represents a code verification request
type VerifyRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// Register issues a verification code to the given email
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.creds.Issue(c.Request.Context(), req.Email, req.Name, req.JuryCode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or name"})
		case errors.Is(err, domain.ErrAlreadyVoted):
			c.JSON(http.StatusConflict, gin.H{"error": "This email already voted today"})
		case errors.Is(err, domain.ErrResendThrottled):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting another code"})
		case errors.Is(err, domain.ErrNotifierFailure):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send verification email"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Verification code sent. Please check your email.",
		},
	})
}

// Verify consumes a code and opens a voter session
func (h *AuthHandlers) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, err := h.creds.Verify(c.Request.Context(), req.Code, req.Email)
	if err != nil {
		h.writeVerifyError(c, err)
		return
	}

	h.openSession(c, identity)
}

// VerifyLink consumes a signed verification link token and opens a voter session
func (h *AuthHandlers) VerifyLink(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	identity, err := h.creds.VerifyLink(c.Request.Context(), token)
	if err != nil {
		h.writeVerifyError(c, err)
		return
	}

	h.openSession(c, identity)
}

// Resend re-issues a verification code for the given registration details
func (h *AuthHandlers) Resend(c *gin.Context) {
	h.Register(c)
}

// Session returns the voter session resolved by the session middleware
func (h *AuthHandlers) Session(c *gin.Context) {
	value, _ := c.Get("session")
	session := value.(*domain.Session)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"session_id": session.ID,
			"email":      session.UserEmail,
			"name":       session.UserName,
			"role":       session.Role,
			"weight":     session.Weight,
			"is_jury":    session.IsJury,
			"expires_at": session.ExpiresAt,
		},
	})
}

// Logout clears the current voter session
func (h *AuthHandlers) Logout(c *gin.Context) {
	value, _ := c.Get("session")
	session := value.(*domain.Session)

	if err := h.sessions.ClearVoterSession(c.Request.Context(), session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Logged out successfully",
		},
	})
}

func (h *AuthHandlers) openSession(c *gin.Context, identity *domain.VerifiedIdentity) {
	session, err := h.sessions.CreateVoterSession(c.Request.Context(), identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"session_id": session.ID,
			"email":      session.UserEmail,
			"name":       session.UserName,
			"role":       session.Role,
			"weight":     session.Weight,
			"is_jury":    session.IsJury,
			"expires_at": session.ExpiresAt,
		},
	})
}

func (h *AuthHandlers) writeVerifyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrArtifactNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid or already used code"})
	case errors.Is(err, domain.ErrArtifactExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Code has expired"})
	case errors.Is(err, domain.ErrEmailMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": "Code was issued for a different email"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
	}
}
