package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler exchanges the admin password for tokens
type Handler struct {
	gate         *Gate
	passwordHash string
}

// NewHandler creates a new auth handler. With an empty passwordHash the
// token endpoint is disabled.
func NewHandler(gate *Gate, passwordHash string) *Handler {
	return &Handler{gate: gate, passwordHash: passwordHash}
}

// TokenRequest represents the token request body
type TokenRequest struct {
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents an issued token
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// Token issues a bearer token
// @Summary Issue a token
// @Description Exchange the admin password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Admin password"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} map[string]string "Invalid password"
// @Failure 404 {object} map[string]string "Token issuance disabled"
// @Router /auth/token [post]
func (h *Handler) Token(c *gin.Context) {
	if h.passwordHash == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Token issuance is disabled"})
		return
	}

	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !CheckPassword(req.Password, h.passwordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	token, expires, err := h.gate.Issue()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresAt: expires.UTC().Format(time.RFC3339),
	})
}

// RegisterRoutes registers auth routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/token", h.Token)
}
