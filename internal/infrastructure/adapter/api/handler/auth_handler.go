package handler

import (
	"net/http"

	domainerr "github.com/Darkelvar/transaction-processor/internal/domain/error"
	coreport "github.com/Darkelvar/transaction-processor/internal/domain/port/core"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/api/dto"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/auth"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles token issuance
type AuthHandler struct {
	tokens *auth.TokenService
	logger coreport.Logger
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(tokens *auth.TokenService, logger coreport.Logger) *AuthHandler {
	return &AuthHandler{
		tokens: tokens,
		logger: logger,
	}
}

// Token handles POST /auth/token. Credentials arrive form-encoded; an exact
// match against the configured pair yields a bearer token.
func (h *AuthHandler) Token(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	token, err := h.tokens.Authenticate(username, password)
	if err != nil {
		h.logger.Warn("Authentication failed", map[string]any{
			"username": username,
			"ip":       c.ClientIP(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Incorrect username or password",
		})
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
