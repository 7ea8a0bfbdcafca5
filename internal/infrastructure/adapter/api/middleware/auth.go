package middleware

import (
	"net/http"
	"strings"

	domainerr "github.com/Darkelvar/transaction-processor/internal/domain/error"
	coreport "github.com/Darkelvar/transaction-processor/internal/domain/port/core"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/api/dto"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/auth"
	"github.com/gin-gonic/gin"
)

// subjectKey is the gin context key carrying the authenticated subject
const subjectKey = "auth_subject"

// RequireBearer rejects requests lacking a valid bearer token
func RequireBearer(tokens *auth.TokenService, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			unauthorized(c)
			return
		}

		subject, err := tokens.Verify(token)
		if err != nil {
			logger.Warn("Rejected bearer token", map[string]any{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			unauthorized(c)
			return
		}

		c.Set(subjectKey, subject)
		c.Next()
	}
}

// Subject returns the authenticated subject set by RequireBearer
func Subject(c *gin.Context) string {
	return c.GetString(subjectKey)
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(domainerr.ErrInvalidToken),
		Message: "Invalid authentication credentials",
	})
}
