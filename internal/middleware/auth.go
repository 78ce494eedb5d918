package middleware

import (
	"context"
	"strings"

	"blogreact/internal/models"
	"blogreact/internal/utils"

	"github.com/gin-gonic/gin"
)

const CurrentUserKey = "user"

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.User, error)
}

// AuthRequired resolves the bearer token to a user and stores it under
// CurrentUserKey. Requests without a valid token are aborted.
func AuthRequired(verifier TokenVerifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := verifier.Verify(c.Request.Context(), extractToken(c, cookieName))
		if err != nil {
			utils.Error(c, err)
			return
		}
		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user set by AuthRequired, or nil.
func CurrentUser(c *gin.Context) *models.User {
	user, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	u, _ := user.(*models.User)
	return u
}

// extractToken prefers the access token cookie and falls back to an
// "Authorization: Bearer" header.
func extractToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
