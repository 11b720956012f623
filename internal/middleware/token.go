package middleware

import (
	"strings"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/pkg/logger"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Authenticator turns a bearer token into a principal
type Authenticator interface {
	Authenticate(token string) (models.Principal, error)
}

// TokenMiddleware verifies the bearer token, when present, and stores the
// principal in the context. Requests without a valid token pass through
// anonymous; AuthRequired rejects them where needed.
func TokenMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token != "" {
			principal, err := auth.Authenticate(token)
			if err != nil {
				logger.Component("auth").WithError(err).WithField("path", c.Request.URL.Path).Debug("Rejected bearer token")
			} else {
				SetPrincipal(c, principal)
			}
		}
		c.Next()
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// SetPrincipal stores the authenticated caller in the context
func SetPrincipal(c *gin.Context, principal models.Principal) {
	c.Set(principalKey, principal)
}

// GetPrincipal retrieves the authenticated caller from the context
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return models.Principal{}, false
	}
	principal, ok := value.(models.Principal)
	return principal, ok
}
