package middleware

import (
	"strings"

	"hotel-booking/apperrors"
	"hotel-booking/logger"
	"hotel-booking/models"
	"hotel-booking/utils"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

type TokenParser interface {
	ParseToken(token string) (*models.Principal, error)
}

// Authenticate requires a bearer token. A missing token is 401, a token
// that fails verification is 403.
func Authenticate(tokens TokenParser, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			utils.JSONAppError(c, log, apperrors.Unauthorized("Access denied. No token provided."))
			return
		}

		principal, err := tokens.ParseToken(token)
		if err != nil {
			log.Debug("Rejected token", "request_id", c.GetString(utils.RequestIDKey), "error", err)
			utils.JSONAppError(c, log, apperrors.Forbidden("Invalid token"))
			return
		}

		c.Set(principalKey, *principal)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			utils.JSONAppError(c, log, apperrors.Unauthorized("Access denied. No token provided."))
			return
		}
		if !principal.IsAdmin() {
			utils.JSONAppError(c, log, apperrors.Forbidden("Access denied. Admins only."))
			return
		}
		c.Next()
	}
}

func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	principal, ok := value.(models.Principal)
	return principal, ok
}

// SetPrincipal stores the caller on the context. Used by tests.
func SetPrincipal(c *gin.Context, principal models.Principal) {
	c.Set(principalKey, principal)
}
