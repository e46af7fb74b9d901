package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/studyslot/studyslot-api/internal/models"
	appErrors "github.com/studyslot/studyslot-api/pkg/errors"
	"github.com/studyslot/studyslot-api/pkg/response"
)

// RequireRole enforces an exact role match. It assumes RequireAuth already
// ran; absent claims are treated as unauthenticated.
func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrAuthentication)
			c.Abort()
			return
		}

		if claims.Role != role {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentClaims returns the decoded claims for the request, if any.
func CurrentClaims(c *gin.Context) (*models.JWTClaims, bool) {
	claimsValue, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := claimsValue.(*models.JWTClaims)
	return claims, ok
}
