package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studyslot/studyslot-api/internal/service"
	appErrors "github.com/studyslot/studyslot-api/pkg/errors"
	"github.com/studyslot/studyslot-api/pkg/response"
)

// AccessCookie is the httpOnly session cookie carrying the access token.
const AccessCookie = "access_token"

// ContextUserKey is the gin context key storing decoded token claims.
const ContextUserKey = response.ContextUserKey

// ExtractToken pulls the access token from the session cookie or the
// Authorization header, cookie first.
func ExtractToken(c *gin.Context) (token string, fromCookie bool) {
	if cookie, err := c.Cookie(AccessCookie); err == nil && cookie != "" {
		return cookie, true
	}
	header := c.GetHeader("Authorization")
	if after, found := strings.CutPrefix(header, "Bearer "); found {
		return after, false
	}
	return "", false
}

// SetSessionCookie installs the access token cookie: httpOnly, same-site
// lax, secure in production.
func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, token, maxAge, "/", "", secure, true)
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, "", -1, "/", "", secure, true)
}

// Identify decorates the request with claims when a valid token is present
// and silently proceeds unauthenticated otherwise. Pages rely on this to
// render role-aware navigation.
func Identify(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := ExtractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// RequireAuth guards routes: no token or a failed verification short-circuits
// with 403, clearing the cookie when the token it carried was invalid.
func RequireAuth(authService *service.AuthService, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, fromCookie := ExtractToken(c)
		if token == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrAuthentication, "authentication required, log in at /auth/login or send a Bearer token"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			if fromCookie {
				ClearSessionCookie(c, secureCookie)
			}
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}
