package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyslot/studyslot-api/internal/middleware"
	"github.com/studyslot/studyslot-api/internal/models"
	"github.com/studyslot/studyslot-api/internal/service"
	appErrors "github.com/studyslot/studyslot-api/pkg/errors"
	"github.com/studyslot/studyslot-api/pkg/response"
)

// AuthHandler serves the login/logout flow.
type AuthHandler struct {
	service      *service.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new handler. secureCookie should be true in
// production so the session cookie is https-only.
func NewAuthHandler(svc *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: svc, secureCookie: secureCookie}
}

// LoginPage renders the login form, prefilled with the demo student account.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	response.HTML(c, http.StatusOK, "login.tmpl", gin.H{
		"Title": "Login",
		"Form":  gin.H{"Email": "student@example.com", "Password": "student123", "UseCookie": true},
	})
}

// Login authenticates the posted credentials. Cookie mode installs the
// session cookie and redirects to the student's sessions; stateless mode
// returns the token for bearer use.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailed(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "valid email and password are required"), req)
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.loginFailed(c, err, req)
		return
	}

	if req.UseCookie {
		middleware.SetSessionCookie(c, res.AccessToken, int(res.ExpiresIn), h.secureCookie)
		c.Redirect(http.StatusFound, "/my/sessions")
		return
	}

	if response.WantsJSON(c) {
		response.JSON(c, http.StatusOK, res)
		return
	}

	response.HTML(c, http.StatusOK, "login.tmpl", gin.H{
		"Title": "Login",
		"Form":  gin.H{"Email": req.Email},
		"Token": res.AccessToken,
	})
}

// Logout clears the session cookie and returns to the home page.
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims, ok := middleware.CurrentClaims(c); ok {
		h.service.Logout(c.Request.Context(), claims, c.ClientIP(), c.GetHeader("User-Agent"))
	}
	middleware.ClearSessionCookie(c, h.secureCookie)

	if response.WantsJSON(c) {
		response.NoContent(c)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Me returns the authenticated identity, for bearer clients.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrAuthentication)
		return
	}
	response.JSON(c, http.StatusOK, models.UserInfo{
		ID:    claims.UserID,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	})
}

// loginFailed re-renders the login form with the failure message for browser
// clients and sends the error envelope otherwise.
func (h *AuthHandler) loginFailed(c *gin.Context, err error, req models.LoginRequest) {
	if response.WantsJSON(c) {
		response.Error(c, err)
		return
	}
	appErr := appErrors.FromError(err)
	response.HTML(c, appErr.Status, "login.tmpl", gin.H{
		"Title": "Login",
		"Form":  gin.H{"Email": req.Email, "UseCookie": req.UseCookie},
		"Error": appErr.Message,
	})
}
