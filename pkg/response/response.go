package response

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/studyslot/studyslot-api/pkg/errors"
)

// ContextUserKey is the gin context key holding the authenticated identity.
// The token middleware stores decoded claims under this key so that every
// rendered page can be role-aware.
const ContextUserKey = "currentUser"

// Envelope is the response contract for JSON (bearer token) clients.
type Envelope struct {
	Data  interface{}            `json:"data,omitempty"`
	Error *appErrors.Error       `json:"error,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// WantsJSON reports whether the client should receive a JSON envelope rather
// than a rendered page. Bearer-token clients and explicit JSON Accept headers
// opt in; browser form/cookie traffic stays on HTML.
func WantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// HTML renders a template, always exposing the current identity (if any)
// under "User" so navigation and role helpers work on every page.
func HTML(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["User"]; !ok {
		if claims, exists := c.Get(ContextUserKey); exists {
			data["User"] = claims
		}
	}
	c.HTML(status, name, data)
}

// JSON sends a success envelope.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error renders a failure: an error page for browsers, the JSON envelope for
// bearer clients. Internal details never reach the client.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if WantsJSON(c) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.JSON(appErr.Status, Envelope{Error: appErr})
		return
	}
	HTML(c, appErr.Status, "error.tmpl", gin.H{
		"Title":   titleFor(appErr.Status),
		"Message": appErr.Message,
	})
}

func titleFor(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Not Found"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusBadRequest:
		return "Bad Request"
	case http.StatusUnauthorized:
		return "Unauthorized"
	default:
		return "Server Error"
	}
}
