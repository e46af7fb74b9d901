package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyslot/studyslot-api/internal/middleware"
	"github.com/studyslot/studyslot-api/internal/service"
	appErrors "github.com/studyslot/studyslot-api/pkg/errors"
	"github.com/studyslot/studyslot-api/pkg/response"
)

// StudentHandler serves session listings, availability and the booking
// action.
type StudentHandler struct {
	bookings *service.BookingService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(bookings *service.BookingService) *StudentHandler {
	return &StudentHandler{bookings: bookings}
}

// MySessions lists the student's booked sessions.
func (h *StudentHandler) MySessions(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrAuthentication)
		return
	}

	sessions, err := h.bookings.MySessions(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if response.WantsJSON(c) {
		response.JSON(c, http.StatusOK, sessions)
		return
	}
	response.HTML(c, http.StatusOK, "sessions.tmpl", gin.H{
		"Title":    "My Sessions",
		"Sessions": sessions,
	})
}

// Availability lists all open slots.
func (h *StudentHandler) Availability(c *gin.Context) {
	slots, err := h.bookings.Availability(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	if response.WantsJSON(c) {
		response.JSON(c, http.StatusOK, slots)
		return
	}
	response.HTML(c, http.StatusOK, "availability.tmpl", gin.H{
		"Title": "Available Slots",
		"Slots": slots,
	})
}

// Book claims the slot named in the path and lands on the session list.
func (h *StudentHandler) Book(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrAuthentication)
		return
	}

	booking, err := h.bookings.Book(c.Request.Context(), claims, c.Param("slotId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if response.WantsJSON(c) {
		response.Created(c, booking)
		return
	}
	c.Redirect(http.StatusFound, "/my/sessions")
}
