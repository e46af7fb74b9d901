package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyslot/studyslot-api/internal/middleware"
	"github.com/studyslot/studyslot-api/internal/service"
	appErrors "github.com/studyslot/studyslot-api/pkg/errors"
	"github.com/studyslot/studyslot-api/pkg/response"
)

// TutorHandler serves slot publication and removal for tutors.
type TutorHandler struct {
	slots    *service.SlotService
	subjects *service.SubjectService
}

// NewTutorHandler creates a new handler.
func NewTutorHandler(slots *service.SlotService, subjects *service.SubjectService) *TutorHandler {
	return &TutorHandler{slots: slots, subjects: subjects}
}

// Slots renders the tutor's slot list together with the publish form.
func (h *TutorHandler) Slots(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrAuthentication)
		return
	}
	h.renderSlots(c, claims.UserID, http.StatusOK, "")
}

// CreateSlot publishes a new availability slot for the calling tutor.
func (h *TutorHandler) CreateSlot(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrAuthentication)
		return
	}

	var req service.CreateSlotRequest
	if err := c.ShouldBind(&req); err != nil {
		h.createFailed(c, claims.UserID, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "all fields are required"))
		return
	}

	slot, err := h.slots.Create(c.Request.Context(), claims, req)
	if err != nil {
		h.createFailed(c, claims.UserID, err)
		return
	}

	if response.WantsJSON(c) {
		response.Created(c, slot)
		return
	}
	c.Redirect(http.StatusFound, "/tutor/slots")
}

// DeleteSlot removes one of the tutor's own slots. Non-owners get 403 and the
// slot stays untouched.
func (h *TutorHandler) DeleteSlot(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrAuthentication)
		return
	}

	if err := h.slots.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	if response.WantsJSON(c) {
		response.NoContent(c)
		return
	}
	c.Redirect(http.StatusFound, "/tutor/slots")
}

func (h *TutorHandler) createFailed(c *gin.Context, tutorID string, err error) {
	if response.WantsJSON(c) {
		response.Error(c, err)
		return
	}
	appErr := appErrors.FromError(err)
	h.renderSlots(c, tutorID, appErr.Status, appErr.Message)
}

func (h *TutorHandler) renderSlots(c *gin.Context, tutorID string, status int, errMsg string) {
	slots, err := h.slots.ListByTutor(c.Request.Context(), tutorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	subjects, err := h.subjects.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	if response.WantsJSON(c) {
		response.JSON(c, status, slots)
		return
	}
	data := gin.H{
		"Title":    "Tutor Slots",
		"Slots":    slots,
		"Subjects": subjects,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	response.HTML(c, status, "tutor_slots.tmpl", data)
}
