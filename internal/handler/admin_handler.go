package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyslot/studyslot-api/internal/middleware"
	"github.com/studyslot/studyslot-api/internal/models"
	"github.com/studyslot/studyslot-api/internal/service"
	appErrors "github.com/studyslot/studyslot-api/pkg/errors"
	"github.com/studyslot/studyslot-api/pkg/export"
	"github.com/studyslot/studyslot-api/pkg/response"
)

// AdminHandler serves the admin overview and user/subject management.
type AdminHandler struct {
	users    *service.UserService
	subjects *service.SubjectService
	bookings *service.BookingService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(users *service.UserService, subjects *service.SubjectService, bookings *service.BookingService) *AdminHandler {
	return &AdminHandler{users: users, subjects: subjects, bookings: bookings}
}

// Overview renders users, sessions and subjects on one page.
func (h *AdminHandler) Overview(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	sessions, err := h.bookings.AllSessions(c.Request.Context())
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
		response.JSON(c, http.StatusOK, gin.H{"users": users, "sessions": sessions, "subjects": subjects})
		return
	}
	response.HTML(c, http.StatusOK, "admin_overview.tmpl", gin.H{
		"Title":    "Admin Overview",
		"Users":    users,
		"Sessions": sessions,
		"Subjects": subjects,
	})
}

// CreateUserPage renders the user creation form.
func (h *AdminHandler) CreateUserPage(c *gin.Context) {
	response.HTML(c, http.StatusOK, "create_user.tmpl", gin.H{"Title": "Create New User"})
}

// CreateUser adds a user and returns to the overview.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		h.formFailed(c, "create_user.tmpl", "Create New User", appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "all fields are required"))
		return
	}

	user, err := h.users.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		h.formFailed(c, "create_user.tmpl", "Create New User", err)
		return
	}

	if response.WantsJSON(c) {
		response.Created(c, user)
		return
	}
	c.Redirect(http.StatusFound, "/admin/overview")
}

// DeleteUser removes the user named in the path.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		response.Error(c, err)
		return
	}

	if response.WantsJSON(c) {
		response.NoContent(c)
		return
	}
	c.Redirect(http.StatusFound, "/admin/overview")
}

// CreateSubjectPage renders the subject creation form.
func (h *AdminHandler) CreateSubjectPage(c *gin.Context) {
	response.HTML(c, http.StatusOK, "create_subject.tmpl", gin.H{"Title": "Create New Subject"})
}

// CreateSubject adds a subject and returns to the overview.
func (h *AdminHandler) CreateSubject(c *gin.Context) {
	var req service.CreateSubjectRequest
	if err := c.ShouldBind(&req); err != nil {
		h.formFailed(c, "create_subject.tmpl", "Create New Subject", appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "all fields are required"))
		return
	}

	subject, err := h.subjects.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		h.formFailed(c, "create_subject.tmpl", "Create New Subject", err)
		return
	}

	if response.WantsJSON(c) {
		response.Created(c, subject)
		return
	}
	c.Redirect(http.StatusFound, "/admin/overview")
}

// DeleteSubject removes the subject named in the path.
func (h *AdminHandler) DeleteSubject(c *gin.Context) {
	if err := h.subjects.Delete(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		response.Error(c, err)
		return
	}

	if response.WantsJSON(c) {
		response.NoContent(c)
		return
	}
	c.Redirect(http.StatusFound, "/admin/overview")
}

// ExportBookingsCSV streams every booking as a CSV download.
func (h *AdminHandler) ExportBookingsCSV(c *gin.Context) {
	sessions, err := h.bookings.AllSessions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, err := export.RenderCSV(bookingExportHeaders, bookingExportRows(sessions))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bookings.csv"`)
	c.Data(http.StatusOK, "text/csv", payload)
}

// ExportBookingsPDF streams every booking as a PDF download.
func (h *AdminHandler) ExportBookingsPDF(c *gin.Context) {
	sessions, err := h.bookings.AllSessions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, err := export.RenderPDF("Bookings", bookingExportHeaders, bookingExportRows(sessions))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bookings.pdf"`)
	c.Data(http.StatusOK, "application/pdf", payload)
}

var bookingExportHeaders = []string{"Student", "Tutor", "Subject", "Date", "Start", "End", "Status"}

func bookingExportRows(sessions []models.BookingWithSubject) [][]string {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{s.StudentName, s.TutorName, s.SubjectName, s.Date, s.Start, s.End, s.Status})
	}
	return rows
}

func (h *AdminHandler) formFailed(c *gin.Context, template, title string, err error) {
	if response.WantsJSON(c) {
		response.Error(c, err)
		return
	}
	appErr := appErrors.FromError(err)
	response.HTML(c, appErr.Status, template, gin.H{
		"Title": title,
		"Error": appErr.Message,
	})
}

func actorID(c *gin.Context) string {
	if claims, ok := middleware.CurrentClaims(c); ok {
		return claims.UserID
	}
	return ""
}
