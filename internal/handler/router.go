package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/studyslot/studyslot-api/internal/middleware"
	"github.com/studyslot/studyslot-api/internal/models"
	"github.com/studyslot/studyslot-api/internal/service"
	"github.com/studyslot/studyslot-api/pkg/logger"
	corsmiddleware "github.com/studyslot/studyslot-api/pkg/middleware/cors"
	reqidmiddleware "github.com/studyslot/studyslot-api/pkg/middleware/requestid"
	"github.com/studyslot/studyslot-api/pkg/response"
)

// RouterConfig carries everything the route table needs beyond the handlers.
type RouterConfig struct {
	AuthService    *service.AuthService
	Metrics        *service.MetricsService
	Logger         *zap.Logger
	AllowedOrigins []string
	SecureCookie   bool
	TemplatesGlob  string
}

// TemplateFuncs are the helpers available to every view. They take any value
// so typed strings like the user role work without conversion.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"upper": func(v interface{}) string { return strings.ToUpper(fmt.Sprint(v)) },
		"year":  func() int { return time.Now().Year() },
		"hasRole": func(userRole interface{}, role string) bool {
			return fmt.Sprint(userRole) == role
		},
	}
}

// NewRouter wires middleware, templates and the full route table.
func NewRouter(cfg RouterConfig, auth *AuthHandler, student *StudentHandler, tutor *TutorHandler, admin *AdminHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.New())
	if cfg.Logger != nil {
		r.Use(logger.GinMiddleware(cfg.Logger))
	}
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.Identify(cfg.AuthService))

	r.SetFuncMap(TemplateFuncs())
	if cfg.TemplatesGlob != "" {
		r.LoadHTMLGlob(cfg.TemplatesGlob)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	r.GET("/", func(c *gin.Context) {
		response.HTML(c, http.StatusOK, "home.tmpl", gin.H{
			"Title":   "Tutoring Scheduler",
			"Welcome": "Book tutoring sessions by subject and time.",
		})
	})

	r.GET("/auth/login", auth.LoginPage)
	r.POST("/auth/login", auth.Login)
	r.GET("/auth/logout", auth.Logout)

	requireAuth := middleware.RequireAuth(cfg.AuthService, cfg.SecureCookie)

	authed := r.Group("", requireAuth)
	authed.GET("/auth/me", auth.Me)

	studentRoutes := authed.Group("", middleware.RequireRole(models.RoleStudent))
	studentRoutes.GET("/my/sessions", student.MySessions)
	studentRoutes.GET("/availability", student.Availability)
	studentRoutes.POST("/book/:slotId", student.Book)

	tutorRoutes := authed.Group("/tutor", middleware.RequireRole(models.RoleTutor))
	tutorRoutes.GET("/slots", tutor.Slots)
	tutorRoutes.POST("/slots", tutor.CreateSlot)
	tutorRoutes.POST("/slots/delete/:id", tutor.DeleteSlot)

	adminRoutes := authed.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	adminRoutes.GET("/overview", admin.Overview)
	adminRoutes.GET("/create-user", admin.CreateUserPage)
	adminRoutes.POST("/create-user", admin.CreateUser)
	adminRoutes.POST("/users/delete/:id", admin.DeleteUser)
	adminRoutes.GET("/create-subject", admin.CreateSubjectPage)
	adminRoutes.POST("/create-subject", admin.CreateSubject)
	adminRoutes.POST("/subjects/delete/:id", admin.DeleteSubject)
	adminRoutes.GET("/export/bookings.csv", admin.ExportBookingsCSV)
	adminRoutes.GET("/export/bookings.pdf", admin.ExportBookingsPDF)

	r.NoRoute(func(c *gin.Context) {
		if response.WantsJSON(c) {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "the page you requested was not found"}})
			return
		}
		response.HTML(c, http.StatusNotFound, "error.tmpl", gin.H{
			"Title":   "Not Found",
			"Message": "The page you requested was not found.",
		})
	})

	return r
}
