package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/studyslot/studyslot-api/internal/models"
	"github.com/studyslot/studyslot-api/internal/repository"
	"github.com/studyslot/studyslot-api/internal/service"
)

type testEnv struct {
	router *gin.Engine
	mock   sqlmock.Sqlmock
	auth   *service.AuthService
}

func newTestEnv(t *testing.T, templatesGlob string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sqlxDB := sqlx.NewDb(db, "postgres")

	userRepo := repository.NewUserRepository(sqlxDB)
	subjectRepo := repository.NewSubjectRepository(sqlxDB)
	slotRepo := repository.NewSlotRepository(sqlxDB)
	bookingRepo := repository.NewBookingRepository(sqlxDB)

	authSvc := service.NewAuthService(userRepo, nil, nil, service.AuthConfig{
		Secret:     "test-secret",
		Expiration: 15 * time.Minute,
		Issuer:     "studyslot-test",
	})
	userSvc := service.NewUserService(userRepo, nil, nil)
	subjectSvc := service.NewSubjectService(subjectRepo, userRepo, nil, nil)
	slotSvc := service.NewSlotService(slotRepo, subjectRepo, bookingRepo, nil, userRepo, nil, nil)
	bookingSvc := service.NewBookingService(bookingRepo, slotRepo, nil, userRepo, nil, nil)

	router := NewRouter(RouterConfig{
		AuthService:   authSvc,
		Metrics:       service.NewMetricsService(),
		TemplatesGlob: templatesGlob,
	},
		NewAuthHandler(authSvc, false),
		NewStudentHandler(bookingSvc),
		NewTutorHandler(slotSvc, subjectSvc),
		NewAdminHandler(userSvc, subjectSvc, bookingSvc),
	)

	return &testEnv{router: router, mock: mock, auth: authSvc}
}

func (e *testEnv) bearerFor(t *testing.T, role models.UserRole) string {
	t.Helper()
	token, _, err := e.auth.IssueToken(&models.User{
		ID:    "u-" + string(role),
		Email: string(role) + "@example.com",
		Name:  "Test " + string(role),
		Role:  role,
	})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t, "")

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, "")

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGuardedRouteWithoutToken(t *testing.T) {
	env := newTestEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/my/sessions", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTHENTICATION_REQUIRED")
}

func TestAdminRouteRejectsStudent(t *testing.T) {
	env := newTestEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/admin/overview", nil)
	req.Header.Set("Authorization", env.bearerFor(t, models.RoleStudent))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestTutorRouteRejectsStudent(t *testing.T) {
	env := newTestEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/tutor/slots", nil)
	req.Header.Set("Authorization", env.bearerFor(t, models.RoleStudent))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoginReturnsToken(t *testing.T) {
	env := newTestEnv(t, "")

	hash, err := bcrypt.GenerateFromPassword([]byte("student123"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "role", "password_hash", "created_at", "updated_at"}).
		AddRow("u-1", "Student One", "student@example.com", "student", string(hash), now, now)

	env.mock.ExpectQuery(`SELECT .+ FROM users WHERE LOWER\(email\)`).
		WithArgs("student@example.com").
		WillReturnRows(rows)
	env.mock.ExpectExec(`INSERT INTO audit_logs`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := strings.NewReader("email=student@example.com&password=student123")
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access_token")
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestLoginWithCookieSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t, "")

	hash, err := bcrypt.GenerateFromPassword([]byte("student123"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "role", "password_hash", "created_at", "updated_at"}).
		AddRow("u-1", "Student One", "student@example.com", "student", string(hash), now, now)

	env.mock.ExpectQuery(`SELECT .+ FROM users WHERE LOWER\(email\)`).
		WithArgs("student@example.com").
		WillReturnRows(rows)
	env.mock.ExpectExec(`INSERT INTO audit_logs`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := strings.NewReader("email=student@example.com&password=student123&use_cookie=true")
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/my/sessions", w.Header().Get("Location"))

	var sessionCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "access_token" {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
	assert.NotEmpty(t, sessionCookie.Value)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t, "")

	env.mock.ExpectQuery(`SELECT .+ FROM users WHERE LOWER\(email\)`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	body := strings.NewReader("email=nobody@example.com&password=whatever")
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestBookSlot(t *testing.T) {
	env := newTestEnv(t, "")

	now := time.Now().UTC()
	slotRows := sqlmock.NewRows([]string{"id", "tutor_id", "tutor_name", "subject_id", "date", "start_time", "end_time", "booked", "created_at", "updated_at"}).
		AddRow("s-1", "u-tutor", "Tutor One", "sub-1", "2026-09-01", "10:00", "11:00", false, now, now)

	env.mock.ExpectQuery(`SELECT .+ FROM tutor_slots WHERE id = \$1`).
		WithArgs("s-1").
		WillReturnRows(slotRows)
	env.mock.ExpectBegin()
	env.mock.ExpectExec(regexp.QuoteMeta(`UPDATE tutor_slots SET booked = TRUE, updated_at = $2 WHERE id = $1 AND booked = FALSE`)).
		WithArgs("s-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectCommit()
	env.mock.ExpectExec(`INSERT INTO audit_logs`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPost, "/book/s-1", nil)
	req.Header.Set("Authorization", env.bearerFor(t, models.RoleStudent))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"booked"`)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestBookSlotAlreadyBooked(t *testing.T) {
	env := newTestEnv(t, "")

	now := time.Now().UTC()
	slotRows := sqlmock.NewRows([]string{"id", "tutor_id", "tutor_name", "subject_id", "date", "start_time", "end_time", "booked", "created_at", "updated_at"}).
		AddRow("s-1", "u-tutor", "Tutor One", "sub-1", "2026-09-01", "10:00", "11:00", true, now, now)

	env.mock.ExpectQuery(`SELECT .+ FROM tutor_slots WHERE id = \$1`).
		WithArgs("s-1").
		WillReturnRows(slotRows)

	req := httptest.NewRequest(http.MethodPost, "/book/s-1", nil)
	req.Header.Set("Authorization", env.bearerFor(t, models.RoleStudent))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ALREADY_BOOKED")
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestBookSlotNotFound(t *testing.T) {
	env := newTestEnv(t, "")

	env.mock.ExpectQuery(`SELECT .+ FROM tutor_slots WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodPost, "/book/missing", nil)
	req.Header.Set("Authorization", env.bearerFor(t, models.RoleStudent))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}
