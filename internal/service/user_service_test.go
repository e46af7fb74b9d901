package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/studyslot/studyslot-api/internal/models"
	appErrors "github.com/studyslot/studyslot-api/pkg/errors"
)

func TestUserCreateSuccess(t *testing.T) {
	repo := &stubUserRepo{}
	svc := NewUserService(repo, nil, nil)

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "New Student",
		Email:    "New.Student@Example.com",
		Role:     "Student",
		Password: "secret99",
	}, "u-admin")
	require.NoError(t, err)
	assert.Equal(t, "new.student@example.com", user.Email)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret99")))

	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionUserCreate, repo.auditLogs[0].Action)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repo := &stubUserRepo{users: []*models.User{{ID: "u-1", Email: "taken@example.com"}}}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Dup",
		Email:    "taken@example.com",
		Role:     "student",
		Password: "secret99",
	}, "u-admin")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicate.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestUserCreateInvalidRole(t *testing.T) {
	svc := NewUserService(&stubUserRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Weird",
		Email:    "weird@example.com",
		Role:     "superuser",
		Password: "secret99",
	}, "u-admin")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserDeleteSuccess(t *testing.T) {
	repo := &stubUserRepo{users: []*models.User{{ID: "u-1", Email: "gone@example.com"}}}
	svc := NewUserService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "u-1", "u-admin"))
	assert.Empty(t, repo.users)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionUserDelete, repo.auditLogs[0].Action)
}

func TestUserDeleteNotFound(t *testing.T) {
	svc := NewUserService(&stubUserRepo{}, nil, nil)

	err := svc.Delete(context.Background(), "missing", "u-admin")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}
