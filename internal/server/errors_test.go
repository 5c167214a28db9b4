package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"sonic/internal/models"
	"sonic/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func newMockEnv(t *testing.T, users repository.UserRepository) *fiber.App {
	t.Helper()
	cfg := testConfig()
	srv, err := NewServerWithDeps(cfg, &repository.Store{Driver: "mock", Users: users}, nil)
	require.NoError(t, err)
	return srv.NewApp()
}

func TestErrorHandler_StoreFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantTitle  string
	}{
		{"deadline exceeded", fmt.Errorf("query: %w", context.DeadlineExceeded), fiber.StatusServiceUnavailable, "store.unavailable", "Internal server error"},
		{"network error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, fiber.StatusServiceUnavailable, "store.unavailable", "Internal server error"},
		{"duplicate key", fmt.Errorf("%w: E11000 duplicate key", repository.ErrDuplicate), fiber.StatusConflict, "store.duplicate_key", "Error"},
		{"unexpected", errors.New("boom"), fiber.StatusInternalServerError, "internal_error", "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			users.On("GetByID", mock.Anything, "u1").Return(nil, tt.err)
			app := newMockEnv(t, users)

			req := httptest.NewRequest(http.MethodGet, "/users/u1", nil)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			problem := decode[models.ProblemDetails](t, resp)
			assert.Equal(t, tt.wantCode, problem.Code)
			assert.Equal(t, tt.wantTitle, problem.Title)
			assert.NotContains(t, problem.Detail, "boom")
			users.AssertExpectations(t)
		})
	}
}

func TestErrorHandler_DevelopmentDetail(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, "u1").Return(nil, errors.New("boom"))

	cfg := testConfig()
	cfg.Env = "development"
	srv, err := NewServerWithDeps(cfg, &repository.Store{Driver: "mock", Users: users}, nil)
	require.NoError(t, err)

	resp, err := srv.NewApp().Test(httptest.NewRequest(http.MethodGet, "/users/u1", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, decode[models.ProblemDetails](t, resp).Detail, "*errors.errorString")
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	app := newMockEnv(t, new(MockUserRepository))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
}

func TestIsStoreUnavailable(t *testing.T) {
	assert.True(t, isStoreUnavailable(context.DeadlineExceeded))
	assert.False(t, isStoreUnavailable(context.Canceled))
	assert.False(t, isStoreUnavailable(repository.ErrNotFound))
}
