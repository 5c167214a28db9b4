package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sonic/internal/auth"
	"sonic/internal/bootstrap"
	"sonic/internal/config"
	"sonic/internal/models"
	"sonic/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:                   "test",
		Port:                  "0",
		StoreDriver:           config.StoreSQLite,
		SQLitePath:            ":memory:",
		JWTSecret:             "test-secret-that-is-at-least-32-characters",
		JWTIssuer:             "sonic-api",
		JWTAudience:           "sonic-clients",
		JWTAccessTokenMinutes: 60,
	}
}

type testEnv struct {
	server *Server
	app    *fiber.App
	store  *repository.Store
	redis  *miniredis.Miniredis
}

// newTestEnv serves the real routes over an in-memory sqlite store and miniredis.
func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	store, err := bootstrap.OpenStore(context.Background(), cfg)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	srv, err := NewServerWithDeps(cfg, store, rdb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	return &testEnv{server: srv, app: srv.NewApp(), store: store, redis: mr}
}

// seedUser stores a user directly and returns it with a signed token.
func (e *testEnv) seedUser(t *testing.T, email string, role models.Role) (*models.User, string) {
	t.Helper()
	hash, err := (&auth.PBKDF2Hasher{Iterations: 1000}).Hash("password123")
	require.NoError(t, err)
	user, err := models.NewUser(email, hash, strings.Split(email, "@")[0], role)
	require.NoError(t, err)
	require.NoError(t, e.store.Users.Create(context.Background(), user))

	token, err := e.server.tokens.Issue(user)
	require.NoError(t, err)
	return user, token.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
