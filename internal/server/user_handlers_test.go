package server

import (
	"net/http"
	"testing"

	"sonic/internal/models"
	"sonic/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMyProfile(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser(t, "dana@example.com", models.RoleUser)

	resp := env.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	me := decode[service.CurrentUserResponse](t, resp)
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, "dana@example.com", me.Email)
	assert.Equal(t, []string{}, me.Interests)

	resp = env.do(t, http.MethodPut, "/users/me", token, map[string]interface{}{
		"displayName": "Dana S.",
		"bio":         "Builder",
		"interests":   []string{"Go", "go", "Rust"},
		"avatarUrl":   "https://cdn.example.com/dana.png",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := decode[service.CurrentUserResponse](t, resp)
	assert.Equal(t, "Dana S.", updated.DisplayName)
	assert.Len(t, updated.Interests, 2)

	resp = env.do(t, http.MethodPut, "/users/me", token, map[string]interface{}{
		"displayName": "Dana",
		"avatarUrl":   "not a url",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "user.avatar_url_invalid", decode[models.ProblemDetails](t, resp).Code)

	resp = env.do(t, http.MethodGet, "/users/me", "not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestPublicProfile(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.seedUser(t, "erin@example.com", models.RoleUser)

	resp := env.do(t, http.MethodGet, "/users/"+user.ID, "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	profile := decode[map[string]interface{}](t, resp)
	assert.Equal(t, user.ID, profile["id"])
	assert.NotContains(t, profile, "email")
	assert.NotContains(t, profile, "role")

	resp = env.do(t, http.MethodGet, "/users/unknown", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "user.not_found", decode[models.ProblemDetails](t, resp).Code)
}
