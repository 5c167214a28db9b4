package server

import (
	"net/http"
	"net/url"
	"testing"

	"sonic/internal/models"
	"sonic/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) createPost(t *testing.T, token string, body map[string]interface{}) service.PostResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/posts", token, body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return decode[service.PostResponse](t, resp)
}

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	author, token := env.seedUser(t, "author@example.com", models.RoleUser)

	t.Run("requires auth", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/posts", "", map[string]string{"title": "x"})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "auth.missing_token", decode[models.ProblemDetails](t, resp).Code)
	})

	t.Run("non-campaign drops goal", func(t *testing.T) {
		post := env.createPost(t, token, map[string]interface{}{
			"type":         "idea",
			"title":        "  Ship it ",
			"body":         "body",
			"tags":         []string{"Go", "go", "API"},
			"campaignGoal": "ignored",
		})
		assert.Equal(t, models.PostTypeIdea, post.Type)
		assert.Equal(t, "Ship it", post.Title)
		assert.Equal(t, author.ID, post.AuthorID)
		assert.ElementsMatch(t, []string{"go", "api"}, post.Tags)
		assert.Nil(t, post.CampaignGoal)
	})

	t.Run("invalid type", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/posts", token, map[string]string{
			"type": "Podcast", "title": "t", "body": "b",
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "post.invalid_type", decode[models.ProblemDetails](t, resp).Code)
	})

	t.Run("missing title", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/posts", token, map[string]string{"type": "News", "body": "b"})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "post.title_required", decode[models.ProblemDetails](t, resp).Code)
	})
}

func TestUpdateAndDeletePost_Authorization(t *testing.T) {
	env := newTestEnv(t)
	_, authorToken := env.seedUser(t, "author@example.com", models.RoleUser)
	_, otherToken := env.seedUser(t, "other@example.com", models.RoleUser)
	_, adminToken := env.seedUser(t, "admin@example.com", models.RoleAdmin)

	post := env.createPost(t, authorToken, map[string]interface{}{
		"type": "Experience", "title": "Original", "body": "body",
	})
	update := map[string]interface{}{"title": "Edited", "body": "new body"}

	resp := env.do(t, http.MethodPut, "/posts/"+post.ID, otherToken, update)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/posts/"+post.ID, adminToken, update)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Edited", decode[service.PostResponse](t, resp).Title)

	resp = env.do(t, http.MethodDelete, "/posts/"+post.ID, otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/posts/"+post.ID, authorToken, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/posts/"+post.ID, "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "post.not_found", decode[models.ProblemDetails](t, resp).Code)

	resp = env.do(t, http.MethodGet, "/posts", "", nil)
	feed := decode[models.Page[service.PostResponse]](t, resp)
	assert.Empty(t, feed.Items)
	assert.EqualValues(t, 0, feed.TotalItems)
}

func TestGetFeed_Filters(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "author@example.com", models.RoleUser)
	_, adminToken := env.seedUser(t, "admin@example.com", models.RoleAdmin)

	env.createPost(t, token, map[string]interface{}{"type": "News", "title": "Release notes", "body": "v2", "tags": []string{"release"}})
	guide := env.createPost(t, token, map[string]interface{}{"type": "ModelGuide", "title": "Prompting", "body": "100% useful", "tags": []string{"llm", "guide"}})
	env.createPost(t, token, map[string]interface{}{"type": "Campaign", "title": "Clean the beach", "body": "Join us", "campaignGoal": "100 volunteers"})

	resp := env.do(t, http.MethodPost, "/admin/posts/"+guide.ID+"/feature", adminToken, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	tests := []struct {
		name  string
		query string
		want  int64
	}{
		{"all", "", 3},
		{"by type", "?type=news", 1},
		{"by repeated tag", "?tag=llm&tag=release", 2},
		{"by comma tags", "?tag=guide,missing", 1},
		{"search is case-insensitive", "?q=BEACH", 1},
		{"search treats percent literally", "?q=100%25", 1},
		{"featured", "?featured=true", 1},
		{"not featured", "?featured=false", 2},
		{"combined", "?type=Campaign&q=prompt", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodGet, "/posts"+tt.query, "", nil)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			page := decode[models.Page[service.PostResponse]](t, resp)
			assert.Equal(t, tt.want, page.TotalItems)
		})
	}

	t.Run("invalid type", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/posts?type=Podcast", "", nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid featured", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/posts?featured=maybe", "", nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("paging", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/posts?page=2&pageSize=2", "", nil)
		page := decode[models.Page[service.PostResponse]](t, resp)
		assert.Equal(t, 2, page.Page)
		assert.Len(t, page.Items, 1)
		assert.EqualValues(t, 2, page.TotalPages)
	})

	t.Run("page far past the end", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/posts?page=1844674407370955162&pageSize=10", "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		page := decode[models.Page[service.PostResponse]](t, resp)
		assert.Equal(t, models.MaxPage, page.Page)
		assert.Empty(t, page.Items)
		assert.EqualValues(t, 3, page.TotalItems)
	})

	t.Run("campaigns feed", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/campaigns", "", nil)
		page := decode[models.Page[service.PostResponse]](t, resp)
		require.Len(t, page.Items, 1)
		assert.Equal(t, models.PostTypeCampaign, page.Items[0].Type)
		require.NotNil(t, page.Items[0].CampaignGoal)
		assert.Equal(t, "100 volunteers", *page.Items[0].CampaignGoal)
	})
	t.Run("search folds non-ascii case", func(t *testing.T) {
		env.createPost(t, token, map[string]interface{}{"type": "Idea", "title": "Über Guide", "body": "Straße"})

		for _, q := range []string{"über", "ÜBER", "straße", "STRAßE"} {
			resp := env.do(t, http.MethodGet, "/posts?q="+url.QueryEscape(q), "", nil)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			page := decode[models.Page[service.PostResponse]](t, resp)
			assert.EqualValues(t, 1, page.TotalItems, q)
		}
	})
}
