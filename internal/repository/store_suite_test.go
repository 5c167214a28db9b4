package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"sonic/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func mustUser(t *testing.T, email, name string) *models.User {
	t.Helper()
	u, err := models.NewUser(email, "v1:1:c2FsdA==:a2V5", name, models.RoleUser)
	require.NoError(t, err)
	return u
}

func mustPost(t *testing.T, postType models.PostType, title, body, author string, tags ...string) *models.Post {
	t.Helper()
	p, err := models.NewPost(postType, title, body, author, tags, nil, strPtr("reach 100 people"))
	require.NoError(t, err)
	return p
}

// runStoreSuite exercises behaviour every Store backend must share.
func runStoreSuite(t *testing.T, store *Store) {
	ctx := context.Background()

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})

	t.Run("Users", func(t *testing.T) {
		u := mustUser(t, "ada-"+models.NewID()+"@sonic.dev", "Ada")
		require.NoError(t, store.Users.Create(ctx, u))

		dup := mustUser(t, u.Email, "Other")
		err := store.Users.Create(ctx, dup)
		assert.True(t, errors.Is(err, ErrDuplicate), "got %v", err)

		got, err := store.Users.GetByEmail(ctx, "  "+u.Email+" ")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, []string{}, got.Interests)

		exists, err := store.Users.ExistsByEmail(ctx, u.Email)
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, got.UpdateProfile("Ada L.", strPtr("bio"), nil, []string{"go", "Go", "ml"}, nil))
		require.NoError(t, store.Users.Update(ctx, got))

		reloaded, err := store.Users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada L.", reloaded.DisplayName)
		assert.Equal(t, []string{"go", "ml"}, reloaded.Interests)
		require.NotNil(t, reloaded.Bio)
		assert.Equal(t, "bio", *reloaded.Bio)

		_, err = store.Users.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		missing := mustUser(t, "ghost-"+models.NewID()+"@sonic.dev", "Ghost")
		assert.ErrorIs(t, store.Users.Update(ctx, missing), ErrNotFound)

		users, err := store.Users.GetByIDs(ctx, []string{u.ID, "missing"})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, u.ID, users[0].ID)

		none, err := store.Users.GetByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("PostsFeed", func(t *testing.T) {
		author := models.NewID()
		marker := "zq" + models.NewID()[:8]
		base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)

		idea := mustPost(t, models.PostTypeIdea, "Idea "+marker, "body one", author, "Go", "ml")
		idea.CreatedAt = base
		news := mustPost(t, models.PostTypeNews, "News", "a 100% "+marker+" body", author, "go")
		news.CreatedAt = base.Add(time.Minute)
		campaign := mustPost(t, models.PostTypeCampaign, "Campaign "+marker, "join us", author, "rust")
		campaign.CreatedAt = base.Add(2 * time.Minute)
		hidden := mustPost(t, models.PostTypeIdea, "Hidden "+marker, "gone", author, "go")
		hidden.CreatedAt = base.Add(3 * time.Minute)

		for _, p := range []*models.Post{idea, news, campaign, hidden} {
			require.NoError(t, store.Posts.Create(ctx, p))
		}
		hidden.MarkDeleted()
		require.NoError(t, store.Posts.Update(ctx, hidden))

		page, err := store.Posts.Query(ctx, PostQuery{Search: marker})
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, int64(3), page.TotalItems)
		assert.Equal(t, int64(1), page.TotalPages)
		assert.Equal(t, campaign.ID, page.Items[0].ID)
		assert.Equal(t, news.ID, page.Items[1].ID)
		assert.Equal(t, idea.ID, page.Items[2].ID)
		assert.Equal(t, []string{"go", "ml"}, page.Items[2].Tags)

		upper, err := store.Posts.Query(ctx, PostQuery{Search: "IDEA " + marker})
		require.NoError(t, err)
		require.Len(t, upper.Items, 1)
		assert.Equal(t, idea.ID, upper.Items[0].ID)

		literal, err := store.Posts.Query(ctx, PostQuery{Search: "100% " + marker})
		require.NoError(t, err)
		require.Len(t, literal.Items, 1)
		assert.Equal(t, news.ID, literal.Items[0].ID)

		campaignType := models.PostTypeCampaign
		typed, err := store.Posts.Query(ctx, PostQuery{Search: marker, Type: &campaignType})
		require.NoError(t, err)
		require.Len(t, typed.Items, 1)
		assert.Equal(t, campaign.ID, typed.Items[0].ID)

		tagged, err := store.Posts.Query(ctx, PostQuery{Search: marker, Tags: []string{"RUST", "ml"}})
		require.NoError(t, err)
		assert.Len(t, tagged.Items, 2)

		paged, err := store.Posts.Query(ctx, PostQuery{Search: marker, Page: 2, PageSize: 2})
		require.NoError(t, err)
		require.Len(t, paged.Items, 1)
		assert.Equal(t, idea.ID, paged.Items[0].ID)
		assert.Equal(t, int64(2), paged.TotalPages)

		require.NoError(t, news.SetFeatured(true))
		require.NoError(t, store.Posts.Update(ctx, news))
		featured := true
		feat, err := store.Posts.Query(ctx, PostQuery{Search: marker, Featured: &featured})
		require.NoError(t, err)
		require.Len(t, feat.Items, 1)
		assert.Equal(t, news.ID, feat.Items[0].ID)

		got, err := store.Posts.GetByID(ctx, hidden.ID)
		require.NoError(t, err)
		assert.True(t, got.IsDeleted)

		require.NoError(t, idea.UpdateContent("Idea "+marker, "new body", []string{"python"}, strPtr("https://example.com"), nil))
		require.NoError(t, store.Posts.Update(ctx, idea))
		got, err = store.Posts.GetByID(ctx, idea.ID)
		require.NoError(t, err)
		assert.Equal(t, "new body", got.Body)
		assert.Equal(t, []string{"python"}, got.Tags)
		require.NotNil(t, got.ExternalLink)
		assert.Nil(t, got.CampaignGoal)

		_, err = store.Posts.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("PostsSearchNonASCII", func(t *testing.T) {
		marker := "zu" + models.NewID()[:8]
		p := mustPost(t, models.PostTypeModelGuide, "Über Guide "+marker, "body", models.NewID())
		require.NoError(t, store.Posts.Create(ctx, p))

		for _, q := range []string{"über guide " + marker, "ÜBER GUIDE " + marker, "Über"} {
			page, err := store.Posts.Query(ctx, PostQuery{Search: q})
			require.NoError(t, err)
			ids := make([]string, 0, len(page.Items))
			for _, item := range page.Items {
				ids = append(ids, item.ID)
			}
			assert.Contains(t, ids, p.ID, q)
		}

		require.NoError(t, p.UpdateContent("Renamed", "Ärger "+marker, nil, nil, nil))
		require.NoError(t, store.Posts.Update(ctx, p))
		renamed, err := store.Posts.Query(ctx, PostQuery{Search: "ÄRGER " + marker})
		require.NoError(t, err)
		require.Len(t, renamed.Items, 1)
		assert.Equal(t, p.ID, renamed.Items[0].ID)
		stale, err := store.Posts.Query(ctx, PostQuery{Search: "über guide " + marker})
		require.NoError(t, err)
		assert.Empty(t, stale.Items)
	})

	t.Run("Comments", func(t *testing.T) {
		postID := models.NewID()
		first, err := models.NewComment(postID, "u1", "first")
		require.NoError(t, err)
		second, err := models.NewComment(postID, "u2", "second")
		require.NoError(t, err)
		second.CreatedAt = first.CreatedAt.Add(time.Second)
		third, err := models.NewComment(postID, "u1", "third")
		require.NoError(t, err)
		third.CreatedAt = first.CreatedAt.Add(2 * time.Second)

		for _, c := range []*models.Comment{third, first, second} {
			require.NoError(t, store.Comments.Create(ctx, c))
		}
		second.MarkDeleted()
		require.NoError(t, store.Comments.Update(ctx, second))

		page, err := store.Comments.ListForPost(ctx, postID, 1, 10)
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, first.ID, page.Items[0].ID)
		assert.Equal(t, third.ID, page.Items[1].ID)
		assert.Equal(t, int64(2), page.TotalItems)

		got, err := store.Comments.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.True(t, got.IsDeleted)
		assert.NotNil(t, got.UpdatedAt)

		_, err = store.Comments.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("LikeToggle", func(t *testing.T) {
		postID := models.NewID()
		like, err := models.NewLike(postID, "u1")
		require.NoError(t, err)

		liked, err := store.Likes.Toggle(ctx, like)
		require.NoError(t, err)
		assert.True(t, liked)

		n, err := store.Likes.CountForPost(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		exists, err := store.Likes.Exists(ctx, postID, "u1")
		require.NoError(t, err)
		assert.True(t, exists)

		again, err := models.NewLike(postID, "u1")
		require.NoError(t, err)
		liked, err = store.Likes.Toggle(ctx, again)
		require.NoError(t, err)
		assert.False(t, liked)

		n, err = store.Likes.CountForPost(ctx, postID)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Participations", func(t *testing.T) {
		postID := models.NewID()
		first, err := models.NewCampaignParticipation(postID, "u1")
		require.NoError(t, err)
		created, err := store.Participations.Add(ctx, first)
		require.NoError(t, err)
		assert.True(t, created)

		repeat, err := models.NewCampaignParticipation(postID, "u1")
		require.NoError(t, err)
		created, err = store.Participations.Add(ctx, repeat)
		require.NoError(t, err)
		assert.False(t, created)

		second, err := models.NewCampaignParticipation(postID, "u2")
		require.NoError(t, err)
		second.JoinedAt = first.JoinedAt.Add(time.Second)
		_, err = store.Participations.Add(ctx, second)
		require.NoError(t, err)

		n, err := store.Participations.CountForPost(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		exists, err := store.Participations.Exists(ctx, postID, "u3")
		require.NoError(t, err)
		assert.False(t, exists)

		page, err := store.Participations.ListForPost(ctx, postID, 1, 10)
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "u1", page.Items[0].UserID)
		assert.Equal(t, "u2", page.Items[1].UserID)
	})
}
