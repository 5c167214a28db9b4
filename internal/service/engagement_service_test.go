package service

import (
	"context"
	"net/http"
	"testing"

	"sonic/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeService_ToggleIsSelfInverse(t *testing.T) {
	ctx := context.Background()
	post := newTestPost(t, models.PostTypeIdea, "a")
	likes := newLikeRepoStub()
	likes.liked[post.ID+"/other"] = true
	svc := NewLikeService(likes, postRepoWith(post))

	before, err := svc.GetStatus(ctx, post.ID, "u1")
	require.NoError(t, err)
	assert.False(t, before.Liked)

	liked, err := svc.ToggleLike(ctx, post.ID, "u1")
	require.NoError(t, err)
	assert.True(t, liked.Liked)
	assert.Equal(t, before.LikeCount+1, liked.LikeCount)

	unliked, err := svc.ToggleLike(ctx, post.ID, "u1")
	require.NoError(t, err)
	assert.False(t, unliked.Liked)
	assert.Equal(t, before.LikeCount, unliked.LikeCount)
	assert.Equal(t, post.ID, unliked.PostID)
}

func TestLikeService_Validation(t *testing.T) {
	ctx := context.Background()
	deleted := newTestPost(t, models.PostTypeIdea, "a")
	deleted.MarkDeleted()
	svc := NewLikeService(newLikeRepoStub(), postRepoWith(deleted))

	_, err := svc.ToggleLike(ctx, "", "u1")
	assertAppError(t, err, http.StatusBadRequest, "like.post_id_required")
	_, err = svc.ToggleLike(ctx, "p", " ")
	assertAppError(t, err, http.StatusBadRequest, "like.user_id_required")
	_, err = svc.ToggleLike(ctx, "missing", "u1")
	assertAppError(t, err, http.StatusNotFound, "post.not_found")
	_, err = svc.GetStatus(ctx, deleted.ID, "u1")
	assertAppError(t, err, http.StatusNotFound, "post.not_found")
}

func TestLikeService_ToggleStoreFailure(t *testing.T) {
	post := newTestPost(t, models.PostTypeIdea, "a")
	likes := newLikeRepoStub()
	likes.toggleFn = func(context.Context, *models.Like) (bool, error) { return false, assert.AnError }

	_, err := NewLikeService(likes, postRepoWith(post)).ToggleLike(context.Background(), post.ID, "u1")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCampaignService_JoinIsIdempotent(t *testing.T) {
	ctx := context.Background()
	campaign := newTestPost(t, models.PostTypeCampaign, "a")
	parts := &participationRepoStub{}
	svc := NewCampaignService(postRepoWith(campaign), parts)

	status, err := svc.GetJoinStatus(ctx, campaign.ID, "u1")
	require.NoError(t, err)
	assert.False(t, status.Joined)

	first, err := svc.JoinCampaign(ctx, campaign.ID, "u1")
	require.NoError(t, err)
	assert.True(t, first.Joined)
	assert.False(t, first.AlreadyMember)
	assert.Equal(t, int64(1), first.ParticipantsCount)

	second, err := svc.JoinCampaign(ctx, campaign.ID, "u1")
	require.NoError(t, err)
	assert.True(t, second.Joined)
	assert.True(t, second.AlreadyMember)
	assert.Equal(t, int64(1), second.ParticipantsCount)

	status, err = svc.GetJoinStatus(ctx, campaign.ID, "u1")
	require.NoError(t, err)
	assert.True(t, status.Joined)
}

func TestCampaignService_Validation(t *testing.T) {
	ctx := context.Background()
	idea := newTestPost(t, models.PostTypeIdea, "a")
	deleted := newTestPost(t, models.PostTypeCampaign, "a")
	deleted.MarkDeleted()
	svc := NewCampaignService(postRepoWith(idea, deleted), &participationRepoStub{})

	_, err := svc.JoinCampaign(ctx, " ", "u1")
	assertAppError(t, err, http.StatusBadRequest, "campaign.post_id_required")
	_, err = svc.JoinCampaign(ctx, idea.ID, "")
	assertAppError(t, err, http.StatusBadRequest, "campaign.user_id_required")
	_, err = svc.JoinCampaign(ctx, "missing", "u1")
	assertAppError(t, err, http.StatusNotFound, "campaign.not_found")
	_, err = svc.JoinCampaign(ctx, deleted.ID, "u1")
	assertAppError(t, err, http.StatusNotFound, "campaign.not_found")
	_, err = svc.GetJoinStatus(ctx, idea.ID, "u1")
	assertAppError(t, err, http.StatusBadRequest, "campaign.invalid_type")
}

func TestCampaignService_ListParticipants(t *testing.T) {
	ctx := context.Background()
	campaign := newTestPost(t, models.PostTypeCampaign, "a")
	svc := NewCampaignService(postRepoWith(campaign), &participationRepoStub{})

	for _, u := range []string{"u1", "u2", "u3"} {
		_, err := svc.JoinCampaign(ctx, campaign.ID, u)
		require.NoError(t, err)
	}

	page, err := svc.ListParticipants(ctx, campaign.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "u3", page.Items[0].UserID)
	assert.Equal(t, int64(3), page.TotalItems)
	assert.Equal(t, int64(2), page.TotalPages)

	_, err = svc.ListParticipants(ctx, "", 1, 10)
	assertAppError(t, err, http.StatusBadRequest, "campaign.post_id_required")
}
