package service

import (
	"context"

	"sonic/internal/models"
	"sonic/internal/observability"
	"sonic/internal/repository"
)

type CampaignService struct {
	posts          repository.PostRepository
	participations repository.CampaignParticipationRepository
}

func NewCampaignService(posts repository.PostRepository, participations repository.CampaignParticipationRepository) *CampaignService {
	return &CampaignService{posts: posts, participations: participations}
}

// JoinCampaign adds the caller to a campaign. Joining twice is not an error.
func (s *CampaignService) JoinCampaign(ctx context.Context, postID, userID string) (*JoinResponse, error) {
	ctx, span := startSpan(ctx, "CampaignService", "JoinCampaign")
	defer span.End()

	if err := s.validate(ctx, postID, userID); err != nil {
		return nil, err
	}

	participation, err := models.NewCampaignParticipation(postID, userID)
	if err != nil {
		return nil, err
	}
	created, err := s.participations.Add(ctx, participation)
	if err != nil {
		return nil, err
	}
	if created {
		observability.CampaignJoins.WithLabelValues("joined").Inc()
	} else {
		observability.CampaignJoins.WithLabelValues("already_member").Inc()
	}

	count, err := s.participations.CountForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &JoinResponse{
		PostID:            postID,
		ParticipantsCount: count,
		Joined:            true,
		AlreadyMember:     !created,
	}, nil
}

func (s *CampaignService) GetJoinStatus(ctx context.Context, postID, userID string) (*JoinResponse, error) {
	ctx, span := startSpan(ctx, "CampaignService", "GetJoinStatus")
	defer span.End()

	if err := s.validate(ctx, postID, userID); err != nil {
		return nil, err
	}

	joined, err := s.participations.Exists(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.participations.CountForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &JoinResponse{
		PostID:            postID,
		ParticipantsCount: count,
		Joined:            joined,
		AlreadyMember:     joined,
	}, nil
}

// ListParticipants pages through a campaign's participants in join order.
func (s *CampaignService) ListParticipants(ctx context.Context, postID string, page, pageSize int) (*models.Page[ParticipantResponse], error) {
	ctx, span := startSpan(ctx, "CampaignService", "ListParticipants")
	defer span.End()

	if blank(postID) {
		return nil, campaignPostIDRequired()
	}
	if _, err := s.loadCampaign(ctx, postID); err != nil {
		return nil, err
	}

	page, pageSize = models.NormalizePaging(page, pageSize)
	result, err := s.participations.ListForPost(ctx, postID, page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]ParticipantResponse, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, ParticipantResponse{UserID: p.UserID, JoinedAt: p.JoinedAt})
	}
	out := models.NewPage(items, result.Page, result.PageSize, result.TotalItems)
	return &out, nil
}

func (s *CampaignService) validate(ctx context.Context, postID, userID string) error {
	if blank(postID) {
		return campaignPostIDRequired()
	}
	if blank(userID) {
		return models.NewValidationError("campaign.user_id_required", "User id is required.")
	}
	_, err := s.loadCampaign(ctx, postID)
	return err
}

func (s *CampaignService) loadCampaign(ctx context.Context, postID string) (*models.Post, error) {
	post, err := loadLivePost(ctx, s.posts, postID, "campaign.not_found", "Campaign not found.")
	if err != nil {
		return nil, err
	}
	if !post.IsCampaign() {
		return nil, models.NewValidationError("campaign.invalid_type", "Target post is not a campaign.")
	}
	return post, nil
}

func campaignPostIDRequired() error {
	return models.NewValidationError("campaign.post_id_required", "Campaign post id is required.")
}
