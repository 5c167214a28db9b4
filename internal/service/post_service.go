package service

import (
	"context"

	"sonic/internal/models"
	"sonic/internal/repository"
)

type PostService struct {
	posts          repository.PostRepository
	likes          repository.LikeRepository
	participations repository.CampaignParticipationRepository
}

type CreatePostInput struct {
	Type         models.PostType
	Title        string
	Body         string
	Tags         []string
	ExternalLink *string
	CampaignGoal *string
}

type UpdatePostInput struct {
	Title        string
	Body         string
	Tags         []string
	ExternalLink *string
	CampaignGoal *string
}

// Actor identifies the caller of a mutating operation.
type Actor struct {
	UserID  string
	IsAdmin bool
}

type FeedInput struct {
	Page     int
	PageSize int
	Type     *models.PostType
	Tags     []string
	Search   string
	Featured *bool
}

func NewPostService(
	posts repository.PostRepository,
	likes repository.LikeRepository,
	participations repository.CampaignParticipationRepository,
) *PostService {
	return &PostService{posts: posts, likes: likes, participations: participations}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput, authorID string) (*PostResponse, error) {
	ctx, span := startSpan(ctx, "PostService", "CreatePost")
	defer span.End()

	if blank(authorID) {
		return nil, models.NewValidationError("post.author_id_required", "Author id is required.")
	}
	if blank(in.Title) {
		return nil, models.NewValidationError("post.title_required", "Title is required.")
	}
	if blank(in.Body) {
		return nil, models.NewValidationError("post.body_required", "Body is required.")
	}

	post, err := models.NewPost(in.Type, in.Title, in.Body, authorID, in.Tags, in.ExternalLink, in.CampaignGoal)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	resp := newPostResponse(post, 0, 0)
	return &resp, nil
}

func (s *PostService) GetPostByID(ctx context.Context, id string) (*PostResponse, error) {
	ctx, span := startSpan(ctx, "PostService", "GetPostByID")
	defer span.End()

	if blank(id) {
		return nil, postIDRequired()
	}
	post, err := loadLivePost(ctx, s.posts, id, postNotFoundCode, postNotFoundMsg)
	if err != nil {
		return nil, err
	}

	resp, err := s.toResponse(ctx, post)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id string, in UpdatePostInput, actor Actor) (*PostResponse, error) {
	ctx, span := startSpan(ctx, "PostService", "UpdatePost")
	defer span.End()

	post, err := s.loadForMutation(ctx, id, actor, "post.forbidden_update", "You are not allowed to update this post.")
	if err != nil {
		return nil, err
	}
	if err := post.UpdateContent(in.Title, in.Body, in.Tags, in.ExternalLink, in.CampaignGoal); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, notFoundAs(err, postNotFoundCode, postNotFoundMsg)
	}

	resp, err := s.toResponse(ctx, post)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeletePost soft-deletes the post. Likes and participations are kept.
func (s *PostService) DeletePost(ctx context.Context, id string, actor Actor) error {
	ctx, span := startSpan(ctx, "PostService", "DeletePost")
	defer span.End()

	post, err := s.loadForMutation(ctx, id, actor, "post.forbidden_delete", "You are not allowed to delete this post.")
	if err != nil {
		return err
	}
	post.MarkDeleted()
	return notFoundAs(s.posts.Update(ctx, post), postNotFoundCode, postNotFoundMsg)
}

func (s *PostService) GetFeed(ctx context.Context, in FeedInput) (*models.Page[PostResponse], error) {
	ctx, span := startSpan(ctx, "PostService", "GetFeed")
	defer span.End()

	page, pageSize := models.NormalizePaging(in.Page, in.PageSize)
	result, err := s.posts.Query(ctx, repository.PostQuery{
		Page:     page,
		PageSize: pageSize,
		Type:     in.Type,
		Tags:     in.Tags,
		Search:   in.Search,
		Featured: in.Featured,
	})
	if err != nil {
		return nil, err
	}

	items := make([]PostResponse, 0, len(result.Items))
	for _, post := range result.Items {
		resp, err := s.toResponse(ctx, post)
		if err != nil {
			return nil, err
		}
		items = append(items, resp)
	}

	out := models.NewPage(items, result.Page, result.PageSize, result.TotalItems)
	return &out, nil
}

// SetFeaturedStatus flips the featured flag. Callers must already be admins.
func (s *PostService) SetFeaturedStatus(ctx context.Context, id string, featured bool) error {
	ctx, span := startSpan(ctx, "PostService", "SetFeaturedStatus")
	defer span.End()

	if blank(id) {
		return postIDRequired()
	}
	post, err := loadLivePost(ctx, s.posts, id, postNotFoundCode, postNotFoundMsg)
	if err != nil {
		return err
	}
	if err := post.SetFeatured(featured); err != nil {
		return err
	}
	return notFoundAs(s.posts.Update(ctx, post), postNotFoundCode, postNotFoundMsg)
}

func (s *PostService) loadForMutation(ctx context.Context, id string, actor Actor, forbiddenCode, forbiddenMsg string) (*models.Post, error) {
	if blank(id) {
		return nil, postIDRequired()
	}
	if blank(actor.UserID) {
		return nil, models.NewValidationError("post.current_user_required", "Current user id is required.")
	}
	post, err := loadLivePost(ctx, s.posts, id, postNotFoundCode, postNotFoundMsg)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.UserID && !actor.IsAdmin {
		return nil, models.NewForbiddenError(forbiddenCode, forbiddenMsg)
	}
	return post, nil
}

func (s *PostService) toResponse(ctx context.Context, post *models.Post) (PostResponse, error) {
	likes, err := s.likes.CountForPost(ctx, post.ID)
	if err != nil {
		return PostResponse{}, err
	}
	var participants int64
	if post.IsCampaign() {
		if participants, err = s.participations.CountForPost(ctx, post.ID); err != nil {
			return PostResponse{}, err
		}
	}
	return newPostResponse(post, likes, participants), nil
}

func postIDRequired() error {
	return models.NewValidationError("post.id_required", "Post id is required.")
}
