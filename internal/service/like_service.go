package service

import (
	"context"

	"sonic/internal/models"
	"sonic/internal/observability"
	"sonic/internal/repository"
)

type LikeService struct {
	likes repository.LikeRepository
	posts repository.PostRepository
}

func NewLikeService(likes repository.LikeRepository, posts repository.PostRepository) *LikeService {
	return &LikeService{likes: likes, posts: posts}
}

// ToggleLike flips the caller's like on a live post.
func (s *LikeService) ToggleLike(ctx context.Context, postID, userID string) (*LikeResponse, error) {
	ctx, span := startSpan(ctx, "LikeService", "ToggleLike")
	defer span.End()

	if err := s.validate(ctx, postID, userID); err != nil {
		return nil, err
	}

	like, err := models.NewLike(postID, userID)
	if err != nil {
		return nil, err
	}
	liked, err := s.likes.Toggle(ctx, like)
	if err != nil {
		return nil, err
	}
	if liked {
		observability.LikeToggles.WithLabelValues("liked").Inc()
	} else {
		observability.LikeToggles.WithLabelValues("unliked").Inc()
	}

	count, err := s.likes.CountForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &LikeResponse{PostID: postID, LikeCount: count, Liked: liked}, nil
}

func (s *LikeService) GetStatus(ctx context.Context, postID, userID string) (*LikeResponse, error) {
	ctx, span := startSpan(ctx, "LikeService", "GetStatus")
	defer span.End()

	if err := s.validate(ctx, postID, userID); err != nil {
		return nil, err
	}

	liked, err := s.likes.Exists(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.likes.CountForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &LikeResponse{PostID: postID, LikeCount: count, Liked: liked}, nil
}

func (s *LikeService) validate(ctx context.Context, postID, userID string) error {
	if blank(postID) {
		return models.NewValidationError("like.post_id_required", "Post id is required.")
	}
	if blank(userID) {
		return models.NewValidationError("like.user_id_required", "User id is required.")
	}
	_, err := loadLivePost(ctx, s.posts, postID, postNotFoundCode, postNotFoundMsg)
	return err
}
