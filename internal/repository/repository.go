// Package repository implements the data access layer for the application.
// Every interface has a MongoDB implementation (the default store) and a GORM
// implementation for postgres and sqlite.
package repository

import (
	"context"
	"errors"

	"sonic/internal/models"
)

var (
	// ErrNotFound is returned when a lookup by id or key matches nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// PostQuery filters the post feed. Zero values mean "no filter".
type PostQuery struct {
	Page     int
	PageSize int
	Type     *models.PostType
	Tags     []string
	Search   string
	Featured *bool
}

// PostRepository defines persistence operations for posts.
// GetByID returns soft-deleted posts too; Query never does.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Query(ctx context.Context, q PostQuery) (models.Page[*models.Post], error)
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	// ListForPost returns live comments oldest first.
	ListForPost(ctx context.Context, postID string, page, pageSize int) (models.Page[*models.Comment], error)
}

// LikeRepository defines persistence operations for likes.
type LikeRepository interface {
	// Toggle removes the like for (PostID, UserID) if present, otherwise stores it.
	// It reports whether the post is liked afterwards.
	Toggle(ctx context.Context, like *models.Like) (bool, error)
	Exists(ctx context.Context, postID, userID string) (bool, error)
	CountForPost(ctx context.Context, postID string) (int64, error)
}

// CampaignParticipationRepository defines persistence operations for campaign participants.
type CampaignParticipationRepository interface {
	// Add stores the participation and reports whether it was new.
	// An existing participation for the same (PostID, UserID) is not an error.
	Add(ctx context.Context, participation *models.CampaignParticipation) (bool, error)
	Exists(ctx context.Context, postID, userID string) (bool, error)
	CountForPost(ctx context.Context, postID string) (int64, error)
	// ListForPost returns participations in join order.
	ListForPost(ctx context.Context, postID string, page, pageSize int) (models.Page[*models.CampaignParticipation], error)
}

// Store bundles the repositories of one backend with its lifecycle hooks.
type Store struct {
	Driver         string
	Users          UserRepository
	Posts          PostRepository
	Comments       CommentRepository
	Likes          LikeRepository
	Participations CampaignParticipationRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
