package models

import (
	"strings"
	"time"
)

// Like records that a user liked a post. At most one exists per (PostID, UserID).
type Like struct {
	ID        string    `bson:"_id"`
	PostID    string    `bson:"postId"`
	UserID    string    `bson:"userId"`
	CreatedAt time.Time `bson:"createdAt"`
}

func NewLike(postID, userID string) (*Like, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, NewValidationError("like.post_id_required", "Post id is required.")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, NewValidationError("like.user_id_required", "User id is required.")
	}
	return &Like{ID: NewID(), PostID: postID, UserID: userID, CreatedAt: now()}, nil
}

// CampaignParticipation records that a user joined a campaign post.
type CampaignParticipation struct {
	ID       string    `bson:"_id"`
	PostID   string    `bson:"postId"`
	UserID   string    `bson:"userId"`
	JoinedAt time.Time `bson:"joinedAt"`
}

func NewCampaignParticipation(postID, userID string) (*CampaignParticipation, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, NewValidationError("campaign.post_id_required", "Post id is required.")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, NewValidationError("campaign.user_id_required", "User id is required.")
	}
	return &CampaignParticipation{ID: NewID(), PostID: postID, UserID: userID, JoinedAt: now()}, nil
}
