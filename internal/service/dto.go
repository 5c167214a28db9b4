package service

import (
	"time"

	"sonic/internal/models"
)

// AuthResponse is returned by register and login.
type AuthResponse struct {
	UserID       string      `json:"userId"`
	Email        string      `json:"email"`
	DisplayName  string      `json:"displayName"`
	Role         models.Role `json:"role"`
	AccessToken  string      `json:"accessToken"`
	ExpiresAtUTC time.Time   `json:"expiresAtUtc"`
}

// PostResponse is the public view of a post with its live counters.
type PostResponse struct {
	ID                string          `json:"id"`
	Type              models.PostType `json:"type"`
	Title             string          `json:"title"`
	Body              string          `json:"body"`
	Tags              []string        `json:"tags"`
	ExternalLink      *string         `json:"externalLink"`
	AuthorID          string          `json:"authorId"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	IsFeatured        bool            `json:"isFeatured"`
	LikeCount         int64           `json:"likeCount"`
	CampaignGoal      *string         `json:"campaignGoal"`
	ParticipantsCount int64           `json:"participantsCount"`
}

func newPostResponse(p *models.Post, likes, participants int64) PostResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostResponse{
		ID:                p.ID,
		Type:              p.Type,
		Title:             p.Title,
		Body:              p.Body,
		Tags:              tags,
		ExternalLink:      p.ExternalLink,
		AuthorID:          p.AuthorID,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		IsFeatured:        p.IsFeatured,
		LikeCount:         likes,
		CampaignGoal:      p.CampaignGoal,
		ParticipantsCount: participants,
	}
}

// CommentResponse is the public view of a comment.
type CommentResponse struct {
	ID                string     `json:"id"`
	PostID            string     `json:"postId"`
	AuthorID          string     `json:"authorId"`
	AuthorDisplayName *string    `json:"authorDisplayName"`
	Body              string     `json:"body"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         *time.Time `json:"updatedAt"`
}

func newCommentResponse(c *models.Comment, authorName *string) CommentResponse {
	return CommentResponse{
		ID:                c.ID,
		PostID:            c.PostID,
		AuthorID:          c.AuthorID,
		AuthorDisplayName: authorName,
		Body:              c.Body,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// LikeResponse reports the like state of a post for the caller.
type LikeResponse struct {
	PostID    string `json:"postId"`
	LikeCount int64  `json:"likeCount"`
	Liked     bool   `json:"liked"`
}

// JoinResponse reports campaign membership for the caller.
// Joined is true whenever the caller is a participant; AlreadyMember is true
// when the call found an existing participation.
type JoinResponse struct {
	PostID            string `json:"postId"`
	ParticipantsCount int64  `json:"participantsCount"`
	Joined            bool   `json:"joined"`
	AlreadyMember     bool   `json:"alreadyMember"`
}

// ParticipantResponse is one entry of a campaign's participant list.
type ParticipantResponse struct {
	UserID   string    `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}

// CurrentUserResponse is the caller's own profile.
type CurrentUserResponse struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	Bio         *string     `json:"bio"`
	JobRole     *string     `json:"jobRole"`
	Interests   []string    `json:"interests"`
	AvatarURL   *string     `json:"avatarUrl"`
	Role        models.Role `json:"role"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func newCurrentUserResponse(u *models.User) CurrentUserResponse {
	interests := u.Interests
	if interests == nil {
		interests = []string{}
	}
	return CurrentUserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		JobRole:     u.JobRole,
		Interests:   interests,
		AvatarURL:   u.AvatarURL,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// PublicUserResponse is the profile visible to anyone. It carries no email or role.
type PublicUserResponse struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatarUrl"`
}
