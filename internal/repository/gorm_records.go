package repository

import (
	"strings"
	"time"

	"sonic/internal/models"

	"gorm.io/datatypes"
)

type userRecord struct {
	ID           string                      `gorm:"primaryKey;size:32"`
	Email        string                      `gorm:"size:320;not null;uniqueIndex:ux_users_email"`
	PasswordHash string                      `gorm:"not null"`
	DisplayName  string                      `gorm:"size:100;not null"`
	Bio          *string                     `gorm:"size:1000"`
	JobRole      *string                     `gorm:"size:200"`
	Interests    datatypes.JSONSlice[string] `gorm:"type:json"`
	AvatarURL    *string
	Role         string    `gorm:"size:16;not null"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (userRecord) TableName() string { return "users" }

type postRecord struct {
	ID           string `gorm:"primaryKey;size:32"`
	Type         string `gorm:"size:32;not null;index"`
	Title        string `gorm:"not null"`
	Body         string `gorm:"type:text;not null"`
	ExternalLink *string
	AuthorID     string          `gorm:"size:32;not null;index"`
	CampaignGoal *string         `gorm:"type:text"`
	SearchText   string          `gorm:"type:text;not null;default:''"`
	Tags         []postTagRecord `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `gorm:"not null;autoCreateTime:false;index:ix_posts_isDeleted_createdAt,priority:2;index:ix_posts_featured_createdAt,priority:2"`
	UpdatedAt    time.Time       `gorm:"not null;autoUpdateTime:false"`
	IsDeleted    bool            `gorm:"not null;index:ix_posts_isDeleted_createdAt,priority:1"`
	IsFeatured   bool            `gorm:"not null;index:ix_posts_featured_createdAt,priority:1"`
}

func (postRecord) TableName() string { return "posts" }

type postTagRecord struct {
	PostID   string `gorm:"primaryKey;size:32"`
	Tag      string `gorm:"primaryKey;index"`
	Position int    `gorm:"not null"`
}

func (postTagRecord) TableName() string { return "post_tags" }

type commentRecord struct {
	ID        string     `gorm:"primaryKey;size:32"`
	PostID    string     `gorm:"size:32;not null;index:ix_comments_post_isDeleted_createdAt,priority:1"`
	AuthorID  string     `gorm:"size:32;not null"`
	Body      string     `gorm:"type:text;not null"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime:false;index:ix_comments_post_isDeleted_createdAt,priority:3"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false"`
	IsDeleted bool       `gorm:"not null;index:ix_comments_post_isDeleted_createdAt,priority:2"`
}

func (commentRecord) TableName() string { return "comments" }

type likeRecord struct {
	ID        string    `gorm:"primaryKey;size:32"`
	PostID    string    `gorm:"size:32;not null;uniqueIndex:ux_likes_post_user,priority:1"`
	UserID    string    `gorm:"size:32;not null;uniqueIndex:ux_likes_post_user,priority:2"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
}

func (likeRecord) TableName() string { return "likes" }

type participationRecord struct {
	ID       string    `gorm:"primaryKey;size:32"`
	PostID   string    `gorm:"size:32;not null;uniqueIndex:ux_campaign_join_post_user,priority:1"`
	UserID   string    `gorm:"size:32;not null;uniqueIndex:ux_campaign_join_post_user,priority:2"`
	JoinedAt time.Time `gorm:"not null;index"`
}

func (participationRecord) TableName() string { return "campaign_participations" }

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&userRecord{},
		&postRecord{},
		&postTagRecord{},
		&commentRecord{},
		&likeRecord{},
		&participationRecord{},
	}
}

func toUserRecord(u *models.User) *userRecord {
	return &userRecord{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		DisplayName:  u.DisplayName,
		Bio:          u.Bio,
		JobRole:      u.JobRole,
		Interests:    datatypes.JSONSlice[string](nonNil(u.Interests)),
		AvatarURL:    u.AvatarURL,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *userRecord) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		DisplayName:  r.DisplayName,
		Bio:          r.Bio,
		JobRole:      r.JobRole,
		Interests:    nonNil([]string(r.Interests)),
		AvatarURL:    r.AvatarURL,
		Role:         models.Role(r.Role),
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

func toPostRecord(p *models.Post) *postRecord {
	tags := make([]postTagRecord, 0, len(p.Tags))
	for i, tag := range p.Tags {
		tags = append(tags, postTagRecord{PostID: p.ID, Tag: tag, Position: i})
	}
	return &postRecord{
		ID:           p.ID,
		Type:         string(p.Type),
		Title:        p.Title,
		Body:         p.Body,
		ExternalLink: p.ExternalLink,
		AuthorID:     p.AuthorID,
		CampaignGoal: p.CampaignGoal,
		SearchText:   searchText(p.Title, p.Body),
		Tags:         tags,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		IsDeleted:    p.IsDeleted,
		IsFeatured:   p.IsFeatured,
	}
}

// searchText is the Go-lowercased title and body; SQL LOWER() folds ASCII only on sqlite.
func searchText(title, body string) string {
	return strings.ToLower(title) + "\n" + strings.ToLower(body)
}

func (r *postRecord) toModel() *models.Post {
	tags := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, t.Tag)
	}
	return &models.Post{
		ID:           r.ID,
		Type:         models.PostType(r.Type),
		Title:        r.Title,
		Body:         r.Body,
		Tags:         tags,
		ExternalLink: r.ExternalLink,
		AuthorID:     r.AuthorID,
		CampaignGoal: r.CampaignGoal,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
		IsDeleted:    r.IsDeleted,
		IsFeatured:   r.IsFeatured,
	}
}

func toCommentRecord(c *models.Comment) *commentRecord {
	return &commentRecord{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		IsDeleted: c.IsDeleted,
	}
}

func (r *commentRecord) toModel() *models.Comment {
	c := &models.Comment{
		ID:        r.ID,
		PostID:    r.PostID,
		AuthorID:  r.AuthorID,
		Body:      r.Body,
		CreatedAt: r.CreatedAt.UTC(),
		IsDeleted: r.IsDeleted,
	}
	if r.UpdatedAt != nil {
		ts := r.UpdatedAt.UTC()
		c.UpdatedAt = &ts
	}
	return c
}

func (r *participationRecord) toModel() *models.CampaignParticipation {
	return &models.CampaignParticipation{
		ID:       r.ID,
		PostID:   r.PostID,
		UserID:   r.UserID,
		JoinedAt: r.JoinedAt.UTC(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
