package models

import (
	"strings"
	"time"
)

// PostType classifies a post. Values serialize as their names.
type PostType string

const (
	PostTypeExperience PostType = "Experience"
	PostTypeIdea       PostType = "Idea"
	PostTypeModelGuide PostType = "ModelGuide"
	PostTypeCourse     PostType = "Course"
	PostTypeNews       PostType = "News"
	PostTypeCampaign   PostType = "Campaign"
)

// PostTypes lists every known type in declaration order.
var PostTypes = []PostType{
	PostTypeExperience,
	PostTypeIdea,
	PostTypeModelGuide,
	PostTypeCourse,
	PostTypeNews,
	PostTypeCampaign,
}

// ParsePostType matches a type name case-insensitively.
func ParsePostType(s string) (PostType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range PostTypes {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

// Valid reports whether t is a known post type.
func (t PostType) Valid() bool {
	for _, known := range PostTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Post is a published content unit.
type Post struct {
	ID           string    `bson:"_id"`
	Type         PostType  `bson:"type"`
	Title        string    `bson:"title"`
	Body         string    `bson:"body"`
	Tags         []string  `bson:"tags"`
	ExternalLink *string   `bson:"externalLink,omitempty"`
	AuthorID     string    `bson:"authorId"`
	CampaignGoal *string   `bson:"campaignGoal,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
	IsDeleted    bool      `bson:"isDeleted"`
	IsFeatured   bool      `bson:"isFeatured"`
}

// NewPost builds a post. campaignGoal is kept only for Campaign posts.
func NewPost(postType PostType, title, body, authorID string, tags []string, externalLink, campaignGoal *string) (*Post, error) {
	if !postType.Valid() {
		return nil, NewValidationError("post.invalid_type", "Post type is invalid.")
	}
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return nil, NewValidationError("post.author_id_required", "Author id is required.")
	}

	ts := now()
	p := &Post{
		ID:        NewID(),
		Type:      postType,
		AuthorID:  authorID,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := p.setContent(title, body, tags, externalLink, campaignGoal); err != nil {
		return nil, err
	}
	return p, nil
}

// IsCampaign reports whether the post accepts participants.
func (p *Post) IsCampaign() bool {
	return p.Type == PostTypeCampaign
}

// UpdateContent replaces the editable fields of a live post.
func (p *Post) UpdateContent(title, body string, tags []string, externalLink, campaignGoal *string) error {
	if p.IsDeleted {
		return NewValidationError("post.deleted", "Cannot update a deleted post.")
	}
	if err := p.setContent(title, body, tags, externalLink, campaignGoal); err != nil {
		return err
	}
	p.UpdatedAt = now()
	return nil
}

// MarkDeleted soft-deletes the post. Calling it twice is a no-op.
func (p *Post) MarkDeleted() {
	if p.IsDeleted {
		return
	}
	p.IsDeleted = true
	p.UpdatedAt = now()
}

// SetFeatured toggles the admin-controlled featured flag.
func (p *Post) SetFeatured(featured bool) error {
	if p.IsDeleted {
		return NewValidationError("post.deleted", "Cannot feature a deleted post.")
	}
	p.IsFeatured = featured
	p.UpdatedAt = now()
	return nil
}

func (p *Post) setContent(title, body string, tags []string, externalLink, campaignGoal *string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return NewValidationError("post.title_required", "Title is required.")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return NewValidationError("post.body_required", "Body is required.")
	}

	p.Title = title
	p.Body = body
	p.Tags = NormalizeTags(tags)
	p.ExternalLink = trimmedOrNil(externalLink)
	p.CampaignGoal = nil
	if p.IsCampaign() {
		p.CampaignGoal = trimmedOrNil(campaignGoal)
	}
	return nil
}

// NormalizeTags trims, lowercases and dedupes tags, dropping blanks.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
