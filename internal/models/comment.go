package models

import (
	"strings"
	"time"
)

// Comment is a reply attached to a post.
type Comment struct {
	ID        string     `bson:"_id"`
	PostID    string     `bson:"postId"`
	AuthorID  string     `bson:"authorId"`
	Body      string     `bson:"body"`
	CreatedAt time.Time  `bson:"createdAt"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty"`
	IsDeleted bool       `bson:"isDeleted"`
}

func NewComment(postID, authorID, body string) (*Comment, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, NewValidationError("comment.post_id_required", "Post id is required.")
	}
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return nil, NewValidationError("comment.author_id_required", "Author id is required.")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, NewValidationError("comment.body_required", "Body is required.")
	}

	return &Comment{
		ID:        NewID(),
		PostID:    postID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: now(),
	}, nil
}

// UpdateBody edits a live comment.
func (c *Comment) UpdateBody(body string) error {
	if c.IsDeleted {
		return NewValidationError("comment.deleted", "Cannot edit a deleted comment.")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return NewValidationError("comment.body_required", "Body is required.")
	}
	c.Body = body
	ts := now()
	c.UpdatedAt = &ts
	return nil
}

// MarkDeleted soft-deletes the comment. Calling it twice is a no-op.
func (c *Comment) MarkDeleted() {
	if c.IsDeleted {
		return
	}
	c.IsDeleted = true
	ts := now()
	c.UpdatedAt = &ts
}
