package service

import (
	"context"

	"sonic/internal/models"
	"sonic/internal/repository"
)

type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	users    repository.UserRepository
}

func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	users repository.UserRepository,
) *CommentService {
	return &CommentService{comments: comments, posts: posts, users: users}
}

func (s *CommentService) AddComment(ctx context.Context, postID, authorID, body string) (*CommentResponse, error) {
	ctx, span := startSpan(ctx, "CommentService", "AddComment")
	defer span.End()

	switch {
	case blank(postID):
		return nil, commentPostIDRequired()
	case blank(authorID):
		return nil, models.NewValidationError("comment.author_id_required", "Author id is required.")
	case blank(body):
		return nil, models.NewValidationError("comment.body_required", "Comment body is required.")
	}
	if _, err := loadLivePost(ctx, s.posts, postID, postNotFoundCode, postNotFoundMsg); err != nil {
		return nil, err
	}

	comment, err := models.NewComment(postID, authorID, body)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	names := s.authorNames(ctx, []string{comment.AuthorID})
	resp := newCommentResponse(comment, names[comment.AuthorID])
	return &resp, nil
}

// GetCommentsForPost lists live comments oldest first.
func (s *CommentService) GetCommentsForPost(ctx context.Context, postID string, page, pageSize int) (*models.Page[CommentResponse], error) {
	ctx, span := startSpan(ctx, "CommentService", "GetCommentsForPost")
	defer span.End()

	if blank(postID) {
		return nil, commentPostIDRequired()
	}
	if _, err := loadLivePost(ctx, s.posts, postID, postNotFoundCode, postNotFoundMsg); err != nil {
		return nil, err
	}

	page, pageSize = models.NormalizePaging(page, pageSize)
	result, err := s.comments.ListForPost(ctx, postID, page, pageSize)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]string, 0, len(result.Items))
	seen := make(map[string]struct{}, len(result.Items))
	for _, c := range result.Items {
		if _, ok := seen[c.AuthorID]; ok {
			continue
		}
		seen[c.AuthorID] = struct{}{}
		authorIDs = append(authorIDs, c.AuthorID)
	}
	names := s.authorNames(ctx, authorIDs)

	items := make([]CommentResponse, 0, len(result.Items))
	for _, c := range result.Items {
		items = append(items, newCommentResponse(c, names[c.AuthorID]))
	}
	out := models.NewPage(items, result.Page, result.PageSize, result.TotalItems)
	return &out, nil
}

// DeleteComment soft-deletes a comment owned by the caller, or any comment for admins.
func (s *CommentService) DeleteComment(ctx context.Context, id string, actor Actor) error {
	ctx, span := startSpan(ctx, "CommentService", "DeleteComment")
	defer span.End()

	if blank(id) {
		return models.NewValidationError("comment.id_required", "Comment id is required.")
	}
	if blank(actor.UserID) {
		return models.NewValidationError("comment.current_user_required", "Current user id is required.")
	}

	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return notFoundAs(err, "comment.not_found", "Comment not found.")
	}
	if comment.IsDeleted {
		return models.NewNotFoundError("comment.not_found", "Comment not found.")
	}
	if comment.AuthorID != actor.UserID && !actor.IsAdmin {
		return models.NewForbiddenError("comment.forbidden_delete", "You are not allowed to delete this comment.")
	}

	comment.MarkDeleted()
	return notFoundAs(s.comments.Update(ctx, comment), "comment.not_found", "Comment not found.")
}

// authorNames resolves display names in one lookup. Failures leave names unset.
func (s *CommentService) authorNames(ctx context.Context, ids []string) map[string]*string {
	names := make(map[string]*string, len(ids))
	if len(ids) == 0 {
		return names
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return names
	}
	for _, u := range users {
		name := u.DisplayName
		names[u.ID] = &name
	}
	return names
}

func commentPostIDRequired() error {
	return models.NewValidationError("comment.post_id_required", "Post id is required.")
}
