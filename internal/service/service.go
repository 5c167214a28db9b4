// Package service holds the business rules of the platform. Services accept
// plain inputs, return response DTOs, and report failures as *models.AppError.
package service

import (
	"context"
	"errors"
	"strings"

	"sonic/internal/models"
	"sonic/internal/observability"
	"sonic/internal/repository"

	"go.opentelemetry.io/otel/trace"
)

func startSpan(ctx context.Context, svc, method string) (context.Context, trace.Span) {
	return observability.GetTraceLayer().TraceServiceCall(ctx, svc, method)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// notFoundAs maps repository.ErrNotFound to the given 404 and passes other errors through.
func notFoundAs(err error, code, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return models.NewNotFoundError(code, message)
	}
	return err
}

const (
	postNotFoundCode = "post.not_found"
	postNotFoundMsg  = "Post not found."
)

// loadLivePost fetches a post and treats soft-deleted posts as missing.
func loadLivePost(ctx context.Context, posts repository.PostRepository, id, code, message string) (*models.Post, error) {
	post, err := posts.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, code, message)
	}
	if post.IsDeleted {
		return nil, models.NewNotFoundError(code, message)
	}
	return post, nil
}
