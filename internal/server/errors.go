package server

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"sonic/internal/middleware"
	"sonic/internal/models"
	"sonic/internal/repository"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

var errTooManyRequests = models.NewTooManyRequestsError("rate_limit.exceeded", "Too many requests. Please try again later.")

// errorHandler is the single place errors become problem-details responses.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	appErr := s.toAppError(err)

	detail := appErr.Message
	if appErr.Status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", appErr.Status),
			slog.String("error", err.Error()),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		if s.config.IsDevelopment() && appErr.Err != nil {
			detail = fmt.Sprintf("%s (%T)", detail, appErr.Err)
		}
	}

	return models.RespondWithError(c, appErr.Status, detail, appErr.Code)
}

func (s *Server) toAppError(err error) *models.AppError {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &models.AppError{Status: fiberErr.Code, Message: fiberErr.Message, Err: err}
	}

	if errors.Is(err, repository.ErrDuplicate) {
		return models.NewConflictError("store.duplicate_key", "The resource already exists.")
	}
	if isStoreUnavailable(err) {
		return models.NewUnavailableError(err)
	}
	return models.NewInternalError(err)
}

// isStoreUnavailable reports whether err means the backing store could not be reached.
func isStoreUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
