package models

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ProblemDetails is the JSON error body returned by every endpoint.
type ProblemDetails struct {
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
	Code     string `json:"code,omitempty"`
}

// AppError represents a custom application error carrying its HTTP status and a stable code.
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// NewValidationError is a 400 for missing or invalid input and refused state transitions.
func NewValidationError(code, message string) *AppError {
	return newAppError(http.StatusBadRequest, code, message)
}

func NewUnauthorizedError(code, message string) *AppError {
	return newAppError(http.StatusUnauthorized, code, message)
}

func NewForbiddenError(code, message string) *AppError {
	return newAppError(http.StatusForbidden, code, message)
}

func NewNotFoundError(code, message string) *AppError {
	return newAppError(http.StatusNotFound, code, message)
}

func NewConflictError(code, message string) *AppError {
	return newAppError(http.StatusConflict, code, message)
}

func NewTooManyRequestsError(code, message string) *AppError {
	return newAppError(http.StatusTooManyRequests, code, message)
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "An unexpected error occurred while processing your request.",
		Err:     err,
	}
}

// NewUnavailableError wraps a store connectivity failure.
func NewUnavailableError(err error) *AppError {
	return &AppError{
		Status:  http.StatusServiceUnavailable,
		Code:    "store.unavailable",
		Message: "The data store is currently unavailable.",
		Err:     err,
	}
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an AppError.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

// CodeOf returns the stable code carried by err, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// NewProblemDetails builds the response body for a status and detail.
func NewProblemDetails(status int, detail, instance, code string) ProblemDetails {
	title := "Error"
	if status >= http.StatusInternalServerError {
		title = "Internal server error"
	}
	return ProblemDetails{
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
		Code:     code,
	}
}

// RespondWithError writes a problem-details response.
func RespondWithError(c *fiber.Ctx, status int, detail, code string) error {
	instance, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(NewProblemDetails(status, detail, instance, code), "application/problem+json")
}
