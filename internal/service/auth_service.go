package service

import (
	"context"
	"errors"

	"sonic/internal/auth"
	"sonic/internal/models"
	"sonic/internal/observability"
	"sonic/internal/repository"
)

const invalidCredentialsMsg = "Invalid email or password."

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *models.User) (auth.AccessToken, error)
}

type AuthService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens TokenIssuer
}

type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	ctx, span := startSpan(ctx, "AuthService", "Register")
	defer span.End()

	switch {
	case blank(in.Email):
		return nil, models.NewValidationError("auth.email_required", "Email is required.")
	case blank(in.Password):
		return nil, models.NewValidationError("auth.password_required", "Password is required.")
	case blank(in.DisplayName):
		return nil, models.NewValidationError("auth.displayname_required", "Display name is required.")
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		observability.AuthAttempts.WithLabelValues("register", "conflict").Inc()
		return nil, emailInUse()
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user, err := models.NewUser(in.Email, hash, in.DisplayName, models.RoleUser)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Another registration won the unique index.
		if errors.Is(err, repository.ErrDuplicate) {
			observability.AuthAttempts.WithLabelValues("register", "conflict").Inc()
			return nil, emailInUse()
		}
		return nil, err
	}

	observability.AuthAttempts.WithLabelValues("register", "success").Inc()
	return s.respond(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResponse, error) {
	ctx, span := startSpan(ctx, "AuthService", "Login")
	defer span.End()

	if blank(in.Email) || blank(in.Password) {
		return nil, models.NewValidationError("auth.missing_credentials", "Email and password are required.")
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		observability.AuthAttempts.WithLabelValues("login", "invalid").Inc()
		return nil, models.NewUnauthorizedError("auth.invalid_credentials", invalidCredentialsMsg)
	}
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		observability.AuthAttempts.WithLabelValues("login", "invalid").Inc()
		return nil, models.NewUnauthorizedError("auth.invalid_credentials", invalidCredentialsMsg)
	}

	observability.AuthAttempts.WithLabelValues("login", "success").Inc()
	return s.respond(user)
}

func (s *AuthService) respond(user *models.User) (*AuthResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResponse{
		UserID:       user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		Role:         user.Role,
		AccessToken:  token.Token,
		ExpiresAtUTC: token.ExpiresAt,
	}, nil
}

func emailInUse() error {
	return models.NewConflictError("auth.email_in_use", "Email is already in use.")
}
