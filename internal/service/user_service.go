package service

import (
	"context"

	"sonic/internal/models"
	"sonic/internal/repository"
	"sonic/internal/validation"
)

// Profile limits applied to self-service edits. They are tighter than the entity limits.
const (
	maxProfileDisplayName = 50
	maxProfileBio         = 500
	maxProfileJobRole     = 80
	maxProfileAvatarURL   = 300
)

type UserService struct {
	users repository.UserRepository
}

type UpdateProfileInput struct {
	DisplayName string   `json:"displayName"`
	Bio         *string  `json:"bio"`
	JobRole     *string  `json:"jobRole"`
	Interests   []string `json:"interests"`
	AvatarURL   *string  `json:"avatarUrl"`
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetCurrentUser(ctx context.Context, userID string) (*CurrentUserResponse, error) {
	ctx, span := startSpan(ctx, "UserService", "GetCurrentUser")
	defer span.End()

	if blank(userID) {
		return nil, missingSub()
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, "user.not_found", "User not found.")
	}
	resp := newCurrentUserResponse(user)
	return &resp, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*CurrentUserResponse, error) {
	ctx, span := startSpan(ctx, "UserService", "UpdateProfile")
	defer span.End()

	if blank(userID) {
		return nil, missingSub()
	}
	if err := validateProfile(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, "user.not_found", "User not found.")
	}
	if err := user.UpdateProfile(in.DisplayName, in.Bio, in.JobRole, in.Interests, in.AvatarURL); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, notFoundAs(err, "user.not_found", "User not found.")
	}

	resp := newCurrentUserResponse(user)
	return &resp, nil
}

func (s *UserService) GetPublicProfile(ctx context.Context, userID string) (*PublicUserResponse, error) {
	ctx, span := startSpan(ctx, "UserService", "GetPublicProfile")
	defer span.End()

	if blank(userID) {
		return nil, models.NewValidationError("user.id_required", "User id is required.")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, "user.not_found", "User not found.")
	}
	return &PublicUserResponse{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
	}, nil
}

func validateProfile(in UpdateProfileInput) error {
	if blank(in.DisplayName) {
		return models.NewValidationError("user.display_name_required", "DisplayName is required.")
	}
	if validation.TooLong(in.DisplayName, maxProfileDisplayName) {
		return models.NewValidationError("user.display_name_too_long", "DisplayName is too long (max 50).")
	}
	if in.Bio != nil && validation.TooLong(*in.Bio, maxProfileBio) {
		return models.NewValidationError("user.bio_too_long", "Bio is too long (max 500).")
	}
	if in.JobRole != nil && validation.TooLong(*in.JobRole, maxProfileJobRole) {
		return models.NewValidationError("user.job_role_too_long", "JobRole is too long (max 80).")
	}
	if in.AvatarURL != nil {
		if validation.TooLong(*in.AvatarURL, maxProfileAvatarURL) {
			return models.NewValidationError("user.avatar_url_too_long", "AvatarUrl is too long (max 300).")
		}
		if !validation.IsAbsoluteURL(*in.AvatarURL) {
			return models.NewValidationError("user.avatar_url_invalid", "AvatarUrl must be a valid absolute URL.")
		}
	}
	return nil
}

func missingSub() error {
	return models.NewUnauthorizedError("auth.missing_sub", "User id claim is missing.")
}
