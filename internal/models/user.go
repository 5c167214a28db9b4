package models

import (
	"strings"
	"time"

	"sonic/internal/validation"
)

// Role is the authorization level of a user.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// Field limits enforced by the User entity.
const (
	MaxDisplayNameLength = 100
	MaxBioLength         = 1000
	MaxJobRoleLength     = 200
	MaxInterestLength    = 100
)

// User is an identity with its public profile.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	DisplayName  string    `bson:"displayName" json:"displayName"`
	Bio          *string   `bson:"bio,omitempty" json:"bio"`
	JobRole      *string   `bson:"jobRole,omitempty" json:"jobRole"`
	Interests    []string  `bson:"interests" json:"interests"`
	AvatarURL    *string   `bson:"avatarUrl,omitempty" json:"avatarUrl"`
	Role         Role      `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewUser creates a user for the registration or bootstrap flows.
func NewUser(email, passwordHash, displayName string, role Role) (*User, error) {
	if role != RoleUser && role != RoleAdmin {
		return nil, NewValidationError("user.invalid_role", "Invalid user role.")
	}
	normalizedEmail, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	hash, err := normalizePasswordHash(passwordHash)
	if err != nil {
		return nil, err
	}
	name, err := normalizeDisplayName(displayName)
	if err != nil {
		return nil, err
	}

	ts := now()
	return &User{
		ID:           NewID(),
		Email:        normalizedEmail,
		PasswordHash: hash,
		DisplayName:  name,
		Interests:    []string{},
		Role:         role,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}, nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UpdateProfile replaces the user-editable fields. Email and password are not touched.
func (u *User) UpdateProfile(displayName string, bio, jobRole *string, interests []string, avatarURL *string) error {
	name, err := normalizeDisplayName(displayName)
	if err != nil {
		return err
	}
	normalizedBio, err := normalizeOptionalText(bio, MaxBioLength, "user.bio_too_long", "Bio is too long (max 1000 characters).")
	if err != nil {
		return err
	}
	normalizedRole, err := normalizeOptionalText(jobRole, MaxJobRoleLength, "user.job_role_too_long", "Job role is too long (max 200 characters).")
	if err != nil {
		return err
	}
	avatar, err := normalizeOptionalURL(avatarURL)
	if err != nil {
		return err
	}

	u.DisplayName = name
	u.Bio = normalizedBio
	u.JobRole = normalizedRole
	u.AvatarURL = avatar
	u.Interests = NormalizeInterests(interests)
	u.UpdatedAt = now()
	return nil
}

// SetPasswordHash stores a new password hash produced by the hasher.
func (u *User) SetPasswordHash(passwordHash string) error {
	hash, err := normalizePasswordHash(passwordHash)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.UpdatedAt = now()
	return nil
}

// PromoteToAdmin is idempotent.
func (u *User) PromoteToAdmin() {
	if u.Role == RoleAdmin {
		return
	}
	u.Role = RoleAdmin
	u.UpdatedAt = now()
}

// NormalizeEmail trims and lowercases an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeInterests trims entries, drops blank or oversized ones and removes
// case-insensitive duplicates, keeping the first spelling.
func NormalizeInterests(interests []string) []string {
	out := make([]string, 0, len(interests))
	seen := make(map[string]struct{}, len(interests))
	for _, interest := range interests {
		interest = strings.TrimSpace(interest)
		if interest == "" || validation.TooLong(interest, MaxInterestLength) {
			continue
		}
		key := strings.ToLower(interest)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, interest)
	}
	return out
}

func normalizeEmail(email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", NewValidationError("user.email_required", "Email is required.")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return "", NewValidationError("user.email_invalid", "Email format looks invalid.")
	}
	return NormalizeEmail(email), nil
}

func normalizePasswordHash(hash string) (string, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return "", NewValidationError("user.password_hash_required", "Password hash is required.")
	}
	return hash, nil
}

func normalizeDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewValidationError("user.display_name_required", "Display name is required.")
	}
	if validation.TooLong(name, MaxDisplayNameLength) {
		return "", NewValidationError("user.display_name_too_long", "Display name is too long (max 100 characters).")
	}
	return name, nil
}

func normalizeOptionalText(value *string, max int, code, message string) (*string, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if validation.TooLong(trimmed, max) {
		return nil, NewValidationError(code, message)
	}
	return &trimmed, nil
}

func normalizeOptionalURL(value *string) (*string, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if !validation.IsAbsoluteURL(trimmed) {
		return nil, NewValidationError("user.avatar_url_invalid", "Avatar URL is not a valid absolute URL.")
	}
	return &trimmed, nil
}
