package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"sonic/internal/config"
	"sonic/internal/models"
)

// ClockSkew is the leeway applied to exp and nbf when validating tokens.
const ClockSkew = time.Minute

// Claims is the access token payload.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token carries the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == string(models.RoleAdmin)
}

// AccessToken is a signed token and its expiry.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenIssuer signs and validates HS256 access tokens.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenIssuer builds an issuer from the JWT settings in cfg.
func NewTokenIssuer(cfg *config.Config) (*TokenIssuer, error) {
	if len(cfg.JWTSecret) < config.MinJWTSecretLength {
		return nil, fmt.Errorf("JWT secret must be at least %d characters", config.MinJWTSecretLength)
	}
	minutes := cfg.JWTAccessTokenMinutes
	if minutes <= 0 {
		minutes = 60
	}
	return &TokenIssuer{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		lifetime: time.Duration(minutes) * time.Minute,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Issue creates a token for user.
func (i *TokenIssuer) Issue(user *models.User) (AccessToken, error) {
	now := i.now()
	expires := now.Add(i.lifetime)
	claims := Claims{
		Email: user.Email,
		Name:  user.DisplayName,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return AccessToken{}, fmt.Errorf("signing token: %w", err)
	}
	return AccessToken{Token: signed, ExpiresAt: expires}, nil
}

// Parse validates signature, issuer, audience and time claims.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithLeeway(ClockSkew),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errors.New("token subject is missing")
	}
	return claims, nil
}
