// Package validation holds input checks shared by the domain and service layers.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// MaxEmailLength is the longest address accepted (RFC 3696 upper bound).
const MaxEmailLength = 320

// Password length bounds for operator-supplied passwords such as the admin seed.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// ValidateEmail performs a basic sanity check; it is not a full RFC parser.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(email, "@") || len(email) > MaxEmailLength {
		return errors.New("email format looks invalid")
	}
	return nil
}

// IsAbsoluteURL reports whether raw parses as an absolute URL (scheme plus host or opaque part).
func IsAbsoluteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

// ValidatePassword checks length bounds in characters.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if n > MaxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLength)
	}
	return nil
}

// TooLong reports whether s has more than max characters.
func TooLong(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}
