package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "P@ssw0rd!", false},
		{"Exactly Min Length", "abcdefgh", false},
		{"Exactly Max Length", strings.Repeat("b", 128), false},
		{"Too Short", "Small1!", true},
		{"Too Long", strings.Repeat("b", 129), true},
		{"Unicode Counts Runes", "Ångströmå", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "ada@example.com", false},
		{"Padded", "  ada@example.com ", false},
		{"Blank", "   ", true},
		{"Missing At", "ada.example.com", true},
		{"Too Long", strings.Repeat("a", 315) + "@x.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsAbsoluteURL(t *testing.T) {
	t.Parallel()
	assert.True(t, IsAbsoluteURL("https://cdn.example.com/a.png"))
	assert.True(t, IsAbsoluteURL("mailto:ada@example.com"))
	assert.False(t, IsAbsoluteURL("/relative/path.png"))
	assert.False(t, IsAbsoluteURL("not a url"))
	assert.False(t, IsAbsoluteURL(""))
}

func TestTooLong(t *testing.T) {
	t.Parallel()
	assert.False(t, TooLong("héllo", 5))
	assert.True(t, TooLong("héllo!", 5))
}
