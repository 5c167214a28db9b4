// Package models contains the domain entities of the Sonic platform
// together with the rules that keep them consistent.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a 32 character lowercase hex identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// now is swapped in tests that need deterministic timestamps.
var now = func() time.Time {
	return time.Now().UTC()
}
