// Package featureflags evaluates operator toggles for optional HTTP surfaces.
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// Flags understood by the server.
const (
	Swagger          = "swagger"
	MetricsDashboard = "metrics_dashboard"
)

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "swagger=on,metrics_dashboard=off,new_feed=25%"
type Manager struct {
	flags map[string]string
}

// NewManager parses a comma-separated flag list. Malformed pairs are ignored.
func NewManager(raw string) *Manager {
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return &Manager{flags: out}
}

// Enabled reports whether a flag is switched on globally.
// Percentage rollouts count as off here; use EnabledFor.
func (m *Manager) Enabled(name string) bool {
	return m.EnabledFor(name, "")
}

// EnabledFor evaluates a flag for one user. Supported values are on/true/1,
// off/false/0 and N% (deterministic per user).
func (m *Manager) EnabledFor(name, userID string) bool {
	if m == nil {
		return false
	}
	value, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return false
	}
	pct, err := strconv.Atoi(pctRaw)
	switch {
	case err != nil || pct <= 0:
		return false
	case pct >= 100:
		return true
	case userID == "":
		return false
	}
	return rolloutBucket(name, userID) < pct
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name, userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalize(name) + ":" + userID))
	return int(h.Sum32() % 100)
}
