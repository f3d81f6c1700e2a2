// Package featureflags evaluates runtime feature toggles configured
// as a comma-separated list, e.g. "beta_feed=on,new_badges=25%,legacy_profile=off".
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Manager holds the parsed flag list and answers per-actor evaluations.
// Percentage flags bucket actors deterministically, so one actor keeps
// seeing the same side of a rollout across requests.
type Manager struct {
	flags map[string]string
}

// NewManager parses a FEATURE_FLAGS-style string into a Manager.
// Malformed pairs are dropped rather than rejected so a typo in one
// flag never takes the rest down.
func NewManager(raw string) *Manager {
	flags := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, value = normalize(name), normalize(value)
		if name == "" || value == "" {
			continue
		}
		flags[name] = value
	}
	return &Manager{flags: flags}
}

// Enabled evaluates a flag for the given actor id. Recognized values are
// on/true/1, off/false/0, and N% for a deterministic percentage rollout.
// Unknown flags and unrecognized values evaluate to false, as do
// percentage rollouts for anonymous callers (actorID zero).
func (m *Manager) Enabled(name string, actorID uint) bool {
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
	if pct, ok := strings.CutSuffix(value, "%"); ok {
		return m.inRollout(name, pct, actorID)
	}
	return false
}

func (m *Manager) inRollout(name, pctRaw string, actorID uint) bool {
	pct, err := strconv.Atoi(pctRaw)
	if err != nil || pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	if actorID == 0 {
		return false
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), actorID)))
	return int(h.Sum32()%100) < pct
}

// Raw returns a copy of the configured flag values as parsed.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for name, value := range m.flags {
		out[name] = value
	}
	return out
}

// Snapshot evaluates every configured flag for one actor.
func (m *Manager) Snapshot(actorID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, actorID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
