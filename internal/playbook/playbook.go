// Package playbook resolves a tenant's per-funnel playbook configuration:
// activation state plus the payload fields forwarded to the agent.
package playbook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leadwireai/leadwire/internal/tenant"
)

// ErrConfiguration reports a missing or malformed playbook configuration.
var ErrConfiguration = errors.New("playbook: configuration error")

// PayloadPrefix namespaces playbook fields in the session parameter set so
// they cannot collide with contact-derived parameters.
const PayloadPrefix = "playbook_"

// controlFields are activation/status flags the agent must never see.
// Matching is case-insensitive.
var controlFields = map[string]struct{}{
	"core_active":     {},
	"active":          {},
	"enabled":         {},
	"status":          {},
	"is_active":       {},
	"core_enabled":    {},
	"playbook_active": {},
}

// Config is a resolved playbook: its activation state and the payload fields,
// already renamed with PayloadPrefix (original key case preserved).
type Config struct {
	Active  bool
	Payload map[string]any
}

// Resolve fetches and parses the playbook entry for funnelID from the tenant.
func Resolve(tn tenant.Tenant, funnelID string) (Config, error) {
	if len(tn.PlaybookConfigs) == 0 {
		return Config{}, fmt.Errorf("%w: tenant %s has no playbook_configs", ErrConfiguration, tn.ID)
	}
	entry, ok := tn.PlaybookConfigs[funnelID]
	if !ok {
		return Config{}, fmt.Errorf("%w: tenant %s has no playbook for funnel %s", ErrConfiguration, tn.ID, funnelID)
	}
	cfg, err := Parse(entry)
	if err != nil {
		return Config{}, fmt.Errorf("%w: tenant %s funnel %s: %v", ErrConfiguration, tn.ID, funnelID, err)
	}
	return cfg, nil
}

// Parse splits a raw playbook entry into activation state and payload fields.
// Absent status defaults to active.
func Parse(entry any) (Config, error) {
	fields, ok := entry.(map[string]any)
	if !ok {
		return Config{}, fmt.Errorf("entry is %T, want a key-value mapping", entry)
	}

	cfg := Config{
		Active:  Truthy(statusField(fields), true),
		Payload: make(map[string]any),
	}
	for key, value := range fields {
		if _, ignored := controlFields[strings.ToLower(key)]; ignored {
			continue
		}
		cfg.Payload[PayloadPrefix+key] = value
	}
	return cfg, nil
}

func statusField(fields map[string]any) any {
	value, ok := fields["status"]
	if !ok {
		return nil
	}
	return value
}

// Truthy coerces loosely-typed activation flags: bool passthrough, non-zero
// numbers, and the usual affirmative strings (including pt-BR "sim"),
// case-insensitively. Anything else is false; nil takes the fallback.
func Truthy(value any, fallback bool) bool {
	switch v := value.(type) {
	case nil:
		return fallback
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "sim", "y", "on":
			return true
		}
		return false
	default:
		return false
	}
}
