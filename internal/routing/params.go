package routing

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// BuildInput collects everything that feeds the session parameter set.
type BuildInput struct {
	TenantID  string
	ChannelID string
	UserID    string
	FunnelID  string
	// PlaybookFields are already namespaced with the playbook_ prefix.
	PlaybookFields map[string]any
	ContactFields  map[string]any
}

// BuildSessionParams flattens the input into the string-only parameter format
// the agent accepts. Merge order on key collision, later wins: identifiers,
// playbook fields, contact fields. Nil values are dropped entirely rather
// than sent as empty strings.
func BuildSessionParams(in BuildInput) map[string]string {
	params := map[string]string{
		"tenant_id":     in.TenantID,
		"channel_id":    in.ChannelID,
		"user_id":       in.UserID,
		"playbook_name": in.FunnelID,
	}
	for key, value := range in.PlaybookFields {
		setParam(params, key, value)
	}
	for key, value := range in.ContactFields {
		setParam(params, key, value)
	}
	return params
}

func setParam(params map[string]string, key string, value any) {
	text, ok := coerceString(value)
	if !ok {
		return
	}
	params[key] = text
}

// coerceString renders a loosely-typed config value as the agent's string
// format: JSON text for mappings and sequences, lowercase booleans, decimal
// numbers. Returns false for nil values, which must be omitted.
func coerceString(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case map[string]any, []any, []string:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(encoded), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}
