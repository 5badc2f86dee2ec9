package routing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSessionParamsMergeOrder(t *testing.T) {
	t.Parallel()
	params := BuildSessionParams(BuildInput{
		TenantID:  "t1",
		ChannelID: "ch1",
		UserID:    "u1",
		FunnelID:  "core_bdr",
		PlaybookFields: map[string]any{
			"playbook_rag_id": "ds1",
			"user_id":         "playbook-shadow",
		},
		ContactFields: map[string]any{
			"status": "bdr_inbound",
			"score":  float64(0),
		},
	})

	assert.Equal(t, "t1", params["tenant_id"])
	assert.Equal(t, "ch1", params["channel_id"])
	assert.Equal(t, "core_bdr", params["playbook_name"])
	assert.Equal(t, "ds1", params["playbook_rag_id"])
	assert.Equal(t, "bdr_inbound", params["status"])
	assert.Equal(t, "0", params["score"])
	// Playbook fields override identifiers on collision.
	assert.Equal(t, "playbook-shadow", params["user_id"])
}

func TestBuildSessionParamsDropsNil(t *testing.T) {
	t.Parallel()
	params := BuildSessionParams(BuildInput{
		TenantID: "t1",
		PlaybookFields: map[string]any{
			"playbook_optional": nil,
			"playbook_kept":     "v",
		},
	})
	_, present := params["playbook_optional"]
	assert.False(t, present, "nil values must be omitted, not sent as empty strings")
	assert.Equal(t, "v", params["playbook_kept"])
}

func TestCoerceString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{nil, "", false},
		{"texto", "texto", true},
		{true, "true", true},
		{false, "false", true},
		{float64(3), "3", true},
		{float64(2.5), "2.5", true},
		{int(7), "7", true},
		{int64(-1), "-1", true},
	}
	for _, tt := range tests {
		got, ok := coerceString(tt.in)
		assert.Equal(t, tt.ok, ok, "value %v", tt.in)
		assert.Equal(t, tt.want, got, "value %v", tt.in)
	}
}

func TestCoerceStringListRoundTrips(t *testing.T) {
	t.Parallel()
	original := []any{"a", float64(1), true}
	encoded, ok := coerceString(original)
	require.True(t, ok)

	var decoded []any
	require.NoError(t, json.Unmarshal([]byte(encoded), &decoded))
	assert.Equal(t, original, decoded)
}

func TestCoerceStringMapIsJSON(t *testing.T) {
	t.Parallel()
	encoded, ok := coerceString(map[string]any{"chave": "valor"})
	require.True(t, ok)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(encoded), &decoded))
	assert.Equal(t, "valor", decoded["chave"])
}
