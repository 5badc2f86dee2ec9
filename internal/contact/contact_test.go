package contact

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadwireai/leadwire/internal/docstore"
	"github.com/leadwireai/leadwire/internal/tenant"
)

// flakyStore fails Get for selected keys to exercise the probe-skip path.
type flakyStore struct {
	docstore.Store
	failKeys map[string]bool
}

func (s *flakyStore) Get(ctx context.Context, collection, key string) (docstore.Document, error) {
	if s.failKeys[key] {
		return nil, errors.New("backend unavailable")
	}
	return s.Store.Get(ctx, collection, key)
}

func seedContact(t *testing.T, store docstore.Store, tenantID, key string, doc docstore.Document) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), tenant.ContactsCollection(tenantID), key, doc))
}

func TestResolveMatchesNinthDigitVariant(t *testing.T) {
	t.Parallel()
	store := docstore.NewMemoryStore()
	// Stored with the ninth digit, probed without it.
	seedContact(t, store, "t1", "5551995357522", docstore.Document{
		"status": "sdr_active",
		"score":  float64(42),
		"name":   "Maria",
	})

	r := NewResolver(slog.Default(), store, MissReject)
	res, err := r.Resolve(context.Background(), "t1", "+555195357522")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.False(t, res.Created)
	assert.Equal(t, "5551995357522", res.MatchedKey)
	assert.Equal(t, "sdr_active", res.Contact.Status)
	assert.Equal(t, float64(42), res.Contact.Score)
	assert.Equal(t, "Maria", res.Contact.Name)
}

func TestResolveFirstVariationWins(t *testing.T) {
	t.Parallel()
	store := docstore.NewMemoryStore()
	seedContact(t, store, "t1", "555195357522", docstore.Document{"status": "first"})
	seedContact(t, store, "t1", "5551995357522", docstore.Document{"status": "second"})

	r := NewResolver(slog.Default(), store, MissReject)
	res, err := r.Resolve(context.Background(), "t1", "555195357522")
	require.NoError(t, err)
	assert.Equal(t, "555195357522", res.MatchedKey)
	assert.Equal(t, "first", res.Contact.Status)
}

func TestResolveSkipsFailedProbe(t *testing.T) {
	t.Parallel()
	backing := docstore.NewMemoryStore()
	seedContact(t, backing, "t1", "5551995357522", docstore.Document{"status": "sdr_hot"})
	store := &flakyStore{Store: backing, failKeys: map[string]bool{
		"555195357522":  true,
		"+555195357522": true,
	}}

	r := NewResolver(slog.Default(), store, MissReject)
	res, err := r.Resolve(context.Background(), "t1", "555195357522")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "5551995357522", res.MatchedKey)
}

func TestResolveMissCreatePolicy(t *testing.T) {
	t.Parallel()
	store := docstore.NewMemoryStore()
	r := NewResolver(slog.Default(), store, MissCreate)

	res, err := r.Resolve(context.Background(), "t1", "+5511987654321")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.True(t, res.Created)
	assert.Equal(t, "5511987654321", res.MatchedKey)
	assert.Equal(t, DefaultStatus, res.Contact.Status)
	assert.Equal(t, DefaultScore, res.Contact.Score)
	assert.Equal(t, DefaultContextScore, res.Contact.ContextScore)

	// The default document is persisted under the normalized key.
	doc, err := store.Get(context.Background(), tenant.ContactsCollection("t1"), "5511987654321")
	require.NoError(t, err)
	assert.Equal(t, DefaultStatus, doc.String("status", ""))
}

func TestResolveMissRejectPolicy(t *testing.T) {
	t.Parallel()
	store := docstore.NewMemoryStore()
	r := NewResolver(slog.Default(), store, MissReject)

	res, err := r.Resolve(context.Background(), "t1", "5511987654321")
	require.NoError(t, err)
	assert.False(t, res.Found)

	// Nothing was written.
	_, err = store.Get(context.Background(), tenant.ContactsCollection("t1"), "5511987654321")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestParseMissPolicy(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw     string
		want    MissPolicy
		wantErr bool
	}{
		{"create", MissCreate, false},
		{"REJECT", MissReject, false},
		{"", MissCreate, false},
		{"drop", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMissPolicy(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "raw=%q", tt.raw)
			continue
		}
		require.NoError(t, err, "raw=%q", tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestContactFieldsOmitsEmptyOptionals(t *testing.T) {
	t.Parallel()
	fields := Contact{Status: "bdr_inbound", ContextScore: "x"}.Fields()
	_, hasName := fields["name"]
	_, hasSource := fields["source_list"]
	assert.False(t, hasName)
	assert.False(t, hasSource)
	assert.Equal(t, "bdr_inbound", fields["status"])
}
