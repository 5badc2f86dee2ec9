// Package tenant loads tenant configuration documents. Tenants are
// provisioned by external CRM tooling; the routing pipeline only reads them.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leadwireai/leadwire/internal/docstore"
)

// Collection is the docstore collection that holds tenant documents.
const Collection = "tenants"

// ErrNotFound reports an unknown tenant id.
var ErrNotFound = errors.New("tenant: not found")

// Tenant is a tenant configuration document. PlaybookConfigs maps funnel name
// to a playbook entry; RagConfigs maps alias to a search-store descriptor.
// Entries stay untyped here because malformed entries must surface as
// configuration errors at resolution time, not be silently dropped on load.
type Tenant struct {
	ID              string
	PlaybookConfigs map[string]any
	RagConfigs      map[string]any
}

// Service reads tenant documents from the docstore.
type Service struct {
	store  docstore.Store
	logger *slog.Logger
}

func NewService(log *slog.Logger, store docstore.Store) *Service {
	return &Service{
		store:  store,
		logger: log.With(slog.String("service", "tenant")),
	}
}

// Get loads a tenant by id. Returns ErrNotFound when the document is absent.
func (s *Service) Get(ctx context.Context, tenantID string) (Tenant, error) {
	doc, err := s.store.Get(ctx, Collection, tenantID)
	if errors.Is(err, docstore.ErrNotFound) {
		s.logger.Warn("tenant not found", slog.String("tenant_id", tenantID))
		return Tenant{}, fmt.Errorf("%w: %s", ErrNotFound, tenantID)
	}
	if err != nil {
		return Tenant{}, fmt.Errorf("load tenant %s: %w", tenantID, err)
	}

	return Tenant{
		ID:              tenantID,
		PlaybookConfigs: subMap(doc, "playbook_configs"),
		RagConfigs:      subMap(doc, "rag_configs"),
	}, nil
}

// ContactsCollection returns the per-tenant contact collection path.
func ContactsCollection(tenantID string) string {
	return "tenants/" + tenantID + "/contacts"
}

func subMap(doc docstore.Document, key string) map[string]any {
	if m, ok := doc[key].(map[string]any); ok {
		return m
	}
	return nil
}
