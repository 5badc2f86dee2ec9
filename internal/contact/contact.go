// Package contact resolves inbound phone identities to contact records.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leadwireai/leadwire/internal/docstore"
	"github.com/leadwireai/leadwire/internal/phone"
	"github.com/leadwireai/leadwire/internal/tenant"
)

// Default record values for a first-contact lead (BDR intake).
const (
	DefaultStatus       = "bdr_inbound"
	DefaultScore        = float64(0)
	DefaultContextScore = "Lead inbound (BDR Padrão)"
)

// MissPolicy selects what happens when no candidate key matches a record.
type MissPolicy string

const (
	// MissCreate provisions a default record and proceeds with it.
	MissCreate MissPolicy = "create"
	// MissReject ends the routing flow with no agent call.
	MissReject MissPolicy = "reject"
)

// ParseMissPolicy validates a configured policy name.
func ParseMissPolicy(raw string) (MissPolicy, error) {
	switch MissPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case MissCreate, "":
		return MissCreate, nil
	case MissReject:
		return MissReject, nil
	default:
		return "", fmt.Errorf("contact: unknown on_miss policy %q", raw)
	}
}

// Contact is the CRM-owned state the pipeline forwards to the agent.
type Contact struct {
	Status       string
	Score        float64
	ContextScore string
	Name         string
	SourceList   string
}

// Fields returns the contact attributes in the parameter-set layout.
// Empty optional attributes are omitted so they are never sent as "".
func (c Contact) Fields() map[string]any {
	fields := map[string]any{
		"status":        c.Status,
		"score":         c.Score,
		"context_score": c.ContextScore,
	}
	if c.Name != "" {
		fields["name"] = c.Name
	}
	if c.SourceList != "" {
		fields["source_list"] = c.SourceList
	}
	return fields
}

// Resolution is the outcome of a lookup. Found is false only under the reject
// policy; under the create policy a default record is written and returned.
type Resolution struct {
	Contact    Contact
	Found      bool
	Created    bool
	MatchedKey string
}

// Resolver probes the per-tenant contact collection with each phone-number
// variation, first existing record wins.
type Resolver struct {
	store  docstore.Store
	policy MissPolicy
	logger *slog.Logger
}

func NewResolver(log *slog.Logger, store docstore.Store, policy MissPolicy) *Resolver {
	return &Resolver{
		store:  store,
		policy: policy,
		logger: log.With(slog.String("service", "contact")),
	}
}

// Resolve looks up the contact for rawUserID within the tenant. A failed probe
// for one candidate is logged and skipped, not fatal: the remaining candidates
// may still hold the record.
func (r *Resolver) Resolve(ctx context.Context, tenantID, rawUserID string) (Resolution, error) {
	normalized := phone.Normalize(rawUserID)
	collection := tenant.ContactsCollection(tenantID)

	for _, candidate := range phone.Variations(normalized) {
		doc, err := r.store.Get(ctx, collection, candidate)
		if errors.Is(err, docstore.ErrNotFound) {
			continue
		}
		if err != nil {
			r.logger.Warn("contact probe failed",
				slog.String("tenant_id", tenantID),
				slog.String("candidate", candidate),
				slog.Any("error", err),
			)
			continue
		}
		r.logger.Info("contact matched",
			slog.String("tenant_id", tenantID),
			slog.String("candidate", candidate),
		)
		return Resolution{
			Contact:    fromDocument(doc),
			Found:      true,
			MatchedKey: candidate,
		}, nil
	}

	if r.policy == MissReject {
		r.logger.Info("contact not found, rejecting",
			slog.String("tenant_id", tenantID),
			slog.String("user_id", rawUserID),
		)
		return Resolution{}, nil
	}

	created := Contact{
		Status:       DefaultStatus,
		Score:        DefaultScore,
		ContextScore: DefaultContextScore,
	}
	if err := r.store.Set(ctx, collection, normalized, docstore.Document{
		"status":        created.Status,
		"score":         created.Score,
		"context_score": created.ContextScore,
	}); err != nil {
		return Resolution{}, fmt.Errorf("create contact %s: %w", normalized, err)
	}
	r.logger.Info("contact created with default intake values",
		slog.String("tenant_id", tenantID),
		slog.String("key", normalized),
	)
	return Resolution{
		Contact:    created,
		Found:      true,
		Created:    true,
		MatchedKey: normalized,
	}, nil
}

func fromDocument(doc docstore.Document) Contact {
	return Contact{
		Status:       doc.String("status", DefaultStatus),
		Score:        doc.Number("score", DefaultScore),
		ContextScore: doc.String("context_score", DefaultContextScore),
		Name:         doc.String("name", ""),
		SourceList:   doc.String("source_list", ""),
	}
}
