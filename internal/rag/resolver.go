package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leadwireai/leadwire/internal/playbook"
	"github.com/leadwireai/leadwire/internal/tenant"
)

// Field fallback chains, evaluated in order. Playbook entries and rag_configs
// aliases use different key spellings for the same descriptor fields; keeping
// the chains as data makes the precedence testable per field.
var (
	playbookStoreIDKeys    = []string{"rag_datastore_id", "rag_id"}
	playbookLocationKeys   = []string{"rag_location", "rag_region"}
	playbookProjectKeys    = []string{"rag_project_id", "rag_project"}
	playbookCollectionKeys = []string{"rag_collection_id", "rag_collection"}

	aliasStoreIDKeys    = []string{"data_store_id", "rag_datastore_id"}
	aliasLocationKeys   = []string{"location", "region"}
	aliasProjectKeys    = []string{"project_id", "rag_project_id"}
	aliasCollectionKeys = []string{"collection_id", "rag_collection_id"}
)

// Selector carries whichever identifier the caller has. Precedence when more
// than one is set: explicit store id, then playbook name, then alias.
type Selector struct {
	PlaybookName string
	Alias        string
	DataStoreID  string
}

// Resolver maps a tenant plus a selector to an authorized StoreTarget.
type Resolver struct {
	tenants         *tenant.Service
	defaultLocation string
	defaultProject  string
	logger          *slog.Logger
}

func NewResolver(log *slog.Logger, tenants *tenant.Service, defaultLocation, defaultProject string) *Resolver {
	return &Resolver{
		tenants:         tenants,
		defaultLocation: defaultLocation,
		defaultProject:  defaultProject,
		logger:          log.With(slog.String("service", "rag")),
	}
}

// ResolveTarget loads the tenant and resolves the selector against its
// declared stores. An identifier that maps to no declared store never
// resolves; that property is what prevents cross-tenant store access.
func (r *Resolver) ResolveTarget(ctx context.Context, tenantID string, sel Selector) (StoreTarget, error) {
	tn, err := r.tenants.Get(ctx, tenantID)
	if errors.Is(err, tenant.ErrNotFound) {
		return StoreTarget{}, fmt.Errorf("%w: tenant %s", ErrNotFound, tenantID)
	}
	if err != nil {
		return StoreTarget{}, err
	}

	playbookTargets := r.targetsFromPlaybooks(tn.PlaybookConfigs)
	aliasTargets := r.targetsFromRagConfigs(tn.RagConfigs)

	// Authorization table: logical names plus every raw store id, so a
	// caller can address a store by whichever identifier it already has.
	authorized := make(map[string]StoreTarget, len(playbookTargets)+len(aliasTargets))
	for name, target := range playbookTargets {
		authorized[name] = target
	}
	for alias, target := range aliasTargets {
		authorized[alias] = target
	}
	for _, target := range playbookTargets {
		authorized[target.DataStoreID] = target
	}
	for _, target := range aliasTargets {
		authorized[target.DataStoreID] = target
	}

	switch {
	case sel.DataStoreID != "":
		target, ok := authorized[sel.DataStoreID]
		if !ok {
			r.logger.Warn("data store not authorized",
				slog.String("tenant_id", tenantID),
				slog.String("data_store_id", sel.DataStoreID),
			)
			return StoreTarget{}, fmt.Errorf("%w: data store %s not declared by tenant", ErrUnauthorized, sel.DataStoreID)
		}
		return target, nil

	case sel.PlaybookName != "":
		target, ok := playbookTargets[sel.PlaybookName]
		if !ok {
			return StoreTarget{}, fmt.Errorf("%w: playbook %s has no search store", ErrNotFound, sel.PlaybookName)
		}
		if entry, ok := tn.PlaybookConfigs[sel.PlaybookName].(map[string]any); ok {
			if !playbook.Truthy(entry["status"], true) {
				return StoreTarget{}, fmt.Errorf("%w: playbook %s is inactive", ErrConfiguration, sel.PlaybookName)
			}
		}
		return target, nil

	case sel.Alias != "":
		target, ok := authorized[sel.Alias]
		if !ok {
			r.logger.Warn("rag alias not authorized",
				slog.String("tenant_id", tenantID),
				slog.String("alias", sel.Alias),
			)
			return StoreTarget{}, fmt.Errorf("%w: alias %s not declared by tenant", ErrUnauthorized, sel.Alias)
		}
		return target, nil

	default:
		return StoreTarget{}, fmt.Errorf("%w: a playbook name, alias, or data store id is required", ErrConfiguration)
	}
}

func (r *Resolver) targetsFromPlaybooks(configs map[string]any) map[string]StoreTarget {
	targets := make(map[string]StoreTarget, len(configs))
	for name, raw := range configs {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		storeID := firstString(entry, playbookStoreIDKeys, "")
		if storeID == "" {
			continue
		}
		targets[name] = StoreTarget{
			DataStoreID:  storeID,
			Location:     firstString(entry, playbookLocationKeys, r.defaultLocation),
			ProjectID:    firstString(entry, playbookProjectKeys, r.defaultProject),
			CollectionID: firstString(entry, playbookCollectionKeys, storeID),
		}
	}
	return targets
}

func (r *Resolver) targetsFromRagConfigs(configs map[string]any) map[string]StoreTarget {
	targets := make(map[string]StoreTarget, len(configs))
	for alias, raw := range configs {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		storeID := firstString(entry, aliasStoreIDKeys, "")
		if storeID == "" {
			continue
		}
		targets[alias] = StoreTarget{
			DataStoreID:  storeID,
			Location:     firstString(entry, aliasLocationKeys, r.defaultLocation),
			ProjectID:    firstString(entry, aliasProjectKeys, r.defaultProject),
			CollectionID: firstString(entry, aliasCollectionKeys, storeID),
		}
	}
	return targets
}

// firstString walks the accessor chain and returns the first non-empty string
// value, or fallback when none matches.
func firstString(entry map[string]any, keys []string, fallback string) string {
	for _, key := range keys {
		if v, ok := entry[key].(string); ok && v != "" {
			return v
		}
	}
	return fallback
}
