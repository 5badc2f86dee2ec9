// Package rag resolves tenant queries to an authorized search-store target
// and runs them against the search index.
package rag

import (
	"context"
	"errors"
)

var (
	// ErrNotFound reports an absent tenant or playbook.
	ErrNotFound = errors.New("rag: not found")
	// ErrUnauthorized reports a store id or alias the tenant never declared.
	ErrUnauthorized = errors.New("rag: unauthorized")
	// ErrConfiguration reports a malformed or inactive configuration, or a
	// request with no usable selector.
	ErrConfiguration = errors.New("rag: configuration error")
)

// StoreTarget is a fully resolved search-store descriptor. Every target is
// traceable to an entry the tenant declared in its own configuration.
type StoreTarget struct {
	DataStoreID  string `json:"data_store_id"`
	Location     string `json:"location"`
	ProjectID    string `json:"project_id,omitempty"`
	CollectionID string `json:"collection_id"`
}

// Citation points back at a source document behind a summary.
type Citation struct {
	Title     string `json:"title,omitempty"`
	URI       string `json:"uri,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// SearchOptions tunes one search call.
type SearchOptions struct {
	SummaryResultCount int
	IncludeCitations   bool
}

// SearchResult is the answer produced for one query.
type SearchResult struct {
	Summary   string     `json:"summary"`
	Citations []Citation `json:"citations,omitempty"`
}

// SearchIndex executes a query against a resolved target.
type SearchIndex interface {
	Search(ctx context.Context, target StoreTarget, query string, opts SearchOptions) (SearchResult, error)
}
