// Package docstore provides a keyed JSON document store. Documents live in
// named collections; collection paths follow the tenants/<id>/contacts
// convention used by the routing pipeline.
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound reports that a document does not exist in the collection.
var ErrNotFound = errors.New("docstore: document not found")

// Document is a decoded JSON object.
type Document map[string]any

// Store is the minimal contract the resolution pipeline depends on.
type Store interface {
	// Get fetches a document by key. Returns ErrNotFound when absent.
	Get(ctx context.Context, collection, key string) (Document, error)
	// Set creates or overwrites a document.
	Set(ctx context.Context, collection, key string, doc Document) error
}

// String returns the string value for key, or fallback when the field is
// absent, empty, or not a string.
func (d Document) String(key, fallback string) string {
	if v, ok := d[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Number returns the numeric value for key, or fallback when absent or not a
// number. JSON numbers decode as float64.
func (d Document) Number(key string, fallback float64) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return fallback
	}
}
