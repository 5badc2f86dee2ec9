package docstore

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore is an in-process Store used by tests and local runs.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]Document
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]Document)}
}

func (s *MemoryStore) Get(_ context.Context, collection, key string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[collection][key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make(Document, len(doc))
	maps.Copy(out, doc)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, collection, key string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]Document)
	}
	copied := make(Document, len(doc))
	maps.Copy(copied, doc)
	s.docs[collection][key] = copied
	return nil
}
