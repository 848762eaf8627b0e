package dataaccess

import (
	"encoding/json"
	"sort"
	"sync"
)

// MemoryStore holds fetched resources for the lifetime of the process.
// There is no eviction: datasets are static per deployment.
type MemoryStore struct {
	mu        sync.RWMutex
	resources map[string]json.RawMessage
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		resources: make(map[string]json.RawMessage),
	}
}

// Get returns the body cached under path
func (s *MemoryStore) Get(path string) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	body, ok := s.resources[path]
	return body, ok
}

// Put stores body under path. The first write wins; later writes for the
// same path are ignored.
func (s *MemoryStore) Put(path string, body json.RawMessage) json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.resources[path]; ok {
		return existing
	}
	s.resources[path] = body
	return body
}

// Paths returns the cached paths in sorted order
func (s *MemoryStore) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.resources))
	for p := range s.resources {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
