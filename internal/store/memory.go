package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps documents in a map. Used by tests and by
// STORE_BACKEND=memory.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Document)}
}

func (s *MemoryStore) Load(ctx context.Context, key string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[key]
	if !ok {
		return Document{}, fmt.Errorf("load %s: %w", key, ErrNotFound)
	}
	return doc, nil
}

func (s *MemoryStore) Save(ctx context.Context, key, content string, expected int64) (Document, error) {
	if !ValidKey(key) {
		return Document{}, fmt.Errorf("save %q: %w", key, ErrInvalidKey)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, exists := s.docs[key]
	if err := checkVersion(exists, cur.Version, expected); err != nil {
		return Document{}, fmt.Errorf("save %s: %w", key, err)
	}
	doc := Document{
		Key:       key,
		Content:   content,
		Version:   cur.Version + 1,
		UpdatedAt: time.Now().UTC(),
	}
	s.docs[key] = doc
	return doc, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[key]; !ok {
		return fmt.Errorf("delete %s: %w", key, ErrNotFound)
	}
	delete(s.docs, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
