package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps artifacts in process memory. It is the default backend
// for tests and single-shot builds.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

func (s *MemoryStore) Put(_ context.Context, buildID, key string, content []byte) error {
	if s == nil {
		return errors.New("store: memory store is nil")
	}
	buildID, key, err := splitArgs(buildID, key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[objectKey(buildID, key)] = append([]byte(nil), content...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, buildID, key string) ([]byte, error) {
	if s == nil {
		return nil, errors.New("store: memory store is nil")
	}
	buildID, key, err := splitArgs(buildID, key)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.data[objectKey(buildID, key)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (s *MemoryStore) List(_ context.Context, buildID string) ([]string, error) {
	if s == nil {
		return nil, errors.New("store: memory store is nil")
	}
	buildID = strings.TrimSpace(buildID)
	if buildID == "" {
		return nil, errors.New("store: build id is required")
	}
	prefix := buildID + "/"
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.data))
	for key := range s.data {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, strings.TrimPrefix(key, prefix))
	}
	sort.Strings(out)
	return out, nil
}
