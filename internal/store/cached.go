package store

import (
	"context"
	"errors"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheEntries = 1024

// CachedStore is a read-through LRU in front of another Store. Content is
// copied on both sides of the cache boundary so callers cannot alias cached
// buffers.
type CachedStore struct {
	origin Store
	cache  *lru.Cache[string, []byte]

	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewCachedStore(origin Store, entries int) (*CachedStore, error) {
	if origin == nil {
		return nil, errors.New("store: cached store needs an origin")
	}
	if entries <= 0 {
		entries = defaultCacheEntries
	}
	cache, err := lru.New[string, []byte](entries)
	if err != nil {
		return nil, err
	}
	return &CachedStore{origin: origin, cache: cache}, nil
}

func (s *CachedStore) Put(ctx context.Context, buildID, key string, content []byte) error {
	buildID, key, err := splitArgs(buildID, key)
	if err != nil {
		return err
	}
	if err := s.origin.Put(ctx, buildID, key, content); err != nil {
		return err
	}
	s.cache.Add(objectKey(buildID, key), append([]byte(nil), content...))
	return nil
}

func (s *CachedStore) Get(ctx context.Context, buildID, key string) ([]byte, error) {
	buildID, key, err := splitArgs(buildID, key)
	if err != nil {
		return nil, err
	}
	ck := objectKey(buildID, key)
	if raw, ok := s.cache.Get(ck); ok {
		s.hits.Add(1)
		return append([]byte(nil), raw...), nil
	}
	s.misses.Add(1)

	raw, err := s.origin.Get(ctx, buildID, key)
	if err != nil {
		return nil, err
	}
	s.cache.Add(ck, append([]byte(nil), raw...))
	return append([]byte(nil), raw...), nil
}

// List always consults the origin; listings are not cached.
func (s *CachedStore) List(ctx context.Context, buildID string) ([]string, error) {
	return s.origin.List(ctx, buildID)
}

// Stats reports cache hits and misses observed so far.
func (s *CachedStore) Stats() (hits, misses uint64) {
	if s == nil {
		return 0, 0
	}
	return s.hits.Load(), s.misses.Load()
}
