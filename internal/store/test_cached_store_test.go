package store

import (
	"context"
	"sync"
	"testing"
)

type fakeOriginStore struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	puts int
}

func newFakeOriginStore() *fakeOriginStore {
	return &fakeOriginStore{data: make(map[string][]byte)}
}

func (f *fakeOriginStore) Put(_ context.Context, buildID, key string, content []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	f.data[objectKey(buildID, key)] = append([]byte(nil), content...)
	return nil
}

func (f *fakeOriginStore) Get(_ context.Context, buildID, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	raw, ok := f.data[objectKey(buildID, key)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (f *fakeOriginStore) List(_ context.Context, buildID string) ([]string, error) {
	return nil, nil
}

func (f *fakeOriginStore) counts() (gets, puts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets, f.puts
}

func TestCachedStoreServesRepeatGetsFromCache(t *testing.T) {
	ctx := context.Background()
	origin := newFakeOriginStore()
	cached, err := NewCachedStore(origin, 8)
	if err != nil {
		t.Fatalf("new cached store: %v", err)
	}

	if err := origin.Put(ctx, "b1", "k", []byte("v")); err != nil {
		t.Fatalf("seed origin: %v", err)
	}

	for i := 0; i < 3; i++ {
		raw, err := cached.Get(ctx, "b1", "k")
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if string(raw) != "v" {
			t.Fatalf("get %d: got %q", i, raw)
		}
	}

	gets, _ := origin.counts()
	if gets != 1 {
		t.Fatalf("expected one origin read, got %d", gets)
	}
	hits, misses := cached.Stats()
	if hits != 2 || misses != 1 {
		t.Fatalf("expected 2 hits / 1 miss, got %d / %d", hits, misses)
	}
}

func TestCachedStorePutWritesThroughAndPrimes(t *testing.T) {
	ctx := context.Background()
	origin := newFakeOriginStore()
	cached, err := NewCachedStore(origin, 8)
	if err != nil {
		t.Fatalf("new cached store: %v", err)
	}

	if err := cached.Put(ctx, "b1", "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	gets, puts := origin.counts()
	if puts != 1 {
		t.Fatalf("expected one origin write, got %d", puts)
	}

	raw, err := cached.Get(ctx, "b1", "k")
	if err != nil || string(raw) != "v" {
		t.Fatalf("get after put: %q, %v", raw, err)
	}
	if gets2, _ := origin.counts(); gets2 != gets {
		t.Fatalf("get after put should not touch origin, reads went %d -> %d", gets, gets2)
	}
}

func TestCachedStoreMissesAreNotCached(t *testing.T) {
	ctx := context.Background()
	origin := newFakeOriginStore()
	cached, err := NewCachedStore(origin, 8)
	if err != nil {
		t.Fatalf("new cached store: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := cached.Get(ctx, "b1", "absent"); err != ErrNotFound {
			t.Fatalf("get %d: expected ErrNotFound, got %v", i, err)
		}
	}
	gets, _ := origin.counts()
	if gets != 2 {
		t.Fatalf("absent keys must reach the origin every time, got %d reads", gets)
	}
}
