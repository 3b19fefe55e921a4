package store

import (
	"context"
	"errors"
	"strings"

	"github.com/dart-lang/web-components/internal/asset"
)

// BoundStore exposes one build's slice of a Store as an artifact source and
// sink addressed by asset IDs. Artifact keys are the IDs' string form.
type BoundStore struct {
	store   Store
	buildID string
}

func Bind(s Store, buildID string) (*BoundStore, error) {
	if s == nil {
		return nil, errors.New("store: bind needs a store")
	}
	buildID = strings.TrimSpace(buildID)
	if buildID == "" {
		return nil, errors.New("store: build id is required")
	}
	return &BoundStore{store: s, buildID: buildID}, nil
}

// Fetch loads the artifact stored under id. ErrNotFound passes through
// unchanged so callers can detect missing inputs.
func (b *BoundStore) Fetch(ctx context.Context, id asset.ID) (asset.Artifact, error) {
	raw, err := b.store.Get(ctx, b.buildID, id.String())
	if err != nil {
		return asset.Artifact{}, err
	}
	return asset.Artifact{ID: id, Text: string(raw)}, nil
}

// Emit stores the artifact under its own ID, overwriting previous content.
func (b *BoundStore) Emit(ctx context.Context, a asset.Artifact) error {
	if a.ID.IsZero() {
		return errors.New("store: artifact id is required")
	}
	return b.store.Put(ctx, b.buildID, a.ID.String(), []byte(a.Text))
}
