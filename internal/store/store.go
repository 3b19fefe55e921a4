// Package store persists build artifacts for the rewrite stage. Artifacts
// are addressed by a build identifier plus an artifact key within that build;
// Put overwrites any previous content under the same address.
package store

import (
	"context"
	"errors"
	"strings"
)

// Store defines operations for persisting build artifacts.
type Store interface {
	Put(ctx context.Context, buildID, key string, content []byte) error
	Get(ctx context.Context, buildID, key string) ([]byte, error)
	List(ctx context.Context, buildID string) ([]string, error)
}

// ErrNotFound reports that no artifact exists under the requested address.
var ErrNotFound = errors.New("store: artifact not found")

func splitArgs(buildID, key string) (string, string, error) {
	buildID = strings.TrimSpace(buildID)
	key = strings.TrimSpace(key)
	if buildID == "" {
		return "", "", errors.New("store: build id is required")
	}
	if key == "" {
		return "", "", errors.New("store: artifact key is required")
	}
	return buildID, key, nil
}

func objectKey(buildID, key string) string {
	return buildID + "/" + strings.TrimLeft(key, "/")
}
