package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore persists artifacts under a root directory, one file per artifact
// at <root>/<buildID>/<key>. Keys may contain slashes; traversal outside the
// root is rejected.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("store: file store root is required")
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) Put(_ context.Context, buildID, key string, content []byte) error {
	path, err := s.pathFor(buildID, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("store: create artifact dir: %w", err)
	}
	return os.WriteFile(path, content, 0o644)
}

func (s *FileStore) Get(_ context.Context, buildID, key string) ([]byte, error) {
	path, err := s.pathFor(buildID, key)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return raw, err
}

func (s *FileStore) List(_ context.Context, buildID string) ([]string, error) {
	if s == nil {
		return nil, errors.New("store: file store is nil")
	}
	buildID = strings.TrimSpace(buildID)
	if buildID == "" {
		return nil, errors.New("store: build id is required")
	}
	if err := checkSegment(buildID); err != nil {
		return nil, err
	}
	base := filepath.Join(s.root, filepath.FromSlash(buildID))
	var keys []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) pathFor(buildID, key string) (string, error) {
	if s == nil {
		return "", errors.New("store: file store is nil")
	}
	buildID, key, err := splitArgs(buildID, key)
	if err != nil {
		return "", err
	}
	if err := checkSegment(buildID); err != nil {
		return "", err
	}
	if err := checkSegment(key); err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(buildID), filepath.FromSlash(strings.TrimLeft(key, "/"))), nil
}

func checkSegment(name string) error {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return fmt.Errorf("store: absolute artifact address %q", name)
	}
	for _, part := range strings.Split(filepath.ToSlash(name), "/") {
		if part == ".." {
			return fmt.Errorf("store: artifact address %q escapes the store root", name)
		}
	}
	return nil
}
