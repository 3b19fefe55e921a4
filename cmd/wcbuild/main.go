package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dart-lang/web-components/internal/asset"
	"github.com/dart-lang/web-components/internal/manifest"
	"github.com/dart-lang/web-components/internal/store"
	"github.com/dart-lang/web-components/internal/transform"
)

func main() {
	manifestPath := flag.String("manifest", "wcbuild.toml", "project manifest path")
	srcDir := flag.String("src", ".", "project source root")
	outDir := flag.String("out", "out", "output directory")
	buildID := flag.String("build", "", "existing build id to reuse (default: a fresh id)")
	flag.Parse()

	m, err := manifest.Load(*manifestPath)
	if err != nil {
		log.Fatal(err)
	}

	id := strings.TrimSpace(*buildID)
	if id == "" {
		id = uuid.NewString()
	}

	st, err := openStore(m)
	if err != nil {
		log.Fatal(err)
	}
	bound, err := store.Bind(st, id)
	if err != nil {
		log.Fatal(err)
	}

	wc := m.Transformers.WebComponents
	tr, err := transform.New(transform.Config{
		Package:        m.Name,
		BootstrapFile:  wc.BootstrapFile,
		HTMLEntryPoint: wc.HTMLEntryPoint,
		StrictImports:  wc.StrictImports,
	}, transform.StdLogger{})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	scriptID, pageID := tr.Inputs()
	for _, in := range []asset.ID{scriptID, pageID} {
		if err := seed(ctx, bound, *srcDir, in); err != nil {
			log.Fatalf("seed %s: %v", in, err)
		}
	}

	if err := tr.Apply(ctx, bound, bound); err != nil {
		log.Fatal(err)
	}

	for _, out := range []asset.ID{scriptID, pageID} {
		if err := writeOut(ctx, bound, *outDir, out); err != nil {
			log.Fatalf("write %s: %v", out, err)
		}
	}
	log.Printf("build %s completed → %s", id, *outDir)
}

func openStore(m *manifest.Manifest) (store.Store, error) {
	switch m.Store.Backend {
	case manifest.BackendMemory:
		return store.NewMemoryStore(), nil
	case manifest.BackendFile:
		fs, err := store.NewFileStore(m.Store.Root)
		if err != nil {
			return nil, err
		}
		return store.NewCachedStore(fs, 0)
	case manifest.BackendS3:
		env := manifest.S3FromEnv()
		s3, err := store.NewS3Store(store.S3Config{
			Endpoint:  env.Endpoint,
			Region:    env.Region,
			AccessKey: env.AccessKey,
			SecretKey: env.SecretKey,
			Bucket:    env.Bucket,
			UseSSL:    env.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		return store.NewCachedStore(s3, 0)
	case manifest.BackendPostgres:
		pg, err := store.OpenPostgres(manifest.PostgresDSN())
		if err != nil {
			return nil, err
		}
		return store.NewCachedStore(pg, 0)
	}
	return nil, fmt.Errorf("unknown store backend %q", m.Store.Backend)
}

func seed(ctx context.Context, bound *store.BoundStore, srcDir string, id asset.ID) error {
	raw, err := os.ReadFile(filepath.Join(srcDir, filepath.FromSlash(id.Path)))
	if err != nil {
		return err
	}
	return bound.Emit(ctx, asset.Artifact{ID: id, Text: string(raw)})
}

func writeOut(ctx context.Context, bound *store.BoundStore, outDir string, id asset.ID) error {
	art, err := bound.Fetch(ctx, id)
	if err != nil {
		return err
	}
	path := filepath.Join(outDir, filepath.FromSlash(id.Path))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(art.Text), 0o644)
}
