package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore persists artifacts in a single upsert table, one row per
// (build_id, artifact_key) pair. The schema is created on first use.
type PostgresStore struct {
	db         *sql.DB
	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres dials the database with the pgx driver and verifies the
// connection before handing out a store.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("store: postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewPostgresStore(db), nil
}

func (s *PostgresStore) ensureSchema() error {
	if s == nil || s.db == nil {
		return errors.New("store: postgres store is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS build_artifacts (
    id SERIAL PRIMARY KEY,
    build_id TEXT NOT NULL,
    artifact_key TEXT NOT NULL,
    content BYTEA NOT NULL DEFAULT ''::bytea,
    size BIGINT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    UNIQUE(build_id, artifact_key)
);
CREATE INDEX IF NOT EXISTS idx_build_artifacts_build_id ON build_artifacts(build_id);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Put(ctx context.Context, buildID, key string, content []byte) error {
	if s == nil {
		return errors.New("store: postgres store is nil")
	}
	buildID, key, err := splitArgs(buildID, key)
	if err != nil {
		return err
	}
	if err := s.ensureSchema(); err != nil {
		return err
	}
	if content == nil {
		content = []byte{}
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO build_artifacts (build_id, artifact_key, content, size, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (build_id, artifact_key)
DO UPDATE SET content=EXCLUDED.content, size=EXCLUDED.size, updated_at=EXCLUDED.updated_at
`, buildID, key, content, int64(len(content)), time.Now())
	return err
}

func (s *PostgresStore) Get(ctx context.Context, buildID, key string) ([]byte, error) {
	if s == nil {
		return nil, errors.New("store: postgres store is nil")
	}
	buildID, key, err := splitArgs(buildID, key)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	var content []byte
	err = s.db.QueryRowContext(ctx, `SELECT content FROM build_artifacts WHERE build_id=$1 AND artifact_key=$2`, buildID, key).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return content, err
}

func (s *PostgresStore) List(ctx context.Context, buildID string) ([]string, error) {
	if s == nil {
		return nil, errors.New("store: postgres store is nil")
	}
	buildID = strings.TrimSpace(buildID)
	if buildID == "" {
		return nil, errors.New("store: build id is required")
	}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT artifact_key FROM build_artifacts WHERE build_id=$1 ORDER BY artifact_key`, buildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
