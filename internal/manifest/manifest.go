// Package manifest loads the build harness configuration: a TOML project
// manifest plus environment overrides. Credentials for remote store backends
// come only from the environment, never from the manifest file.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Store backend names accepted in [store] or WC_STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendS3       = "s3"
	BackendPostgres = "postgres"
)

type TransformerConfig struct {
	BootstrapFile  string `toml:"bootstrap_file"`
	HTMLEntryPoint string `toml:"html_entry_point"`
	StrictImports  bool   `toml:"strict_imports"`
}

type Transformers struct {
	WebComponents TransformerConfig `toml:"web_components"`
}

type StoreConfig struct {
	Backend string `toml:"backend"`
	Root    string `toml:"root"`
}

type Manifest struct {
	Name         string       `toml:"name"`
	Transformers Transformers `toml:"transformers"`
	Store        StoreConfig  `toml:"store"`
}

// Load reads the manifest at path, applies environment overrides and
// validates the result. A .env file in the working directory is honored.
func Load(path string) (*Manifest, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	m.applyEnv()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("WC_STORE_BACKEND")); v != "" {
		m.Store.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("WC_STORE_ROOT")); v != "" {
		m.Store.Root = v
	}
	if strings.TrimSpace(m.Store.Backend) == "" {
		m.Store.Backend = BackendMemory
	}
}

// Validate reports every problem at once so a broken manifest is fixed in
// one pass.
func (m *Manifest) Validate() error {
	var errs []error
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, errors.New("manifest: name is required"))
	}
	t := m.Transformers.WebComponents
	if strings.TrimSpace(t.BootstrapFile) == "" {
		errs = append(errs, errors.New("manifest: transformers.web_components.bootstrap_file is required"))
	}
	if strings.TrimSpace(t.HTMLEntryPoint) == "" {
		errs = append(errs, errors.New("manifest: transformers.web_components.html_entry_point is required"))
	}
	switch m.Store.Backend {
	case BackendMemory, BackendS3, BackendPostgres:
	case BackendFile:
		if strings.TrimSpace(m.Store.Root) == "" {
			errs = append(errs, errors.New("manifest: store.root is required for the file backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("manifest: unknown store backend %q", m.Store.Backend))
	}
	return errors.Join(errs...)
}

// S3Settings mirrors the env-only configuration of the s3 backend.
type S3Settings struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func S3FromEnv() S3Settings {
	return S3Settings{
		Endpoint:  strings.TrimSpace(os.Getenv("WC_S3_ENDPOINT")),
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("WC_S3_REGION")), "us-east-1"),
		AccessKey: strings.TrimSpace(os.Getenv("WC_S3_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("WC_S3_SECRET_KEY")),
		Bucket:    strings.TrimSpace(os.Getenv("WC_S3_BUCKET")),
		UseSSL:    envBool("WC_S3_USE_SSL", true),
	}
}

// PostgresDSN reads the postgres backend connection string.
func PostgresDSN() string {
	return strings.TrimSpace(os.Getenv("WC_PG_DSN"))
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
