package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wcbuild.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validManifest = `
name = "a"

[transformers.web_components]
bootstrap_file   = "web/index.html.0.dart"
html_entry_point = "web/index.html"

[store]
backend = "file"
root    = "build"
`

func TestLoadValidManifest(t *testing.T) {
	m, err := Load(writeManifest(t, validManifest))
	require.NoError(t, err)

	require.Equal(t, "a", m.Name)
	require.Equal(t, "web/index.html.0.dart", m.Transformers.WebComponents.BootstrapFile)
	require.Equal(t, "web/index.html", m.Transformers.WebComponents.HTMLEntryPoint)
	require.False(t, m.Transformers.WebComponents.StrictImports)
	require.Equal(t, BackendFile, m.Store.Backend)
	require.Equal(t, "build", m.Store.Root)
}

func TestLoadDefaultsToMemoryBackend(t *testing.T) {
	m, err := Load(writeManifest(t, `
name = "a"

[transformers.web_components]
bootstrap_file   = "web/index.html.0.dart"
html_entry_point = "web/index.html"
`))
	require.NoError(t, err)
	require.Equal(t, BackendMemory, m.Store.Backend)
}

func TestLoadReportsAllProblemsTogether(t *testing.T) {
	_, err := Load(writeManifest(t, `
[store]
backend = "carrier-pigeon"
`))
	require.Error(t, err)
	for _, want := range []string{"name is required", "bootstrap_file is required", "html_entry_point is required", "carrier-pigeon"} {
		require.Contains(t, err.Error(), want)
	}
}

func TestLoadFileBackendNeedsRoot(t *testing.T) {
	_, err := Load(writeManifest(t, `
name = "a"

[transformers.web_components]
bootstrap_file   = "web/index.html.0.dart"
html_entry_point = "web/index.html"

[store]
backend = "file"
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "store.root is required")
}

func TestEnvOverridesWin(t *testing.T) {
	t.Setenv("WC_STORE_BACKEND", "memory")
	t.Setenv("WC_STORE_ROOT", "elsewhere")

	m, err := Load(writeManifest(t, validManifest))
	require.NoError(t, err)
	require.Equal(t, BackendMemory, m.Store.Backend)
	require.Equal(t, "elsewhere", m.Store.Root)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestS3FromEnv(t *testing.T) {
	t.Setenv("WC_S3_ENDPOINT", "minio:9000")
	t.Setenv("WC_S3_ACCESS_KEY", "ak")
	t.Setenv("WC_S3_SECRET_KEY", "sk")
	t.Setenv("WC_S3_BUCKET", "artifacts")
	t.Setenv("WC_S3_USE_SSL", "false")

	s3 := S3FromEnv()
	require.Equal(t, "minio:9000", s3.Endpoint)
	require.Equal(t, "us-east-1", s3.Region)
	require.Equal(t, "ak", s3.AccessKey)
	require.Equal(t, "sk", s3.SecretKey)
	require.Equal(t, "artifacts", s3.Bucket)
	require.False(t, s3.UseSSL)
}
