package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ASSET_BACKEND", "")
	t.Setenv("METADATA_SOURCE", "")
	t.Setenv("VIEWER_PORT", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "")
	t.Setenv("SESSION_TTL_MINUTES", "")
	t.Setenv("COLLATION_LOCALE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, AssetBackendDir, cfg.AssetBackend)
	assert.Equal(t, MetadataSourceStore, cfg.MetadataSource)
	assert.Equal(t, "metadata.json", cfg.MetadataKey)
	assert.Equal(t, "ko", cfg.CollationLocale)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 120*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.DatabaseEnabled())
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad ssl", map[string]string{"MINIO_SSL": "maybe"}},
		{"bad timeout", map[string]string{"FETCH_TIMEOUT_SECONDS": "soon"}},
		{"unknown backend", map[string]string{"ASSET_BACKEND": "ftp"}},
		{"incomplete minio", map[string]string{"ASSET_BACKEND": "minio", "MINIO_ENDPOINT": "localhost:9000"}},
		{"http without url", map[string]string{"METADATA_SOURCE": "http", "METADATA_URL": ""}},
		{"postgres without db", map[string]string{"METADATA_SOURCE": "postgres", "DB_HOST": ""}},
		{"zero ttl", map[string]string{"SESSION_TTL_MINUTES": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_HTTPSource(t *testing.T) {
	t.Setenv("METADATA_SOURCE", "http")
	t.Setenv("METADATA_URL", "http://example.test/data/metadata.json")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/data/metadata.json", cfg.MetadataURL)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DRAWING_TEST_A=from-file\nDRAWING_TEST_B=from-file\n"), 0o644))
	t.Setenv("DRAWING_TEST_A", "from-env")
	t.Setenv("DRAWING_TEST_B", "")
	os.Unsetenv("DRAWING_TEST_B")

	loadDotEnv(path)
	t.Cleanup(func() { os.Unsetenv("DRAWING_TEST_B") })

	assert.Equal(t, "from-env", os.Getenv("DRAWING_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("DRAWING_TEST_B"))
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	assert.NotPanics(t, func() { loadDotEnv(filepath.Join(t.TempDir(), "absent.env")) })
}
