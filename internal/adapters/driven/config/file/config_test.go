package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(envAPIKey, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, "models/embedding-001", cfg.Gemini.EmbeddingModel)
	assert.Equal(t, "models/gemini-2.0-flash-exp", cfg.Gemini.GenerationModel)
	assert.Equal(t, 3000, cfg.Ingest.MaxChars)
	assert.Equal(t, 200, cfg.Ingest.Overlap)
	assert.Equal(t, 2, cfg.Ingest.Workers)
	assert.Equal(t, 5, cfg.Search.TopK)
	assert.Empty(t, cfg.Gemini.APIKey)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv(envAPIKey, "")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
data_dir = "/var/lib/search"

[gemini]
api_key = "file-key"
embedding_model = "models/text-embedding-004"
min_interval_ms = 100

[ingest]
max_chars = 1000
workers = 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/search", cfg.DataDir)
	assert.Equal(t, "file-key", cfg.Gemini.APIKey)
	assert.Equal(t, "models/text-embedding-004", cfg.Gemini.EmbeddingModel)
	assert.Equal(t, 100*time.Millisecond, cfg.Gemini.MinInterval())
	assert.Equal(t, 1000, cfg.Ingest.MaxChars)
	assert.Equal(t, 4, cfg.Ingest.Workers)

	// Values absent from the file keep their defaults.
	assert.Equal(t, 200, cfg.Ingest.Overlap)
	assert.Equal(t, 5, cfg.Search.TopK)
}

func TestLoad_EnvOverridesFileAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[gemini]\napi_key = \"file-key\"\n"), 0600))

	t.Setenv(envAPIKey, "env-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Gemini.APIKey)
}

func TestLoad_RejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0600))

	_, err := Load(path)
	require.Error(t, err)
}
