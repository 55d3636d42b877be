// Package file provides TOML-based configuration loading.
//
// Configuration lives at ~/.semantic-search/config.toml by default. A
// missing file is not an error; defaults apply and the GEMINI_API_KEY
// environment variable always wins over the file for the API key.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the application configuration.
type Config struct {
	// DataDir is where the SQLite database lives. Empty means the
	// default under ~/.semantic-search/data.
	DataDir string `toml:"data_dir"`

	// UploadsDir is watched by the watch command for new documents.
	UploadsDir string `toml:"uploads_dir"`

	Gemini GeminiConfig `toml:"gemini"`
	Ingest IngestConfig `toml:"ingest"`
	Search SearchConfig `toml:"search"`
}

// GeminiConfig configures the Gemini API adapters.
type GeminiConfig struct {
	// APIKey authenticates against the Gemini API. The GEMINI_API_KEY
	// environment variable overrides this value.
	APIKey string `toml:"api_key"`

	// EmbeddingModel is the embedding model name.
	EmbeddingModel string `toml:"embedding_model"`

	// GenerationModel is the answer generation model name.
	GenerationModel string `toml:"generation_model"`

	// MinIntervalMS is the minimum spacing between embedding requests
	// in milliseconds. Zero disables client-side rate limiting.
	MinIntervalMS int `toml:"min_interval_ms"`

	// MaxConcurrent caps in-flight embedding requests.
	MaxConcurrent int `toml:"max_concurrent"`
}

// IngestConfig configures the ingestion pipeline.
type IngestConfig struct {
	// MaxChars is the chunk size ceiling in characters.
	MaxChars int `toml:"max_chars"`

	// Overlap is how many characters consecutive chunks share.
	Overlap int `toml:"overlap"`

	// Workers is how many documents are processed concurrently.
	Workers int `toml:"workers"`
}

// SearchConfig configures query-time behavior.
type SearchConfig struct {
	// TopK is the default number of results returned.
	TopK int `toml:"top_k"`
}

// envAPIKey is the environment variable that overrides the configured key.
const envAPIKey = "GEMINI_API_KEY"

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Gemini: GeminiConfig{
			EmbeddingModel:  "models/embedding-001",
			GenerationModel: "models/gemini-2.0-flash-exp",
			MaxConcurrent:   4,
		},
		Ingest: IngestConfig{
			MaxChars: 3000,
			Overlap:  200,
			Workers:  2,
		},
		Search: SearchConfig{
			TopK: 5,
		},
	}
}

// Load reads configuration from the given path. An empty path means
// ~/.semantic-search/config.toml. Values absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".semantic-search", "config.toml")
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults plus environment only.
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if key := os.Getenv(envAPIKey); key != "" {
		cfg.Gemini.APIKey = key
	}

	return cfg, nil
}

// MinInterval returns the configured embedding request spacing as a
// duration.
func (c GeminiConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalMS) * time.Millisecond
}
