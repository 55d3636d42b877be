// Package cli wires the cobra command tree to the core services.
package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ankitghanghas07/semantic-search/internal/adapters/driven/config/file"
	embeddinggemini "github.com/ankitghanghas07/semantic-search/internal/adapters/driven/embedding/gemini"
	llmgemini "github.com/ankitghanghas07/semantic-search/internal/adapters/driven/llm/gemini"
	"github.com/ankitghanghas07/semantic-search/internal/adapters/driven/storage/sqlite"
	"github.com/ankitghanghas07/semantic-search/internal/chunker"
	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driven"
	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driving"
	"github.com/ankitghanghas07/semantic-search/internal/core/services"
	"github.com/ankitghanghas07/semantic-search/internal/extractors"
	"github.com/ankitghanghas07/semantic-search/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	configPath string
	verbose    bool
	userID     string
)

// Services, wired in initServices and nil until then. Commands check
// for nil so tests can inject their own implementations.
var (
	cfg           *file.Config
	store         *sqlite.Store
	documentStore driven.DocumentStore
	jobQueue      driven.JobQueue
	ingestService driving.Ingestor
	searchService driving.Searcher
	answerService driving.Answerer
	workerService *services.Worker
)

var rootCmd = &cobra.Command{
	Use:   "semantic-search",
	Short: "Document ingestion and semantic question answering",
	Long: `Ingests documents into chunked, embedded form and answers questions
over them with grounded, citation-validated responses.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		// version and help never need the stack.
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.semantic-search/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "default", "user the operation is scoped to")
}

// Execute runs the root command. Interrupts cancel the command context
// so in-flight provider and store calls stop promptly.
func Execute() error {
	defer closeServices()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// initServices builds the adapter stack once per invocation. Services
// already present (injected by tests) are left alone.
func initServices() error {
	if documentStore != nil {
		return nil
	}

	var err error
	cfg, err = file.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err = sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	documentStore = store.DocumentStore()
	jobQueue = store.JobQueue()

	ck := chunker.New(
		chunker.WithMaxChars(cfg.Ingest.MaxChars),
		chunker.WithOverlap(cfg.Ingest.Overlap),
	)

	// Without an API key the store-only commands still work; anything
	// touching Gemini reports itself unconfigured.
	if cfg.Gemini.APIKey == "" {
		ingestService = services.NewIngestService(documentStore, jobQueue, nil, extractors.NewRegistry(), ck)
		logger.Debug("no Gemini API key configured; embedding-backed commands disabled")
		return nil
	}

	embedder, err := embeddinggemini.NewEmbeddingService(embeddinggemini.Config{
		APIKey:        cfg.Gemini.APIKey,
		Model:         cfg.Gemini.EmbeddingModel,
		MinInterval:   cfg.Gemini.MinInterval(),
		MaxConcurrent: cfg.Gemini.MaxConcurrent,
	})
	if err != nil {
		return fmt.Errorf("configure embedding service: %w", err)
	}

	llm, err := llmgemini.NewLLMService(llmgemini.Config{
		APIKey: cfg.Gemini.APIKey,
		Model:  cfg.Gemini.GenerationModel,
	})
	if err != nil {
		return fmt.Errorf("configure LLM service: %w", err)
	}

	ingestService = services.NewIngestService(documentStore, jobQueue, embedder, extractors.NewRegistry(), ck)
	searchService = services.NewSearchService(documentStore, embedder)
	answerService = services.NewAnswerService(searchService, llm)
	workerService = services.NewWorker(jobQueue, ingestService, cfg.Ingest.Workers)

	return nil
}

func closeServices() {
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("closing store: %v", err)
		}
	}
}
