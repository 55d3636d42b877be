package cli

import (
	"context"
	"time"

	"github.com/ankitghanghas07/semantic-search/internal/adapters/driven/storage/memory"
	"github.com/ankitghanghas07/semantic-search/internal/chunker"
	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driven"
	"github.com/ankitghanghas07/semantic-search/internal/core/services"
	"github.com/ankitghanghas07/semantic-search/internal/extractors"
)

// stubEmbedder returns a fixed vector for every text.
type stubEmbedder struct{}

func (stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (s stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i], _ = s.Embed(ctx, texts[i])
	}
	return out, nil
}

func (stubEmbedder) Dimensions() int   { return 3 }
func (stubEmbedder) ModelName() string { return "stub" }

// stubLLM answers with a single citation of the first source.
type stubLLM struct{}

func (stubLLM) GenerateGrounded(context.Context, string) (*driven.GroundedAnswer, error) {
	return &driven.GroundedAnswer{Answer: "stub answer", Citations: []any{float64(1)}}, nil
}

func (stubLLM) ModelName() string { return "stub" }

// setupTestServices wires the command tree to in-memory adapters and
// stub providers. The returned cleanup restores the nil state so
// initServices runs normally outside tests.
func setupTestServices() func() {
	memStore := memory.NewDocumentStore()
	queue := memory.NewJobQueue(3)

	documentStore = memStore
	jobQueue = queue
	ingestService = services.NewIngestService(memStore, queue, stubEmbedder{}, extractors.NewRegistry(), chunker.New())
	searchService = services.NewSearchService(memStore, stubEmbedder{})
	answerService = services.NewAnswerService(searchService, stubLLM{})
	workerService = services.NewWorker(queue, ingestService, 1)

	return func() {
		documentStore = nil
		jobQueue = nil
		ingestService = nil
		searchService = nil
		answerService = nil
		workerService = nil
		userID = "default"
	}
}

// seedReadyDocument inserts a ready document with one embedded chunk.
func seedReadyDocument(docID, user string) {
	ctx := context.Background()
	now := time.Now().UTC()
	numChunks := 1

	_ = documentStore.InsertDocument(ctx, &domain.Document{
		ID:          docID,
		UserID:      user,
		Filename:    docID + ".txt",
		StoragePath: "/tmp/" + docID + ".txt",
		Status:      domain.StatusProcessing,
		UploadedAt:  now,
	})
	_ = documentStore.InsertChunks(ctx, []domain.Chunk{
		{
			ID:         docID + "-c0",
			DocumentID: docID,
			UserID:     user,
			Index:      0,
			Content:    "searchable chunk content",
			Embedding:  []float32{1, 0, 0},
		},
	})
	_ = documentStore.UpdateStatus(ctx, docID, domain.StatusReady, driven.StatusUpdate{
		ReadyAt:   &now,
		NumChunks: &numChunks,
	})
}
