package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ankitghanghas07/semantic-search/internal/chunker"
	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driven"
	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driving"
	"github.com/ankitghanghas07/semantic-search/internal/extractors"
	"github.com/ankitghanghas07/semantic-search/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// maxErrorMessageLen bounds the failure reason stored on a document.
const maxErrorMessageLen = 1000

// IngestService drives a document through one ingestion attempt:
// extract, chunk, embed, persist, mark terminal. Whatever happens, a
// document that was found never stays in processing after Process
// returns - every failure path records a failed status before the error
// propagates to the queue's retry bookkeeping.
type IngestService struct {
	docStore   driven.DocumentStore
	queue      driven.JobQueue
	embedder   driven.EmbeddingService
	extractors *extractors.Registry
	chunker    *chunker.Chunker
}

// NewIngestService creates an ingest service.
func NewIngestService(
	docStore driven.DocumentStore,
	queue driven.JobQueue,
	embedder driven.EmbeddingService,
	registry *extractors.Registry,
	ck *chunker.Chunker,
) *IngestService {
	return &IngestService{
		docStore:   docStore,
		queue:      queue,
		embedder:   embedder,
		extractors: registry,
		chunker:    ck,
	}
}

// Upload registers a document in the processing state and enqueues an
// ingestion job for it.
func (s *IngestService) Upload(
	ctx context.Context, userID, filename, storagePath string,
) (*domain.Document, error) {
	if userID == "" || filename == "" || storagePath == "" {
		return nil, fmt.Errorf("%w: userID, filename and storagePath are required", domain.ErrInvalidInput)
	}

	doc := &domain.Document{
		ID:          uuid.New().String(),
		UserID:      userID,
		Filename:    filename,
		StoragePath: storagePath,
		Status:      domain.StatusProcessing,
		UploadedAt:  time.Now().UTC(),
	}

	if err := s.docStore.InsertDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}

	if _, err := s.queue.Enqueue(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("enqueue ingestion job: %w", err)
	}

	logger.Info("uploaded document %s (%s) for user %s", doc.ID, filename, userID)
	return doc, nil
}

// Reingest restarts ingestion for a terminal document. The document
// re-enters processing, its previous chunk set is removed, and a fresh
// job is enqueued. Double-enqueueing a processing document is refused;
// concurrent ingestion attempts for the same document are not safe.
func (s *IngestService) Reingest(ctx context.Context, documentID string) error {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	if doc.Status == domain.StatusProcessing {
		return fmt.Errorf("%w: document %s", domain.ErrIngestionInProgress, documentID)
	}

	if err := s.docStore.ResetDocument(ctx, documentID); err != nil {
		return fmt.Errorf("reset document: %w", err)
	}

	if _, err := s.queue.Enqueue(ctx, documentID); err != nil {
		return fmt.Errorf("enqueue ingestion job: %w", err)
	}

	logger.Info("re-ingestion enqueued for document %s", documentID)
	return nil
}

// Process runs one ingestion attempt end to end. A missing document is
// fatal for the job and not retried here; any later failure marks the
// document failed with a truncated reason and re-raises so the queue's
// own retry policy decides whether to re-run the whole job. A re-run
// finds the document terminal and restarts it through ResetDocument,
// so queue-level retries can still reach ready.
func (s *IngestService) Process(ctx context.Context, job *domain.IngestionJob) error {
	logger.Debug("processing document %s (attempt %d)", job.DocumentID, job.Attempts)

	doc, err := s.docStore.GetDocument(ctx, job.DocumentID)
	if err != nil {
		return fmt.Errorf("document %s: %w", job.DocumentID, err)
	}

	// A redelivered job finds the document already marked terminal by
	// the previous attempt. The retry is an explicit restart: the old
	// status and chunk set are discarded so this attempt can write its
	// own chunk set and reach ready.
	if doc.Status.Terminal() {
		if err := s.docStore.ResetDocument(ctx, doc.ID); err != nil {
			return fmt.Errorf("restart document %s: %w", doc.ID, err)
		}
		doc.Status = domain.StatusProcessing
	}

	numChunks, err := s.runAttempt(ctx, doc)
	if err != nil {
		s.markFailed(ctx, doc.ID, err)
		return fmt.Errorf("ingest document %s: %w", doc.ID, err)
	}

	now := time.Now().UTC()
	update := driven.StatusUpdate{ReadyAt: &now, NumChunks: &numChunks}
	if err := s.docStore.UpdateStatus(ctx, doc.ID, domain.StatusReady, update); err != nil {
		err = fmt.Errorf("mark document %s ready: %w", doc.ID, err)
		s.markFailed(ctx, doc.ID, err)
		return err
	}

	logger.Info("document %s ready with %d chunks", doc.ID, numChunks)
	return nil
}

// runAttempt performs the fallible middle of an ingestion attempt and
// returns the number of persisted chunks. Panics from extractors or
// providers are converted to errors so the failure boundary in Process
// still produces a terminal status.
func (s *IngestService) runAttempt(ctx context.Context, doc *domain.Document) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ingestion panic: %v", r)
		}
	}()

	extractor := s.extractors.ForFile(doc.StoragePath)
	text, err := extractor.Extract(ctx, doc.StoragePath)
	if err != nil {
		return 0, fmt.Errorf("extract text: %w", err)
	}

	pieces := s.chunker.Split(text)
	logger.Debug("document %s split into %d chunks", doc.ID, len(pieces))

	// All chunks embed or the attempt fails: a partially embedded
	// batch would break the write-once chunk set.
	embeddings, err := s.embedder.EmbedBatch(ctx, pieces)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(pieces) {
		return 0, fmt.Errorf("embedding count mismatch: %d texts, %d vectors", len(pieces), len(embeddings))
	}

	chunks := make([]domain.Chunk, len(pieces))
	for i, content := range pieces {
		chunks[i] = domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			UserID:     doc.UserID,
			Index:      i,
			Content:    content,
			Embedding:  embeddings[i],
		}
	}

	if err := s.docStore.InsertChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("persist chunks: %w", err)
	}

	return len(chunks), nil
}

// markFailed records a terminal failed status with a truncated reason.
// A failure to record the status is logged but not returned; the
// original ingestion error is the one that matters to the caller.
func (s *IngestService) markFailed(ctx context.Context, documentID string, cause error) {
	msg := truncate(cause.Error(), maxErrorMessageLen)
	update := driven.StatusUpdate{ErrorMessage: &msg}
	if err := s.docStore.UpdateStatus(ctx, documentID, domain.StatusFailed, update); err != nil {
		logger.Error(err, "could not mark document %s as failed", documentID)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
