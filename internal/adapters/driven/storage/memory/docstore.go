// Package memory provides in-memory implementations of the storage
// ports, used in tests and for ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// It enforces the same status-transition and chunk atomicity rules as
// the SQLite store.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk // keyed by document ID
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// InsertDocument stores a newly uploaded document.
func (s *DocumentStore) InsertDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.documents[doc.ID]; exists {
		return fmt.Errorf("document %s: already exists", doc.ID)
	}
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetDocumentForUser retrieves a document only if the user owns it.
func (s *DocumentStore) GetDocumentForUser(_ context.Context, id, userID string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok || doc.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns a user's documents, newest upload first.
func (s *DocumentStore) ListDocuments(_ context.Context, userID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []domain.Document
	for _, doc := range s.documents {
		if doc.UserID == userID {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

// UpdateStatus transitions a document's lifecycle state, rejecting
// transitions out of a terminal state.
func (s *DocumentStore) UpdateStatus(
	_ context.Context, id string, status domain.DocumentStatus, update driven.StatusUpdate,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !doc.Status.CanTransition(status) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, doc.Status, status)
	}

	doc.Status = status
	if update.ReadyAt != nil {
		doc.ReadyAt = update.ReadyAt
	}
	if update.NumChunks != nil {
		doc.NumChunks = update.NumChunks
	}
	if update.ErrorMessage != nil {
		doc.ErrorMessage = update.ErrorMessage
	}
	if status == domain.StatusReady {
		doc.ErrorMessage = nil
	}

	s.documents[id] = doc
	return nil
}

// ResetDocument re-enters processing for a new ingestion attempt and
// drops the previous chunk set.
func (s *DocumentStore) ResetDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}

	doc.Status = domain.StatusProcessing
	doc.ReadyAt = nil
	doc.NumChunks = nil
	doc.ErrorMessage = nil
	s.documents[id] = doc
	delete(s.chunks, id)
	return nil
}

// InsertChunks stores a document's chunk set atomically.
func (s *DocumentStore) InsertChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docID := chunks[0].DocumentID
	if _, exists := s.chunks[docID]; exists {
		return fmt.Errorf("chunks for document %s: already written", docID)
	}
	for i, chunk := range chunks {
		if chunk.DocumentID != docID {
			return fmt.Errorf("%w: mixed document IDs in chunk batch", domain.ErrInvalidInput)
		}
		if chunk.Index != i {
			return fmt.Errorf("%w: chunk ordinals must be contiguous from 0", domain.ErrInvalidInput)
		}
	}

	stored := make([]domain.Chunk, len(chunks))
	copy(stored, chunks)
	s.chunks[docID] = stored
	return nil
}

// ChunksForDocument returns a document's chunks if the user owns it.
func (s *DocumentStore) ChunksForDocument(_ context.Context, documentID, userID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[documentID]
	if !ok || doc.UserID != userID {
		return nil, nil
	}

	out := make([]domain.Chunk, len(s.chunks[documentID]))
	copy(out, s.chunks[documentID])
	return out, nil
}

// ChunksForUser returns all chunks across a user's documents.
func (s *DocumentStore) ChunksForUser(_ context.Context, userID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docIDs := make([]string, 0, len(s.documents))
	for id, doc := range s.documents {
		if doc.UserID == userID {
			docIDs = append(docIDs, id)
		}
	}
	sort.Strings(docIDs)

	var out []domain.Chunk
	for _, id := range docIDs {
		out = append(out, s.chunks[id]...)
	}
	return out, nil
}
