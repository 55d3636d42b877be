// Package domain defines the core business entities for the document
// RAG pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded document and its processing lifecycle
//   - Chunk: An embedded slice of a document's extracted text
//   - SearchResult: A ranked chunk produced by semantic search
//   - ChatResponse: A grounded answer with cited sources
//   - IngestionJob: A unit of work on the ingestion queue
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
