// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Document, chunk, and status persistence
//   - JobQueue: At-least-once ingestion job delivery
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Grounded answer generation
//   - Extractor: Text extraction for a family of file formats
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
