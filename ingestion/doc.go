// Package ingestion provides pipeline orchestration for saving items.
//
// The Pipeline type manages the ingestion workflow for items, including:
//   - Validating and adding items to storage
//   - Generating and caching embeddings asynchronously
//
// Embedding is performed concurrently using a worker pool. Errors during
// async processing are logged but do not fail the ingestion operation;
// items without a cached vector fall back to lexical similarity and can be
// backfilled later with the reembed package.
package ingestion
