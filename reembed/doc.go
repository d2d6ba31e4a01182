// Package reembed rebuilds the cached embedding of every saved item,
// typically after switching embedding models.
//
// Items are processed in creation order in fixed-size batches. After each
// batch a checkpoint is written so an interrupted run can resume where it
// stopped. Embedding calls are retried with exponential backoff and vectors
// are normalized to unit length so dot products equal cosine similarity.
package reembed
