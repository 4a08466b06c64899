package mock

import (
	"context"

	"github.com/batonkit/baton"
)

// Interface compliance checks.
var (
	_ baton.Retriever   = (*Retriever)(nil)
	_ baton.Embedder    = (*Embedder)(nil)
	_ baton.VectorStore = (*VectorStore)(nil)
)

// Retriever is a test double for baton.Retriever.
// Set RetrieveFn before calling Retrieve.
type Retriever struct {
	RetrieveFn func(ctx context.Context, scope baton.Scope, query string, k int) ([]baton.Document, error)
}

// Retrieve delegates to RetrieveFn.
func (r *Retriever) Retrieve(ctx context.Context, scope baton.Scope, query string, k int) ([]baton.Document, error) {
	return r.RetrieveFn(ctx, scope, query, k)
}

// Embedder is a test double for baton.Embedder.
// Set EmbedFn before calling Embed.
type Embedder struct {
	EmbedFn func(ctx context.Context, texts []string) ([][]float32, error)
}

// Embed delegates to EmbedFn.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedFn(ctx, texts)
}

// VectorStore is a test double for baton.VectorStore.
// Set the function fields for the methods you need.
type VectorStore struct {
	UpsertFn func(ctx context.Context, docs []baton.Document, vectors [][]float32) error
	QueryFn  func(ctx context.Context, vector []float32, k int) ([]baton.Document, error)
}

// Upsert delegates to UpsertFn.
func (s *VectorStore) Upsert(ctx context.Context, docs []baton.Document, vectors [][]float32) error {
	return s.UpsertFn(ctx, docs, vectors)
}

// Query delegates to QueryFn.
func (s *VectorStore) Query(ctx context.Context, vector []float32, k int) ([]baton.Document, error) {
	return s.QueryFn(ctx, vector, k)
}
