package memory

import (
	"context"
	"fmt"

	"github.com/batonkit/baton"
)

var _ baton.Retriever = (*Retriever)(nil)

// Retriever pairs an embedder with a vector store: Index embeds document
// content and upserts it, Retrieve embeds the query and runs a
// nearest-neighbor search.
type Retriever struct {
	embedder baton.Embedder
	store    baton.VectorStore
}

// NewRetriever returns a retriever over the given embedder and store.
func NewRetriever(embedder baton.Embedder, store baton.VectorStore) (*Retriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required: %w", baton.ErrValidation)
	}
	if store == nil {
		return nil, fmt.Errorf("store is required: %w", baton.ErrValidation)
	}
	return &Retriever{embedder: embedder, store: store}, nil
}

// Index embeds the content of docs and upserts them into the store.
func (r *Retriever) Index(ctx context.Context, docs []baton.Document) error {
	if len(docs) == 0 {
		return nil
	}
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}
	vectors, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed %d documents: %w", len(docs), err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents: %w", len(vectors), len(docs), baton.ErrValidation)
	}
	return r.store.Upsert(ctx, docs, vectors)
}

// Retrieve embeds query and returns the k most similar documents.
func (r *Retriever) Retrieve(ctx context.Context, _ baton.Scope, query string, k int) ([]baton.Document, error) {
	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query: %w", len(vectors), baton.ErrValidation)
	}
	return r.store.Query(ctx, vectors[0], k)
}
