package baton

import "context"

// Document is a unit of retrievable content.
type Document struct {
	ID       string
	Content  string
	Score    float64 // similarity score, populated by queries
	Metadata map[string]string
}

// Retriever fetches the k most relevant documents for a query.
type Retriever interface {
	Retrieve(ctx context.Context, scope Scope, query string, k int) ([]Document, error)
}

// Embedder converts texts into vectors, one per input text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore stores embedded documents and answers nearest-neighbor
// queries.
type VectorStore interface {
	Upsert(ctx context.Context, docs []Document, vectors [][]float32) error
	Query(ctx context.Context, vector []float32, k int) ([]Document, error)
}
