// Package memory provides in-memory retrieval adapters: a vector store
// ranking documents by cosine similarity and a retriever that pairs it
// with an embedder. Intended for tests, examples, and small corpora that
// fit in process memory.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/batonkit/baton"
)

var _ baton.VectorStore = (*Store)(nil)

// Store is a vector store backed by a slice. Upsert replaces documents
// that share an ID. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries []entry
}

type entry struct {
	doc baton.Document
	vec []float32
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Upsert stores docs with their vectors in order, replacing any existing
// document with the same ID. docs and vectors must have equal length.
func (s *Store) Upsert(_ context.Context, docs []baton.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("got %d documents and %d vectors: %w", len(docs), len(vectors), baton.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, doc := range docs {
		e := entry{doc: doc, vec: slices.Clone(vectors[i])}
		if j := s.indexOf(doc.ID); j >= 0 {
			s.entries[j] = e
			continue
		}
		s.entries = append(s.entries, e)
	}
	return nil
}

// Query returns the k documents most similar to vector, best first, with
// Score populated. Documents embedded at a different dimension are
// skipped. Ties keep insertion order.
func (s *Store) Query(_ context.Context, vector []float32, k int) ([]baton.Document, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("query vector is empty: %w", baton.ErrValidation)
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d: %w", k, baton.ErrValidation)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]baton.Document, 0, len(s.entries))
	for _, e := range s.entries {
		if len(e.vec) != len(vector) {
			continue
		}
		doc := e.doc
		doc.Score = cosine(vector, e.vec)
		scored = append(scored, doc)
	}
	slices.SortStableFunc(scored, func(a, b baton.Document) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// Len reports the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// indexOf returns the position of the document with the given ID, or -1.
// Callers must hold mu.
func (s *Store) indexOf(id string) int {
	for i, e := range s.entries {
		if e.doc.ID == id {
			return i
		}
	}
	return -1
}

// cosine computes cosine similarity between equal-length vectors,
// accumulating in float64. Zero vectors score zero.
func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
