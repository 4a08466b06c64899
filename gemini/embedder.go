package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/batonkit/baton"
)

// Interface compliance check.
var _ baton.Embedder = (*Embedder)(nil)

// Embedder implements [baton.Embedder] via the Gemini embedding API.
type Embedder struct {
	client *genai.Client
	model  string
}

// EmbedderOption configures an [Embedder].
type EmbedderOption func(*Embedder)

// WithEmbedModel overrides [DefaultEmbedModel].
func WithEmbedModel(model string) EmbedderOption {
	return func(e *Embedder) { e.model = model }
}

// Embedder returns an embedder sharing the client's connection.
func (c *Client) Embedder(opts ...EmbedderOption) *Embedder {
	e := &Embedder{client: c.client, model: DefaultEmbedModel}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Embed returns one vector per input text.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: text}}}
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return ConvertEmbeddings(resp, len(texts))
}

// ConvertEmbeddings extracts vectors from an embedding response, checking
// that one non-empty embedding came back per input. Exported for testing.
func ConvertEmbeddings(resp *genai.EmbedContentResponse, want int) ([][]float32, error) {
	if len(resp.Embeddings) != want {
		return nil, fmt.Errorf("gemini: got %d embeddings for %d texts", len(resp.Embeddings), want)
	}
	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("gemini: embedding %d is empty", i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}
