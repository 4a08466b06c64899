// Package gemini implements [baton.Model] and [baton.Embedder] for the
// Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between baton's
// domain types and the Gemini API types: system messages become the
// system instruction, tool calls and results become function call and
// response parts, and usage metadata is normalized so InputTokens counts
// only non-cached prompt tokens.
package gemini

// DefaultEmbedModel is the embedding model used when none is configured.
const DefaultEmbedModel = "gemini-embedding-001"
