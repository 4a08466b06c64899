package baton

// Usage tracks token consumption for one model call.
//
// Invariant across all adapters:
//
//	InputTokens      = non-cached input tokens
//	CacheReadTokens  = tokens served from cache (cache hit)
//	CacheWriteTokens = tokens written to cache (cache creation)
//
// Total input tokens = InputTokens + CacheReadTokens + CacheWriteTokens.
// Adapters normalize their API-specific fields to this invariant (e.g.,
// Gemini includes cached tokens in its prompt count, so the adapter
// subtracts them to produce InputTokens; Anthropic reports the three
// categories separately). Adapters must clamp to zero when subtracting to
// guard against inconsistent upstream data.
type Usage struct {
	InputTokens      int
	OutputTokens     int
	CacheReadTokens  int
	CacheWriteTokens int
}
