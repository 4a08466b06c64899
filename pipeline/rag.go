package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/batonkit/baton"
)

// RAG builds the retrieval-augmented pipeline: it takes the latest user
// message's text as the query, retrieves the top documents, prepends a
// system message listing them, and makes one model call. Retrieval
// failure wraps baton.ErrRetrieval; a history with no user text is
// baton.ErrValidation.
func RAG(model baton.Model, retriever baton.Retriever, opts ...Option) (baton.Pipeline, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required: %w", baton.ErrValidation)
	}
	if retriever == nil {
		return nil, fmt.Errorf("retriever is required: %w", baton.ErrValidation)
	}
	cfg := newConfig(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	p := func(ctx context.Context, scope baton.Scope, history []baton.Message) (baton.AssistantMessage, error) {
		if err := ctx.Err(); err != nil {
			return baton.AssistantMessage{}, err
		}

		query := latestUserText(history)
		if query == "" {
			return baton.AssistantMessage{}, fmt.Errorf("history has no user message to use as a query: %w", baton.ErrValidation)
		}

		docs, err := retriever.Retrieve(ctx, scope, query, cfg.topK)
		if err != nil {
			if ctx.Err() != nil {
				return baton.AssistantMessage{}, ctx.Err()
			}
			return baton.AssistantMessage{}, fmt.Errorf("retrieve failed: %w: %w", baton.ErrRetrieval, err)
		}

		msgs := history
		if len(docs) > 0 {
			sys := baton.SystemMessage{
				Content: []baton.ContentBlock{baton.TextBlock{Text: formatDocuments(docs)}},
				Meta:    baton.NewMeta("pipeline"),
			}
			msgs = append([]baton.Message{sys}, history...)
		}

		reply, err := model.Generate(ctx, baton.Request{
			Scope:    scope,
			Messages: msgs,
			Params:   cfg.params,
		})
		if err != nil {
			if ctx.Err() != nil {
				return baton.AssistantMessage{}, ctx.Err()
			}
			return baton.AssistantMessage{}, fmt.Errorf("model call failed: %w: %w", baton.ErrModel, err)
		}
		cfg.emit(baton.EventModelResponse{Round: 1, Message: reply})
		return reply, nil
	}

	return baton.Wrap(p, cfg.middleware...), nil
}

// latestUserText returns the text of the most recent user message, or
// the empty string when the history has none.
func latestUserText(history []baton.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if um, ok := history[i].(baton.UserMessage); ok {
			if text := um.Text(); text != "" {
				return text
			}
		}
	}
	return ""
}

// formatDocuments renders retrieved documents as a numbered context
// block for the model.
func formatDocuments(docs []baton.Document) string {
	var sb strings.Builder
	sb.WriteString("Use the following retrieved documents to answer. Cite them by number when relevant.\n")
	for i, doc := range docs {
		fmt.Fprintf(&sb, "\n[%d] %s\n%s\n", i+1, doc.ID, doc.Content)
	}
	return sb.String()
}
