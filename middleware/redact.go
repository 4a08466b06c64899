package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/batonkit/baton"
)

// Rule is a compiled redaction pattern paired with a literal replacement.
// Construct rules with NewRule or MustRule.
type Rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// NewRule compiles pattern and pairs it with a literal replacement (no
// group expansion). It rejects invalid patterns and replacements the
// pattern still matches — a rule can never re-trigger on its own output,
// so applying it twice equals applying it once.
func NewRule(pattern, replacement string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid redaction pattern %q: %v: %w", pattern, err, baton.ErrValidation)
	}
	if re.MatchString(replacement) {
		return Rule{}, fmt.Errorf("replacement %q still matches pattern %q: %w", replacement, pattern, baton.ErrValidation)
	}
	return Rule{pattern: re, replacement: replacement}, nil
}

// MustRule is NewRule for rules known valid at compile time; it panics on
// error.
func MustRule(pattern, replacement string) Rule {
	r, err := NewRule(pattern, replacement)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rule) apply(s string) string {
	return r.pattern.ReplaceAllLiteralString(s, r.replacement)
}

// Redact masks rule matches in both directions: in the history before the
// wrapped pipeline sees it and in the assistant message it returns.
func Redact(rules ...Rule) baton.Middleware {
	return baton.Chain(RedactInput(rules...), RedactOutput(rules...))
}

// RedactInput masks rule matches in the history passed to the wrapped
// pipeline. The caller's messages are never mutated; the wrapped pipeline
// receives redacted copies. Zero rules yield the identity transform.
func RedactInput(rules ...Rule) baton.Middleware {
	return func(next baton.Pipeline) baton.Pipeline {
		if len(rules) == 0 {
			return next
		}
		return func(ctx context.Context, scope baton.Scope, history []baton.Message) (baton.AssistantMessage, error) {
			return next(ctx, scope, redactHistory(history, rules))
		}
	}
}

// RedactOutput masks rule matches in the assistant message the wrapped
// pipeline returns. Errors pass through untouched. Zero rules yield the
// identity transform.
func RedactOutput(rules ...Rule) baton.Middleware {
	return func(next baton.Pipeline) baton.Pipeline {
		if len(rules) == 0 {
			return next
		}
		return func(ctx context.Context, scope baton.Scope, history []baton.Message) (baton.AssistantMessage, error) {
			msg, err := next(ctx, scope, history)
			if err != nil {
				return msg, err
			}
			return redactAssistant(msg, rules), nil
		}
	}
}

func redactHistory(history []baton.Message, rules []Rule) []baton.Message {
	out := make([]baton.Message, len(history))
	for i, msg := range history {
		out[i] = redactMessage(msg, rules)
	}
	return out
}

// redactMessage rewrites text and thinking content only. Roles, metadata,
// usage, stop reasons, and tool call IDs, names, and arguments are
// preserved: arguments are structured data, and rewriting raw JSON could
// corrupt it.
func redactMessage(msg baton.Message, rules []Rule) baton.Message {
	switch m := msg.(type) {
	case baton.SystemMessage:
		m.Content = redactBlocks(m.Content, rules)
		return m
	case baton.UserMessage:
		m.Content = redactBlocks(m.Content, rules)
		return m
	case baton.AssistantMessage:
		return redactAssistant(m, rules)
	case baton.ToolResultMessage:
		m.Content = redactBlocks(m.Content, rules)
		return m
	default:
		return msg
	}
}

func redactAssistant(m baton.AssistantMessage, rules []Rule) baton.AssistantMessage {
	m.Content = redactBlocks(m.Content, rules)
	return m
}

func redactBlocks(blocks []baton.ContentBlock, rules []Rule) []baton.ContentBlock {
	if len(blocks) == 0 {
		return blocks
	}
	out := make([]baton.ContentBlock, len(blocks))
	for i, b := range blocks {
		switch bl := b.(type) {
		case baton.TextBlock:
			bl.Text = applyRules(bl.Text, rules)
			out[i] = bl
		case baton.ThinkingBlock:
			bl.Thinking = applyRules(bl.Thinking, rules)
			out[i] = bl
		default:
			out[i] = b
		}
	}
	return out
}

func applyRules(s string, rules []Rule) string {
	for _, r := range rules {
		s = r.apply(s)
	}
	return s
}
