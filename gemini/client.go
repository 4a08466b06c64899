package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/batonkit/baton"
)

// Interface compliance check.
var _ baton.Model = (*Client)(nil)

// Client implements [baton.Model] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option configures a [Client].
type Option func(*clientConfig)

type clientConfig struct {
	httpClient *http.Client
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = hc }
}

// New creates a Gemini [Client] that generates with the given model
// unless a request's Params name another one.
func New(ctx context.Context, apiKey, model string, opts ...Option) (*Client, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required: %w", baton.ErrValidation)
	}
	var cfg clientConfig
	for _, o := range opts {
		o(&cfg)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &Client{client: gc, model: model}, nil
}

// Generate sends one non-streaming request to the Gemini API and returns
// the complete assistant message.
func (c *Client) Generate(ctx context.Context, req baton.Request) (baton.AssistantMessage, error) {
	model := req.Params.Model
	if model == "" {
		model = c.model
	}

	contents, system := ConvertMessages(req.Messages)
	config := buildConfig(req, system)

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return baton.AssistantMessage{}, fmt.Errorf("gemini: %w", err)
	}
	return ConvertResponse(resp)
}

func buildConfig(req baton.Request, system *genai.Content) *genai.GenerateContentConfig {
	maxTokens := req.Params.MaxTokens
	if maxTokens == 0 {
		maxTokens = baton.DefaultMaxTokens
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens:   int32(maxTokens),
		SystemInstruction: system,
		Tools:             ConvertCommands(req.Commands),
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: true,
		},
	}

	if req.Params.Temperature != nil {
		temp := float32(*req.Params.Temperature)
		config.Temperature = &temp
	}
	if req.Params.TopP != nil {
		topP := float32(*req.Params.TopP)
		config.TopP = &topP
	}
	if len(req.Params.Stop) > 0 {
		config.StopSequences = req.Params.Stop
	}

	return config
}

// ConvertMessages converts baton messages to genai contents plus an
// optional system instruction collected from system messages.
// Exported for testing.
func ConvertMessages(msgs []baton.Message) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var system []string
	for _, msg := range msgs {
		switch m := msg.(type) {
		case baton.SystemMessage:
			if text := m.Text(); text != "" {
				system = append(system, text)
			}
		case baton.UserMessage:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: convertBlocks(m.Content),
			})
		case baton.AssistantMessage:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: convertBlocks(m.Content),
			})
		case baton.ToolResultMessage:
			text := m.Text()
			var response map[string]any
			if m.IsError {
				response = map[string]any{"error": text}
			} else {
				response = map[string]any{"output": text}
			}
			contents = append(contents, &genai.Content{
				Role: "user",
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						ID:       m.ToolCallID,
						Name:     m.ToolName,
						Response: response,
					},
				}},
			})
		}
	}
	if len(system) == 0 {
		return contents, nil
	}
	return contents, &genai.Content{
		Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}},
	}
}

func convertBlocks(blocks []baton.ContentBlock) []*genai.Part {
	var parts []*genai.Part
	for _, b := range blocks {
		switch bl := b.(type) {
		case baton.TextBlock:
			parts = append(parts, &genai.Part{Text: bl.Text})
		case baton.ThinkingBlock:
			parts = append(parts, &genai.Part{Text: bl.Thinking, Thought: true})
		case baton.ToolCallBlock:
			// Arguments is json.RawMessage — always valid JSON from domain types.
			var args map[string]any
			_ = json.Unmarshal(bl.Arguments, &args)
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					ID:   bl.ID,
					Name: bl.Name,
					Args: args,
				},
			})
		}
	}
	return parts
}

// ConvertCommands converts command specs to genai tool declarations.
// Exported for testing.
func ConvertCommands(specs []baton.CommandSpec) []*genai.Tool {
	if len(specs) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, len(specs))
	for i, spec := range specs {
		decls[i] = &genai.FunctionDeclaration{
			Name:                 spec.Name,
			Description:          spec.Description,
			ParametersJsonSchema: schemaMap(spec.Input),
		}
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// schemaMap renders a schema as the generic map the SDK expects.
func schemaMap(schema *jsonschema.Schema) map[string]any {
	if schema == nil {
		return nil
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil
	}
	var m map[string]any
	_ = json.Unmarshal(raw, &m)
	return m
}

// ConvertResponse maps a genai response onto an assistant message:
// parts to content blocks, finish reason to a stop reason, and usage
// metadata to normalized token counts. Exported for testing.
func ConvertResponse(resp *genai.GenerateContentResponse) (baton.AssistantMessage, error) {
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return baton.AssistantMessage{}, fmt.Errorf("gemini: prompt blocked: %s", fb.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return baton.AssistantMessage{}, errors.New("gemini: response has no candidates")
	}
	cand := resp.Candidates[0]

	msg := baton.AssistantMessage{
		Usage: convertUsage(resp.UsageMetadata),
		Meta:  baton.NewMeta("gemini"),
	}
	if cand.Content != nil {
		msg.Content = convertParts(cand.Content.Parts)
	}
	msg.StopReason, msg.RawStopReason = mapStopReason(cand.FinishReason, len(msg.ToolCalls()) > 0)
	return msg, nil
}

func convertParts(parts []*genai.Part) []baton.ContentBlock {
	var blocks []baton.ContentBlock
	for _, p := range parts {
		switch {
		case p == nil:
			continue
		case p.FunctionCall != nil:
			blocks = append(blocks, toolCallBlock(p.FunctionCall))
		case p.Thought:
			blocks = append(blocks, baton.ThinkingBlock{Thinking: p.Text})
		case p.Text != "":
			blocks = append(blocks, baton.TextBlock{Text: p.Text})
		}
	}
	return blocks
}

// toolCallBlock converts a function call, synthesizing an ID when the
// API omits one so tool results can always be correlated.
func toolCallBlock(fc *genai.FunctionCall) baton.ToolCallBlock {
	id := fc.ID
	if id == "" {
		id = uuid.NewString()
	}
	args := json.RawMessage(`{}`)
	if len(fc.Args) > 0 {
		if raw, err := json.Marshal(fc.Args); err == nil {
			args = raw
		}
	}
	return baton.ToolCallBlock{ID: id, Name: fc.Name, Arguments: args}
}

// mapStopReason normalizes a genai finish reason. A response carrying
// function calls is a tool-use stop regardless of the finish reason.
func mapStopReason(reason genai.FinishReason, toolUse bool) (baton.StopReason, string) {
	raw := string(reason)
	if raw == "" {
		raw = "end_turn"
	}
	switch {
	case toolUse:
		return baton.StopToolUse, raw
	case reason == genai.FinishReasonStop, reason == "":
		return baton.StopEndTurn, raw
	case reason == genai.FinishReasonMaxTokens:
		return baton.StopLength, raw
	default:
		return baton.StopUnknown, raw
	}
}

// convertUsage normalizes usage metadata: Gemini's prompt count includes
// cached tokens, so they are subtracted out (clamped at zero) to produce
// the non-cached InputTokens.
func convertUsage(meta *genai.GenerateContentResponseUsageMetadata) baton.Usage {
	if meta == nil {
		return baton.Usage{}
	}
	cached := int(meta.CachedContentTokenCount)
	input := int(meta.PromptTokenCount) - cached
	if input < 0 {
		input = 0
	}
	return baton.Usage{
		InputTokens:     input,
		OutputTokens:    int(meta.CandidatesTokenCount),
		CacheReadTokens: cached,
	}
}
