package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/batonkit/baton"
)

// Interface compliance check.
var _ baton.Model = (*Client)(nil)

// Client implements [baton.Model] for the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithModel sets the model used when a request's Params name none.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates an Anthropic [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate sends one non-streaming request to the Messages API and
// returns the complete assistant message.
func (c *Client) Generate(ctx context.Context, req baton.Request) (baton.AssistantMessage, error) {
	body, err := c.buildRequestBody(req)
	if err != nil {
		return baton.AssistantMessage{}, fmt.Errorf("anthropic: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return baton.AssistantMessage{}, fmt.Errorf("anthropic: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return baton.AssistantMessage{}, fmt.Errorf("anthropic: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return baton.AssistantMessage{}, parseHTTPError(resp)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return baton.AssistantMessage{}, fmt.Errorf("anthropic: decode response: %w", err)
	}
	return convertResponse(apiResp), nil
}

func (c *Client) buildRequestBody(req baton.Request) ([]byte, error) {
	model := req.Params.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.Params.MaxTokens
	if maxTokens == 0 {
		maxTokens = baton.DefaultMaxTokens
	}

	apiReq := apiRequest{
		Model:         model,
		MaxTokens:     maxTokens,
		Stream:        false,
		System:        convertSystem(req.Messages),
		Messages:      convertMessages(req.Messages),
		Tools:         convertCommands(req.Commands),
		Temperature:   req.Params.Temperature,
		TopP:          req.Params.TopP,
		StopSequences: req.Params.Stop,
	}
	injectCacheMarkers(&apiReq)

	return json.Marshal(apiReq)
}

// convertSystem collects system messages into the request's system
// blocks, in history order. Returns nil when there are none.
func convertSystem(msgs []baton.Message) []apiContentBlock {
	var blocks []apiContentBlock
	for _, msg := range msgs {
		if sm, ok := msg.(baton.SystemMessage); ok {
			if text := sm.Text(); text != "" {
				blocks = append(blocks, apiContentBlock{Type: "text", Text: text})
			}
		}
	}
	return blocks
}

// injectCacheMarkers sets cache_control breakpoints on the request:
//  1. Top-level: automatic caching for the conversation message window.
//  2. System prompt last block: stable content breakpoint.
//  3. Last tool: stable tool definitions breakpoint.
func injectCacheMarkers(req *apiRequest) {
	// cc is shared across all breakpoints; safe because it is read-only after assignment.
	cc := &apiCacheControl{Type: "ephemeral"}

	// Top-level cache_control for automatic message-window caching.
	req.CacheControl = cc

	// System prompt last block.
	if len(req.System) > 0 {
		req.System[len(req.System)-1].CacheControl = cc
	}

	// Last tool.
	if len(req.Tools) > 0 {
		req.Tools[len(req.Tools)-1].CacheControl = cc
	}
}

func convertMessages(msgs []baton.Message) []apiMessage {
	var result []apiMessage
	for _, msg := range msgs {
		switch m := msg.(type) {
		case baton.UserMessage:
			result = append(result, apiMessage{
				Role:    "user",
				Content: convertContentBlocks(m.Content),
			})
		case baton.AssistantMessage:
			result = append(result, apiMessage{
				Role:    "assistant",
				Content: convertContentBlocks(m.Content),
			})
		case baton.ToolResultMessage:
			block := apiContentBlock{
				Type:      "tool_result",
				ToolUseID: m.ToolCallID,
				Content:   convertContentBlocks(m.Content),
				IsError:   m.IsError,
			}
			// Merge consecutive tool results into the same user message.
			if n := len(result); n > 0 && result[n-1].Role == "user" && isToolResultMessage(result[n-1]) {
				result[n-1].Content = append(result[n-1].Content, block)
			} else {
				result = append(result, apiMessage{
					Role:    "user",
					Content: []apiContentBlock{block},
				})
			}
		}
	}
	return result
}

func isToolResultMessage(msg apiMessage) bool {
	return len(msg.Content) > 0 && msg.Content[0].Type == "tool_result"
}

func convertContentBlocks(blocks []baton.ContentBlock) []apiContentBlock {
	result := make([]apiContentBlock, 0, len(blocks))
	for _, b := range blocks {
		switch bl := b.(type) {
		case baton.TextBlock:
			result = append(result, apiContentBlock{Type: "text", Text: bl.Text})
		case baton.ThinkingBlock:
			result = append(result, apiContentBlock{Type: "thinking", Thinking: bl.Thinking})
		case baton.ToolCallBlock:
			result = append(result, apiContentBlock{Type: "tool_use", ID: bl.ID, Name: bl.Name, Input: bl.Arguments})
		}
	}
	return result
}

func convertCommands(specs []baton.CommandSpec) []apiTool {
	if len(specs) == 0 {
		return nil
	}
	result := make([]apiTool, len(specs))
	for i, spec := range specs {
		result[i] = apiTool{
			Name:        spec.Name,
			Description: spec.Description,
			InputSchema: schemaJSON(spec.Input),
		}
	}
	return result
}

// schemaJSON renders a schema for the input_schema field. The API
// requires the field, so a missing schema becomes the permissive object.
func schemaJSON(schema *jsonschema.Schema) json.RawMessage {
	if schema == nil {
		return json.RawMessage(`{"type":"object"}`)
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return json.RawMessage(`{"type":"object"}`)
	}
	return raw
}

// convertResponse maps the API response onto an assistant message.
// Unknown block types are dropped.
func convertResponse(resp apiResponse) baton.AssistantMessage {
	msg := baton.AssistantMessage{
		StopReason:    mapStopReason(resp.StopReason),
		RawStopReason: resp.StopReason,
		Usage: baton.Usage{
			InputTokens:      resp.Usage.InputTokens,
			OutputTokens:     resp.Usage.OutputTokens,
			CacheReadTokens:  resp.Usage.CacheReadInputTokens,
			CacheWriteTokens: resp.Usage.CacheCreationInputTokens,
		},
		Meta: baton.NewMeta("anthropic"),
	}
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			msg.Content = append(msg.Content, baton.TextBlock{Text: block.Text})
		case "thinking":
			msg.Content = append(msg.Content, baton.ThinkingBlock{Thinking: block.Thinking})
		case "tool_use":
			args := block.Input
			if len(args) == 0 {
				args = json.RawMessage(`{}`)
			}
			msg.Content = append(msg.Content, baton.ToolCallBlock{ID: block.ID, Name: block.Name, Arguments: args})
		}
	}
	return msg
}

func mapStopReason(raw string) baton.StopReason {
	switch raw {
	case "end_turn":
		return baton.StopEndTurn
	case "max_tokens":
		return baton.StopLength
	case "tool_use":
		return baton.StopToolUse
	default:
		return baton.StopUnknown
	}
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anthropic: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return fmt.Errorf("anthropic: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return fmt.Errorf("anthropic: %s: %s", apiErr.Error.Type, apiErr.Error.Message)
}
