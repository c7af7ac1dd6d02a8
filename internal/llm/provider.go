// Package llm provides the LLM provider abstraction used by the domain
// agents, the synthesizer, and the critic for constrained JSON reasoning.
package llm

import (
	"context"
	"encoding/json"
)

// Message represents a conversation message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// ToolUse is set when the assistant wants to call a tool.
	ToolUse []ToolUseBlock `json:"tool_use,omitempty"`

	// ToolResult provides tool execution results (multiple for parallel calls).
	ToolResult []ToolResultBlock `json:"tool_result,omitempty"`
}

// Role represents the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolUseBlock represents a tool call request from the model.
type ToolUseBlock struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// ToolResultBlock represents the result of a tool execution.
type ToolResultBlock struct {
	ToolUseID string `json:"tool_use_id"`
	Content   string `json:"content"`
	IsError   bool   `json:"is_error,omitempty"`
}

// ToolDefinition defines a tool that can be called by the model.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// Response represents the model's response.
type Response struct {
	Content    string
	ToolCalls  []ToolUseBlock
	StopReason StopReason
	Usage      Usage
}

// StopReason indicates why the model stopped generating.
type StopReason string

const (
	StopReasonEndTurn   StopReason = "end_turn"
	StopReasonToolUse   StopReason = "tool_use"
	StopReasonMaxTokens StopReason = "max_tokens"
	StopReasonError     StopReason = "error"
)

// Usage contains token usage information for one call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Provider defines the interface for LLM providers. Every domain agent,
// the synthesizer, and the critic depend on this interface, never on a
// concrete provider, so tests can substitute a canned responder.
type Provider interface {
	// Chat sends messages to the model and returns the complete response.
	// Tools are optional.
	Chat(ctx context.Context, systemPrompt string, messages []Message, tools []ToolDefinition) (*Response, error)

	// Name returns the provider name for logging.
	Name() string

	// Model returns the model identifier being used.
	Model() string
}

// Config contains common provider configuration.
type Config struct {
	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness; diagnostic reasoning wants 0.
	Temperature float64
}

// DefaultConfig returns sensible defaults for constrained diagnostic reasoning.
func DefaultConfig() Config {
	return Config{
		Model:       "claude-sonnet-4-5-20250929",
		MaxTokens:   4096,
		Temperature: 0.0,
	}
}

// SimpleChat is a convenience wrapper for the common case used throughout
// this module: a single-turn prompt against a system instruction, with no
// tool use and no conversation history. It is what the domain agents, the
// synthesizer, and the critic call.
func SimpleChat(ctx context.Context, p Provider, systemPrompt, prompt string) (*Response, error) {
	return p.Chat(ctx, systemPrompt, []Message{{Role: RoleUser, Content: prompt}}, nil)
}

// ExtractJSONObject locates the first '{' and the last '}' in text and
// returns the substring between them (inclusive). Every LLM call site in
// this module parses output this way rather than trusting free-form prose;
// callers json.Unmarshal the result and fall back to an empty structured
// value on error. Returns ok=false if no brace pair is found.
func ExtractJSONObject(text string) (string, bool) {
	start := -1
	end := -1
	for i, r := range text {
		if r == '{' && start == -1 {
			start = i
		}
		if r == '}' {
			end = i
		}
	}
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
