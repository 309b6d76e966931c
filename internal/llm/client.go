package llm

import (
	"context"
	"io"
)

// Transcriber turns recorded speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// FieldExtractor asks a language model for a flat JSON object describing a
// medicine mentioned in a transcript. The result is untrusted.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, transcript string) (map[string]any, error)
}

// ChatCompleter runs one chat completion turn with optional tools.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []Message, tools []Tool) (Message, error)
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	Name       string
}

type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Tool describes a function the model may call. Parameters is a JSON schema.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}
