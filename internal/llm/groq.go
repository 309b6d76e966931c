package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/labstack/gommon/log"
	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL         = "https://api.groq.com/openai/v1"
	DefaultChatModel       = "llama-3.1-8b-instant"
	DefaultTranscribeModel = "whisper-large-v3"

	// go-openai omits a zero temperature; the provider treats 1e-8 as greedy decoding.
	deterministicTemperature float32 = 1e-8
)

// GroqClient talks to an OpenAI-compatible endpoint (Groq by default) for
// transcription, field extraction and tool-calling chat.
type GroqClient struct {
	client          *openai.Client
	chatModel       string
	transcribeModel string
}

type GroqConfig struct {
	APIKey          string
	BaseURL         string
	ChatModel       string
	TranscribeModel string
}

func NewGroqClient(cfg GroqConfig) *GroqClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.TranscribeModel == "" {
		cfg.TranscribeModel = DefaultTranscribeModel
	}
	return &GroqClient{
		client:          openai.NewClientWithConfig(clientCfg),
		chatModel:       cfg.ChatModel,
		transcribeModel: cfg.TranscribeModel,
	}
}

func (g *GroqClient) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	resp, err := g.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    g.transcribeModel,
		FilePath: filename,
		Reader:   audio,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func (g *GroqClient) ExtractFields(ctx context.Context, transcript string) (map[string]any, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.chatModel,
		Temperature: deterministicTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildFieldExtractionPrompt(transcript)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("field extraction request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("field extraction returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	log.Debugf("field extraction output: %s", raw)
	return DecodeFieldMap(raw)
}

func (g *GroqClient) Complete(ctx context.Context, messages []Message, tools []Tool) (Message, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.chatModel,
		Temperature: deterministicTemperature,
		Messages:    toOpenAIMessages(messages),
	}
	if len(tools) > 0 {
		req.Tools = toOpenAITools(tools)
		req.ToolChoice = "auto"
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Message{}, fmt.Errorf("chat completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Message{}, errors.New("chat completion returned no choices")
	}
	return fromOpenAIMessage(resp.Choices[0].Message), nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msg := openai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
			Name:       m.Name,
		}
		for _, call := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			})
		}
		out = append(out, msg)
	}
	return out
}

func toOpenAITools(tools []Tool) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}

func fromOpenAIMessage(m openai.ChatCompletionMessage) Message {
	msg := Message{Role: m.Role, Content: m.Content}
	for _, call := range m.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return msg
}
