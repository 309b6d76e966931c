package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"pharmpal/internal/common"
	"pharmpal/internal/llm"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

const (
	toolStockQuantity    = "get_stock_quantity"
	toolExpiringMedicine = "find_expiring_medicines"

	defaultExpiryWindowDays = 30
	maxToolRounds           = 3
)

var assistantTools = []llm.Tool{
	{
		Name:        toolStockQuantity,
		Description: "Get the total quantity in stock for a medicine, looked up by (partial) name.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"medicine_name": map[string]any{
					"type":        "string",
					"description": "The medicine name, e.g. Paracetamol",
				},
			},
			"required": []string{"medicine_name"},
		},
	},
	{
		Name:        toolExpiringMedicine,
		Description: "List inventory batches that expire within the given number of days.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"days_limit": map[string]any{
					"type":        "integer",
					"description": "How many days ahead to look, e.g. 30",
				},
			},
			"required": []string{"days_limit"},
		},
	},
}

// AssistantService answers free-form stock questions using two read-only tools.
type AssistantService interface {
	Ask(ctx context.Context, userID uuid.UUID, question string) (string, error)
}

type assistantService struct {
	chat    llm.ChatCompleter
	catalog CatalogService
}

func NewAssistantService(chat llm.ChatCompleter, catalog CatalogService) AssistantService {
	return &assistantService{chat: chat, catalog: catalog}
}

func (s *assistantService) Ask(ctx context.Context, userID uuid.UUID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", common.Validation("query is required")
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: llm.AssistantSystemPrompt},
		{Role: llm.RoleUser, Content: question},
	}

	for round := 0; round < maxToolRounds; round++ {
		reply, err := s.chat.Complete(ctx, messages, assistantTools)
		if err != nil {
			return "", s.chatError(err)
		}
		if len(reply.ToolCalls) == 0 {
			return reply.Content, nil
		}

		messages = append(messages, reply)
		for _, call := range reply.ToolCalls {
			output, err := s.runTool(ctx, userID, call)
			if err != nil {
				return "", err
			}
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: call.ID,
				Name:       call.Name,
				Content:    output,
			})
		}
	}

	// Out of tool rounds; ask for a final answer without tools.
	reply, err := s.chat.Complete(ctx, messages, nil)
	if err != nil {
		return "", s.chatError(err)
	}
	return reply.Content, nil
}

func (s *assistantService) runTool(ctx context.Context, userID uuid.UUID, call llm.ToolCall) (string, error) {
	switch call.Name {
	case toolStockQuantity:
		var args struct {
			MedicineName string `json:"medicine_name"`
		}
		if err := decodeToolArgs(call.Arguments, &args); err != nil {
			return "", err
		}
		stock, err := s.catalog.TotalQuantity(ctx, userID, args.MedicineName)
		if common.IsKind(err, common.KindNotFound) {
			return fmt.Sprintf("Medicine '%s' not found.", args.MedicineName), nil
		}
		if err != nil {
			return "", err
		}
		return marshalToolOutput(stock)

	case toolExpiringMedicine:
		var args struct {
			DaysLimit json.Number `json:"days_limit"`
		}
		if err := decodeToolArgs(call.Arguments, &args); err != nil {
			return "", err
		}
		days := defaultExpiryWindowDays
		if args.DaysLimit != "" {
			n, err := strconv.Atoi(args.DaysLimit.String())
			if err != nil {
				return "", common.Validationf("days_limit must be a whole number, got %s", args.DaysLimit)
			}
			days = n
		}
		expiring, err := s.catalog.ExpiringWithin(ctx, userID, days)
		if err != nil {
			return "", err
		}
		if len(expiring) == 0 {
			return "No medicines are expiring soon.", nil
		}
		return marshalToolOutput(expiring)

	default:
		return "", common.Validationf("unknown tool %q", call.Name)
	}
}

func decodeToolArgs(raw string, dest any) error {
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return common.Validationf("invalid tool arguments: %s", raw)
	}
	return nil
}

func marshalToolOutput(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", common.Internal("Failed to encode tool result", err)
	}
	return string(data), nil
}

func (s *assistantService) chatError(err error) error {
	log.Errorf("assistant chat failed: %v", err)
	return common.Internal("The assistant is unavailable right now", err)
}
