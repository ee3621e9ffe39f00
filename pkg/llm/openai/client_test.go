package openai

import (
	"testing"

	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/llm"
	"github.com/Lazizkhan1/Easify/pkg/tools"
)

// TestNewClient тестирует создание клиента.
func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		modelDef config.ModelDef
	}{
		{
			name: "minimal config",
			modelDef: config.ModelDef{
				APIKey:    "test-key",
				ModelName: "gpt-4o-mini",
			},
		},
		{
			name: "with custom base url",
			modelDef: config.ModelDef{
				APIKey:    "test-key",
				ModelName: "glm-4",
				BaseURL:   "https://api.z.ai/v4",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.modelDef)
			if client == nil {
				t.Fatal("expected non-nil client")
			}
			if client.model != tt.modelDef.ModelName {
				t.Errorf("expected model %s, got %s", tt.modelDef.ModelName, client.model)
			}
			if client.api == nil {
				t.Error("expected non-nil api client")
			}
		})
	}
}

// TestConvertToolsToOpenAI тестирует конвертацию tools.
func TestConvertToolsToOpenAI(t *testing.T) {
	input := []tools.ToolDefinition{
		{
			Name:        "create_flower",
			Description: "Создает новый цветок",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":        "object",
						"description": "Название цветка на нескольких языках",
					},
				},
			},
		},
		{
			Name:        "search_feed",
			Description: "Поиск товаров",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}

	result := convertToolsToOpenAI(input)

	if len(result) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(result))
	}

	if result[0].Type != "function" {
		t.Errorf("expected type function, got %s", result[0].Type)
	}
	if result[0].Function.Name != "create_flower" {
		t.Errorf("expected name create_flower, got %s", result[0].Function.Name)
	}
	if result[0].Function.Parameters == nil {
		t.Error("expected non-nil parameters")
	}
	if result[1].Function.Name != "search_feed" {
		t.Errorf("expected name search_feed, got %s", result[1].Function.Name)
	}
}

// TestMapToOpenAI тестирует конвертацию сообщений с tool calls.
func TestMapToOpenAI(t *testing.T) {
	// Assistant-сообщение с tool call
	assistant := llm.Message{
		Role: llm.RoleAssistant,
		ToolCalls: []llm.ToolCall{
			{ID: "call_1", Name: "get_flowers", Args: `{"search":"rose"}`},
		},
	}

	mapped := mapToOpenAI(assistant)
	if len(mapped.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(mapped.ToolCalls))
	}
	if mapped.ToolCalls[0].Function.Name != "get_flowers" {
		t.Errorf("unexpected function name: %s", mapped.ToolCalls[0].Function.Name)
	}

	// Tool-сообщение с результатом
	toolMsg := llm.Message{
		Role:       llm.RoleTool,
		ToolCallID: "call_1",
		Content:    `{"status":"success"}`,
	}

	mapped = mapToOpenAI(toolMsg)
	if mapped.ToolCallID != "call_1" {
		t.Errorf("expected tool_call_id call_1, got %s", mapped.ToolCallID)
	}
	if mapped.Content != `{"status":"success"}` {
		t.Errorf("unexpected content: %s", mapped.Content)
	}
}
