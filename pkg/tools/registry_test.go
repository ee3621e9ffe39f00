package tools

import (
	"context"
	"testing"
)

// stubTool — простой инструмент для тестов реестра.
type stubTool struct {
	def ToolDefinition
}

func (s *stubTool) Definition() ToolDefinition {
	return s.def
}

func (s *stubTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	return `{"status":"success"}`, nil
}

func validDef(name string) ToolDefinition {
	return ToolDefinition{
		Name:        name,
		Description: "test tool",
		Parameters: JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{"type": "integer"},
			},
			"required": []string{"id"},
		},
	}
}

func TestValidateToolDefinition(t *testing.T) {
	tests := []struct {
		name    string
		def     ToolDefinition
		wantErr bool
	}{
		{
			name:    "валидное определение",
			def:     validDef("get_flower"),
			wantErr: false,
		},
		{
			name:    "пустое имя",
			def:     ToolDefinition{Parameters: JSONSchema{"type": "object"}},
			wantErr: true,
		},
		{
			name:    "nil parameters",
			def:     ToolDefinition{Name: "x"},
			wantErr: true,
		},
		{
			name:    "type не object",
			def:     ToolDefinition{Name: "x", Parameters: JSONSchema{"type": "string"}},
			wantErr: true,
		},
		{
			name:    "отсутствует type",
			def:     ToolDefinition{Name: "x", Parameters: JSONSchema{"properties": map[string]any{}}},
			wantErr: true,
		},
		{
			name: "required не массив",
			def: ToolDefinition{Name: "x", Parameters: JSONSchema{
				"type":     "object",
				"required": "id",
			}},
			wantErr: true,
		},
		{
			name: "required содержит не-строку",
			def: ToolDefinition{Name: "x", Parameters: JSONSchema{
				"type":     "object",
				"required": []any{"id", 42},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateToolDefinition(tt.def)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateToolDefinition() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&stubTool{def: validDef("get_flower")}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Дубликаты запрещены
	if err := r.Register(&stubTool{def: validDef("get_flower")}); err == nil {
		t.Error("ожидалась ошибка при повторной регистрации")
	}

	tool, err := r.Get("get_flower")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if tool.Definition().Name != "get_flower" {
		t.Errorf("имя = %s, ожидалось get_flower", tool.Definition().Name)
	}

	if _, err := r.Get("unknown"); err == nil {
		t.Error("ожидалась ошибка для незарегистрированного инструмента")
	}
}

func TestRegistryDefinitionsOrderStable(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zebra", "alpha", "middle"} {
		if err := r.Register(&stubTool{def: validDef(name)}); err != nil {
			t.Fatalf("Register(%s) error = %v", name, err)
		}
	}

	defs := r.GetDefinitions()
	want := []string{"alpha", "middle", "zebra"}
	if len(defs) != len(want) {
		t.Fatalf("len(defs) = %d, ожидалось %d", len(defs), len(want))
	}
	for i, w := range want {
		if defs[i].Name != w {
			t.Errorf("defs[%d].Name = %s, ожидалось %s", i, defs[i].Name, w)
		}
	}
}

func TestRegistrySubset(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"get_flower", "create_flower"} {
		if err := r.Register(&stubTool{def: validDef(name)}); err != nil {
			t.Fatalf("Register(%s) error = %v", name, err)
		}
	}

	defs, err := r.Subset([]string{"create_flower"})
	if err != nil {
		t.Fatalf("Subset() error = %v", err)
	}
	if len(defs) != 1 || defs[0].Name != "create_flower" {
		t.Errorf("Subset() вернул %v", defs)
	}

	if _, err := r.Subset([]string{"no_such_tool"}); err == nil {
		t.Error("ожидалась ошибка для неизвестного имени")
	}
}
