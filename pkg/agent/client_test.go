package agent

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/events"
	"github.com/Lazizkhan1/Easify/pkg/llm"
	"github.com/Lazizkhan1/Easify/pkg/state"
	"github.com/Lazizkhan1/Easify/pkg/tools"
)

// scriptedProvider возвращает заготовленные ответы по очереди.
type scriptedProvider struct {
	responses []llm.Message
	call      int
	lastMsgs  []llm.Message
	lastTools any
}

func (p *scriptedProvider) Generate(ctx context.Context, messages []llm.Message, toolsArgs ...any) (llm.Message, error) {
	p.lastMsgs = messages
	if len(toolsArgs) > 0 {
		p.lastTools = toolsArgs[0]
	}
	if p.call >= len(p.responses) {
		return llm.Message{}, fmt.Errorf("no more scripted responses")
	}
	resp := p.responses[p.call]
	p.call++
	return resp, nil
}

// echoTool возвращает свои аргументы и запоминает сессию из контекста.
type echoTool struct {
	name     string
	sessKey  string
	execute  func(ctx context.Context, args string) (string, error)
	executed int
}

func (t *echoTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        t.name,
		Description: "test tool",
		Parameters: tools.JSONSchema{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}
}

func (t *echoTool) Execute(ctx context.Context, args string) (string, error) {
	t.executed++
	if sess := state.FromContext(ctx); sess != nil {
		t.sessKey = sess.Key()
	}
	if t.execute != nil {
		return t.execute(ctx, args)
	}
	return tools.OK(map[string]string{"echo": args})
}

func newTestClient(t *testing.T, provider llm.Provider, toolList ...tools.Tool) *Client {
	t.Helper()
	reg := tools.NewRegistry()
	for _, tool := range toolList {
		if err := reg.Register(tool); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}
	cfg := &config.AppConfig{}
	return New(provider, reg, cfg, Definition{Name: "test", Instruction: "system prompt"})
}

func TestRunPlainAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Message{
		{Role: llm.RoleAssistant, Content: "Привет, я ассистент."},
	}}
	client := newTestClient(t, provider, &echoTool{name: "echo"})
	sess := state.NewSession("chat-1")

	answer, err := client.Run(context.Background(), sess, "привет")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if answer != "Привет, я ассистент." {
		t.Errorf("answer = %q", answer)
	}

	// Системный промпт уходит в LLM, но не сохраняется в истории сессии
	if provider.lastMsgs[0].Role != llm.RoleSystem {
		t.Errorf("первое сообщение должно быть system, получено %s", provider.lastMsgs[0].Role)
	}
	history := sess.History()
	if len(history) != 2 {
		t.Fatalf("история = %d сообщений, ожидалось 2 (user+assistant)", len(history))
	}
	if history[0].Role != llm.RoleUser || history[1].Role != llm.RoleAssistant {
		t.Errorf("роли истории = %s, %s", history[0].Role, history[1].Role)
	}
}

func TestRunExecutesToolCalls(t *testing.T) {
	tool := &echoTool{name: "echo"}
	provider := &scriptedProvider{responses: []llm.Message{
		{
			Role: llm.RoleAssistant,
			ToolCalls: []llm.ToolCall{
				{ID: "call-1", Name: "echo", Args: `{"x":1}`},
			},
		},
		{Role: llm.RoleAssistant, Content: "готово"},
	}}
	client := newTestClient(t, provider, tool)
	sess := state.NewSession("chat-2")

	answer, err := client.Run(context.Background(), sess, "вызови инструмент")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if answer != "готово" {
		t.Errorf("answer = %q", answer)
	}
	if tool.executed != 1 {
		t.Errorf("инструмент выполнен %d раз", tool.executed)
	}
	// Сессия доступна инструменту через контекст
	if tool.sessKey != "chat-2" {
		t.Errorf("ключ сессии в инструменте = %q", tool.sessKey)
	}

	// Результат инструмента привязан к вызову
	history := sess.History()
	var toolMsg *llm.Message
	for i := range history {
		if history[i].Role == llm.RoleTool {
			toolMsg = &history[i]
		}
	}
	if toolMsg == nil {
		t.Fatal("в истории нет tool сообщения")
	}
	if toolMsg.ToolCallID != "call-1" {
		t.Errorf("ToolCallID = %q", toolMsg.ToolCallID)
	}
	if !strings.Contains(toolMsg.Content, `"status":"success"`) {
		t.Errorf("содержимое tool сообщения: %s", toolMsg.Content)
	}
}

func TestRunUnknownToolFeedsErrorBack(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Message{
		{
			Role:      llm.RoleAssistant,
			ToolCalls: []llm.ToolCall{{ID: "call-1", Name: "no_such_tool", Args: `{}`}},
		},
		{Role: llm.RoleAssistant, Content: "не вышло"},
	}}
	client := newTestClient(t, provider, &echoTool{name: "echo"})
	client.def.Tools = nil // все инструменты
	sess := state.NewSession("chat-3")

	if _, err := client.Run(context.Background(), sess, "q"); err != nil {
		t.Fatalf("ошибка инструмента не должна прерывать цикл: %v", err)
	}

	history := sess.History()
	for _, m := range history {
		if m.Role == llm.RoleTool && strings.Contains(m.Content, "tool not found") {
			return
		}
	}
	t.Error("модель должна получить текст 'tool not found'")
}

func TestRunMaxIterations(t *testing.T) {
	// Модель бесконечно зовёт инструмент
	looping := llm.Message{
		Role:      llm.RoleAssistant,
		ToolCalls: []llm.ToolCall{{ID: "c", Name: "echo", Args: `{}`}},
	}
	responses := make([]llm.Message, 20)
	for i := range responses {
		responses[i] = looping
	}
	provider := &scriptedProvider{responses: responses}

	client := newTestClient(t, provider, &echoTool{name: "echo"})
	client.config.App.MaxIterations = 3

	_, err := client.Run(context.Background(), state.NewSession("chat-4"), "q")
	if err == nil || !strings.Contains(err.Error(), "max iterations") {
		t.Fatalf("err = %v, ожидался лимит итераций", err)
	}
	if provider.call != 3 {
		t.Errorf("LLM вызвана %d раз, ожидалось 3", provider.call)
	}
}

func TestRunToolTimeout(t *testing.T) {
	slow := &echoTool{
		name: "slow",
		execute: func(ctx context.Context, args string) (string, error) {
			select {
			case <-time.After(2 * time.Second):
				return tools.OK(nil)
			case <-ctx.Done():
				return "", ctx.Err()
			}
		},
	}
	provider := &scriptedProvider{responses: []llm.Message{
		{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{{ID: "c", Name: "slow", Args: `{}`}}},
		{Role: llm.RoleAssistant, Content: "ok"},
	}}

	client := newTestClient(t, provider, slow)
	client.config.Tools = map[string]config.ToolConfig{
		"slow": {Enabled: true, Timeout: 50 * time.Millisecond},
	}

	start := time.Now()
	if _, err := client.Run(context.Background(), state.NewSession("chat-5"), "q"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("timeout не сработал, Run ждал инструмент слишком долго")
	}
}

func TestToolDefinitionsSkipsUnregistered(t *testing.T) {
	client := newTestClient(t, &scriptedProvider{}, &echoTool{name: "echo"})
	// upload_photo в определении есть, в реестре нет
	client.def.Tools = []string{"echo", "upload_photo"}

	defs, err := client.toolDefinitions()
	if err != nil {
		t.Fatalf("toolDefinitions() error = %v", err)
	}
	if len(defs) != 1 || defs[0].Name != "echo" {
		t.Errorf("defs = %+v", defs)
	}
}

func TestRunEmitsEvents(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Message{
		{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{{ID: "c", Name: "echo", Args: `{}`}}},
		{Role: llm.RoleAssistant, Content: "финал"},
	}}
	client := newTestClient(t, provider, &echoTool{name: "echo"})

	emitter := events.NewChanEmitter(16)
	client.SetEmitter(emitter)
	sub := emitter.Subscribe()

	if _, err := client.Run(context.Background(), state.NewSession("chat-6"), "q"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	emitter.Close()

	var types []events.EventType
	for ev := range sub.Events() {
		types = append(types, ev.Type)
	}

	want := []events.EventType{
		events.EventThinking,
		events.EventToolCall,
		events.EventToolResult,
		events.EventDone,
	}
	if len(types) != len(want) {
		t.Fatalf("события = %v, ожидалось %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("событие[%d] = %s, ожидалось %s", i, types[i], want[i])
		}
	}
}

func TestRootDefinitionCoversAllDomains(t *testing.T) {
	root := Root()

	for _, name := range []string{
		"create_flower", "get_bouquets", "update_consumable",
		"search_feed", "create_order", "create_supply", "refresh_token",
	} {
		found := false
		for _, tool := range root.Tools {
			if tool == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("в корневом определении нет инструмента %s", name)
		}
	}

	if !strings.Contains(root.Instruction, "Asil") {
		t.Error("инструкция должна представлять ассистента")
	}
}

// nopEmitter — сторонний emitter без поддержки подписки.
type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, events.Event) {}

func TestSubscribeWithForeignEmitter(t *testing.T) {
	provider := &scriptedProvider{}
	client := newTestClient(t, provider)

	client.SetEmitter(nopEmitter{})

	if sub := client.Subscribe(); sub != nil {
		t.Errorf("Subscribe() = %v, ожидался nil для стороннего emitter", sub)
	}
}
