// Package agent предоставляет простой API для запуска ассистента.
//
// Пакет реализует фасад над function-calling циклом: модель получает
// историю диалога и определения инструментов, решает какие инструменты
// вызвать, результаты возвращаются в историю, и так до финального
// текстового ответа.
//
// Basic usage:
//
//	client := agent.New(provider, registry, cfg, agent.Root())
//	sess := state.NewSession("console")
//	answer, _ := client.Run(ctx, sess, "Покажи все цветы")
package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/events"
	"github.com/Lazizkhan1/Easify/pkg/llm"
	"github.com/Lazizkhan1/Easify/pkg/state"
	"github.com/Lazizkhan1/Easify/pkg/tools"
	"github.com/Lazizkhan1/Easify/pkg/utils"
)

// defaultToolTimeout — защитный timeout выполнения инструмента.
// Переопределяется через tools.<name>.timeout в config.yaml.
const defaultToolTimeout = 30 * time.Second

// Client — фасад ассистента.
//
// Создаётся один раз на процесс; сессия пользователя приходит в каждый
// Run отдельно, поэтому один Client обслуживает много чатов.
//
// Thread-safe: все методы безопасны для параллельного вызова, но
// запросы одной сессии должны идти последовательно.
type Client struct {
	provider llm.Provider
	registry *tools.Registry
	config   *config.AppConfig
	def      Definition

	emitterMu sync.RWMutex
	emitter   events.Emitter
}

// New создаёт ассистента с указанным определением агента.
func New(provider llm.Provider, registry *tools.Registry, cfg *config.AppConfig, def Definition) *Client {
	return &Client{
		provider: provider,
		registry: registry,
		config:   cfg,
		def:      def,
	}
}

// SetEmitter устанавливает emitter для отправки событий.
//
// Port & Adapter: Client зависит от абстракции events.Emitter,
// а не от конкретного UI.
//
// Thread-safe.
func (c *Client) SetEmitter(emitter events.Emitter) {
	c.emitterMu.Lock()
	defer c.emitterMu.Unlock()
	c.emitter = emitter
}

// Subscribe возвращает Subscriber для чтения событий.
//
// Если emitter не установлен, создаёт ChanEmitter с буфером 100.
// Если через SetEmitter установлен сторонний emitter без поддержки
// подписки, возвращает nil: подписывайтесь у самого emitter.
//
// Thread-safe.
func (c *Client) Subscribe() events.Subscriber {
	c.emitterMu.Lock()
	defer c.emitterMu.Unlock()
	if c.emitter == nil {
		c.emitter = events.NewChanEmitter(100)
	}
	ch, ok := c.emitter.(*events.ChanEmitter)
	if !ok {
		return nil
	}
	return ch.Subscribe()
}

// Definition возвращает определение агента.
func (c *Client) Definition() Definition {
	return c.def
}

// Registry возвращает реестр инструментов для продвинутых сценариев.
func (c *Client) Registry() *tools.Registry {
	return c.registry
}

// Run выполняет запрос пользователя.
//
// Алгоритм:
//  1. Кладёт сессию в контекст, чтобы инструменты видели токен и мерчанта
//  2. Добавляет запрос в историю сессии
//  3. Крутит цикл: LLM → tool calls → результаты → LLM
//  4. Возвращает финальный текстовый ответ
//
// Цикл ограничен config app.max_iterations (дефолт 10): модель,
// зациклившаяся на вызовах инструментов, не повесит процесс.
func (c *Client) Run(ctx context.Context, sess *state.Session, query string) (string, error) {
	if c.provider == nil || c.registry == nil {
		err := fmt.Errorf("agent is not properly initialized")
		c.emitEvent(ctx, events.EventError, events.ErrorData{Err: err})
		return "", err
	}
	if sess == nil {
		sess = state.NewSession("anonymous")
	}
	ctx = state.WithSession(ctx, sess)

	c.emitEvent(ctx, events.EventThinking, events.ThinkingData{Query: query})
	utils.Info("Running agent query", "agent", c.def.Name, "session", sess.Key(), "query", query)

	defs, err := c.toolDefinitions()
	if err != nil {
		c.emitEvent(ctx, events.EventError, events.ErrorData{Err: err})
		return "", err
	}

	sess.AppendHistory(llm.Message{Role: llm.RoleUser, Content: query})

	maxIters := c.config.MaxIterations()
	for i := 0; i < maxIters; i++ {
		msgs := c.buildMessages(sess)

		resp, err := c.provider.Generate(ctx, msgs, defs)
		if err != nil {
			c.emitEvent(ctx, events.EventError, events.ErrorData{Err: err})
			utils.Error("LLM call failed", "agent", c.def.Name, "iteration", i, "error", err)
			return "", fmt.Errorf("llm call failed: %w", err)
		}

		sess.AppendHistory(resp)

		// Нет tool calls — это финальный ответ
		if len(resp.ToolCalls) == 0 {
			c.emitEvent(ctx, events.EventDone, events.MessageData{Content: resp.Content})
			utils.Info("Agent query completed", "agent", c.def.Name, "iterations", i+1)
			return resp.Content, nil
		}

		// Инструменты выполняются последовательно: один логический
		// запрос за раз, результаты уходят в историю по порядку
		for _, tc := range resp.ToolCalls {
			result := c.executeToolCall(ctx, tc)
			sess.AppendHistory(llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: tc.ID,
				Content:    result,
			})
		}
	}

	err = fmt.Errorf("max iterations (%d) reached without final answer", maxIters)
	c.emitEvent(ctx, events.EventError, events.ErrorData{Err: err})
	return "", err
}

// buildMessages собирает сообщения для LLM: системный промпт + история.
//
// Системный промпт не хранится в сессии: инструкция может меняться
// между релизами, а сохранённые сессии должны подхватывать новую.
func (c *Client) buildMessages(sess *state.Session) []llm.Message {
	history := sess.History()
	msgs := make([]llm.Message, 0, len(history)+1)
	if c.def.Instruction != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: c.def.Instruction})
	}
	return append(msgs, history...)
}

// toolDefinitions возвращает определения инструментов агента.
//
// Имена из Definition, которых нет в реестре, пропускаются:
// upload_photo выпадает когда хранилище фото не настроено.
func (c *Client) toolDefinitions() ([]tools.ToolDefinition, error) {
	if len(c.def.Tools) == 0 {
		return c.registry.GetDefinitions(), nil
	}

	registered := make(map[string]bool)
	for _, name := range c.registry.Names() {
		registered[name] = true
	}

	var available []string
	for _, name := range c.def.Tools {
		if registered[name] {
			available = append(available, name)
		}
	}
	if len(available) == 0 {
		return nil, fmt.Errorf("agent '%s': none of its tools are registered", c.def.Name)
	}

	return c.registry.Subset(available)
}

// executeToolCall выполняет один tool call и возвращает строку для истории.
//
// Ошибки выполнения не прерывают цикл: модель получает текст ошибки
// и решает что делать дальше. Каждый инструмент ограничен timeout,
// зависший API не повесит агента.
func (c *Client) executeToolCall(ctx context.Context, tc llm.ToolCall) string {
	start := time.Now()
	cleanArgs := utils.CleanJsonBlock(tc.Args)

	c.emitEvent(ctx, events.EventToolCall, events.ToolCallData{ToolName: tc.Name, Args: cleanArgs})

	tool, err := c.registry.Get(tc.Name)
	if err != nil {
		result := fmt.Sprintf("Error: tool not found: %s", tc.Name)
		c.emitToolResult(ctx, tc.Name, result, true, time.Since(start))
		return result
	}

	timeout := defaultToolTimeout
	if toolCfg, ok := c.config.Tools[tc.Name]; ok && toolCfg.Timeout > 0 {
		timeout = toolCfg.Timeout
	}

	toolCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type execResult struct {
		output string
		err    error
	}
	resultChan := make(chan execResult, 1)

	// Выполняем в отдельной goroutine: зависший инструмент
	// отменяется по timeout, а не блокирует цикл
	go func() {
		output, execErr := tool.Execute(toolCtx, cleanArgs)
		resultChan <- execResult{output, execErr}
	}()

	select {
	case <-toolCtx.Done():
		var result string
		if toolCtx.Err() == context.DeadlineExceeded {
			result = fmt.Sprintf("Tool %q exceeded timeout of %v. Either the tool is stuck or the API response is slow.", tc.Name, timeout)
			utils.Warn("Tool execution timeout", "tool", tc.Name, "timeout", timeout)
		} else {
			result = "Tool execution was cancelled"
		}
		c.emitToolResult(ctx, tc.Name, result, true, time.Since(start))
		return result

	case res := <-resultChan:
		if res.err != nil {
			result := fmt.Sprintf("Error: %v", res.err)
			utils.Warn("Tool execution failed", "tool", tc.Name, "error", res.err)
			c.emitToolResult(ctx, tc.Name, result, true, time.Since(start))
			return result
		}
		c.emitToolResult(ctx, tc.Name, res.output, tools.IsErrorEnvelope(res.output), time.Since(start))
		utils.Debug("Tool executed", "tool", tc.Name, "duration_ms", time.Since(start).Milliseconds())
		return res.output
	}
}

// emitToolResult отправляет EventToolResult.
func (c *Client) emitToolResult(ctx context.Context, name, result string, isError bool, duration time.Duration) {
	c.emitEvent(ctx, events.EventToolResult, events.ToolResultData{
		ToolName: name,
		Result:   result,
		IsError:  isError,
		Duration: duration,
	})
}

// emitEvent отправляет событие через emitter если он установлен.
//
// Thread-safe.
func (c *Client) emitEvent(ctx context.Context, typ events.EventType, data events.EventData) {
	c.emitterMu.RLock()
	defer c.emitterMu.RUnlock()
	if c.emitter == nil {
		return
	}
	c.emitter.Emit(ctx, events.Event{Type: typ, Data: data, Timestamp: time.Now()})
}
