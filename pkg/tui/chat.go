package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Lazizkhan1/Easify/pkg/events"
)

// maxArgsPreview ограничивает длину аргументов инструмента в логе чата.
const maxArgsPreview = 120

// ChatConfig конфигурирует чат. Все поля опциональны.
type ChatConfig struct {
	// Title — заголовок в статус-баре.
	Title string

	// ModelName — имя модели в статус-баре.
	ModelName string

	// Scheme — имя цветовой схемы из ColorSchemes.
	Scheme string

	// Prompt — приглашение ввода.
	Prompt string

	// ShowTimestamp — показывать время у сообщений.
	ShowTimestamp bool

	// MaxMessages — лимит строк в логе (0 = безлимит).
	MaxMessages int
}

// Chat — Bubble Tea модель чата с ассистентом.
//
// Читает события из events.Subscriber, ввод пользователя отдаёт
// в callback OnInput. Бизнес-логики не содержит.
type Chat struct {
	config     ChatConfig
	subscriber events.Subscriber
	onInput    func(input string)
	styles     styles

	viewport  viewport.Model
	textinput textinput.Model
	spinner   spinner.Model

	messages []string
	busy     bool
	ready    bool
	width    int
}

// NewChat создаёт чат поверх подписчика на события агента.
func NewChat(sub events.Subscriber, cfg ChatConfig) *Chat {
	if cfg.Title == "" {
		cfg.Title = "Easify"
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "> "
	}

	scheme := GetColorScheme(cfg.Scheme)
	st := newStyles(scheme)

	ti := textinput.New()
	ti.Placeholder = "Введите запрос..."
	ti.Prompt = cfg.Prompt
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.toolCall

	vp := viewport.New(0, 0)

	c := &Chat{
		config:     cfg,
		subscriber: sub,
		styles:     st,
		viewport:   vp,
		textinput:  ti,
		spinner:    sp,
	}
	c.appendMessage(st.system.Render("Ассистент готов. Напишите запрос."), false)
	return c
}

// OnInput устанавливает callback для пользовательского ввода.
//
// Вызывается на Enter; callback выполняется в отдельной goroutine,
// чтобы не блокировать UI цикл.
func (c *Chat) OnInput(handler func(input string)) {
	c.onInput = handler
}

// Run запускает чат. Блокирует до выхода (Ctrl+C или Esc).
func (c *Chat) Run() error {
	p := tea.NewProgram(c, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// Init реализует tea.Model.
func (c *Chat) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		waitForEvent(c.subscriber),
	)
}

// Update реализует tea.Model.
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	c.textinput, tiCmd = c.textinput.Update(msg)
	c.viewport, vpCmd = c.viewport.Update(msg)
	if c.busy {
		c.spinner, spCmd = c.spinner.Update(msg)
	}

	switch msg := msg.(type) {
	case EventMsg:
		cmd := c.handleAgentEvent(events.Event(msg))
		return c, tea.Batch(cmd, spCmd)

	case tea.WindowSizeMsg:
		c.handleWindowSize(msg)
		return c, nil

	case tea.KeyMsg:
		return c.handleKeyPress(msg)
	}

	return c, tea.Batch(tiCmd, vpCmd, spCmd)
}

// View реализует tea.Model.
func (c *Chat) View() string {
	return fmt.Sprintf("%s\n%s\n%s",
		c.renderStatusBar(),
		c.viewport.View(),
		c.textinput.View(),
	)
}

// handleAgentEvent обновляет лог чата по событию агента.
func (c *Chat) handleAgentEvent(event events.Event) tea.Cmd {
	var spinCmd tea.Cmd

	switch event.Type {
	case events.EventThinking:
		c.busy = true
		spinCmd = c.spinner.Tick

	case events.EventToolCall:
		if data, ok := event.Data.(events.ToolCallData); ok {
			args := data.Args
			if len(args) > maxArgsPreview {
				args = args[:maxArgsPreview] + "…"
			}
			c.appendMessage(c.styles.toolCall.Render(fmt.Sprintf("⚙ %s(%s)", data.ToolName, args)), false)
		}

	case events.EventToolResult:
		if data, ok := event.Data.(events.ToolResultData); ok {
			line := fmt.Sprintf("✓ %s (%dms)", data.ToolName, data.Duration.Milliseconds())
			style := c.styles.toolResult
			if data.IsError {
				line = fmt.Sprintf("✗ %s (%dms)", data.ToolName, data.Duration.Milliseconds())
				style = c.styles.errMsg
			}
			c.appendMessage(style.Render(line), false)
		}

	case events.EventDone:
		if data, ok := event.Data.(events.MessageData); ok {
			c.appendMessage(c.styles.ai.Render("Asil: ")+data.Content, true)
		}
		c.busy = false
		c.textinput.Focus()

	case events.EventError:
		if data, ok := event.Data.(events.ErrorData); ok {
			c.appendMessage(c.styles.errMsg.Render("Ошибка: "+data.Err.Error()), true)
		}
		c.busy = false
		c.textinput.Focus()
	}

	return tea.Batch(waitForEvent(c.subscriber), spinCmd)
}

// handleWindowSize пересчитывает размеры областей.
func (c *Chat) handleWindowSize(msg tea.WindowSizeMsg) {
	c.width = msg.Width

	vpHeight := msg.Height - 3 // статус-бар + строка ввода
	if vpHeight < 1 {
		vpHeight = 1
	}
	c.viewport.Width = msg.Width
	c.viewport.Height = vpHeight
	c.textinput.Width = msg.Width - len(c.config.Prompt) - 1

	if !c.ready {
		c.ready = true
	}
	c.refreshViewport()
}

// handleKeyPress обрабатывает клавиши.
func (c *Chat) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return c, tea.Quit

	case tea.KeyEnter:
		input := strings.TrimSpace(c.textinput.Value())
		if input == "" {
			return c, nil
		}
		// Пока агент работает, новый запрос не принимается:
		// одна сессия обслуживает один логический запрос за раз
		if c.busy {
			return c, nil
		}

		c.textinput.Reset()
		c.appendMessage(c.styles.user.Render("Вы: ")+input, true)

		if c.onInput != nil {
			go c.onInput(input)
		}
		return c, c.spinner.Tick
	}

	return c, nil
}

// renderStatusBar рендерит верхнюю строку.
func (c *Chat) renderStatusBar() string {
	status := c.config.Title
	if c.config.ModelName != "" {
		status += " | " + c.config.ModelName
	}
	if c.busy {
		status += " | " + c.spinner.View() + "думаю..."
	}
	return c.styles.status.Render(status)
}

// appendMessage добавляет строку в лог и обновляет viewport.
func (c *Chat) appendMessage(msg string, showTimestamp bool) {
	line := msg
	if showTimestamp && c.config.ShowTimestamp {
		line = fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), msg)
	}

	c.messages = append(c.messages, line)
	if c.config.MaxMessages > 0 && len(c.messages) > c.config.MaxMessages {
		c.messages = c.messages[len(c.messages)-c.config.MaxMessages:]
	}
	c.refreshViewport()
}

// refreshViewport перекладывает лог в viewport с переносом длинных строк.
func (c *Chat) refreshViewport() {
	content := strings.Join(c.messages, "\n")
	if c.width > 0 {
		content = wordwrap.String(content, c.width)
	}
	setContentKeepScroll(&c.viewport, content)
}

var _ tea.Model = (*Chat)(nil)
