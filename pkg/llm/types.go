// Базовые типы - универсальный язык общения с моделями.
package llm

// Role — роль участника диалога.
type Role string

// Константы ролей для удобства.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message — одно сообщение диалога.
//
// Унифицированный формат для всех провайдеров. ToolCalls заполняется
// когда модель решила вызвать инструменты; ToolCallID — когда сообщение
// является результатом выполнения инструмента (Role == RoleTool).
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// ToolCall — запрос модели на вызов инструмента.
type ToolCall struct {
	ID   string // Идентификатор вызова (для сопоставления с результатом)
	Name string // Имя инструмента из реестра
	Args string // Сырой JSON с аргументами
}
