// Единый конверт результата инструмента.
//
// Каждый инструмент возвращает LLM строку JSON одного из двух видов:
//
//	{"status": "success", "data": ...}
//	{"status": "error", "message": "..."}
//
// Ошибки API никогда не всплывают как Go-ошибки из Execute: модель должна
// увидеть текст проблемы и пересказать его пользователю. Go-ошибка из
// Execute означает только невалидный JSON аргументов от самой модели.
package tools

import (
	"encoding/json"
	"fmt"
)

// StatusSuccess и StatusError — допустимые значения поля status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ToolResult — конверт результата выполнения инструмента.
type ToolResult struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK упаковывает успешный результат в JSON-конверт.
//
// data может быть nil: тогда конверт содержит только статус
// (например, после удаления записи достаточно подтверждения).
func OK(data any) (string, error) {
	res := ToolResult{Status: StatusSuccess, Data: data}
	raw, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return string(raw), nil
}

// OKMessage упаковывает успех с человекочитаемым сообщением вместо данных.
func OKMessage(msg string) (string, error) {
	res := ToolResult{Status: StatusSuccess, Data: map[string]string{"message": msg}}
	raw, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return string(raw), nil
}

// IsErrorEnvelope сообщает несёт ли конверт ошибку.
//
// Используется UI и агентским циклом чтобы подсветить ошибку
// не разбирая data. Невалидный JSON считается ошибкой.
func IsErrorEnvelope(raw string) bool {
	var res ToolResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return true
	}
	return res.Status == StatusError
}

// Fail упаковывает ошибку в JSON-конверт. Никогда не возвращает Go-ошибку.
func Fail(format string, args ...any) string {
	res := ToolResult{Status: StatusError, Message: fmt.Sprintf(format, args...)}
	raw, err := json.Marshal(res)
	if err != nil {
		return `{"status":"error","message":"internal: failed to marshal error envelope"}`
	}
	return string(raw)
}
