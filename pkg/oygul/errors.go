package oygul

import (
	"encoding/json"
	"fmt"
)

// ErrorKind представляет тип ошибки при работе с OyGul API.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindValidation
	KindAuth
	KindServer
	KindNetwork
	KindBadBody
)

// String возвращает строковое представление типа ошибки.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindAuth:
		return "authentication_failed"
	case KindServer:
		return "server_error"
	case KindNetwork:
		return "network_error"
	case KindBadBody:
		return "bad_body"
	default:
		return "unknown"
	}
}

// APIError — ошибка уровня OyGul API с классификацией по типу.
//
// StatusCode равен 0 для сетевых ошибок (запрос не дошёл до сервера).
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("oygul api: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("oygul api: %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
}

// classifyStatus сопоставляет HTTP статус с типом ошибки.
func classifyStatus(status int) ErrorKind {
	switch {
	case status == 404:
		return KindNotFound
	case status == 400 || status == 422:
		return KindValidation
	case status == 401 || status == 403:
		return KindAuth
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// errorBody — известные формы тела ошибки OyGul API.
type errorBody struct {
	Message      string `json:"message"`
	ErrorMessage string `json:"error_message"`
	Detail       string `json:"detail"`
}

// extractMessage достаёт человекочитаемое сообщение из тела ошибки.
//
// Пробует известные поля, иначе возвращает сырое тело целиком.
func extractMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		switch {
		case eb.Message != "":
			return eb.Message
		case eb.ErrorMessage != "":
			return eb.ErrorMessage
		case eb.Detail != "":
			return eb.Detail
		}
	}
	return string(body)
}
