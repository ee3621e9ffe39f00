// Package std предоставляет стандартные инструменты ассистента Easify.
//
// Каждый инструмент — тонкая обёртка над pkg/oygul: разбор аргументов
// от LLM, данные сессии из контекста, вызов SDK, упаковка ответа в
// единый JSON конверт. Ошибки API не возвращаются как Go-ошибки:
// модель получает конверт со status=error и пересказывает проблему
// пользователю.
package std

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/oygul"
	"github.com/Lazizkhan1/Easify/pkg/photos"
	"github.com/Lazizkhan1/Easify/pkg/state"
	"github.com/Lazizkhan1/Easify/pkg/tools"
)

// Deps — зависимости, общие для всех инструментов.
type Deps struct {
	Client *oygul.Client
	Photos photos.Uploader // nil если хранилище фото не настроено
}

// describe возвращает описание из конфига или дефолтное.
func describe(cfg config.ToolConfig, fallback string) string {
	if cfg.Description != "" {
		return cfg.Description
	}
	return fallback
}

// sessionFrom достаёт авторизованную сессию из контекста.
//
// Возвращает готовый конверт ошибки если сессии нет или пользователь
// не залогинен: модель должна попросить пользователя авторизоваться,
// а не получать Go-ошибку.
func sessionFrom(ctx context.Context) (*state.Session, string) {
	sess := state.FromContext(ctx)
	if sess == nil {
		return nil, tools.Fail("no active session, user must log in first")
	}
	if !sess.Authorized() {
		return nil, tools.Fail("session is not authorized, user must log in first")
	}
	return sess, ""
}

// sessFromOptional достаёт сессию из контекста не требуя авторизации.
func sessFromOptional(ctx context.Context) *state.Session {
	return state.FromContext(ctx)
}

// wrap упаковывает результат вызова SDK в конверт.
//
// *APIError уходит в конверт ошибки, любая другая ошибка тоже:
// из Execute наружу выходят только проблемы с самим JSON аргументов.
func wrap(data any, err error) (string, error) {
	if err != nil {
		var apiErr *oygul.APIError
		if errors.As(err, &apiErr) {
			// Вид ошибки в человекочитаемой форме: модель пересказывает
			// конверт пользователю, "not found" понятнее чем "not_found"
			kind := strings.ReplaceAll(apiErr.Kind.String(), "_", " ")
			return tools.Fail("%s: %s", kind, apiErr.Message), nil
		}
		return tools.Fail("%v", err), nil
	}
	return tools.OK(data)
}

// translationsSchema — схема мультиязычной строки {uz, ru, en}.
func translationsSchema(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": desc,
		"properties": map[string]interface{}{
			"uz": map[string]interface{}{"type": "string", "description": "Вариант на узбекском"},
			"ru": map[string]interface{}{"type": "string", "description": "Вариант на русском"},
			"en": map[string]interface{}{"type": "string", "description": "Вариант на английском"},
		},
	}
}

// photoURLsSchema — схема списка UUID фотографий.
func photoURLsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": "Список UUID загруженных фотографий (см. upload_photo)",
		"items":       map[string]interface{}{"type": "string"},
	}
}

// productsSpentSchema — схема состава букета.
func productsSpentSchema(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": desc,
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"type_id": map[string]interface{}{
					"type":        "string",
					"description": "UUID типа продукта (flower_type_id и т.д.)",
				},
				"quantity": map[string]interface{}{
					"type":        "number",
					"description": "Сколько единиц уходит на один букет",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Тип продукта: FLOWER, CONSUMABLE или SWEET",
					"enum":        []string{"FLOWER", "CONSUMABLE", "SWEET"},
				},
			},
			"required": []string{"type_id", "quantity", "type"},
		},
	}
}

// idListSchema — схема списка UUID для фильтров.
func idListSchema(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": desc,
		"items":       map[string]interface{}{"type": "string"},
	}
}

// pagingProperties — общие свойства пагинации списочных инструментов.
func pagingProperties(props map[string]interface{}) map[string]interface{} {
	props["page"] = map[string]interface{}{
		"type":        "integer",
		"description": "Номер страницы, начиная с 1",
		"minimum":     1,
	}
	props["limit"] = map[string]interface{}{
		"type":        "integer",
		"description": "Количество записей на странице (по умолчанию 20)",
		"minimum":     1,
		"maximum":     100,
	}
	return props
}

// invalidArgs — единая форма ошибки разбора аргументов.
func invalidArgs(err error) error {
	return fmt.Errorf("invalid arguments json: %w", err)
}
