// Инструмент обновления токена.
package std

import (
	"context"

	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/oygul"
	"github.com/Lazizkhan1/Easify/pkg/state"
	"github.com/Lazizkhan1/Easify/pkg/tools"
)

// RefreshTokenTool обменивает refresh cookie на свежий bearer токен.
//
// Модель вызывает его когда другие инструменты падают с 401 или
// сообщением про истёкший токен. Новая пара токенов пишется прямо
// в сессию: повторный вызов упавшего инструмента пойдёт уже с ней.
type RefreshTokenTool struct {
	client      *oygul.Client
	description string
}

func NewRefreshTokenTool(c *oygul.Client, cfg config.ToolConfig) *RefreshTokenTool {
	return &RefreshTokenTool{
		client: c,
		description: describe(cfg,
			"Обновить bearer токен сессии. Вызывай когда другие инструменты падают с ошибкой авторизации (401) или упоминанием истёкшего токена, затем повтори упавший вызов."),
	}
}

func (t *RefreshTokenTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "refresh_token",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
			"required":   []string{},
		},
	}
}

func (t *RefreshTokenTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	sess := state.FromContext(ctx)
	if sess == nil {
		return tools.Fail("no active session, user must log in first"), nil
	}
	if sess.RefreshToken() == "" {
		return tools.Fail("session has no refresh token, user must log in again"), nil
	}

	pair, err := t.client.Refresh(ctx, sess.RefreshToken())
	if err != nil {
		return wrap(nil, err)
	}

	sess.SetTokens(pair.Token, pair.RefreshToken)
	return tools.OKMessage("token refreshed, retry the failed call")
}
