// Package oygul provides a reusable SDK for the OyGul ERP API.
//
// Architecture:
//
// This is an **API SDK**, not just a "dumb" HTTP client. It provides:
//   - HTTP client with rate limiting and error classification
//   - High-level typed methods per OyGul service (content, transaction, auth)
//   - Partial-update semantics: only provided fields go on the wire
//
// Usage pattern:
//   - pkg/oygul - reusable SDK (can be used in any project)
//   - pkg/tools/std - thin wrappers for LLM function calling
//
// Requests are single-attempt: an API failure becomes a classified
// *APIError that the caller turns into a tool error envelope for the
// model. Retrying here would only hide the failure from the user.
package oygul

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Lazizkhan1/Easify/pkg/config"
	"golang.org/x/time/rate"
)

// HTTPClient интерфейс для выполнения HTTP запросов.
//
// Позволяет мокировать HTTP клиент в тестах.
// Стандартный *http.Client реализует этот интерфейс.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client — клиент OyGul API.
//
// Bearer токен не хранится в клиенте: он принадлежит сессии пользователя
// и передаётся в каждый вызов. Один Client обслуживает все сессии.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	limiter    *rate.Limiter
}

// NewFromConfig создает новый клиент из конфигурации.
//
// Параметры:
//   - cfg: Конфигурация OyGul API с настройками base_url, rate limit и timeout
//
// Поля с нулевыми значениями используют дефолтные значения через GetDefaults().
func NewFromConfig(cfg config.OyGulConfig) (*Client, error) {
	cfg = cfg.GetDefaults()

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid oygul.timeout format: %w", err)
	}

	// rate_limit в запросах/минуту → rate.Limit в запросах/секунду
	ratePerSec := float64(cfg.RateLimit) / 60.0

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), cfg.Burst),
	}, nil
}

// WithHTTPClient подменяет транспорт. Используется в тестах.
func (c *Client) WithHTTPClient(hc HTTPClient) *Client {
	c.httpClient = hc
	return c
}

// do выполняет один HTTP запрос с rate limiting.
//
// Параметры:
//   - ctx: контекст для отмены
//   - method: HTTP метод
//   - path: путь относительно baseURL (например, "/content/flowers")
//   - token: bearer токен; пустая строка — запрос без авторизации
//   - params: query параметры (может быть nil)
//   - body: тело запроса (будет сериализовано в JSON, может быть nil)
//
// Возвращает ответ или *APIError с Kind=KindNetwork. Вызывающий обязан
// закрыть resp.Body.
func (c *Client) do(ctx context.Context, method, path, token string, params url.Values, body any) (*http.Response, error) {
	// 1. Ждем разрешения от лимитера (блокирует горутину, если превысили лимит)
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: fmt.Sprintf("rate limiter wait: %v", err)}
	}

	// 2. Собираем URL
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: fmt.Sprintf("invalid url: %v", err)}
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	// 3. Сериализуем тело
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{Kind: KindBadBody, Message: fmt.Sprintf("marshal body: %v", err)}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: err.Error()}
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	return resp, nil
}

// call выполняет запрос и декодирует успешный ответ в dest.
//
// Статусы вне 2xx превращаются в *APIError с классификацией по коду.
// dest может быть nil если тело ответа не нужно.
func (c *Client) call(ctx context.Context, method, path, token string, params url.Values, body, dest any) error {
	resp, err := c.do(ctx, method, path, token, params, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: KindNetwork, Message: fmt.Sprintf("read body: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Kind:       classifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    extractMessage(raw),
		}
	}

	if dest == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return &APIError{
			Kind:       KindBadBody,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unmarshal response: %v", err),
		}
	}
	return nil
}
