// Авторизация в OyGul auth сервисе.
//
// Login возвращает полный набор данных сессии: токены плюс merchant_id
// и branch_id, которые нужны каждому content запросу. Refresh token
// приходит и уходит только через cookie refreshToken.
package oygul

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Credentials — результат успешного логина.
type Credentials struct {
	UserID       string
	Token        string
	RefreshToken string
	MerchantID   string
	BranchID     string
}

// loginResponse — форма ответа /auth/login и /auth/refresh.
type loginResponse struct {
	Data struct {
		UserID string `json:"userId"`
		Token  string `json:"token"`
	} `json:"data"`
}

// Login выполняет вход и собирает данные сессии.
//
// Шаги:
//  1. POST /auth/login — получаем userId, bearer токен и refresh cookie
//  2. GET /auth/users/{id} — получаем merchantId и branchId
//  3. Если branchId пуст — берём первый филиал мерчанта
func (c *Client) Login(ctx context.Context, login, password string) (*Credentials, error) {
	body := map[string]string{
		"login":    login,
		"password": password,
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/login", "", nil, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: fmt.Sprintf("read body: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Kind:       classifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    extractMessage(raw),
		}
	}

	var lr loginResponse
	if err := json.Unmarshal(raw, &lr); err != nil {
		return nil, &APIError{Kind: KindBadBody, StatusCode: resp.StatusCode, Message: fmt.Sprintf("unmarshal login response: %v", err)}
	}
	if lr.Data.Token == "" {
		return nil, &APIError{Kind: KindBadBody, StatusCode: resp.StatusCode, Message: "login response has no token"}
	}

	creds := &Credentials{
		UserID:       lr.Data.UserID,
		Token:        lr.Data.Token,
		RefreshToken: cookieValue(resp, "refreshToken"),
	}

	// 2. Данные пользователя
	user, err := c.GetUser(ctx, creds.Token, creds.UserID)
	if err != nil {
		return nil, err
	}
	creds.MerchantID = user.MerchantID
	creds.BranchID = user.BranchID

	// 3. У владельца мерчанта branchId пуст — берём первый филиал
	if creds.BranchID == "" {
		branches, err := c.BranchesByMerchant(ctx, creds.Token, creds.MerchantID)
		if err != nil {
			return nil, err
		}
		if len(branches) == 0 {
			return nil, &APIError{Kind: KindUnknown, Message: fmt.Sprintf("merchant %s has no branches", creds.MerchantID)}
		}
		creds.BranchID = branches[0].ID
	}

	return creds, nil
}

// TokenPair — новая пара токенов после refresh.
type TokenPair struct {
	Token        string
	RefreshToken string
}

// Refresh обменивает refresh cookie на новый bearer токен.
//
// Вызывается когда инструменты начинают падать с 401: старый bearer
// токен истёк, но refresh cookie ещё жива.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: fmt.Sprintf("rate limiter wait: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", nil)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refreshToken})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: fmt.Sprintf("read body: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Kind:       classifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    extractMessage(raw),
		}
	}

	var lr loginResponse
	if err := json.Unmarshal(raw, &lr); err != nil {
		return nil, &APIError{Kind: KindBadBody, StatusCode: resp.StatusCode, Message: fmt.Sprintf("unmarshal refresh response: %v", err)}
	}

	return &TokenPair{
		Token:        lr.Data.Token,
		RefreshToken: cookieValue(resp, "refreshToken"),
	}, nil
}

// GetUser возвращает запись пользователя по id.
func (c *Client) GetUser(ctx context.Context, token, userID string) (*User, error) {
	var user User
	if err := c.call(ctx, http.MethodGet, "/auth/users/"+userID, token, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// branchesResponse — форма ответа /auth/branch/getAll.
type branchesResponse struct {
	Data []Branch `json:"data"`
}

// BranchesByMerchant возвращает список филиалов мерчанта.
func (c *Client) BranchesByMerchant(ctx context.Context, token, merchantID string) ([]Branch, error) {
	params := url.Values{}
	params.Set("merchantId", merchantID)

	var br branchesResponse
	if err := c.call(ctx, http.MethodGet, "/auth/branch/getAll", token, params, nil, &br); err != nil {
		return nil, err
	}
	return br.Data, nil
}

// cookieValue возвращает значение cookie из ответа или пустую строку.
func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
