package oygul

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/Lazizkhan1/Easify/pkg/config"
)

// scriptedHTTPClient отдаёт ответы по очереди, по одному на запрос.
type scriptedHTTPClient struct {
	responses []scriptedResponse
	requests  []*http.Request
}

type scriptedResponse struct {
	status  int
	body    string
	cookies []*http.Cookie
}

func (s *scriptedHTTPClient) Do(req *http.Request) (*http.Response, error) {
	s.requests = append(s.requests, req)
	idx := len(s.requests) - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	r := s.responses[idx]

	resp := &http.Response{
		StatusCode: r.status,
		Body:       io.NopCloser(strings.NewReader(r.body)),
		Header:     make(http.Header),
	}
	for _, c := range r.cookies {
		resp.Header.Add("Set-Cookie", c.String())
	}
	return resp, nil
}

func TestLogin(t *testing.T) {
	mock := &scriptedHTTPClient{
		responses: []scriptedResponse{
			{
				status:  200,
				body:    `{"data":{"userId":"u-1","token":"jwt-token"}}`,
				cookies: []*http.Cookie{{Name: "refreshToken", Value: "refresh-1"}},
			},
			{
				status: 200,
				body:   `{"id":"u-1","merchantId":"m-1","branchId":"b-1"}`,
			},
		},
	}
	c, err := NewFromConfig(config.OyGulConfig{BaseURL: "https://example.test/api"})
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	c.WithHTTPClient(mock)

	creds, err := c.Login(context.Background(), "owner", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if creds.UserID != "u-1" || creds.Token != "jwt-token" {
		t.Errorf("creds = %+v", creds)
	}
	if creds.RefreshToken != "refresh-1" {
		t.Errorf("RefreshToken = %q, ожидалось refresh-1", creds.RefreshToken)
	}
	if creds.MerchantID != "m-1" || creds.BranchID != "b-1" {
		t.Errorf("merchant/branch = %s/%s", creds.MerchantID, creds.BranchID)
	}
	if len(mock.requests) != 2 {
		t.Errorf("выполнено %d запросов, ожидалось 2", len(mock.requests))
	}
}

func TestLoginFallsBackToFirstBranch(t *testing.T) {
	mock := &scriptedHTTPClient{
		responses: []scriptedResponse{
			{
				status:  200,
				body:    `{"data":{"userId":"u-1","token":"jwt-token"}}`,
				cookies: []*http.Cookie{{Name: "refreshToken", Value: "refresh-1"}},
			},
			{
				// branchId пуст у владельца мерчанта
				status: 200,
				body:   `{"id":"u-1","merchantId":"m-1","branchId":""}`,
			},
			{
				status: 200,
				body:   `{"data":[{"id":"b-7","name":"Main"},{"id":"b-8"}]}`,
			},
		},
	}
	c, err := NewFromConfig(config.OyGulConfig{BaseURL: "https://example.test/api"})
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	c.WithHTTPClient(mock)

	creds, err := c.Login(context.Background(), "owner", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if creds.BranchID != "b-7" {
		t.Errorf("BranchID = %q, ожидалось b-7", creds.BranchID)
	}

	// Третий запрос должен идти в /auth/branch/getAll с merchantId
	q := mock.requests[2].URL.Query()
	if q.Get("merchantId") != "m-1" {
		t.Errorf("merchantId = %q", q.Get("merchantId"))
	}
}

func TestLoginBadPassword(t *testing.T) {
	mock := &scriptedHTTPClient{
		responses: []scriptedResponse{
			{status: 401, body: `{"message":"invalid credentials"}`},
		},
	}
	c, err := NewFromConfig(config.OyGulConfig{BaseURL: "https://example.test/api"})
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	c.WithHTTPClient(mock)

	if _, err := c.Login(context.Background(), "owner", "wrong"); err == nil {
		t.Fatal("ожидалась ошибка авторизации")
	}
}

func TestRefresh(t *testing.T) {
	mock := &scriptedHTTPClient{
		responses: []scriptedResponse{
			{
				status:  200,
				body:    `{"data":{"token":"new-jwt"}}`,
				cookies: []*http.Cookie{{Name: "refreshToken", Value: "refresh-2"}},
			},
		},
	}
	c, err := NewFromConfig(config.OyGulConfig{BaseURL: "https://example.test/api"})
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	c.WithHTTPClient(mock)

	pair, err := c.Refresh(context.Background(), "refresh-1")
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if pair.Token != "new-jwt" || pair.RefreshToken != "refresh-2" {
		t.Errorf("pair = %+v", pair)
	}

	// Refresh токен уходит в cookie, не в тело
	sent, err := mock.requests[0].Cookie("refreshToken")
	if err != nil || sent.Value != "refresh-1" {
		t.Errorf("cookie refreshToken = %v, err = %v", sent, err)
	}
}
