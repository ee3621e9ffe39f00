package std

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/oygul"
	"github.com/Lazizkhan1/Easify/pkg/state"
	"github.com/Lazizkhan1/Easify/pkg/tools"
)

// mockHTTPClient возвращает заданный ответ и запоминает запрос.
type mockHTTPClient struct {
	status   int
	body     string
	lastReq  *http.Request
	lastBody []byte
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.lastReq = req
	if req.Body != nil {
		m.lastBody, _ = io.ReadAll(req.Body)
	}
	return &http.Response{
		StatusCode: m.status,
		Body:       io.NopCloser(strings.NewReader(m.body)),
		Header:     make(http.Header),
	}, nil
}

// newToolClient собирает oygul клиент поверх мока.
func newToolClient(t *testing.T, mock *mockHTTPClient) *oygul.Client {
	t.Helper()
	c, err := oygul.NewFromConfig(config.OyGulConfig{BaseURL: "https://example.test/api"})
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	return c.WithHTTPClient(mock)
}

// authedCtx — контекст с авторизованной сессией.
func authedCtx() context.Context {
	sess := state.NewSession("test")
	sess.SetCredentials(&oygul.Credentials{
		UserID:       "u-1",
		Token:        "jwt",
		RefreshToken: "refresh",
		MerchantID:   "m-1",
		BranchID:     "b-1",
	})
	return state.WithSession(context.Background(), sess)
}

// parseEnvelope разбирает конверт результата инструмента.
func parseEnvelope(t *testing.T, raw string) tools.ToolResult {
	t.Helper()
	var res tools.ToolResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		t.Fatalf("не удалось распарсить конверт %q: %v", raw, err)
	}
	return res
}

func TestCreateFlowerRoundTrip(t *testing.T) {
	mock := &mockHTTPClient{
		status: 200,
		body:   `{"id":"f-1","type_id":"ft-1","quantity":100,"price":50000}`,
	}
	tool := NewCreateFlowerTool(newToolClient(t, mock), config.ToolConfig{})

	args := `{
		"name": {"uz":"Atirgul","ru":"Роза","en":"Rose"},
		"description": {"uz":"qizil","ru":"красная","en":"red"},
		"quantity": 100,
		"unit_cost": 20000,
		"price": 50000
	}`
	out, err := tool.Execute(authedCtx(), args)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	res := parseEnvelope(t, out)
	if res.Status != tools.StatusSuccess {
		t.Fatalf("status = %s, конверт: %s", res.Status, out)
	}

	// merchant_id и branch_id идут из сессии, не из аргументов модели
	var payload map[string]any
	if err := json.Unmarshal(mock.lastBody, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload["merchant_id"] != "m-1" || payload["branch_id"] != "b-1" {
		t.Errorf("merchant/branch = %v/%v", payload["merchant_id"], payload["branch_id"])
	}
	// sold_online по умолчанию true
	if payload["sold_online"] != true {
		t.Errorf("sold_online = %v, ожидалось true", payload["sold_online"])
	}
}

func TestDeleteFlowerTypeUnknownID(t *testing.T) {
	mock := &mockHTTPClient{
		status: 404,
		body:   `{"message":"flower_type not found"}`,
	}
	tool := NewDeleteFlowerTypeTool(newToolClient(t, mock), config.ToolConfig{})

	out, err := tool.Execute(authedCtx(), `{"flower_type_id":"no-such-id"}`)
	if err != nil {
		t.Fatalf("ошибка API не должна быть Go-ошибкой: %v", err)
	}

	res := parseEnvelope(t, out)
	if res.Status != tools.StatusError {
		t.Fatalf("status = %s, ожидался error", res.Status)
	}
	if !strings.Contains(res.Message, "not found") {
		t.Errorf("message = %q, ожидалось вхождение 'not found'", res.Message)
	}
}

func TestUpdateFlowerSendsOnlyProvidedFields(t *testing.T) {
	mock := &mockHTTPClient{status: 200, body: `{"id":"f-1","quantity":7}`}
	tool := NewUpdateFlowerTool(newToolClient(t, mock), config.ToolConfig{})

	out, err := tool.Execute(authedCtx(), `{"flower_id":"f-1","quantity":7,"price":60000}`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res := parseEnvelope(t, out); res.Status != tools.StatusSuccess {
		t.Fatalf("status = %s", res.Status)
	}

	var payload map[string]any
	if err := json.Unmarshal(mock.lastBody, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if len(payload) != 2 {
		t.Errorf("payload = %v, ожидалось ровно quantity и price", payload)
	}
}

func TestGetFlowersEmptySearchResult(t *testing.T) {
	mock := &mockHTTPClient{
		status: 200,
		body:   `{"data":[],"total":0,"limit":20,"page":1,"pages":0}`,
	}
	tool := NewGetFlowersTool(newToolClient(t, mock), config.ToolConfig{})

	out, err := tool.Execute(authedCtx(), `{"search":"nonexistent flower"}`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// Пустая выдача — success с пустым списком, не ошибка
	res := parseEnvelope(t, out)
	if res.Status != tools.StatusSuccess {
		t.Fatalf("status = %s, конверт: %s", res.Status, out)
	}
	if !strings.Contains(out, `"data":[]`) {
		t.Errorf("конверт должен содержать пустой data: %s", out)
	}

	// Дефолтная сортировка проставляется
	if got := mock.lastReq.URL.Query().Get("sort"); got != "updatedAt-desc" {
		t.Errorf("sort = %q", got)
	}
}

func TestToolsRequireSession(t *testing.T) {
	mock := &mockHTTPClient{status: 200, body: `{}`}
	client := newToolClient(t, mock)

	cases := []tools.Tool{
		NewGetFlowersTool(client, config.ToolConfig{}),
		NewCreateOrderTool(client, config.ToolConfig{}),
		NewGetMeasurementTypesTool(client, config.ToolConfig{}),
	}

	for _, tool := range cases {
		t.Run(tool.Definition().Name, func(t *testing.T) {
			out, err := tool.Execute(context.Background(), `{"status":"PENDING","products":[{"product_id":"p","type_id":"t","quantity":1,"product_type":"BOUQUET","price":1}],"payment_type":"CASH"}`)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			res := parseEnvelope(t, out)
			if res.Status != tools.StatusError {
				t.Errorf("без сессии ожидался конверт ошибки, получено %s", out)
			}
			if !strings.Contains(res.Message, "log in") {
				t.Errorf("message = %q", res.Message)
			}
		})
	}
}

func TestSearchFeedWorksWithoutSession(t *testing.T) {
	mock := &mockHTTPClient{status: 200, body: `{"data":[],"total":0}`}
	tool := NewSearchFeedTool(newToolClient(t, mock), config.ToolConfig{})

	out, err := tool.Execute(context.Background(), `{"search":"rose"}`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res := parseEnvelope(t, out); res.Status != tools.StatusSuccess {
		t.Fatalf("лента должна работать без авторизации, конверт: %s", out)
	}
	if mock.lastReq.Header.Get("Authorization") != "" {
		t.Error("запрос к ленте не должен нести Authorization")
	}
}

func TestSearchFeedScopedToMerchantWithSession(t *testing.T) {
	mock := &mockHTTPClient{status: 200, body: `{"data":[],"total":0}`}
	tool := NewSearchFeedTool(newToolClient(t, mock), config.ToolConfig{})

	if _, err := tool.Execute(authedCtx(), `{}`); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := mock.lastReq.URL.Query().Get("merchant_id"); got != "m-1" {
		t.Errorf("merchant_id = %q, ожидалось m-1", got)
	}
}

func TestInvalidArgsJSONIsGoError(t *testing.T) {
	tool := NewGetFlowersTool(newToolClient(t, &mockHTTPClient{status: 200, body: `{}`}), config.ToolConfig{})

	// Единственный случай Go-ошибки из Execute: битый JSON аргументов
	if _, err := tool.Execute(authedCtx(), `{broken`); err == nil {
		t.Fatal("ожидалась ошибка для невалидного JSON аргументов")
	}
}

func TestRefreshTokenUpdatesSession(t *testing.T) {
	mock := &mockHTTPClient{
		status: 200,
		body:   `{"data":{"token":"new-jwt"}}`,
	}
	tool := NewRefreshTokenTool(newToolClient(t, mock), config.ToolConfig{})

	sess := state.NewSession("test")
	sess.SetTokens("old-jwt", "refresh-1")
	ctx := state.WithSession(context.Background(), sess)

	out, err := tool.Execute(ctx, `{}`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res := parseEnvelope(t, out); res.Status != tools.StatusSuccess {
		t.Fatalf("конверт: %s", out)
	}
	if sess.Token() != "new-jwt" {
		t.Errorf("токен сессии = %q, ожидалось new-jwt", sess.Token())
	}
}

func TestGetOrdersByStatusRejectsUnknownStatus(t *testing.T) {
	tool := NewGetOrdersByStatusTool(newToolClient(t, &mockHTTPClient{status: 200, body: `{}`}), config.ToolConfig{})

	out, err := tool.Execute(authedCtx(), `{"status":"SHIPPED"}`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	res := parseEnvelope(t, out)
	if res.Status != tools.StatusError || !strings.Contains(res.Message, "invalid status") {
		t.Errorf("конверт: %s", out)
	}
}

func TestRegisterAll(t *testing.T) {
	client := newToolClient(t, &mockHTTPClient{status: 200, body: `{}`})

	cfg := &config.AppConfig{
		Tools: map[string]config.ToolConfig{
			"cancel_order": {Enabled: false}, // явно выключен
		},
	}

	reg := tools.NewRegistry()
	if err := RegisterAll(reg, Deps{Client: client}, cfg); err != nil {
		t.Fatalf("RegisterAll() error = %v", err)
	}

	names := reg.Names()
	// 24 инструмента минус выключенный cancel_order, минус upload_photo без хранилища
	if len(names) != 22 {
		t.Errorf("зарегистрировано %d инструментов: %v", len(names), names)
	}
	if _, err := reg.Get("cancel_order"); err == nil {
		t.Error("cancel_order должен быть пропущен")
	}
	if _, err := reg.Get("upload_photo"); err == nil {
		t.Error("upload_photo без хранилища должен быть пропущен")
	}
	if _, err := reg.Get("get_flowers"); err != nil {
		t.Errorf("get_flowers должен быть зарегистрирован: %v", err)
	}
}

func TestToolConfigOverridesDescription(t *testing.T) {
	tool := NewGetFlowersTool(nil, config.ToolConfig{Description: "custom"})
	if tool.Definition().Description != "custom" {
		t.Errorf("description = %q", tool.Definition().Description)
	}
}

// fakeUploader отдаёт фиксированный UUID и запоминает загруженные байты.
type fakeUploader struct {
	key      string
	err      error
	uploaded []byte
}

func (f *fakeUploader) Upload(_ context.Context, data []byte) (string, error) {
	f.uploaded = data
	return f.key, f.err
}

func (f *fakeUploader) Download(context.Context, string) ([]byte, error) {
	return nil, nil
}

func TestUploadPhotoReturnsKey(t *testing.T) {
	up := &fakeUploader{key: "photo-uuid-1"}
	tool := NewUploadPhotoTool(up, config.ToolConfig{})

	encoded := base64.StdEncoding.EncodeToString([]byte("fake-image-bytes"))
	out, err := tool.Execute(authedCtx(), `{"image_base64":"`+encoded+`"}`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	res := parseEnvelope(t, out)
	if res.Status != tools.StatusSuccess {
		t.Fatalf("status = %q: %s", res.Status, res.Message)
	}
	if string(up.uploaded) != "fake-image-bytes" {
		t.Errorf("в хранилище ушли не те байты: %q", up.uploaded)
	}
	var data struct {
		PhotoURL string `json:"photo_url"`
	}
	raw, _ := json.Marshal(res.Data)
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("data: %v", err)
	}
	if data.PhotoURL != "photo-uuid-1" {
		t.Errorf("photo_url = %q", data.PhotoURL)
	}
}

func TestUploadPhotoRejectsBadBase64(t *testing.T) {
	tool := NewUploadPhotoTool(&fakeUploader{key: "k"}, config.ToolConfig{})

	out, err := tool.Execute(authedCtx(), `{"image_base64":"%%% not base64 %%%"}`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	res := parseEnvelope(t, out)
	if res.Status != tools.StatusError {
		t.Fatalf("status = %q, ждали error", res.Status)
	}
	if !strings.Contains(res.Message, "base64") {
		t.Errorf("message = %q", res.Message)
	}
}

func TestUpdateBouquetTypeSendsComposition(t *testing.T) {
	mock := &mockHTTPClient{status: 200, body: `{"id":"bt-1"}`}
	tool := NewUpdateBouquetTypeTool(newToolClient(t, mock), config.ToolConfig{})

	args := `{"bouquet_type_id":"bt-1",` +
		`"tags":[{"uz":"yangi","ru":"новый","en":"new"}],` +
		`"products_spent":[{"type_id":"ft-1","quantity":5,"type":"FLOWER"}]}`
	out, err := tool.Execute(authedCtx(), args)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res := parseEnvelope(t, out); res.Status != tools.StatusSuccess {
		t.Fatalf("status = %q: %s", res.Status, res.Message)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(mock.lastBody, &payload); err != nil {
		t.Fatalf("не удалось распарсить payload: %v", err)
	}
	// Только переданные поля: name и photo_urls не трогаем
	if len(payload) != 2 {
		t.Errorf("payload = %v, ожидались только tags и products_spent", payload)
	}
	var spent []oygul.ProductSpent
	if err := json.Unmarshal(payload["products_spent"], &spent); err != nil {
		t.Fatalf("products_spent: %v", err)
	}
	if len(spent) != 1 || spent[0].TypeID != "ft-1" || spent[0].Type != "FLOWER" {
		t.Errorf("products_spent = %+v", spent)
	}
}

func TestUpdateConsumableTypeSendsMeasurementType(t *testing.T) {
	mock := &mockHTTPClient{status: 200, body: `{"id":"ct-1"}`}
	tool := NewUpdateConsumableTypeTool(newToolClient(t, mock), config.ToolConfig{})

	out, err := tool.Execute(authedCtx(), `{"consumable_type_id":"ct-1","measurement_type_id":"mt-2"}`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res := parseEnvelope(t, out); res.Status != tools.StatusSuccess {
		t.Fatalf("status = %q: %s", res.Status, res.Message)
	}

	var payload map[string]any
	if err := json.Unmarshal(mock.lastBody, &payload); err != nil {
		t.Fatalf("не удалось распарсить payload: %v", err)
	}
	if len(payload) != 1 || payload["measurement_type_id"] != "mt-2" {
		t.Errorf("payload = %v, ожидался только measurement_type_id", payload)
	}
}

func TestErrorEnvelopeKindIsHumanReadable(t *testing.T) {
	// Тело без известных полей сообщения: в конверт попадает вид ошибки
	mock := &mockHTTPClient{status: 404, body: `{}`}
	tool := NewDeleteFlowerTypeTool(newToolClient(t, mock), config.ToolConfig{})

	out, err := tool.Execute(authedCtx(), `{"flower_type_id":"no-such-id"}`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	res := parseEnvelope(t, out)
	if res.Status != tools.StatusError {
		t.Fatalf("status = %s, ожидался error", res.Status)
	}
	if !strings.Contains(res.Message, "not found") {
		t.Errorf("message = %q, ожидалось вхождение 'not found'", res.Message)
	}
	if strings.Contains(res.Message, "not_found") {
		t.Errorf("message = %q, вид ошибки не должен быть в snake_case", res.Message)
	}
}
