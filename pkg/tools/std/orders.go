// Инструменты заказов (transaction сервис).
package std

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/oygul"
	"github.com/Lazizkhan1/Easify/pkg/tools"
)

// === Create Order ===

// CreateOrderTool создаёт заказ от имени текущего пользователя.
type CreateOrderTool struct {
	client      *oygul.Client
	description string
}

func NewCreateOrderTool(c *oygul.Client, cfg config.ToolConfig) *CreateOrderTool {
	return &CreateOrderTool{
		client: c,
		description: describe(cfg,
			"Создать новый заказ. Способ оплаты берётся из get_payment_types. Позиции заказа ссылаются на продукты каталога."),
	}
}

func (t *CreateOrderTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "create_order",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"products": map[string]interface{}{
					"type":        "array",
					"description": "Позиции заказа",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"product_id": map[string]interface{}{
								"type":        "string",
								"description": "UUID продукта (master записи)",
							},
							"type_id": map[string]interface{}{
								"type":        "string",
								"description": "UUID типа продукта",
							},
							"quantity": map[string]interface{}{
								"type":        "number",
								"description": "Количество",
							},
							"product_type": map[string]interface{}{
								"type":        "string",
								"description": "Тип продукта, например BOUQUET или FLOWER",
							},
							"price": map[string]interface{}{
								"type":        "number",
								"description": "Цена позиции (UZS)",
							},
						},
						"required": []string{"product_id", "type_id", "quantity", "product_type", "price"},
					},
				},
				"payment_type": map[string]interface{}{
					"type":        "string",
					"description": "Способ оплаты из get_payment_types, например CLICK или CASH",
				},
				"gift_card_note": map[string]interface{}{
					"type":        "string",
					"description": "Текст открытки к заказу, если нужен",
				},
			},
			"required": []string{"products", "payment_type"},
		},
	}
}

func (t *CreateOrderTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Products []struct {
			ProductID   string  `json:"product_id"`
			TypeID      string  `json:"type_id"`
			Quantity    float64 `json:"quantity"`
			ProductType string  `json:"product_type"`
			Price       float64 `json:"price"`
		} `json:"products"`
		PaymentType  string `json:"payment_type"`
		GiftCardNote string `json:"gift_card_note"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}
	if len(args.Products) == 0 {
		return tools.Fail("order must contain at least one product"), nil
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	products := make([]oygul.OrderProduct, 0, len(args.Products))
	for _, p := range args.Products {
		products = append(products, oygul.OrderProduct{
			ProductID:   p.ProductID,
			TypeID:      p.TypeID,
			Quantity:    p.Quantity,
			ProductType: p.ProductType,
			Price:       p.Price,
		})
	}

	order, err := t.client.CreateOrder(ctx, sess.Token(), oygul.CreateOrderRequest{
		UserID:       sess.UserID(),
		MerchantID:   sess.MerchantID(),
		BranchID:     sess.BranchID(),
		PaymentType:  args.PaymentType,
		Products:     products,
		GiftCardNote: args.GiftCardNote,
	})
	return wrap(order, err)
}

// === Payment Types ===

type GetPaymentTypesTool struct {
	client      *oygul.Client
	description string
}

func NewGetPaymentTypesTool(c *oygul.Client, cfg config.ToolConfig) *GetPaymentTypesTool {
	return &GetPaymentTypesTool{
		client: c,
		description: describe(cfg,
			"Получить доступные способы оплаты (CASH, UZCARD, CLICK и другие)."),
	}
}

func (t *GetPaymentTypesTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_payment_types",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
			"required":   []string{},
		},
	}
}

func (t *GetPaymentTypesTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	types, err := t.client.PaymentTypes(ctx, sess.Token())
	return wrap(types, err)
}

// === Orders By Status ===

type GetOrdersByStatusTool struct {
	client      *oygul.Client
	description string
}

func NewGetOrdersByStatusTool(c *oygul.Client, cfg config.ToolConfig) *GetOrdersByStatusTool {
	return &GetOrdersByStatusTool{
		client: c,
		description: describe(cfg,
			"Получить заказы с заданным статусом: PENDING, FAILED, CANCELED, REFUND или SUCCESSFUL."),
	}
}

func (t *GetOrdersByStatusTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_orders_by_status",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": pagingProperties(map[string]interface{}{
				"status": map[string]interface{}{
					"type":        "string",
					"description": "Статус заказов",
					"enum":        oygul.OrderStatuses,
				},
			}),
			"required": []string{"status"},
		},
	}
}

func (t *GetOrdersByStatusTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Status string `json:"status"`
		Page   int    `json:"page"`
		Limit  int    `json:"limit"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}
	if !oygul.ValidOrderStatus(args.Status) {
		return tools.Fail("invalid status: %s, valid statuses are: %s",
			args.Status, strings.Join(oygul.OrderStatuses, ", ")), nil
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	list, err := t.client.ListOrders(ctx, sess.Token(), args.Status, args.Page, args.Limit)
	return wrap(list, err)
}

// === Confirm Order ===

type ConfirmOrderTool struct {
	client      *oygul.Client
	description string
}

func NewConfirmOrderTool(c *oygul.Client, cfg config.ToolConfig) *ConfirmOrderTool {
	return &ConfirmOrderTool{
		client: c,
		description: describe(cfg,
			"Подтвердить заказ (перевести в статус CONFIRMED), обычно после проверки оплаты."),
	}
}

func (t *ConfirmOrderTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "confirm_order",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"order_id": map[string]interface{}{
					"type":        "string",
					"description": "UUID заказа",
				},
			},
			"required": []string{"order_id"},
		},
	}
}

func (t *ConfirmOrderTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}
	if strings.TrimSpace(args.OrderID) == "" {
		return tools.Fail("order_id is required"), nil
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	order, err := t.client.ConfirmOrder(ctx, sess.Token(), args.OrderID)
	return wrap(order, err)
}

// === Cancel Order ===

// CancelOrderTool отменяет заказ. Отменить можно только PENDING заказ.
type CancelOrderTool struct {
	client      *oygul.Client
	description string
}

func NewCancelOrderTool(c *oygul.Client, cfg config.ToolConfig) *CancelOrderTool {
	return &CancelOrderTool{
		client: c,
		description: describe(cfg,
			"Отменить заказ (перевести в CANCELED). Работает только для заказов в статусе PENDING."),
	}
}

func (t *CancelOrderTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "cancel_order",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"order_id": map[string]interface{}{
					"type":        "string",
					"description": "UUID заказа",
				},
			},
			"required": []string{"order_id"},
		},
	}
}

func (t *CancelOrderTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}
	if strings.TrimSpace(args.OrderID) == "" {
		return tools.Fail("order_id is required"), nil
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	order, err := t.client.CancelOrder(ctx, sess.Token(), args.OrderID)
	return wrap(order, err)
}
