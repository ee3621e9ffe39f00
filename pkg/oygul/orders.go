// Методы OyGul transaction сервиса.
//
// В отличие от content, transaction API использует camelCase и
// PATCH для смены статуса заказа.
package oygul

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// OrderStatuses — допустимые статусы для фильтра списка заказов.
var OrderStatuses = []string{"PENDING", "FAILED", "CANCELED", "REFUND", "SUCCESSFUL"}

// ValidOrderStatus проверяет статус без учёта регистра.
func ValidOrderStatus(status string) bool {
	upper := strings.ToUpper(status)
	for _, s := range OrderStatuses {
		if s == upper {
			return true
		}
	}
	return false
}

// CreateOrderRequest — параметры создания заказа.
type CreateOrderRequest struct {
	UserID       string         `json:"userId"`
	MerchantID   string         `json:"merchantId"`
	BranchID     string         `json:"branchId"`
	PaymentType  string         `json:"paymentType"`
	Products     []OrderProduct `json:"products"`
	GiftCardNote string         `json:"giftCardNote"`
}

// CreateOrder создаёт новый заказ.
func (c *Client) CreateOrder(ctx context.Context, token string, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.call(ctx, http.MethodPost, "/transaction/orders", token, nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// PaymentTypes возвращает доступные способы оплаты.
func (c *Client) PaymentTypes(ctx context.Context, token string) ([]PaymentType, error) {
	var types []PaymentType
	if err := c.call(ctx, http.MethodGet, "/transaction/payment-types", token, nil, nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// ListOrders возвращает страницу заказов с заданным статусом.
func (c *Client) ListOrders(ctx context.Context, token, status string, page, limit int) (*OrderList, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("transactionStatus", strings.ToUpper(status))

	var list OrderList
	if err := c.call(ctx, http.MethodGet, "/transaction/orders", token, params, nil, &list); err != nil {
		return nil, err
	}
	if list.Data == nil {
		list.Data = []Order{}
	}
	return &list, nil
}

// ConfirmOrder переводит заказ в статус CONFIRMED.
func (c *Client) ConfirmOrder(ctx context.Context, token, orderID string) (*Order, error) {
	params := url.Values{}
	params.Set("orderId", strings.TrimSpace(orderID))

	var order Order
	if err := c.call(ctx, http.MethodPatch, "/transaction/orders/confirm", token, params, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder отменяет заказ. Отменить можно только заказ в статусе PENDING.
func (c *Client) CancelOrder(ctx context.Context, token, orderID string) (*Order, error) {
	var order Order
	if err := c.call(ctx, http.MethodPatch, "/transaction/orders/cancel/"+orderID, token, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
