// Справочники, поставки и публичная лента.
package std

import (
	"context"
	"encoding/json"

	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/oygul"
	"github.com/Lazizkhan1/Easify/pkg/tools"
)

// === Measurement Types ===

// GetMeasurementTypesTool возвращает справочник единиц измерения.
type GetMeasurementTypesTool struct {
	client      *oygul.Client
	description string
}

func NewGetMeasurementTypesTool(c *oygul.Client, cfg config.ToolConfig) *GetMeasurementTypesTool {
	return &GetMeasurementTypesTool{
		client: c,
		description: describe(cfg,
			"Получить справочник единиц измерения (штука, метр, грамм). Нужен при создании расходников."),
	}
}

func (t *GetMeasurementTypesTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_measurement_types",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
			"required":   []string{},
		},
	}
}

func (t *GetMeasurementTypesTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	types, err := t.client.MeasurementTypes(ctx, sess.Token(), sess.Lang())
	return wrap(types, err)
}

// === Create Supply ===

// CreateSupplyTool регистрирует приход товара на склад.
//
// Дата поставки не передаётся: приход всегда фиксируется текущим
// моментом (UTC), как это делает ERP при приёмке.
type CreateSupplyTool struct {
	client      *oygul.Client
	description string
}

func NewCreateSupplyTool(c *oygul.Client, cfg config.ToolConfig) *CreateSupplyTool {
	return &CreateSupplyTool{
		client: c,
		description: describe(cfg,
			"Зарегистрировать приход товара на склад: сколько единиц пришло и по какой себестоимости."),
	}
}

func (t *CreateSupplyTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "create_supply",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"quantity": map[string]interface{}{
					"type":        "number",
					"description": "Количество пришедших единиц",
				},
				"unit_cost": map[string]interface{}{
					"type":        "number",
					"description": "Себестоимость за единицу (UZS)",
				},
				"product_type": map[string]interface{}{
					"type":        "string",
					"description": "Тип продукта",
					"enum":        []string{"FLOWER", "CONSUMABLE", "SWEET"},
				},
				"product_id": map[string]interface{}{
					"type":        "string",
					"description": "UUID продукта (master записи)",
				},
			},
			"required": []string{"quantity", "unit_cost", "product_type", "product_id"},
		},
	}
}

func (t *CreateSupplyTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Quantity    float64 `json:"quantity"`
		UnitCost    float64 `json:"unit_cost"`
		ProductType string  `json:"product_type"`
		ProductID   string  `json:"product_id"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}
	if args.ProductID == "" {
		return tools.Fail("product_id is required"), nil
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	supply, err := t.client.CreateSupply(ctx, sess.Token(), oygul.CreateSupplyRequest{
		BranchID:    sess.BranchID(),
		Quantity:    args.Quantity,
		UnitCost:    args.UnitCost,
		ProductType: args.ProductType,
		ProductID:   args.ProductID,
	})
	return wrap(supply, err)
}

// === Search Feed ===

// SearchFeedTool ищет товары в публичной ленте OyGul.
//
// Единственный инструмент, работающий без авторизации: лента видна
// покупателям. Если сессия есть — поиск сужается до своего мерчанта.
type SearchFeedTool struct {
	client      *oygul.Client
	description string
}

func NewSearchFeedTool(c *oygul.Client, cfg config.ToolConfig) *SearchFeedTool {
	return &SearchFeedTool{
		client: c,
		description: describe(cfg,
			"Поиск товаров в публичной витрине: по названию, типу, цене, скидкам и тегам. Работает без авторизации."),
	}
}

func (t *SearchFeedTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "search_feed",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": pagingProperties(map[string]interface{}{
				"product_type": map[string]interface{}{
					"type":        "string",
					"description": "Фильтр по типу продукта",
					"enum": []string{
						"BOUQUET", "FLOWER", "SWEET", "SWEET_BOX", "CONSUMABLE",
						"BOUQUET_TYPE", "FLOWER_TYPE", "SWEET_TYPE", "SWEET_BOX_TYPE", "CONSUMABLE_TYPE",
					},
				},
				"search": map[string]interface{}{
					"type":        "string",
					"description": "Поисковый запрос по названию или описанию",
				},
				"min_price": map[string]interface{}{
					"type":        "integer",
					"description": "Минимальная цена включительно (UZS)",
				},
				"max_price": map[string]interface{}{
					"type":        "integer",
					"description": "Максимальная цена включительно (UZS)",
				},
				"sort": map[string]interface{}{
					"type":        "string",
					"description": "Сортировка, например 'price-ascending' или 'updatedAt-descending'",
					"enum": []string{
						"price-ascending", "price-descending",
						"createdAt-ascending", "createdAt-descending",
						"updatedAt-ascending", "updatedAt-descending",
						"rating-ascending", "rating-descending",
					},
				},
				"has_discount": map[string]interface{}{
					"type":        "boolean",
					"description": "true — только со скидкой, false — только без скидки",
				},
				"tags": map[string]interface{}{
					"type":        "array",
					"description": "Фильтр по тегам, точное совпадение всех. Пример: ['Mono', 'Red']",
					"items":       map[string]interface{}{"type": "string"},
				},
			}),
			"required": []string{},
		},
	}
}

func (t *SearchFeedTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Page        int      `json:"page"`
		Limit       int      `json:"limit"`
		ProductType string   `json:"product_type"`
		Search      string   `json:"search"`
		MinPrice    *int     `json:"min_price"`
		MaxPrice    *int     `json:"max_price"`
		Sort        string   `json:"sort"`
		HasDiscount *bool    `json:"has_discount"`
		Tags        []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}

	filter := oygul.FeedFilter{
		Page:        args.Page,
		Limit:       args.Limit,
		ProductType: args.ProductType,
		Search:      args.Search,
		MinPrice:    args.MinPrice,
		MaxPrice:    args.MaxPrice,
		Sort:        args.Sort,
		HasDiscount: args.HasDiscount,
		Tags:        args.Tags,
	}

	// Авторизация не обязательна, но сессия сужает поиск до своего магазина
	if sess := sessFromOptional(ctx); sess != nil {
		filter.MerchantID = sess.MerchantID()
		filter.Lang = sess.Lang()
	}

	page, err := t.client.SearchFeed(ctx, filter)
	return wrap(page, err)
}
