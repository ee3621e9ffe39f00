// Инструменты каталога букетов.
package std

import (
	"context"
	"encoding/json"

	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/oygul"
	"github.com/Lazizkhan1/Easify/pkg/tools"
)

// === Create Bouquet ===

// CreateBouquetTool создаёт новый букет с составом.
//
// Состав (products_spent) определяет какие цветы и расходники
// списываются со склада при продаже букета.
type CreateBouquetTool struct {
	client      *oygul.Client
	description string
}

func NewCreateBouquetTool(c *oygul.Client, cfg config.ToolConfig) *CreateBouquetTool {
	return &CreateBouquetTool{
		client: c,
		description: describe(cfg,
			"Создать новый букет в каталоге магазина. Состав букета указывает какие цветы и расходники уходят со склада при продаже. Цены в узбекских сумах (UZS)."),
	}
}

func (t *CreateBouquetTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "create_bouquet",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name":        translationsSchema("Название букета на трёх языках"),
				"description": translationsSchema("Описание букета на трёх языках"),
				"price": map[string]interface{}{
					"type":        "integer",
					"description": "Цена продажи (UZS)",
				},
				"sold_online": map[string]interface{}{
					"type":        "boolean",
					"description": "Доступен ли букет для онлайн продажи",
				},
				"photo_urls": photoURLsSchema(),
				"tags": map[string]interface{}{
					"type":        "array",
					"description": "Теги букета, каждый на трёх языках",
					"items":       translationsSchema("Тег"),
				},
				"products_spent": productsSpentSchema("Состав букета"),
			},
			"required": []string{"name", "description", "price", "products_spent"},
		},
	}
}

func (t *CreateBouquetTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Name          oygul.Translations   `json:"name"`
		Description   oygul.Translations   `json:"description"`
		Price         int                  `json:"price"`
		SoldOnline    *bool                `json:"sold_online"`
		PhotoURLs     []string             `json:"photo_urls"`
		Tags          []oygul.Translations `json:"tags"`
		ProductsSpent []oygul.ProductSpent `json:"products_spent"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	soldOnline := true
	if args.SoldOnline != nil {
		soldOnline = *args.SoldOnline
	}

	bouquet, err := t.client.CreateBouquet(ctx, sess.Token(), oygul.CreateBouquetRequest{
		MerchantID:    sess.MerchantID(),
		BranchID:      sess.BranchID(),
		Name:          args.Name,
		Description:   args.Description,
		Price:         args.Price,
		SoldOnline:    soldOnline,
		PhotoURLs:     args.PhotoURLs,
		Tags:          args.Tags,
		ProductsSpent: args.ProductsSpent,
	})
	return wrap(bouquet, err)
}

// === Get Bouquets ===

// GetBouquetsTool возвращает страницу каталога букетов с фильтрами.
type GetBouquetsTool struct {
	client      *oygul.Client
	description string
}

func NewGetBouquetsTool(c *oygul.Client, cfg config.ToolConfig) *GetBouquetsTool {
	return &GetBouquetsTool{
		client: c,
		description: describe(cfg,
			"Получить список букетов магазина с поиском, фильтрами и пагинацией. Пустой результат — это не ошибка."),
	}
}

func (t *GetBouquetsTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_bouquets",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": pagingProperties(map[string]interface{}{
				"search": map[string]interface{}{
					"type":        "string",
					"description": "Поисковый запрос по названию или описанию",
				},
				"bouquet_type_ids": idListSchema("Фильтр по UUID типов букетов"),
				"bouquet_ids":      idListSchema("Фильтр по UUID букетов"),
				"sort": map[string]interface{}{
					"type":        "string",
					"description": "Сортировка в формате '<поле>-<направление>', например 'updatedAt-desc'",
				},
			}),
			"required": []string{},
		},
	}
}

func (t *GetBouquetsTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Search         string   `json:"search"`
		BouquetTypeIDs []string `json:"bouquet_type_ids"`
		BouquetIDs     []string `json:"bouquet_ids"`
		Page           int      `json:"page"`
		Limit          int      `json:"limit"`
		Sort           string   `json:"sort"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	sort := args.Sort
	if sort == "" {
		sort = "updatedAt-desc"
	}

	list, err := t.client.ListBouquets(ctx, sess.Token(), oygul.ListFilter{
		MerchantID: sess.MerchantID(),
		BranchID:   sess.BranchID(),
		Search:     args.Search,
		TypeIDs:    args.BouquetTypeIDs,
		IDs:        args.BouquetIDs,
		Lang:       sess.Lang(),
		Page:       args.Page,
		Limit:      args.Limit,
		Sort:       sort,
	})
	return wrap(list, err)
}

// === Update Bouquet ===

// UpdateBouquetTool — частичное обновление букета, все поля опциональны.
type UpdateBouquetTool struct {
	client      *oygul.Client
	description string
}

func NewUpdateBouquetTool(c *oygul.Client, cfg config.ToolConfig) *UpdateBouquetTool {
	return &UpdateBouquetTool{
		client: c,
		description: describe(cfg,
			"Обновить остаток, цену или доступность букета. Меняются только переданные поля."),
	}
}

func (t *UpdateBouquetTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "update_bouquet",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"bouquet_id": map[string]interface{}{
					"type":        "string",
					"description": "UUID букета (не bouquet_type_id)",
				},
				"quantity": map[string]interface{}{
					"type":        "number",
					"description": "Новый остаток",
				},
				"price": map[string]interface{}{
					"type":        "integer",
					"description": "Новая цена (UZS)",
				},
				"sold_online": map[string]interface{}{
					"type":        "boolean",
					"description": "Доступен ли онлайн",
				},
			},
			"required": []string{"bouquet_id"},
		},
	}
}

func (t *UpdateBouquetTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		BouquetID  string   `json:"bouquet_id"`
		Quantity   *float64 `json:"quantity"`
		Price      *int     `json:"price"`
		SoldOnline *bool    `json:"sold_online"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}
	if args.BouquetID == "" {
		return tools.Fail("bouquet_id is required"), nil
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	bouquet, err := t.client.UpdateBouquet(ctx, sess.Token(), args.BouquetID, oygul.BouquetUpdate{
		Quantity:   args.Quantity,
		Price:      args.Price,
		SoldOnline: args.SoldOnline,
	})
	return wrap(bouquet, err)
}

// === Update Bouquet Type ===

type UpdateBouquetTypeTool struct {
	client      *oygul.Client
	description string
}

func NewUpdateBouquetTypeTool(c *oygul.Client, cfg config.ToolConfig) *UpdateBouquetTypeTool {
	return &UpdateBouquetTypeTool{
		client: c,
		description: describe(cfg,
			"Обновить название, описание, теги, фотографии или состав типа букета. Меняются только переданные поля, состав заменяется целиком."),
	}
}

func (t *UpdateBouquetTypeTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "update_bouquet_type",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"bouquet_type_id": map[string]interface{}{
					"type":        "string",
					"description": "UUID типа букета",
				},
				"name":        translationsSchema("Новое название на трёх языках"),
				"description": translationsSchema("Новое описание на трёх языках"),
				"tags": map[string]interface{}{
					"type":        "array",
					"description": "Новые теги букета, каждый на трёх языках",
					"items":       translationsSchema("Тег"),
				},
				"photo_urls":     photoURLsSchema(),
				"products_spent": productsSpentSchema("Новый состав букета, заменяет прежний целиком"),
			},
			"required": []string{"bouquet_type_id"},
		},
	}
}

func (t *UpdateBouquetTypeTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		BouquetTypeID string               `json:"bouquet_type_id"`
		Name          oygul.Translations   `json:"name"`
		Description   oygul.Translations   `json:"description"`
		Tags          []oygul.Translations `json:"tags"`
		PhotoURLs     []string             `json:"photo_urls"`
		ProductsSpent []oygul.ProductSpent `json:"products_spent"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}
	if args.BouquetTypeID == "" {
		return tools.Fail("bouquet_type_id is required"), nil
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	bouquet, err := t.client.UpdateBouquetType(ctx, sess.Token(), args.BouquetTypeID, oygul.BouquetTypeUpdate{
		Name:          args.Name,
		Description:   args.Description,
		Tags:          args.Tags,
		PhotoURLs:     args.PhotoURLs,
		ProductsSpent: args.ProductsSpent,
	})
	return wrap(bouquet, err)
}

// === Delete Bouquet Type ===

type DeleteBouquetTypeTool struct {
	client      *oygul.Client
	description string
}

func NewDeleteBouquetTypeTool(c *oygul.Client, cfg config.ToolConfig) *DeleteBouquetTypeTool {
	return &DeleteBouquetTypeTool{
		client: c,
		description: describe(cfg,
			"Удалить тип букета вместе с его складской записью (мягкое удаление)."),
	}
}

func (t *DeleteBouquetTypeTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "delete_bouquet_type",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"bouquet_type_id": map[string]interface{}{
					"type":        "string",
					"description": "UUID типа букета для удаления",
				},
			},
			"required": []string{"bouquet_type_id"},
		},
	}
}

func (t *DeleteBouquetTypeTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		BouquetTypeID string `json:"bouquet_type_id"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}
	if args.BouquetTypeID == "" {
		return tools.Fail("bouquet_type_id is required"), nil
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	if err := t.client.DeleteBouquetType(ctx, sess.Token(), args.BouquetTypeID); err != nil {
		return wrap(nil, err)
	}
	return tools.OKMessage("bouquet_type " + args.BouquetTypeID + " deleted successfully")
}
