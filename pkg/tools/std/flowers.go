// Инструменты каталога цветов.
package std

import (
	"context"
	"encoding/json"

	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/oygul"
	"github.com/Lazizkhan1/Easify/pkg/tools"
)

// === Create Flower ===

// CreateFlowerTool создаёт новый цветок (master запись склада).
//
// merchant_id и branch_id модель не передаёт: они берутся из сессии,
// чтобы модель не могла писать в чужой магазин.
type CreateFlowerTool struct {
	client      *oygul.Client
	description string
}

func NewCreateFlowerTool(c *oygul.Client, cfg config.ToolConfig) *CreateFlowerTool {
	return &CreateFlowerTool{
		client: c,
		description: describe(cfg,
			"Создать новый цветок в каталоге магазина. Название и описание задаются на трёх языках (uz, ru, en). Цены в узбекских сумах (UZS)."),
	}
}

func (t *CreateFlowerTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "create_flower",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name":        translationsSchema("Название цветка на трёх языках"),
				"description": translationsSchema("Описание цветка на трёх языках"),
				"quantity": map[string]interface{}{
					"type":        "number",
					"description": "Начальный остаток на складе",
				},
				"unit_cost": map[string]interface{}{
					"type":        "integer",
					"description": "Себестоимость за единицу (UZS)",
				},
				"price": map[string]interface{}{
					"type":        "integer",
					"description": "Цена продажи за единицу (UZS)",
				},
				"sold_separately": map[string]interface{}{
					"type":        "boolean",
					"description": "Продаётся ли цветок поштучно",
				},
				"sold_online": map[string]interface{}{
					"type":        "boolean",
					"description": "Доступен ли цветок для онлайн продажи",
				},
				"photo_urls": photoURLsSchema(),
			},
			"required": []string{"name", "description", "quantity", "unit_cost", "price"},
		},
	}
}

func (t *CreateFlowerTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Name           oygul.Translations `json:"name"`
		Description    oygul.Translations `json:"description"`
		Quantity       float64            `json:"quantity"`
		UnitCost       int                `json:"unit_cost"`
		Price          int                `json:"price"`
		SoldSeparately bool               `json:"sold_separately"`
		SoldOnline     *bool              `json:"sold_online"`
		PhotoURLs      []string           `json:"photo_urls"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	// Онлайн продажа по умолчанию включена
	soldOnline := true
	if args.SoldOnline != nil {
		soldOnline = *args.SoldOnline
	}

	flower, err := t.client.CreateFlower(ctx, sess.Token(), oygul.CreateFlowerRequest{
		MerchantID:     sess.MerchantID(),
		BranchID:       sess.BranchID(),
		Name:           args.Name,
		Description:    args.Description,
		Quantity:       args.Quantity,
		UnitCost:       args.UnitCost,
		Price:          args.Price,
		SoldSeparately: args.SoldSeparately,
		SoldOnline:     soldOnline,
		PhotoURLs:      args.PhotoURLs,
	})
	return wrap(flower, err)
}

// === Get Flowers ===

// GetFlowersTool возвращает страницу каталога цветов с фильтрами.
type GetFlowersTool struct {
	client      *oygul.Client
	description string
}

func NewGetFlowersTool(c *oygul.Client, cfg config.ToolConfig) *GetFlowersTool {
	return &GetFlowersTool{
		client: c,
		description: describe(cfg,
			"Получить список цветов магазина с поиском, фильтрами и пагинацией. Пустой результат — это не ошибка."),
	}
}

func (t *GetFlowersTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_flowers",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": pagingProperties(map[string]interface{}{
				"search": map[string]interface{}{
					"type":        "string",
					"description": "Поисковый запрос по названию или описанию",
				},
				"flower_type_ids": idListSchema("Фильтр по UUID типов цветов"),
				"flower_ids":      idListSchema("Фильтр по UUID цветов"),
				"sort": map[string]interface{}{
					"type":        "string",
					"description": "Сортировка в формате '<поле>-<направление>', например 'updatedAt-desc' или 'price-asc'",
				},
			}),
			"required": []string{},
		},
	}
}

func (t *GetFlowersTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Search        string   `json:"search"`
		FlowerTypeIDs []string `json:"flower_type_ids"`
		FlowerIDs     []string `json:"flower_ids"`
		Page          int      `json:"page"`
		Limit         int      `json:"limit"`
		Sort          string   `json:"sort"`
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

	list, err := t.client.ListFlowers(ctx, sess.Token(), oygul.ListFilter{
		MerchantID: sess.MerchantID(),
		BranchID:   sess.BranchID(),
		Search:     args.Search,
		TypeIDs:    args.FlowerTypeIDs,
		IDs:        args.FlowerIDs,
		Lang:       sess.Lang(),
		Page:       args.Page,
		Limit:      args.Limit,
		Sort:       sort,
	})
	return wrap(list, err)
}

// === Update Flower ===

// UpdateFlowerTool обновляет склад и цену цветка (частичное обновление).
type UpdateFlowerTool struct {
	client      *oygul.Client
	description string
}

func NewUpdateFlowerTool(c *oygul.Client, cfg config.ToolConfig) *UpdateFlowerTool {
	return &UpdateFlowerTool{
		client: c,
		description: describe(cfg,
			"Обновить остаток, цену или доступность цветка. Меняются только переданные поля. flower_id — это UUID цветка, не его типа."),
	}
}

func (t *UpdateFlowerTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "update_flower",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"flower_id": map[string]interface{}{
					"type":        "string",
					"description": "UUID цветка (не flower_type_id)",
				},
				"quantity": map[string]interface{}{
					"type":        "number",
					"description": "Новый остаток на складе",
				},
				"price": map[string]interface{}{
					"type":        "integer",
					"description": "Новая цена (UZS)",
				},
				"sold_separately": map[string]interface{}{
					"type":        "boolean",
					"description": "Продаётся ли поштучно",
				},
				"sold_online": map[string]interface{}{
					"type":        "boolean",
					"description": "Доступен ли онлайн",
				},
			},
			"required": []string{"flower_id", "quantity"},
		},
	}
}

func (t *UpdateFlowerTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		FlowerID       string  `json:"flower_id"`
		Quantity       float64 `json:"quantity"`
		Price          *int    `json:"price"`
		SoldSeparately *bool   `json:"sold_separately"`
		SoldOnline     *bool   `json:"sold_online"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}
	if args.FlowerID == "" {
		return tools.Fail("flower_id is required"), nil
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	flower, err := t.client.UpdateFlower(ctx, sess.Token(), args.FlowerID, oygul.FlowerUpdate{
		Quantity:       args.Quantity,
		Price:          args.Price,
		SoldSeparately: args.SoldSeparately,
		SoldOnline:     args.SoldOnline,
	})
	return wrap(flower, err)
}

// === Update Flower Type ===

// UpdateFlowerTypeTool меняет имя, описание и фотографии типа цветка.
// Используется когда поле нельзя поменять через update_flower.
type UpdateFlowerTypeTool struct {
	client      *oygul.Client
	description string
}

func NewUpdateFlowerTypeTool(c *oygul.Client, cfg config.ToolConfig) *UpdateFlowerTypeTool {
	return &UpdateFlowerTypeTool{
		client: c,
		description: describe(cfg,
			"Обновить название, описание или фотографии типа цветка. Меняются только переданные поля."),
	}
}

func (t *UpdateFlowerTypeTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "update_flower_type",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"flower_type_id": map[string]interface{}{
					"type":        "string",
					"description": "UUID типа цветка",
				},
				"name":        translationsSchema("Новое название на трёх языках"),
				"description": translationsSchema("Новое описание на трёх языках"),
				"photo_urls":  photoURLsSchema(),
			},
			"required": []string{"flower_type_id"},
		},
	}
}

func (t *UpdateFlowerTypeTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		FlowerTypeID string             `json:"flower_type_id"`
		Name         oygul.Translations `json:"name"`
		Description  oygul.Translations `json:"description"`
		PhotoURLs    []string           `json:"photo_urls"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}
	if args.FlowerTypeID == "" {
		return tools.Fail("flower_type_id is required"), nil
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	flower, err := t.client.UpdateFlowerType(ctx, sess.Token(), args.FlowerTypeID, oygul.TypeUpdate{
		Name:        args.Name,
		Description: args.Description,
		PhotoURLs:   args.PhotoURLs,
	})
	return wrap(flower, err)
}

// === Delete Flower Type ===

// DeleteFlowerTypeTool выполняет soft delete типа цветка вместе с master записью.
type DeleteFlowerTypeTool struct {
	client      *oygul.Client
	description string
}

func NewDeleteFlowerTypeTool(c *oygul.Client, cfg config.ToolConfig) *DeleteFlowerTypeTool {
	return &DeleteFlowerTypeTool{
		client: c,
		description: describe(cfg,
			"Удалить тип цветка вместе с его складской записью (мягкое удаление, запись можно восстановить в ERP)."),
	}
}

func (t *DeleteFlowerTypeTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "delete_flower_type",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"flower_type_id": map[string]interface{}{
					"type":        "string",
					"description": "UUID типа цветка для удаления",
				},
			},
			"required": []string{"flower_type_id"},
		},
	}
}

func (t *DeleteFlowerTypeTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		FlowerTypeID string `json:"flower_type_id"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}
	if args.FlowerTypeID == "" {
		return tools.Fail("flower_type_id is required"), nil
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	if err := t.client.DeleteFlowerType(ctx, sess.Token(), args.FlowerTypeID); err != nil {
		return wrap(nil, err)
	}
	return tools.OKMessage("flower_type " + args.FlowerTypeID + " deleted successfully")
}
