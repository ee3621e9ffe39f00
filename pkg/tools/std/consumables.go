// Инструменты расходных материалов (ленты, упаковка, корзины).
package std

import (
	"context"
	"encoding/json"

	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/oygul"
	"github.com/Lazizkhan1/Easify/pkg/tools"
)

// === Create Consumable ===

// CreateConsumableTool создаёт расходник. Единицу измерения нужно
// выбрать из справочника get_measurement_types.
type CreateConsumableTool struct {
	client      *oygul.Client
	description string
}

func NewCreateConsumableTool(c *oygul.Client, cfg config.ToolConfig) *CreateConsumableTool {
	return &CreateConsumableTool{
		client: c,
		description: describe(cfg,
			"Создать новый расходный материал (лента, упаковка и т.д.). measurement_type_id берётся из get_measurement_types."),
	}
}

func (t *CreateConsumableTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "create_consumable",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": translationsSchema("Название расходника на трёх языках"),
				"measurement_type_id": map[string]interface{}{
					"type":        "string",
					"description": "UUID единицы измерения из get_measurement_types",
				},
				"quantity": map[string]interface{}{
					"type":        "number",
					"description": "Начальный остаток",
				},
				"unit_cost": map[string]interface{}{
					"type":        "number",
					"description": "Себестоимость за единицу (UZS)",
				},
				"photo_urls": photoURLsSchema(),
			},
			"required": []string{"name", "measurement_type_id", "quantity", "unit_cost"},
		},
	}
}

func (t *CreateConsumableTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Name              oygul.Translations `json:"name"`
		MeasurementTypeID string             `json:"measurement_type_id"`
		Quantity          float64            `json:"quantity"`
		UnitCost          float64            `json:"unit_cost"`
		PhotoURLs         []string           `json:"photo_urls"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	consumable, err := t.client.CreateConsumable(ctx, sess.Token(), oygul.CreateConsumableRequest{
		MerchantID:        sess.MerchantID(),
		BranchID:          sess.BranchID(),
		Name:              args.Name,
		MeasurementTypeID: args.MeasurementTypeID,
		Quantity:          args.Quantity,
		UnitCost:          args.UnitCost,
		PhotoURLs:         args.PhotoURLs,
	})
	return wrap(consumable, err)
}

// === Get Consumables ===

type GetConsumablesTool struct {
	client      *oygul.Client
	description string
}

func NewGetConsumablesTool(c *oygul.Client, cfg config.ToolConfig) *GetConsumablesTool {
	return &GetConsumablesTool{
		client: c,
		description: describe(cfg,
			"Получить список расходных материалов магазина с поиском и пагинацией. Пустой результат — это не ошибка."),
	}
}

func (t *GetConsumablesTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_consumables",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": pagingProperties(map[string]interface{}{
				"search": map[string]interface{}{
					"type":        "string",
					"description": "Поисковый запрос по названию",
				},
				"consumable_type_ids": idListSchema("Фильтр по UUID типов расходников"),
				"consumable_ids":      idListSchema("Фильтр по UUID расходников"),
				"sort": map[string]interface{}{
					"type":        "string",
					"description": "Сортировка в формате '<поле>-<направление>', например 'quantity-desc'",
				},
			}),
			"required": []string{},
		},
	}
}

func (t *GetConsumablesTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Search            string   `json:"search"`
		ConsumableTypeIDs []string `json:"consumable_type_ids"`
		ConsumableIDs     []string `json:"consumable_ids"`
		Page              int      `json:"page"`
		Limit             int      `json:"limit"`
		Sort              string   `json:"sort"`
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

	list, err := t.client.ListConsumables(ctx, sess.Token(), oygul.ListFilter{
		MerchantID: sess.MerchantID(),
		BranchID:   sess.BranchID(),
		Search:     args.Search,
		TypeIDs:    args.ConsumableTypeIDs,
		IDs:        args.ConsumableIDs,
		Lang:       sess.Lang(),
		Page:       args.Page,
		Limit:      args.Limit,
		Sort:       sort,
	})
	return wrap(list, err)
}

// === Update Consumable ===

// UpdateConsumableTool меняет только остаток: остальные поля расходника
// живут в его type записи.
type UpdateConsumableTool struct {
	client      *oygul.Client
	description string
}

func NewUpdateConsumableTool(c *oygul.Client, cfg config.ToolConfig) *UpdateConsumableTool {
	return &UpdateConsumableTool{
		client: c,
		description: describe(cfg,
			"Обновить остаток расходного материала на складе."),
	}
}

func (t *UpdateConsumableTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "update_consumable",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"consumable_id": map[string]interface{}{
					"type":        "string",
					"description": "UUID расходника (не consumable_type_id)",
				},
				"quantity": map[string]interface{}{
					"type":        "number",
					"description": "Новый остаток",
				},
			},
			"required": []string{"consumable_id", "quantity"},
		},
	}
}

func (t *UpdateConsumableTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		ConsumableID string  `json:"consumable_id"`
		Quantity     float64 `json:"quantity"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}
	if args.ConsumableID == "" {
		return tools.Fail("consumable_id is required"), nil
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	consumable, err := t.client.UpdateConsumable(ctx, sess.Token(), args.ConsumableID, args.Quantity)
	return wrap(consumable, err)
}

// === Update Consumable Type ===

type UpdateConsumableTypeTool struct {
	client      *oygul.Client
	description string
}

func NewUpdateConsumableTypeTool(c *oygul.Client, cfg config.ToolConfig) *UpdateConsumableTypeTool {
	return &UpdateConsumableTypeTool{
		client: c,
		description: describe(cfg,
			"Обновить название, единицу измерения или фотографии типа расходника. Меняются только переданные поля."),
	}
}

func (t *UpdateConsumableTypeTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "update_consumable_type",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"consumable_type_id": map[string]interface{}{
					"type":        "string",
					"description": "UUID типа расходника",
				},
				"name": translationsSchema("Новое название на трёх языках"),
				"measurement_type_id": map[string]interface{}{
					"type":        "string",
					"description": "UUID новой единицы измерения (см. get_measurement_types)",
				},
				"photo_urls": photoURLsSchema(),
			},
			"required": []string{"consumable_type_id"},
		},
	}
}

func (t *UpdateConsumableTypeTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		ConsumableTypeID  string             `json:"consumable_type_id"`
		Name              oygul.Translations `json:"name"`
		MeasurementTypeID string             `json:"measurement_type_id"`
		PhotoURLs         []string           `json:"photo_urls"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}
	if args.ConsumableTypeID == "" {
		return tools.Fail("consumable_type_id is required"), nil
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	consumable, err := t.client.UpdateConsumableType(ctx, sess.Token(), args.ConsumableTypeID, oygul.ConsumableTypeUpdate{
		Name:              args.Name,
		MeasurementTypeID: args.MeasurementTypeID,
		PhotoURLs:         args.PhotoURLs,
	})
	return wrap(consumable, err)
}

// === Delete Consumable Type ===

type DeleteConsumableTypeTool struct {
	client      *oygul.Client
	description string
}

func NewDeleteConsumableTypeTool(c *oygul.Client, cfg config.ToolConfig) *DeleteConsumableTypeTool {
	return &DeleteConsumableTypeTool{
		client: c,
		description: describe(cfg,
			"Удалить тип расходника вместе с его складской записью (мягкое удаление)."),
	}
}

func (t *DeleteConsumableTypeTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "delete_consumable_type",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"consumable_type_id": map[string]interface{}{
					"type":        "string",
					"description": "UUID типа расходника для удаления",
				},
			},
			"required": []string{"consumable_type_id"},
		},
	}
}

func (t *DeleteConsumableTypeTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		ConsumableTypeID string `json:"consumable_type_id"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}
	if args.ConsumableTypeID == "" {
		return tools.Fail("consumable_type_id is required"), nil
	}

	sess, failed := sessionFrom(ctx)
	if failed != "" {
		return failed, nil
	}

	if err := t.client.DeleteConsumableType(ctx, sess.Token(), args.ConsumableTypeID); err != nil {
		return wrap(nil, err)
	}
	return tools.OKMessage("consumable_type " + args.ConsumableTypeID + " deleted successfully")
}
