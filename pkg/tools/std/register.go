package std

import (
	"fmt"

	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/tools"
)

// RegisterAll собирает фиксированную таблицу инструментов процесса.
//
// Вызывается один раз при старте: после этого реестр не меняется.
// Инструмент, упомянутый в секции tools конфига, регистрируется только
// при enabled: true; не упомянутый — регистрируется всегда.
// upload_photo пропускается если хранилище фото не настроено.
func RegisterAll(reg *tools.Registry, deps Deps, cfg *config.AppConfig) error {
	toolCfg := func(name string) config.ToolConfig {
		return cfg.Tools[name]
	}
	enabled := func(name string) bool {
		tc, ok := cfg.Tools[name]
		if !ok {
			return true
		}
		return tc.Enabled
	}

	all := []struct {
		name string
		tool tools.Tool
	}{
		// Каталог цветов
		{"create_flower", NewCreateFlowerTool(deps.Client, toolCfg("create_flower"))},
		{"get_flowers", NewGetFlowersTool(deps.Client, toolCfg("get_flowers"))},
		{"update_flower", NewUpdateFlowerTool(deps.Client, toolCfg("update_flower"))},
		{"update_flower_type", NewUpdateFlowerTypeTool(deps.Client, toolCfg("update_flower_type"))},
		{"delete_flower_type", NewDeleteFlowerTypeTool(deps.Client, toolCfg("delete_flower_type"))},

		// Каталог букетов
		{"create_bouquet", NewCreateBouquetTool(deps.Client, toolCfg("create_bouquet"))},
		{"get_bouquets", NewGetBouquetsTool(deps.Client, toolCfg("get_bouquets"))},
		{"update_bouquet", NewUpdateBouquetTool(deps.Client, toolCfg("update_bouquet"))},
		{"update_bouquet_type", NewUpdateBouquetTypeTool(deps.Client, toolCfg("update_bouquet_type"))},
		{"delete_bouquet_type", NewDeleteBouquetTypeTool(deps.Client, toolCfg("delete_bouquet_type"))},

		// Расходники
		{"create_consumable", NewCreateConsumableTool(deps.Client, toolCfg("create_consumable"))},
		{"get_consumables", NewGetConsumablesTool(deps.Client, toolCfg("get_consumables"))},
		{"update_consumable", NewUpdateConsumableTool(deps.Client, toolCfg("update_consumable"))},
		{"update_consumable_type", NewUpdateConsumableTypeTool(deps.Client, toolCfg("update_consumable_type"))},
		{"delete_consumable_type", NewDeleteConsumableTypeTool(deps.Client, toolCfg("delete_consumable_type"))},

		// Справочники, поставки, лента
		{"get_measurement_types", NewGetMeasurementTypesTool(deps.Client, toolCfg("get_measurement_types"))},
		{"create_supply", NewCreateSupplyTool(deps.Client, toolCfg("create_supply"))},
		{"search_feed", NewSearchFeedTool(deps.Client, toolCfg("search_feed"))},

		// Заказы
		{"create_order", NewCreateOrderTool(deps.Client, toolCfg("create_order"))},
		{"get_payment_types", NewGetPaymentTypesTool(deps.Client, toolCfg("get_payment_types"))},
		{"get_orders_by_status", NewGetOrdersByStatusTool(deps.Client, toolCfg("get_orders_by_status"))},
		{"confirm_order", NewConfirmOrderTool(deps.Client, toolCfg("confirm_order"))},
		{"cancel_order", NewCancelOrderTool(deps.Client, toolCfg("cancel_order"))},

		// Сессия
		{"refresh_token", NewRefreshTokenTool(deps.Client, toolCfg("refresh_token"))},
	}

	for _, entry := range all {
		if !enabled(entry.name) {
			continue
		}
		if err := reg.Register(entry.tool); err != nil {
			return fmt.Errorf("register tool '%s': %w", entry.name, err)
		}
	}

	// Фото доступны только при настроенном хранилище
	if deps.Photos != nil && enabled("upload_photo") {
		if err := reg.Register(NewUploadPhotoTool(deps.Photos, toolCfg("upload_photo"))); err != nil {
			return fmt.Errorf("register tool 'upload_photo': %w", err)
		}
	}

	return nil
}
