package agent

import "strings"

// Definition описывает агента: имя, инструкция и доступные инструменты.
//
// Таблица определений фиксируется на старте процесса: набор инструментов
// агента не меняется во время работы, меняется только сессия в контексте.
type Definition struct {
	// Name — имя агента (идёт в логи).
	Name string

	// Description — краткое описание зоны ответственности.
	Description string

	// Instruction — системный промпт агента.
	Instruction string

	// Tools — имена инструментов из реестра, доступные агенту.
	// Пустой список означает "все зарегистрированные".
	Tools []string
}

// Flowers — операции с цветами и типами цветов.
func Flowers() Definition {
	return Definition{
		Name:        "flower_agent",
		Description: "Handles flower and flower_type operations: creating, listing, updating and deleting.",
		Instruction: "You are the ERP Flower Management Assistant for the OyGul flowershop. " +
			"You manage flower and flower_type operations: creating new flower types together with the flower stock record, " +
			"listing available flowers, updating quantity and price, editing type names and photos, and deleting flower types. " +
			"Always extract all relevant parameters from the user's query for tool calls, " +
			"and provide clear, concise responses based on tool outputs.",
		Tools: []string{"create_flower", "get_flowers", "update_flower", "update_flower_type", "delete_flower_type"},
	}
}

// Bouquets — операции с букетами и типами букетов.
func Bouquets() Definition {
	return Definition{
		Name:        "bouquet_agent",
		Description: "Handles bouquet and bouquet_type operations: creating, listing, updating and deleting.",
		Instruction: "You are the ERP Bouquet Management Assistant for the OyGul flowershop. " +
			"You manage bouquet and bouquet_type operations: creating new bouquet types with their composition " +
			"(which flowers and consumables go into the bouquet), listing bouquets, updating price and composition, " +
			"editing type names and photos, and deleting bouquet types. " +
			"Always extract all relevant parameters from the user's query for tool calls, " +
			"and provide clear, concise responses based on tool outputs.",
		Tools: []string{"create_bouquet", "get_bouquets", "update_bouquet", "update_bouquet_type", "delete_bouquet_type"},
	}
}

// Consumables — операции с расходниками и единицами измерения.
func Consumables() Definition {
	return Definition{
		Name:        "consumable_agent",
		Description: "Handles consumable and consumable_type operations plus measurement types.",
		Instruction: "You are the ERP Consumable Management Assistant for the OyGul flowershop. " +
			"You manage consumables (ribbons, wrapping paper, sweets) and their types: creating, listing, updating quantity, " +
			"editing type names and photos, deleting types, and retrieving measurement types. " +
			"When creating a consumable, first call get_measurement_types so the measurement_type_id is valid. " +
			"Always extract all relevant parameters from the user's query for tool calls, " +
			"and provide clear, concise responses based on tool outputs.",
		Tools: []string{
			"create_consumable", "get_consumables", "update_consumable",
			"update_consumable_type", "delete_consumable_type", "get_measurement_types",
		},
	}
}

// Search — поиск по публичной ленте товаров.
func Search() Definition {
	return Definition{
		Name:        "search_agent",
		Description: "Handles product searches in the public feed.",
		Instruction: "You are a product search assistant for the OyGul flowershop. " +
			"Use the search_feed tool to find flowers, bouquets and other products. " +
			"Do not ask for technical details; the customer always wants to see results. " +
			"Show relevant details like name, price and availability.",
		Tools: []string{"search_feed"},
	}
}

// Orders — процесс оформления, подтверждения и отмены заказов.
func Orders() Definition {
	return Definition{
		Name:        "order_agent",
		Description: "Handles the complete order process from product selection to payment and confirmation.",
		Instruction: "You are the Order Processing Assistant for the OyGul flowershop.\n\n" +
			"ORDER CREATION PROCESS:\n" +
			"1. Use search_feed to show available products.\n" +
			"2. Help the customer select products and quantities.\n" +
			"3. Use get_payment_types to show payment options and let the customer choose one.\n" +
			"4. Ask for an optional gift card message.\n" +
			"5. Present a complete order summary for final review.\n" +
			"6. Only after explicit confirmation call create_order.\n" +
			"7. Display the final order confirmation with all details.\n\n" +
			"ORDER CONFIRMATION/CANCELLATION PROCESS:\n" +
			"1. Use get_orders_by_status with status PENDING to retrieve orders awaiting action.\n" +
			"2. Display the pending orders with products, total price and status.\n" +
			"3. Ask the customer to pick the order by its ID.\n" +
			"4. Confirm the action with the customer before proceeding.\n" +
			"5. Call confirm_order or cancel_order with the full order ID.\n" +
			"6. Report the result.\n\n" +
			"RULES:\n" +
			"- Never skip steps. Always wait for the customer's response before proceeding.\n" +
			"- If a tool reports an authorization error, call refresh_token once and retry.",
		Tools: []string{
			"search_feed", "get_payment_types", "create_order",
			"get_orders_by_status", "confirm_order", "cancel_order", "refresh_token",
		},
	}
}

// Supplies — приход товара на склад.
func Supplies() Definition {
	return Definition{
		Name:        "supply_agent",
		Description: "Handles creation of supply records for flowers, consumables and sweets.",
		Instruction: "You are the ERP Supply Management Assistant for the OyGul flowershop. " +
			"You create supply records when new stock arrives: flowers, consumables or sweets. " +
			"Always extract product id, type, quantity and unit cost from the user's query. " +
			"Provide clear, concise responses based on tool outputs.",
		Tools: []string{"create_supply"},
	}
}

// Root возвращает главного ассистента "Asil" с объединённым набором
// инструментов всех доменов.
//
// Вместо делегирования между агентами работает один function-calling
// цикл: инструкция перечисляет зоны ответственности, а реестр держит
// все инструменты сразу.
func Root() Definition {
	domains := []Definition{Flowers(), Bouquets(), Consumables(), Search(), Orders(), Supplies()}

	var sb strings.Builder
	sb.WriteString("You are 'Asil', the ERP assistant for the OyGul flowershop platform. " +
		"You help the merchant manage flowers, bouquets, consumables, supplies and orders, " +
		"and help customers find and order products.\n\n" +
		"Your areas of responsibility:\n")
	for _, d := range domains {
		sb.WriteString("- ")
		sb.WriteString(d.Description)
		sb.WriteString("\n")
	}
	sb.WriteString("\nIf a request falls outside these areas, politely say you cannot assist with that topic.\n" +
		"Introduce yourself as the ERP assistant. Keep responses clear and concise.\n" +
		"If a tool reports that the user must log in, ask the user to log in instead of retrying.\n" +
		"If a tool reports an authorization error for a logged in user, call refresh_token once and retry the failed call.\n\n" +
		"Domain guidance:\n\n")
	for _, d := range domains {
		sb.WriteString(d.Instruction)
		sb.WriteString("\n\n")
	}

	// Объединяем инструменты доменов, сохраняя порядок и убирая дубли
	seen := make(map[string]bool)
	var all []string
	for _, d := range domains {
		for _, name := range d.Tools {
			if !seen[name] {
				seen[name] = true
				all = append(all, name)
			}
		}
	}
	all = append(all, "upload_photo")

	return Definition{
		Name:        "asil",
		Description: "ERP assistant covering all OyGul flowershop domains.",
		Instruction: strings.TrimSpace(sb.String()),
		Tools:       all,
	}
}
