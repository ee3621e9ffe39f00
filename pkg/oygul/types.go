// DTO структуры OyGul API.
package oygul

// Translations — мультиязычная строка (узбекский, русский, английский).
//
// Пример: {"uz": "gul", "ru": "цветок", "en": "flower"}
type Translations map[string]string

// Flower — цветок (master запись склада).
type Flower struct {
	ID             string       `json:"id"`
	TypeID         string       `json:"type_id,omitempty"`
	Name           Translations `json:"name,omitempty"`
	Description    Translations `json:"description,omitempty"`
	Quantity       float64      `json:"quantity"`
	UnitCost       int          `json:"unit_cost"`
	Price          int          `json:"price"`
	SoldSeparately bool         `json:"sold_separately"`
	SoldOnline     bool         `json:"sold_online"`
	PhotoURLs      []string     `json:"photo_urls,omitempty"`
	CreatedAt      string       `json:"created_at,omitempty"`
	UpdatedAt      string       `json:"updated_at,omitempty"`
}

// FlowerList — страница списка цветов.
type FlowerList struct {
	Data  []Flower `json:"data"`
	Total int      `json:"total"`
	Limit int      `json:"limit"`
	Page  int      `json:"page"`
	Pages int      `json:"pages"`
}

// ProductSpent — позиция состава букета.
type ProductSpent struct {
	TypeID   string  `json:"type_id"`
	Quantity float64 `json:"quantity"`
	Type     string  `json:"type"` // FLOWER, SWEET, CONSUMABLE
}

// Bouquet — букет.
type Bouquet struct {
	ID            string         `json:"id"`
	TypeID        string         `json:"type_id,omitempty"`
	Name          Translations   `json:"name,omitempty"`
	Description   Translations   `json:"description,omitempty"`
	Quantity      float64        `json:"quantity"`
	Price         int            `json:"price"`
	SoldOnline    bool           `json:"sold_online"`
	PhotoURLs     []string       `json:"photo_urls,omitempty"`
	Tags          []Translations `json:"tags,omitempty"`
	ProductsSpent []ProductSpent `json:"products_spent,omitempty"`
	CreatedAt     string         `json:"created_at,omitempty"`
	UpdatedAt     string         `json:"updated_at,omitempty"`
}

// BouquetList — страница списка букетов.
type BouquetList struct {
	Data  []Bouquet `json:"data"`
	Total int       `json:"total"`
	Limit int       `json:"limit"`
	Page  int       `json:"page"`
	Pages int       `json:"pages"`
}

// Consumable — расходный материал (лента, упаковка и т.д.).
type Consumable struct {
	ID                string       `json:"id"`
	TypeID            string       `json:"type_id,omitempty"`
	Name              Translations `json:"name,omitempty"`
	MeasurementTypeID string       `json:"measurement_type_id,omitempty"`
	Quantity          float64      `json:"quantity"`
	UnitCost          float64      `json:"unit_cost"`
	PhotoURLs         []string     `json:"photo_urls,omitempty"`
	CreatedAt         string       `json:"created_at,omitempty"`
	UpdatedAt         string       `json:"updated_at,omitempty"`
}

// ConsumableList — страница списка расходников.
type ConsumableList struct {
	Data  []Consumable `json:"data"`
	Total int          `json:"total"`
	Limit int          `json:"limit"`
	Page  int          `json:"page"`
	Pages int          `json:"pages"`
}

// MeasurementType — единица измерения расходников (штука, метр, грамм).
type MeasurementType struct {
	ID   string       `json:"id"`
	Name Translations `json:"name"`
}

// MeasurementTypeList — ответ справочника единиц измерения.
type MeasurementTypeList struct {
	Data []MeasurementType `json:"data"`
}

// Supply — приход товара на склад.
//
// Endpoint поставок использует camelCase в отличие от остального content API.
type Supply struct {
	ID          string  `json:"id,omitempty"`
	BranchID    string  `json:"branchId"`
	SupplyDate  string  `json:"supplyDate"`
	Quantity    float64 `json:"quantity"`
	UnitCost    float64 `json:"unitCost"`
	ProductType string  `json:"productType"` // FLOWER, CONSUMABLE, SWEET
	ProductID   string  `json:"productId"`
}

// FeedItem — публичная карточка товара в ленте.
type FeedItem struct {
	ID          string   `json:"id"`
	ProductType string   `json:"product_type"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       int      `json:"price"`
	HasDiscount bool     `json:"has_discount"`
	Rating      float64  `json:"rating,omitempty"`
	PhotoURLs   []string `json:"photo_urls,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// FeedPage — страница публичной ленты.
type FeedPage struct {
	Data  []FeedItem `json:"data"`
	Total int        `json:"total"`
	Limit int        `json:"limit"`
	Page  int        `json:"page"`
	Pages int        `json:"pages"`
}

// OrderProduct — позиция заказа.
type OrderProduct struct {
	ProductID   string  `json:"productId"`
	TypeID      string  `json:"typeId"`
	Quantity    float64 `json:"quantity"`
	ProductType string  `json:"productType"`
	Price       float64 `json:"price"`
}

// Order — заказ в transaction сервисе.
type Order struct {
	ID                string         `json:"id"`
	UserID            string         `json:"userId,omitempty"`
	MerchantID        string         `json:"merchantId,omitempty"`
	BranchID          string         `json:"branchId,omitempty"`
	PaymentType       string         `json:"paymentType,omitempty"`
	TransactionStatus string         `json:"transactionStatus,omitempty"`
	Products          []OrderProduct `json:"products,omitempty"`
	GiftCardNote      string         `json:"giftCardNote,omitempty"`
	CreatedAt         string         `json:"createdAt,omitempty"`
}

// OrderList — страница списка заказов.
type OrderList struct {
	Data  []Order `json:"data"`
	Total int     `json:"total"`
	Limit int     `json:"limit"`
	Page  int     `json:"page"`
	Pages int     `json:"pages"`
}

// PaymentType — способ оплаты (CASH, UZCARD, CLICK и т.д.).
type PaymentType struct {
	Name string `json:"name"`
}

// User — запись пользователя в auth сервисе.
type User struct {
	ID         string `json:"id"`
	MerchantID string `json:"merchantId"`
	BranchID   string `json:"branchId"`
}

// Branch — филиал мерчанта.
type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}
