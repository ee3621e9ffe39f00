// Типизированные методы OyGul content сервиса.
//
// Частичные обновления собираются в map: на проводе оказываются только
// явно заданные поля, остальные записи на сервере не трогаются.
package oygul

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Цветы
// ---------------------------------------------------------------------------

// CreateFlowerRequest — параметры создания цветка (master).
type CreateFlowerRequest struct {
	MerchantID     string       `json:"merchant_id"`
	BranchID       string       `json:"branch_id"`
	Name           Translations `json:"name"`
	Description    Translations `json:"description"`
	Quantity       float64      `json:"quantity"`
	UnitCost       int          `json:"unit_cost"`
	Price          int          `json:"price"`
	SoldSeparately bool         `json:"sold_separately"`
	SoldOnline     bool         `json:"sold_online"`
	PhotoURLs      []string     `json:"photo_urls"`
	Tags           []Translations `json:"tags"`
	Consumables    []ProductSpent `json:"consumables"`
}

// CreateFlower создаёт новый цветок (master запись).
func (c *Client) CreateFlower(ctx context.Context, token string, req CreateFlowerRequest) (*Flower, error) {
	if req.PhotoURLs == nil {
		req.PhotoURLs = []string{}
	}
	if req.Tags == nil {
		req.Tags = []Translations{}
	}
	if req.Consumables == nil {
		req.Consumables = []ProductSpent{}
	}

	var flower Flower
	if err := c.call(ctx, http.MethodPost, "/content/flowers/master/", token, nil, req, &flower); err != nil {
		return nil, err
	}
	return &flower, nil
}

// ListFilter — общие параметры списочных запросов content сервиса.
type ListFilter struct {
	MerchantID string
	BranchID   string
	Search     string
	TypeIDs    []string
	IDs        []string
	Lang       string
	Page       int
	Limit      int
	Sort       string // формат '<field>-<direction>', например 'updatedAt-desc'
}

// listParams переводит фильтр в query параметры.
//
// Нулевые значения не попадают в запрос: пустой фильтр даёт
// дефолтную выдачу сервера.
func (f ListFilter) listParams() url.Values {
	params := url.Values{}
	params.Set("merchant_id", f.MerchantID)
	params.Set("branch_id", f.BranchID)
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	for _, id := range f.TypeIDs {
		params.Add("type_id", id)
	}
	for _, id := range f.IDs {
		params.Add("id", id)
	}
	if f.Lang != "" {
		params.Set("lang", f.Lang)
	}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Sort != "" {
		params.Set("sort", f.Sort)
	}
	return params
}

// ListFlowers возвращает страницу списка цветов.
func (c *Client) ListFlowers(ctx context.Context, token string, filter ListFilter) (*FlowerList, error) {
	var list FlowerList
	if err := c.call(ctx, http.MethodGet, "/content/flowers", token, filter.listParams(), nil, &list); err != nil {
		return nil, err
	}
	if list.Data == nil {
		list.Data = []Flower{}
	}
	return &list, nil
}

// FlowerUpdate — частичное обновление цветка.
//
// Quantity обязателен, остальные поля опциональны (nil = не менять).
type FlowerUpdate struct {
	Quantity       float64
	Price          *int
	SoldSeparately *bool
	SoldOnline     *bool
}

// UpdateFlower обновляет склад и цену цветка.
func (c *Client) UpdateFlower(ctx context.Context, token, flowerID string, upd FlowerUpdate) (*Flower, error) {
	payload := map[string]any{"quantity": upd.Quantity}
	if upd.Price != nil {
		payload["price"] = *upd.Price
	}
	if upd.SoldSeparately != nil {
		payload["sold_separately"] = *upd.SoldSeparately
	}
	if upd.SoldOnline != nil {
		payload["sold_online"] = *upd.SoldOnline
	}

	var flower Flower
	if err := c.call(ctx, http.MethodPut, "/content/flowers/"+flowerID+"/", token, nil, payload, &flower); err != nil {
		return nil, err
	}
	return &flower, nil
}

// TypeUpdate — частичное обновление типа цветка (имя, описание, фото).
type TypeUpdate struct {
	Name        Translations
	Description Translations
	PhotoURLs   []string
}

// payload собирает тело запроса только из заданных полей.
func (u TypeUpdate) payload() map[string]any {
	payload := map[string]any{}
	if u.Name != nil {
		payload["name"] = u.Name
	}
	if u.Description != nil {
		payload["description"] = u.Description
	}
	if u.PhotoURLs != nil {
		payload["photo_urls"] = u.PhotoURLs
	}
	return payload
}

// UpdateFlowerType обновляет имя, описание или фотографии типа цветка.
func (c *Client) UpdateFlowerType(ctx context.Context, token, typeID string, upd TypeUpdate) (*Flower, error) {
	var flower Flower
	if err := c.call(ctx, http.MethodPut, "/content/flower-types/"+typeID+"/", token, nil, upd.payload(), &flower); err != nil {
		return nil, err
	}
	return &flower, nil
}

// DeleteFlowerType выполняет soft delete типа цветка вместе с его master записью.
func (c *Client) DeleteFlowerType(ctx context.Context, token, typeID string) error {
	return c.call(ctx, http.MethodDelete, "/content/flower-types/"+typeID, token, nil, nil, nil)
}

// ---------------------------------------------------------------------------
// Букеты
// ---------------------------------------------------------------------------

// CreateBouquetRequest — параметры создания букета (master).
type CreateBouquetRequest struct {
	MerchantID    string         `json:"merchant_id"`
	BranchID      string         `json:"branch_id"`
	Name          Translations   `json:"name"`
	Description   Translations   `json:"description"`
	Price         int            `json:"price"`
	SoldOnline    bool           `json:"sold_online"`
	PhotoURLs     []string       `json:"photo_urls"`
	Tags          []Translations `json:"tags"`
	ProductsSpent []ProductSpent `json:"products_spent"`
}

// CreateBouquet создаёт новый букет. Состав указывает какие цветы
// и расходники списываются со склада при продаже.
func (c *Client) CreateBouquet(ctx context.Context, token string, req CreateBouquetRequest) (*Bouquet, error) {
	if req.PhotoURLs == nil {
		req.PhotoURLs = []string{}
	}
	if req.Tags == nil {
		req.Tags = []Translations{}
	}
	if req.ProductsSpent == nil {
		req.ProductsSpent = []ProductSpent{}
	}

	var bouquet Bouquet
	if err := c.call(ctx, http.MethodPost, "/content/bouquets/master/", token, nil, req, &bouquet); err != nil {
		return nil, err
	}
	return &bouquet, nil
}

// ListBouquets возвращает страницу списка букетов.
func (c *Client) ListBouquets(ctx context.Context, token string, filter ListFilter) (*BouquetList, error) {
	var list BouquetList
	if err := c.call(ctx, http.MethodGet, "/content/bouquets", token, filter.listParams(), nil, &list); err != nil {
		return nil, err
	}
	if list.Data == nil {
		list.Data = []Bouquet{}
	}
	return &list, nil
}

// BouquetUpdate — частичное обновление букета. Все поля опциональны.
type BouquetUpdate struct {
	Quantity   *float64
	Price      *int
	SoldOnline *bool
}

// UpdateBouquet обновляет склад, цену или доступность букета.
func (c *Client) UpdateBouquet(ctx context.Context, token, bouquetID string, upd BouquetUpdate) (*Bouquet, error) {
	payload := map[string]any{}
	if upd.Quantity != nil {
		payload["quantity"] = *upd.Quantity
	}
	if upd.Price != nil {
		payload["price"] = *upd.Price
	}
	if upd.SoldOnline != nil {
		payload["sold_online"] = *upd.SoldOnline
	}

	var bouquet Bouquet
	if err := c.call(ctx, http.MethodPut, "/content/bouquets/"+bouquetID+"/", token, nil, payload, &bouquet); err != nil {
		return nil, err
	}
	return &bouquet, nil
}

// BouquetTypeUpdate — частичное обновление типа букета.
//
// ProductsSpent заменяет состав целиком: передавать нужно полный
// новый список, а не только изменившиеся позиции.
type BouquetTypeUpdate struct {
	Name          Translations
	Description   Translations
	Tags          []Translations
	PhotoURLs     []string
	ProductsSpent []ProductSpent
}

func (u BouquetTypeUpdate) payload() map[string]any {
	payload := map[string]any{}
	if u.Name != nil {
		payload["name"] = u.Name
	}
	if u.Description != nil {
		payload["description"] = u.Description
	}
	if u.Tags != nil {
		payload["tags"] = u.Tags
	}
	if u.PhotoURLs != nil {
		payload["photo_urls"] = u.PhotoURLs
	}
	if u.ProductsSpent != nil {
		payload["products_spent"] = u.ProductsSpent
	}
	return payload
}

// UpdateBouquetType обновляет имя, описание, теги, фотографии или состав типа букета.
func (c *Client) UpdateBouquetType(ctx context.Context, token, typeID string, upd BouquetTypeUpdate) (*Bouquet, error) {
	var bouquet Bouquet
	if err := c.call(ctx, http.MethodPut, "/content/bouquet-types/"+typeID+"/", token, nil, upd.payload(), &bouquet); err != nil {
		return nil, err
	}
	return &bouquet, nil
}

// DeleteBouquetType выполняет soft delete типа букета.
func (c *Client) DeleteBouquetType(ctx context.Context, token, typeID string) error {
	return c.call(ctx, http.MethodDelete, "/content/bouquet-types/"+typeID, token, nil, nil, nil)
}

// ---------------------------------------------------------------------------
// Расходники
// ---------------------------------------------------------------------------

// CreateConsumableRequest — параметры создания расходника (master).
type CreateConsumableRequest struct {
	MerchantID        string       `json:"merchant_id"`
	BranchID          string       `json:"branch_id"`
	Name              Translations `json:"name"`
	MeasurementTypeID string       `json:"measurement_type_id"`
	Quantity          float64      `json:"quantity"`
	UnitCost          float64      `json:"unit_cost"`
	PhotoURLs         []string     `json:"photo_urls,omitempty"`
}

// CreateConsumable создаёт новый расходный материал.
func (c *Client) CreateConsumable(ctx context.Context, token string, req CreateConsumableRequest) (*Consumable, error) {
	var consumable Consumable
	if err := c.call(ctx, http.MethodPost, "/content/consumables/master/", token, nil, req, &consumable); err != nil {
		return nil, err
	}
	return &consumable, nil
}

// ListConsumables возвращает страницу списка расходников.
func (c *Client) ListConsumables(ctx context.Context, token string, filter ListFilter) (*ConsumableList, error) {
	var list ConsumableList
	if err := c.call(ctx, http.MethodGet, "/content/consumables", token, filter.listParams(), nil, &list); err != nil {
		return nil, err
	}
	if list.Data == nil {
		list.Data = []Consumable{}
	}
	return &list, nil
}

// UpdateConsumable обновляет остаток расходника.
func (c *Client) UpdateConsumable(ctx context.Context, token, consumableID string, quantity float64) (*Consumable, error) {
	payload := map[string]any{"quantity": quantity}

	var consumable Consumable
	if err := c.call(ctx, http.MethodPut, "/content/consumables/"+consumableID+"/", token, nil, payload, &consumable); err != nil {
		return nil, err
	}
	return &consumable, nil
}

// ConsumableTypeUpdate — частичное обновление типа расходника.
//
// У расходников нет описания, зато есть единица измерения.
type ConsumableTypeUpdate struct {
	Name              Translations
	MeasurementTypeID string
	PhotoURLs         []string
}

func (u ConsumableTypeUpdate) payload() map[string]any {
	payload := map[string]any{}
	if u.Name != nil {
		payload["name"] = u.Name
	}
	if u.MeasurementTypeID != "" {
		payload["measurement_type_id"] = u.MeasurementTypeID
	}
	if u.PhotoURLs != nil {
		payload["photo_urls"] = u.PhotoURLs
	}
	return payload
}

// UpdateConsumableType обновляет имя, единицу измерения или фотографии типа расходника.
func (c *Client) UpdateConsumableType(ctx context.Context, token, typeID string, upd ConsumableTypeUpdate) (*Consumable, error) {
	var consumable Consumable
	if err := c.call(ctx, http.MethodPut, "/content/consumable-types/"+typeID+"/", token, nil, upd.payload(), &consumable); err != nil {
		return nil, err
	}
	return &consumable, nil
}

// DeleteConsumableType выполняет soft delete типа расходника.
func (c *Client) DeleteConsumableType(ctx context.Context, token, typeID string) error {
	return c.call(ctx, http.MethodDelete, "/content/consumable-types/"+typeID, token, nil, nil, nil)
}

// ---------------------------------------------------------------------------
// Справочники и поставки
// ---------------------------------------------------------------------------

// MeasurementTypes возвращает все единицы измерения.
func (c *Client) MeasurementTypes(ctx context.Context, token, lang string) ([]MeasurementType, error) {
	params := url.Values{}
	if lang != "" {
		params.Set("lang", lang)
	}

	var list MeasurementTypeList
	if err := c.call(ctx, http.MethodGet, "/content/measurement-types", token, params, nil, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

// CreateSupplyRequest — параметры прихода товара.
type CreateSupplyRequest struct {
	BranchID    string
	Quantity    float64
	UnitCost    float64
	ProductType string // FLOWER, CONSUMABLE, SWEET
	ProductID   string
}

// CreateSupply регистрирует приход товара на склад текущей датой (UTC).
func (c *Client) CreateSupply(ctx context.Context, token string, req CreateSupplyRequest) (*Supply, error) {
	supply := Supply{
		BranchID:    req.BranchID,
		SupplyDate:  time.Now().UTC().Format("2006-01-02T15:04:05"),
		Quantity:    req.Quantity,
		UnitCost:    req.UnitCost,
		ProductType: req.ProductType,
		ProductID:   req.ProductID,
	}

	var created Supply
	if err := c.call(ctx, http.MethodPost, "/content/supplies/", token, nil, supply, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ---------------------------------------------------------------------------
// Публичная лента
// ---------------------------------------------------------------------------

// FeedFilter — параметры поиска по публичной ленте.
type FeedFilter struct {
	MerchantID  string
	Page        int
	Limit       int
	ProductType string // BOUQUET, FLOWER, CONSUMABLE и их *_TYPE варианты
	Search      string
	MinPrice    *int
	MaxPrice    *int
	Sort        string // формат '<field>-<direction>ending', например 'price-ascending'
	HasDiscount *bool
	Tags        []string
	Lang        string
}

// SearchFeed ищет товары в публичной ленте. Авторизация не требуется.
func (c *Client) SearchFeed(ctx context.Context, filter FeedFilter) (*FeedPage, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	lang := filter.Lang
	if lang == "" {
		lang = "ru"
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("lang", lang)
	if filter.MerchantID != "" {
		params.Set("merchant_id", filter.MerchantID)
	}
	if filter.ProductType != "" {
		params.Set("product_type", filter.ProductType)
	}
	if filter.Search != "" {
		params.Set("search", filter.Search)
	}
	if filter.MinPrice != nil {
		params.Set("min_price", strconv.Itoa(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		params.Set("max_price", strconv.Itoa(*filter.MaxPrice))
	}
	if filter.Sort != "" {
		params.Set("sort", filter.Sort)
	}
	if filter.HasDiscount != nil {
		params.Set("has_discount", strconv.FormatBool(*filter.HasDiscount))
	}
	if len(filter.Tags) > 0 {
		params.Set("tags", strings.Join(filter.Tags, ","))
	}

	var feed FeedPage
	if err := c.call(ctx, http.MethodGet, "/content/feed", "", params, nil, &feed); err != nil {
		return nil, err
	}
	if feed.Data == nil {
		feed.Data = []FeedItem{}
	}
	return &feed, nil
}
