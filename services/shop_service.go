package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kendall-kelly/repair-desk-api/utils"
	"github.com/samber/lo"
)

const (
	// ShopOrderStatusPending is the status of every new shop order
	ShopOrderStatusPending = "pending"

	// firstShopOrderNumber numbers the first shop order of a process
	firstShopOrderNumber = 1005
)

// Shop error messages shown to the customer
const (
	ShopMsgMissingFields = "Заполните все поля"
	ShopMsgEmptyCart     = "Корзина пуста"
	ShopMsgBadData       = "Неверный формат данных"
	ShopMsgOrderPlaced   = "Заказ успешно оформлен"
)

// Product is a catalog entry of the shop demo
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	Category    string `json:"category"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// CartItem is one line of a checkout
type CartItem struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// CheckoutRequest is the body of a shop checkout
type CheckoutRequest struct {
	CustomerName string     `json:"customerName" validate:"required"`
	Email        string     `json:"email" validate:"required"`
	Phone        string     `json:"phone" validate:"required"`
	Items        []CartItem `json:"items" validate:"required,min=1,dive"`
}

// ShopOrder is a placed shop order
type ShopOrder struct {
	ID           string     `json:"id"`
	CustomerName string     `json:"customerName"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Items        []CartItem `json:"items"`
	Total        int64      `json:"total"`
	Status       string     `json:"status"`
	Date         time.Time  `json:"date"`
}

// ProductFilter narrows a product listing
type ProductFilter struct {
	Category string
	Search   string
}

// DefaultCatalog returns a fresh copy of the seed catalog
func DefaultCatalog() []Product {
	const cdn = "https://cdn.poehali.dev/projects/ecc87eec-1e42-4990-bf43-a1fac36edbf4/files/"
	return []Product{
		{ID: "1", Name: "Ноутбук Dell XPS 13", SKU: "LAP-001", Category: "Электроника", Quantity: 5, Price: 89990,
			Image: cdn + "35de587e-a370-4736-8105-ef0ca9e67059.jpg", Description: "Мощный и компактный ноутбук для работы и развлечений"},
		{ID: "2", Name: "Клавиатура Logitech MX", SKU: "KEY-002", Category: "Аксессуары", Quantity: 45, Price: 8990,
			Image: cdn + "95939c2c-43de-467e-a4c0-9dcb099e65c9.jpg", Description: "Профессиональная беспроводная клавиатура"},
		{ID: "3", Name: `Монитор Samsung 27"`, SKU: "MON-003", Category: "Электроника", Quantity: 8, Price: 24990,
			Image: cdn + "3abd42e4-cdd6-498d-8116-693a50c16907.jpg", Description: "Современный монитор с высоким разрешением"},
		{ID: "4", Name: "Мышь Wireless", SKU: "MOU-004", Category: "Аксессуары", Quantity: 3, Price: 1990,
			Image: cdn + "d1aa084c-fe67-4c77-a6ac-a0123979b925.jpg", Description: "Эргономичная беспроводная мышь"},
		{ID: "5", Name: "USB-C Кабель", SKU: "CAB-005", Category: "Кабели", Quantity: 120, Price: 590,
			Image: cdn + "324a8c8c-648c-44d0-bcfa-990f368c8b88.jpg", Description: "Надёжный кабель USB-C для зарядки"},
	}
}

// ShopStore holds the in-memory catalog and placed orders for the lifetime
// of a process (or a test). All access goes through mu.
type ShopStore struct {
	mu       sync.Mutex
	products []Product
	orders   []ShopOrder
	images   ImageService
	validate *validator.Validate
	now      func() time.Time
}

// NewShopStore creates a store over catalog. images may be nil, in which
// case image references are returned as stored.
func NewShopStore(catalog []Product, images ImageService) *ShopStore {
	return &ShopStore{
		products: append([]Product(nil), catalog...),
		orders:   []ShopOrder{},
		images:   images,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Products returns in-stock products matching filter
func (s *ShopStore) Products(ctx context.Context, filter ProductFilter) []Product {
	search := strings.ToLower(filter.Search)

	s.mu.Lock()
	products := lo.Filter(s.products, func(p Product, _ int) bool {
		if p.Quantity <= 0 {
			return false
		}
		if filter.Category != "" && p.Category != filter.Category {
			return false
		}
		if search != "" {
			return strings.Contains(strings.ToLower(p.Name), search) || strings.Contains(strings.ToLower(p.SKU), search)
		}
		return true
	})
	s.mu.Unlock()

	return s.withImageURLs(ctx, products)
}

// Categories returns the distinct categories of the whole catalog
func (s *ShopStore) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Uniq(lo.Map(s.products, func(p Product, _ int) string { return p.Category }))
}

// Product returns a copy of the product with the given id
func (s *ShopStore) Product(id string) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Find(s.products, func(p Product) bool { return p.ID == id })
}

// Orders returns a copy of the placed orders
func (s *ShopStore) Orders() []ShopOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ShopOrder(nil), s.orders...)
}

// Checkout validates the whole cart against current stock, then decrements
// stock and records the order. A failed checkout changes nothing.
func (s *ShopStore) Checkout(req CheckoutRequest) (*ShopOrder, error) {
	if err := s.checkRequest(req); err != nil {
		return nil, err
	}

	requested := map[string]int{}
	for _, item := range req.Items {
		requested[item.ID] += item.Quantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := make(map[string]int, len(s.products))
	for i, p := range s.products {
		index[p.ID] = i
	}

	var total int64
	for _, item := range req.Items {
		i, ok := index[item.ID]
		if !ok {
			return nil, utils.BadRequest("Товар %s не найден", item.ID)
		}
		product := s.products[i]
		if product.Quantity < requested[item.ID] {
			return nil, utils.BadRequest("Недостаточно товара %s на складе", product.Name)
		}
		total += product.Price * int64(item.Quantity)
	}

	for _, item := range req.Items {
		s.products[index[item.ID]].Quantity -= item.Quantity
	}

	order := ShopOrder{
		ID:           fmt.Sprintf("ORD-%d", firstShopOrderNumber+len(s.orders)),
		CustomerName: req.CustomerName,
		Email:        req.Email,
		Phone:        req.Phone,
		Items:        append([]CartItem(nil), req.Items...),
		Total:        total,
		Status:       ShopOrderStatusPending,
		Date:         s.now(),
	}
	s.orders = append(s.orders, order)

	log.Printf("Shop order %s placed: %d items, total %d", order.ID, len(order.Items), order.Total)
	return &order, nil
}

// checkRequest maps validation failures to the customer-facing messages
func (s *ShopStore) checkRequest(req CheckoutRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return utils.BadRequest(ShopMsgBadData)
	}
	for _, fe := range validationErrors {
		switch fe.Field() {
		case "CustomerName", "Email", "Phone":
			return utils.BadRequest(ShopMsgMissingFields)
		}
	}
	for _, fe := range validationErrors {
		if fe.Field() == "Items" {
			return utils.BadRequest(ShopMsgEmptyCart)
		}
	}
	return utils.BadRequest(ShopMsgBadData)
}

// withImageURLs resolves image references. A reference that cannot be
// resolved is logged and returned as stored.
func (s *ShopStore) withImageURLs(ctx context.Context, products []Product) []Product {
	if s.images == nil {
		return products
	}
	for i := range products {
		url, err := s.images.GetImageURL(ctx, products[i].Image)
		if err != nil {
			log.Printf("Failed to resolve image for product %s: %v", products[i].ID, err)
			continue
		}
		products[i].Image = url
	}
	return products
}
