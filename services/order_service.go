package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/kendall-kelly/repair-desk-api/models"
	"github.com/kendall-kelly/repair-desk-api/utils"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

const (
	// OrderListLimit caps order listings
	OrderListLimit = 100

	// orderNumberAttempts bounds retries after an order number collision
	orderNumberAttempts = 3
)

// CreatedOrder is returned after a successful create
type CreatedOrder struct {
	ID          uint   `json:"id"`
	OrderNumber string `json:"order_number"`
}

// OrderDetail is an order together with the names of everything it references
type OrderDetail struct {
	models.Order
	ContractorName        *string  `json:"contractor_name"`
	DeviceTypeName        *string  `json:"device_type_name"`
	BrandName             *string  `json:"brand_name"`
	ModelName             *string  `json:"model_name"`
	AdvertisingSourceName *string  `json:"advertising_source_name"`
	Accessories           []string `json:"accessories"`
}

// OrderSummary is the list projection of an order
type OrderSummary struct {
	ID             uint      `json:"id"`
	OrderNumber    string    `json:"order_number"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	EstimatedPrice *float64  `json:"estimated_price"`
	ContractorName *string   `json:"contractor_name"`
	Phone          *string   `json:"phone"`
	Device         *string   `json:"device"`
}

// OrderService manages repair orders
type OrderService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db, now: time.Now}
}

// WithClock replaces the service clock, used for order numbering and
// timestamps
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// Get returns the order with its reference names, or nil if it does not exist
func (s *OrderService) Get(ctx context.Context, id string) (*OrderDetail, error) {
	orderID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var order models.Order
	err = db.Preload("Contractor").
		Preload("DeviceType").
		Preload("Brand").
		Preload("Model").
		Preload("AdvertisingSource").
		First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	accessories := []string{}
	err = db.Table("order_accessories oa").
		Joins("JOIN accessories a ON a.id = oa.accessory_id").
		Where("oa.order_id = ? AND oa.is_present = ?", order.ID, true).
		Order("a.name").
		Pluck("a.name", &accessories).Error
	if err != nil {
		return nil, err
	}

	detail := &OrderDetail{Order: order, Accessories: accessories}
	if c := order.Contractor; c != nil {
		name := strings.TrimSpace(strings.Join([]string{c.Surname, c.Name, c.Patronymic}, " "))
		detail.ContractorName = &name
	}
	if order.DeviceType != nil {
		detail.DeviceTypeName = &order.DeviceType.Name
	}
	if order.Brand != nil {
		detail.BrandName = &order.Brand.Name
	}
	if order.Model != nil {
		detail.ModelName = &order.Model.Name
	}
	if order.AdvertisingSource != nil {
		detail.AdvertisingSourceName = &order.AdvertisingSource.Name
	}
	return detail, nil
}

// List returns up to OrderListLimit orders, newest first. An empty status
// or "all" lists every status.
func (s *OrderService) List(ctx context.Context, status string) ([]OrderSummary, error) {
	query := s.db.WithContext(ctx).Table("orders o").
		Select(`o.id, o.order_number, o.status, o.created_at, o.estimated_price, o.phone,
			c.surname || ' ' || c.name AS contractor_name,
			NULLIF(TRIM(COALESCE(b.name, '') || ' ' || COALESCE(m.name, '')), '') AS device`).
		Joins("LEFT JOIN contractors c ON c.id = o.contractor_id").
		Joins("LEFT JOIN device_brands b ON b.id = o.brand_id").
		Joins("LEFT JOIN device_models m ON m.id = o.model_id")

	if status != "" && status != "all" {
		query = query.Where("o.status = ?", status)
	}

	summaries := []OrderSummary{}
	err := query.Order("o.created_at DESC").Order("o.id DESC").Limit(OrderListLimit).Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// Create numbers and stores a new order in status "new". A collision on
// the order number reruns the whole transaction.
func (s *OrderService) Create(ctx context.Context, in OrderInput) (*CreatedOrder, error) {
	deadline, err := in.ParseDeadline()
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		created, err := s.create(ctx, in, deadline)
		if err == nil {
			return created, nil
		}
		if attempt >= orderNumberAttempts || !utils.IsUniqueViolationOn(err, "order_number") {
			return nil, err
		}
		log.Printf("Order number collision on attempt %d, retrying: %v", attempt, err)
	}
}

func (s *OrderService) create(ctx context.Context, in OrderInput, deadline *time.Time) (*CreatedOrder, error) {
	var created *CreatedOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()
		number, err := nextOrderNumber(tx, now)
		if err != nil {
			return err
		}

		order := models.Order{
			OrderNumber: number,
			Status:      models.StatusNew,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := resolveReferences(tx, &order, in); err != nil {
			return err
		}
		in.apply(&order, deadline)

		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if err := replaceAccessories(tx, order.ID, in.Accessories); err != nil {
			return err
		}

		created = &CreatedOrder{ID: order.ID, OrderNumber: order.OrderNumber}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update rewrites every column of the order from in and replaces its
// accessory set
func (s *OrderService) Update(ctx context.Context, id string, in OrderInput) error {
	if strings.TrimSpace(id) == "" {
		return utils.BadRequest("Order ID is required")
	}
	orderID, err := parseID(id)
	if err != nil {
		return err
	}
	deadline, err := in.ParseDeadline()
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := resolveReferences(tx, &order, in); err != nil {
			return err
		}
		in.apply(&order, deadline)

		result := tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
			"contractor_id":           order.ContractorID,
			"phone":                   order.Phone,
			"address":                 order.Address,
			"device_type_id":          order.DeviceTypeID,
			"brand_id":                order.BrandID,
			"model_id":                order.ModelID,
			"advertising_source_id":   order.AdvertisingSourceID,
			"serial_number":           order.SerialNumber,
			"color":                   order.Color,
			"appearance":              order.Appearance,
			"malfunction_description": order.MalfunctionDescription,
			"security_code":           order.SecurityCode,
			"device_turns_on":         order.DeviceTurnsOn,
			"failure_reason":          order.FailureReason,
			"repair_description":      order.RepairDescription,
			"return_defective_parts":  order.ReturnDefectiveParts,
			"estimated_price":         order.EstimatedPrice,
			"prepayment":              order.Prepayment,
			"deadline":                order.Deadline,
			"status":                  in.StatusOrDefault(),
			"receiver_comment":        order.ReceiverComment,
			"updated_at":              s.now(),
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return utils.NotFound("order %d not found", orderID)
		}

		return replaceAccessories(tx, uint(orderID), in.Accessories)
	})
}

// Delete removes the order and its accessory associations
func (s *OrderService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return utils.BadRequest("Order ID is required")
	}
	orderID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderAccessory{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Order{}, orderID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return utils.NotFound("order %d not found", orderID)
		}
		return nil
	})
}

// nextOrderNumber returns "{year}-{seq}" where seq follows the highest
// trailing number used this year, zero-padded to three digits. Numbers of
// the year without a trailing number are ignored.
func nextOrderNumber(tx *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("%d-", now.Year())

	var numbers []string
	err := tx.Model(&models.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Pluck("order_number", &numbers).Error
	if err != nil {
		return "", fmt.Errorf("failed to compute order number: %w", err)
	}

	last := lo.Max(lo.FilterMap(numbers, func(n string, _ int) (int, bool) { return trailingNumber(n) }))
	return fmt.Sprintf("%s%03d", prefix, last+1), nil
}

func trailingNumber(s string) (int, bool) {
	start := len(s)
	for start > 0 && s[start-1] >= '0' && s[start-1] <= '9' {
		start--
	}
	n, err := strconv.Atoi(s[start:])
	return n, err == nil
}

// resolveReferences fills the reference ids of order from the free-text
// fields of in
func resolveReferences(tx *gorm.DB, order *models.Order, in OrderInput) error {
	refs := NewReferenceResolver(tx)

	var err error
	if order.ContractorID, err = refs.Contractor(in.ContractorName); err != nil {
		return err
	}
	if order.BrandID, err = refs.Brand(in.Brand); err != nil {
		return err
	}
	if order.ModelID, err = refs.Model(order.BrandID, in.Model); err != nil {
		return err
	}
	if order.DeviceTypeID, err = refs.DeviceType(in.DeviceType); err != nil {
		return err
	}
	if order.AdvertisingSourceID, err = refs.AdvertisingSource(in.AdvertisingSource); err != nil {
		return err
	}
	return nil
}

// replaceAccessories makes names the complete accessory set of the order
func replaceAccessories(tx *gorm.DB, orderID uint, names []string) error {
	if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderAccessory{}).Error; err != nil {
		return err
	}

	refs := NewReferenceResolver(tx)
	for _, name := range lo.Uniq(lo.Map(names, func(n string, _ int) string { return strings.TrimSpace(n) })) {
		accessoryID, err := refs.Accessory(name)
		if err != nil {
			return err
		}
		if accessoryID == nil {
			continue
		}
		link := models.OrderAccessory{OrderID: orderID, AccessoryID: *accessoryID, IsPresent: true}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}
