package models

import "time"

// Product is a spare part or retail item in the directory
type Product struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Article        *string   `json:"article"`
	Barcode        *string   `json:"barcode"`
	Category       *string   `json:"category"`
	RetailPrice    *float64  `json:"retail_price"`
	WholesalePrice *float64  `json:"wholesale_price"`
	DiscountPrice  *float64  `json:"discount_price"`
	PurchasePrice  *float64  `json:"purchase_price"`
	WarrantyMonths *int      `gorm:"default:0" json:"warranty_months"`
	Description    *string   `gorm:"type:text" json:"description"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// Service is a billable repair operation
type Service struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Article        *string   `json:"article"`
	Price          *float64  `json:"price"`
	WarrantyMonths *int      `gorm:"default:0" json:"warranty_months"`
	Description    *string   `gorm:"type:text" json:"description"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}

// User is a member of staff. The password is only ever stored as a bcrypt
// hash and never leaves the service.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Phone        *string   `json:"phone"`
	Email        *string   `json:"email"`
	Role         string    `gorm:"not null;default:manager" json:"role"`
	Position     *string   `json:"position"`
	PasswordHash *string   `json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type Malfunction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Malfunction) TableName() string {
	return "malfunctions"
}

type Unit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	ShortName *string   `json:"short_name"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Unit) TableName() string {
	return "units"
}

// MoneyItem is an income or expense article
type MoneyItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Category  *string   `json:"category"` // income or expense
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (MoneyItem) TableName() string {
	return "money_items"
}
