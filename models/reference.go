package models

import "time"

// Contractor is a customer of the repair desk. The full name triple is the
// natural key used when orders reference a contractor by free text.
type Contractor struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Surname    string    `gorm:"not null;uniqueIndex:idx_contractors_full_name" json:"surname"`
	Name       string    `gorm:"not null;default:'';uniqueIndex:idx_contractors_full_name" json:"name"`
	Patronymic string    `gorm:"not null;default:'';uniqueIndex:idx_contractors_full_name" json:"patronymic"`
	Phone      *string   `json:"phone"`
	Email      *string   `json:"email"`
	Address    *string   `gorm:"type:text" json:"address"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for the Contractor model
func (Contractor) TableName() string {
	return "contractors"
}

// DeviceType is a device category such as "Смартфон"
type DeviceType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for the DeviceType model
func (DeviceType) TableName() string {
	return "device_types"
}

// DeviceBrand is a device manufacturer
type DeviceBrand struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for the DeviceBrand model
func (DeviceBrand) TableName() string {
	return "device_brands"
}

// DeviceModel is unique per brand, not globally
type DeviceModel struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	BrandID   uint         `gorm:"not null;uniqueIndex:idx_device_models_brand_name" json:"brand_id"`
	Name      string       `gorm:"not null;uniqueIndex:idx_device_models_brand_name" json:"name"`
	Brand     *DeviceBrand `gorm:"foreignKey:BrandID" json:"-"`
	IsActive  bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for the DeviceModel model
func (DeviceModel) TableName() string {
	return "device_models"
}

// AdvertisingSource is how the customer heard about the shop
type AdvertisingSource struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for the AdvertisingSource model
func (AdvertisingSource) TableName() string {
	return "advertising_sources"
}

// Accessory is an item handed in together with a device (charger, case, ...)
type Accessory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for the Accessory model
func (Accessory) TableName() string {
	return "accessories"
}
