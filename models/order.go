package models

import (
	"time"
)

// StatusNew is the status every order starts in
const StatusNew = "new"

// Order represents a device repair order taken at the front desk
type Order struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	OrderNumber            string     `gorm:"uniqueIndex;not null" json:"order_number"` // {year}-{sequence}, e.g. 2025-007
	ContractorID           *uint      `gorm:"index" json:"contractor_id"`
	Phone                  *string    `json:"phone"`
	Address                *string    `json:"address"`
	DeviceTypeID           *uint      `gorm:"index" json:"device_type_id"`
	BrandID                *uint      `gorm:"index" json:"brand_id"`
	ModelID                *uint      `gorm:"index" json:"model_id"`
	AdvertisingSourceID    *uint      `gorm:"index" json:"advertising_source_id"`
	SerialNumber           *string    `json:"serial_number"`
	Color                  *string    `json:"color"`
	Appearance             *string    `json:"appearance"`
	MalfunctionDescription *string    `gorm:"type:text" json:"malfunction_description"`
	SecurityCode           *string    `json:"security_code"`
	DeviceTurnsOn          bool       `gorm:"not null" json:"device_turns_on"`
	FailureReason          *string    `gorm:"type:text" json:"failure_reason"`
	RepairDescription      *string    `gorm:"type:text" json:"repair_description"`
	ReturnDefectiveParts   bool       `gorm:"not null" json:"return_defective_parts"`
	EstimatedPrice         *float64   `json:"estimated_price"`
	Prepayment             float64    `gorm:"not null" json:"prepayment"`
	Deadline               *time.Time `json:"deadline"`
	Status                 string     `gorm:"not null;index" json:"status"` // free-text code: new, in_progress, ready, completed, ...
	ReceiverComment        *string    `gorm:"type:text" json:"receiver_comment"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`

	Contractor        *Contractor        `gorm:"foreignKey:ContractorID" json:"-"`
	DeviceType        *DeviceType        `gorm:"foreignKey:DeviceTypeID" json:"-"`
	Brand             *DeviceBrand       `gorm:"foreignKey:BrandID" json:"-"`
	Model             *DeviceModel       `gorm:"foreignKey:ModelID" json:"-"`
	AdvertisingSource *AdvertisingSource `gorm:"foreignKey:AdvertisingSourceID" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderAccessory records that an accessory was handed in with an order
type OrderAccessory struct {
	OrderID     uint       `gorm:"primaryKey" json:"order_id"`
	AccessoryID uint       `gorm:"primaryKey" json:"accessory_id"`
	IsPresent   bool       `gorm:"not null" json:"is_present"`
	Order       *Order     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Accessory   *Accessory `gorm:"foreignKey:AccessoryID" json:"-"`
}

// TableName specifies the table name for the OrderAccessory model
func (OrderAccessory) TableName() string {
	return "order_accessories"
}
