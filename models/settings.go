package models

import "time"

// Defaults applied when a status or template is created without them
const (
	DefaultStatusColor  = "#6B7280"
	DefaultStatusIcon   = "Circle"
	DefaultTemplateType = "order"
)

// OrderStatus describes how an order status is displayed
type OrderStatus struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Color     *string   `json:"color"`
	Icon      *string   `json:"icon"`
	SortOrder *int      `gorm:"index" json:"sort_order"`
	IsActive  *bool     `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the OrderStatus model
func (OrderStatus) TableName() string {
	return "order_statuses"
}

// PrintTemplate is a printable document layout (receipt, act, ...)
type PrintTemplate struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;not null" json:"name"`
	TemplateType *string   `json:"template_type"`
	Content      *string   `gorm:"type:text" json:"content"`
	IsDefault    *bool     `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the PrintTemplate model
func (PrintTemplate) TableName() string {
	return "print_templates"
}
