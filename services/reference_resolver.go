package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kendall-kelly/repair-desk-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// deviceTypeLabels maps intake form codes to device type names
var deviceTypeLabels = map[string]string{
	"phone":  "Смартфон",
	"tablet": "Планшет",
	"laptop": "Ноутбук",
	"watch":  "Часы",
}

// DeviceTypeLabel returns the device type name for an intake form code.
// Unknown codes are used verbatim.
func DeviceTypeLabel(code string) string {
	if label, ok := deviceTypeLabels[code]; ok {
		return label
	}
	return code
}

// ReferenceResolver turns free-text reference names into ids, inserting the
// reference row the first time a name is seen. Inserts use ON CONFLICT DO
// NOTHING so a concurrent insert of the same name never aborts the caller's
// transaction.
type ReferenceResolver struct {
	tx *gorm.DB
}

// NewReferenceResolver binds a resolver to tx
func NewReferenceResolver(tx *gorm.DB) *ReferenceResolver {
	return &ReferenceResolver{tx: tx}
}

// Contractor resolves "surname[ name[ patronymic]]". Blank input yields nil.
func (r *ReferenceResolver) Contractor(fullName string) (*uint, error) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return nil, nil
	}

	c := models.Contractor{Surname: parts[0]}
	if len(parts) > 1 {
		c.Name = parts[1]
	}
	if len(parts) > 2 {
		c.Patronymic = strings.Join(parts[2:], " ")
	}

	return r.getOrCreate(c.TableName(), &c, map[string]interface{}{
		"surname":    c.Surname,
		"name":       c.Name,
		"patronymic": c.Patronymic,
	})
}

// Brand resolves a device brand name
func (r *ReferenceResolver) Brand(name string) (*uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	b := models.DeviceBrand{Name: name}
	return r.getOrCreate(b.TableName(), &b, map[string]interface{}{"name": name})
}

// Model resolves a device model within a brand; without a brand there is
// no model
func (r *ReferenceResolver) Model(brandID *uint, name string) (*uint, error) {
	name = strings.TrimSpace(name)
	if brandID == nil || name == "" {
		return nil, nil
	}
	m := models.DeviceModel{BrandID: *brandID, Name: name}
	return r.getOrCreate(m.TableName(), &m, map[string]interface{}{"brand_id": *brandID, "name": name})
}

// DeviceType resolves an intake form device code through DeviceTypeLabel
func (r *ReferenceResolver) DeviceType(code string) (*uint, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	dt := models.DeviceType{Name: DeviceTypeLabel(code)}
	return r.getOrCreate(dt.TableName(), &dt, map[string]interface{}{"name": dt.Name})
}

// AdvertisingSource resolves an advertising source name
func (r *ReferenceResolver) AdvertisingSource(name string) (*uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	src := models.AdvertisingSource{Name: name}
	return r.getOrCreate(src.TableName(), &src, map[string]interface{}{"name": name})
}

// Accessory resolves an accessory name
func (r *ReferenceResolver) Accessory(name string) (*uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	a := models.Accessory{Name: name}
	return r.getOrCreate(a.TableName(), &a, map[string]interface{}{"name": name})
}

// getOrCreate inserts row unless its natural key already exists, then reads
// the id back by key
func (r *ReferenceResolver) getOrCreate(table string, row interface{}, key map[string]interface{}) (*uint, error) {
	if err := r.tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	var id uint
	err := r.tx.Table(table).Select("id").Where(key).Limit(1).Row().Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s row for %v vanished after insert", table, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", table, err)
	}
	return &id, nil
}
