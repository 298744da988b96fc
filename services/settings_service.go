package services

import (
	"context"
	"errors"
	"strings"

	"github.com/kendall-kelly/repair-desk-api/models"
	"github.com/kendall-kelly/repair-desk-api/utils"
	"gorm.io/gorm"
)

// StatusInput is the body of a status create/update
type StatusInput struct {
	Name      *string `json:"name"`
	Color     *string `json:"color"`
	Icon      *string `json:"icon"`
	SortOrder *int    `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

// TemplateInput is the body of a print template create/update
type TemplateInput struct {
	Name         *string `json:"name"`
	TemplateType *string `json:"template_type"`
	Content      *string `json:"content"`
	IsDefault    *bool   `json:"is_default"`
}

// SettingsService manages order statuses and print templates
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// ListStatuses returns statuses by sort order, then name
func (s *SettingsService) ListStatuses(ctx context.Context) ([]models.OrderStatus, error) {
	statuses := []models.OrderStatus{}
	if err := s.db.WithContext(ctx).Order("sort_order").Order("name").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// GetStatus returns the status with the given id, or nil
func (s *SettingsService) GetStatus(ctx context.Context, id string) (*models.OrderStatus, error) {
	var status models.OrderStatus
	if err := s.first(ctx, id, &status); err != nil || status.ID == 0 {
		return nil, err
	}
	return &status, nil
}

// CreateStatus stores a status, filling in display defaults
func (s *SettingsService) CreateStatus(ctx context.Context, in StatusInput) (uint, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return 0, err
	}

	status := models.OrderStatus{
		Name:      name,
		Color:     valueOr(in.Color, models.DefaultStatusColor),
		Icon:      valueOr(in.Icon, models.DefaultStatusIcon),
		SortOrder: valueOr(in.SortOrder, 0),
		IsActive:  valueOr(in.IsActive, true),
	}
	if err := s.db.WithContext(ctx).Create(&status).Error; err != nil {
		return 0, err
	}
	return status.ID, nil
}

// UpdateStatus replaces every field of the status; absent fields become null
func (s *SettingsService) UpdateStatus(ctx context.Context, id string, in StatusInput) error {
	name, err := requireName(in.Name)
	if err != nil {
		return err
	}
	return s.replace(ctx, id, &models.OrderStatus{}, map[string]interface{}{
		"name":       name,
		"color":      in.Color,
		"icon":       in.Icon,
		"sort_order": in.SortOrder,
		"is_active":  in.IsActive,
	})
}

// DeleteStatus removes a status that no order uses
func (s *SettingsService) DeleteStatus(ctx context.Context, id string) error {
	rowID, err := requireID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var status models.OrderStatus
		if err := tx.First(&status, rowID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("status %d not found", rowID)
			}
			return err
		}

		var inUse int64
		if err := tx.Model(&models.Order{}).Where("status = ?", status.Name).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return utils.Integrity("status %q is used by %d orders (foreign key)", status.Name, inUse)
		}

		return tx.Delete(&status).Error
	})
}

// ListTemplates returns print templates by name
func (s *SettingsService) ListTemplates(ctx context.Context) ([]models.PrintTemplate, error) {
	templates := []models.PrintTemplate{}
	if err := s.db.WithContext(ctx).Order("name").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// GetTemplate returns the print template with the given id, or nil
func (s *SettingsService) GetTemplate(ctx context.Context, id string) (*models.PrintTemplate, error) {
	var template models.PrintTemplate
	if err := s.first(ctx, id, &template); err != nil || template.ID == 0 {
		return nil, err
	}
	return &template, nil
}

// CreateTemplate stores a print template, filling in defaults
func (s *SettingsService) CreateTemplate(ctx context.Context, in TemplateInput) (uint, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return 0, err
	}

	template := models.PrintTemplate{
		Name:         name,
		TemplateType: valueOr(in.TemplateType, models.DefaultTemplateType),
		Content:      valueOr(in.Content, ""),
		IsDefault:    valueOr(in.IsDefault, false),
	}
	if err := s.db.WithContext(ctx).Create(&template).Error; err != nil {
		return 0, err
	}
	return template.ID, nil
}

// UpdateTemplate replaces every field of the template; absent fields become null
func (s *SettingsService) UpdateTemplate(ctx context.Context, id string, in TemplateInput) error {
	name, err := requireName(in.Name)
	if err != nil {
		return err
	}
	return s.replace(ctx, id, &models.PrintTemplate{}, map[string]interface{}{
		"name":          name,
		"template_type": in.TemplateType,
		"content":       in.Content,
		"is_default":    in.IsDefault,
	})
}

// DeleteTemplate removes a print template
func (s *SettingsService) DeleteTemplate(ctx context.Context, id string) error {
	rowID, err := requireID(id)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Delete(&models.PrintTemplate{}, rowID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.NotFound("print template %d not found", rowID)
	}
	return nil
}

// first loads the row with the given id into dest, leaving dest zero when
// there is none
func (s *SettingsService) first(ctx context.Context, id string, dest interface{}) error {
	rowID, err := parseID(id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("id = ?", rowID).Limit(1).Find(dest).Error
}

func (s *SettingsService) replace(ctx context.Context, id string, model interface{}, values map[string]interface{}) error {
	rowID, err := requireID(id)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(model).Where("id = ?", rowID).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.NotFound("record %d not found", rowID)
	}
	return nil
}

func requireID(id string) (int64, error) {
	if strings.TrimSpace(id) == "" {
		return 0, utils.BadRequest("ID is required")
	}
	return parseID(id)
}

func requireName(name *string) (string, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		return "", utils.BadRequest("name is required")
	}
	return strings.TrimSpace(*name), nil
}

// valueOr returns p, or a pointer to fallback when p is nil
func valueOr[T any](p *T, fallback T) *T {
	if p != nil {
		return p
	}
	return &fallback
}
