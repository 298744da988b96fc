package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-desk-api/services"
	"github.com/kendall-kelly/repair-desk-api/utils"
)

// Settings sub-resources, selected by the type parameter
const (
	SettingsStatuses       = "statuses"
	SettingsPrintTemplates = "print-templates"
)

// Messages shown instead of raw constraint errors
const (
	MsgRecordInUse     = "Невозможно удалить запись, так как она используется в других документах"
	MsgDuplicateRecord = "Запись с таким именем уже существует"
)

// SettingsController serves order statuses and print templates
type SettingsController struct {
	settings *services.SettingsService
}

func NewSettingsController(settings *services.SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

// Handle dispatches on the type parameter, then the method
func (sc *SettingsController) Handle(ctx context.Context, req Request) Response {
	if req.Method == http.MethodOptions {
		return Options("GET, POST, PUT, DELETE, OPTIONS")
	}

	var (
		result interface{}
		err    error
	)
	switch req.Param("type", SettingsStatuses) {
	case SettingsStatuses:
		result, err = sc.statuses(ctx, req)
	case SettingsPrintTemplates:
		result, err = sc.templates(ctx, req)
	default:
		return JSON(http.StatusOK, gin.H{"error": "Invalid type"})
	}

	if err != nil {
		return settingsError(err)
	}
	if result == nil {
		return MethodNotAllowed()
	}
	return JSON(http.StatusOK, result)
}

func (sc *SettingsController) statuses(ctx context.Context, req Request) (interface{}, error) {
	switch req.Method {
	case http.MethodGet:
		if id := req.Query["id"]; id != "" {
			status, err := sc.settings.GetStatus(ctx, id)
			if err != nil || status == nil {
				return json.RawMessage("null"), err
			}
			return status, nil
		}
		return sc.settings.ListStatuses(ctx)

	case http.MethodPost:
		var in services.StatusInput
		if err := decodeBody(req.Body, &in); err != nil {
			return nil, err
		}
		id, err := sc.settings.CreateStatus(ctx, in)
		if err != nil {
			return nil, err
		}
		return gin.H{"id": id}, nil

	case http.MethodPut:
		var in services.StatusInput
		if err := decodeBody(req.Body, &in); err != nil {
			return nil, err
		}
		if err := sc.settings.UpdateStatus(ctx, bodyOrQueryID(req), in); err != nil {
			return nil, err
		}
		return gin.H{"success": true}, nil

	case http.MethodDelete:
		id := req.Query["id"]
		if err := sc.settings.DeleteStatus(ctx, id); err != nil {
			return nil, err
		}
		return gin.H{"success": true, "deleted_id": id}, nil
	}
	return nil, nil
}

func (sc *SettingsController) templates(ctx context.Context, req Request) (interface{}, error) {
	switch req.Method {
	case http.MethodGet:
		if id := req.Query["id"]; id != "" {
			template, err := sc.settings.GetTemplate(ctx, id)
			if err != nil || template == nil {
				return json.RawMessage("null"), err
			}
			return template, nil
		}
		return sc.settings.ListTemplates(ctx)

	case http.MethodPost:
		var in services.TemplateInput
		if err := decodeBody(req.Body, &in); err != nil {
			return nil, err
		}
		id, err := sc.settings.CreateTemplate(ctx, in)
		if err != nil {
			return nil, err
		}
		return gin.H{"id": id}, nil

	case http.MethodPut:
		var in services.TemplateInput
		if err := decodeBody(req.Body, &in); err != nil {
			return nil, err
		}
		if err := sc.settings.UpdateTemplate(ctx, bodyOrQueryID(req), in); err != nil {
			return nil, err
		}
		return gin.H{"success": true}, nil

	case http.MethodDelete:
		id := req.Query["id"]
		if err := sc.settings.DeleteTemplate(ctx, id); err != nil {
			return nil, err
		}
		return gin.H{"success": true, "deleted_id": id}, nil
	}
	return nil, nil
}

// settingsError answers 500 with a readable message and the raw error text
func settingsError(err error) Response {
	message := err.Error()
	switch utils.KindOf(err) {
	case utils.KindIntegrity:
		message = MsgRecordInUse
	case utils.KindConflict:
		message = MsgDuplicateRecord
	}
	return JSON(http.StatusInternalServerError, gin.H{
		"error":           message,
		"technical_error": err.Error(),
	})
}

func decodeBody(body string, v interface{}) error {
	if body == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return &utils.AppError{Kind: utils.KindBadRequest, Message: "invalid JSON body", Err: err}
	}
	return nil
}
