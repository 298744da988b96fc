package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-desk-api/services"
	"github.com/kendall-kelly/repair-desk-api/utils"
)

// DefaultDirectory is used when no type parameter is given
const DefaultDirectory = "contractors"

// DirectoryController serves CRUD over the reference tables, selected by
// the type parameter
type DirectoryController struct {
	directories *services.DirectoryService
}

func NewDirectoryController(directories *services.DirectoryService) *DirectoryController {
	return &DirectoryController{directories: directories}
}

// Handle dispatches on the request method
func (dc *DirectoryController) Handle(ctx context.Context, req Request) Response {
	if req.Method == http.MethodOptions {
		return Options("GET, POST, PUT, DELETE, OPTIONS")
	}

	key := req.Param("type", DefaultDirectory)
	if _, err := services.DirectoryTable(key); err != nil {
		return directoryError(err)
	}

	switch req.Method {
	case http.MethodGet:
		if id := req.Query["id"]; id != "" {
			row, err := dc.directories.Get(ctx, key, id)
			if err != nil {
				return directoryError(err)
			}
			if found, ok := row.Get(); ok {
				return JSON(http.StatusOK, found)
			}
			return JSON(http.StatusOK, nil)
		}
		rows, err := dc.directories.List(ctx, key, req.Query["search"])
		if err != nil {
			return directoryError(err)
		}
		return JSON(http.StatusOK, rows)

	case http.MethodPost:
		fields, err := services.ParseFields(req.Body)
		if err != nil {
			return directoryError(err)
		}
		id, err := dc.directories.Create(ctx, key, fields)
		if err != nil {
			return directoryError(err)
		}
		return JSON(http.StatusOK, gin.H{"id": id})

	case http.MethodPut:
		fields, err := services.ParseFields(req.Body)
		if err != nil {
			return directoryError(err)
		}
		if err := dc.directories.Update(ctx, key, req.Query["id"], fields); err != nil {
			return directoryError(err)
		}
		return JSON(http.StatusOK, gin.H{"success": true})

	case http.MethodDelete:
		if err := dc.directories.Delete(ctx, key, req.Query["id"]); err != nil {
			return directoryError(err)
		}
		return JSON(http.StatusOK, gin.H{"success": true})
	}

	return MethodNotAllowed()
}

func directoryError(err error) Response {
	if utils.IsKind(err, utils.KindBadRequest) {
		return ErrorJSON(http.StatusBadRequest, err.Error())
	}
	return ErrorJSON(http.StatusInternalServerError, err.Error())
}
