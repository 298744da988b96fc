package controllers

import (
	"context"
	"net/http"

	"github.com/kendall-kelly/repair-desk-api/services"
	"github.com/kendall-kelly/repair-desk-api/utils"
	"github.com/tidwall/gjson"
)

// QueryController exposes the raw query executor. It runs any statement it
// is given and must only be mounted where administrators can reach it.
type QueryController struct {
	queries *services.QueryService
}

func NewQueryController(queries *services.QueryService) *QueryController {
	return &QueryController{queries: queries}
}

// Handle serves POST {sql, params}
func (qc *QueryController) Handle(ctx context.Context, req Request) Response {
	switch req.Method {
	case http.MethodOptions:
		return Options("POST, OPTIONS")
	case http.MethodPost:
	default:
		return MethodNotAllowed()
	}

	if req.Body != "" && !gjson.Valid(req.Body) {
		return ErrorJSON(http.StatusInternalServerError, "invalid JSON body")
	}
	body := gjson.Parse(req.Body)

	result, err := qc.queries.Execute(ctx, body.Get("sql").String(), services.ParseParams(body.Get("params")))
	if err != nil {
		if utils.IsKind(err, utils.KindBadRequest) {
			return ErrorJSON(http.StatusBadRequest, err.Error())
		}
		return ErrorJSON(http.StatusInternalServerError, err.Error())
	}
	return JSON(http.StatusOK, result)
}
