package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-desk-api/services"
	"github.com/tidwall/gjson"
)

// OrderController serves the repair order API. Every failure, including a
// missing id, is answered with 500.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Handle dispatches on the request method
func (oc *OrderController) Handle(ctx context.Context, req Request) Response {
	switch req.Method {
	case http.MethodOptions:
		return Options("GET, POST, PUT, DELETE, OPTIONS")

	case http.MethodGet:
		if id := req.Query["id"]; id != "" {
			order, err := oc.orders.Get(ctx, id)
			if err != nil {
				return orderError(err)
			}
			return JSON(http.StatusOK, order)
		}
		orders, err := oc.orders.List(ctx, req.Query["status"])
		if err != nil {
			return orderError(err)
		}
		return JSON(http.StatusOK, orders)

	case http.MethodPost:
		in, err := services.ParseOrderInput(req.Body)
		if err != nil {
			return orderError(err)
		}
		created, err := oc.orders.Create(ctx, in)
		if err != nil {
			return orderError(err)
		}
		return JSON(http.StatusOK, created)

	case http.MethodPut:
		in, err := services.ParseOrderInput(req.Body)
		if err != nil {
			return orderError(err)
		}
		if err := oc.orders.Update(ctx, bodyOrQueryID(req), in); err != nil {
			return orderError(err)
		}
		return JSON(http.StatusOK, gin.H{"success": true})

	case http.MethodDelete:
		if err := oc.orders.Delete(ctx, req.Query["id"]); err != nil {
			return orderError(err)
		}
		return JSON(http.StatusOK, gin.H{"success": true})
	}

	return MethodNotAllowed()
}

func orderError(err error) Response {
	return ErrorJSON(http.StatusInternalServerError, err.Error())
}

// bodyOrQueryID returns the id query parameter, falling back to the id field
// of a JSON body
func bodyOrQueryID(req Request) string {
	if id := req.Query["id"]; id != "" {
		return id
	}
	if req.Body == "" || !gjson.Valid(req.Body) {
		return ""
	}
	return gjson.Get(req.Body, "id").String()
}
