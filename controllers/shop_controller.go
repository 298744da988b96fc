package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-desk-api/services"
	"github.com/kendall-kelly/repair-desk-api/utils"
)

// Shop actions, selected by the action parameter
const (
	ShopActionProducts   = "products"
	ShopActionCategories = "categories"
	ShopActionOrder      = "order"
)

// ShopPreflightMaxAge is sent with shop preflight answers, in seconds
const ShopPreflightMaxAge = "86400"

// ShopController serves the storefront demo over an injected store
type ShopController struct {
	store *services.ShopStore
}

func NewShopController(store *services.ShopStore) *ShopController {
	return &ShopController{store: store}
}

// Handle dispatches on the method and the action parameter
func (sc *ShopController) Handle(ctx context.Context, req Request) Response {
	action := req.Param("action", ShopActionProducts)

	switch {
	case req.Method == http.MethodOptions:
		resp := Options("GET, POST, OPTIONS")
		resp.Headers["Access-Control-Max-Age"] = ShopPreflightMaxAge
		return resp

	case req.Method == http.MethodGet && action == ShopActionProducts:
		products := sc.store.Products(ctx, services.ProductFilter{
			Category: req.Query["category"],
			Search:   req.Query["search"],
		})
		return JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})

	case req.Method == http.MethodGet && action == ShopActionCategories:
		return JSON(http.StatusOK, gin.H{"categories": sc.store.Categories()})

	case req.Method == http.MethodPost && action == ShopActionOrder:
		return sc.checkout(req)
	}

	return ErrorJSON(http.StatusNotFound, "Endpoint не найден")
}

func (sc *ShopController) checkout(req Request) Response {
	var checkout services.CheckoutRequest
	body := req.Body
	if body == "" {
		body = "{}"
	}
	if err := json.Unmarshal([]byte(body), &checkout); err != nil {
		return ErrorJSON(http.StatusBadRequest, services.ShopMsgBadData)
	}

	order, err := sc.store.Checkout(checkout)
	if err != nil {
		if utils.IsKind(err, utils.KindBadRequest) {
			return ErrorJSON(http.StatusBadRequest, err.Error())
		}
		return ErrorJSON(http.StatusInternalServerError, err.Error())
	}

	return JSON(http.StatusOK, gin.H{
		"success": true,
		"orderId": order.ID,
		"message": services.ShopMsgOrderPlaced,
	})
}
