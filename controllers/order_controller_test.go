package controllers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/kendall-kelly/repair-desk-api/services"
	"github.com/kendall-kelly/repair-desk-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrderController(t *testing.T) *OrderController {
	return NewOrderController(services.NewOrderService(testutil.NewTestDB(t)))
}

func TestOrderController_Lifecycle(t *testing.T) {
	oc := newTestOrderController(t)
	ctx := context.Background()

	resp := oc.Handle(ctx, Request{Method: http.MethodPost, Body: `{
		"contractor_name": "Иванов Иван",
		"phone": "+7 900 000-00-00",
		"device_type": "laptop",
		"brand": "Lenovo",
		"model": "ThinkPad X1",
		"accessories": ["Зарядка", "Сумка"],
		"estimated_price": "4500",
		"prepayment": "",
		"deadline_date": "2025-04-01",
		"deadline_time": "18:00",
		"malfunction": "Не включается"
	}`})
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)

	created := decodeObject(t, resp)
	assert.Regexp(t, `^\d{4}-001$`, created["order_number"])
	id := fmt.Sprint(created["id"])

	t.Run("get returns the detail with reference names", func(t *testing.T) {
		resp := oc.Handle(ctx, Request{Method: http.MethodGet, Query: map[string]string{"id": id}})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		order := decodeObject(t, resp)
		assert.Equal(t, "new", order["status"])
		assert.Equal(t, "Иванов Иван", order["contractor_name"])
		assert.Equal(t, "Ноутбук", order["device_type_name"])
		assert.Equal(t, "Lenovo", order["brand_name"])
		assert.Equal(t, "ThinkPad X1", order["model_name"])
		assert.Equal(t, 4500.0, order["estimated_price"])
		assert.Equal(t, 0.0, order["prepayment"])
		assert.ElementsMatch(t, []any{"Зарядка", "Сумка"}, order["accessories"])
	})

	t.Run("list projects summaries", func(t *testing.T) {
		resp := oc.Handle(ctx, Request{Method: http.MethodGet, Query: map[string]string{"status": "all"}})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		orders := decodeResponse(t, resp).([]any)
		require.Len(t, orders, 1)
		summary := orders[0].(map[string]any)
		assert.Equal(t, "Иванов Иван", summary["contractor_name"])
		assert.Equal(t, "Lenovo ThinkPad X1", summary["device"])
	})

	t.Run("update takes the id from the body", func(t *testing.T) {
		resp := oc.Handle(ctx, Request{Method: http.MethodPut, Body: fmt.Sprintf(`{
			"id": %s,
			"contractor_name": "Иванов Иван",
			"status": "ready",
			"repair_description": "Заменён разъём питания",
			"accessories": ["Зарядка"]
		}`, id)})
		require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
		assert.Equal(t, true, decodeObject(t, resp)["success"])

		resp = oc.Handle(ctx, Request{Method: http.MethodGet, Query: map[string]string{"status": "ready"}})
		assert.Len(t, decodeResponse(t, resp), 1)

		resp = oc.Handle(ctx, Request{Method: http.MethodGet, Query: map[string]string{"id": id}})
		order := decodeObject(t, resp)
		assert.Equal(t, []any{"Зарядка"}, order["accessories"])
		assert.Nil(t, order["brand_name"])
	})

	t.Run("delete", func(t *testing.T) {
		resp := oc.Handle(ctx, Request{Method: http.MethodDelete, Query: map[string]string{"id": id}})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = oc.Handle(ctx, Request{Method: http.MethodGet, Query: map[string]string{"id": id}})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "null", resp.Body)
	})
}

func TestOrderController_Errors(t *testing.T) {
	oc := newTestOrderController(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		req        Request
		wantStatus int
	}{
		{name: "update without id", req: Request{Method: http.MethodPut, Body: `{"status": "ready"}`}, wantStatus: http.StatusInternalServerError},
		{name: "update of missing order", req: Request{Method: http.MethodPut, Query: map[string]string{"id": "404"}, Body: `{}`}, wantStatus: http.StatusInternalServerError},
		{name: "delete without id", req: Request{Method: http.MethodDelete}, wantStatus: http.StatusInternalServerError},
		{name: "malformed body", req: Request{Method: http.MethodPost, Body: `{"brand":`}, wantStatus: http.StatusInternalServerError},
		{name: "bad amount", req: Request{Method: http.MethodPost, Body: `{"prepayment": "abc"}`}, wantStatus: http.StatusInternalServerError},
		{name: "unsupported method", req: Request{Method: http.MethodPatch}, wantStatus: http.StatusMethodNotAllowed},
		{name: "preflight", req: Request{Method: http.MethodOptions}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := oc.Handle(ctx, tt.req)
			assert.Equal(t, tt.wantStatus, resp.StatusCode, resp.Body)
			if tt.wantStatus >= http.StatusBadRequest {
				assert.NotEmpty(t, decodeObject(t, resp)["error"])
			}
		})
	}
}
