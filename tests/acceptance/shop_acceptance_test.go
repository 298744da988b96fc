package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-desk-api/controllers"
	"github.com/kendall-kelly/repair-desk-api/middleware"
	"github.com/kendall-kelly/repair-desk-api/services"
	"github.com/kendall-kelly/repair-desk-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// ShopAcceptanceTestSuite exercises the storefront over real HTTP
type ShopAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	store  *services.ShopStore
}

// SetupSuite runs once before all tests
func (suite *ShopAcceptanceTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(suite.T())
}

// SetupTest starts a server over a fresh catalog whose images live in a mock bucket
func (suite *ShopAcceptanceTestSuite) SetupTest() {
	catalog := services.DefaultCatalog()
	catalog[0].Image = "products/laptop.jpg"

	images := services.NewS3ImageService(services.NewMockS3Service("products/laptop.jpg"))
	suite.store = services.NewShopStore(catalog, images)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.CORS(nil))
	router.Any("/api/v1/shop", controllers.Adapt(controllers.NewShopController(suite.store).Handle))
	suite.server = httptest.NewServer(router)
}

// TearDownTest runs after each test
func (suite *ShopAcceptanceTestSuite) TearDownTest() {
	suite.server.Close()
}

// makeRequest is a helper to make HTTP requests
func (suite *ShopAcceptanceTestSuite) makeRequest(method, query string, body interface{}) (*http.Response, map[string]interface{}) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		suite.Require().NoError(err)
	}

	req, err := http.NewRequest(method, suite.server.URL+"/api/v1/shop"+query, bytes.NewReader(payload))
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if resp.ContentLength != 0 {
		suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp, decoded
}

func checkout(items ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"customerName": "Ольга",
		"email":        "olga@example.com",
		"phone":        "+7 903 555-44-33",
		"items":        items,
	}
}

func item(id string, quantity int) map[string]interface{} {
	return map[string]interface{}{"id": id, "quantity": quantity}
}

// TestBrowseCatalog tests listing with presigned images and filters
func (suite *ShopAcceptanceTestSuite) TestBrowseCatalog() {
	resp, body := suite.makeRequest(http.MethodGet, "?action=products&category="+url.QueryEscape("Электроника"), nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), 2.0, body["total"])

	products := body["products"].([]interface{})
	laptop := products[0].(map[string]interface{})
	assert.Equal(suite.T(), "1", laptop["id"])
	assert.Equal(suite.T(), "https://test-bucket.s3.us-east-1.amazonaws.com/products/laptop.jpg?mock=true", laptop["image"])

	monitor := products[1].(map[string]interface{})
	assert.Contains(suite.T(), monitor["image"], "https://cdn.poehali.dev/", "Public images are not signed")

	assert.NotEmpty(suite.T(), resp.Header.Get(middleware.RequestIDHeader))
}

// TestCheckoutWorkflow tests a purchase followed by a stock check
func (suite *ShopAcceptanceTestSuite) TestCheckoutWorkflow() {
	resp, body := suite.makeRequest(http.MethodPost, "?action=order", checkout(item("3", 2), item("5", 10)))
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), true, body["success"])
	assert.Equal(suite.T(), "ORD-1005", body["orderId"])

	orders := suite.store.Orders()
	suite.Require().Len(orders, 1)
	assert.Equal(suite.T(), int64(2*24990+10*590), orders[0].Total)
	assert.Equal(suite.T(), "Ольга", orders[0].CustomerName)

	_, body = suite.makeRequest(http.MethodGet, "?search=MON", nil)
	monitor := body["products"].([]interface{})[0].(map[string]interface{})
	assert.Equal(suite.T(), 6.0, monitor["quantity"])
}

// TestCheckoutRejected tests that rejected carts leave stock untouched
func (suite *ShopAcceptanceTestSuite) TestCheckoutRejected() {
	resp, body := suite.makeRequest(http.MethodPost, "?action=order", checkout(item("2", 1), item("1", 6)))
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	assert.Equal(suite.T(), "Недостаточно товара Ноутбук Dell XPS 13 на складе", body["error"])

	resp, body = suite.makeRequest(http.MethodPost, "?action=order", map[string]interface{}{"items": []interface{}{item("2", 1)}})
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	assert.Equal(suite.T(), services.ShopMsgMissingFields, body["error"])

	keyboard, _ := suite.store.Product("2")
	assert.Equal(suite.T(), 45, keyboard.Quantity)
	assert.Empty(suite.T(), suite.store.Orders())
}

// TestConcurrentBuyers tests that parallel checkouts never sell more than the stock
func (suite *ShopAcceptanceTestSuite) TestConcurrentBuyers() {
	const buyers = 8

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = map[int]int{}
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			payload, _ := json.Marshal(checkout(item("1", 1)))
			resp, err := http.Post(suite.server.URL+"/api/v1/shop?action=order", "application/json", bytes.NewReader(payload))
			if err != nil {
				suite.T().Errorf("buyer %d: %v", n, err)
				return
			}
			resp.Body.Close()

			mu.Lock()
			statuses[resp.StatusCode]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Equal(suite.T(), 5, statuses[http.StatusOK], fmt.Sprintf("statuses: %v", statuses))
	assert.Equal(suite.T(), buyers-5, statuses[http.StatusBadRequest])

	laptop, _ := suite.store.Product("1")
	assert.Zero(suite.T(), laptop.Quantity)
}

// TestUnknownEndpoint tests the storefront 404 and the cached preflight
func (suite *ShopAcceptanceTestSuite) TestUnknownEndpoint() {
	resp, body := suite.makeRequest(http.MethodGet, "?action=orders", nil)
	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
	assert.Equal(suite.T(), "Endpoint не найден", body["error"])

	resp, _ = suite.makeRequest(http.MethodOptions, "?action=order", nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), controllers.ShopPreflightMaxAge, resp.Header.Get("Access-Control-Max-Age"))
}

// TestShopAcceptanceSuite runs the test suite
func TestShopAcceptanceSuite(t *testing.T) {
	suite.Run(t, new(ShopAcceptanceTestSuite))
}
