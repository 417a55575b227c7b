package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymentservice "github.com/jcmexdev/storefront/internal/payment-service/app"
	"github.com/jcmexdev/storefront/internal/pkg/randx"
	"github.com/jcmexdev/storefront/internal/storefront/core/services/cart"
	"github.com/jcmexdev/storefront/internal/storefront/core/services/catalog"
	"github.com/jcmexdev/storefront/internal/storefront/core/services/checkout"
	"github.com/jcmexdev/storefront/internal/storefront/core/services/user"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/catalogapi"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/messaging"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/sqlite"
	"github.com/jcmexdev/storefront/internal/storefront/infra/httpx/middlewares"
)

var testSecret = []byte("test-secret")

const catalogProducts = `{"products":[
	{"id":1,"title":"Runner","category":"mens-shoes","price":40,"brand":"Fleet","stock":3,"images":["1.png"]},
	{"id":2,"title":"Gown","category":"womens-dresses","price":90,"stock":1},
	{"id":3,"title":"Sunglasses","category":"sunglasses","price":15,"brand":"Fleet","stock":0}
]}`

func newCatalogAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(catalogProducts))
	})
	mux.HandleFunc("GET /products/categories", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["mens-shoes","womens-dresses"]`))
	})
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "1":
			_, _ = w.Write([]byte(`{"id":1,"title":"Runner","category":"mens-shoes","price":40,"stock":3,"images":["1.png"]}`))
		case "500":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	api := newCatalogAPI(t)
	gateway := catalog.NewGateway(
		catalogapi.NewClient(api.URL+"/products", time.Second),
		catalog.NewMemoryCaches(time.Minute),
		catalog.NewNormalizer(randx.New(1)),
	)
	users := sqlite.NewUserRepository(db)
	checkouts := checkout.NewService(
		users,
		sqlite.NewOrderRepository(db),
		paymentservice.NewSimulator(randx.New(1), 1),
		messaging.NopPublisher{},
		sqlite.NewCheckoutLogRepository(db),
	)

	h := NewHandler(
		gateway,
		cart.NewService(sqlite.NewCartRepository(db), gateway, cart.DefaultEnrichConcurrency),
		checkouts,
		user.NewService(users),
		db,
	)
	srv := httptest.NewServer(NewRouter(h, middlewares.Authenticate(testSecret)))
	t.Cleanup(srv.Close)
	return srv
}

type response struct {
	Status int
	Body   map[string]any
	Header http.Header
}

func (r response) data(t *testing.T) map[string]any {
	t.Helper()
	d, ok := r.Body["data"].(map[string]any)
	require.True(t, ok, "response has no data: %v", r.Body)
	return d
}

func do(t *testing.T, srv *httptest.Server, method, path, token string, body any) response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req, err := http.NewRequestWithContext(context.Background(), method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	out := response{Status: res.StatusCode, Header: res.Header}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out.Body))
	return out
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)
	return s
}

func registerUser(t *testing.T, srv *httptest.Server, name string) string {
	t.Helper()
	res := do(t, srv, http.MethodPost, "/api/users", "", map[string]string{
		"username": name,
		"email":    name + "@example.com",
	})
	require.Equal(t, http.StatusCreated, res.Status, res.Body)
	u := res.data(t)["user"].(map[string]any)
	return u["id"].(string)
}

func TestRouter_HealthAndUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	res := do(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, true, res.Body["success"])
	assert.NotEmpty(t, res.Header.Get("X-Request-Id"))

	res = do(t, srv, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, false, res.Body["success"])
	assert.Equal(t, "Route /nope not found", res.Body["message"])
}

func TestRouter_Products(t *testing.T) {
	srv := newTestServer(t)

	res := do(t, srv, http.MethodGet, "/api/products?brand=fleet&minPrice=20", "", nil)
	require.Equal(t, http.StatusOK, res.Status, res.Body)
	products := res.data(t)["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "Runner", products[0].(map[string]any)["name"])
	pagination := res.data(t)["pagination"].(map[string]any)
	assert.EqualValues(t, 1, pagination["totalProducts"])

	res = do(t, srv, http.MethodGet, "/api/products?minPrice=cheap", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "validation_error", res.Body["error"])

	res = do(t, srv, http.MethodGet, "/api/products/gender/women", "", nil)
	require.Equal(t, http.StatusOK, res.Status)
	// The gown and the unisex sunglasses.
	assert.Len(t, res.data(t)["products"], 2)

	res = do(t, srv, http.MethodGet, "/api/products/gender/robots", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.Status)

	res = do(t, srv, http.MethodGet, "/api/products/categories/all", "", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Len(t, res.data(t)["categories"], 2)

	res = do(t, srv, http.MethodGet, "/api/products/1", "", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "1.png", res.data(t)["product"].(map[string]any)["image"])

	res = do(t, srv, http.MethodGet, "/api/products/404", "", nil)
	assert.Equal(t, http.StatusNotFound, res.Status)

	res = do(t, srv, http.MethodGet, "/api/products/500", "", nil)
	assert.Equal(t, http.StatusBadGateway, res.Status)
	assert.Equal(t, "upstream_unavailable", res.Body["error"])
}

func TestRouter_CartRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	res := do(t, srv, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Status)

	res = do(t, srv, http.MethodGet, "/api/cart", "not-a-jwt", nil)
	assert.Equal(t, http.StatusForbidden, res.Status)
}

func TestRouter_CartFlow(t *testing.T) {
	srv := newTestServer(t)
	token := tokenFor(t, registerUser(t, srv, "ana"))

	res := do(t, srv, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, res.Status, res.Body)
	assert.Empty(t, res.data(t)["cart"].(map[string]any)["items"])

	// Numeric product ID and a defaulted quantity of one.
	res = do(t, srv, http.MethodPost, "/api/cart/add", token, `{"productId":1}`)
	require.Equal(t, http.StatusOK, res.Status, res.Body)
	res = do(t, srv, http.MethodPost, "/api/cart/add", token, `{"productId":"1","quantity":2}`)
	require.Equal(t, http.StatusOK, res.Status, res.Body)

	items := res.data(t)["cart"].(map[string]any)["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.EqualValues(t, 3, item["quantity"])
	assert.Equal(t, "Runner", item["product"].(map[string]any)["name"])
	itemID := item["id"].(string)

	res = do(t, srv, http.MethodPost, "/api/cart/add", token, `{"productId":"1","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, res.Status)

	res = do(t, srv, http.MethodPut, "/api/cart/update/"+itemID, token, `{"quantity":5}`)
	require.Equal(t, http.StatusOK, res.Status, res.Body)
	item = res.data(t)["cart"].(map[string]any)["items"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 5, item["quantity"])

	other := tokenFor(t, registerUser(t, srv, "bo"))
	res = do(t, srv, http.MethodDelete, "/api/cart/remove/"+itemID, other, nil)
	assert.Equal(t, http.StatusNotFound, res.Status)

	res = do(t, srv, http.MethodDelete, "/api/cart/remove/"+itemID, token, nil)
	require.Equal(t, http.StatusOK, res.Status, res.Body)
	assert.Empty(t, res.data(t)["cart"].(map[string]any)["items"])

	res = do(t, srv, http.MethodDelete, "/api/cart/clear", token, nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "Cart cleared", res.Body["message"])
}

func TestRouter_CheckoutFlow(t *testing.T) {
	srv := newTestServer(t)
	userID := registerUser(t, srv, "ana")

	res := do(t, srv, http.MethodPost, "/api/users", "", map[string]string{"username": "ana", "email": "x@example.com"})
	assert.Equal(t, http.StatusConflict, res.Status)

	addr := map[string]string{"street": "1 Main", "city": "Austin", "state": "TX", "zipCode": "78701", "country": "US"}
	res = do(t, srv, http.MethodPost, "/api/checkout/process", "", map[string]any{
		"userId": userID,
		"cartItems": []map[string]any{
			{"productId": 1, "quantity": 2, "price": 10},
			{"productId": "2", "quantity": 1, "price": 5},
		},
		"total":           25,
		"shippingAddress": addr,
		"billingAddress":  addr,
		"paymentMethod":   "card",
	})
	require.Equal(t, http.StatusOK, res.Status, res.Body)
	summary := res.data(t)["order"].(map[string]any)
	assert.Equal(t, "confirmed", summary["status"])
	assert.Equal(t, "paid", summary["paymentStatus"])
	assert.EqualValues(t, 37, summary["total"])
	assert.EqualValues(t, 2, summary["items"])
	orderID := summary["id"].(string)

	res = do(t, srv, http.MethodGet, "/api/checkout/order/"+orderID, "", nil)
	require.Equal(t, http.StatusOK, res.Status)
	order := res.data(t)["order"].(map[string]any)
	assert.EqualValues(t, 2, order["tax"])
	assert.True(t, strings.HasPrefix(order["paymentId"].(string), "PAY-"))

	res = do(t, srv, http.MethodGet, "/api/checkout/orders/"+userID+"?limit=5", "", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Len(t, res.data(t)["orders"], 1)
	assert.EqualValues(t, 5, res.data(t)["pagination"].(map[string]any)["ordersPerPage"])

	res = do(t, srv, http.MethodPut, "/api/checkout/order/"+orderID+"/status", "", `{"status":"failed"}`)
	assert.Equal(t, http.StatusBadRequest, res.Status)

	res = do(t, srv, http.MethodPut, "/api/checkout/order/"+orderID+"/status", "", `{"status":"shipped"}`)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "shipped", res.data(t)["order"].(map[string]any)["status"])

	res = do(t, srv, http.MethodPut, "/api/checkout/order/missing/status", "", `{"status":"shipped"}`)
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestRouter_CheckoutValidation(t *testing.T) {
	srv := newTestServer(t)

	res := do(t, srv, http.MethodPost, "/api/checkout/process", "", `{"cartItems":[],"total":10}`)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "cart items are required", res.Body["message"])

	res = do(t, srv, http.MethodPost, "/api/checkout/process", "", `{"cartItems":`)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "invalid_json", res.Body["error"])
}

func TestRouter_ShippingAndAddress(t *testing.T) {
	srv := newTestServer(t)

	res := do(t, srv, http.MethodPost, "/api/checkout/shipping-cost", "", `{"items":[{},{},{}]}`)
	require.Equal(t, http.StatusOK, res.Status)
	assert.EqualValues(t, 14, res.data(t)["shippingCost"])
	breakdown := res.data(t)["breakdown"].(map[string]any)
	assert.EqualValues(t, 10, breakdown["baseCost"])
	assert.EqualValues(t, 4, breakdown["additionalCost"])

	res = do(t, srv, http.MethodPost, "/api/checkout/validate-address", "", `{"address":{"street":"1 Main","state":"TX"}}`)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "Missing required fields: city, zipCode, country", res.Body["message"])

	res = do(t, srv, http.MethodPost, "/api/checkout/validate-address", "",
		`{"address":{"street":"1 Main","city":"Austin","state":"TX","zipCode":"78701","country":"US"}}`)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "Address is valid", res.Body["message"])
}
