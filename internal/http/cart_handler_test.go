package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	cart "github.com/fjod/go_storefront/internal/cart/domain"
	catalog "github.com/fjod/go_storefront/internal/catalog/domain"
	"github.com/fjod/go_storefront/internal/catalog/repository"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartAPIMock struct {
	cart *cart.Cart
	err  error
}

func (m cartAPIMock) GetCart(context.Context, string) (*cart.Cart, error) {
	return m.cart, m.err
}

func (m cartAPIMock) AddItem(context.Context, string, catalog.Product) (*cart.Cart, error) {
	return m.cart, m.err
}

func (m cartAPIMock) RemoveItem(context.Context, string, int64) (*cart.Cart, error) {
	return m.cart, m.err
}

func (m cartAPIMock) DecreaseQuantity(context.Context, string, int64) (*cart.Cart, error) {
	return m.cart, m.err
}

func (m cartAPIMock) ClearCart(context.Context, string) error {
	return m.err
}

type catalogAPIMock struct {
	product *catalog.Product
	err     error
}

func (m catalogAPIMock) ListProducts(context.Context, string) ([]catalog.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []catalog.Product{*m.product}, nil
}

func (m catalogAPIMock) GetProduct(context.Context, int64) (*catalog.Product, error) {
	return m.product, m.err
}

func (m catalogAPIMock) RelatedProducts(context.Context, int64) ([]catalog.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return nil, nil
}

func testCart() *cart.Cart {
	return &cart.Cart{
		ID: "visitor-1",
		Lines: []cart.Line{
			{ProductID: 6, Name: "Black Bay 58", Price: 3950, Quantity: 2},
		},
	}
}

func withSession(r *http.Request) *http.Request {
	ctx := context.WithValue(r.Context(), "session_id", "visitor-1")
	return r.WithContext(ctx)
}

func TestGetCart_Success(t *testing.T) {
	handler := NewCartHandler(cartAPIMock{cart: testCart()}, catalogAPIMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("GET", "/", nil))

	handler.GetCart(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp CartResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 7900.0, resp.Subtotal)
}

func TestAddItem_ResolvesProductFromCatalog(t *testing.T) {
	product := &catalog.Product{ID: 6, Name: "Black Bay 58", Price: 3950}
	handler := NewCartHandler(cartAPIMock{cart: testCart()}, catalogAPIMock{product: product}, 5*time.Second)

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: 6})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", bytes.NewReader(body)))

	handler.AddItem(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	handler := NewCartHandler(cartAPIMock{}, catalogAPIMock{err: repository.ErrProductNotFound}, 5*time.Second)

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: 999})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", bytes.NewReader(body)))

	handler.AddItem(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAddItem_InvalidBody(t *testing.T) {
	handler := NewCartHandler(cartAPIMock{}, catalogAPIMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", bytes.NewReader([]byte("{"))))

	handler.AddItem(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAddItem_NonPositiveProductID(t *testing.T) {
	handler := NewCartHandler(cartAPIMock{}, catalogAPIMock{}, 5*time.Second)

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: 0})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", bytes.NewReader(body)))

	handler.AddItem(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRemoveItem_RoutedThroughChi(t *testing.T) {
	handler := NewCartHandler(cartAPIMock{cart: &cart.Cart{ID: "visitor-1"}}, catalogAPIMock{}, 5*time.Second)

	r := chi.NewRouter()
	r.Delete("/cart/items/{id}", handler.RemoveItem)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("DELETE", "/cart/items/6", nil))
	r.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp CartResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.Count)
}

func TestRemoveItem_BadProductID(t *testing.T) {
	handler := NewCartHandler(cartAPIMock{}, catalogAPIMock{}, 5*time.Second)

	r := chi.NewRouter()
	r.Delete("/cart/items/{id}", handler.RemoveItem)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("DELETE", "/cart/items/zero", nil))
	r.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestClearCart_Success(t *testing.T) {
	handler := NewCartHandler(cartAPIMock{}, catalogAPIMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("DELETE", "/", nil))

	handler.ClearCart(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}
