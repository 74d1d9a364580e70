package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	cart "github.com/fjod/go_storefront/internal/cart/domain"
	catalog "github.com/fjod/go_storefront/internal/catalog/domain"
	"github.com/fjod/go_storefront/internal/catalog/repository"
	"github.com/go-chi/chi/v5"
)

// CartAPI is the cart store surface the handlers consume.
type CartAPI interface {
	GetCart(ctx context.Context, cartID string) (*cart.Cart, error)
	AddItem(ctx context.Context, cartID string, product catalog.Product) (*cart.Cart, error)
	RemoveItem(ctx context.Context, cartID string, productID int64) (*cart.Cart, error)
	DecreaseQuantity(ctx context.Context, cartID string, productID int64) (*cart.Cart, error)
	ClearCart(ctx context.Context, cartID string) error
}

type CartHandler struct {
	carts   CartAPI
	catalog CatalogAPI
	timeout time.Duration
}

func NewCartHandler(carts CartAPI, catalog CatalogAPI, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type CartLineDTO struct {
	ProductID int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	Quantity  int     `json:"quantity"`
}

type CartResponseDTO struct {
	Items    []CartLineDTO `json:"items"`
	Count    int           `json:"count"`
	Subtotal float64       `json:"subtotal"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.carts.GetCart(ctx, getSessionID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to load cart")
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(c))
}

// POST /api/v1/cart/items
// The client sends only a product id; display fields are copied from the
// catalog at the time of adding.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if errors.Is(err, repository.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product_not_found", "no such product")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "catalog_error", "failed to resolve product")
		return
	}

	c, err := h.carts.AddItem(ctx, getSessionID(r.Context()), *product)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to add item")
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(c))
}

// DELETE /api/v1/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	c, err := h.carts.RemoveItem(ctx, getSessionID(r.Context()), productID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to remove item")
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(c))
}

// POST /api/v1/cart/items/{id}/decrease
func (h *CartHandler) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	c, err := h.carts.DecreaseQuantity(ctx, getSessionID(r.Context()), productID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to decrease quantity")
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(c))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.carts.ClearCart(ctx, getSessionID(r.Context())); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to clear cart")
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Items: []CartLineDTO{}})
}

func toCartDTO(c *cart.Cart) CartResponseDTO {
	items := make([]CartLineDTO, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, CartLineDTO{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			ImageURL:  l.ImageURL,
			Quantity:  l.Quantity,
		})
	}
	return CartResponseDTO{
		Items:    items,
		Count:    c.Count(),
		Subtotal: c.Subtotal(),
	}
}
