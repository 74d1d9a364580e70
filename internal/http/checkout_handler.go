package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	d "github.com/fjod/go_storefront/internal/checkout/domain"
	"github.com/fjod/go_storefront/internal/checkout/service"
)

// CheckoutAPI is the checkout flow surface the handlers consume.
type CheckoutAPI interface {
	Begin(ctx context.Context, cartID string) (*service.State, error)
	State(ctx context.Context, cartID string) (*service.State, error)
	SubmitInformation(ctx context.Context, cartID string, contact d.ContactInfo, address d.ShippingAddress) (*service.State, error)
	SelectShipping(ctx context.Context, cartID string, methodID string) (*service.State, error)
	SubmitPayment(ctx context.Context, cartID string, card d.CardDetails) (*service.State, error)
	GoBack(ctx context.Context, cartID string, to d.Step) (*service.State, error)
	Leave(cartID string)
}

type CheckoutHandler struct {
	checkout CheckoutAPI
	timeout  time.Duration
}

func NewCheckoutHandler(checkout CheckoutAPI, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

type InformationRequestDTO struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	AddressLine string `json:"address"`
	Apartment   string `json:"apartment"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
}

type ShippingRequestDTO struct {
	ShippingMethodID string `json:"shipping_method_id"`
}

type PaymentRequestDTO struct {
	CardName   string `json:"card_name"`
	CardNumber string `json:"card_number"`
	CardExpiry string `json:"card_expiry"`
	CardCVC    string `json:"card_cvc"`
}

type GoBackRequestDTO struct {
	Step string `json:"step"`
}

type SummaryDTO struct {
	Subtotal     float64  `json:"subtotal"`
	ShippingCost *float64 `json:"shipping_cost,omitempty"`
	Total        *float64 `json:"total,omitempty"`
}

type OrderDTO struct {
	OrderNumber    string  `json:"order_number"`
	Email          string  `json:"email"`
	ShippingMethod string  `json:"shipping_method"`
	ShippingETA    string  `json:"shipping_eta"`
	Subtotal       float64 `json:"subtotal"`
	ShippingCost   float64 `json:"shipping_cost"`
	Total          float64 `json:"total"`
	PlacedAt       string  `json:"placed_at"`
}

type CheckoutStateDTO struct {
	Step             string             `json:"step"`
	ShippingMethodID string             `json:"shipping_method_id"`
	ShippingOptions  []d.ShippingOption `json:"shipping_options"`
	Summary          SummaryDTO         `json:"summary"`
	Order            *OrderDTO          `json:"order,omitempty"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	state, err := h.checkout.Begin(ctx, getSessionID(r.Context()))
	if err != nil {
		h.handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toStateDTO(state))
}

// GET /api/v1/checkout
func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	state, err := h.checkout.State(ctx, getSessionID(r.Context()))
	if err != nil {
		h.handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toStateDTO(state))
}

// POST /api/v1/checkout/information
func (h *CheckoutHandler) SubmitInformation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req InformationRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	contact := d.ContactInfo{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	address := d.ShippingAddress{
		AddressLine: req.AddressLine,
		Apartment:   req.Apartment,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
	}

	state, err := h.checkout.SubmitInformation(ctx, getSessionID(r.Context()), contact, address)
	if err != nil {
		h.handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toStateDTO(state))
}

// POST /api/v1/checkout/shipping
func (h *CheckoutHandler) SelectShipping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ShippingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	state, err := h.checkout.SelectShipping(ctx, getSessionID(r.Context()), req.ShippingMethodID)
	if err != nil {
		h.handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toStateDTO(state))
}

// POST /api/v1/checkout/payment
func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req PaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	card := d.CardDetails{
		HolderName: req.CardName,
		Number:     req.CardNumber,
		Expiry:     req.CardExpiry,
		CVC:        req.CardCVC,
	}

	state, err := h.checkout.SubmitPayment(ctx, getSessionID(r.Context()), card)
	if err != nil {
		h.handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toStateDTO(state))
}

// POST /api/v1/checkout/back
func (h *CheckoutHandler) GoBack(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req GoBackRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	step := d.Step(req.Step)
	if !step.IsValid() {
		respondError(w, http.StatusBadRequest, "invalid_step", "unknown checkout step")
		return
	}

	state, err := h.checkout.GoBack(ctx, getSessionID(r.Context()), step)
	if err != nil {
		h.handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toStateDTO(state))
}

// DELETE /api/v1/checkout
func (h *CheckoutHandler) Leave(w http.ResponseWriter, r *http.Request) {
	h.checkout.Leave(getSessionID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *CheckoutHandler) handleCheckoutError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondValidationErrors(w, verr.Fields)
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusConflict, "cart_empty", "cart is empty")
	case errors.Is(err, service.ErrNoSession):
		respondError(w, http.StatusNotFound, "no_session", "checkout has not been started")
	case errors.Is(err, service.ErrPaymentInProgress):
		// The second submit is ignored; exactly one order results.
		respondJSON(w, http.StatusAccepted, map[string]string{"status": "processing"})
	case errors.Is(err, service.IllegalTransitionError):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "checkout_error", "checkout operation failed")
	}
}

func toStateDTO(state *service.State) CheckoutStateDTO {
	dto := CheckoutStateDTO{
		Step:             state.Step.String(),
		ShippingMethodID: state.ShippingMethodID,
		ShippingOptions:  state.ShippingOptions,
		Summary:          SummaryDTO{Subtotal: state.Summary.Subtotal},
	}
	if state.Summary.ShippingKnown {
		cost := state.Summary.ShippingCost
		total := state.Summary.Total
		dto.Summary.ShippingCost = &cost
		dto.Summary.Total = &total
	}
	if state.Order != nil {
		dto.Order = &OrderDTO{
			OrderNumber:    state.Order.Reference,
			Email:          state.Order.Email,
			ShippingMethod: state.Order.ShippingMethod.Label,
			ShippingETA:    state.Order.ShippingMethod.ETA,
			Subtotal:       state.Order.Subtotal,
			ShippingCost:   state.Order.ShippingCost,
			Total:          state.Order.Total,
			PlacedAt:       state.Order.PlacedAt.Format(time.RFC3339),
		}
	}
	return dto
}
