package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	d "github.com/fjod/go_storefront/internal/checkout/domain"
	"github.com/fjod/go_storefront/internal/checkout/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutAPIMock struct {
	state *service.State
	err   error
	left  []string
}

func (m *checkoutAPIMock) Begin(context.Context, string) (*service.State, error) {
	return m.state, m.err
}

func (m *checkoutAPIMock) State(context.Context, string) (*service.State, error) {
	return m.state, m.err
}

func (m *checkoutAPIMock) SubmitInformation(context.Context, string, d.ContactInfo, d.ShippingAddress) (*service.State, error) {
	return m.state, m.err
}

func (m *checkoutAPIMock) SelectShipping(context.Context, string, string) (*service.State, error) {
	return m.state, m.err
}

func (m *checkoutAPIMock) SubmitPayment(context.Context, string, d.CardDetails) (*service.State, error) {
	return m.state, m.err
}

func (m *checkoutAPIMock) GoBack(context.Context, string, d.Step) (*service.State, error) {
	return m.state, m.err
}

func (m *checkoutAPIMock) Leave(cartID string) {
	m.left = append(m.left, cartID)
}

func informationState() *service.State {
	return &service.State{
		Step:             d.StepInformation,
		ShippingMethodID: "standard",
		ShippingOptions:  d.ShippingOptions(),
		Summary:          d.Summary{Subtotal: 16400},
	}
}

func TestBegin_Created(t *testing.T) {
	handler := NewCheckoutHandler(&checkoutAPIMock{state: informationState()}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", nil))

	handler.Begin(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp CheckoutStateDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "information", resp.Step)
	assert.Equal(t, 16400.0, resp.Summary.Subtotal)
	// Shipping is "to be calculated" before the shipping step: absent, not
	// zero.
	assert.Nil(t, resp.Summary.ShippingCost)
	assert.Nil(t, resp.Summary.Total)
}

func TestBegin_EmptyCart(t *testing.T) {
	handler := NewCheckoutHandler(&checkoutAPIMock{err: service.ErrEmptyCart}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", nil))

	handler.Begin(recorder, request)

	require.Equal(t, http.StatusConflict, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "cart_empty", resp.Code)
}

func TestSubmitInformation_ValidationErrorsPerField(t *testing.T) {
	mock := &checkoutAPIMock{err: &service.ValidationError{Fields: map[string]string{
		"firstName": "First name is required",
		"email":     "Email is required",
	}}}
	handler := NewCheckoutHandler(mock, 5*time.Second)

	body, _ := json.Marshal(InformationRequestDTO{LastName: "Obi"})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", bytes.NewReader(body)))

	handler.SubmitInformation(recorder, request)

	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Len(t, resp.Errors, 2)
	assert.Equal(t, "First name is required", resp.Errors["firstName"])
}

func TestSubmitPayment_ProcessingIsAccepted(t *testing.T) {
	handler := NewCheckoutHandler(&checkoutAPIMock{err: service.ErrPaymentInProgress}, 5*time.Second)

	body, _ := json.Marshal(PaymentRequestDTO{CardName: "ADA OBI"})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", bytes.NewReader(body)))

	handler.SubmitPayment(recorder, request)

	assert.Equal(t, http.StatusAccepted, recorder.Code)
}

func TestSubmitPayment_ConfirmationIncludesOrder(t *testing.T) {
	opt, _ := d.ShippingOptionByID("standard")
	state := &service.State{
		Step:             d.StepConfirmation,
		ShippingMethodID: "standard",
		ShippingOptions:  d.ShippingOptions(),
		Summary:          d.Summary{},
		Order: &d.Order{
			Reference:      "ECL-ABC123-XY9Z",
			Email:          "ada@example.com",
			ShippingMethod: opt,
			Subtotal:       16400,
			ShippingCost:   2500,
			Total:          18900,
			PlacedAt:       time.Now(),
		},
	}
	handler := NewCheckoutHandler(&checkoutAPIMock{state: state}, 5*time.Second)

	body, _ := json.Marshal(PaymentRequestDTO{
		CardName:   "ADA OBI",
		CardNumber: "4242 4242 4242 4242",
		CardExpiry: "12/29",
		CardCVC:    "123",
	})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", bytes.NewReader(body)))

	handler.SubmitPayment(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp CheckoutStateDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "confirmation", resp.Step)
	require.NotNil(t, resp.Order)
	assert.Equal(t, "ECL-ABC123-XY9Z", resp.Order.OrderNumber)
	assert.Equal(t, "Standard Shipping", resp.Order.ShippingMethod)
	assert.Equal(t, 18900.0, resp.Order.Total)
}

func TestGoBack_UnknownStepRejected(t *testing.T) {
	handler := NewCheckoutHandler(&checkoutAPIMock{}, 5*time.Second)

	body, _ := json.Marshal(GoBackRequestDTO{Step: "review"})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", bytes.NewReader(body)))

	handler.GoBack(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestState_NoSession(t *testing.T) {
	handler := NewCheckoutHandler(&checkoutAPIMock{err: service.ErrNoSession}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("GET", "/", nil))

	handler.State(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestLeave_DiscardsSession(t *testing.T) {
	mock := &checkoutAPIMock{}
	handler := NewCheckoutHandler(mock, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("DELETE", "/", nil))

	handler.Leave(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, []string{"visitor-1"}, mock.left)
}
