package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	cart "github.com/fjod/go_storefront/internal/cart/domain"
	d "github.com/fjod/go_storefront/internal/checkout/domain"
)

var (
	nonDigits  = regexp.MustCompile(`\D`)
	expiryMMYY = regexp.MustCompile(`^\d{2}/\d{2}$`)
)

// SubmitPayment validates the card fields, simulates external payment
// authorization for a fixed delay, then in one motion generates the order
// reference, empties the cart and enters the terminal confirmation step.
//
// A second submit while processing is an idempotent no-op: one user action
// can never produce two order references. Cancelling the context during the
// delay discards the pending result; the session stays on payment and the
// cart is untouched.
func (s *CheckoutService) SubmitPayment(ctx context.Context, cartID string, card d.CardDetails) (*State, error) {
	sess, err := s.session(cartID)
	if err != nil {
		return nil, err
	}

	c, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if c.IsEmpty() && !sess.step.IsTerminal() {
		sess.mu.Unlock()
		return nil, ErrEmptyCart
	}
	if sess.step != d.StepPayment {
		sess.mu.Unlock()
		return nil, IllegalTransitionError
	}
	if sess.processing {
		sess.mu.Unlock()
		return nil, ErrPaymentInProgress
	}
	if verr := validatePayment(card); verr != nil {
		sess.mu.Unlock()
		return nil, verr
	}
	sess.processing = true
	sess.mu.Unlock()

	// Simulated authorization; no real gateway call.
	select {
	case <-ctx.Done():
		sess.mu.Lock()
		sess.processing = false
		sess.mu.Unlock()
		return nil, ctx.Err()
	case <-time.After(s.processingDelay):
	}

	// Totals come from the cart as it is now, not from a snapshot taken at
	// checkout start.
	c, err = s.carts.GetCart(ctx, cartID)
	if err != nil {
		sess.mu.Lock()
		sess.processing = false
		sess.mu.Unlock()
		return nil, err
	}

	if err := s.carts.ClearCart(ctx, cartID); err != nil {
		sess.mu.Lock()
		sess.processing = false
		sess.mu.Unlock()
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	opt, _ := d.ShippingOptionByID(sess.shippingMethodID)
	subtotal := c.Subtotal()
	sess.order = &d.Order{
		Reference:      s.newOrderReference(),
		Email:          sess.contact.Email,
		ShippingMethod: opt,
		Subtotal:       subtotal,
		ShippingCost:   opt.Price,
		Total:          subtotal + opt.Price,
		PlacedAt:       s.now(),
	}
	sess.step = d.StepConfirmation
	sess.processing = false

	cleared := &cart.Cart{ID: cartID}
	return s.stateLocked(sess, cleared), nil
}

func validatePayment(card d.CardDetails) error {
	errs := map[string]string{}
	if strings.TrimSpace(card.HolderName) == "" {
		errs["cardName"] = "Name on card is required"
	}
	if len(nonDigits.ReplaceAllString(card.Number, "")) < 16 {
		errs["cardNumber"] = "Enter a valid card number"
	}
	if !expiryMMYY.MatchString(card.Expiry) {
		errs["cardExpiry"] = "Use MM/YY format"
	}
	if len(nonDigits.ReplaceAllString(card.CVC, "")) < 3 {
		errs["cardCvc"] = "Enter a valid CVC"
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
