package service

import (
	"context"

	d "github.com/fjod/go_storefront/internal/checkout/domain"
)

// SelectShipping records the chosen shipping method and advances to payment.
// A default method is pre-selected when the session is created, so this
// transition can only fail on an id outside the fixed set.
func (s *CheckoutService) SelectShipping(ctx context.Context, cartID string, methodID string) (*State, error) {
	sess, err := s.session(cartID)
	if err != nil {
		return nil, err
	}

	c, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if c.IsEmpty() && !sess.step.IsTerminal() {
		return nil, ErrEmptyCart
	}
	if sess.step != d.StepShipping {
		return nil, IllegalTransitionError
	}

	if methodID == "" {
		methodID = sess.shippingMethodID
	}
	if _, ok := d.ShippingOptionByID(methodID); !ok {
		return nil, &ValidationError{Fields: map[string]string{
			"shippingMethod": "Select a valid shipping method",
		}}
	}

	sess.shippingMethodID = methodID
	sess.step = d.StepPayment

	return s.stateLocked(sess, c), nil
}
