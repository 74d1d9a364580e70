package service

import (
	"context"
	"strings"

	d "github.com/fjod/go_storefront/internal/checkout/domain"
)

// SubmitInformation validates the contact and address fields and, on
// success, advances the session to the shipping step. On failure the session
// stays on information with one message per invalid field and nothing else
// changes.
func (s *CheckoutService) SubmitInformation(ctx context.Context, cartID string, contact d.ContactInfo, address d.ShippingAddress) (*State, error) {
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
	if sess.step != d.StepInformation {
		return nil, IllegalTransitionError
	}

	if verr := validateInformation(contact, address); verr != nil {
		return nil, verr
	}

	// Country is fixed for this storefront regardless of submitted input.
	address.Country = d.DefaultCountry

	sess.contact = contact
	sess.address = address
	sess.step = d.StepShipping
	sess.shippingReached = true

	return s.stateLocked(sess, c), nil
}

func validateInformation(contact d.ContactInfo, address d.ShippingAddress) error {
	errs := map[string]string{}
	if strings.TrimSpace(contact.FirstName) == "" {
		errs["firstName"] = "First name is required"
	}
	if strings.TrimSpace(contact.LastName) == "" {
		errs["lastName"] = "Last name is required"
	}
	if strings.TrimSpace(contact.Email) == "" {
		errs["email"] = "Email is required"
	}
	if strings.TrimSpace(contact.Phone) == "" {
		errs["phone"] = "Phone number is required"
	}
	if strings.TrimSpace(address.AddressLine) == "" {
		errs["address"] = "Address is required"
	}
	if strings.TrimSpace(address.City) == "" {
		errs["city"] = "City is required"
	}
	if strings.TrimSpace(address.State) == "" {
		errs["state"] = "State is required"
	}
	// Apartment and postal code are optional.
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
