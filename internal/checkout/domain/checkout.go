package domain

import "time"

// DefaultCountry is fixed for this storefront; the field is displayed but
// not user-editable.
const DefaultCountry = "Nigeria"

type ContactInfo struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

type ShippingAddress struct {
	AddressLine string
	Apartment   string
	City        string
	State       string
	PostalCode  string
	Country     string
}

// CardDetails live only for the duration of a payment submission. They are
// never persisted and never stored on the session.
type CardDetails struct {
	HolderName string
	Number     string
	Expiry     string
	CVC        string
}

type ShippingOption struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
	ETA   string  `json:"eta"`
}

const DefaultShippingMethod = "standard"

// ShippingOptions is the fixed enumerated set a visitor chooses from. All
// prices are positive whole currency units.
func ShippingOptions() []ShippingOption {
	return []ShippingOption{
		{ID: "standard", Label: "Standard Shipping", Price: 2500, ETA: "5-7 business days"},
		{ID: "express", Label: "Express Shipping", Price: 5000, ETA: "2-3 business days"},
		{ID: "overnight", Label: "Overnight Shipping", Price: 10000, ETA: "Next business day"},
	}
}

func ShippingOptionByID(id string) (ShippingOption, bool) {
	for _, opt := range ShippingOptions() {
		if opt.ID == id {
			return opt, true
		}
	}
	return ShippingOption{}, false
}

// Order is the confirmation snapshot produced once, on entering the terminal
// step.
type Order struct {
	Reference      string
	Email          string
	ShippingMethod ShippingOption
	Subtotal       float64
	ShippingCost   float64
	Total          float64
	PlacedAt       time.Time
}

// Summary carries the live totals for display. ShippingCost and Total are
// meaningful only once ShippingKnown is true; before the shipping step has
// been reached the cost is "to be calculated", not zero.
type Summary struct {
	Subtotal      float64
	ShippingKnown bool
	ShippingCost  float64
	Total         float64
}
