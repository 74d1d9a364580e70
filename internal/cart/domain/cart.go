package domain

import "time"

// Line is one distinct product held in the cart. Display fields are copied
// from the product at the time it is added.
type Line struct {
	ProductID int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	Quantity  int     `json:"quantity"`
}

type Cart struct {
	ID        string
	Lines     []Line
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Count is derived from the line quantities on every call, never cached.
func (c *Cart) Count() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, l := range c.Lines {
		sum += l.Price * float64(l.Quantity)
	}
	return sum
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
