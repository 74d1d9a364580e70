package storage

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/cart/domain"
)

// Storage is the durable side of the cart store. Every mutation in the
// service layer ends with a Save so a reload always sees the latest lines.
type Storage interface {
	Load(ctx context.Context, cartID string) ([]domain.Line, error)
	Save(ctx context.Context, cartID string, lines []domain.Line) error
	Delete(ctx context.Context, cartID string) error
}

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrCartCorrupt  = errors.New("persisted cart is not parsable")
)
