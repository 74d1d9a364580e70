package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fjod/go_storefront/internal/cart/domain"
	"github.com/fjod/go_storefront/internal/cart/storage"
	catalog "github.com/fjod/go_storefront/internal/catalog/domain"
	"golang.org/x/sync/singleflight"
)

// CartService is the single source of truth for what is in a visitor's bag.
// Every mutation follows the same contract: load the persisted lines, apply
// the change in memory, then save before returning.
type CartService struct {
	storage storage.Storage
	sfg     singleflight.Group // Prevents read stampede for same cart key
}

func NewCartService(st storage.Storage) *CartService {
	return &CartService{storage: st}
}

func (s *CartService) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(cartID, func() (interface{}, error) {
		lines, err := s.load(ctx, cartID)
		if err != nil {
			return nil, err
		}
		return &domain.Cart{
			ID:        cartID,
			Lines:     lines,
			UpdatedAt: time.Now(),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// AddItem merges by product id: an existing line gains quantity 1, otherwise
// a new line is inserted with quantity 1 carrying the product's display
// fields.
func (s *CartService) AddItem(ctx context.Context, cartID string, product catalog.Product) (*domain.Cart, error) {
	lines, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range lines {
		if lines[i].ProductID == product.ID {
			lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, domain.Line{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Quantity:  1,
		})
	}

	return s.persist(ctx, cartID, lines)
}

// RemoveItem deletes the whole line. An absent id is a no-op, not an error.
func (s *CartService) RemoveItem(ctx context.Context, cartID string, productID int64) (*domain.Cart, error) {
	lines, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	for i := range lines {
		if lines[i].ProductID == productID {
			lines = append(lines[:i], lines[i+1:]...)
			break
		}
	}

	return s.persist(ctx, cartID, lines)
}

// DecreaseQuantity drops the line entirely when its quantity would reach
// zero; a zero-quantity line never persists.
func (s *CartService) DecreaseQuantity(ctx context.Context, cartID string, productID int64) (*domain.Cart, error) {
	lines, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity--
			if lines[i].Quantity <= 0 {
				lines = append(lines[:i], lines[i+1:]...)
			}
			break
		}
	}

	return s.persist(ctx, cartID, lines)
}

func (s *CartService) ClearCart(ctx context.Context, cartID string) error {
	if err := s.storage.Delete(ctx, cartID); err != nil {
		log.Printf("storage delete cart error: %v", err)
		return err
	}
	return nil
}

func (s *CartService) Count(ctx context.Context, cartID string) (int, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return 0, err
	}
	return cart.Count(), nil
}

// load treats a missing cart as empty and a corrupt persisted payload the
// same way: browsing must never crash on bad stored data.
func (s *CartService) load(ctx context.Context, cartID string) ([]domain.Line, error) {
	lines, err := s.storage.Load(ctx, cartID)
	if errors.Is(err, storage.ErrCartNotFound) {
		return []domain.Line{}, nil
	}
	if errors.Is(err, storage.ErrCartCorrupt) {
		log.Printf("discarding corrupt cart %s: %v", cartID, err)
		return []domain.Line{}, nil
	}
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *CartService) persist(ctx context.Context, cartID string, lines []domain.Line) (*domain.Cart, error) {
	if err := s.storage.Save(ctx, cartID, lines); err != nil {
		log.Printf("storage save cart error: %v", err)
		return nil, err
	}
	return &domain.Cart{
		ID:        cartID,
		Lines:     lines,
		UpdatedAt: time.Now(),
	}, nil
}
