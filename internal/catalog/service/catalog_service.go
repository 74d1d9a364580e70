package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fjod/go_storefront/internal/catalog/domain"
	"github.com/fjod/go_storefront/internal/catalog/repository"
	"github.com/sony/gobreaker/v2"
)

// CatalogService serves product reads through a circuit breaker. When the
// underlying store fails or the breaker is open, browsing degrades silently
// to the bundled static set instead of surfacing an error page.
type CatalogService struct {
	repo        repository.RepoInterface
	listBreaker *gobreaker.CircuitBreaker[[]domain.Product]
	getBreaker  *gobreaker.CircuitBreaker[*domain.Product]
}

func NewCatalogService(repo repository.RepoInterface) *CatalogService {
	settings := gobreaker.Settings{
		Name:    "catalog",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &CatalogService{
		repo:        repo,
		listBreaker: gobreaker.NewCircuitBreaker[[]domain.Product](settings),
		getBreaker:  gobreaker.NewCircuitBreaker[*domain.Product](settings),
	}
}

// ListProducts returns all products, or only one category when category is
// non-empty.
func (s *CatalogService) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := s.listBreaker.Execute(func() ([]domain.Product, error) {
		if category != "" {
			return s.repo.GetProductsByCategory(ctx, category)
		}
		return s.repo.GetAllProducts(ctx)
	})
	if err != nil {
		log.Printf("catalog list degraded to fallback set: %v", err)
		return filterFallback(category, 0), nil
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.getBreaker.Execute(func() (*domain.Product, error) {
		return s.repo.GetProduct(ctx, id)
	})
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, err
	}
	if err != nil {
		log.Printf("catalog get degraded to fallback set: %v", err)
		for i := range fallbackProducts {
			if fallbackProducts[i].ID == id {
				p := fallbackProducts[i]
				return &p, nil
			}
		}
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

// RelatedProducts lists other products in the same category as the given one,
// for the related-items display.
func (s *CatalogService) RelatedProducts(ctx context.Context, id int64) ([]domain.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	related, err := s.listBreaker.Execute(func() ([]domain.Product, error) {
		return s.repo.GetRelatedProducts(ctx, product.Category, id)
	})
	if err != nil {
		log.Printf("catalog related degraded to fallback set: %v", err)
		return filterFallback(product.Category, id), nil
	}
	return related, nil
}

func filterFallback(category string, excludeID int64) []domain.Product {
	out := make([]domain.Product, 0, len(fallbackProducts))
	for _, p := range fallbackProducts {
		if category != "" && p.Category != category {
			continue
		}
		if excludeID != 0 && p.ID == excludeID {
			continue
		}
		out = append(out, p)
	}
	return out
}
