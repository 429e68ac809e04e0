package catalog

import (
	"context"
	"io"
	"log"
	"strings"

	"storefront/internal/domain"
)

// FeaturedCount is the number of products shown on the home page.
const FeaturedCount = 3

type productSource interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
}

// Service reads the catalog and resolves product images.
type Service struct {
	src    productSource
	images ImageResolver
	logger *log.Logger
}

// New creates a catalog Service.
func New(src productSource, images ImageResolver, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{src: src, images: images, logger: logger}
}

// List returns every product in the order the service sends them.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.src.Products(ctx)
	if err != nil {
		s.logger.Printf("catalog: list failed: %v", err)
		return nil, err
	}
	for i := range products {
		products[i].ImageURL = s.images.Resolve(products[i].Image)
	}
	return products, nil
}

// Featured returns the first n products of the catalog.
func (s *Service) Featured(ctx context.Context, n int) ([]domain.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(products) > n {
		products = products[:n]
	}
	return products, nil
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.Invalid("id", "product id is required")
	}
	p, err := s.src.Product(ctx, id)
	if err != nil {
		s.logger.Printf("catalog: get id=%s failed: %v", id, err)
		return nil, err
	}
	p.ImageURL = s.images.Resolve(p.Image)
	return p, nil
}

// ImageURL resolves a single image reference, for cart lines and order items.
func (s *Service) ImageURL(ref string) string {
	return s.images.Resolve(ref)
}
