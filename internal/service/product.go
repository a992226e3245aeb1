package service

import (
	"context"
	"errors"
	"strings"

	"salesauth/internal/domain"
	"salesauth/internal/store"
	"salesauth/pkg/idx"
)

var (
	ErrProductExists  = errors.New("product_exists")
	ErrInvalidProduct = errors.New("invalid_product")
)

type ProductService struct {
	Store store.Store
}

// Add inserts a new product. Name collisions are detected by the UNIQUE
// constraint and surface as ErrProductExists.
func (s *ProductService) Add(ctx context.Context, name string) (domain.Product, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Product{}, ErrInvalidProduct
	}

	p := domain.Product{
		ID:   idx.New().String(),
		Name: name,
	}
	if err := s.Store.Products().CreateProduct(ctx, p); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Product{}, ErrProductExists
		}
		return domain.Product{}, err
	}
	return p, nil
}

// ListAll returns every product that has not been soft deleted.
func (s *ProductService) ListAll(ctx context.Context) ([]domain.Product, error) {
	return s.Store.Products().ListProducts(ctx)
}
