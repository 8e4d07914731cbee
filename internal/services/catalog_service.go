package services

import (
	"context"

	"rjcreations/internal/domain"
)

type CatalogService struct {
	Prods ProductRepository
}

func NewCatalogService(prods ProductRepository) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.List(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	return s.Prods.Delete(ctx, id)
}
