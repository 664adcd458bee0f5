package service

import (
	"database/sql"
	"errors"
	"log"

	"pizzeria/internal/cache"
	"pizzeria/internal/db"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/repository"
)

const (
	catalogCacheKey       = "catalog:all"
	catalogTypeCachePref  = "catalog:type:"
	catalogCachedPatterns = "catalog:*"
)

// ProductService serves the menu. List reads go through the Redis cache; any
// mutation drops the cached catalog.
type ProductService struct {
	Repo  *repository.ProductRepository
	cache *cache.Cache
}

func NewProductService(repo *repository.ProductRepository, c *cache.Cache) *ProductService {
	return &ProductService{Repo: repo, cache: c}
}

func (s *ProductService) List() ([]db.Product, error) {
	var products []db.Product
	if s.cache.Get(catalogCacheKey, &products) {
		return products, nil
	}
	products, err := s.Repo.List()
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return nil, apperrors.Internal("Failed to fetch products")
	}
	s.cache.Set(catalogCacheKey, products)
	return products, nil
}

func (s *ProductService) ListByType(productType string) ([]db.Product, error) {
	key := catalogTypeCachePref + productType
	var products []db.Product
	if s.cache.Get(key, &products) {
		return products, nil
	}
	products, err := s.Repo.ListByType(productType)
	if err != nil {
		log.Printf("Error listing products by type %q: %v", productType, err)
		return nil, apperrors.Internal("Failed to fetch products")
	}
	s.cache.Set(key, products)
	return products, nil
}

func (s *ProductService) GetByID(id int) (*db.Product, error) {
	product, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("Product not found")
		}
		log.Printf("Error fetching product %d: %v", id, err)
		return nil, apperrors.Internal("Failed to fetch product")
	}
	return product, nil
}

func (s *ProductService) Create(p *db.Product) error {
	if p.Name == "" || p.Price == 0 || p.Type == "" {
		return apperrors.Validation("Missing required fields")
	}
	if err := s.Repo.Create(p); err != nil {
		log.Printf("Error creating product: %v", err)
		return apperrors.Internal("Failed to create product")
	}
	s.cache.DeletePattern(catalogCachedPatterns)
	return nil
}

func (s *ProductService) Update(p *db.Product) error {
	if err := s.Repo.Update(p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("Product not found")
		}
		log.Printf("Error updating product %d: %v", p.ID, err)
		return apperrors.Internal("Failed to update product")
	}
	s.cache.DeletePattern(catalogCachedPatterns)
	return nil
}

func (s *ProductService) Delete(id int) error {
	if err := s.Repo.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("Product not found")
		}
		log.Printf("Error deleting product %d: %v", id, err)
		return apperrors.Internal("Failed to delete product")
	}
	s.cache.DeletePattern(catalogCachedPatterns)
	return nil
}
