package services

import (
	"restaurant-pos/models"
	"restaurant-pos/repository"
)

// ICatalogService defines read-only catalog browsing.
type ICatalogService interface {
	ListRestaurants() ([]models.Restaurant, error)
	ListMenuItems() ([]models.MenuItem, error)
}

// CatalogService implements ICatalogService.
type CatalogService struct {
	catalogRepo repository.ICatalogRepository
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(repo repository.ICatalogRepository) ICatalogService {
	return &CatalogService{catalogRepo: repo}
}

func (s *CatalogService) ListRestaurants() ([]models.Restaurant, error) {
	return s.catalogRepo.ListRestaurants()
}

func (s *CatalogService) ListMenuItems() ([]models.MenuItem, error) {
	return s.catalogRepo.ListMenuItems()
}
