package repository

import (
	"restaurant-pos/models"

	"gorm.io/gorm"
)

// ICatalogRepository defines read-only catalog browsing.
type ICatalogRepository interface {
	ListRestaurants() ([]models.Restaurant, error)
	ListMenuItems() ([]models.MenuItem, error)
}

// CatalogRepository implements ICatalogRepository for GORM.
type CatalogRepository struct {
	DB *gorm.DB
}

// NewCatalogRepository creates a new CatalogRepository instance.
func NewCatalogRepository(db *gorm.DB) ICatalogRepository {
	return &CatalogRepository{DB: db}
}

// ListRestaurants returns restaurants with their branches and tables so
// clients can pick ids without manual lookups.
func (r *CatalogRepository) ListRestaurants() ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.DB.
		Preload("Branches.Tables").
		Order("created_at asc").
		Find(&restaurants).Error
	if err != nil {
		return nil, err
	}
	return restaurants, nil
}

// ListMenuItems returns the menu ordered by name.
func (r *CatalogRepository) ListMenuItems() ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.DB.Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
