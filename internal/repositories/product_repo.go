package repositories

import (
	"isoko/internal/catalog"
	"isoko/internal/models"
)

// ProductRepository defines the product store contract the catalog query
// engine executes against. Find and Count take the same predicate; Count
// ignores pagination by definition.
type ProductRepository interface {
	Find(filter catalog.Filter, sort catalog.SortKey, skip, limit int) ([]models.Product, error)
	Count(filter catalog.Filter) (int64, error)
	DistinctCategories() ([]string, error)
	GetByID(id string) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
