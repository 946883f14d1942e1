package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"isoko/internal/models"
	"isoko/internal/repositories"

	"isoko/pkg/cache"
)

const (
	categoryNamesCacheKey = "catalog:category-names"
	categoryNamesCacheTTL = 10 * time.Minute
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo        repositories.CategoryRepository
	productRepo repositories.ProductRepository
	cache       *cache.RedisClient
}

// NewCategoryService creates a new CategoryService. cache may be nil when no
// Redis instance is configured.
func NewCategoryService(repo repositories.CategoryRepository, productRepo repositories.ProductRepository, cacheClient *cache.RedisClient) *CategoryService {
	return &CategoryService{
		repo:        repo,
		productRepo: productRepo,
		cache:       cacheClient,
	}
}

// ListNames returns the public category names. Curated categories come
// first; when none exist the distinct category labels found on products are
// used instead. The result is cached briefly.
func (s *CategoryService) ListNames() ([]string, error) {
	if s.cache != nil {
		var names []string
		if ok, err := s.cache.GetJSON(context.Background(), categoryNamesCacheKey, &names); err == nil && ok {
			return names, nil
		} else if err != nil {
			log.Printf("Warning: category cache read failed: %v", err)
		}
	}

	categories, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}

	if len(names) == 0 {
		names, err = s.productRepo.DistinctCategories()
		if err != nil {
			return nil, fmt.Errorf("failed to list product categories: %w", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(context.Background(), categoryNamesCacheKey, names, categoryNamesCacheTTL); err != nil {
			log.Printf("Warning: category cache write failed: %v", err)
		}
	}

	return names, nil
}

// ListAll returns every category record.
func (s *CategoryService) ListAll() ([]models.Category, error) {
	return s.repo.GetAll()
}

// CreateCategory creates a new category. Duplicate names are rejected.
func (s *CategoryService) CreateCategory(category *models.Category) error {
	if existing, err := s.repo.GetByName(category.Name); err == nil && existing != nil {
		return fmt.Errorf("category with name '%s' already exists", category.Name)
	}
	if err := s.repo.Create(category); err != nil {
		return err
	}
	s.invalidateNames()
	return nil
}

// DeleteCategory deletes a category by its ID. Products keep their free-text
// category label; deletion does not cascade.
func (s *CategoryService) DeleteCategory(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidateNames()
	return nil
}

func (s *CategoryService) invalidateNames() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(context.Background(), categoryNamesCacheKey); err != nil {
		log.Printf("Warning: category cache invalidation failed: %v", err)
	}
}
