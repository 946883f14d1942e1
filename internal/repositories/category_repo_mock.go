package repositories

import (
	"fmt"
	"sync"

	"isoko/internal/models"

	"github.com/google/uuid"
)

// MockCategoryRepository is an in-memory implementation of CategoryRepository.
type MockCategoryRepository struct {
	categories []models.Category
	mu         sync.RWMutex
}

// NewMockCategoryRepository creates a new instance of MockCategoryRepository.
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{}
}

// GetAll returns all categories in insertion order.
func (r *MockCategoryRepository) GetAll() ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

// GetByName returns a category by its unique name.
func (r *MockCategoryRepository) GetByName(name string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.categories {
		if r.categories[i].Name == name {
			category := r.categories[i]
			return &category, nil
		}
	}
	return nil, fmt.Errorf("category with name %s not found", name)
}

// Create adds a new category.
func (r *MockCategoryRepository) Create(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.categories {
		if r.categories[i].Name == category.Name {
			return fmt.Errorf("category with name %s already exists", category.Name)
		}
	}
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	r.categories = append(r.categories, *category)
	return nil
}

// Delete removes a category by its ID.
func (r *MockCategoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.categories {
		if r.categories[i].ID == id {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("category with ID %s not found for deletion", id)
}
