package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"isoko/internal/catalog"
	"isoko/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It evaluates catalog predicates directly, which also makes it the
// correctness oracle for the query engine in tests.
type MockProductRepository struct {
	products []models.Product
	index    map[string]int
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		index: make(map[string]int),
	}
}

// Find returns one page of matching products in the requested order.
func (r *MockProductRepository) Find(filter catalog.Filter, sortKey catalog.SortKey, skip, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Product, 0, len(r.products))
	for i := range r.products {
		if filter.Matches(&r.products[i]) {
			matched = append(matched, r.products[i])
		}
	}

	// Stable sort keeps insertion order on ties, mirroring a deterministic
	// store ordering so paging over a static data set never duplicates rows.
	sort.SliceStable(matched, func(i, j int) bool {
		return sortKey.Less(&matched[i], &matched[j])
	})

	if skip < 0 {
		skip = 0
	}
	if skip >= len(matched) {
		return []models.Product{}, nil
	}
	end := skip + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], nil
}

// Count returns how many products match the filter.
func (r *MockProductRepository) Count(filter catalog.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for i := range r.products {
		if filter.Matches(&r.products[i]) {
			total++
		}
	}
	return total, nil
}

// DistinctCategories returns the distinct category labels in insertion order.
func (r *MockProductRepository) DistinctCategories() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var names []string
	for i := range r.products {
		if c := r.products[i].Category; c != "" && !seen[c] {
			seen[c] = true
			names = append(names, c)
		}
	}
	return names, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s not found", id)
	}
	product := r.products[i]
	return &product, nil
}

// GetBySlug returns a product by its unique slug.
func (r *MockProductRepository) GetBySlug(slug string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.products {
		if r.products[i].Slug == slug {
			product := r.products[i]
			return &product, nil
		}
	}
	return nil, fmt.Errorf("product with slug %s not found", slug)
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	if _, ok := r.index[product.ID]; ok {
		return fmt.Errorf("product with ID %s already exists", product.ID)
	}
	r.index[product.ID] = len(r.products)
	r.products = append(r.products, *product)
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s not found for update", product.ID)
	}
	r.products[i] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("product with ID %s not found for deletion", id)
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.products); j++ {
		r.index[r.products[j].ID] = j
	}
	return nil
}
