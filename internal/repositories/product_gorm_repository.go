package repositories

import (
	"fmt"
	"strings"

	"isoko/internal/catalog"
	"isoko/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Find retrieves one page of products matching the filter, in the given order.
func (r *GORMProductRepository) Find(filter catalog.Filter, sort catalog.SortKey, skip, limit int) ([]models.Product, error) {
	var products []models.Product
	query := applyFilter(r.db.Model(&models.Product{}), filter).
		Order(orderExpr(sort)).
		Offset(skip).
		Limit(limit)
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

// Count returns the number of products matching the filter, ignoring pagination.
func (r *GORMProductRepository) Count(filter catalog.Filter) (int64, error) {
	var total int64
	if err := applyFilter(r.db.Model(&models.Product{}), filter).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// DistinctCategories returns every distinct category label present in the catalog.
func (r *GORMProductRepository) DistinctCategories() ([]string, error) {
	var names []string
	if err := r.db.Model(&models.Product{}).Distinct().Pluck("category", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list distinct categories: %w", err)
	}
	return names, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetBySlug retrieves a single product by its unique slug.
func (r *GORMProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with slug %s not found", slug)
		}
		return nil, fmt.Errorf("failed to get product by slug %s: %w", slug, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// GORM's Save doesn't return ErrRecordNotFound if no rows were
		// affected by an update, so we check RowsAffected.
		return fmt.Errorf("product with ID %s not found for update", product.ID)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for deletion", id)
	}
	return nil
}

// applyFilter translates the catalog predicate into WHERE conditions. Clause
// fields are catalog-defined column names, never user input; user-supplied
// values only ever travel as bind parameters.
func applyFilter(db *gorm.DB, filter catalog.Filter) *gorm.DB {
	for _, clause := range filter.Clauses() {
		switch c := clause.(type) {
		case catalog.RangeClause:
			if c.Min != nil {
				db = db.Where(c.Field+" >= ?", *c.Min)
			}
			if c.Max != nil {
				db = db.Where(c.Field+" <= ?", *c.Max)
			}
		case catalog.EqualityFoldClause:
			db = db.Where("LOWER("+c.Field+") = LOWER(?)", c.Value)
		case catalog.BoolClause:
			db = db.Where(c.Field+" = ?", c.Value)
		case catalog.TextSearchClause:
			pattern := "%" + escapeLike(strings.ToLower(c.Term)) + "%"
			conds := make([]string, 0, len(c.Fields))
			args := make([]interface{}, 0, len(c.Fields))
			for _, field := range c.Fields {
				conds = append(conds, "LOWER("+field+") LIKE ? ESCAPE '\\'")
				args = append(args, pattern)
			}
			db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
		case catalog.AfterClause:
			db = db.Where(c.Field+" IS NOT NULL AND "+c.Field+" > ?", c.Instant)
		case catalog.OnSaleClause:
			db = db.Where("compare_at_price IS NOT NULL AND compare_at_price > price")
		}
	}
	return db
}

// orderExpr maps a sort key to an ORDER BY expression. The discount ordering
// is computed per row from the stored prices; it is not a stored column.
func orderExpr(sort catalog.SortKey) string {
	switch sort {
	case catalog.SortPriceAsc:
		return "price ASC"
	case catalog.SortPriceDesc:
		return "price DESC"
	case catalog.SortNameAsc:
		return "name ASC"
	case catalog.SortNameDesc:
		return "name DESC"
	case catalog.SortDiscount:
		return "CASE WHEN compare_at_price IS NOT NULL AND compare_at_price > 0 " +
			"THEN (compare_at_price - price) / compare_at_price ELSE 0 END DESC"
	default:
		return "created_at DESC"
	}
}

// escapeLike escapes LIKE metacharacters so user-supplied search terms are
// matched literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
