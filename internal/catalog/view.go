package catalog

import "isoko/internal/models"

// ProductView is a product as the API serializes it: the stored record plus
// the derived fields, recomputed on every response and never trusted from
// storage.
type ProductView struct {
	models.Product
	DiscountPercentage int                  `json:"discountPercentage"`
	InStock            bool                 `json:"inStock"`
	MainImage          *models.ProductImage `json:"mainImage,omitempty"`
}

// NewProductView attaches the derived fields to a product.
func NewProductView(p models.Product) ProductView {
	return ProductView{
		Product:            p,
		DiscountPercentage: p.DiscountPercentage(),
		InStock:            p.InStock(),
		MainImage:          p.MainImage(),
	}
}

// Result is one page of a catalog listing plus its pagination metadata.
// Total counts every row matching the predicate, ignoring pagination;
// Count is the number of items on this page.
type Result struct {
	Items       []ProductView `json:"items"`
	Count       int           `json:"count"`
	Total       int64         `json:"total"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
}
