package catalog

import "isoko/internal/models"

// SortKey identifies one of the fixed orderings the listing endpoint offers.
type SortKey int

const (
	// SortNewest orders by creation time descending. It is the default and
	// the fallback for unrecognized sort values.
	SortNewest SortKey = iota
	SortPriceAsc
	SortPriceDesc
	SortNameAsc
	SortNameDesc
	// SortDiscount orders by the computed discount ratio, highest first.
	// The ratio is derived per row, never read from storage.
	SortDiscount
)

// ResolveSort maps a raw sort parameter to a SortKey.
func ResolveSort(sort string) SortKey {
	switch sort {
	case "price-asc":
		return SortPriceAsc
	case "price-desc":
		return SortPriceDesc
	case "name-asc":
		return SortNameAsc
	case "name-desc":
		return SortNameDesc
	case "discount":
		return SortDiscount
	default:
		return SortNewest
	}
}

func (k SortKey) String() string {
	switch k {
	case SortPriceAsc:
		return "price-asc"
	case SortPriceDesc:
		return "price-desc"
	case SortNameAsc:
		return "name-asc"
	case SortNameDesc:
		return "name-desc"
	case SortDiscount:
		return "discount"
	default:
		return "newest"
	}
}

// Less reports whether a sorts before b under this key. In-memory stores use
// it with a stable sort; SQL stores translate the key to an ORDER BY instead.
func (k SortKey) Less(a, b *models.Product) bool {
	switch k {
	case SortPriceAsc:
		return a.Price < b.Price
	case SortPriceDesc:
		return a.Price > b.Price
	case SortNameAsc:
		return a.Name < b.Name
	case SortNameDesc:
		return a.Name > b.Name
	case SortDiscount:
		return a.DiscountRatio() > b.DiscountRatio()
	default:
		return a.CreatedAt.After(b.CreatedAt)
	}
}
