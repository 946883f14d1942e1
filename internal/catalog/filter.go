package catalog

import (
	"strings"
	"time"

	"isoko/internal/models"
)

// Field names used by filter clauses and sort keys. They double as the
// column names of the SQL-backed product store.
const (
	FieldPrice        = "price"
	FieldCategory     = "category"
	FieldName         = "name"
	FieldDescription  = "description"
	FieldTags         = "tags"
	FieldIsFeatured   = "is_featured"
	FieldIsFlashDeal  = "is_flash_deal"
	FieldIsActive     = "is_active"
	FieldFlashDealEnd = "flash_deal_end_date"
)

// Clause is one condition of an AND-combined product predicate. Every clause
// can evaluate itself against a product in memory, so a Filter is testable
// without any store behind it; SQL-backed stores translate the same clauses
// into WHERE conditions.
type Clause interface {
	Matches(p *models.Product) bool
}

// RangeClause is an inclusive numeric range; either bound may be nil.
type RangeClause struct {
	Field string
	Min   *float64
	Max   *float64
}

func (c RangeClause) Matches(p *models.Product) bool {
	v, ok := numericValue(p, c.Field)
	if !ok {
		return false
	}
	if c.Min != nil && v < *c.Min {
		return false
	}
	if c.Max != nil && v > *c.Max {
		return false
	}
	return true
}

// EqualityFoldClause is an anchored, case-insensitive string equality.
// The value is compared literally; it is never interpreted as a pattern.
type EqualityFoldClause struct {
	Field string
	Value string
}

func (c EqualityFoldClause) Matches(p *models.Product) bool {
	v, ok := stringValue(p, c.Field)
	return ok && strings.EqualFold(v, c.Value)
}

// BoolClause requires a boolean field to hold an exact value.
type BoolClause struct {
	Field string
	Value bool
}

func (c BoolClause) Matches(p *models.Product) bool {
	v, ok := boolValue(p, c.Field)
	return ok && v == c.Value
}

// TextSearchClause is a case-insensitive substring match ORed across fields:
// any one field containing the term qualifies the product. FieldTags matches
// when any tag contains the term.
type TextSearchClause struct {
	Fields []string
	Term   string
}

func (c TextSearchClause) Matches(p *models.Product) bool {
	term := strings.ToLower(c.Term)
	for _, field := range c.Fields {
		if field == FieldTags {
			for _, tag := range p.Tags {
				if strings.Contains(strings.ToLower(tag), term) {
					return true
				}
			}
			continue
		}
		if v, ok := stringValue(p, field); ok && strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// AfterClause requires a time field to be present and strictly after Instant.
type AfterClause struct {
	Field   string
	Instant time.Time
}

func (c AfterClause) Matches(p *models.Product) bool {
	t, ok := timeValue(p, c.Field)
	return ok && t.After(c.Instant)
}

// OnSaleClause requires a "was" price that is strictly above the current price.
type OnSaleClause struct{}

func (c OnSaleClause) Matches(p *models.Product) bool {
	return p.CompareAtPrice != nil && *p.CompareAtPrice > p.Price
}

// Filter is an immutable conjunction of clauses. The zero value matches
// every product.
type Filter struct {
	clauses []Clause
}

// NewFilter builds a filter from the given clauses.
func NewFilter(clauses ...Clause) Filter {
	return Filter{clauses: clauses}
}

// Clauses exposes the clause list so store backends can translate it.
func (f Filter) Clauses() []Clause {
	return f.clauses
}

// Matches reports whether the product satisfies every clause.
func (f Filter) Matches(p *models.Product) bool {
	for _, c := range f.clauses {
		if !c.Matches(p) {
			return false
		}
	}
	return true
}

// BuildFilter translates a list request into the product predicate. All
// supplied filters are AND-combined; "now" is the instant flash-deal expiry
// is judged against.
func BuildFilter(req ListRequest, now time.Time) Filter {
	var clauses []Clause

	if req.Category != "" {
		clauses = append(clauses, EqualityFoldClause{Field: FieldCategory, Value: req.Category})
	}

	if req.MinPrice != nil || req.MaxPrice != nil {
		clauses = append(clauses, RangeClause{Field: FieldPrice, Min: req.MinPrice, Max: req.MaxPrice})
	}

	if req.Search != "" {
		clauses = append(clauses, TextSearchClause{
			Fields: []string{FieldName, FieldDescription, FieldCategory, FieldTags},
			Term:   req.Search,
		})
	}

	if req.Featured {
		clauses = append(clauses, BoolClause{Field: FieldIsFeatured, Value: true})
	}

	switch req.FlashDealStatus {
	case FlashDealActive, FlashDealScheduled:
		// "scheduled" deliberately shares the "active" predicate: the data
		// model carries no start date, so a scheduled deal cannot be told
		// apart from a running one. Pinned in filter tests.
		clauses = append(clauses,
			BoolClause{Field: FieldIsFlashDeal, Value: true},
			AfterClause{Field: FieldFlashDealEnd, Instant: now},
		)
	case FlashDealInactive:
		clauses = append(clauses, BoolClause{Field: FieldIsFlashDeal, Value: false})
	}

	if req.FlashDeal {
		clauses = append(clauses, BoolClause{Field: FieldIsFlashDeal, Value: true})
	}

	if req.OnSale {
		clauses = append(clauses, OnSaleClause{})
	}

	// Non-admin callers only ever see active products.
	if req.CallerRole != models.RoleAdmin {
		clauses = append(clauses, BoolClause{Field: FieldIsActive, Value: true})
	}

	return Filter{clauses: clauses}
}

func numericValue(p *models.Product, field string) (float64, bool) {
	switch field {
	case FieldPrice:
		return p.Price, true
	}
	return 0, false
}

func stringValue(p *models.Product, field string) (string, bool) {
	switch field {
	case FieldName:
		return p.Name, true
	case FieldDescription:
		return p.Description, true
	case FieldCategory:
		return p.Category, true
	}
	return "", false
}

func boolValue(p *models.Product, field string) (bool, bool) {
	switch field {
	case FieldIsFeatured:
		return p.IsFeatured, true
	case FieldIsFlashDeal:
		return p.IsFlashDeal, true
	case FieldIsActive:
		return p.IsActive, true
	}
	return false, false
}

func timeValue(p *models.Product, field string) (time.Time, bool) {
	switch field {
	case FieldFlashDealEnd:
		if p.FlashDealEndDate == nil {
			return time.Time{}, false
		}
		return *p.FlashDealEndDate, true
	}
	return time.Time{}, false
}
