package catalog

import (
	"fmt"
	"strconv"
)

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Flash deal status values accepted by the listing endpoint. Any other
// value (including "all") adds no flash-deal clause.
const (
	FlashDealActive    = "active"
	FlashDealInactive  = "inactive"
	FlashDealScheduled = "scheduled"
)

// ValidationError reports a malformed filter value. Handlers map it to a
// 4xx response.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ListRequest describes one catalog query: filters, sort, pagination and the
// caller's role. Build one with ParseListRequest or directly in tests.
type ListRequest struct {
	Page            int
	Limit           int
	Category        string
	MinPrice        *float64
	MaxPrice        *float64
	Search          string
	Featured        bool
	FlashDeal       bool
	FlashDealStatus string
	OnSale          bool
	Sort            string
	CallerRole      string
}

// ParseListRequest validates raw query parameters into a ListRequest.
// Page and limit fall back to their defaults when absent or unparseable;
// malformed price bounds are rejected rather than silently coerced.
func ParseListRequest(query map[string]string, callerRole string) (ListRequest, error) {
	req := ListRequest{
		Page:            DefaultPage,
		Limit:           DefaultLimit,
		Category:        query["category"],
		Search:          query["search"],
		Featured:        query["featured"] == "true",
		FlashDeal:       query["flashDeal"] == "true",
		FlashDealStatus: query["flashDealStatus"],
		OnSale:          query["onSale"] == "true",
		Sort:            query["sort"],
		CallerRole:      callerRole,
	}

	if raw := query["page"]; raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page >= 1 {
			req.Page = page
		}
	}
	if raw := query["limit"]; raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit >= 1 {
			req.Limit = limit
		}
	}

	if raw := query["minPrice"]; raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ListRequest{}, NewValidationError("minPrice must be a number, got %q", raw)
		}
		req.MinPrice = &min
	}
	if raw := query["maxPrice"]; raw != "" {
		max, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ListRequest{}, NewValidationError("maxPrice must be a number, got %q", raw)
		}
		req.MaxPrice = &max
	}

	return req, nil
}

// Skip is the number of rows the store should skip for the requested page.
func (r ListRequest) Skip() int {
	return (r.Page - 1) * r.Limit
}
