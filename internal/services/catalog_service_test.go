package services_test

import (
	"fmt"
	"testing"
	"time"

	"isoko/internal/catalog"
	"isoko/internal/models"
	"isoko/internal/repositories"
	"isoko/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func was(v float64) *float64 { return &v }

// seedCatalogRepo loads a fixed data set: three Electronics products priced
// 100/200/300 (the 300 one inactive), plus a spread of other categories,
// discounts and flash deals.
func seedCatalogRepo(t *testing.T) *repositories.MockProductRepository {
	t.Helper()
	repo := repositories.NewMockProductRepository()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	future := base.AddDate(1, 0, 0)
	past := base.AddDate(-1, 0, 0)

	products := []models.Product{
		{ID: "elec-100", Name: "Radio", Category: "Electronics", Price: 100, IsActive: true, Tags: []string{"audio"}},
		{ID: "elec-200", Name: "Blender", Category: "Electronics", Price: 200, IsActive: true},
		{ID: "elec-300", Name: "Television", Category: "Electronics", Price: 300, IsActive: false},
		{ID: "home-1", Name: "Solar Lamp", Category: "Home", Price: 120, CompareAtPrice: was(180), IsActive: true,
			IsFlashDeal: true, FlashDealEndDate: &future, Tags: []string{"solar"}},
		{ID: "home-2", Name: "Broom", Category: "Home", Price: 20, IsActive: true},
		{ID: "kitchen-1", Name: "Espresso Maker", Category: "Kitchen", Price: 300, CompareAtPrice: was(400), IsActive: true,
			IsFeatured: true, Description: "Stovetop espresso maker"},
		{ID: "kitchen-2", Name: "Kettle", Category: "Kitchen", Price: 90, CompareAtPrice: was(100), IsActive: true,
			IsFlashDeal: true, FlashDealEndDate: &past},
	}

	for i := range products {
		products[i].CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(&products[i]))
	}
	return repo
}

func ids(items []catalog.ProductView) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestCatalogService_EndToEndCategoryPagePriceDesc(t *testing.T) {
	service := services.NewCatalogService(seedCatalogRepo(t))

	// Non-admin caller: the inactive 300-priced item must not appear.
	result, err := service.List(catalog.ListRequest{
		Page: 1, Limit: 2,
		Category:   "electronics", // case-insensitive exact match
		Sort:       "price-desc",
		CallerRole: models.RoleUser,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"elec-200", "elec-100"}, ids(result.Items))
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, 1, result.TotalPages)
	assert.Equal(t, 1, result.CurrentPage)
}

func TestCatalogService_AdminSeesInactiveProducts(t *testing.T) {
	service := services.NewCatalogService(seedCatalogRepo(t))

	result, err := service.List(catalog.ListRequest{
		Category:   "Electronics",
		CallerRole: models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)

	result, err = service.List(catalog.ListRequest{Category: "Electronics"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	for _, item := range result.Items {
		assert.True(t, item.IsActive)
	}
}

func TestCatalogService_PriceRangeInclusive(t *testing.T) {
	service := services.NewCatalogService(seedCatalogRepo(t))

	min, max := 90.0, 200.0
	result, err := service.List(catalog.ListRequest{MinPrice: &min, MaxPrice: &max, CallerRole: models.RoleAdmin})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Items)
	for _, item := range result.Items {
		assert.GreaterOrEqual(t, item.Price, min)
		assert.LessOrEqual(t, item.Price, max)
	}
}

func TestCatalogService_SearchMatchesAcrossFields(t *testing.T) {
	service := services.NewCatalogService(seedCatalogRepo(t))

	// "solar" appears in one name and one tag set; both belong to home-1.
	result, err := service.List(catalog.ListRequest{Search: "solar"})
	require.NoError(t, err)
	assert.Equal(t, []string{"home-1"}, ids(result.Items))

	// "stovetop" only appears in a description.
	result, err = service.List(catalog.ListRequest{Search: "STOVETOP"})
	require.NoError(t, err)
	assert.Equal(t, []string{"kitchen-1"}, ids(result.Items))
}

func TestCatalogService_OnSaleFilter(t *testing.T) {
	service := services.NewCatalogService(seedCatalogRepo(t))

	result, err := service.List(catalog.ListRequest{OnSale: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"home-1", "kitchen-1", "kitchen-2"}, ids(result.Items))
}

func TestCatalogService_FlashDealStatusActive(t *testing.T) {
	service := services.NewCatalogService(seedCatalogRepo(t))

	// kitchen-2's deal has expired; only home-1 is an active flash deal.
	result, err := service.List(catalog.ListRequest{FlashDealStatus: catalog.FlashDealActive})
	require.NoError(t, err)
	assert.Equal(t, []string{"home-1"}, ids(result.Items))

	// The loose boolean filter ignores the end date.
	result, err = service.List(catalog.ListRequest{FlashDeal: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"home-1", "kitchen-2"}, ids(result.Items))
}

func TestCatalogService_DiscountSortNonIncreasing(t *testing.T) {
	service := services.NewCatalogService(seedCatalogRepo(t))

	result, err := service.List(catalog.ListRequest{Sort: "discount", CallerRole: models.RoleAdmin})
	require.NoError(t, err)
	require.NotEmpty(t, result.Items)

	for i := 1; i < len(result.Items); i++ {
		prev := result.Items[i-1].DiscountRatio()
		cur := result.Items[i].DiscountRatio()
		assert.GreaterOrEqual(t, prev, cur, "items %d and %d out of order", i-1, i)
	}
	// home-1 carries the steepest discount (60/180 = 33%).
	assert.Equal(t, "home-1", result.Items[0].ID)
}

func TestCatalogService_UnrecognizedSortFallsBackToNewest(t *testing.T) {
	service := services.NewCatalogService(seedCatalogRepo(t))

	odd, err := service.List(catalog.ListRequest{Sort: "rating-desc", CallerRole: models.RoleAdmin})
	require.NoError(t, err)
	newest, err := service.List(catalog.ListRequest{Sort: "newest", CallerRole: models.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, ids(newest.Items), ids(odd.Items))
	// Creation time descending: the last-seeded product comes first.
	assert.Equal(t, "kitchen-2", newest.Items[0].ID)
}

// Concatenating all pages of a fixed predicate+sort yields exactly Total
// items with no duplicates.
func TestCatalogService_PaginationCoversAllRowsExactlyOnce(t *testing.T) {
	service := services.NewCatalogService(seedCatalogRepo(t))

	first, err := service.List(catalog.ListRequest{Limit: 3, CallerRole: models.RoleAdmin, Sort: "price-asc"})
	require.NoError(t, err)
	assert.Equal(t, int(first.Total+3-1)/3, first.TotalPages)

	seen := make(map[string]bool)
	collected := 0
	for page := 1; page <= first.TotalPages; page++ {
		result, err := service.List(catalog.ListRequest{
			Page: page, Limit: 3, CallerRole: models.RoleAdmin, Sort: "price-asc",
		})
		require.NoError(t, err)
		assert.Equal(t, first.Total, result.Total, "total is page-independent")
		for _, item := range result.Items {
			assert.False(t, seen[item.ID], "duplicate item %s on page %d", item.ID, page)
			seen[item.ID] = true
			collected++
		}
	}
	assert.Equal(t, int(first.Total), collected)
}

func TestCatalogService_PageBeyondLastIsEmpty(t *testing.T) {
	service := services.NewCatalogService(seedCatalogRepo(t))

	result, err := service.List(catalog.ListRequest{Page: 99, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, 0, result.Count)
	assert.Equal(t, 99, result.CurrentPage)
	assert.NotZero(t, result.Total)
}

func TestCatalogService_EmptyResultHasZeroPages(t *testing.T) {
	service := services.NewCatalogService(seedCatalogRepo(t))

	result, err := service.List(catalog.ListRequest{Category: "Toys"})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, int64(0), result.Total)
	assert.Equal(t, 0, result.TotalPages)
}

func TestCatalogService_DerivedFieldsOnEveryItem(t *testing.T) {
	service := services.NewCatalogService(seedCatalogRepo(t))

	result, err := service.List(catalog.ListRequest{OnSale: true})
	require.NoError(t, err)
	require.NotEmpty(t, result.Items)
	for _, item := range result.Items {
		expected := item.Product.DiscountPercentage()
		assert.Equal(t, expected, item.DiscountPercentage, "product %s", item.ID)
		assert.Equal(t, item.Stock > 0, item.InStock)
	}
}

func TestCatalogService_StoreErrorPropagates(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewCatalogService(mockRepo)

	mockRepo.On("Find", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("store unavailable"))
	mockRepo.On("Count", mock.Anything).
		Return(int64(0), fmt.Errorf("store unavailable"))

	_, err := service.List(catalog.ListRequest{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")
}
