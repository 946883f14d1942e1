package models_test

import (
	"testing"

	"isoko/internal/models"

	"github.com/stretchr/testify/assert"
)

func was(v float64) *float64 { return &v }

func TestProduct_DiscountPercentage(t *testing.T) {
	testCases := []struct {
		name     string
		price    float64
		compare  *float64
		expected int
	}{
		{"no compare price", 100, nil, 0},
		{"compare below price", 100, was(80), 0},
		{"compare equals price", 100, was(100), 0},
		{"half off", 50, was(100), 50},
		{"third off rounds", 100, was(150), 33},
		{"rounds up", 199, was(300), 34}, // 33.67% rounds to 34
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := models.Product{Price: tc.price, CompareAtPrice: tc.compare}
			assert.Equal(t, tc.expected, p.DiscountPercentage())
			// Pure function: recomputing yields the same result.
			assert.Equal(t, tc.expected, p.DiscountPercentage())
		})
	}
}

func TestProduct_DiscountRatio(t *testing.T) {
	p := models.Product{Price: 75, CompareAtPrice: was(100)}
	assert.InDelta(t, 0.25, p.DiscountRatio(), 1e-9)

	noDeal := models.Product{Price: 75}
	assert.Equal(t, 0.0, noDeal.DiscountRatio())

	zeroCompare := models.Product{Price: 75, CompareAtPrice: was(0)}
	assert.Equal(t, 0.0, zeroCompare.DiscountRatio())
}

func TestProduct_InStock(t *testing.T) {
	assert.True(t, (&models.Product{Stock: 1}).InStock())
	assert.False(t, (&models.Product{Stock: 0}).InStock())
}

func TestProduct_MainImage(t *testing.T) {
	// The flagged image wins even when it is not first.
	p := models.Product{Images: []models.ProductImage{
		{URL: "a.jpg"},
		{URL: "b.jpg", IsMain: true},
	}}
	img := p.MainImage()
	assert.NotNil(t, img)
	assert.Equal(t, "b.jpg", img.URL)

	// No flagged image: first is the display fallback.
	p = models.Product{Images: []models.ProductImage{
		{URL: "a.jpg"},
		{URL: "b.jpg"},
	}}
	img = p.MainImage()
	assert.NotNil(t, img)
	assert.Equal(t, "a.jpg", img.URL)

	// No images at all.
	p = models.Product{}
	assert.Nil(t, p.MainImage())
}

func TestMakeSlug(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"Wireless Headphones", "wireless-headphones"},
		{"  Solar Lamp!  ", "solar-lamp"},
		{"Café & Thé 2000", "caf-th-2000"},
		{"---", ""},
		{"already-slugged", "already-slugged"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, models.MakeSlug(tc.name), "slug of %q", tc.name)
		// Slugging a slug changes nothing.
		assert.Equal(t, tc.expected, models.MakeSlug(models.MakeSlug(tc.name)))
	}
}
