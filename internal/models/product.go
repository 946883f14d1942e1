package models

import (
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ProductImage is a single catalog image. At most one image should carry
// IsMain; when none does, the first image is the display fallback.
type ProductImage struct {
	URL    string `json:"url" validate:"required"`
	Alt    string `json:"alt"`
	IsMain bool   `json:"isMain"`
}

// Product represents a catalog record.
type Product struct {
	ID               string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name             string         `json:"name" validate:"required,min=2,max=200"`
	Slug             string         `json:"slug" gorm:"uniqueIndex;type:varchar(255)"`
	Description      string         `json:"description" validate:"omitempty,max=2000"`
	Price            float64        `json:"price" validate:"gte=0"`
	CompareAtPrice   *float64       `json:"compareAtPrice,omitempty" validate:"omitempty,gte=0"`
	Category         string         `json:"category" validate:"required"`
	Stock            int            `json:"stock" validate:"gte=0"`
	Rating           float64        `json:"rating" validate:"gte=0,lte=5"`
	Tags             []string       `json:"tags" gorm:"serializer:json"`
	Images           []ProductImage `json:"images" gorm:"serializer:json"`
	IsActive         bool           `json:"isActive"`
	IsFeatured       bool           `json:"isFeatured"`
	IsFlashDeal      bool           `json:"isFlashDeal"`
	FlashDealEndDate *time.Time     `json:"flashDealEndDate,omitempty"`
	gorm.Model                      // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// DiscountPercentage derives the display discount from the "was" price.
// It is never stored; recompute it wherever a product is serialized.
func (p *Product) DiscountPercentage() int {
	if p.CompareAtPrice != nil && *p.CompareAtPrice > p.Price {
		return int(math.Round((*p.CompareAtPrice - p.Price) / *p.CompareAtPrice * 100))
	}
	return 0
}

// DiscountRatio is the raw (compareAtPrice - price) / compareAtPrice ratio
// used for discount ordering. Zero when there is no valid "was" price.
func (p *Product) DiscountRatio() float64 {
	if p.CompareAtPrice != nil && *p.CompareAtPrice > 0 {
		return (*p.CompareAtPrice - p.Price) / *p.CompareAtPrice
	}
	return 0
}

// InStock reports whether any stock remains.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// MainImage returns the image flagged as main, falling back to the first
// image when none is flagged. Nil when the product has no images.
func (p *Product) MainImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsMain {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}

// MakeSlug derives a URL-safe slug from a product name: lowercase, runs of
// non-alphanumeric characters collapsed to single dashes, edges trimmed.
func MakeSlug(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
