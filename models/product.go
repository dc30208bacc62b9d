package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product categories form a fixed enum; anything else is rejected at
// validation time.
const (
	CategoryMens     = "mens"
	CategoryWomens   = "womens"
	CategoryUnisex   = "unisex"
	CategoryGiftSets = "gift_sets"
)

var ProductCategories = []string{CategoryMens, CategoryWomens, CategoryUnisex, CategoryGiftSets}

func ValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Product struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Name           string          `json:"name" validate:"required,max=255"`
	Price          decimal.Decimal `gorm:"type:decimal(8,2)" json:"price"`
	Category       string          `json:"category" validate:"required"`
	Description    string          `gorm:"type:text" json:"description" validate:"max=1000"`
	Brand          string          `json:"brand"`
	Size           string          `json:"size"`
	ImageURL       string          `json:"image_url"`
	GalleryImages  datatypes.JSON  `json:"gallery_images"`
	FragranceNotes datatypes.JSON  `json:"fragrance_notes"`
	StockQuantity  int             `gorm:"default:0" json:"stock_quantity" validate:"min=0"`
	IsFeatured     bool            `gorm:"default:false" json:"is_featured"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Aggregates filled in by listing queries, never stored.
	AverageRating float64 `gorm:"->;-:migration" json:"average_rating"`
	ReviewCount   int64   `gorm:"->;-:migration" json:"review_count"`

	Reviews   []Review   `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`
	Wishlists []Wishlist `gorm:"foreignKey:ProductID" json:"-"`
}
