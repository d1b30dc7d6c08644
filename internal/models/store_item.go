package models

import "github.com/shopspring/decimal"

type StoreCategory string

const (
	CategoryGear        StoreCategory = "gear"
	CategorySkins       StoreCategory = "skins"
	CategoryAccessories StoreCategory = "accessories"
	CategoryMerchandise StoreCategory = "merchandise"
)

func (c StoreCategory) Valid() bool {
	switch c {
	case CategoryGear, CategorySkins, CategoryAccessories, CategoryMerchandise:
		return true
	}
	return false
}

// StoreItem is a cosmetic or merchandise listing in the store.
type StoreItem struct {
	Base
	Name        string          `gorm:"size:255;not null"`
	Description string
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Category    StoreCategory   `gorm:"size:32;not null;index"`
	ImageURL    string          `gorm:"size:512"`
	InStock     bool            `gorm:"not null"`
}
