package model

import (
	"time"

	"github.com/google/uuid"
)

// PriceEntry is one store's row in a price comparison.
type PriceEntry struct {
	StoreID            uuid.UUID  `json:"store_id"`
	StoreName          string     `json:"store_name"`
	StoreType          StoreType  `json:"store_type"`
	Price              float64    `json:"price"`
	DiscountPrice      *float64   `json:"discount_price,omitempty"`
	DiscountPercentage *float64   `json:"discount_percentage,omitempty"`
	IsPromotion        bool       `json:"is_promotion"`
	PromotionEnd       *time.Time `json:"promotion_end,omitempty"`
	EffectivePrice     float64    `json:"effective_price"`
	InStock            bool       `json:"in_stock"`
	DistanceKm         *float64   `json:"distance_km,omitempty"`
}

// PriceComparison is the derived comparison result. It is never persisted.
// Field names and the 2-decimal rounding of AveragePrice are part of the wire
// contract the front end depends on.
type PriceComparison struct {
	ProductID          uuid.UUID    `json:"product_id"`
	ProductName        string       `json:"product_name"`
	ImageURL           string       `json:"image_url"`
	Category           string       `json:"category"`
	Entries            []PriceEntry `json:"prices"`
	CheapestPrice      float64      `json:"cheapest_price"`
	MostExpensivePrice float64      `json:"most_expensive_price"`
	AveragePrice       float64      `json:"average_price"`
	PriceSpread        float64      `json:"price_spread"`
	BestDealStore      string       `json:"best_deal_store"`
}
