package model

import (
	"time"

	"github.com/google/uuid"
)

// Offer is a store's price record for a product, possibly bound to a specific
// location and possibly discounted. Offers are written by the catalog-ingestion
// process and read-only to the comparison engine.
type Offer struct {
	ID                 uuid.UUID  `json:"id"`
	ProductID          uuid.UUID  `json:"product_id"`
	StoreID            uuid.UUID  `json:"store_id"`
	LocationID         *uuid.UUID `json:"location_id,omitempty"`
	Price              float64    `json:"price"`
	DiscountPrice      *float64   `json:"discount_price,omitempty"`
	DiscountPercentage *float64   `json:"discount_percentage,omitempty"`
	IsPromotion        bool       `json:"is_promotion"`
	InStock            bool       `json:"in_stock"`
	PromotionEnd       *time.Time `json:"promotion_end,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// EffectivePrice returns the price actually payable at the given instant:
// the discount price while the promotion is active, the list price otherwise.
// A nil PromotionEnd means the discount does not expire.
func (o Offer) EffectivePrice(now time.Time) float64 {
	if o.DiscountPrice == nil {
		return o.Price
	}
	if o.PromotionEnd != nil && !o.PromotionEnd.After(now) {
		return o.Price
	}
	return *o.DiscountPrice
}
