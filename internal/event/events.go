package event

import (
	"time"

	"github.com/google/uuid"
)

const (
	// TopicOfferUpserted carries offer rows pushed by the external
	// catalog-ingestion feed.
	TopicOfferUpserted = "offer.upserted"

	// TopicPriceDropped is published when an upsert lowers a store's
	// effective price for a product.
	TopicPriceDropped = "price.dropped"
)

type OfferUpsertedEvent struct {
	ProductID          uuid.UUID  `json:"product_id" validate:"required"`
	StoreID            uuid.UUID  `json:"store_id" validate:"required"`
	LocationID         *uuid.UUID `json:"location_id,omitempty"`
	Price              float64    `json:"price" validate:"required,gt=0"`
	DiscountPrice      *float64   `json:"discount_price,omitempty" validate:"omitempty,gt=0,ltfield=Price"`
	DiscountPercentage *float64   `json:"discount_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	IsPromotion        bool       `json:"is_promotion"`
	InStock            bool       `json:"in_stock"`
	PromotionEnd       *time.Time `json:"promotion_end,omitempty"`
}

type PriceDroppedEvent struct {
	ProductID         uuid.UUID `json:"product_id"`
	StoreID           uuid.UUID `json:"store_id"`
	OldEffectivePrice float64   `json:"old_effective_price"`
	NewEffectivePrice float64   `json:"new_effective_price"`
	DroppedAt         time.Time `json:"dropped_at"`
}
