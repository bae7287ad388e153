package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nesquaeke/smartshop/internal/model"
	"github.com/nesquaeke/smartshop/internal/repository"
)

type UpsertOfferParams struct {
	ProductID          uuid.UUID
	StoreID            uuid.UUID
	LocationID         *uuid.UUID
	Price              float64
	DiscountPrice      *float64
	DiscountPercentage *float64
	IsPromotion        bool
	InStock            bool
	PromotionEnd       *time.Time
}

// PriceDrop reports that an upsert lowered a store's effective price for a
// product. Nil when the price stayed flat or rose.
type PriceDrop struct {
	ProductID         uuid.UUID
	StoreID           uuid.UUID
	OldEffectivePrice float64
	NewEffectivePrice float64
}

// IngestService applies offer updates arriving from the external
// catalog-ingestion feed.
type IngestService interface {
	UpsertOffer(ctx context.Context, params UpsertOfferParams) (model.Offer, *PriceDrop, error)
}

type ingestService struct {
	offerRepo repository.OfferRepository
	now       func() time.Time
}

func NewIngestService(offerRepo repository.OfferRepository) IngestService {
	return &ingestService{
		offerRepo: offerRepo,
		now:       time.Now,
	}
}

func (s *ingestService) UpsertOffer(ctx context.Context, params UpsertOfferParams) (model.Offer, *PriceDrop, error) {
	var previous *model.Offer
	existing, err := s.offerRepo.GetOffer(ctx, params.ProductID, params.StoreID, params.LocationID)
	switch {
	case err == nil:
		previous = &existing
	case errors.Is(err, repository.ErrNotFound):
		// first sighting of this offer
	default:
		return model.Offer{}, nil, fmt.Errorf("offer repository get offer: %w", err)
	}

	offer, err := s.offerRepo.UpsertOffer(ctx, repository.UpsertOfferParams{
		ProductID:          params.ProductID,
		StoreID:            params.StoreID,
		LocationID:         params.LocationID,
		Price:              params.Price,
		DiscountPrice:      params.DiscountPrice,
		DiscountPercentage: params.DiscountPercentage,
		IsPromotion:        params.IsPromotion,
		InStock:            params.InStock,
		PromotionEnd:       params.PromotionEnd,
	})
	if err != nil {
		return model.Offer{}, nil, fmt.Errorf("offer repository upsert offer: %w", err)
	}

	var drop *PriceDrop
	if previous != nil && offer.InStock {
		now := s.now()
		oldPrice := previous.EffectivePrice(now)
		newPrice := offer.EffectivePrice(now)
		if newPrice < oldPrice {
			drop = &PriceDrop{
				ProductID:         offer.ProductID,
				StoreID:           offer.StoreID,
				OldEffectivePrice: oldPrice,
				NewEffectivePrice: newPrice,
			}
		}
	}

	return offer, drop, nil
}
