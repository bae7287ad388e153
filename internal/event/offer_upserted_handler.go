package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nesquaeke/smartshop/internal/service"
	"github.com/nesquaeke/smartshop/internal/storage/mq"
)

func (s *Service) handleOfferUpsertedEvent(ctx context.Context, ev OfferUpsertedEvent) error {
	if err := s.validate.Validate(ev); err != nil {
		return fmt.Errorf("validate offer upserted event: %w", err)
	}

	offer, drop, err := s.ingestSvc.UpsertOffer(ctx, service.UpsertOfferParams{
		ProductID:          ev.ProductID,
		StoreID:            ev.StoreID,
		LocationID:         ev.LocationID,
		Price:              ev.Price,
		DiscountPrice:      ev.DiscountPrice,
		DiscountPercentage: ev.DiscountPercentage,
		IsPromotion:        ev.IsPromotion,
		InStock:            ev.InStock,
		PromotionEnd:       ev.PromotionEnd,
	})
	if err != nil {
		return fmt.Errorf("ingest service upsert offer: %w", err)
	}

	s.logger.InfoContext(ctx, "offer upserted",
		slog.String("offer_id", offer.ID.String()),
		slog.String("product_id", offer.ProductID.String()),
		slog.String("store_id", offer.StoreID.String()),
	)

	if drop == nil {
		return nil
	}

	dropEv := PriceDroppedEvent{
		ProductID:         drop.ProductID,
		StoreID:           drop.StoreID,
		OldEffectivePrice: drop.OldEffectivePrice,
		NewEffectivePrice: drop.NewEffectivePrice,
		DroppedAt:         time.Now(),
	}
	payload, err := json.Marshal(dropEv)
	if err != nil {
		return fmt.Errorf("marshal price dropped event: %w", err)
	}

	partitionKey := drop.ProductID.String()
	if err := s.mqProducer.Produce(ctx, mq.ProduceMsg{
		Topic:        TopicPriceDropped,
		Headers:      mq.BuildHeaders(ctx),
		Payload:      payload,
		PartitionKey: &partitionKey,
	}); err != nil {
		return fmt.Errorf("produce price dropped event: %w", err)
	}

	return nil
}
