package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nesquaeke/smartshop/internal/model"
	"github.com/nesquaeke/smartshop/internal/repository"
	"github.com/nesquaeke/smartshop/internal/service"
	"github.com/nesquaeke/smartshop/internal/storage/db"
	"github.com/nesquaeke/smartshop/pkg/ptr"
)

type stubOfferRepo struct {
	existing  *model.Offer
	getErr    error
	upsertErr error

	upserted repository.UpsertOfferParams
}

func (f *stubOfferRepo) WithDB(db.DB) repository.OfferRepository { return f }

func (f *stubOfferRepo) ListInStockOffers(context.Context, uuid.UUID) ([]repository.OfferRow, error) {
	return nil, nil
}

func (f *stubOfferRepo) GetOffer(context.Context, uuid.UUID, uuid.UUID, *uuid.UUID) (model.Offer, error) {
	if f.getErr != nil {
		return model.Offer{}, f.getErr
	}
	if f.existing == nil {
		return model.Offer{}, repository.ErrNotFound
	}
	return *f.existing, nil
}

// UpsertOffer echoes the params back as the stored row, the way the
// database RETURNING clause would.
func (f *stubOfferRepo) UpsertOffer(_ context.Context, params repository.UpsertOfferParams) (model.Offer, error) {
	if f.upsertErr != nil {
		return model.Offer{}, f.upsertErr
	}
	f.upserted = params
	return model.Offer{
		ID:                 uuid.New(),
		ProductID:          params.ProductID,
		StoreID:            params.StoreID,
		LocationID:         params.LocationID,
		Price:              params.Price,
		DiscountPrice:      params.DiscountPrice,
		DiscountPercentage: params.DiscountPercentage,
		IsPromotion:        params.IsPromotion,
		InStock:            params.InStock,
		PromotionEnd:       params.PromotionEnd,
		UpdatedAt:          time.Now(),
	}, nil
}

func TestIngestUpsertOffer(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	storeID := uuid.New()

	baseParams := service.UpsertOfferParams{
		ProductID: productID,
		StoreID:   storeID,
		Price:     3.49,
		InStock:   true,
	}

	t.Run("Should store a first-seen offer without a price drop", func(t *testing.T) {
		repo := &stubOfferRepo{}
		svc := service.NewIngestService(repo)

		offer, drop, err := svc.UpsertOffer(ctx, baseParams)
		require.NoError(t, err)
		assert.Nil(t, drop)
		assert.Equal(t, 3.49, offer.Price)
		assert.Equal(t, productID, repo.upserted.ProductID)
	})

	t.Run("Should detect a list price drop", func(t *testing.T) {
		repo := &stubOfferRepo{existing: &model.Offer{
			ProductID: productID,
			StoreID:   storeID,
			Price:     3.49,
			InStock:   true,
		}}
		svc := service.NewIngestService(repo)

		params := baseParams
		params.Price = 2.99

		_, drop, err := svc.UpsertOffer(ctx, params)
		require.NoError(t, err)

		require.NotNil(t, drop)
		assert.Equal(t, productID, drop.ProductID)
		assert.Equal(t, storeID, drop.StoreID)
		assert.Equal(t, 3.49, drop.OldEffectivePrice)
		assert.Equal(t, 2.99, drop.NewEffectivePrice)
	})

	t.Run("Should detect a drop introduced by a discount", func(t *testing.T) {
		repo := &stubOfferRepo{existing: &model.Offer{
			ProductID: productID,
			StoreID:   storeID,
			Price:     3.49,
			InStock:   true,
		}}
		svc := service.NewIngestService(repo)

		params := baseParams
		params.DiscountPrice = ptr.New(2.99)
		params.IsPromotion = true
		params.PromotionEnd = ptr.New(time.Now().Add(48 * time.Hour))

		_, drop, err := svc.UpsertOffer(ctx, params)
		require.NoError(t, err)

		require.NotNil(t, drop)
		assert.Equal(t, 3.49, drop.OldEffectivePrice)
		assert.Equal(t, 2.99, drop.NewEffectivePrice)
	})

	t.Run("Should not flag an unchanged price", func(t *testing.T) {
		repo := &stubOfferRepo{existing: &model.Offer{
			ProductID: productID,
			StoreID:   storeID,
			Price:     3.49,
			InStock:   true,
		}}
		svc := service.NewIngestService(repo)

		_, drop, err := svc.UpsertOffer(ctx, baseParams)
		require.NoError(t, err)
		assert.Nil(t, drop)
	})

	t.Run("Should not flag a price rise", func(t *testing.T) {
		repo := &stubOfferRepo{existing: &model.Offer{
			ProductID: productID,
			StoreID:   storeID,
			Price:     2.99,
			InStock:   true,
		}}
		svc := service.NewIngestService(repo)

		_, drop, err := svc.UpsertOffer(ctx, baseParams)
		require.NoError(t, err)
		assert.Nil(t, drop)
	})

	t.Run("Should not flag a drop on an out-of-stock offer", func(t *testing.T) {
		repo := &stubOfferRepo{existing: &model.Offer{
			ProductID: productID,
			StoreID:   storeID,
			Price:     3.49,
			InStock:   true,
		}}
		svc := service.NewIngestService(repo)

		params := baseParams
		params.Price = 2.99
		params.InStock = false

		_, drop, err := svc.UpsertOffer(ctx, params)
		require.NoError(t, err)
		assert.Nil(t, drop)
	})

	t.Run("Should propagate lookup failures", func(t *testing.T) {
		lookupErr := errors.New("connection refused")
		svc := service.NewIngestService(&stubOfferRepo{getErr: lookupErr})

		_, _, err := svc.UpsertOffer(ctx, baseParams)
		require.Error(t, err)
		assert.ErrorIs(t, err, lookupErr)
	})

	t.Run("Should propagate upsert failures", func(t *testing.T) {
		upsertErr := errors.New("serialization failure")
		svc := service.NewIngestService(&stubOfferRepo{upsertErr: upsertErr})

		_, _, err := svc.UpsertOffer(ctx, baseParams)
		require.Error(t, err)
		assert.ErrorIs(t, err, upsertErr)
	})
}
