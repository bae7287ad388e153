package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nesquaeke/smartshop/internal/apperr"
	"github.com/nesquaeke/smartshop/internal/geo"
	"github.com/nesquaeke/smartshop/internal/model"
	"github.com/nesquaeke/smartshop/internal/repository"
)

type CompareParams struct {
	ProductID uuid.UUID

	// UserLocation, when set, ranks entries by distance from the user.
	// Coordinates are validated by the request layer.
	UserLocation *geo.Point
}

// ComparisonService aggregates a product's in-stock offers across stores into
// a ranked comparison with summary statistics. It is stateless and safe to
// call concurrently.
type ComparisonService interface {
	Compare(ctx context.Context, params CompareParams) (model.PriceComparison, error)
}

type comparisonService struct {
	productRepo repository.ProductRepository
	offerRepo   repository.OfferRepository
	now         func() time.Time
}

func NewComparisonService(
	productRepo repository.ProductRepository,
	offerRepo repository.OfferRepository,
) ComparisonService {
	return &comparisonService{
		productRepo: productRepo,
		offerRepo:   offerRepo,
		now:         time.Now,
	}
}

func (s *comparisonService) Compare(ctx context.Context, params CompareParams) (model.PriceComparison, error) {
	product, err := s.productRepo.GetProduct(ctx, params.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PriceComparison{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.PriceComparison{}, apperr.RetrievalFailedErr.WrapParent(fmt.Errorf("product repository get product: %w", err))
	}

	offerRows, err := s.offerRepo.ListInStockOffers(ctx, params.ProductID)
	if err != nil {
		return model.PriceComparison{}, apperr.RetrievalFailedErr.WrapParent(fmt.Errorf("offer repository list in stock offers: %w", err))
	}

	// A product with nothing in stock has no comparison, not a zero-valued one.
	if len(offerRows) == 0 {
		return model.PriceComparison{}, apperr.ComparisonNotAvailableErr
	}

	now := s.now()
	entries := make([]model.PriceEntry, 0, len(offerRows))
	for _, row := range offerRows {
		entry := model.PriceEntry{
			StoreID:            row.Offer.StoreID,
			StoreName:          row.StoreName,
			StoreType:          row.StoreType,
			Price:              row.Offer.Price,
			DiscountPrice:      row.Offer.DiscountPrice,
			DiscountPercentage: row.Offer.DiscountPercentage,
			IsPromotion:        row.Offer.IsPromotion,
			PromotionEnd:       row.Offer.PromotionEnd,
			EffectivePrice:     row.Offer.EffectivePrice(now),
			InStock:            row.Offer.InStock,
		}

		if params.UserLocation != nil && row.Location != nil {
			distance := geo.Distance(*params.UserLocation, geo.Point{
				Lat: row.Location.Latitude,
				Lon: row.Location.Longitude,
			})
			entry.DistanceKm = &distance
		}

		entries = append(entries, entry)
	}

	sortEntries(entries, params.UserLocation != nil)

	comparison := model.PriceComparison{
		ProductID:   product.ID,
		ProductName: product.Name,
		ImageURL:    product.ImageURL,
		Category:    product.Category,
		Entries:     entries,
	}
	fillAggregates(&comparison)

	return comparison, nil
}

// sortEntries orders entries by effective price ascending. When the caller
// supplied a location, distance ascending is the primary key and entries
// without a known distance sort after all located ones. The sort is stable,
// so equal keys keep the repository's store-name ordering.
func sortEntries(entries []model.PriceEntry, byDistance bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]

		if byDistance {
			switch {
			case a.DistanceKm != nil && b.DistanceKm == nil:
				return true
			case a.DistanceKm == nil && b.DistanceKm != nil:
				return false
			case a.DistanceKm != nil && b.DistanceKm != nil && *a.DistanceKm != *b.DistanceKm:
				return *a.DistanceKm < *b.DistanceKm
			}
		}

		return a.EffectivePrice < b.EffectivePrice
	})
}

// fillAggregates computes the four summary statistics over the entries'
// effective prices and names the best-deal store. Entries must be non-empty
// and already sorted.
func fillAggregates(c *model.PriceComparison) {
	cheapest := c.Entries[0].EffectivePrice
	mostExpensive := cheapest
	sum := 0.0

	for _, entry := range c.Entries {
		price := entry.EffectivePrice
		cheapest = math.Min(cheapest, price)
		mostExpensive = math.Max(mostExpensive, price)
		sum += price
	}

	c.CheapestPrice = cheapest
	c.MostExpensivePrice = mostExpensive
	c.AveragePrice = round2(sum / float64(len(c.Entries)))
	c.PriceSpread = round2(mostExpensive - cheapest)

	for _, entry := range c.Entries {
		if entry.EffectivePrice == cheapest {
			c.BestDealStore = entry.StoreName
			break
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
