package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nesquaeke/smartshop/internal/model"
	"github.com/nesquaeke/smartshop/internal/storage/db"
	"github.com/nesquaeke/smartshop/pkg/ptr"
)

// OfferRow is an in-stock offer joined with its owning store's identity and,
// when the offer is bound to a branch, that branch's location.
type OfferRow struct {
	Offer     model.Offer
	StoreName string
	StoreType model.StoreType
	Location  *model.StoreLocation
}

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

type OfferRepository interface {
	WithDB(db db.DB) OfferRepository
	ListInStockOffers(ctx context.Context, productID uuid.UUID) ([]OfferRow, error)
	GetOffer(ctx context.Context, productID, storeID uuid.UUID, locationID *uuid.UUID) (model.Offer, error)
	UpsertOffer(ctx context.Context, params UpsertOfferParams) (model.Offer, error)
}

type offerRepository struct {
	db db.DB
}

func NewOfferRepository(db db.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r offerRepository) WithDB(db db.DB) OfferRepository {
	return &offerRepository{db: db}
}

// ListInStockOffers returns every in-stock offer for the product. Rows are
// ordered by store name then store id so that equal-price ties stay
// deterministic through the engine's stable sort.
func (r offerRepository) ListInStockOffers(ctx context.Context, productID uuid.UUID) ([]OfferRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.product_id, o.store_id, o.location_id,
		       o.price, o.discount_price, o.discount_percentage,
		       o.is_promotion, o.in_stock, o.promotion_end, o.updated_at,
		       s.name, s.type,
		       l.latitude, l.longitude, l.address, l.city, l.postal_code
		FROM store_offers o
		JOIN stores s ON s.id = o.store_id
		LEFT JOIN store_locations l ON l.id = o.location_id
		WHERE o.product_id = $1
		  AND o.in_stock
		ORDER BY s.name, s.id
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("list in stock offers: %w", err)
	}
	defer rows.Close()

	results := make([]OfferRow, 0)
	for rows.Next() {
		var (
			row        OfferRow
			latitude   *float64
			longitude  *float64
			address    *string
			city       *string
			postalCode *string
		)
		if err := rows.Scan(
			&row.Offer.ID,
			&row.Offer.ProductID,
			&row.Offer.StoreID,
			&row.Offer.LocationID,
			&row.Offer.Price,
			&row.Offer.DiscountPrice,
			&row.Offer.DiscountPercentage,
			&row.Offer.IsPromotion,
			&row.Offer.InStock,
			&row.Offer.PromotionEnd,
			&row.Offer.UpdatedAt,
			&row.StoreName,
			&row.StoreType,
			&latitude,
			&longitude,
			&address,
			&city,
			&postalCode,
		); err != nil {
			return nil, fmt.Errorf("scan offer row: %w", err)
		}

		if row.Offer.LocationID != nil && latitude != nil && longitude != nil {
			row.Location = &model.StoreLocation{
				ID:         *row.Offer.LocationID,
				StoreID:    row.Offer.StoreID,
				Latitude:   *latitude,
				Longitude:  *longitude,
				Address:    ptr.Deref(address),
				City:       ptr.Deref(city),
				PostalCode: ptr.Deref(postalCode),
			}
		}

		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offer rows: %w", err)
	}

	return results, nil
}

func (r offerRepository) GetOffer(ctx context.Context, productID, storeID uuid.UUID, locationID *uuid.UUID) (model.Offer, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, product_id, store_id, location_id,
		       price, discount_price, discount_percentage,
		       is_promotion, in_stock, promotion_end, updated_at
		FROM store_offers
		WHERE product_id = @product_id
		  AND store_id = @store_id
		  AND location_id IS NOT DISTINCT FROM @location_id
	`, pgx.NamedArgs{
		"product_id":  productID,
		"store_id":    storeID,
		"location_id": locationID,
	})

	offer, err := scanOffer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Offer{}, fmt.Errorf("offer for product %s at store %s: %w", productID, storeID, ErrNotFound)
		}
		return model.Offer{}, fmt.Errorf("get offer: %w", err)
	}

	return offer, nil
}

func (r offerRepository) UpsertOffer(ctx context.Context, params UpsertOfferParams) (model.Offer, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.Offer{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	price, err := toNumeric(params.Price)
	if err != nil {
		return model.Offer{}, fmt.Errorf("convert price: %w", err)
	}

	var discountPrice *pgtype.Numeric
	if params.DiscountPrice != nil {
		n, err := toNumeric(*params.DiscountPrice)
		if err != nil {
			return model.Offer{}, fmt.Errorf("convert discount price: %w", err)
		}
		discountPrice = &n
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO store_offers (
			id, product_id, store_id, location_id,
			price, discount_price, discount_percentage,
			is_promotion, in_stock, promotion_end, updated_at
		)
		VALUES (
			@id, @product_id, @store_id, @location_id,
			@price, @discount_price, @discount_percentage,
			@is_promotion, @in_stock, @promotion_end, @updated_at
		)
		ON CONFLICT (product_id, store_id, COALESCE(location_id, '00000000-0000-0000-0000-000000000000'))
		DO UPDATE SET
			price               = EXCLUDED.price,
			discount_price      = EXCLUDED.discount_price,
			discount_percentage = EXCLUDED.discount_percentage,
			is_promotion        = EXCLUDED.is_promotion,
			in_stock            = EXCLUDED.in_stock,
			promotion_end       = EXCLUDED.promotion_end,
			updated_at          = EXCLUDED.updated_at
		RETURNING id, product_id, store_id, location_id,
		          price, discount_price, discount_percentage,
		          is_promotion, in_stock, promotion_end, updated_at
	`, pgx.NamedArgs{
		"id":                  id,
		"product_id":          params.ProductID,
		"store_id":            params.StoreID,
		"location_id":         params.LocationID,
		"price":               price,
		"discount_price":      discountPrice,
		"discount_percentage": params.DiscountPercentage,
		"is_promotion":        params.IsPromotion,
		"in_stock":            params.InStock,
		"promotion_end":       params.PromotionEnd,
		"updated_at":          time.Now(),
	})

	offer, err := scanOffer(row)
	if err != nil {
		return model.Offer{}, fmt.Errorf("upsert offer: %w", err)
	}

	return offer, nil
}

func scanOffer(row pgx.Row) (model.Offer, error) {
	var offer model.Offer
	if err := row.Scan(
		&offer.ID,
		&offer.ProductID,
		&offer.StoreID,
		&offer.LocationID,
		&offer.Price,
		&offer.DiscountPrice,
		&offer.DiscountPercentage,
		&offer.IsPromotion,
		&offer.InStock,
		&offer.PromotionEnd,
		&offer.UpdatedAt,
	); err != nil {
		return model.Offer{}, err
	}
	return offer, nil
}

func toNumeric(v float64) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(fmt.Sprintf("%.2f", v)); err != nil {
		return pgtype.Numeric{}, err
	}
	return n, nil
}
