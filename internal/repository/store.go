package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nesquaeke/smartshop/internal/model"
	"github.com/nesquaeke/smartshop/internal/storage/db"
)

type ListStoresParams struct {
	// Type filters by store format when set.
	Type *model.StoreType
}

// StoreLocationRow is a location joined with its owning store's identity.
type StoreLocationRow struct {
	Location  model.StoreLocation
	StoreName string
	StoreType model.StoreType
}

type StoreRepository interface {
	WithDB(db db.DB) StoreRepository
	GetStore(ctx context.Context, id uuid.UUID) (model.Store, error)
	ListStores(ctx context.Context, params ListStoresParams) ([]model.Store, error)
	ListLocations(ctx context.Context, storeID uuid.UUID) ([]model.StoreLocation, error)
	ListAllLocations(ctx context.Context) ([]StoreLocationRow, error)
}

type storeRepository struct {
	db db.DB
}

func NewStoreRepository(db db.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r storeRepository) WithDB(db db.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r storeRepository) GetStore(ctx context.Context, id uuid.UUID) (model.Store, error) {
	var store model.Store
	err := r.db.QueryRow(ctx, `
		SELECT id, name, type, logo_url
		FROM stores
		WHERE id = $1
	`, id).Scan(&store.ID, &store.Name, &store.Type, &store.LogoURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Store{}, fmt.Errorf("store %s: %w", id, ErrNotFound)
		}
		return model.Store{}, fmt.Errorf("get store: %w", err)
	}

	return store, nil
}

func (r storeRepository) ListStores(ctx context.Context, params ListStoresParams) ([]model.Store, error) {
	var storeType *string
	if params.Type != nil {
		t := string(*params.Type)
		storeType = &t
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, name, type, logo_url
		FROM stores
		WHERE (@type::store_type IS NULL OR type = @type)
		ORDER BY name, id
	`, pgx.NamedArgs{"type": storeType})
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	stores := make([]model.Store, 0)
	for rows.Next() {
		var store model.Store
		if err := rows.Scan(&store.ID, &store.Name, &store.Type, &store.LogoURL); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, store)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stores: %w", err)
	}

	return stores, nil
}

func (r storeRepository) ListLocations(ctx context.Context, storeID uuid.UUID) ([]model.StoreLocation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, store_id, latitude, longitude, address, city, postal_code
		FROM store_locations
		WHERE store_id = $1
		ORDER BY city, id
	`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	locations := make([]model.StoreLocation, 0)
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, location)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}

	return locations, nil
}

func (r storeRepository) ListAllLocations(ctx context.Context) ([]StoreLocationRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT l.id, l.store_id, l.latitude, l.longitude, l.address, l.city, l.postal_code,
		       s.name, s.type
		FROM store_locations l
		JOIN stores s ON s.id = l.store_id
		ORDER BY s.name, l.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list all locations: %w", err)
	}
	defer rows.Close()

	results := make([]StoreLocationRow, 0)
	for rows.Next() {
		var row StoreLocationRow
		if err := rows.Scan(
			&row.Location.ID,
			&row.Location.StoreID,
			&row.Location.Latitude,
			&row.Location.Longitude,
			&row.Location.Address,
			&row.Location.City,
			&row.Location.PostalCode,
			&row.StoreName,
			&row.StoreType,
		); err != nil {
			return nil, fmt.Errorf("scan location row: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate location rows: %w", err)
	}

	return results, nil
}

func scanLocation(row pgx.Row) (model.StoreLocation, error) {
	var location model.StoreLocation
	if err := row.Scan(
		&location.ID,
		&location.StoreID,
		&location.Latitude,
		&location.Longitude,
		&location.Address,
		&location.City,
		&location.PostalCode,
	); err != nil {
		return model.StoreLocation{}, err
	}
	return location, nil
}
