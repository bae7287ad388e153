package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/nesquaeke/smartshop/internal/apperr"
	"github.com/nesquaeke/smartshop/internal/config"
	"github.com/nesquaeke/smartshop/internal/geo"
	"github.com/nesquaeke/smartshop/internal/model"
	"github.com/nesquaeke/smartshop/internal/repository"
)

type ListProductsParams struct {
	CategorySlug string
	Search       string
	Page         int
	PageSize     int
}

type NearbyLocationsParams struct {
	UserLocation geo.Point
	// RadiusKm limits results to locations within this distance. Zero or
	// negative falls back to the configured default.
	RadiusKm float64
}

// NearbyLocation is a store branch ranked by distance from the user.
type NearbyLocation struct {
	Location   model.StoreLocation `json:"location"`
	StoreName  string              `json:"store_name"`
	StoreType  model.StoreType     `json:"store_type"`
	DistanceKm float64             `json:"distance_km"`
}

// CatalogService serves the plain catalog lookups surrounding the comparison
// engine: products, categories, stores and branch proximity search.
type CatalogService interface {
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListStores(ctx context.Context, storeType *model.StoreType) ([]model.Store, error)
	ListStoreLocations(ctx context.Context, storeID uuid.UUID) ([]model.StoreLocation, error)
	NearbyLocations(ctx context.Context, params NearbyLocationsParams) ([]NearbyLocation, error)
}

type catalogService struct {
	cfg         config.Catalog
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
}

func NewCatalogService(
	cfg config.Catalog,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
) CatalogService {
	return &catalogService{
		cfg:         cfg,
		productRepo: productRepo,
		storeRepo:   storeRepo,
	}
}

func (s *catalogService) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}

	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = s.cfg.DefaultPageSize
	}
	if pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.MaxPageSize
	}

	products, err := s.productRepo.ListProducts(ctx, repository.ListProductsParams{
		CategorySlug: params.CategorySlug,
		Search:       params.Search,
		Limit:        int32(pageSize),
		Offset:       int32((page - 1) * pageSize),
	})
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	return product, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.productRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("product repository list categories: %w", err)
	}

	return categories, nil
}

func (s *catalogService) ListStores(ctx context.Context, storeType *model.StoreType) ([]model.Store, error) {
	stores, err := s.storeRepo.ListStores(ctx, repository.ListStoresParams{Type: storeType})
	if err != nil {
		return nil, fmt.Errorf("store repository list stores: %w", err)
	}

	return stores, nil
}

func (s *catalogService) ListStoreLocations(ctx context.Context, storeID uuid.UUID) ([]model.StoreLocation, error) {
	if _, err := s.storeRepo.GetStore(ctx, storeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.StoreNotFoundErr.WrapParent(err)
		}
		return nil, fmt.Errorf("store repository get store: %w", err)
	}

	locations, err := s.storeRepo.ListLocations(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("store repository list locations: %w", err)
	}

	return locations, nil
}

func (s *catalogService) NearbyLocations(ctx context.Context, params NearbyLocationsParams) ([]NearbyLocation, error) {
	radius := params.RadiusKm
	if radius <= 0 {
		radius = s.cfg.DefaultRadiusKm
	}

	rows, err := s.storeRepo.ListAllLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("store repository list all locations: %w", err)
	}

	nearby := make([]NearbyLocation, 0, len(rows))
	for _, row := range rows {
		distance := geo.Distance(params.UserLocation, geo.Point{
			Lat: row.Location.Latitude,
			Lon: row.Location.Longitude,
		})
		if distance > radius {
			continue
		}

		nearby = append(nearby, NearbyLocation{
			Location:   row.Location,
			StoreName:  row.StoreName,
			StoreType:  row.StoreType,
			DistanceKm: distance,
		})
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	if len(nearby) > s.cfg.MaxNearbyLocations {
		nearby = nearby[:s.cfg.MaxNearbyLocations]
	}

	return nearby, nil
}
