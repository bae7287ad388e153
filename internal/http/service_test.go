package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nesquaeke/smartshop/internal/apperr"
	"github.com/nesquaeke/smartshop/internal/http/apierr"
	"github.com/nesquaeke/smartshop/internal/model"
	"github.com/nesquaeke/smartshop/internal/service"
	"github.com/nesquaeke/smartshop/pkg/validator"
)

type fakeComparisonService struct {
	comparison model.PriceComparison
	err        error
	params     service.CompareParams
}

func (f *fakeComparisonService) Compare(_ context.Context, params service.CompareParams) (model.PriceComparison, error) {
	f.params = params
	if f.err != nil {
		return model.PriceComparison{}, f.err
	}
	return f.comparison, nil
}

type fakeCatalogService struct {
	products   []model.Product
	product    model.Product
	categories []model.Category
	stores     []model.Store
	locations  []model.StoreLocation
	nearby     []service.NearbyLocation
	err        error

	listParams   service.ListProductsParams
	storeType    *model.StoreType
	nearbyParams service.NearbyLocationsParams
}

func (f *fakeCatalogService) ListProducts(_ context.Context, params service.ListProductsParams) ([]model.Product, error) {
	f.listParams = params
	return f.products, f.err
}

func (f *fakeCatalogService) GetProduct(context.Context, uuid.UUID) (model.Product, error) {
	if f.err != nil {
		return model.Product{}, f.err
	}
	return f.product, nil
}

func (f *fakeCatalogService) ListCategories(context.Context) ([]model.Category, error) {
	return f.categories, f.err
}

func (f *fakeCatalogService) ListStores(_ context.Context, storeType *model.StoreType) ([]model.Store, error) {
	f.storeType = storeType
	return f.stores, f.err
}

func (f *fakeCatalogService) ListStoreLocations(context.Context, uuid.UUID) ([]model.StoreLocation, error) {
	return f.locations, f.err
}

func (f *fakeCatalogService) NearbyLocations(_ context.Context, params service.NearbyLocationsParams) ([]service.NearbyLocation, error) {
	f.nearbyParams = params
	return f.nearby, f.err
}

func newTestRouter(t *testing.T, comparisonSvc service.ComparisonService, catalogSvc service.CatalogService) chi.Router {
	t.Helper()

	validate, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	s := &Service{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		validate:      validate,
		comparisonSvc: comparisonSvc,
		catalogSvc:    catalogSvc,
	}

	r := chi.NewRouter()
	s.RegisterHandlers(r)
	return r
}

func doRequest(r chi.Router, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierr.ErrorResponse {
	t.Helper()

	var res apierr.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}

func TestCompareProductEndpoint(t *testing.T) {
	productID := uuid.New()
	comparison := model.PriceComparison{
		ProductID:   productID,
		ProductName: "Mleko 3.2% 1L",
		Category:    "Nabial",
		Entries: []model.PriceEntry{
			{StoreName: "StoreB", Price: 3.29, EffectivePrice: 3.29, InStock: true},
			{StoreName: "StoreA", Price: 3.49, EffectivePrice: 3.49, InStock: true},
		},
		CheapestPrice:      3.29,
		MostExpensivePrice: 3.49,
		AveragePrice:       3.39,
		PriceSpread:        0.20,
		BestDealStore:      "StoreB",
	}

	t.Run("Should return the comparison", func(t *testing.T) {
		comparisonSvc := &fakeComparisonService{comparison: comparison}
		router := newTestRouter(t, comparisonSvc, &fakeCatalogService{})

		rec := doRequest(router, http.MethodGet, "/api/v1/products/"+productID.String()+"/comparison")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "Mleko 3.2% 1L", got["product_name"])
		assert.Equal(t, 3.29, got["cheapest_price"])
		assert.Equal(t, "StoreB", got["best_deal_store"])
		assert.Len(t, got["prices"], 2)

		assert.Equal(t, productID, comparisonSvc.params.ProductID)
		assert.Nil(t, comparisonSvc.params.UserLocation)
	})

	t.Run("Should forward the user location", func(t *testing.T) {
		comparisonSvc := &fakeComparisonService{comparison: comparison}
		router := newTestRouter(t, comparisonSvc, &fakeCatalogService{})

		rec := doRequest(router, http.MethodGet,
			"/api/v1/products/"+productID.String()+"/comparison?lat=52.2297&lon=21.0122")
		require.Equal(t, http.StatusOK, rec.Code)

		require.NotNil(t, comparisonSvc.params.UserLocation)
		assert.Equal(t, 52.2297, comparisonSvc.params.UserLocation.Lat)
		assert.Equal(t, 21.0122, comparisonSvc.params.UserLocation.Lon)
	})

	t.Run("Should reject a malformed product id", func(t *testing.T) {
		router := newTestRouter(t, &fakeComparisonService{}, &fakeCatalogService{})

		rec := doRequest(router, http.MethodGet, "/api/v1/products/not-a-uuid/comparison")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apperr.ValidationErrorCode, decodeError(t, rec).Code)
	})

	t.Run("Should reject lat without lon", func(t *testing.T) {
		router := newTestRouter(t, &fakeComparisonService{}, &fakeCatalogService{})

		rec := doRequest(router, http.MethodGet,
			"/api/v1/products/"+productID.String()+"/comparison?lat=52.2297")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Should reject an out-of-range latitude", func(t *testing.T) {
		router := newTestRouter(t, &fakeComparisonService{}, &fakeCatalogService{})

		rec := doRequest(router, http.MethodGet,
			"/api/v1/products/"+productID.String()+"/comparison?lat=95&lon=21.0122")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		res := decodeError(t, rec)
		require.NotNil(t, res.Details)
		assert.Equal(t, "Lat", (*res.Details)[0].Field)
	})

	t.Run("Should reject a non-numeric coordinate", func(t *testing.T) {
		router := newTestRouter(t, &fakeComparisonService{}, &fakeCatalogService{})

		rec := doRequest(router, http.MethodGet,
			"/api/v1/products/"+productID.String()+"/comparison?lat=abc&lon=21.0122")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Should map product not found to 404", func(t *testing.T) {
		router := newTestRouter(t, &fakeComparisonService{err: apperr.ProductNotFoundErr}, &fakeCatalogService{})

		rec := doRequest(router, http.MethodGet, "/api/v1/products/"+productID.String()+"/comparison")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apperr.ProductNotFoundErrorCode, decodeError(t, rec).Code)
	})

	t.Run("Should map a missing comparison to 404", func(t *testing.T) {
		router := newTestRouter(t, &fakeComparisonService{err: apperr.ComparisonNotAvailableErr}, &fakeCatalogService{})

		rec := doRequest(router, http.MethodGet, "/api/v1/products/"+productID.String()+"/comparison")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apperr.ComparisonNotAvailableErrorCode, decodeError(t, rec).Code)
	})

	t.Run("Should hide unexpected failures behind 500", func(t *testing.T) {
		router := newTestRouter(t, &fakeComparisonService{err: assert.AnError}, &fakeCatalogService{})

		rec := doRequest(router, http.MethodGet, "/api/v1/products/"+productID.String()+"/comparison")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internalServerError", decodeError(t, rec).Code)
	})
}

func TestProductEndpoints(t *testing.T) {
	t.Run("Should list products with filters", func(t *testing.T) {
		catalogSvc := &fakeCatalogService{products: []model.Product{
			{ID: uuid.New(), Name: "Mleko 3.2% 1L"},
		}}
		router := newTestRouter(t, &fakeComparisonService{}, catalogSvc)

		rec := doRequest(router, http.MethodGet, "/api/v1/products?category=nabial&search=mleko&page=2&page_size=10")
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, "nabial", catalogSvc.listParams.CategorySlug)
		assert.Equal(t, "mleko", catalogSvc.listParams.Search)
		assert.Equal(t, 2, catalogSvc.listParams.Page)
		assert.Equal(t, 10, catalogSvc.listParams.PageSize)

		var products []model.Product
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&products))
		assert.Len(t, products, 1)
	})

	t.Run("Should reject a non-numeric page size", func(t *testing.T) {
		router := newTestRouter(t, &fakeComparisonService{}, &fakeCatalogService{})

		rec := doRequest(router, http.MethodGet, "/api/v1/products?page_size=ten")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Should get a product by id", func(t *testing.T) {
		product := model.Product{ID: uuid.New(), Name: "Mleko 3.2% 1L"}
		router := newTestRouter(t, &fakeComparisonService{}, &fakeCatalogService{product: product})

		rec := doRequest(router, http.MethodGet, "/api/v1/products/"+product.ID.String())
		require.Equal(t, http.StatusOK, rec.Code)

		var got model.Product
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, product.ID, got.ID)
	})

	t.Run("Should map product not found to 404", func(t *testing.T) {
		router := newTestRouter(t, &fakeComparisonService{}, &fakeCatalogService{err: apperr.ProductNotFoundErr})

		rec := doRequest(router, http.MethodGet, "/api/v1/products/"+uuid.NewString())
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Should list categories", func(t *testing.T) {
		router := newTestRouter(t, &fakeComparisonService{}, &fakeCatalogService{categories: []model.Category{
			{ID: uuid.New(), Name: "Nabial", Slug: "nabial"},
		}})

		rec := doRequest(router, http.MethodGet, "/api/v1/categories")
		require.Equal(t, http.StatusOK, rec.Code)

		var categories []model.Category
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&categories))
		require.Len(t, categories, 1)
		assert.Equal(t, "nabial", categories[0].Slug)
	})
}

func TestStoreEndpoints(t *testing.T) {
	t.Run("Should list stores filtered by type", func(t *testing.T) {
		catalogSvc := &fakeCatalogService{stores: []model.Store{
			{ID: uuid.New(), Name: "Biedronka", Type: model.StoreTypeDiscount},
		}}
		router := newTestRouter(t, &fakeComparisonService{}, catalogSvc)

		rec := doRequest(router, http.MethodGet, "/api/v1/stores?type=discount")
		require.Equal(t, http.StatusOK, rec.Code)

		require.NotNil(t, catalogSvc.storeType)
		assert.Equal(t, model.StoreTypeDiscount, *catalogSvc.storeType)
	})

	t.Run("Should list all stores without a type filter", func(t *testing.T) {
		catalogSvc := &fakeCatalogService{}
		router := newTestRouter(t, &fakeComparisonService{}, catalogSvc)

		rec := doRequest(router, http.MethodGet, "/api/v1/stores")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, catalogSvc.storeType)
	})

	t.Run("Should reject an unknown store type", func(t *testing.T) {
		router := newTestRouter(t, &fakeComparisonService{}, &fakeCatalogService{})

		rec := doRequest(router, http.MethodGet, "/api/v1/stores?type=kiosk")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		res := decodeError(t, rec)
		assert.Equal(t, "validationError", res.Code)
		require.NotNil(t, res.Details)
		assert.Equal(t, "Type", (*res.Details)[0].Field)
	})

	t.Run("Should reject a malformed store id", func(t *testing.T) {
		router := newTestRouter(t, &fakeComparisonService{}, &fakeCatalogService{})

		rec := doRequest(router, http.MethodGet, "/api/v1/stores/not-a-uuid/locations")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Should map store not found to 404", func(t *testing.T) {
		router := newTestRouter(t, &fakeComparisonService{}, &fakeCatalogService{err: apperr.StoreNotFoundErr})

		rec := doRequest(router, http.MethodGet, "/api/v1/stores/"+uuid.NewString()+"/locations")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apperr.StoreNotFoundErrorCode, decodeError(t, rec).Code)
	})
}

func TestNearbyLocationsEndpoint(t *testing.T) {
	t.Run("Should return nearby branches", func(t *testing.T) {
		catalogSvc := &fakeCatalogService{nearby: []service.NearbyLocation{
			{StoreName: "Biedronka", StoreType: model.StoreTypeDiscount, DistanceKm: 1.112},
		}}
		router := newTestRouter(t, &fakeComparisonService{}, catalogSvc)

		rec := doRequest(router, http.MethodGet, "/api/v1/stores/locations/nearby?lat=52.2297&lon=21.0122&radius_km=5")
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, 52.2297, catalogSvc.nearbyParams.UserLocation.Lat)
		assert.Equal(t, 5.0, catalogSvc.nearbyParams.RadiusKm)

		var nearby []service.NearbyLocation
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&nearby))
		require.Len(t, nearby, 1)
		assert.Equal(t, "Biedronka", nearby[0].StoreName)
	})

	t.Run("Should require both coordinates", func(t *testing.T) {
		router := newTestRouter(t, &fakeComparisonService{}, &fakeCatalogService{})

		rec := doRequest(router, http.MethodGet, "/api/v1/stores/locations/nearby?lat=52.2297")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doRequest(router, http.MethodGet, "/api/v1/stores/locations/nearby")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Should reject an out-of-range longitude", func(t *testing.T) {
		router := newTestRouter(t, &fakeComparisonService{}, &fakeCatalogService{})

		rec := doRequest(router, http.MethodGet, "/api/v1/stores/locations/nearby?lat=52.2297&lon=190")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Should default the radius when absent", func(t *testing.T) {
		catalogSvc := &fakeCatalogService{}
		router := newTestRouter(t, &fakeComparisonService{}, catalogSvc)

		rec := doRequest(router, http.MethodGet, "/api/v1/stores/locations/nearby?lat=52.2297&lon=21.0122")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, catalogSvc.nearbyParams.RadiusKm)
	})
}
