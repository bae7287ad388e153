package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nesquaeke/smartshop/internal/apperr"
	"github.com/nesquaeke/smartshop/internal/geo"
	"github.com/nesquaeke/smartshop/internal/model"
	"github.com/nesquaeke/smartshop/internal/service"
)

type storesQuery struct {
	Type *model.StoreType `validate:"omitempty,enum"`
}

func (h *handler) listStores(w http.ResponseWriter, r *http.Request) {
	var storeType *model.StoreType
	if raw := r.URL.Query().Get("type"); raw != "" {
		t := model.StoreType(raw)
		storeType = &t
	}

	if err := h.validate.Validate(storesQuery{Type: storeType}); err != nil {
		h.writeError(w, r, err)
		return
	}

	stores, err := h.catalogSvc.ListStores(r.Context(), storeType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, stores)
}

func (h *handler) listStoreLocations(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "storeID"))
	if err != nil {
		h.writeError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

	locations, err := h.catalogSvc.ListStoreLocations(r.Context(), storeID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, locations)
}

type nearbyQuery struct {
	Lat *float64 `validate:"required,latitude"`
	Lon *float64 `validate:"required,longitude"`
}

func (h *handler) nearbyLocations(w http.ResponseWriter, r *http.Request) {
	lat, err := queryFloat(r, "lat")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	lon, err := queryFloat(r, "lon")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if lat == nil || lon == nil {
		h.writeError(w, r, apperr.ValidationErr.WrapParent(errors.New("lat and lon are required")))
		return
	}

	if err := h.validate.Validate(nearbyQuery{Lat: lat, Lon: lon}); err != nil {
		h.writeError(w, r, err)
		return
	}

	radius, err := queryFloat(r, "radius_km")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var radiusKm float64
	if radius != nil {
		radiusKm = *radius
	}

	locations, err := h.catalogSvc.NearbyLocations(r.Context(), service.NearbyLocationsParams{
		UserLocation: geo.Point{Lat: *lat, Lon: *lon},
		RadiusKm:     radiusKm,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, locations)
}
