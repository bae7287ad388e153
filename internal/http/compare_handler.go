package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nesquaeke/smartshop/internal/apperr"
	"github.com/nesquaeke/smartshop/internal/geo"
	"github.com/nesquaeke/smartshop/internal/service"
)

type compareQuery struct {
	Lat *float64 `validate:"omitempty,latitude"`
	Lon *float64 `validate:"omitempty,longitude"`
}

func (h *handler) compareProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		h.writeError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

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

	// lat and lon come as a pair or not at all.
	if (lat == nil) != (lon == nil) {
		h.writeError(w, r, apperr.ValidationErr.WrapParent(errors.New("lat and lon must be provided together")))
		return
	}

	if err := h.validate.Validate(compareQuery{Lat: lat, Lon: lon}); err != nil {
		h.writeError(w, r, err)
		return
	}

	var userLocation *geo.Point
	if lat != nil {
		userLocation = &geo.Point{Lat: *lat, Lon: *lon}
	}

	comparison, err := h.comparisonSvc.Compare(r.Context(), service.CompareParams{
		ProductID:    productID,
		UserLocation: userLocation,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, comparison)
}
