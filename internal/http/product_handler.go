package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nesquaeke/smartshop/internal/apperr"
	"github.com/nesquaeke/smartshop/internal/service"
)

func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	pageSize, err := queryInt(r, "page_size")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	products, err := h.catalogSvc.ListProducts(r.Context(), service.ListProductsParams{
		CategorySlug: r.URL.Query().Get("category"),
		Search:       r.URL.Query().Get("search"),
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, products)
}

func (h *handler) getProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		h.writeError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

	product, err := h.catalogSvc.GetProduct(r.Context(), productID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, product)
}

func (h *handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogSvc.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, categories)
}
