package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nesquaeke/smartshop/internal/apperr"
)

func (h *handler) respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.ErrorContext(r.Context(), "error encoding response", slog.Any("error", err))
	}
}

// queryFloat parses an optional float query parameter. A missing or empty
// parameter yields nil; a malformed one yields a validation error.
func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.ValidationErr.WrapParent(fmt.Errorf("parse %s: %w", name, err))
	}

	return &v, nil
}

// queryInt parses an optional int query parameter, returning 0 when absent.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.ValidationErr.WrapParent(fmt.Errorf("parse %s: %w", name, err))
	}

	return v, nil
}
