package middleware

import (
	"net/http"

	"github.com/nesquaeke/smartshop/pkg/correlationid"
)

// CorrelationID propagates the caller's correlation ID, generating one when
// the request carries none, and echoes it in the response.
func CorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(correlationid.Header)
			if id == "" {
				id = correlationid.Generate()
			}

			ctx := correlationid.NewContext(r.Context(), id)
			w.Header().Set(correlationid.Header, id)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
