package middleware

import (
	"net/http"
	"time"

	"socialgraph/pkg/common"
	"socialgraph/pkg/errors"

	"github.com/google/uuid"
)

// RequestID assigns every request an ID, reusing a well-formed inbound
// X-Request-ID. The ID is echoed in the response and stored in the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(errors.RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		r.Header.Set(errors.RequestIDHeader, id)
		w.Header().Set(errors.RequestIDHeader, id)

		ctx := common.WithRequestID(r.Context(), id)
		ctx = common.WithStartTime(ctx, time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
