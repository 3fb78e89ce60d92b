package middleware

import (
	"log/slog"
	"net/http"

	"github.com/DigitalMasterpieces/wishkit-go/pkg/logger"
)

// IdentityHeader is sent by thin UIs that render the widget on behalf of a
// known device identity. The bridge itself never trusts it for voting; it is
// only attached to logs.
const IdentityHeader = "X-Wishkit-UUID"

// RequestLogger builds a request-scoped logger enriched with correlation_id,
// identity, trace_id and span_id and stores it via logger.NewContext.
//
// Mount it after RequestLogging and Tracing.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if id := logger.IdentityFromContext(ctx); id == "" {
				if id = r.Header.Get(IdentityHeader); id != "" {
					ctx = logger.WithIdentity(ctx, id)
				}
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
