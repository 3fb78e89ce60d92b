package http

import (
	"net/http"

	"github.com/DigitalMasterpieces/wishkit-go/pkg/logger"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/service"
)

// WithIdentity attaches the installation's identity token to the request
// context so every log line of the request carries it.
func WithIdentity(identity service.IdentityProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithIdentity(r.Context(), identity.Current(r.Context()).Token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
