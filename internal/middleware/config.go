package middleware

import (
	"net/http"

	"github.com/ezapply/ezapply/internal/config"
	"github.com/ezapply/ezapply/internal/ctxkeys"
)

// Config adds the sanitized app configuration to the request context.
// Secrets like JWTSecret and the DB connection string are excluded.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), cfg.Sanitized())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
