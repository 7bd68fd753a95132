package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/brand-admin/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, enriched with
// whatever of correlation_id, user_id, form_id, trace_id and span_id is known.
// Mount it after RequestLogging and Tracing; Auth and the form routes enrich
// the context further and re-derive the logger themselves.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
