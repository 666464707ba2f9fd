package httpapi

import (
	"net/http"

	"github.com/riskibarqy/scout-core/internal/platform/logging"
)

// RouterOptions carries the router settings that come from configuration.
type RouterOptions struct {
	CORSAllowedOrigins []string
	InternalJobToken   string
	// MetricsHandler serves GET /metrics; nil leaves the route unregistered.
	MetricsHandler http.Handler
}

func NewRouter(handler *Handler, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts.MetricsHandler)
	registerPublicRoutes(mux, handler)
	registerInternalJobRoutes(mux, handler, opts.InternalJobToken)

	return RequestTracing(RequestLogging(logger, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "http_path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
