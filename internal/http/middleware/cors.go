package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/cors"
	"github.com/nyumba-homes/storefront-api/internal/config"
	"go.uber.org/zap"
)

// Headers every storefront client needs regardless of configuration:
// the session token, request correlation, the theme hint and rate limit backoff.
var (
	requiredAllowedHeaders = []string{"Authorization", "Content-Type", RequestIDHeader, ColorSchemeHintHeader}
	requiredExposedHeaders = []string{RequestIDHeader, "Retry-After"}
)

// CORS returns the CORS middleware for the storefront API.
// Sessions travel as bearer tokens and no cookies are set, so credentialed
// requests are never allowed and a wildcard origin is answered with "*".
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   withHeaders(cfg.AllowedHeaders, requiredAllowedHeaders),
		ExposedHeaders:   withHeaders(cfg.ExposedHeaders, requiredExposedHeaders),
		AllowCredentials: false,
		MaxAge:           cfg.MaxAge,
	}

	switch {
	case slices.Contains(cfg.AllowedOrigins, "*"):
		if !isDevelopment(environment) {
			logger.Warn("CORS configured with wildcard origin in non-development environment",
				zap.String("environment", environment))
		}
		options.AllowedOrigins = []string{"*"}

	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins",
			zap.Strings("origins", cfg.AllowedOrigins))

	case isDevelopment(environment):
		options.AllowedOrigins = []string{"*"}
		logger.Info("CORS configured to allow all origins in development mode")

	default:
		// empty AllowedOrigins means "*" to the cors package
		options.AllowOriginFunc = func(r *http.Request, origin string) bool {
			return false
		}
		logger.Warn("CORS configured with no allowed origins - all cross-origin requests will be denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func isDevelopment(environment string) bool {
	return environment == "development" || environment == "local" || environment == ""
}

// withHeaders appends the required headers missing from configured, case-insensitively
func withHeaders(configured, required []string) []string {
	out := append([]string(nil), configured...)
	for _, h := range required {
		if !slices.ContainsFunc(out, func(c string) bool { return strings.EqualFold(c, h) }) {
			out = append(out, h)
		}
	}
	return out
}
