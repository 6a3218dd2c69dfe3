package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nyumba-homes/storefront-api/internal/auth"
	"github.com/nyumba-homes/storefront-api/internal/config"
	"github.com/nyumba-homes/storefront-api/internal/database"
	"github.com/nyumba-homes/storefront-api/internal/http/handler"
	"github.com/nyumba-homes/storefront-api/internal/http/middleware"
	"github.com/nyumba-homes/storefront-api/internal/orderarchive"
	"github.com/nyumba-homes/storefront-api/internal/storage"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/nyumba-homes/storefront-api/docs" // Import generated swagger docs
)

const storageHealthTimeout = 5 * time.Second

type Router struct {
	cfg               *config.Config
	logger            *zap.Logger
	db                *gorm.DB
	store             storage.Store
	archive           *orderarchive.Client
	authMiddleware    *auth.Middleware
	rateLimiter       *middleware.RateLimiter
	sessionHandler    *handler.SessionHandler
	propertyHandler   *handler.PropertyHandler
	storefrontHandler *handler.StorefrontHandler
	checkoutHandler   *handler.CheckoutHandler
	authHandler       *handler.AuthHandler
}

// NewRouter wires the handlers. db and archive may be nil when the
// sql storage mode and the order archive are not in use.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	store storage.Store,
	archive *orderarchive.Client,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	sessionHandler *handler.SessionHandler,
	propertyHandler *handler.PropertyHandler,
	storefrontHandler *handler.StorefrontHandler,
	checkoutHandler *handler.CheckoutHandler,
	authHandler *handler.AuthHandler,
) *Router {
	return &Router{
		cfg:               cfg,
		logger:            logger,
		db:                db,
		store:             store,
		archive:           archive,
		authMiddleware:    authMiddleware,
		rateLimiter:       rateLimiter,
		sessionHandler:    sessionHandler,
		propertyHandler:   propertyHandler,
		storefrontHandler: storefrontHandler,
		checkoutHandler:   checkoutHandler,
		authHandler:       authHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Storage health check (readiness of the client state backend)
	r.Get("/health/storage", func(w http.ResponseWriter, r *http.Request) {
		check := rt.storageCheck(r.Context())
		status := http.StatusOK
		if check["status"] != "healthy" {
			status = http.StatusServiceUnavailable
		}
		check["service"] = "storage"
		check["mode"] = rt.storageMode()
		writeJSON(w, status, check)
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		storageCheck := rt.storageCheck(r.Context())
		checks["storage"] = storageCheck
		if storageCheck["status"] != "healthy" {
			allHealthy = false
		}

		if rt.db != nil {
			if err := database.HealthCheck(rt.db); err != nil {
				rt.logger.Error("Database health check failed", zap.Error(err))
				checks["database"] = map[string]interface{}{
					"status": "unhealthy",
					"error":  err.Error(),
				}
				allHealthy = false
			} else {
				checks["database"] = map[string]interface{}{
					"status": "healthy",
				}
			}
		}

		// the archive is best effort and never fails readiness
		checks["orderArchive"] = rt.archive.HealthCheck(r.Context())

		overall, status := "healthy", http.StatusOK
		if !allHealthy {
			overall, status = "unhealthy", http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]interface{}{
			"status": overall,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no session required)
		r.Post("/session", rt.sessionHandler.Create)

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", rt.propertyHandler.List)
			r.Get("/search", rt.propertyHandler.Search)
			r.Get("/{id}", rt.propertyHandler.GetByID)
			r.Get("/{id}/tour", rt.propertyHandler.Tour)
			r.Post("/{id}/mortgage", rt.propertyHandler.Mortgage)

			// Viewing requests are logged with the session when one is present
			r.With(rt.authMiddleware.OptionalAuthenticate).Post("/{id}/viewings", rt.propertyHandler.BookViewing)
		})
		r.Post("/mortgage", rt.propertyHandler.MortgageCalculator)
		r.Get("/payment-methods", rt.checkoutHandler.PaymentMethods)

		// Session routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			r.Post("/session/refresh", rt.sessionHandler.Refresh)
			r.Get("/state", rt.storefrontHandler.State)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", rt.storefrontHandler.Cart)
				r.Post("/items/{id}", rt.storefrontHandler.AddToCart)
				r.Delete("/items/{id}", rt.storefrontHandler.RemoveFromCart)
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", rt.storefrontHandler.Favorites)
				r.Post("/{id}/toggle", rt.storefrontHandler.ToggleFavorite)
			})
			r.Get("/recommendations", rt.storefrontHandler.Recommendations)

			r.Route("/comparison", func(r chi.Router) {
				r.Get("/", rt.storefrontHandler.Comparison)
				r.Delete("/", rt.storefrontHandler.ClearComparison)
				r.Get("/table", rt.storefrontHandler.ComparisonTable)
				r.Post("/{id}", rt.storefrontHandler.AddToComparison)
				r.Delete("/{id}", rt.storefrontHandler.RemoveFromComparison)
				r.Post("/{id}/toggle", rt.storefrontHandler.ToggleComparison)
			})

			r.Route("/theme", func(r chi.Router) {
				r.Get("/", rt.storefrontHandler.Theme)
				r.Put("/", rt.storefrontHandler.SetTheme)
				r.Post("/toggle", rt.storefrontHandler.ToggleTheme)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", rt.checkoutHandler.Proceed)
				r.Post("/", rt.checkoutHandler.Complete)
			})
			r.Get("/orders", rt.checkoutHandler.Orders)

			r.Route("/auth", func(r chi.Router) {
				r.Post("/sign-in", rt.authHandler.SignIn)
				r.Post("/sign-out", rt.authHandler.SignOut)
				r.Get("/me", rt.authHandler.Me)
			})
		})
	})

	return r
}

// storageCheck pings the store when the backend supports it
func (rt *Router) storageCheck(ctx context.Context) map[string]interface{} {
	pinger, ok := rt.store.(storage.Pinger)
	if !ok {
		return map[string]interface{}{"status": "healthy"}
	}

	ctx, cancel := context.WithTimeout(ctx, storageHealthTimeout)
	defer cancel()

	start := time.Now()
	if err := pinger.Ping(ctx); err != nil {
		rt.logger.Error("Storage health check failed", zap.Error(err))
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	}
	return map[string]interface{}{
		"status":     "healthy",
		"latency_ms": time.Since(start).Milliseconds(),
	}
}

func (rt *Router) storageMode() string {
	if rt.cfg.Storage.Mode == "" {
		return "memory"
	}
	return rt.cfg.Storage.Mode
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
