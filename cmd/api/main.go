package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nyumba-homes/storefront-api/docs"
	"github.com/nyumba-homes/storefront-api/internal/auth"
	"github.com/nyumba-homes/storefront-api/internal/catalog"
	"github.com/nyumba-homes/storefront-api/internal/config"
	"github.com/nyumba-homes/storefront-api/internal/database"
	"github.com/nyumba-homes/storefront-api/internal/http/handler"
	"github.com/nyumba-homes/storefront-api/internal/http/middleware"
	"github.com/nyumba-homes/storefront-api/internal/http/router"
	"github.com/nyumba-homes/storefront-api/internal/jobs"
	"github.com/nyumba-homes/storefront-api/internal/logger"
	"github.com/nyumba-homes/storefront-api/internal/orderarchive"
	"github.com/nyumba-homes/storefront-api/internal/payment"
	"github.com/nyumba-homes/storefront-api/internal/queue"
	"github.com/nyumba-homes/storefront-api/internal/recommend"
	"github.com/nyumba-homes/storefront-api/internal/service"
	"github.com/nyumba-homes/storefront-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title Nyumba Storefront API
// @version 1.0
// @description Property storefront API: catalog, cart, favorites, comparison, recommendations and checkout
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@nyumba-homes.co.ke

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Visitor session token from POST /session, sent as "Bearer <token>"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if basicCfg.App.Environment == "development" || basicCfg.App.Environment == "local" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	} else {
		docs.SwaggerInfo.Host = ""
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Catalog is embedded unless an external listings file is configured
	cat, err := loadCatalog(&cfg.Catalog)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	log.Info("Catalog loaded", zap.Int("properties", cat.Len()))

	// The database is only needed by the sql storage mode
	var db *gorm.DB
	if cfg.Storage.Mode == "sql" {
		db, err = database.NewDatabase(&cfg.Database, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if cfg.Database.Driver == "sqlite" {
			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("failed to migrate sqlite database: %w", err)
			}
		}
	}

	store, err := storage.NewStore(cfg, db, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize order archive connection (optional)
	// Orders are archived best effort and checkout continues without it
	var archive *orderarchive.Client
	if cfg.OrderArchive.Enabled {
		archive, err = orderarchive.NewClient(&cfg.OrderArchive, log)
		if err != nil {
			log.Warn("Order archive connection failed, continuing without it",
				zap.Error(err),
			)
			archive = nil
		} else if archive != nil {
			log.Info("Order archive connected successfully",
				zap.Int("max_open_conns", cfg.OrderArchive.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.OrderArchive.QueryTimeout),
			)
		}
	} else {
		log.Info("Order archive not configured, skipping")
	}

	tokens, err := auth.NewSessionTokens(&cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize session tokens: %w", err)
	}

	dispatcher := queue.NewDispatcher(log)

	// Initialize services
	engine := recommend.NewEngine(cfg.Recommend.Size, nil)
	recommendationService := service.NewRecommendationService(cat, engine, store, log)
	storefrontService := service.NewStorefrontService(cat, store, dispatcher, recommendationService, log)
	propertyService := service.NewPropertyService(cat, log)
	checkoutService := service.NewCheckoutService(
		store,
		dispatcher,
		payment.NewMockProvider(cfg.Checkout.PaymentDelay(), log),
		archiverOrNil(archive),
		log,
	)
	accountService := service.NewAccountService(auth.NewMockProvider(), store, dispatcher, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokens, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(tokens, log)
	propertyHandler := handler.NewPropertyHandler(propertyService, log)
	storefrontHandler := handler.NewStorefrontHandler(storefrontService, recommendationService, log)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, log)
	authHandler := handler.NewAuthHandler(accountService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		store,
		archive,
		authMiddleware,
		rateLimiter,
		sessionHandler,
		propertyHandler,
		storefrontHandler,
		checkoutHandler,
		authHandler,
	)

	// Start scheduler for background jobs
	scheduler := jobs.NewScheduler(log)
	if err := jobs.RegisterSessionReaperJob(
		scheduler,
		dispatcher,
		log,
		cfg.Queue.ReapCron,
		cfg.Queue.IdleTimeoutDuration(),
	); err != nil {
		log.Error("Failed to register session reaper job", zap.Error(err))
	}
	scheduler.Start()

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		stopped := scheduler.Stop()
		<-stopped.Done()
		log.Info("Scheduler stopped")

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Let queued mutations (including pending purchases) finish
		dispatcher.Close()
		log.Info("Session workers drained")

		if closer, ok := store.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Warn("Error closing storage", zap.Error(err))
			}
		}

		if err := archive.Close(); err != nil {
			log.Warn("Error closing order archive connection", zap.Error(err))
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

func loadCatalog(cfg *config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.Path == "" {
		return catalog.Default()
	}
	return catalog.Load(cfg.Path)
}

// archiverOrNil keeps a nil *orderarchive.Client from becoming a non-nil interface
func archiverOrNil(c *orderarchive.Client) service.OrderArchiver {
	if c == nil {
		return nil
	}
	return c
}
