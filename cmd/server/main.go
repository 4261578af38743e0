package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	billingapp "github.com/sid/billing-service/internal/application/billing"
	"github.com/sid/billing-service/internal/domain/shared"
	"github.com/sid/billing-service/internal/infrastructure/cache"
	"github.com/sid/billing-service/internal/infrastructure/config"
	"github.com/sid/billing-service/internal/infrastructure/logger"
	"github.com/sid/billing-service/internal/infrastructure/persistence"
	"github.com/sid/billing-service/internal/infrastructure/remote"
	"github.com/sid/billing-service/internal/infrastructure/telemetry"
	"github.com/sid/billing-service/internal/interfaces/http/handler"
	"github.com/sid/billing-service/internal/interfaces/http/middleware"
	"github.com/sid/billing-service/internal/interfaces/http/router"
)

const (
	shutdownTimeout = 30 * time.Second
	seedTimeout     = 30 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting billing service",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry: tracing and metrics are no-ops unless enabled
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilingServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		Version:           cfg.App.Version,
		BasicAuthUser:     cfg.Telemetry.ProfilingBasicAuthUser,
		BasicAuthPassword: cfg.Telemetry.ProfilingBasicAuthPass,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() { _ = profiler.Stop() }()
	if cfg.Telemetry.ProfilingSpanProfiles && profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Meter provider shutdown failed", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Tracer provider shutdown failed", zap.Error(err))
		}
	}()

	// Log export: every logger derived below also writes to the collector
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Logger provider shutdown failed", zap.Error(err))
		}
	}()
	log = loggerProvider.Bridge(log, logLevel(cfg.Log.Level))

	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)
	billingMetrics, err := telemetry.NewBillingMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create billing metrics", zap.Error(err))
	}

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        dbSystem(cfg.Database.Driver),
		}, log)
		if err := plugin.Register(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to access database pool", zap.Error(err))
	}
	if meterProvider.IsEnabled() {
		registration, err := telemetry.RegisterDBPoolMetrics(meter, sqlDB)
		if err != nil {
			log.Warn("Failed to register database pool metrics", zap.Error(err))
		} else {
			defer func() { _ = registration.Unregister() }()
		}
	}

	// Initialize repositories
	billRepo := persistence.NewGormBillRepository(db.DB)
	itemRepo := persistence.NewGormProductItemRepository(db.DB)

	// Remote collaborators
	remoteOpts := []remote.Option{remote.WithLogger(log), remote.WithMetrics(billingMetrics)}
	customerClient, err := remote.NewCustomerClient(remote.Config{
		BaseURL: cfg.Remote.CustomerBaseURL,
		Timeout: cfg.Remote.Timeout,
	}, remoteOpts...)
	if err != nil {
		log.Fatal("Failed to create customer directory client", zap.Error(err))
	}
	inventoryClient, err := remote.NewInventoryClient(remote.Config{
		BaseURL: cfg.Remote.InventoryBaseURL,
		Timeout: cfg.Remote.Timeout,
	}, remoteOpts...)
	if err != nil {
		log.Fatal("Failed to create inventory catalog client", zap.Error(err))
	}

	// Initialize application services
	billService := billingapp.NewBillService(billRepo, itemRepo, log, billingMetrics)
	productItemService := billingapp.NewProductItemService(itemRepo, billRepo)
	enrichmentService := billingapp.NewEnrichmentService(billRepo, customerClient, inventoryClient,
		billingapp.WithMaxConcurrentLookups(cfg.Remote.MaxConcurrentLookups),
		billingapp.WithEnrichmentLogger(log),
		billingapp.WithEnrichmentMetrics(billingMetrics),
	)

	if cfg.Seed.Enabled {
		runSeeder(ctx, log, billingapp.NewSeeder(billRepo, customerClient, inventoryClient, billingapp.SeedConfig{
			CustomerIDs: cfg.Seed.CustomerIDs,
			Quantity:    decimal.NewFromFloat(cfg.Seed.Quantity),
		}, log))
	}

	// Idempotency store: Redis when configured, in-memory otherwise
	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		idempotencyStore, err = cache.NewIdempotencyStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(true),
		).CreateStore(ctx)
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		defer func() { _ = idempotencyStore.Close() }()
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	base := handler.NewBaseHandler(cfg.HTTP.BasePath, cfg.HTTP.TrustedProxies...)
	engine := newEngine(cfg, log, meter, router.BillingHandlers{
		Bills:        handler.NewBillHandler(base, billService),
		ProductItems: handler.NewProductItemHandler(base, productItemService, billService),
		FullBills:    handler.NewFullBillHandler(base, enrichmentService),
		System:       handler.NewSystemHandler(cfg.App.Name, cfg.App.Version, db),
		Idempotency:  middleware.Idempotency(idempotencyStore, cfg.Idempotency.TTL),
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("base_path", cfg.HTTP.BasePath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// newEngine builds the gin engine with the middleware stack and billing routes
func newEngine(cfg *config.Config, log *zap.Logger, meter metric.Meter, handlers router.BillingHandlers) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. Recovery - Catch panics
	// 2. RequestID - Generate/propagate request ID
	// 3. Tracing - Server spans, request id attribute, error status
	// 4. Metrics - Request counters and latency
	// 5. Logger - Log requests
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	// 9. RateLimit - Per client IP (if enabled)
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(meter))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Float64("rps", cfg.HTTP.RateLimitRPS),
			zap.Int("burst", cfg.HTTP.RateLimitBurst),
		)
	}

	router.NewRouter(engine, router.WithBasePath(cfg.HTTP.BasePath)).
		RegisterBilling(handlers).
		Setup()

	return engine
}

// runSeeder creates the demo bill. Failures are logged and never stop startup.
func runSeeder(ctx context.Context, log *zap.Logger, seeder *billingapp.Seeder) {
	ctx, cancel := context.WithTimeout(ctx, seedTimeout)
	defer cancel()

	bill, err := seeder.Run(ctx)
	if err != nil {
		log.Warn("Seeding skipped", zap.Error(err))
		return
	}
	log.Info("Seeded demo bill",
		zap.Int64("bill_id", bill.ID),
		zap.Int("items", len(bill.ProductItems)),
	)
}

// logLevel parses the configured level, defaulting to info
func logLevel(level string) zapcore.Level {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return parsed
}

func dbSystem(driver string) string {
	if driver == "sqlite" {
		return "sqlite"
	}
	return "postgresql"
}
