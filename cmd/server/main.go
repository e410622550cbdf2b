package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/marketplace/backend/internal/application/cart"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	mediaapp "github.com/marketplace/backend/internal/application/media"
	reportapp "github.com/marketplace/backend/internal/application/report"
	supportapp "github.com/marketplace/backend/internal/application/support"
	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/event"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/migration"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/infrastructure/storage"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/marketplace/backend/internal/interfaces/http/router"
	"github.com/marketplace/backend/migrations"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "github.com/marketplace/backend/docs"
)

//go:generate swag init -g main.go -d ./,../../internal/interfaces/http/handler,../../internal/application -o ../../docs --v3.1

//	@title			Marketplace API
//	@version		1.0
//	@description	Software marketplace backend: catalog, orders with atomic stock reservation, carts, support inbox and uploads.

//	@contact.name	API Support
//	@contact.email	support@marketplace.example.com

//	@license.name	MIT

//	@host		localhost:8080
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// OTel log export is teed into the zap core, so it has to exist first
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	})
	if err != nil {
		panic("Failed to initialize log exporter: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	}, logProvider.Core(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting marketplace backend",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
		Environment:     cfg.App.Env,
		ProfileTypes:    cfg.Telemetry.ProfilingTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracer.EnableSpanProfiles()
	}

	var metrics *telemetry.Metrics
	if cfg.Telemetry.MetricsEnabled {
		metrics = telemetry.NewMetrics("marketplace")
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBInstrumentation(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, metrics, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	log.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := migrate(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	stores, err := cache.NewStores(ctx, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	if err != nil {
		log.Fatal("Failed to initialize stores", zap.Error(err))
	}
	defer func() { _ = stores.Close() }()

	objects, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize upload storage", zap.Error(err))
	}

	bus := event.NewInMemoryEventBus(log)
	if metrics != nil {
		bus.Subscribe(event.NewMetricsHandler(metrics))
	}
	bus.Subscribe(event.NewAuditLogHandler(log))
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, stores.Tokens, bus, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.JWT.MaxLoginAttempts,
		LockDuration:     cfg.JWT.LockDuration,
	}, log)
	userService := identityapp.NewUserService(userRepo, orderRepo, stores.Tokens, bus, cfg.JWT.RefreshTokenExpiration, log)
	productService := catalogapp.NewProductService(productRepo, orderRepo, userRepo, stores.Queries, cfg.Cache.ProductListTTL, bus, log)
	orderService := tradeapp.NewOrderService(orderRepo, txScope, stores.Idempotency, bus, tradeapp.OrderServiceConfig{
		Policy: trade.PricingPolicy{
			TaxRate:               decimal.NewFromFloat(cfg.Order.TaxRate),
			FreeShippingThreshold: decimal.NewFromFloat(cfg.Order.FreeShippingThreshold),
			ShippingFee:           decimal.NewFromFloat(cfg.Order.ShippingFee),
		},
		IdempotencyTTL: cfg.Order.IdempotencyTTL,
	}, log)
	messageService := supportapp.NewMessageService(messageRepo, bus, log)
	cartService := cartapp.NewService(stores.Carts, productRepo, orderService, cfg.Cart.TTL, log)
	mediaService := mediaapp.NewService(objects, mediaapp.Limits{
		MaxFileSize: cfg.Storage.MaxFileSize,
		MaxFiles:    cfg.Storage.MaxFiles,
	}, log)
	statsService := reportapp.NewStatsService(userRepo, productRepo, orderRepo, messageRepo, log)

	// Handlers
	base := handler.NewBaseHandler(cfg.App.IsDevelopment())
	checks := map[string]handler.HealthCheck{"database": db.Ping}
	if client := stores.Client(); client != nil {
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	var conflicts handler.StockConflicts
	var uploads handler.UploadCounter
	if metrics != nil {
		conflicts, uploads = metrics, metrics
	}
	handlers := router.Handlers{
		System:   handler.NewSystemHandler(cfg.App.Name, cfg.App.Version, checks),
		Auth:     handler.NewAuthHandler(base, authService),
		Products: handler.NewProductHandler(base, productService),
		Orders:   handler.NewOrderHandler(base, orderService, conflicts),
		Users:    handler.NewUserHandler(base, userService),
		Messages: handler.NewMessageHandler(base, messageService),
		Cart:     handler.NewCartHandler(base, cartService, conflicts),
		Upload:   handler.NewUploadHandler(base, mediaService, uploads),
		Stats:    handler.NewStatsHandler(base, statsService),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	var apiLimiter, authLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		apiLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go apiLimiter.Run(ctx)
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		go authLimiter.Run(ctx)
	}

	engine := router.New(router.Deps{
		Config:   cfg,
		Logger:   log,
		Handlers: handlers,
		Auth: middleware.AuthConfig{
			Tokens:    jwtService,
			Blacklist: stores.Tokens,
			Logger:    log,
		},
		Metrics:     metrics,
		APILimiter:  apiLimiter,
		AuthLimiter: authLimiter,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler stop failed", zap.Error(err))
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer shutdown failed", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Log exporter shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// migrate applies the embedded schema migrations
func migrate(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	// Close would also close sqlDB, which the server still uses
	return m.Up()
}
