package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	_ "github.com/erp/settlement/docs"
	appevent "github.com/erp/settlement/internal/application/event"
	"github.com/erp/settlement/internal/application/settlement"
	"github.com/erp/settlement/internal/domain/shared"
	"github.com/erp/settlement/internal/infrastructure/auth"
	"github.com/erp/settlement/internal/infrastructure/cache"
	"github.com/erp/settlement/internal/infrastructure/config"
	"github.com/erp/settlement/internal/infrastructure/event"
	"github.com/erp/settlement/internal/infrastructure/logger"
	"github.com/erp/settlement/internal/infrastructure/persistence"
	"github.com/erp/settlement/internal/infrastructure/telemetry"
	"github.com/erp/settlement/internal/interfaces/http/handler"
	"github.com/erp/settlement/internal/interfaces/http/middleware"
	"github.com/erp/settlement/internal/interfaces/http/router"
)

var version = "dev"

//	@title			Order Settlement API
//	@version		1.0
//	@description	Settles point-of-sale orders, depletes recipe stock and posts balanced journal entries to the general ledger.

//	@contact.name	API Support

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "settlement: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry comes first so the final logger can tee into the OTLP bridge
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		return fmt.Errorf("initialize log exporter: %w", err)
	}

	var extra []zapcore.Core
	if core := logProvider.Core(levelOf(cfg.Log.Level)); core != nil {
		extra = append(extra, core)
	}
	log, err := logger.New(logCfg, extra...)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting settlement service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("initialize metrics: %w", err)
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeServer,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		return fmt.Errorf("initialize profiler: %w", err)
	}
	if cfg.Telemetry.ProfilingEnabled {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log).Register(db.DB); err != nil {
		return fmt.Errorf("register database tracing: %w", err)
	}

	if cfg.Database.Driver == "sqlite" || cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		log.Info("Schema auto-migrated")
	}

	metrics, err := telemetry.NewSettlementMetrics(meterProvider.Meter("settlement"))
	if err != nil {
		return fmt.Errorf("register settlement metrics: %w", err)
	}

	// Events: settled orders go through the outbox so ledger posting
	// survives a failed or skipped inline attempt
	serializer := event.NewEventSerializer()
	event.RegisterSettlementEvents(serializer)
	outboxPublisher := event.NewOutboxPublisher(serializer).WithMaxRetries(cfg.Event.MaxRetries)
	outboxRepo := event.NewGormOutboxRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB, outboxPublisher)

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStore(ctx)
	if err != nil {
		return fmt.Errorf("create idempotency store: %w", err)
	}

	checks := map[string]handler.Pinger{"database": db}
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisStore, ok := idempotencyStore.(*cache.RedisIdempotencyStore); ok {
		blacklist = auth.NewRedisTokenBlacklist(redisStore.Client())
		checks["redis"] = handler.PingFunc(redisStore.Ping)
	}

	poster := settlement.NewPostingService(scope, log,
		settlement.WithPostingMetrics(metrics),
		settlement.WithRetryBudget(cfg.Settlement.ManualRetryMaxElapsed),
	)
	coordinatorOpts := []settlement.CoordinatorOption{settlement.WithMetrics(metrics)}
	var dispatcher *settlement.PostingDispatcher
	if cfg.Settlement.InlinePosting {
		dispatcher = settlement.NewPostingDispatcher(poster, settlement.DispatcherConfig{
			Timeout:     cfg.Settlement.PostingTimeout,
			MaxFailures: cfg.Settlement.BreakerMaxFailures,
			OpenTimeout: cfg.Settlement.BreakerOpenTimeout,
		}, log)
		coordinatorOpts = append(coordinatorOpts, settlement.WithDispatcher(dispatcher))
	}
	coordinator := settlement.NewCoordinator(scope, log, coordinatorOpts...)
	summary := settlement.NewSummaryService(scope)

	eventBus := event.NewInMemoryEventBus(log)
	settledHandler := event.NewIdempotentHandler(
		settlement.NewOrderSettledHandler(poster, log),
		idempotencyStore,
		log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{TTL: cfg.Event.IdempotencyTTL, Enabled: true}),
	)
	eventBus.Subscribe(settledHandler)
	log.Info("Event handlers registered", zap.Strings("order_settled_events", settledHandler.EventTypes()))

	if err := eventBus.Start(ctx); err != nil {
		return fmt.Errorf("start event bus: %w", err)
	}

	var processor *event.OutboxProcessor
	if cfg.Event.ProcessorEnabled {
		processorCfg := event.DefaultOutboxProcessorConfig()
		processorCfg.BatchSize = cfg.Event.BatchSize
		processorCfg.PollInterval = cfg.Event.PollInterval
		processorCfg.StuckTimeout = cfg.Event.StuckTimeout
		processorCfg.CleanupEnabled = cfg.Event.CleanupEnabled
		processorCfg.CleanupRetention = cfg.Event.CleanupRetention
		processor = event.NewOutboxProcessor(outboxRepo, eventBus, serializer, processorCfg, log).WithRecorder(metrics)
		if err := processor.Start(ctx); err != nil {
			return fmt.Errorf("start outbox processor: %w", err)
		}
	} else {
		log.Warn("Outbox processor disabled; deferred ledger postings will wait for a manual post")
	}

	engine, err := newEngine(cfg, log, meterProvider, blacklist)
	if err != nil {
		return err
	}

	var breaker handler.BreakerState
	if dispatcher != nil {
		breaker = dispatcher
	}
	systemHandler := handler.NewSystemHandler(version, checks, breaker)
	engine.GET("/health", systemHandler.Health)

	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(middleware.SwaggerConfig{
				Enabled:    cfg.Swagger.Enabled,
				AllowedIPs: cfg.Swagger.AllowedIPs,
			}),
			ginSwagger.WrapHandler(swaggerFiles.Handler),
		)
	}

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(router.PosRoutes(handler.NewSettlementHandler(coordinator, poster, summary))).
		Register(router.OutboxRoutes(handler.NewOutboxHandler(appevent.NewOutboxService(outboxRepo, log)))).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		// Reverse start order: stop taking requests, drain the outbox, then
		// release stores and flush telemetry
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
		}
		if processor != nil {
			if err := processor.Stop(shutdownCtx); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}
		if err := eventBus.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
		log.Info("Server exited gracefully")
		_ = logProvider.ForceFlush(shutdownCtx)
		return logProvider.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newEngine builds the gin engine and its global middleware chain
func newEngine(cfg *config.Config, log *zap.Logger, mp *telemetry.MeterProvider, blacklist auth.TokenBlacklist) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}
	middleware.SetupValidator()

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	httpMetrics, err := middleware.HTTPMetrics(mp.Meter("http"))
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(cors),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		httpMetrics,
	)

	if cfg.JWT.Enabled {
		jwtCfg := middleware.DefaultJWTConfig(auth.NewJWTService(cfg.JWT))
		jwtCfg.TokenBlacklist = blacklist
		jwtCfg.Logger = log
		engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))
	} else {
		log.Warn("JWT validation disabled; API requests carry no tenant and will be rejected")
	}

	engine.Use(
		middleware.SpanEnricher(),
		middleware.Profiling(cfg.Telemetry.ProfilingEnabled),
	)
	return engine, nil
}

func levelOf(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}
