package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/brand-admin/internal/client"
	"github.com/utafrali/brand-admin/internal/config"
	"github.com/utafrali/brand-admin/internal/domain"
	"github.com/utafrali/brand-admin/internal/event"
	handler "github.com/utafrali/brand-admin/internal/handler/http"
	redisrepo "github.com/utafrali/brand-admin/internal/repository/redis"
	"github.com/utafrali/brand-admin/internal/service"
	"github.com/utafrali/brand-admin/pkg/database"
	"github.com/utafrali/brand-admin/pkg/health"
	"github.com/utafrali/brand-admin/pkg/httpclient"
	pkgkafka "github.com/utafrali/brand-admin/pkg/kafka"
	"github.com/utafrali/brand-admin/pkg/middleware"
	"github.com/utafrali/brand-admin/pkg/tracing"
)

const serviceName = "brand-admin"

// App wires together all dependencies and runs the brand admin service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
	stopBackground context.CancelFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize Redis client.
	redisCfg := database.DefaultRedisConfig()
	redisCfg.Host = cfg.RedisHost
	redisCfg.Port = cfg.RedisPort
	redisCfg.Password = cfg.RedisPassword
	redisCfg.DB = cfg.RedisDB

	rdb, err := database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		_ = tracerShutdown(context.Background())
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", redisCfg.Addr()),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer.
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Downstream clients. Each service gets its own breaker so a broken
	// media service does not stop brands without images from being created.
	baseClient := httpclient.New(httpclient.Config{
		Timeout:         cfg.HTTPClientTimeout,
		MaxConnsPerHost: 100,
		UserAgent:       serviceName,
	})
	mediaDoer := httpclient.NewCircuitBreakerClient(baseClient,
		httpclient.DefaultCircuitBreakerConfig(client.MediaService), logger)
	catalogDoer := httpclient.NewCircuitBreakerClient(baseClient,
		httpclient.DefaultCircuitBreakerConfig(client.CatalogService), logger)

	mediaClient := client.NewMediaClient(mediaDoer, cfg.MediaUploadURL(), cfg.MediaOwnerType, logger)
	catalogClient := client.NewCatalogClient(catalogDoer, cfg.CatalogBrandsURL(), cfg.CatalogAPIToken, logger)

	deriveHandle, err := domain.HandleDeriver(cfg.HandleStrategy)
	if err != nil {
		_ = rdb.Close()
		_ = tracerShutdown(context.Background())
		return nil, err
	}

	// Build the dependency graph.
	repo := redisrepo.NewFormSessionRepository(rdb, cfg.FormSessionTTL)
	eventProducer := event.NewProducer(producer, logger)
	formService := service.NewBrandFormService(repo, mediaClient, catalogClient, eventProducer, logger,
		service.WithHandleFunc(deriveHandle),
		service.WithMaxImages(cfg.MaxImages),
		service.WithPublishTimeout(cfg.EventPublishTimeout),
	)

	// Health checks. Kafka only carries events, so losing it degrades the
	// service instead of taking it out of rotation.
	healthHandler := health.NewHandler(serviceName)
	healthHandler.RegisterCritical("redis", database.RedisChecker(rdb))
	healthHandler.RegisterNonCritical("kafka", producer.Ping)

	bgCtx, stopBackground := context.WithCancel(context.Background())

	// HTTP router.
	router := handler.NewRouter(bgCtx, formService, healthHandler, logger, handler.RouterConfig{
		ServiceName:    serviceName,
		AdminBrandPath: cfg.AdminBrandPath,
		MaxImageSize:   cfg.MaxImageSize,
		MaxImages:      cfg.MaxImages,
		SubmitRPS:      cfg.SubmitRateLimitRPS,
		SubmitBurst:    cfg.SubmitRateLimitBurst,
		RequestTimeout: 2*cfg.HTTPClientTimeout + 5*time.Second,
		Validator:      middleware.NewHMACValidator(cfg.JWTSecret),
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      2*cfg.HTTPClientTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("brand form configured",
		slog.String("handle_strategy", cfg.HandleStrategy),
		slog.String("catalog_url", cfg.CatalogBrandsURL()),
		slog.String("media_url", cfg.MediaUploadURL()),
		slog.Duration("session_ttl", cfg.FormSessionTTL),
	)

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
		stopBackground: stopBackground,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}
	a.stopBackground()

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
