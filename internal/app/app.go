package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/config"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/domain"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/event"
	handler "github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/handler/http"
	postgresrepo "github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/repository/postgres"
	redisrepo "github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/repository/redis"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/service"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/database"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/health"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/httpclient"
	pkgkafka "github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/kafka"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/tracing"
)

// App wires together all dependencies and runs the cart service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	pool            *pgxpool.Pool
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracingShutdown, err := tracing.Init(ctx, tracing.Config{
		ServiceName:  "cart",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   cfg.TraceSample,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	pool, err := database.NewPostgresPool(ctx, database.DefaultPostgresConfig(cfg.PostgresDSN))
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to Postgres")

	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	cartTTL := time.Duration(cfg.CartTTL) * time.Hour
	cartRepo := redisrepo.NewCartRepository(rdb, cartTTL)
	catalogRepo := postgresrepo.NewCatalogRepository(pool)
	eventProducer := event.NewProducer(producer, logger)

	orderClient := httpclient.NewBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultBreakerConfig("order-service"),
		logger,
	)
	feePolicy := domain.FeePolicy{
		DeliveryFee:      cfg.DeliveryFee,
		FreeDeliveryOver: cfg.FreeDeliveryOver,
	}

	cartService := service.NewCartService(cartRepo, catalogRepo, eventProducer, logger, cartTTL)
	checkoutService := service.NewCheckoutService(
		cartRepo, catalogRepo, eventProducer, logger,
		orderClient, cfg.OrderServiceURL, feePolicy,
	)
	catalogService := service.NewCatalogService(catalogRepo, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	router := handler.NewRouter(
		cartService, checkoutService, catalogService,
		healthHandler, logger, cfg.PprofCIDRs,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		pool:            pool,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
