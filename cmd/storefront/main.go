package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/salad-storefront/internal/config"
	"github.com/jcmexdev/salad-storefront/internal/coordinator/sagalog"
	"github.com/jcmexdev/salad-storefront/internal/coordinator/sagalog/sqlite"
	"github.com/jcmexdev/salad-storefront/internal/pkg/cache"
	"github.com/jcmexdev/salad-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/salad-storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/cart"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/checkout"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/salad-storefront/internal/storefront/infra/adapters/catalog"
	"github.com/jcmexdev/salad-storefront/internal/storefront/infra/adapters/events"
	"github.com/jcmexdev/salad-storefront/internal/storefront/infra/adapters/service"
	"github.com/jcmexdev/salad-storefront/internal/storefront/infra/adapters/storage"
	"github.com/jcmexdev/salad-storefront/internal/storefront/infra/httpx"
)

func main() {
	configPath := flag.String("config", os.Getenv("STOREFRONT_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	telemetry.InitLogger(cfg.Log.Level)

	if err := run(cfg); err != nil {
		slog.Error("storefront stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
			ServiceName: cfg.Telemetry.Service,
			Endpoint:    cfg.Telemetry.Endpoint,
			Environment: cfg.Telemetry.Environment,
			SampleRatio: cfg.Telemetry.Sampling,
		})
		if err != nil {
			return fmt.Errorf("initialise tracer: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("tracer shutdown error", "error", err)
			}
		}()
	}

	var redisCache cache.Cache
	if cfg.Redis.Addr != "" {
		redisCache = cache.NewRedisCache(cfg.Redis.Addr, "storefront")
		defer redisCache.Close()
	}

	cartStorage, closeStorage, err := buildCartStorage(ctx, cfg, redisCache)
	if err != nil {
		return err
	}
	defer closeStorage()

	var catalogSource ports.CatalogSource = catalog.NewHTTPCatalog(cfg.Catalog.URL, cfg.Catalog.Timeout)
	if redisCache != nil && cfg.Catalog.TTL > 0 {
		catalogSource = catalog.NewCachedCatalog(catalogSource, redisCache, cfg.Catalog.TTL)
	}

	deps := checkout.Deps{
		Orders: buildOrderService(cfg),
		Transfer: checkout.TransferInfo{
			Alias:    cfg.Checkout.Transfer.Alias,
			WhatsApp: cfg.Checkout.Transfer.WhatsApp,
		},
	}

	if cfg.NATS.URL != "" {
		publisher, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			return err
		}
		defer publisher.Close()
		deps.Publisher = publisher
	}

	var history sagalog.Reader
	if cfg.OrderLog.Path != "" {
		repo, err := sqlite.Open(cfg.OrderLog.Path)
		if err != nil {
			return fmt.Errorf("open order log: %w", err)
		}
		defer repo.Close()
		deps.SagaLog = repo
		history = repo
	}

	checkoutSvc := checkout.NewService(deps, slog.Default())
	registry := cart.NewRegistry(cartStorage, cart.RegistryConfig{
		MaxSessions: cfg.Cart.Sessions,
		TTL:         cfg.Cart.TTL,
		Refresh:     cfg.Cart.Storage != config.StorageMemory,
	}, slog.Default())
	router := httpx.NewRouter(httpx.NewHandler(catalogSource, registry, checkoutSvc, history))

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPC.Addr, err)
	}
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.UnaryServerInterceptor()),
	)
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	errCh := make(chan error, 2)
	go func() {
		slog.Info("storefront HTTP running", "addr", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		slog.Info("storefront gRPC health running", "addr", cfg.GRPC.Addr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case runErr = <-errCh:
	}

	healthSrv.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
	grpcServer.GracefulStop()

	return runErr
}

func buildCartStorage(ctx context.Context, cfg *config.Config, redisCache cache.Cache) (ports.CartStorage, func(), error) {
	switch cfg.Cart.Storage {
	case config.StorageRedis:
		if redisCache == nil {
			return nil, nil, errors.New("cart.storage is redis but redis.addr is empty")
		}
		return storage.NewRedisStorage(redisCache, cfg.Cart.TTL), func() {}, nil

	case config.StorageMongo:
		m, err := storage.OpenMongoStorage(ctx, cfg.Mongo.URL, cfg.Mongo.DB)
		if err != nil {
			return nil, nil, err
		}
		return m, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.Close(closeCtx); err != nil {
				slog.Error("mongo close error", "error", err)
			}
		}, nil

	default:
		slog.Warn("carts are kept in memory and lost on restart")
		return storage.NewMemoryStorage(), func() {}, nil
	}
}

func buildOrderService(cfg *config.Config) ports.OrderService {
	if cfg.Orders.Backend == config.OrdersFake {
		slog.Warn("using the fake order backend; orders are not delivered")
		return service.NewFakeOrderService()
	}
	return service.NewHTTPOrderService(cfg.Orders.URL, cfg.Orders.Timeout)
}
