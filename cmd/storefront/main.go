package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/pkg/config"
	"github.com/jcmexdev/storefront/internal/pkg/randx"
	"github.com/jcmexdev/storefront/internal/pkg/telemetry"
	paymentservice "github.com/jcmexdev/storefront/internal/payment-service/app"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/storefront/internal/storefront/core/services/cart"
	"github.com/jcmexdev/storefront/internal/storefront/core/services/catalog"
	"github.com/jcmexdev/storefront/internal/storefront/core/services/checkout"
	"github.com/jcmexdev/storefront/internal/storefront/core/services/user"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/catalogapi"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/messaging"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/payment"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/sqlite"
	"github.com/jcmexdev/storefront/internal/storefront/infra/httpx"
	"github.com/jcmexdev/storefront/internal/storefront/infra/httpx/middlewares"
)

func main() {
	if err := run(); err != nil {
		slog.Error("storefront stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	telemetry.InitLogger("storefront", cfg.LogLevel)

	shutdownTracer, err := telemetry.SetupTracer(ctx, "storefront", cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return err
	}
	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	caches, closeCaches := newCatalogCaches(cfg)
	defer closeCaches()

	rnd := randx.New(cfg.RandomSeed)
	gateway := catalog.NewGateway(
		catalogapi.NewClient(cfg.CatalogURL, cfg.CatalogTimeout),
		caches,
		catalog.NewNormalizer(rnd),
	)

	go clearCacheOnHangup(ctx, gateway)

	payments, closePayments, err := newPaymentGateway(cfg, rnd)
	if err != nil {
		return err
	}
	defer closePayments()

	events, closeEvents := newOrderPublisher(cfg)
	defer closeEvents()

	users := sqlite.NewUserRepository(db)
	handler := httpx.NewHandler(
		gateway,
		cart.NewService(sqlite.NewCartRepository(db), gateway, cfg.EnrichConcurrency),
		checkout.NewService(
			users,
			sqlite.NewOrderRepository(db),
			payments,
			events,
			sqlite.NewCheckoutLogRepository(db),
			checkout.WithPaymentTimeout(cfg.PaymentTimeout),
		),
		user.NewService(users),
		db,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpx.NewRouter(handler, middlewares.Authenticate([]byte(cfg.JWTSecret))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("storefront running", "addr", srv.Addr, "cache_backend", cfg.CacheBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newCatalogCaches(cfg config.Config) (catalog.Caches, func()) {
	if cfg.CacheBackend != config.CacheBackendRedis {
		return catalog.NewMemoryCaches(cfg.CacheTTL), func() {}
	}

	client := cache.NewRedisClient(cfg.RedisAddr)
	caches := catalog.Caches{
		Lists:      cache.NewRedisStore[[]entity.Product](client, "catalog:lists", cfg.CacheTTL),
		Products:   cache.NewRedisStore[entity.Product](client, "catalog:products", cfg.CacheTTL),
		Categories: cache.NewRedisStore[[]entity.Category](client, "catalog:categories", cfg.CacheTTL),
	}
	return caches, func() { _ = client.Close() }
}

// newPaymentGateway calls the payment service when one is configured and
// simulates payments in process otherwise.
func newPaymentGateway(cfg config.Config, rnd randx.Source) (ports.PaymentGateway, func(), error) {
	if cfg.PaymentServiceAddr == "" {
		slog.Info("using in-process payment simulator", "success_rate", cfg.PaymentSuccessRate)
		return paymentservice.NewSimulator(rnd, cfg.PaymentSuccessRate), func() {}, nil
	}

	conn, err := payment.Dial(cfg.PaymentServiceAddr)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("using payment service", "addr", cfg.PaymentServiceAddr)
	return payment.NewGRPCGateway(conn), func() { _ = conn.Close() }, nil
}

func newOrderPublisher(cfg config.Config) (ports.OrderEventPublisher, func()) {
	if cfg.AMQPURL == "" {
		return messaging.NopPublisher{}, func() {}
	}

	conn, ch, err := messaging.Connect(cfg.AMQPURL, 5)
	if err != nil {
		slog.Warn("order events disabled", "error", err)
		return messaging.NopPublisher{}, func() {}
	}
	return messaging.NewPublisher(ch), func() {
		_ = ch.Close()
		_ = conn.Close()
	}
}

// clearCacheOnHangup drops the catalog cache whenever the process gets SIGHUP.
func clearCacheOnHangup(ctx context.Context, gateway *catalog.Gateway) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := gateway.ClearCache(ctx); err != nil {
				slog.Error("catalog cache clear failed", "error", err)
				continue
			}
			slog.Info("catalog cache cleared")
		}
	}
}
