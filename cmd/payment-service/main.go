package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	paymentservice "github.com/jcmexdev/storefront/internal/payment-service/app"
	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/pkg/config"
	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/storefront/internal/pkg/paymentrpc"
	"github.com/jcmexdev/storefront/internal/pkg/randx"
	"github.com/jcmexdev/storefront/internal/pkg/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadPayment()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger("payment-service", cfg.LogLevel)

	shutdown, err := telemetry.SetupTracer(ctx, "payment-service", cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	addr := ":" + cfg.Port
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		slog.Error("failed to listen", "addr", addr, "error", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.TraceServerInterceptor()),
	)

	var charges cache.Store[paymentservice.ChargeRecord]
	if cfg.CacheBackend == config.CacheBackendRedis {
		client := cache.NewRedisClient(cfg.RedisAddr)
		defer client.Close()
		charges = cache.NewRedisStore[paymentservice.ChargeRecord](client, "payment", cfg.IdempotencyTTL)
	} else {
		charges = cache.NewMemoryStore[paymentservice.ChargeRecord](cfg.IdempotencyTTL)
	}

	simulator := paymentservice.NewSimulator(randx.New(cfg.RandomSeed), cfg.SuccessRate)
	paymentrpc.RegisterPaymentServer(grpcServer, paymentservice.NewServer(simulator, charges))

	go func() {
		<-ctx.Done()
		slog.Info("payment service shutting down")
		grpcServer.GracefulStop()
	}()

	slog.Info("payment service gRPC running", "addr", addr, "success_rate", cfg.SuccessRate)
	if err := grpcServer.Serve(lis); err != nil {
		slog.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}
