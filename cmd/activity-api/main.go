package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/lzjever/mbos-activity/internal/activity/events"
	"github.com/lzjever/mbos-activity/internal/api"
	"github.com/lzjever/mbos-activity/internal/api/middleware"
	"github.com/lzjever/mbos-activity/internal/observability"
	"github.com/lzjever/mbos-activity/internal/store"
)

func main() {
	var cfg api.Config
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, _ := observability.NewLogger(cfg.LogLevel, zap.String("service", "activity-api"))
	defer log.Sync()

	// Replace global logger
	zap.ReplaceGlobals(log)

	reg := prometheus.DefaultRegisterer
	observability.RegisterAll(reg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// A duplicate decoder registration is fatal at startup.
	registry, err := events.NewRegistry()
	if err != nil {
		log.Fatal("decoder registry", zap.Error(err))
	}
	log.Info("decoder registry loaded", zap.Int("decoders", registry.Len()))

	backend, err := store.OpenBackend(ctx, cfg.StoreDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("db connect failed", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer backend.Close()

	if cfg.AutoMigrate {
		if err := backend.Migrate(ctx); err != nil {
			log.Fatal("migrations failed", zap.Error(err))
		}
	}

	keys, err := backend.DistinctEventKinds(ctx)
	if err != nil {
		log.Fatal("list stored event kinds", zap.Error(err))
	}
	for _, k := range registry.Missing(keys) {
		log.Error("stored event kind has no decoder", zap.String("key", k.String()))
	}

	auth := middleware.NewAuthenticator(cfg.JWTSigningKey, cfg.JWTIssuer)

	// Main API server
	apiHandler := api.NewAPI(backend, registry, auth, log, cfg)
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      apiHandler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Metrics server
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: mux,
	}

	// gRPC health server
	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("metrics server starting", zap.String("addr", cfg.MetricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Info("API server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("API server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		log.Info("gRPC health server starting", zap.String("addr", cfg.GRPCAddr))
		return grpcSrv.Serve(lis)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down API server")
		healthSrv.Shutdown()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()

		_ = srv.Shutdown(shutdownCtx)
		_ = metricsSrv.Shutdown(shutdownCtx)
		grpcSrv.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server failed", zap.Error(err))
	}
	log.Info("API server stopped")
}
