package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nemo-ecommerce/internal/config"
	"nemo-ecommerce/internal/database"
	handler "nemo-ecommerce/internal/handler/http"
	"nemo-ecommerce/internal/logger"
	"nemo-ecommerce/internal/repository"
	"nemo-ecommerce/internal/server"
	"nemo-ecommerce/internal/service"
	"nemo-ecommerce/internal/tracer"
	"nemo-ecommerce/internal/version"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	globalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Instance(logger.Instance())
	logger.Setup(logger.Options{
		Format:    cfg.LogFormat,
		Level:     cfg.LogLevel,
		RemoteURI: cfg.RemoteLogHttpURI,
		Job:       cfg.AppName,
	})

	logger.Info(globalCtx, cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("buildTime", version.BuildTime),
	)

	shutdownTracer, err := tracer.Init(globalCtx, cfg)
	if err != nil {
		logger.Error(globalCtx, "Failed to initialize tracer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// fail at boot on an unreachable MongoDB
	db := database.NewProvider(cfg.MongoURI, cfg.MongoDBName)
	if _, err := db.Database(globalCtx); err != nil {
		logger.Error(globalCtx, "Failed to connect to MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wiring
	productRepo := repository.NewProductRepository(db, cfg.MongoCollection)
	productService := service.NewProductService(productRepo)
	productHandler := handler.NewProductHandler(productService)

	healthService := service.NewHealthService(db)
	healthHandler := handler.NewHealthHandler(healthService)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := server.NewRouter(server.RouterOptions{
		MaxBodyBytes:       cfg.MaxBodyBytes,
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
		Registry:           registry,
	}, productHandler, healthHandler)

	stopHTTP, err := server.RunHTTP(globalCtx, ":"+cfg.AppPort, router)
	if err != nil {
		logger.Error(globalCtx, "Failed to start HTTP server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var stopGRPC server.CleanupFunc
	if cfg.GrpcPort != "" {
		grpcServer, healthServer := server.NewGRPCHealthServer()
		go server.SyncHealth(globalCtx, healthService, healthServer, 10*time.Second)

		stopGRPC, err = server.RunGRPC(globalCtx, ":"+cfg.GrpcPort, grpcServer)
		if err != nil {
			logger.Error(globalCtx, "Failed to start gRPC server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	<-globalCtx.Done()
	logger.Info(context.Background(), "Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := stopHTTP(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "HTTP shutdown failed", slog.String("error", err.Error()))
	}
	if stopGRPC != nil {
		_ = stopGRPC(shutdownCtx)
	}
	if err := db.Close(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "MongoDB disconnect failed", slog.String("error", err.Error()))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Error shutting down tracer provider", slog.String("error", err.Error()))
	}
	logger.Info(shutdownCtx, "Server exited cleanly")
}
