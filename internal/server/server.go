// Package server boots the HTTP (and optional gRPC) surface: config,
// logging, database, cache, storage, routes, then a graceful shutdown on
// SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/maplecart/app/routes"
	"github.com/shashiranjanraj/maplecart/config"
	"github.com/shashiranjanraj/maplecart/pkg/cache"
	"github.com/shashiranjanraj/maplecart/pkg/database"
	"github.com/shashiranjanraj/maplecart/pkg/grpcserver"
	"github.com/shashiranjanraj/maplecart/pkg/logger"
	"github.com/shashiranjanraj/maplecart/pkg/metrics"
	"github.com/shashiranjanraj/maplecart/pkg/middleware"
	"github.com/shashiranjanraj/maplecart/pkg/reqid"
	"github.com/shashiranjanraj/maplecart/pkg/router"
	"github.com/shashiranjanraj/maplecart/pkg/storage"
)

// Start boots everything and blocks until the process is signalled.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = database.Close(shutdownCtx)
	}()

	var logSink *logger.MongoHandler
	if config.LogMongoEnabled() {
		sink, err := logger.NewMongoHandler(config.MongoURI(), config.MongoDatabase(), "logs")
		if err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		} else {
			logSink = sink
			logger.SetHandler(logger.NewMultiHandler(logger.L.Handler(), sink))
		}
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
	}
	storage.Connect()

	r := router.New()
	r.Use(
		reqid.Middleware(),
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(middleware.DefaultCORSOptions()),
		metrics.Middleware(),
	)
	r.HandleFunc("/metrics", metrics.Handler())
	hub := routes.RegisterAPI(r)

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("http server listening", "port", config.AppPort(), "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var grpcSrv *grpcserver.Server
	if port := config.GRPCPort(); port != "" {
		grpcSrv = grpcserver.New()
		go func() {
			if err := grpcSrv.Start(port); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server failed", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if grpcSrv != nil {
		grpcSrv.Stop()
	}
	hub.Stop()
	if logSink != nil {
		logSink.Close()
	}
	return nil
}
