package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/mortgage-simulator/internal/logging"
	"github.com/iwvelando/mortgage-simulator/internal/server"
	"github.com/iwvelando/mortgage-simulator/internal/simulator"
	"github.com/iwvelando/mortgage-simulator/internal/source"
	"github.com/iwvelando/mortgage-simulator/pkg/constants"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	addressFlag := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	tableSource := flag.String("table-source", "", "financing table source override")
	flag.Parse()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if *addressFlag != "" {
		cfg.Address = *addressFlag
	}
	if *tableSource != "" {
		cfg.Table.Source = *tableSource
	}

	logger, err := logging.New(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	src, err := source.New(logger, cfg.Table.Source, cfg.Table.SourceOptions())
	if err != nil {
		logger.Fatal("failed to configure financing table source",
			zap.String("op", "main"),
			zap.String("source", cfg.Table.Source),
			zap.Error(err),
		)
	}

	timeout := cfg.Table.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultTableTimeoutSeconds * time.Second
	}
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), timeout)
	defer cancelLoad()

	// Simulations answer 503 until the load completes.
	sim := simulator.New(logger)
	loaded := sim.LoadAsync(loadCtx, src)
	go func() {
		if err := <-loaded; err != nil {
			logger.Error("financing table unavailable",
				zap.String("op", "main"),
				zap.String("source", src.Describe()),
				zap.Error(err),
			)
		}
	}()

	var limiter *server.RateLimiter
	if cfg.RateLimit > 0 {
		limiter = server.NewRateLimiter(cfg.RateLimit, time.Minute)
		defer limiter.Stop()
	}

	httpServer := &http.Server{
		Addr:         cfg.Address,
		Handler:      server.NewHandler(logger, sim, cfg.BodySizeBytes(), version, limiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.String("version", version),
			zap.Int64("maxBodySize", cfg.BodySizeBytes()),
			zap.Int("rateLimit", cfg.RateLimit),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return
	case sig := <-quit:
		logger.Info("shutting down server",
			zap.String("op", "main"),
			zap.String("signal", sig.String()),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("error during server shutdown",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	logger.Info("server exited", zap.String("op", "main"))
}
