package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yokitheyo/elm-notebook/internal/api"
	"github.com/yokitheyo/elm-notebook/internal/config"
	"github.com/yokitheyo/elm-notebook/internal/events"
	"github.com/yokitheyo/elm-notebook/internal/scratch"
	"github.com/yokitheyo/elm-notebook/internal/service"
)

const shutdownMargin = 10 * time.Second

// newServer derives every request context from ctx, so a shutdown signal
// cancels in-flight compiles and kills their compiler processes.
func newServer(ctx context.Context, addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:        addr,
		Handler:     h,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("DEBUG") != "" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Scratch.Dir, 0755); err != nil {
		logger.Fatal("failed to create scratch directory", zap.String("dir", cfg.Scratch.Dir), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runJanitor(ctx, cfg, logger)

	var publisher events.Publisher = events.Nop{}
	if cfg.Events.NATSURL != "" {
		p, err := events.NewNATSPublisher(events.NATSConfig{URL: cfg.Events.NATSURL, Subject: cfg.Events.Subject})
		if err != nil {
			logger.Warn("nats unavailable, compile events disabled", zap.String("url", cfg.Events.NATSURL), zap.Error(err))
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	svc := service.NewCompileService(cfg, publisher, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api.RegisterHandlers(r, svc, logger)

	srv := newServer(ctx, fmt.Sprintf(":%d", cfg.Server.Port), r)

	go func() {
		logger.Info("ready", zap.String("url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)),
			zap.String("compiler", cfg.Compiler.Path),
			zap.String("scratch_dir", cfg.Scratch.Dir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Request contexts are already canceled, so in-flight compilers are being
	// killed; the grace period only has to cover their cleanup.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Compiler.Timeout+shutdownMargin)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
}

func runJanitor(ctx context.Context, cfg *config.Config, logger *zap.Logger) {
	scratch.CleanStaleProjects(cfg.Scratch.Dir, cfg.Scratch.Retention, logger)

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scratch.CleanStaleProjects(cfg.Scratch.Dir, cfg.Scratch.Retention, logger)
		}
	}
}
