package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-companion/backend/internal/config"
	"github.com/zhouzirui/z-companion/backend/internal/handler"
	"github.com/zhouzirui/z-companion/backend/internal/logging"
	"github.com/zhouzirui/z-companion/backend/internal/metrics"
	"github.com/zhouzirui/z-companion/backend/internal/service/chat"
	"github.com/zhouzirui/z-companion/backend/internal/service/companion"
	"github.com/zhouzirui/z-companion/backend/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Info("no .env file loaded, using system environment only", zap.Error(envErr))
	}

	var (
		observer       metrics.Observer = metrics.Nop{}
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		promObserver, err := metrics.NewPrometheusObserver(cfg.Metrics.Namespace, reg)
		if err != nil {
			logger.Fatal("failed to register metrics", zap.Error(err))
		}
		observer = promObserver
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		logger.Fatal("failed to open conversation store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()
	logger.Info("conversation store ready", zap.String("driver", cfg.Store.Driver))

	companionService := companion.NewService(companion.NewEngine(nil), observer, logger.Named("companion"))
	chatService := chat.NewService(store, companionService, cfg.Companion.EmotionHistoryLimit, logger.Named("chat"))

	router := handler.NewRouter(handler.Deps{
		Companion: companionService,
		Chat:      chatService,
		Metrics:   metricsHandler,
		Logger:    logger.Named("http"),
	})

	startServer(ctx, logger, cfg.Server, router)
}

func openStore(ctx context.Context, cfg config.StoreConfig) (chat.Store, func(), error) {
	switch cfg.Driver {
	case config.StorePostgres:
		pg, err := storage.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	case config.StoreMemory, "":
		mem, err := chat.NewMemoryStore(cfg.MaxConversations)
		if err != nil {
			return nil, nil, err
		}
		return mem, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func startServer(ctx context.Context, logger *zap.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("Z Companion backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
