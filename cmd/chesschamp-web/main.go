package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	appcfg "github.com/Zer0will/chesschamp/internal/config"
	"github.com/Zer0will/chesschamp/internal/obslog"
	"github.com/Zer0will/chesschamp/internal/web"
	"github.com/Zer0will/chesschamp/internal/web/paystore"
	"github.com/Zer0will/chesschamp/internal/web/stripeapi"
)

func main() {
	_ = godotenv.Load()
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store paystore.Store
	if cfg.RedisURL != "" {
		store, err = paystore.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis store init error: %v", err)
		}
		obslog.L().Info("payment store: redis")
	} else {
		store = paystore.NewMemoryStore()
		obslog.L().Info("payment store: memory")
	}
	defer store.Close()

	var stripe *stripeapi.Client
	if cfg.StripeSecretKey != "" {
		stripe = stripeapi.NewClient(cfg.StripeSecretKey)
	}

	launcher := web.NewProcessLauncher(cfg.GameBinary)
	server := web.New(*cfg, store, stripe, launcher)

	addr := ":" + strconv.Itoa(cfg.Port)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		obslog.L().Info("web server listening",
			zap.String("addr", addr),
			zap.Bool("simulation", cfg.EnableSimulation))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obslog.L().Fatal("web server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	obslog.L().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		obslog.L().Warn("shutdown", zap.Error(err))
	}
}
