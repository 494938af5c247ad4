package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "time/tzdata"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	middleware "github.com/rgdevment/service-report/internal/platform/http/middleware"

	"github.com/rgdevment/service-report/internal/app"
	"github.com/rgdevment/service-report/internal/config"
	httpHandler "github.com/rgdevment/service-report/internal/platform/http"
	"github.com/rgdevment/service-report/internal/platform/logger"
	"github.com/rgdevment/service-report/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	logr, err := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("❌ Logger error: %v", err)
	}
	defer func() { _ = logr.Sync() }()

	logr.Info("🧾 Starting service report form", map[string]interface{}{
		"app":      cfg.App.Name,
		"env":      cfg.App.Environment,
		"driver":   cfg.Relay.Driver,
		"env_file": cfg.EnvFile,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logr, reg)
	if err != nil {
		logr.WithError(err).Error("❌ Failed to assemble form service", nil)
		os.Exit(1)
	}

	sessions := httpHandler.NewSessionStore()
	defer sessions.CloseAll()

	factory := func() (*service.Controller, error) { return a.NewController() }
	handler := httpHandler.NewHandler(sessions, factory, a.Locale, cfg.Relay.Timeout, logr)

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.HTTP.APIKey))
		handler.RegisterRoutes(r)
	})

	if cfg.HTTP.APIKey == "" {
		logr.Warn("⚠️  http.api_key is empty, /v1 is open", nil)
	}

	go sweep(ctx, sessions, cfg.HTTP.SessionTTL, logr)

	srv := &http.Server{Addr: cfg.HTTP.Port, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Relay.Timeout+time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logr.Info("🚀 Listening", map[string]interface{}{"addr": cfg.HTTP.Port})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.WithError(err).Error("❌ HTTP server error", nil)
		os.Exit(1)
	}
	logr.Info("👋 Shut down", nil)
}

// sweep closes sessions nobody has touched for ttl.
func sweep(ctx context.Context, sessions *httpHandler.SessionStore, ttl time.Duration, logr logger.Logger) {
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(ttl); n > 0 {
				logr.Debug("swept idle sessions", map[string]interface{}{"count": n, "open": sessions.Len()})
			}
		}
	}
}
