package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/nqoctai/bookstore-gateway/internal/api"
	"github.com/nqoctai/bookstore-gateway/internal/backend"
	"github.com/nqoctai/bookstore-gateway/internal/config"
	gwhttp "github.com/nqoctai/bookstore-gateway/internal/http"
	"github.com/nqoctai/bookstore-gateway/internal/http/handlers"
	"github.com/nqoctai/bookstore-gateway/internal/http/middleware"
	"github.com/nqoctai/bookstore-gateway/internal/tokens"
	"github.com/nqoctai/bookstore-gateway/internal/ws"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting bookstore-gateway", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	var store tokens.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if cerr := rdb.Close(); cerr != nil {
				log.Warn("redis_close_failed", slog.String("err", cerr.Error()))
			}
		}()
		store = tokens.NewRedis(rdb, "gateway", cfg.Redis.TTL)
		log.Info("token_store", "kind", "redis", "addr", cfg.Redis.Addr)
	} else {
		store = tokens.NewMemory()
		log.Info("token_store", "kind", "memory")
	}

	cl := backend.New(backend.Config{
		BaseURL:     cfg.Backend.BaseURL,
		SelfURL:     cfg.Backend.SelfURL,
		RefreshPath: "/api/auth/refresh-token",
		Store:       store,
		Timeout:     cfg.Timeouts.Backend,
		UserAgent:   cfg.Backend.UserAgent,
		Logger:      log,
	})
	a := api.New(cl)

	hub := ws.NewHub(log)
	go hub.Run(rootCtx)

	resolver := middleware.NewHTTPAccountResolver(
		cfg.Backend.SelfURL+"/api/auth/account",
		cfg.Timeouts.Backend,
	)

	apiHandler := gwhttp.NewRouter(a, gwhttp.Options{
		Logger:  log,
		Timeout: cfg.Timeouts.Service,
		Session: handlers.SessionConfig{
			CookieSecure:   cfg.Session.CookieSecure,
			MismatchPolicy: handlers.MismatchPolicy(cfg.Session.MismatchPolicy),
		},
		Resolver: resolver,
		PagesDir: cfg.Pages.Dir,
		Chat:     ws.NewHandler(hub, a.Chat, log),
	})

	var ready int32 // 0 — not ready; 1 — ready

	// Служебный сервер (liveness/readiness/метрики) — на отдельном порту.
	opsMux := http.NewServeMux()
	opsMux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	opsMux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	opsMux.Handle("/metrics", promhttp.Handler())

	opsAddr := cfg.Metrics.Addr()
	opsSrv := &http.Server{
		Addr:              opsAddr,
		Handler:           opsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("ops_listen_start", slog.String("addr", opsAddr))
		if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("ops_serve_failed", slog.String("err", err.Error()))
		}
	}()

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           apiHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("gateway_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("ops_shutdown_incomplete", slog.String("err", err.Error()))
	}

	log.Info("service_stopped")
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
