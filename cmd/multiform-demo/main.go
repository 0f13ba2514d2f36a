package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-multiform/internal/demo"
	"github.com/goliatone/go-multiform/pkg/config"
	"github.com/goliatone/go-multiform/pkg/metrics"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := cfg.Logger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Server, logger *zap.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector()
	if err := collector.Register(registry); err != nil {
		return err
	}

	engine, err := demo.NewEngine(cfg.TemplatesDir)
	if err != nil {
		return err
	}

	opts := demo.Options{
		Logger:    logger,
		Observer:  collector,
		Engine:    engine,
		MaxMemory: cfg.MaxMemory,
	}
	if path := strings.TrimSpace(cfg.ConfigPath); path != "" {
		doc, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		opts.Document = &doc
	}
	if strings.TrimSpace(cfg.Theme) != "" {
		opts.Theme = demo.Themes()
		opts.ThemeName = cfg.Theme
		opts.ThemeVariant = cfg.ThemeVariant
	}

	mux := http.NewServeMux()
	links, err := demo.Mount(mux, opts)
	if err != nil {
		return err
	}
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	for _, link := range links {
		logger.Info("view mounted", zap.String("view", link.Title), zap.String("path", link.Path))
	}
	logger.Info("listening", zap.String("addr", cfg.Addr))

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	logger.Info("shutting down", zap.Duration("grace", cfg.ShutdownGrace))
	return httpServer.Shutdown(shutdownCtx)
}
