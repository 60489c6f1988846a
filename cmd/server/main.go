// Command server serves the files of a public directory over HTTP/1.1.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"http-server/application/http/actor/server"
	"http-server/application/website"
	"http-server/config"
	"http-server/transport/tcp"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		slog.Error("failed to build logger", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Log) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	handler, err := website.New(cfg.Website.PublicPath, logger, website.Options{
		CacheTTL: cfg.Website.CacheTTL,
	})
	if err != nil {
		return err
	}

	addr, err := tcp.ResolveAddr(cfg.Server.Host, cfg.Server.Port)
	if err != nil {
		return err
	}

	l, err := tcp.Listen(addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", cfg.Server.Addr())
	}
	defer l.Close()

	srv, err := server.New(l, logger, clock.New(), handler, server.Options{
		BufferSize: cfg.Server.BufferSize,
		Timeout: server.TimeoutOptions{
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		Registerer: prometheus.DefaultRegisterer,
	})
	if err != nil {
		return err
	}

	if cfg.Metrics.Addr != "" {
		metrics := serveMetrics(cfg.Metrics.Addr, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metrics.Shutdown(shutdownCtx)
		}()
	}

	srv.Start()
	<-ctx.Done()

	return srv.Close()
}

func serveMetrics(addr string, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics exporter failed", "error", err)
		}
	}()

	return s
}
