// Command pgshimd runs a standalone pgshim server backed by a small
// in-memory dataset, demonstrating how an embedding application wires its
// own tables into server.Hooks.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pgshim/pgshim/config"
	"github.com/pgshim/pgshim/server"
	"github.com/pgshim/pgshim/sql/ast"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Error("failed to load config", "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	registry := prometheus.NewRegistry()
	metrics := server.NewMetrics(registry)

	opts := []server.OptionFn{
		server.WithLogger(logger),
		server.WithHooks(server.RecoverHook(newMemoryHooks())),
		server.WithApplicationName(cfg.ApplicationName),
		server.WithMaxClients(cfg.MaxClients),
		server.WithRequireEncryption(cfg.RequireEncryption),
		server.WithSurfaceExecuteErrors(cfg.SurfaceExecuteErrors),
		server.WithIgnoreMissingStatementTypes(cfg.IgnoreMissingStatementTypes...),
		server.WithMetrics(metrics),
	}
	if cfg.BufferSize > 0 {
		opts = append(opts, server.WithBufferSize(cfg.BufferSize))
	}
	if cfg.TLSEnabled() {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			logger.Error("failed to load TLS keypair", "err", err)
			os.Exit(1)
		}
		opts = append(opts, server.WithTLSConfig(&tls.Config{Certificates: []tls.Certificate{cert}}))
	}

	srv := server.New(opts...)

	if cfg.MetricsListenAddress != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			logger.Info("serving metrics", "addr", cfg.MetricsListenAddress)
			if err := http.ListenAndServe(cfg.MetricsListenAddress, mux); err != nil {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := srv.Close(); err != nil {
			logger.Error("error during shutdown", "err", err)
		}
	}()

	logger.Info("listening", "addr", cfg.ListenAddress)
	if err := srv.ListenAndServe(cfg.ListenAddress); err != nil {
		logger.Error("server exited with an error", "err", err)
		os.Exit(1)
	}
}

// memoryHooks answers every query against a tiny fixed dataset, standing
// in for a real application's catalog of tables.
type memoryHooks struct {
	tables map[string][]map[string]string
	cols   map[string][]string
}

func newMemoryHooks() *memoryHooks {
	return &memoryHooks{
		tables: map[string][]map[string]string{
			"widgets": {
				{"id": "1", "name": "sprocket", "price": "9.99"},
				{"id": "2", "name": "gizmo", "price": "14.50"},
			},
		},
		cols: map[string][]string{
			"widgets": {"id", "name", "price"},
		},
	}
}

func (h *memoryHooks) QueryTables(ctx context.Context, stmt *ast.SelectStatement) ([]map[string]string, []string, error) {
	if len(stmt.From) == 0 {
		return nil, nil, nil
	}

	name := stmt.From[0].Name
	return h.tables[name], h.cols[name], nil
}

func (h *memoryHooks) ListTables(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(h.tables))
	for name := range h.tables {
		names = append(names, name)
	}
	return names, nil
}

func (h *memoryHooks) DescribeTable(ctx context.Context, table string) ([]string, error) {
	return h.cols[table], nil
}
