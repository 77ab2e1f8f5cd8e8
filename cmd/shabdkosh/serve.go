// CLAUDE:SUMMARY CLI subcommands that serve a symbol table over HTTP (with SIGHUP hot reload) or MCP stdio.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/shabdkosh/pkg/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve <phone>",
	Short: "Start the HTTP API",
	Long: `Serve answers normalization queries over HTTP:

  GET  /v1/normalize/{word}
  POST /v1/normalize/batch   {"words": [...]}  (max 100)
  GET  /v1/symbols
  GET  /v1/health

SIGHUP reloads the symbol table from disk and flushes the result cache.
SIGINT and SIGTERM shut down gracefully. With --rate-limit above zero,
requests beyond the limit get 429.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

var mcpCmd = &cobra.Command{
	Use:   "mcp <phone>",
	Short: "Serve MCP tools over stdio",
	Long:  `Mcp exposes normalize_word, normalize_batch and list_symbols as MCP tools on stdin/stdout.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)

	serveCmd.Flags().String("addr", ":8421", "listen address")
	serveCmd.Flags().Duration("cache-ttl", 10*time.Minute, "normalize result cache TTL (0 disables)")
	serveCmd.Flags().Float64("rate-limit", 0, "requests per second (0 disables)")
	serveCmd.Flags().Int("burst", 20, "rate limit burst")
}

func loadService(path string) (*api.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	svc := api.NewService(path, cfg.Normalize.options())
	if err := svc.Load(); err != nil {
		return nil, err
	}
	logger.Info("symbol table loaded", "path", path, "symbols", svc.SymbolCount())
	return svc, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := loadService(args[0])
	if err != nil {
		return err
	}
	svc.EnableCache(cfg.Serve.CacheTTL)

	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           api.RateLimit(cfg.Serve.RateLimit, cfg.Serve.Burst)(api.NewRouter(svc, logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// SIGHUP: hot reload the table.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	defer signal.Stop(sighup)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading symbol table")
			if err := svc.Reload(); err != nil {
				logger.Error("reload failed", "error", err)
			} else {
				logger.Info("symbol table reloaded", "symbols", svc.SymbolCount())
			}
		}
	}()

	errc := make(chan error, 1)
	go func() {
		logger.Info("shabdkosh listening", "addr", cfg.Serve.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runMCP(cmd *cobra.Command, args []string) error {
	svc, err := loadService(args[0])
	if err != nil {
		return err
	}

	srv := server.NewMCPServer("shabdkosh", version, server.WithToolCapabilities(false))
	api.RegisterMCPTools(srv, svc, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("serving MCP over stdio")
	if err := server.NewStdioServer(srv).Listen(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
