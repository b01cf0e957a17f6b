package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hidef/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the hidef server",
	Long: `Start the hidef HTTP server.

The server keeps the term and click caches in memory for as long as it
runs. On start it resolves defaults.seed_terms in the background so the
landing page is ready for the first visitor. Config changes are picked
up without a restart.

The server provides:
  - /          - Redirect to the landing term
  - /d/{word}  - Definition page for a term
  - /c/{key}   - Definition page for a clicked word
  - /api/...   - JSON API (see hidef api --help)
  - /health    - Basic server health check
  - /ready     - Readiness check (includes the LLM provider)

Examples:
  hidef serve                    # Start on the configured port (default 8080)
  hidef serve --port 3000        # Start on custom port
  hidef serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, cm, err := loadConfig()
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		// Log to stdout and the server log in the home directory
		logFile, err := os.OpenFile(h.ServerLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open server log: %w", err)
		}
		defer logFile.Close()

		logger := slog.New(slog.NewTextHandler(io.MultiWriter(os.Stdout, logFile), &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		cm.SetLogger(logger)

		if path := cm.ConfigFile(); path != "" {
			logger.Info("using config file", "path", path)
			cm.WatchConfig()
		}

		cfg := cm.Get()
		host, port := serveHost, servePort
		if host == "" {
			host = cfg.Server.Host
		}
		if port == "" {
			port = cfg.Server.Port
		}

		// Create server
		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			ConfigManager: cm,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: server.host from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: server.port from config)")

	rootCmd.AddCommand(serveCmd)
}
