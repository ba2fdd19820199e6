package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/TwiN/go-color"
	"github.com/spf13/cobra"

	"carnorm/internal/api"
	"carnorm/internal/config"
	"carnorm/internal/export"
)

var (
	servePort   int
	serveHost   string
	serveAssets string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API server",
	Long: `Start the carnorm HTTP API server. POST a JSON array of car records to
/v1/normalize to get the canonical, sorted result back. With --assets the
given directory (for example the browser front-end) is served at /.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&serveAssets, "assets", "", "Directory of static files to serve at /")
}

// serverSettings merges serve flags over the config.
func serverSettings(cmd *cobra.Command, cfg *config.Config) (string, api.ServerConfig, error) {
	host := cfg.Serve.Host
	if cmd.Flags().Changed("host") {
		host = serveHost
	}
	port := cfg.Serve.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}
	assets := cfg.Serve.AssetsDir
	if cmd.Flags().Changed("assets") {
		assets = serveAssets
	}
	if assets != "" {
		info, err := os.Stat(assets)
		if err != nil {
			return "", api.ServerConfig{}, fmt.Errorf("assets directory: %w", err)
		}
		if !info.IsDir() {
			return "", api.ServerConfig{}, fmt.Errorf("assets directory: %s is not a directory", assets)
		}
	}

	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		return "", api.ServerConfig{}, err
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	return addr, api.ServerConfig{
		MaxBodyBytes: cfg.Serve.MaxBodyBytes,
		AssetsDir:    assets,
		Output:       export.Options{Format: format, Indent: cfg.Output.Indent},
	}, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	addr, serverCfg, err := serverSettings(cmd, cfg)
	if err != nil {
		return err
	}

	server := api.NewServer(addr, logger, serverCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		fmt.Fprintf(cmd.OutOrStdout(), "carnorm HTTP API server listening on %shttp://%s%s\n", color.Red, addr, color.Reset)
		fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
	case <-ctx.Done():
		logger.Info("Received shutdown signal", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during shutdown", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}

		logger.Info("Server stopped gracefully", nil)
	}

	return nil
}
