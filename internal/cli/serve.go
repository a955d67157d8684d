package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/juliosaraiva/a3data-sub001/internal/cache"
	"github.com/juliosaraiva/a3data-sub001/internal/extract"
	"github.com/juliosaraiva/a3data-sub001/internal/llm"
	"github.com/juliosaraiva/a3data-sub001/internal/logging"
	"github.com/juliosaraiva/a3data-sub001/internal/server"
)

var (
	serveHost     string
	servePort     int
	serveProvider string
	serveModel    string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the extraction HTTP API",
	Long: `Serve exposes the extraction pipeline over HTTP:

  POST /api/v1/extract   {"description": "..."}  -> structured record
  GET  /health           gateway availability and version

Example:
  incident-extractor serve --port 8000
  incident-extractor serve --provider ollama --model llama3.1:8b`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind host (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "bind port (default from config)")
	serveCmd.Flags().StringVar(&serveProvider, "provider", "", "LLM provider (ollama, openai, mock)")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "LLM model name")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveProvider != "" {
		cfg.LLM.Provider = serveProvider
	}
	if serveModel != "" {
		cfg.LLM.Model = serveModel
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return fmt.Errorf("create LLM provider: %w", err)
	}

	extractor := extract.NewExtractor(cfg, provider, logger)
	memCache := cache.NewMemoryCache(cfg.Cache.ResultTTL, 10*time.Minute)

	srv, err := server.NewServer(cfg, extractor, provider, memCache, logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
