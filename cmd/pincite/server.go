package pincite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pincite/pincite"
	"github.com/pincite/pincite/pkg/config"
	pinciteLogger "github.com/pincite/pincite/pkg/logger"
	"github.com/pincite/pincite/pkg/metrics"
	"github.com/pincite/pincite/pkg/server"
	"github.com/pincite/pincite/pkg/store"
	"github.com/pincite/pincite/pkg/telemetry"
	"github.com/prometheus/client_golang/prometheus"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Pincite HTTP server",
	Long: `Start the Pincite HTTP server to provide REST API access to document
citation and search.

The server provides endpoints for:
- Processing documents into addressable segments
- Resolving citation references and their context
- Searching documents (exact, proximity, entity, hybrid)
- Suggestions, navigation maps and integrity reports
- Health checks and Prometheus metrics

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")

	// Store flags
	serverCmd.Flags().String("store-type", "badger", "Document store backend (badger, memory)")

	// Search flags
	serverCmd.Flags().Int("optimize-interval", 300, "Background optimizer interval in seconds (0 disables)")

	// Telemetry flags
	serverCmd.Flags().String("telemetry-parquet-path", "", "Path to directory for telemetry (errors and search logs)")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	overrideConfigWithFlags(cmd, cfg)

	// Validate configuration
	if err := validateServerConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Initialize Pincite
	fmt.Println("Initializing Pincite...")
	client, err := initializePincite(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize Pincite: %w", err)
	}

	// Create and setup server
	srv := server.New(cfg, client)
	srv.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background proximity-graph optimization
	client.StartOptimizer(ctx, time.Duration(cfg.Search.OptimizeInterval)*time.Second)

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		if err := client.Close(shutdownCtx); err != nil {
			return fmt.Errorf("store close error: %w", err)
		}

		fmt.Println("Server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	// Server flags
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	// Store flags
	if cmd.Flags().Changed("store-type") {
		cfg.Store.Type, _ = cmd.Flags().GetString("store-type")
	}

	// Search flags
	if cmd.Flags().Changed("optimize-interval") {
		cfg.Search.OptimizeInterval, _ = cmd.Flags().GetInt("optimize-interval")
	}

	// Telemetry flags
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}

func validateServerConfig(cfg *config.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}
	if cfg.Store.Type == "badger" && cfg.Store.Path == "" {
		return fmt.Errorf("store path is required for the badger backend")
	}
	return nil
}

// loadEntityPatterns reads the configured entity pattern override, if any.
func loadEntityPatterns(cfg *config.Config) ([]byte, error) {
	if cfg.Segmenter.EntityPatterns == "" {
		return nil, nil
	}
	data, err := os.ReadFile(cfg.Segmenter.EntityPatterns)
	if err != nil {
		return nil, fmt.Errorf("read entity patterns %s: %w", cfg.Segmenter.EntityPatterns, err)
	}
	return data, nil
}

func initializePincite(cfg *config.Config) (*pincite.Client, error) {
	logger := pinciteLogger.New(cfg.Log.Level, cfg.Log.Format)

	// Error telemetry wraps the base log handler when a path is configured;
	// search histories are snapshotted to the same directory on shutdown.
	var searchLog pincite.SearchLogger
	if cfg.Telemetry.ParquetPath != "" {
		parquetHandler, err := telemetry.NewParquetHandler(logger.Handler(), cfg.Telemetry.ParquetPath)
		if err != nil {
			fmt.Printf("Warning: Failed to initialize error tracking: %v\n", err)
		} else {
			logger = slog.New(parquetHandler)
			searchLog = telemetry.NewSearchLog(cfg.Telemetry.ParquetPath)
			fmt.Printf("Error tracking enabled at: %s\n", cfg.Telemetry.ParquetPath)
		}
	}

	entityPatterns, err := loadEntityPatterns(cfg)
	if err != nil {
		return nil, err
	}

	db, err := store.NewDocumentStore(&store.StoreConfig{
		Type: store.StoreType(cfg.Store.Type),
		Path: cfg.Store.Path,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create document store: %w", err)
	}

	client, err := pincite.NewClient(&pincite.Config{
		Logger:         logger,
		Store:          db,
		Metrics:        metrics.New(prometheus.DefaultRegisterer),
		SearchLog:      searchLog,
		EntityPatterns: entityPatterns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Pincite client: %w", err)
	}

	// Restore in-memory indexes for documents already in the store.
	ids, err := client.ListDocuments(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to list stored documents: %w", err)
	}
	for _, id := range ids {
		if _, err := client.Reprocess(context.Background(), id); err != nil {
			logger.Error("failed to restore document index", "document_id", id, "error", err)
		}
	}

	fmt.Printf("Pincite initialized with store: %s (%d documents restored)\n", cfg.Store.Type, len(ids))
	return client, nil
}
