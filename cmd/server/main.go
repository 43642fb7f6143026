/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the scheme ledger server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, defaults) and apply flags
  2. Build the logger
  3. Open the key/value store and load the ledger from it
  4. Create API handler and backup scheduler
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides PORT)
  -db      SQLite database path (overrides DB_PATH)
           Use ":memory:" for a throwaway in-memory store
  -env     Path of a .env file (default: .env)

ENVIRONMENT:
  PORT, DB_PATH, STATE_KEY, LOG_LEVEL, LOG_FILE, SCHEME_NAME, SCHOOL_NAME,
  CURRENCY_SYMBOL, ALLOWED_ORIGINS, BACKUP_INTERVAL (see config/config.go)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the backup scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

EXAMPLES:
  # Run with file database
  ./server -db="./data/btels.db"

  # Run with in-memory database and demo data loaded via the API
  ./server -db=":memory:"

  # Run on different port
  ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - ledger/engine.go: The ledger
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/btels/scheme-ledger/api"
	"github.com/btels/scheme-ledger/config"
	"github.com/btels/scheme-ledger/ledger"
	"github.com/btels/scheme-ledger/ledger/store"
	"github.com/btels/scheme-ledger/logging"
	"github.com/btels/scheme-ledger/report"
	"github.com/btels/scheme-ledger/store/sqlite"
)

const memoryDB = ":memory:"

func main() {
	// Flags
	port := flag.Int("port", 0, "HTTP server port (overrides PORT)")
	dbPath := flag.String("db", "", "SQLite database path, or :memory: (overrides DB_PATH)")
	envFile := flag.String("env", ".env", "Path of an optional .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server failed")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	// Initialize store
	var kv api.BackupStore
	if cfg.DBPath == memoryDB {
		kv = store.NewMemory()
		logger.Warn("using in-memory store; data is lost on exit")
	} else {
		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()
		kv = db
	}

	eng, err := ledger.Open(context.Background(),
		ledger.NewKeyedStore(kv, cfg.StateKey),
		ledger.WithLogger(logger.WithField("component", "ledger")),
	)
	if err != nil {
		return err
	}

	branding := report.Branding{
		SchemeName: cfg.SchemeName,
		SchoolName: cfg.SchoolName,
		Currency:   cfg.CurrencySymbol,
	}
	handler := api.NewHandler(eng, branding, logger.WithField("component", "api"))

	backups := api.NewBackupScheduler(eng, kv, logger.WithField("component", "backup"))
	backups.Interval = cfg.BackupInterval
	backups.Enabled = cfg.BackupInterval > 0
	handler.Backups = backups
	backups.Start()
	defer backups.Stop()

	// Create router
	router := api.NewRouter(handler, cfg.AllowedOrigins, logger.WithField("component", "http"))

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"port":      cfg.Port,
			"db":        cfg.DBPath,
			"state_key": cfg.StateKey,
		}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
