/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the PTO planner server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command line (kong)
  2. Load TOML config, apply flag overrides, validate
  3. Open the log file
  4. Open the settings store (SQLite or memory)
  5. Create API handler, router and accrual scheduler
  6. Start server with graceful shutdown

COMMANDS:
  serve        Run the HTTP server (default)
  init-config  Write a config file with default values

FLAGS (serve):
  --config     TOML config path (default: pto.toml, optional)
  --port       HTTP server port
  --db         SQLite database path; ":memory:" for a throwaway database
  --db-type    sqlite or memory
  --log-dir    Directory for the rotating log file
  --debug      Debug logging, mirrored to stderr

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the accrual scheduler
  4. Close the store and log file

EXAMPLES:
  ./server --db=./data/pto.db
  ./server --db-type=memory --debug
  ./server init-config --config=./pto.toml

SEE ALSO:
  - config/config.go: Config file format
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/warp/pto-planner/api"
	"github.com/warp/pto-planner/config"
	"github.com/warp/pto-planner/logging"
	"github.com/warp/pto-planner/pto"
	"github.com/warp/pto-planner/store/memory"
	"github.com/warp/pto-planner/store/sqlite"
)

var version = "dev"

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"pto.toml"`

	Serve      ServeCmd      `cmd:"" help:"Run the HTTP server." default:"1"`
	InitConfig InitConfigCmd `cmd:"" name:"init-config" help:"Write a config file with default values."`
}

// ServeCmd flags override values from the config file when set.
type ServeCmd struct {
	Port   int    `help:"HTTP server port."`
	DB     string `name:"db" help:"SQLite database path."`
	DBType string `name:"db-type" help:"Store type (sqlite or memory)."`
	LogDir string `name:"log-dir" help:"Log directory."`
	Debug  bool   `help:"Enable debug logging to stderr."`
}

// InitConfigCmd writes the default config to --config.
type InitConfigCmd struct{}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("pto-server"),
		kong.Description("PTO balance planner: accrual projection and vacation checks"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Run creates the config file.
func (c *InitConfigCmd) Run() error {
	if err := config.Init(CLI.Config, config.Default()); err != nil {
		return err
	}
	fmt.Printf("Wrote default config to %s\n", CLI.Config)
	return nil
}

// Run starts the server and blocks until a shutdown signal.
func (c *ServeCmd) Run() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	interval, _ := cfg.Interval()

	logger, logFile, err := logging.New(logging.Config{
		Dir:        cfg.Log.Dir,
		Level:      cfg.Log.Level,
		Debug:      c.Debug,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return err
	}
	defer logFile.Close()

	store, closeStore, err := openStore(cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open store", "type", cfg.Database.Type, "err", err)
		return err
	}
	defer closeStore()

	handler := api.NewHandler(store, pto.RealClock{}, logger)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	scheduler := api.NewAccrualScheduler(handler.Accrual, logger)
	scheduler.CheckInterval = interval
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port), "store", cfg.Database.Type)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", "err", err)
			return err
		}
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}

func (c *ServeCmd) apply(cfg *config.Config) {
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.DBType != "" {
		cfg.Database.Type = c.DBType
	}
	if c.DB != "" {
		cfg.Database.Path = c.DB
	}
	if c.LogDir != "" {
		cfg.Log.Dir = c.LogDir
	}
	if c.Debug {
		cfg.Log.Level = "debug"
	}
}

func openStore(cfg config.DatabaseConfig, logger *log.Logger) (pto.SettingsStore, func() error, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), func() error { return nil }, nil
	case "sqlite":
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		logger.Debug("sqlite store opened", "path", store.Path())
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown database type %q", cfg.Type)
	}
}
