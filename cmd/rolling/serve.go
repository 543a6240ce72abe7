package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/rolling-engine/api"
	"github.com/warp/rolling-engine/calendar"
	"github.com/warp/rolling-engine/internal/config"
	"github.com/warp/rolling-engine/internal/logger"
	"github.com/warp/rolling-engine/store/memory"
	"github.com/warp/rolling-engine/store/sqlite"
)

const shutdownTimeout = 30 * time.Second

// =============================================================================
// SERVE
// =============================================================================
//
// STARTUP SEQUENCE:
//   1. Load config (file, then flag overrides)
//   2. Open the store (SQLite, or memory when db_path is empty)
//   3. Load stored calendars into the registry, then seed config calendars
//      that are not stored yet
//   4. Start the calendar sync scheduler (sync_interval > 0)
//   5. Start the HTTP server
//
// GRACEFUL SHUTDOWN:
//   On SIGINT/SIGTERM stop accepting connections, wait up to 30s for active
//   requests, then close the store.

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Start the HTTP API server",
		Aliases: []string{"s"},
		Example: "rolling serve --config rolling.yaml --listen :9090",
		RunE:    runServe,
	}
	cmd.Flags().String("listen", "", "listen address (overrides listen_addr)")
	cmd.Flags().String("db", "", `SQLite database path (overrides db_path, "" for memory)`)
	cmd.Flags().String("log-mode", "", "development or production (overrides log_mode)")
	cmd.Flags().String("log-level", "", "log level (overrides log_level)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	store, closeStore, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := calendar.NewRegistry()
	if err := registry.Load(ctx, store); err != nil {
		log.Warn("some stored calendars could not be loaded", zap.Error(err))
	}
	if err := seedCalendars(ctx, registry, store, cfg.Calendars, log); err != nil {
		return err
	}

	handler := api.NewHandler(registry, store,
		api.WithLogger(log),
		api.WithScanLimit(cfg.ScanLimit),
		api.WithConcurrency(cfg.BatchConcurrency),
	)
	scheduler := api.NewSyncScheduler(handler, cfg.SyncInterval)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      api.NewRouter(handler, cfg.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", cfg.ListenAddr),
			zap.String("db", cfg.DBPath),
			zap.Int("calendars", len(registry.List())))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.ListenAddr, _ = flags.GetString("listen")
	}
	if flags.Changed("db") {
		cfg.DBPath, _ = flags.GetString("db")
	}
	if flags.Changed("log-mode") {
		cfg.LogMode, _ = flags.GetString("log-mode")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	return cfg, cfg.Validate()
}

func openStore(dbPath string) (calendar.Store, func(), error) {
	if dbPath == "" {
		return memory.New(), func() {}, nil
	}
	store, err := sqlite.New(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, func() { store.Close() }, nil
}

// seedCalendars stores and registers configured calendars that the store
// does not already hold. Stored calendars win so API edits survive restarts.
func seedCalendars(ctx context.Context, registry *calendar.Registry, store calendar.Store, defs []calendar.Definition, log *zap.Logger) error {
	for _, def := range defs {
		def.Normalize()
		_, err := store.GetCalendar(ctx, def.ID)
		if err == nil {
			log.Debug("calendar already stored, skipping seed", zap.String("calendar", def.ID))
			continue
		}
		if !errors.Is(err, calendar.ErrCalendarNotFound) {
			return fmt.Errorf("failed to check calendar %q: %w", def.ID, err)
		}

		cal, err := calendar.Build(def)
		if err != nil {
			return err
		}
		if err := store.SaveCalendar(ctx, calendar.DefinitionOf(cal)); err != nil {
			return fmt.Errorf("failed to seed calendar %q: %w", def.ID, err)
		}
		registry.Put(cal)
		log.Info("calendar seeded", zap.String("calendar", def.ID))
	}
	return nil
}
