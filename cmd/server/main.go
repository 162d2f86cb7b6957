package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/hoursboard/timereport/internal/board"
	"github.com/hoursboard/timereport/internal/config"
	"github.com/hoursboard/timereport/internal/dashboard"
	httpadapter "github.com/hoursboard/timereport/internal/interfaces/http"
	"github.com/hoursboard/timereport/internal/report"
	"github.com/hoursboard/timereport/internal/repository"
	"github.com/hoursboard/timereport/internal/settings"
	"github.com/hoursboard/timereport/pkg/database"
	"github.com/hoursboard/timereport/pkg/logger"
)

func main() {
	// Local overrides for development; absence is fine.
	gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting time report widget backend",
		zap.String("board_id", cfg.Board.BoardID),
		zap.Int("port", cfg.Server.Port))

	loc, err := time.LoadLocation(cfg.Board.Timezone)
	if err != nil {
		log.Fatal("Invalid timezone", zap.Error(err))
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		log.Fatal("Failed to create data directory", zap.Error(err))
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, log)
	if err := migrator.Run(cfg.Database.MigrationsDir); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	reportRepo := repository.NewReportRepository(db, log)
	settingsRepo := repository.NewSettingsRepository(db, log)

	boardClient := board.NewClient(board.Config{
		BaseURL: cfg.Board.APIURL,
		Token:   cfg.Board.Token,
		Timeout: cfg.Board.APITimeout,
	}, log)

	settingsSvc := settings.NewService(settingsRepo, log)
	reportSvc := report.NewService(boardClient, reportRepo, cfg.Board.BoardID, cfg.Board.Columns, log)
	exporter := dashboard.NewExporter(log)

	// Migrate legacy label-keyed settings on startup so the rest of the
	// process only ever sees index-keyed mappings.
	migrateSettings(boardClient, settingsSvc, cfg, log)

	handlers := httpadapter.NewHandlers(settingsSvc, reportSvc, exporter, loc, log)
	srv := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Debug:        cfg.Logger.Level == "debug",
	}, handlers, log)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited successfully")
}

// migrateSettings upgrades a legacy label-keyed settings blob in place.
// Failures are logged and skipped; a board outage at startup must not keep
// the server from coming up.
func migrateSettings(client *board.Client, svc *settings.Service, cfg *config.Config, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Board.APITimeout)
	defer cancel()

	statusOptions, err := client.QueryStatusOptions(ctx, cfg.Board.BoardID, cfg.Board.Columns.EventType)
	if err != nil {
		log.Warn("Skipping settings migration, status column unavailable", zap.Error(err))
		return
	}

	approvalOptions, err := client.QueryStatusOptions(ctx, cfg.Board.BoardID, cfg.Board.Columns.Approval)
	if err != nil {
		log.Warn("Approval column unavailable, migrating event types only", zap.Error(err))
	}

	if _, err := svc.EnsureMigrated(ctx, statusOptions, approvalOptions); err != nil {
		log.Warn("Settings migration failed", zap.Error(err))
	}
}
