// Package main provides a CLI for rebuilding individual horses.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/horse-prefs/internal/config"
	"github.com/yourusername/horse-prefs/internal/database"
	"github.com/yourusername/horse-prefs/internal/datasource"
	"github.com/yourusername/horse-prefs/internal/logger"
	"github.com/yourusername/horse-prefs/internal/repository"
	"github.com/yourusername/horse-prefs/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		horses     = flag.String("horses", "", "Comma-separated horse IDs to rebuild (empty for all)")
		stopOnErr  = flag.Bool("stop-on-error", false, "Abort on the first horse that fails")
		purge      = flag.Bool("purge", false, "Delete each horse's stored rows before rebuilding")
	)
	flag.Parse()

	ctx := context.Background()
	appLog := newLogger()

	cfg := loadConfigWithSecrets(*configPath, appLog)
	engine, db := buildEngine(ctx, cfg, appLog, !*stopOnErr)
	defer db.Close()
	engine.SetPurge(*purge)

	horseIDs := splitHorses(*horses)
	if len(horseIDs) == 0 {
		var err error
		horseIDs, err = engine.ListHorses(ctx)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to list horses")
		}
	}

	appLog.WithField("horses", len(horseIDs)).Info("Starting rebuild")

	report, err := engine.RebuildHorses(ctx, horseIDs)
	if err != nil {
		appLog.WithError(err).Fatal("Rebuild failed")
	}

	fmt.Printf("Batch %s: rebuilt %d/%d horses (%d failed) in %s, %d rows written\n",
		report.BatchID, report.HorsesRebuilt, report.HorsesTotal, report.HorsesFailed,
		report.Duration.Round(time.Millisecond), report.RowsWritten)

	if report.HorsesFailed > 0 {
		os.Exit(1)
	}
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	return log
}

func loadConfigWithSecrets(path string, appLog *logrus.Logger) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to load config")
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			appLog.Fatal("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			appLog.WithError(err).Fatal("Failed to load secrets")
		}
	}

	if err := config.Validate(cfg); err != nil {
		appLog.WithError(err).Fatal("Invalid configuration")
	}

	appLog.SetLevel(logger.NewLogger(cfg.App.LogLevel).GetLevel())
	return cfg
}

func buildEngine(ctx context.Context, cfg *config.Config, appLog *logrus.Logger, continueOnError bool) (*service.Engine, *database.DB) {
	db, err := database.Initialize(ctx, cfg, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}

	repos, err := repository.NewRepositories(db, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	sources, err := datasource.NewFactory(appLog).NewSources(cfg.Sources)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create race history sources")
	}

	engine, err := service.NewEngine(sources, repos, appLog, continueOnError)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create rebuild engine")
	}

	return engine, db
}

func splitHorses(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	horses := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			horses = append(horses, id)
		}
	}
	return horses
}
