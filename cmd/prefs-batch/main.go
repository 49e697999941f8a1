// Package main provides the preference batch rebuild CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/horse-prefs/internal/config"
	"github.com/yourusername/horse-prefs/internal/database"
	"github.com/yourusername/horse-prefs/internal/datasource"
	"github.com/yourusername/horse-prefs/internal/health"
	"github.com/yourusername/horse-prefs/internal/logger"
	"github.com/yourusername/horse-prefs/internal/metrics"
	"github.com/yourusername/horse-prefs/internal/repository"
	"github.com/yourusername/horse-prefs/internal/scheduler"
	"github.com/yourusername/horse-prefs/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	purgeFirst bool
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	engine     *service.Engine
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().BoolVar(&purgeFirst, "purge", false, "Delete each horse's stored rows before rebuilding")
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "prefs-batch",
	Short: "Rebuild horse preference tables from race history",
	Long:  `Fetches each horse's race history, rebuilds every preference dimension and upserts the results into PostgreSQL.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd.Context())
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run periodic full rebuilds on the configured cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScheduler(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("prefs-batch %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setupDependencies(ctx context.Context) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Preference engine starting")

	metrics.InitRegistry()

	db, err = database.Initialize(ctx, cfg, appLog)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db, appLog)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	sources, err := datasource.NewFactory(appLog).NewSources(cfg.Sources)
	if err != nil {
		return fmt.Errorf("failed to create race history sources: %w", err)
	}

	engine, err = service.NewEngine(sources, repos, appLog, cfg.Batch.ContinueOnError)
	if err != nil {
		return fmt.Errorf("failed to create rebuild engine: %w", err)
	}

	return nil
}

func runBatch(ctx context.Context) error {
	engine.SetPurge(purgeFirst)

	horses, err := engine.ListHorses(ctx)
	if err != nil {
		return err
	}

	appLog.WithField("horses", len(horses)).Info("Starting full rebuild")

	report, err := engine.RebuildHorses(ctx, horses)
	if err != nil {
		return err
	}

	fmt.Printf("Batch %s finished\n", report.BatchID)
	fmt.Printf("  Horses rebuilt:  %d/%d\n", report.HorsesRebuilt, report.HorsesTotal)
	fmt.Printf("  Horses failed:   %d\n", report.HorsesFailed)
	fmt.Printf("  Records read:    %d\n", report.RecordsRead)
	fmt.Printf("  Records skipped: %d\n", report.RecordsSkipped)
	fmt.Printf("  Rows written:    %d\n", report.RowsWritten)
	fmt.Printf("  Duration:        %s\n", report.Duration.Round(time.Millisecond))

	if report.HorsesFailed > 0 {
		return fmt.Errorf("%d horses failed to rebuild", report.HorsesFailed)
	}
	return nil
}

func runScheduler(ctx context.Context) error {
	if !cfg.Scheduler.Enabled {
		return fmt.Errorf("scheduler is disabled in configuration")
	}

	sched := scheduler.NewScheduler(engine, appLog)
	if err := sched.ScheduleRebuild(cfg.Scheduler.RebuildCron); err != nil {
		return fmt.Errorf("failed to schedule rebuild: %w", err)
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	appLog.WithField("next_run", sched.GetNextRun()).Info("Scheduler started")

	var ops *health.Server
	if cfg.Metrics.Enabled {
		ops = health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Port:        cfg.Metrics.Port,
			MetricsPath: cfg.Metrics.Path,
			Logger:      appLog,
			DB:          db,
		})
		if err := ops.Start(ctx); err != nil {
			return fmt.Errorf("failed to start ops server: %w", err)
		}
		ops.SetReady(true)
	}

	<-ctx.Done()
	appLog.Info("Shutting down")

	if ops != nil {
		ops.SetReady(false)
	}
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Failed to stop scheduler")
	}

	return nil
}
