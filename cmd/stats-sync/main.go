// Package main provides the stats-sync command line interface.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/statssync/stats-sync/internal/analysis"
	"github.com/statssync/stats-sync/internal/cache"
	"github.com/statssync/stats-sync/internal/config"
	"github.com/statssync/stats-sync/internal/database"
	"github.com/statssync/stats-sync/internal/history"
	"github.com/statssync/stats-sync/internal/logger"
	"github.com/statssync/stats-sync/internal/models"
	"github.com/statssync/stats-sync/internal/parlay"
	"github.com/statssync/stats-sync/internal/provider"
	"github.com/statssync/stats-sync/internal/scheduler"
	"github.com/statssync/stats-sync/internal/server"
	"github.com/statssync/stats-sync/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(serveCmd, refreshCmd, propsCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "stats-sync",
	Short: "Player prop parlay generation service",
	Long:  `Fetches player props from odds providers, scores them against historical results, and assembles tiered parlays.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return setup()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and refresh scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh [sport]",
	Short: "Regenerate parlays once and exit",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRefresh(args)
	},
}

var propsCmd = &cobra.Command{
	Use:   "props <sport>",
	Short: "Print the current prop slate for a sport",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProps(args[0])
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stats-sync %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Load AWS secrets if enabled
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
	return nil
}

// buildService wires the history repository, providers, cache, and parlay
// service from configuration. The returned cleanup closes held resources.
func buildService(ctx context.Context) (*service.ParlayService, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var repo history.Repository
	switch cfg.History.Backend {
	case "postgres":
		db, err := database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		cleanups = append(cleanups, db.Close)
		repo = history.NewPostgresRepository(db)
		appLog.Info("Using PostgreSQL history backend")
	default:
		store, err := history.NewCSVStore(cfg.History.CSVPath, appLog)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load historical props: %w", err)
		}
		repo = store
		appLog.WithField("path", cfg.History.CSVPath).Info("Loaded CSV history backend")
	}

	var parlayCache cache.ParlayCache
	switch cfg.Cache.Backend {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.Redis, cfg.Cache.TTL())
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		parlayCache = redisCache
		appLog.WithField("addr", cfg.Cache.Redis.Addr).Info("Using Redis parlay cache")
	default:
		parlayCache = cache.NewMemoryCache(cfg.Cache.TTL())
	}
	cleanups = append(cleanups, func() {
		if err := parlayCache.Close(); err != nil {
			appLog.WithError(err).Error("Failed to close cache")
		}
	})

	httpClient := provider.NewHTTPClientFromConfig(cfg.Providers.HTTP, appLog)
	cleanups = append(cleanups, func() { _ = httpClient.Close() })
	sources := provider.NewPropSources(cfg.Providers, httpClient, appLog)

	scorer := analysis.NewScorer(repo, appLog)
	builder := parlay.NewBuilder(appLog)
	stake := decimal.NewFromFloat(cfg.Betting.StakeAmount)

	return service.New(sources, scorer, builder, parlayCache, stake, appLog), cleanup, nil
}

func runServe() error {
	ctx := context.Background()

	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Stats Sync starting")

	svc, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Scheduler.Enabled {
		sched := scheduler.NewScheduler(svc, appLog)
		if err := sched.ScheduleRefresh(cfg.Scheduler.RefreshIntervalMinutes); err != nil {
			return fmt.Errorf("failed to schedule refresh: %w", err)
		}
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				appLog.WithError(err).Error("Failed to stop scheduler")
			}
		}()
	}

	srv := server.New(cfg, svc, appLog)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		appLog.WithField("signal", sig.String()).Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runRefresh(args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	svc, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(args) == 1 {
		sport, err := models.ParseSportType(args[0])
		if err != nil {
			return err
		}
		return svc.Refresh(ctx, sport)
	}
	return svc.RefreshAll(ctx)
}

func runProps(sportArg string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sport, err := models.ParseSportType(sportArg)
	if err != nil {
		return err
	}

	svc, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	props := svc.FetchProps(ctx, sport, "")
	out, err := json.MarshalIndent(props, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode props: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
