package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trogers1052/wine-investment-service/internal/checkpoint"
	"github.com/trogers1052/wine-investment-service/internal/config"
	"github.com/trogers1052/wine-investment-service/internal/database"
	"github.com/trogers1052/wine-investment-service/internal/kafka"
)

var (
	// Global flags
	configPath string
	verbose    bool

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "winesynth",
	Short: "Synthesize investment data for the Aionysus wine catalog",
	Long: `winesynth derives investment analytics for every wine in the catalog:
price history, investment grade, score, five-year return, storage type and
Liv-ex score. It also serves them over HTTP and keeps them current from
catalog events.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (env vars override it)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(synthesizeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(copyCatalogCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func openDB(dc config.DatabaseConfig) (*database.DB, error) {
	db, err := database.New(dc.ConnectionString())
	if err != nil {
		return nil, err
	}
	if dc.MaxOpenConns > 0 {
		db.SetMaxOpenConns(dc.MaxOpenConns)
	}
	return db, nil
}

// newProducer returns nil when Kafka is disabled
func newProducer() *kafka.Producer {
	if !cfg.Kafka.Enabled {
		return nil
	}
	logger.Info("Publishing investment events",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
	)
	return kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}

// newCheckpointStore returns nil when Redis is disabled
func newCheckpointStore(ctx context.Context) (*checkpoint.RedisStore, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}
	return checkpoint.NewRedisStore(client, checkpoint.DefaultTTL), func() { client.Close() }, nil
}
