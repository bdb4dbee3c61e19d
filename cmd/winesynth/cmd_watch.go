package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/trogers1052/wine-investment-service/internal/kafka"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Synthesize investment data as wines are added or updated",
	Long: `Consumes WINE_ADDED and WINE_UPDATED events from the catalog topic and
computes each wine's investment profile as it arrives.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if len(cfg.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS is required for watch")
	}

	ctx, cancel := signalContext()
	defer cancel()

	db, err := openDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	var publisher kafka.ProfilePublisher
	if producer := newProducer(); producer != nil {
		defer producer.Close()
		publisher = producer
	}

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.CatalogTopic, cfg.Kafka.GroupID, db, publisher, logger)
	return consumer.Start(ctx)
}
