package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/trogers1052/wine-investment-service/internal/database"
	"github.com/trogers1052/wine-investment-service/internal/investment"
	"github.com/trogers1052/wine-investment-service/internal/models"
)

// WineRepository defines the database operations the catalog consumer needs
type WineRepository interface {
	GetWine(ctx context.Context, id int) (*models.Wine, error)
	UpdateInvestmentProfile(ctx context.Context, id int, p *models.InvestmentProfile) error
}

// ProfilePublisher announces profiles computed by the consumer
type ProfilePublisher interface {
	PublishProfileUpdated(ctx context.Context, runID string, wineID int, p *models.InvestmentProfile) error
}

// WatchRunID tags events published for wines synthesized by the consumer
const WatchRunID = "watch"

// Consumer synthesizes investment data for wines as the storefront adds or
// changes them.
type Consumer struct {
	reader    *kafka.Reader
	repo      WineRepository
	publisher ProfilePublisher
	logger    *zap.Logger
	newRand   func(wineID int) investment.Rand
}

// NewConsumer creates a new Kafka consumer for catalog events. publisher may be nil.
func NewConsumer(brokers []string, topic, groupID string, repo WineRepository, publisher ProfilePublisher, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return newConsumer(reader, repo, publisher, logger)
}

func newConsumer(reader *kafka.Reader, repo WineRepository, publisher ProfilePublisher, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{
		reader:    reader,
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		newRand: func(wineID int) investment.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano() + int64(wineID)))
		},
	}
}

// Start begins consuming messages from Kafka
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("Starting catalog consumer", zap.String("topic", c.reader.Config().Topic))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Catalog consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.logger.Info("Catalog consumer shutting down")
					return c.reader.Close()
				}
				c.logger.Error("Error reading message", zap.Error(err))
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				c.logger.Error("Error processing message",
					zap.Int("partition", msg.Partition),
					zap.Int64("offset", msg.Offset),
					zap.Error(err),
				)
			}
		}
	}
}

// processMessage handles a single catalog event
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	c.logger.Debug("Received message",
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
		zap.ByteString("key", msg.Key),
	)

	var event models.WineEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal wine event: %w", err)
	}

	if event.EventType != models.EventWineAdded && event.EventType != models.EventWineUpdated {
		c.logger.Debug("Ignoring event type", zap.String("event_type", event.EventType))
		return nil
	}
	if event.WineID <= 0 {
		return fmt.Errorf("invalid wine id %d in %s event", event.WineID, event.EventType)
	}

	wine, err := c.repo.GetWine(ctx, event.WineID)
	if errors.Is(err, database.ErrWineNotFound) {
		c.logger.Warn("Wine from event no longer exists, skipping", zap.Int("wine_id", event.WineID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load wine %d: %w", event.WineID, err)
	}

	profile := investment.Synthesize(wine, c.newRand(wine.ID))
	if err := c.repo.UpdateInvestmentProfile(ctx, wine.ID, profile); err != nil {
		return fmt.Errorf("failed to save investment profile for wine %d: %w", wine.ID, err)
	}

	c.logger.Info("Synthesized investment profile",
		zap.Int("wine_id", wine.ID),
		zap.String("event_type", event.EventType),
		zap.Bool("investment_grade", profile.IsInvestmentGrade),
		zap.Float64("score", profile.InvestmentScore),
	)

	if c.publisher != nil {
		if err := c.publisher.PublishProfileUpdated(ctx, WatchRunID, wine.ID, profile); err != nil {
			c.logger.Warn("Failed to publish investment update", zap.Int("wine_id", wine.ID), zap.Error(err))
		}
	}

	return nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
