package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/trogers1052/wine-investment-service/internal/models"
)

// messageWriter is the part of kafka.Writer the producer uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer handles publishing investment events to Kafka
type Producer struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
		now:    time.Now,
	}
}

// PublishProfileUpdated publishes a wine investment updated event
func (p *Producer) PublishProfileUpdated(ctx context.Context, runID string, wineID int, profile *models.InvestmentProfile) error {
	event := models.InvestmentEvent{
		EventType: models.EventWineInvestmentUpdated,
		WineID:    wineID,
		RunID:     runID,
		Profile:   profile,
		Timestamp: p.now(),
	}
	return p.publish(ctx, strconv.Itoa(wineID), event)
}

// PublishBatchCompleted publishes the summary of a finished batch run
func (p *Producer) PublishBatchCompleted(ctx context.Context, summary models.BatchSummary) error {
	event := models.InvestmentEvent{
		EventType: models.EventBatchCompleted,
		RunID:     summary.RunID,
		Summary:   &summary,
		Timestamp: p.now(),
	}
	return p.publish(ctx, summary.RunID, event)
}

func (p *Producer) publish(ctx context.Context, key string, event models.InvestmentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
