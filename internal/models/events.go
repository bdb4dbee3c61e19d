package models

import "time"

// Event types published by the synthesizer
const (
	EventWineInvestmentUpdated = "WINE_INVESTMENT_UPDATED"
	EventBatchCompleted        = "INVESTMENT_BATCH_COMPLETED"
)

// Catalog event types consumed by the watcher
const (
	EventWineAdded   = "WINE_ADDED"
	EventWineUpdated = "WINE_UPDATED"
)

// InvestmentEvent represents a Kafka event for investment data changes
type InvestmentEvent struct {
	EventType string             `json:"event_type"`
	WineID    int                `json:"wine_id,omitempty"`
	RunID     string             `json:"run_id,omitempty"`
	Profile   *InvestmentProfile `json:"profile,omitempty"`
	Summary   *BatchSummary      `json:"summary,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// WineEvent is a catalog change published by the storefront
type WineEvent struct {
	EventType string    `json:"event_type"`
	WineID    int       `json:"wine_id"`
	Timestamp time.Time `json:"timestamp"`
}
