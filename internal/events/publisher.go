package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/momoscout/momo-brand-scraper/internal/models"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event
type EventType string

const (
	// EventTypeProductDiscovered is published for every newly seen product.
	EventTypeProductDiscovered EventType = "PRODUCT_DISCOVERED"
)

// ProductDiscoveredPayload is the stream payload for a discovered product.
type ProductDiscoveredPayload struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	RunID       string    `json:"run_id"`
	Identifier  string    `json:"identifier"`
	Brand       string    `json:"brand"`
	Name        string    `json:"name"`
	ModelNumber string    `json:"model_number,omitempty"`
	Price       string    `json:"price,omitempty"`
	SalesCount  string    `json:"sales_count,omitempty"`
	ProductURL  string    `json:"product_url"`
	Source      string    `json:"source"`
}

// StreamClient is the subset of the redis client the publisher needs.
type StreamClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
}

// Publisher pushes discovery events onto a Redis stream so downstream
// consumers (price monitors, notifiers) can react to new products.
type Publisher struct {
	redis  StreamClient
	stream string
	logger *slog.Logger
}

func NewPublisher(client StreamClient, stream string) *Publisher {
	return &Publisher{
		redis:  client,
		stream: stream,
		logger: slog.Default().With("component", "event_publisher"),
	}
}

// PublishProductDiscovered publishes one PRODUCT_DISCOVERED event.
func (p *Publisher) PublishProductDiscovered(ctx context.Context, runID, identifier string, rec models.ProductRecord) error {
	payload := ProductDiscoveredPayload{
		EventID:     uuid.NewString(),
		EventType:   string(EventTypeProductDiscovered),
		Timestamp:   time.Now(),
		RunID:       runID,
		Identifier:  identifier,
		Brand:       rec.Brand,
		Name:        rec.Name,
		ModelNumber: rec.ModelNumber,
		Price:       rec.Price,
		SalesCount:  rec.SalesCount,
		ProductURL:  rec.ProductURL,
		Source:      "scraper",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"data":         string(data),
			"event_type":   payload.EventType,
			"aggregate_id": identifier,
			"timestamp":    fmt.Sprintf("%d", payload.Timestamp.UnixNano()),
		},
	}

	if _, err := p.redis.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}

	p.logger.Debug("event published", "event_id", payload.EventID, "i_code", identifier)
	return nil
}
