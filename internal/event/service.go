package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/prodpulse/product-metrics/internal/storage/mq"
)

// Service consumes the product lifecycle topics.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger,
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	topics := []string{
		TopicProductCreated,
		TopicProductUpdated,
		TopicProductDeleted,
	}

	for _, topic := range topics {
		if err := s.mqConsumer.RegisterHandler(
			topic,
			func(ctx context.Context, topic string, payload []byte) error {
				var ev ProductEvent
				if err := json.Unmarshal(payload, &ev); err != nil {
					return fmt.Errorf("unmarshal product event: %w", err)
				}

				if err := s.handleProductEvent(ctx, topic, ev); err != nil {
					return fmt.Errorf("handle product event: %w", err)
				}

				return nil
			},
		); err != nil {
			return nil, fmt.Errorf("register handler for topic %s: %w", topic, err)
		}
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	return func() {
		mqCleanup()
	}, nil
}
