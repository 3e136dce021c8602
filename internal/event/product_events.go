package event

import (
	"context"
	"log/slog"

	"github.com/prodpulse/product-metrics/internal/model"
)

const (
	TopicProductCreated = "product.created"
	TopicProductUpdated = "product.updated"
	TopicProductDeleted = "product.deleted"
)

// ProductEvent is the snapshot published for every product lifecycle change.
type ProductEvent struct {
	ProductID   int64   `json:"product_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsActive    bool    `json:"is_active"`
}

// NewProductEvent builds the published snapshot from a product row.
func NewProductEvent(product model.Product) ProductEvent {
	return ProductEvent{
		ProductID:   product.ID,
		Name:        product.Name,
		Description: product.Description,
		IsActive:    product.IsActive,
	}
}

func (s *Service) handleProductEvent(ctx context.Context, topic string, ev ProductEvent) error {
	s.logger.InfoContext(ctx, "handling product event",
		slog.String("topic", topic),
		slog.Int64("product_id", ev.ProductID),
		slog.Bool("is_active", ev.IsActive),
	)
	return nil
}
