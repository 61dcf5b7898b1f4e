package port

import (
	"context"

	"github.com/Dee-Rock/soucey/internal/core/domain"
)

type EventPublisher interface {
	// OrderCreated announces a newly placed order
	OrderCreated(ctx context.Context, order domain.Order) error

	// OrderStatusChanged announces a fulfillment status change
	OrderStatusChanged(ctx context.Context, order domain.Order) error
}
