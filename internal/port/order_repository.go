package port

import (
	"context"

	"github.com/Dee-Rock/soucey/internal/core/domain"
)

type OrderRepository interface {
	// CreateOrder persists a new order and its line items
	CreateOrder(ctx context.Context, order domain.Order) error

	// GetOrder retrieves an order by ID or order number; nil when absent
	GetOrder(ctx context.Context, id string) (*domain.Order, error)

	// ListOrders returns orders newest-first; limit <= 0 means no cap
	ListOrders(ctx context.Context, limit int) ([]domain.Order, error)

	// UpdateOrderStatus sets status and stamps updated_at; reports whether a row matched
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (bool, error)

	// UpdatePaymentStatus sets the order-level payment status; reports whether a row matched
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) (bool, error)

	// DeleteOrder removes the order permanently; reports whether a row matched
	DeleteOrder(ctx context.Context, id string) (bool, error)
}

type PaymentRepository interface {
	// CreatePayment persists a payment attempt, independent of any order write
	CreatePayment(ctx context.Context, payment domain.Payment) error

	// ListPayments returns payments newest-first; limit <= 0 means no cap
	ListPayments(ctx context.Context, limit int) ([]domain.Payment, error)
}
