package domain

import "time"

// TransactionStatus is the state of a single payment attempt at the
// gateway. It is independent of the order-level PaymentStatus.
type TransactionStatus string

const (
	TransactionPending    TransactionStatus = "pending"
	TransactionSuccessful TransactionStatus = "successful"
	TransactionRefunded   TransactionStatus = "refunded"
	TransactionFailed     TransactionStatus = "failed"
)

var TransactionStatuses = []TransactionStatus{
	TransactionPending,
	TransactionSuccessful,
	TransactionRefunded,
	TransactionFailed,
}

func (s TransactionStatus) Valid() bool {
	for _, v := range TransactionStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Payment records one payment attempt, loosely associated to an order via
// OrderID. Cash orders may have no payment record at all; an order and its
// payment are written independently, with no atomicity between them.
type Payment struct {
	ID        string            `json:"id"`
	OrderID   string            `json:"orderId"`
	Amount    float64           `json:"amount"`
	Method    PaymentMethod     `json:"method"`
	Provider  string            `json:"provider"`
	Status    TransactionStatus `json:"status"`
	Reference string            `json:"reference"`
	CreatedAt time.Time         `json:"createdAt"`
}
