package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses is the full enumeration, in lifecycle order. The set is
// flat: any value may be set from any other, there is no transition graph.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

var PaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusRefunded,
	PaymentStatusFailed,
}

func (s PaymentStatus) Valid() bool {
	for _, v := range PaymentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodMobileMoney PaymentMethod = "mobile_money"
	PaymentMethodCard        PaymentMethod = "card"
	PaymentMethodCash        PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodMobileMoney || m == PaymentMethodCard || m == PaymentMethodCash
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OrderItem is one purchased line, with price and total captured at order
// creation time. Later menu price changes never touch it.
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
	Image    string  `json:"image,omitempty"`
}

// Order is immutable once created except for Status, PaymentStatus and
// UpdatedAt. Subtotal, DeliveryFee and Total are frozen at creation.
type Order struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"orderNumber"`
	Customer      Customer      `json:"customer"`
	Address       string        `json:"address"`
	Landmark      string        `json:"landmark,omitempty"`
	Campus        string        `json:"campus,omitempty"`
	Items         []OrderItem   `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	DeliveryFee   float64       `json:"deliveryFee"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// NewOrderNumber builds a human-shareable order number: a timestamp prefix
// plus a short random suffix. It is practically unique but not checked
// against existing orders, so a collision is theoretically possible.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:4]
	return fmt.Sprintf("SCY-%s-%s", now.Format("20060102150405"), suffix)
}
