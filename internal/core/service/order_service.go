package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Dee-Rock/soucey/internal/core/domain"
	"github.com/Dee-Rock/soucey/internal/port"
)

var ErrEmptyCart = errors.New("cart is empty")

// CreateOrderRequest is the single parsing target for order creation: it
// either validates into a full order or fails with a ValidationError
// naming every missing field. Numeric totals are pointers so that absent
// and zero are distinguishable.
type CreateOrderRequest struct {
	OrderNumber   string             `json:"orderNumber"`
	Customer      domain.Customer    `json:"customer"`
	Address       string             `json:"address"`
	Landmark      string             `json:"landmark"`
	Campus        string             `json:"campus"`
	Items         []domain.OrderItem `json:"items"`
	PaymentMethod string             `json:"paymentMethod"`
	Subtotal      *float64           `json:"subtotal"`
	DeliveryFee   *float64           `json:"deliveryFee"`
	Total         *float64           `json:"total"`
	Status        string             `json:"status"`
	PaymentStatus string             `json:"paymentStatus"`
}

// CheckoutRequest places an order from the session's current cart; the
// financial fields come from the cart itself.
type CheckoutRequest struct {
	Customer      domain.Customer `json:"customer"`
	Address       string          `json:"address"`
	Landmark      string          `json:"landmark"`
	Campus        string          `json:"campus"`
	PaymentMethod string          `json:"paymentMethod"`
}

// RecordPaymentRequest records one payment attempt against an order.
type RecordPaymentRequest struct {
	OrderID   string   `json:"orderId"`
	Amount    *float64 `json:"amount"`
	Method    string   `json:"method"`
	Provider  string   `json:"provider"`
	Status    string   `json:"status"`
	Reference string   `json:"reference"`
}

// PaymentUpdate is the message shape consumed from the payment gateway's
// out-of-band confirmation channel. OrderID accepts either the order's ID
// or its order number.
type PaymentUpdate struct {
	OrderID   string                   `json:"order_id"`
	Status    domain.TransactionStatus `json:"status"`
	Reference string                   `json:"reference"`
	Amount    float64                  `json:"amount"`
	Method    domain.PaymentMethod     `json:"method"`
	Provider  string                   `json:"provider"`
}

// OrderService owns the order lifecycle: creation with server-side
// recomputation of totals, flat status transitions, deletion, and payment
// recording. Orders are immutable after creation except for status,
// payment status and updated_at.
type OrderService struct {
	orders   port.OrderRepository
	payments port.PaymentRepository
	carts    *CartService
	events   port.EventPublisher
}

func NewOrderService(orders port.OrderRepository, payments port.PaymentRepository, carts *CartService, events port.EventPublisher) *OrderService {
	return &OrderService{
		orders:   orders,
		payments: payments,
		carts:    carts,
		events:   events,
	}
}

// CreateOrder validates the request and persists a new order. Line totals,
// the subtotal and the grand total are recomputed from price x quantity;
// client-submitted arithmetic is never trusted. Nothing is persisted on a
// validation failure.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	status := domain.OrderStatusPending
	if req.Status != "" {
		status = domain.OrderStatus(req.Status)
		if !status.Valid() {
			return nil, invalidOrderStatus(req.Status)
		}
	}

	method := domain.PaymentMethod(req.PaymentMethod)

	paymentStatus := defaultPaymentStatus(method)
	if req.PaymentStatus != "" {
		paymentStatus = domain.PaymentStatus(req.PaymentStatus)
		if !paymentStatus.Valid() {
			return nil, invalidPaymentStatus(req.PaymentStatus)
		}
	}

	now := time.Now()

	orderNumber := req.OrderNumber
	if orderNumber == "" {
		orderNumber = domain.NewOrderNumber(now)
	}

	items := make([]domain.OrderItem, len(req.Items))
	subtotal := 0.0
	for i, item := range req.Items {
		item.Total = item.Price * float64(item.Quantity)
		items[i] = item
		subtotal += item.Total
	}

	order := domain.Order{
		ID:            uuid.NewString(),
		OrderNumber:   orderNumber,
		Customer:      req.Customer,
		Address:       req.Address,
		Landmark:      req.Landmark,
		Campus:        req.Campus,
		Items:         items,
		Subtotal:      subtotal,
		DeliveryFee:   *req.DeliveryFee,
		Total:         subtotal + *req.DeliveryFee,
		PaymentMethod: method,
		Status:        status,
		PaymentStatus: paymentStatus,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// fire and forget: a broker outage never fails the request
	if s.events != nil {
		if err := s.events.OrderCreated(ctx, order); err != nil {
			log.Printf("publish order created event for %s: %v", order.OrderNumber, err)
		}
	}

	return &order, nil
}

// Checkout places an order from the session's cart snapshot and clears
// the cart on success.
func (s *OrderService) Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (*domain.Order, error) {
	cart := s.carts.Get(ctx, sessionID)
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := cart.Subtotal()
	deliveryFee := cart.DeliveryFee()
	total := cart.Total()

	order, err := s.CreateOrder(ctx, CreateOrderRequest{
		Customer:      req.Customer,
		Address:       req.Address,
		Landmark:      req.Landmark,
		Campus:        req.Campus,
		Items:         cart.Snapshot(),
		PaymentMethod: req.PaymentMethod,
		Subtotal:      &subtotal,
		DeliveryFee:   &deliveryFee,
		Total:         &total,
	})
	if err != nil {
		return nil, err
	}

	s.carts.Clear(ctx, sessionID)
	return order, nil
}

// GetOrder fetches by ID or order number.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, &domain.NotFoundError{Entity: "order", ID: id}
	}
	return order, nil
}

// ListOrders returns orders newest-first; limit <= 0 means all.
func (s *OrderService) ListOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	orders, err := s.orders.ListOrders(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets an order's fulfillment status. Any value in the
// enumeration is reachable from any other; values outside it are rejected
// without touching stored state. Concurrent updates are last-write-wins.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	target := domain.OrderStatus(status)
	if !target.Valid() {
		return nil, invalidOrderStatus(status)
	}

	matched, err := s.orders.UpdateOrderStatus(ctx, id, target)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if !matched {
		return nil, &domain.NotFoundError{Entity: "order", ID: id}
	}

	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	if order == nil {
		// deleted between update and reload; treat as gone
		return nil, &domain.NotFoundError{Entity: "order", ID: id}
	}

	if s.events != nil {
		if err := s.events.OrderStatusChanged(ctx, *order); err != nil {
			log.Printf("publish status changed event for %s: %v", order.OrderNumber, err)
		}
	}

	return order, nil
}

// DeleteOrder removes the order permanently; there is no soft delete.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	matched, err := s.orders.DeleteOrder(ctx, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if !matched {
		return &domain.NotFoundError{Entity: "order", ID: id}
	}
	return nil
}

// RecordPayment persists a payment attempt. The write is independent of
// any order write: a cash order may never get one, and a crash between an
// order and its payment leaves no cross-record guarantee.
func (s *OrderService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*domain.Payment, error) {
	var missing []string
	if req.OrderID == "" {
		missing = append(missing, "orderId")
	}
	if req.Amount == nil {
		missing = append(missing, "amount")
	}
	if !domain.PaymentMethod(req.Method).Valid() {
		missing = append(missing, "method")
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Missing: missing}
	}

	status := domain.TransactionPending
	if req.Status != "" {
		status = domain.TransactionStatus(req.Status)
		if !status.Valid() {
			return nil, invalidTransactionStatus(req.Status)
		}
	}

	reference := req.Reference
	if reference == "" {
		reference = uuid.NewString()
	}

	payment := domain.Payment{
		ID:        uuid.NewString(),
		OrderID:   req.OrderID,
		Amount:    *req.Amount,
		Method:    domain.PaymentMethod(req.Method),
		Provider:  req.Provider,
		Status:    status,
		Reference: reference,
		CreatedAt: time.Now(),
	}

	if err := s.payments.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	return &payment, nil
}

// ListPayments returns payments newest-first; limit <= 0 means all.
func (s *OrderService) ListPayments(ctx context.Context, limit int) ([]domain.Payment, error) {
	payments, err := s.payments.ListPayments(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// ApplyPaymentUpdate handles an out-of-band gateway confirmation: it
// records the payment attempt and flips the order-level payment status.
// The two writes carry no atomicity between them.
func (s *OrderService) ApplyPaymentUpdate(ctx context.Context, update PaymentUpdate) error {
	if !update.Status.Valid() {
		return invalidTransactionStatus(string(update.Status))
	}

	order, err := s.orders.GetOrder(ctx, update.OrderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return &domain.NotFoundError{Entity: "order", ID: update.OrderID}
	}

	payment := domain.Payment{
		ID:        uuid.NewString(),
		OrderID:   order.ID,
		Amount:    update.Amount,
		Method:    update.Method,
		Provider:  update.Provider,
		Status:    update.Status,
		Reference: update.Reference,
		CreatedAt: time.Now(),
	}
	if err := s.payments.CreatePayment(ctx, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}

	matched, err := s.orders.UpdatePaymentStatus(ctx, order.ID, orderPaymentStatus(update.Status))
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if !matched {
		return &domain.NotFoundError{Entity: "order", ID: order.ID}
	}
	return nil
}

func validateCreate(req CreateOrderRequest) error {
	var missing []string
	if req.Customer.Name == "" {
		missing = append(missing, "customer.name")
	}
	if req.Customer.Email == "" {
		missing = append(missing, "customer.email")
	}
	if req.Customer.Phone == "" {
		missing = append(missing, "customer.phone")
	}
	if len(req.Items) == 0 {
		missing = append(missing, "items")
	}
	if req.PaymentMethod == "" || !domain.PaymentMethod(req.PaymentMethod).Valid() {
		missing = append(missing, "paymentMethod")
	}
	if req.Address == "" {
		missing = append(missing, "address")
	}
	if req.Subtotal == nil {
		missing = append(missing, "subtotal")
	}
	if req.DeliveryFee == nil {
		missing = append(missing, "deliveryFee")
	}
	if req.Total == nil {
		missing = append(missing, "total")
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Missing: missing}
	}
	return nil
}

// defaultPaymentStatus assumes non-cash payments were confirmed
// out-of-band by the gateway before the order was submitted.
func defaultPaymentStatus(method domain.PaymentMethod) domain.PaymentStatus {
	if method == domain.PaymentMethodCash {
		return domain.PaymentStatusPending
	}
	return domain.PaymentStatusPaid
}

func orderPaymentStatus(status domain.TransactionStatus) domain.PaymentStatus {
	switch status {
	case domain.TransactionSuccessful:
		return domain.PaymentStatusPaid
	case domain.TransactionRefunded:
		return domain.PaymentStatusRefunded
	case domain.TransactionFailed:
		return domain.PaymentStatusFailed
	default:
		return domain.PaymentStatusPending
	}
}

func invalidOrderStatus(given string) error {
	valid := make([]string, len(domain.OrderStatuses))
	for i, s := range domain.OrderStatuses {
		valid[i] = string(s)
	}
	return &domain.InvalidStatusError{Given: given, Valid: valid}
}

func invalidPaymentStatus(given string) error {
	valid := make([]string, len(domain.PaymentStatuses))
	for i, s := range domain.PaymentStatuses {
		valid[i] = string(s)
	}
	return &domain.InvalidStatusError{Given: given, Valid: valid}
}

func invalidTransactionStatus(given string) error {
	valid := make([]string, len(domain.TransactionStatuses))
	for i, s := range domain.TransactionStatuses {
		valid[i] = string(s)
	}
	return &domain.InvalidStatusError{Given: given, Valid: valid}
}
