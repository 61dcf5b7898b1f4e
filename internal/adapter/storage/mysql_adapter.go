package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dee-Rock/soucey/internal/core/domain"
)

// MySQLAdapter is the authoritative order and payment store. An order and
// its line items are written in one transaction; payments are written
// independently of orders, with no atomicity between the two entities.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) CreateOrder(ctx context.Context, order domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, customer_name, customer_email, customer_phone,
			address, landmark, campus, subtotal, delivery_fee, total,
			payment_method, status, payment_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.OrderNumber, order.Customer.Name, order.Customer.Email, order.Customer.Phone,
		order.Address, order.Landmark, order.Campus, order.Subtotal, order.DeliveryFee, order.Total,
		order.PaymentMethod, order.Status, order.PaymentStatus, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, item_id, name, price, quantity, total, image)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			order.ID, item.ID, item.Name, item.Price, item.Quantity, item.Total, item.Image,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrder matches by ID or by order number; returns nil when absent.
func (m *MySQLAdapter) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := m.db.QueryRowContext(ctx, `
		SELECT id, order_number, customer_name, customer_email, customer_phone,
			address, landmark, campus, subtotal, delivery_fee, total,
			payment_method, status, payment_status, created_at, updated_at
		FROM orders WHERE id = ? OR order_number = ?`, id, id,
	).Scan(
		&order.ID, &order.OrderNumber, &order.Customer.Name, &order.Customer.Email, &order.Customer.Phone,
		&order.Address, &order.Landmark, &order.Campus, &order.Subtotal, &order.DeliveryFee, &order.Total,
		&order.PaymentMethod, &order.Status, &order.PaymentStatus, &order.CreatedAt, &order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	items, err := m.orderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (m *MySQLAdapter) ListOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	query := `
		SELECT o.id, o.order_number, o.customer_name, o.customer_email, o.customer_phone,
			o.address, o.landmark, o.campus, o.subtotal, o.delivery_fee, o.total,
			o.payment_method, o.status, o.payment_status, o.created_at, o.updated_at,
			i.item_id, i.name, i.price, i.quantity, i.total, i.image
		FROM orders o
		LEFT JOIN order_items i ON o.id = i.order_id
		ORDER BY o.created_at DESC, o.id`

	// a SQL LIMIT would cut joined line items, not orders, so the cap is
	// applied after grouping
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	index := map[string]int{}
	for rows.Next() {
		var o domain.Order
		var itemID, itemName, itemImage sql.NullString
		var itemPrice, itemTotal sql.NullFloat64
		var itemQty sql.NullInt64

		err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone,
			&o.Address, &o.Landmark, &o.Campus, &o.Subtotal, &o.DeliveryFee, &o.Total,
			&o.PaymentMethod, &o.Status, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt,
			&itemID, &itemName, &itemPrice, &itemQty, &itemTotal, &itemImage,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}

		pos, seen := index[o.ID]
		if !seen {
			index[o.ID] = len(orders)
			pos = len(orders)
			orders = append(orders, o)
		}
		if itemID.Valid {
			orders[pos].Items = append(orders[pos].Items, domain.OrderItem{
				ID:       itemID.String,
				Name:     itemName.String,
				Price:    itemPrice.Float64,
				Quantity: int(itemQty.Int64),
				Total:    itemTotal.Float64,
				Image:    itemImage.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (m *MySQLAdapter) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (bool, error) {
	return m.updateOrder(ctx, `
		UPDATE orders SET status = ?, updated_at = ?
		WHERE id = ? OR order_number = ?`, string(status), id)
}

func (m *MySQLAdapter) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) (bool, error) {
	return m.updateOrder(ctx, `
		UPDATE orders SET payment_status = ?, updated_at = ?
		WHERE id = ? OR order_number = ?`, string(status), id)
}

// updateOrder is last-write-wins: no version predicate, the later
// updated_at simply overwrites.
func (m *MySQLAdapter) updateOrder(ctx context.Context, query, value, id string) (bool, error) {
	result, err := m.db.ExecContext(ctx, query, value, time.Now(), id, id)
	if err != nil {
		return false, fmt.Errorf("update order: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows > 0, nil
}

func (m *MySQLAdapter) DeleteOrder(ctx context.Context, id string) (bool, error) {
	var orderID string
	err := m.db.QueryRowContext(ctx,
		`SELECT id FROM orders WHERE id = ? OR order_number = ?`, id, id,
	).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("resolve order: %w", err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, orderID); err != nil {
		return false, fmt.Errorf("delete order items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, orderID); err != nil {
		return false, fmt.Errorf("delete order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

func (m *MySQLAdapter) CreatePayment(ctx context.Context, payment domain.Payment) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO payments (id, order_id, amount, method, provider, status, reference, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.OrderID, payment.Amount, payment.Method, payment.Provider,
		payment.Status, payment.Reference, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) ListPayments(ctx context.Context, limit int) ([]domain.Payment, error) {
	query := `
		SELECT id, order_id, amount, method, provider, status, reference, created_at
		FROM payments ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		err := rows.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Provider, &p.Status, &p.Reference, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}

func (m *MySQLAdapter) orderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT item_id, name, price, quantity, total, image
		FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity, &item.Total, &item.Image); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}
