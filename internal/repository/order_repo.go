package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"pizzeria/internal/db"
	"pizzeria/internal/entities"
)

// ErrUnknownProduct is returned when an order references a product id that is
// not in the catalog.
var ErrUnknownProduct = errors.New("unknown product in order")

type OrderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(database *sql.DB) *OrderRepository {
	return &OrderRepository{DB: database}
}

// CreateOrder inserts an order with its items in one transaction. Prices are
// read from the catalog inside the transaction, never trusted from the
// client.
func (r *OrderRepository) CreateOrder(userID int, items []entities.OrderItemRequest) (*db.Order, []entities.OrderItemResponse, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("error starting order transaction: %w", err)
	}
	defer tx.Rollback()

	productIDs := make([]int, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	rows, err := tx.Query(`SELECT id, name, price FROM products WHERE id = ANY($1::int[])`, pq.Array(productIDs))
	if err != nil {
		return nil, nil, fmt.Errorf("error validating order products: %w", err)
	}
	type catalogEntry struct {
		name  string
		price float64
	}
	catalog := make(map[int]catalogEntry)
	for rows.Next() {
		var id int
		var entry catalogEntry
		if err := rows.Scan(&id, &entry.name, &entry.price); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("error scanning product: %w", err)
		}
		catalog[id] = entry
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var total float64
	responseItems := make([]entities.OrderItemResponse, 0, len(items))
	for _, item := range items {
		entry, ok := catalog[item.ProductID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: product %d", ErrUnknownProduct, item.ProductID)
		}
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		total += entry.price * float64(quantity)
		responseItems = append(responseItems, entities.OrderItemResponse{
			ProductID: item.ProductID,
			Name:      entry.name,
			Quantity:  quantity,
			UnitPrice: entry.price,
			Total:     entry.price * float64(quantity),
		})
	}

	order := &db.Order{
		UserID:        userID,
		TotalPrice:    total,
		Status:        "pending",
		PaymentStatus: "pending",
	}
	err = tx.QueryRow(`
		INSERT INTO orders (user_id, total_price, status, payment_status)
		VALUES ($1, $2, 'pending', 'pending')
		RETURNING id, created_at, updated_at`,
		userID, total,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("error inserting order: %w", err)
	}

	for _, item := range responseItems {
		_, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, quantity, base_price, unit_price)
			VALUES ($1, $2, $3, $4, $5)`,
			order.ID, item.ProductID, item.Quantity, item.UnitPrice, item.UnitPrice,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("error inserting order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("error committing order: %w", err)
	}
	return order, responseItems, nil
}

func (r *OrderRepository) GetByID(id int) (*db.Order, error) {
	var order db.Order
	query := `
		SELECT id, user_id, total_price, status, payment_status,
		       COALESCE(stripe_session_id, ''), created_at, updated_at
		FROM orders WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&order.ID, &order.UserID, &order.TotalPrice, &order.Status,
		&order.PaymentStatus, &order.StripeSessionID, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("error querying order %d: %w", id, err)
	}
	return &order, nil
}

func (r *OrderRepository) GetItems(orderID int) ([]entities.OrderItemResponse, error) {
	query := `
		SELECT oi.product_id, p.name, oi.quantity, oi.unit_price
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1`
	rows, err := r.DB.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("error querying order items: %w", err)
	}
	defer rows.Close()

	var items []entities.OrderItemResponse
	for rows.Next() {
		var item entities.OrderItemResponse
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		item.Total = item.UnitPrice * float64(item.Quantity)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *OrderRepository) ListByUser(userID int) ([]entities.OrderResponse, error) {
	query := `
		SELECT id, user_id, total_price, status, payment_status, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing orders for user %d: %w", userID, err)
	}
	defer rows.Close()

	var orders []entities.OrderResponse
	for rows.Next() {
		var o entities.OrderResponse
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.Status,
			&o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning order row: %w", err)
		}
		o.OrderNumber = fmt.Sprintf("CMD-%03d", o.ID)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.GetItems(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// ListAll returns every order joined with the buyer's email. Admin surface.
func (r *OrderRepository) ListAll() ([]entities.OrderResponse, error) {
	query := `
		SELECT o.id, o.user_id, o.total_price, o.status, o.payment_status,
		       o.created_at, o.updated_at, COALESCE(u.email, '')
		FROM orders o
		LEFT JOIN users u ON o.user_id = u.id
		ORDER BY o.created_at DESC`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error listing orders: %w", err)
	}
	defer rows.Close()

	var orders []entities.OrderResponse
	for rows.Next() {
		var o entities.OrderResponse
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.Status,
			&o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt, &o.UserEmail); err != nil {
			return nil, fmt.Errorf("error scanning order row: %w", err)
		}
		o.OrderNumber = fmt.Sprintf("CMD-%03d", o.ID)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) SetStripeSession(orderID int, sessionID string) error {
	_, err := r.DB.Exec(`UPDATE orders SET stripe_session_id = $1, updated_at = NOW() WHERE id = $2`, sessionID, orderID)
	return err
}

func (r *OrderRepository) GetByStripeSessionID(sessionID string) (*db.Order, error) {
	var order db.Order
	query := `
		SELECT id, user_id, total_price, status, payment_status,
		       COALESCE(stripe_session_id, ''), created_at, updated_at
		FROM orders WHERE stripe_session_id = $1`
	err := r.DB.QueryRow(query, sessionID).Scan(
		&order.ID, &order.UserID, &order.TotalPrice, &order.Status,
		&order.PaymentStatus, &order.StripeSessionID, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("error querying order for session %s: %w", sessionID, err)
	}
	return &order, nil
}

func (r *OrderRepository) UpdateStatus(id int, status, paymentStatus string) error {
	result, err := r.DB.Exec(`
		UPDATE orders SET status = $1, payment_status = $2, updated_at = NOW()
		WHERE id = $3`,
		status, paymentStatus, id,
	)
	if err != nil {
		return fmt.Errorf("error updating order %d status: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *OrderRepository) UpdateStatusBySessionID(sessionID, status, paymentStatus string) error {
	result, err := r.DB.Exec(`
		UPDATE orders SET status = $1, payment_status = $2, updated_at = NOW()
		WHERE stripe_session_id = $3`,
		status, paymentStatus, sessionID,
	)
	if err != nil {
		return fmt.Errorf("error updating order status for session %s: %w", sessionID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CancelStalePending cancels pending unpaid orders created before the given
// time. Called from the cleanup job.
func (r *OrderRepository) CancelStalePending(before time.Time) (int64, error) {
	result, err := r.DB.Exec(`
		UPDATE orders SET status = 'cancelled', updated_at = NOW()
		WHERE status = 'pending' AND payment_status = 'pending' AND created_at < $1`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("error cancelling stale orders: %w", err)
	}
	return result.RowsAffected()
}
