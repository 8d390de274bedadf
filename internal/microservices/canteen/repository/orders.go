package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"campus-canteen/internal/domain"
)

type OrderRepositoryInterface interface {
	// CreateOrder stores the order, its snapshot lines and the first status log row.
	CreateOrder(ctx context.Context, o domain.Order, changedBy string) (domain.Order, error)
	GetOrder(ctx context.Context, id int64) (domain.Order, bool, error)
	// ListOrdersByUsername returns newest first.
	ListOrdersByUsername(ctx context.Context, username string) ([]domain.Order, error)
	// ListOrders returns newest first; a nil status lists every order.
	ListOrders(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error)
	UpdateStatusTx(ctx context.Context, id int64, status domain.OrderStatus, changedBy string) (domain.Order, domain.OrderStatus, bool, error)
	// DeleteOrderTx removes the order and records logStatus in the status log.
	DeleteOrderTx(ctx context.Context, id int64, logStatus domain.OrderStatus, changedBy string) (domain.Order, bool, error)
	CountByStatus(ctx context.Context) (map[domain.OrderStatus]int, int, error)
	ListStatusLog(ctx context.Context, orderID int64) ([]domain.StatusLogEntry, error)
}

type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) OrderRepositoryInterface {
	return &OrderRepository{db: db}
}

const orderColumns = `id, username, total_price, status, token, payment_method, payment_status, pickup_time, pickup_at, created_at`

func (r *OrderRepository) CreateOrder(ctx context.Context, o domain.Order, changedBy string) (domain.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// 1. order row
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO orders
		    (username, total_price, status, token, payment_method, payment_status, pickup_time, pickup_at, created_at)
		VALUES
		    ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING id, created_at
	`,
		o.Username,
		o.TotalPrice,
		string(o.Status),
		o.Token,
		string(o.PaymentMethod),
		string(o.PaymentStatus),
		o.PickupTime,
		o.PickupAt,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	// 2. snapshot lines
	for i, item := range o.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, item_id, name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, o.ID, i, item.ItemID, item.Name, item.Quantity, item.UnitPrice); err != nil {
			return domain.Order{}, fmt.Errorf("failed to insert order item %s: %w", item.Name, err)
		}
	}

	// 3. status log
	if err := insertStatusLog(ctx, tx, o.ID, o.Token, o.Status, changedBy); err != nil {
		return domain.Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, id int64) (domain.Order, bool, error) {
	var o domain.Order
	err := r.db.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, false, nil
	}
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	orders := []domain.Order{o}
	if err := r.attachItems(ctx, r.db, orders); err != nil {
		return domain.Order{}, false, err
	}
	return orders[0], true, nil
}

func (r *OrderRepository) ListOrdersByUsername(ctx context.Context, username string) ([]domain.Order, error) {
	orders := []domain.Order{}
	if err := r.db.SelectContext(ctx, &orders, `
		SELECT `+orderColumns+`
		FROM orders WHERE username = $1
		ORDER BY id DESC
	`, username); err != nil {
		return nil, fmt.Errorf("failed to list orders of %s: %w", username, err)
	}
	if err := r.attachItems(ctx, r.db, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) ListOrders(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error) {
	var filter sql.NullString
	if status != nil {
		filter = sql.NullString{String: string(*status), Valid: true}
	}
	orders := []domain.Order{}
	if err := r.db.SelectContext(ctx, &orders, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY id DESC
	`, filter); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if err := r.attachItems(ctx, r.db, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatusTx(ctx context.Context, id int64, status domain.OrderStatus, changedBy string) (domain.Order, domain.OrderStatus, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Order{}, "", false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var o domain.Order
	err = tx.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, "", false, nil
	}
	if err != nil {
		return domain.Order{}, "", false, fmt.Errorf("failed to lock order %d: %w", id, err)
	}
	old := o.Status

	if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, string(status)); err != nil {
		return domain.Order{}, "", false, fmt.Errorf("failed to update order %d: %w", id, err)
	}
	if err := insertStatusLog(ctx, tx, o.ID, o.Token, status, changedBy); err != nil {
		return domain.Order{}, "", false, err
	}
	o.Status = status

	orders := []domain.Order{o}
	if err := r.attachItems(ctx, tx, orders); err != nil {
		return domain.Order{}, "", false, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, "", false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return orders[0], old, true, nil
}

func (r *OrderRepository) DeleteOrderTx(ctx context.Context, id int64, logStatus domain.OrderStatus, changedBy string) (domain.Order, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var o domain.Order
	err = tx.GetContext(ctx, &o, `DELETE FROM orders WHERE id = $1 RETURNING `+orderColumns, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, false, nil
	}
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("failed to delete order %d: %w", id, err)
	}
	if err := insertStatusLog(ctx, tx, o.ID, o.Token, logStatus, changedBy); err != nil {
		return domain.Order{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return o, true, nil
}

func (r *OrderRepository) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int, int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.OrderStatus]int)
	total := 0
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, 0, fmt.Errorf("failed to scan order count: %w", err)
		}
		counts[domain.OrderStatus(status)] = n
		total += n
	}
	return counts, total, rows.Err()
}

func (r *OrderRepository) ListStatusLog(ctx context.Context, orderID int64) ([]domain.StatusLogEntry, error) {
	entries := []domain.StatusLogEntry{}
	if err := r.db.SelectContext(ctx, &entries, `
		SELECT id, order_id, token, status, changed_by, changed_at
		FROM order_status_log WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC
	`, orderID); err != nil {
		return nil, fmt.Errorf("failed to list status log of order %d: %w", orderID, err)
	}
	return entries, nil
}

type queryer interface {
	sqlx.QueryerContext
	Rebind(query string) string
}

// attachItems loads snapshot lines for every order in one query.
func (r *OrderRepository) attachItems(ctx context.Context, q queryer, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids = append(ids, o.ID)
		index[o.ID] = i
		orders[i].Items = []domain.LineItem{}
	}

	query, args, err := sqlx.In(`
		SELECT order_id, item_id, name, quantity, unit_price
		FROM order_items
		WHERE order_id IN (?)
		ORDER BY order_id, position
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to build order items query: %w", err)
	}

	var rows []struct {
		OrderID int64 `db:"order_id"`
		domain.LineItem
	}
	if err := sqlx.SelectContext(ctx, q, &rows, q.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	for _, row := range rows {
		i := index[row.OrderID]
		orders[i].Items = append(orders[i].Items, row.LineItem)
	}
	return nil
}

func insertStatusLog(ctx context.Context, tx *sqlx.Tx, orderID int64, token string, status domain.OrderStatus, changedBy string) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_log (order_id, token, status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, now())
	`, orderID, token, string(status), changedBy); err != nil {
		return fmt.Errorf("failed to insert order status log: %w", err)
	}
	return nil
}
