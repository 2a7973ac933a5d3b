package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CHRISTIANARIBAL/guiritan/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateOrder turns checked-out cart lines into an order and its
// items in one transaction. Prices are read from the products table
// inside the transaction, so the stored price is the price at
// checkout, not whatever the client claimed.
func (db *DB) CreateOrder(
	ctx context.Context,
	userID int,
	lines []models.OrderLine,
) (*models.OrderResponse, error) {
	// NOTE: Heavy transaction
	deadline := time.Now().Add(db.timeout * 2)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	reference := uuid.NewString()

	var orderID int

	insertOrder := `
	INSERT INTO orders (reference, user_id, total_price)
	VALUES ($1, $2, 0)
	RETURNING order_id
	`

	if err := tx.QueryRow(ctx, insertOrder, reference, userID).Scan(&orderID); err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	insertItem := `
	INSERT INTO order_items (order_id, product_id, quantity, price)
	SELECT $1, product_id, $3, price
	FROM products
	WHERE product_id = $2
	`

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}

		tag, err := tx.Exec(ctx, insertItem, orderID, line.ProductID, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}

		// A product removed since it entered the cart just drops out.
		if tag.RowsAffected() == 0 {
			continue
		}
	}

	updateTotal := `
	UPDATE orders
	SET total_price = (
		SELECT COALESCE(SUM(quantity * price), 0)
		FROM order_items
		WHERE order_id = $1
	)
	WHERE order_id = $1
	`

	if _, err := tx.Exec(ctx, updateTotal, orderID); err != nil {
		return nil, fmt.Errorf("failed to total order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return db.GetOrder(ctx, orderID)
}

func (db *DB) GetOrder(
	ctx context.Context,
	orderID int,
) (*models.OrderResponse, error) {
	// NOTE: Moderately heavy transaction
	deadline := time.Now().Add(db.timeout * 2)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	query := `
	SELECT
		o.order_id,
		o.reference,
		o.user_id,
		u.username,
		o.total_price,
		o.created_at
	FROM orders o
	JOIN users u USING (user_id)
	WHERE o.order_id = $1
	`

	rows, err := db.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order with id %d: %w", orderID, err)
	}

	orderRow, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.OrderRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order with id %d not found: %w", orderID, ErrResourceNotFound)
		}

		return nil, fmt.Errorf("failed to collect order row: %w", err)
	}

	items, err := db.listOrderItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect order items: %w", err)
	}

	orderResponse := orderRow.ToResponse(items)

	return &orderResponse, nil
}

func (db *DB) listOrderItems(
	ctx context.Context,
	orderID int,
) ([]models.OrderItemResponse, error) {
	query := `
	SELECT
		i.order_item_id,
		i.order_id,
		i.product_id,
		p.product_name,
		i.quantity,
		i.price
	FROM order_items i
	JOIN products p USING (product_id)
	WHERE i.order_id = $1
	ORDER BY i.order_item_id
	`

	rows, err := db.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	itemRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.OrderItemRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect order item rows: %w", err)
	}

	items := make([]models.OrderItemResponse, 0, len(itemRows))
	for _, row := range itemRows {
		items = append(items, row.ToResponse())
	}

	return items, nil
}

// ListOrders returns all orders, newest first, optionally filtered by
// a search term matched against the buyer's username or any ordered
// product's name.
func (db *DB) ListOrders(
	ctx context.Context,
	search string,
) ([]models.OrderResponse, error) {
	// NOTE: Heavy transaction
	deadline := time.Now().Add(db.timeout * 2)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	query := `
	SELECT DISTINCT
		o.order_id,
		o.reference,
		o.user_id,
		u.username,
		o.total_price,
		o.created_at
	FROM orders o
	JOIN users u USING (user_id)
	LEFT JOIN order_items i USING (order_id)
	LEFT JOIN products p USING (product_id)
	`

	var args []any

	if search != "" {
		query += `
	WHERE u.username ILIKE '%' || $1 || '%'
	   OR p.product_name ILIKE '%' || $1 || '%'
	`
		args = append(args, search)
	}

	query += `
	ORDER BY o.order_id DESC
	`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	orderRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.OrderRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect order rows: %w", err)
	}

	orderList := make([]models.OrderResponse, 0, len(orderRows))
	for _, row := range orderRows {
		items, err := db.listOrderItems(ctx, row.ID)
		if err != nil {
			return nil, err
		}

		orderList = append(orderList, row.ToResponse(items))
	}

	return orderList, nil
}

func (db *DB) DeleteOrder(
	ctx context.Context,
	orderID int,
) error {
	// NOTE: Light transaction
	deadline := time.Now().Add(db.timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	query := `
	DELETE FROM orders
	WHERE order_id = $1
	`

	tag, err := db.pool.Exec(ctx, query, orderID)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order with id %d not found: %w", orderID, ErrResourceNotFound)
	}

	return nil
}

func (db *DB) DeleteAllOrders(
	ctx context.Context,
) error {
	// NOTE: Heavy transaction
	deadline := time.Now().Add(db.timeout * 2)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	if _, err := db.pool.Exec(ctx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("failed to delete orders: %w", err)
	}

	return nil
}
