package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CHRISTIANARIBAL/guiritan/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const productColumns = `
	p.product_id,
	p.product_name,
	p.category_id,
	c.category_name,
	p.size,
	p.price,
	p.stock,
	p.description,
	p.created_at,
	p.updated_at
`

func (db *DB) GetProduct(
	ctx context.Context,
	productID int,
) (*models.ProductResponse, error) {
	// NOTE: Light transaction
	deadline := time.Now().Add(db.timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	query := fmt.Sprintf(`
	SELECT %s
	FROM products p
	JOIN categories c USING (category_id)
	WHERE p.product_id = $1
	`, productColumns)

	rows, err := db.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product with id %d: %w", productID, err)
	}

	productRow, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.ProductRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product with id %d not found: %w", productID, ErrResourceNotFound)
		}

		return nil, fmt.Errorf("failed to collect product row: %w", err)
	}

	productResponse := productRow.ToResponse()

	return &productResponse, nil
}

func (db *DB) ListProducts(
	ctx context.Context,
) ([]models.ProductResponse, error) {
	// NOTE: Moderately heavy transaction
	deadline := time.Now().Add(db.timeout * 2)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	query := fmt.Sprintf(`
	SELECT %s
	FROM products p
	JOIN categories c USING (category_id)
	ORDER BY p.product_id DESC
	`, productColumns)

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	productRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ProductRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect product rows: %w", err)
	}

	productList := make([]models.ProductResponse, 0, len(productRows))
	for _, row := range productRows {
		productList = append(productList, row.ToResponse())
	}

	return productList, nil
}

// ListProductsByIDs fetches the products the cart references. Absent
// ids are simply skipped; the cart tolerates products deleted since
// they were added.
func (db *DB) ListProductsByIDs(
	ctx context.Context,
	productIDs []int,
) ([]models.ProductResponse, error) {
	// NOTE: Light transaction
	deadline := time.Now().Add(db.timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	if len(productIDs) == 0 {
		return []models.ProductResponse{}, nil
	}

	query := fmt.Sprintf(`
	SELECT %s
	FROM products p
	JOIN categories c USING (category_id)
	WHERE p.product_id = ANY($1)
	ORDER BY p.product_id
	`, productColumns)

	rows, err := db.pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	productRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ProductRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect product rows: %w", err)
	}

	productList := make([]models.ProductResponse, 0, len(productRows))
	for _, row := range productRows {
		productList = append(productList, row.ToResponse())
	}

	return productList, nil
}

// resolveCategory picks the referenced category or creates the inline
// one. Exactly one of the two fields must be usable.
func (db *DB) resolveCategory(
	ctx context.Context,
	req models.ProductRequest,
) (*int, error) {
	if req.NewCategory != nil && strings.TrimSpace(*req.NewCategory) != "" {
		category, err := db.GetOrCreateCategory(ctx, strings.TrimSpace(*req.NewCategory))
		if err != nil {
			return nil, err
		}
		return &category.ID, nil
	}

	if req.CategoryID != nil {
		return req.CategoryID, nil
	}

	return nil, nil
}

func (db *DB) CreateProduct(
	ctx context.Context,
	req models.ProductRequest,
) (*models.ProductResponse, error) {
	// NOTE: Moderately heavy transaction
	deadline := time.Now().Add(db.timeout * 2)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	// NOTE: Names are required
	if req.Name == nil || *req.Name == "" {
		return nil, ErrNameNotFound
	}

	categoryID, err := db.resolveCategory(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}
	if categoryID == nil {
		return nil, fmt.Errorf("a category reference is required: %w", ErrForeignKeyViolation)
	}

	// NOTE: Dynamically build query
	var cols = []string{"product_name", "category_id"}
	var vals = []any{req.Name, categoryID}
	var placeholders = []string{"$1", "$2"}

	if req.Size != nil {
		cols = append(cols, "size")
		vals = append(vals, req.Size)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(cols)))
	}

	if req.Price != nil {
		cols = append(cols, "price")
		vals = append(vals, req.Price)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(cols)))
	}

	if req.Stock != nil {
		cols = append(cols, "stock")
		vals = append(vals, req.Stock)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(cols)))
	}

	if req.Description != nil {
		cols = append(cols, "description")
		vals = append(vals, req.Description)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(cols)))
	}

	query := fmt.Sprintf(`
		INSERT INTO products (%s)
		VALUES (%s)
		RETURNING product_id
		`, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	var productID int

	err = db.pool.QueryRow(ctx, query, vals...).Scan(&productID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, fmt.Errorf("invalid category reference: %w", ErrForeignKeyViolation)
		}

		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return db.GetProduct(ctx, productID)
}

func (db *DB) UpdateProduct(
	ctx context.Context,
	productID int,
	req models.ProductRequest,
) (*models.ProductResponse, error) {
	// NOTE: Moderately heavy transaction
	deadline := time.Now().Add(db.timeout * 2)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	categoryID, err := db.resolveCategory(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	// NOTE: Dynamically build query; absent fields keep their values
	var sets []string
	var vals []any

	set := func(col string, val any) {
		vals = append(vals, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(vals)))
	}

	if req.Name != nil {
		set("product_name", req.Name)
	}
	if categoryID != nil {
		set("category_id", categoryID)
	}
	if req.Size != nil {
		set("size", req.Size)
	}
	if req.Price != nil {
		set("price", req.Price)
	}
	if req.Stock != nil {
		set("stock", req.Stock)
	}
	if req.Description != nil {
		set("description", req.Description)
	}

	if len(sets) == 0 {
		return db.GetProduct(ctx, productID)
	}

	set("updated_at", time.Now())

	vals = append(vals, productID)

	query := fmt.Sprintf(`
		UPDATE products
		SET %s
		WHERE product_id = $%d
		`, strings.Join(sets, ", "), len(vals))

	tag, err := db.pool.Exec(ctx, query, vals...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, fmt.Errorf("invalid category reference: %w", ErrForeignKeyViolation)
		}

		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("product with id %d not found: %w", productID, ErrResourceNotFound)
	}

	return db.GetProduct(ctx, productID)
}

func (db *DB) DeleteProduct(
	ctx context.Context,
	productID int,
) error {
	// NOTE: Light transaction
	deadline := time.Now().Add(db.timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	query := `
	DELETE FROM products
	WHERE product_id = $1
	`

	tag, err := db.pool.Exec(ctx, query, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product with id %d not found: %w", productID, ErrResourceNotFound)
	}

	return nil
}
