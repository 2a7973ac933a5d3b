package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CHRISTIANARIBAL/guiritan/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func (db *DB) GetCategory(
	ctx context.Context,
	categoryID int,
) (*models.CategoryResponse, error) {
	// NOTE: Light transaction
	deadline := time.Now().Add(db.timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	query := `
	SELECT
		category_id,
		category_name
	FROM categories
	WHERE category_id = $1
	`

	rows, err := db.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category with id %d: %w", categoryID, err)
	}

	categoryRow, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.CategoryRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("category with id %d not found: %w", categoryID, ErrResourceNotFound)
		}

		return nil, fmt.Errorf("failed to collect category row: %w", err)
	}

	categoryResponse := categoryRow.ToResponse()

	return &categoryResponse, nil
}

func (db *DB) ListCategories(
	ctx context.Context,
) ([]models.CategoryResponse, error) {
	// NOTE: Light transaction
	deadline := time.Now().Add(db.timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	query := `
	SELECT
		category_id,
		category_name
	FROM categories
	ORDER BY category_name
	`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	categoryRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CategoryRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect category rows: %w", err)
	}

	categoryList := make([]models.CategoryResponse, 0, len(categoryRows))
	for _, row := range categoryRows {
		categoryList = append(categoryList, row.ToResponse())
	}

	return categoryList, nil
}

// GetOrCreateCategory resolves a category by name, inserting it when
// absent. The original admin form lets operators type a new category
// inline instead of picking an existing one.
func (db *DB) GetOrCreateCategory(
	ctx context.Context,
	name string,
) (*models.CategoryResponse, error) {
	// NOTE: Light transaction
	deadline := time.Now().Add(db.timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	query := `
	INSERT INTO categories (category_name)
	VALUES ($1)
	ON CONFLICT (category_name) DO UPDATE
		SET category_name = EXCLUDED.category_name
	RETURNING category_id, category_name
	`

	rows, err := db.pool.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create category %q: %w", name, err)
	}

	categoryRow, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.CategoryRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect category row: %w", err)
	}

	categoryResponse := categoryRow.ToResponse()

	return &categoryResponse, nil
}

func (db *DB) CreateCategory(
	ctx context.Context,
	req models.CategoryRequest,
) (*models.CategoryResponse, error) {
	// NOTE: Light transaction
	deadline := time.Now().Add(db.timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	if req.Name == nil || *req.Name == "" {
		return nil, ErrNameNotFound
	}

	query := `
	INSERT INTO categories (category_name)
	VALUES ($1)
	RETURNING category_id
	`

	var categoryID int

	err := db.pool.QueryRow(ctx, query, *req.Name).Scan(&categoryID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("category %q exists: %w", *req.Name, ErrDuplicateName)
		}

		return nil, fmt.Errorf("failed to insert category: %w", err)
	}

	return db.GetCategory(ctx, categoryID)
}

func (db *DB) UpdateCategory(
	ctx context.Context,
	categoryID int,
	req models.CategoryRequest,
) (*models.CategoryResponse, error) {
	// NOTE: Light transaction
	deadline := time.Now().Add(db.timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	if req.Name == nil || *req.Name == "" {
		return nil, ErrNameNotFound
	}

	query := `
	UPDATE categories
	SET category_name = $1
	WHERE category_id = $2
	`

	tag, err := db.pool.Exec(ctx, query, *req.Name, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("category with id %d not found: %w", categoryID, ErrResourceNotFound)
	}

	return db.GetCategory(ctx, categoryID)
}

func (db *DB) DeleteCategory(
	ctx context.Context,
	categoryID int,
) error {
	// NOTE: Light transaction
	deadline := time.Now().Add(db.timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	query := `
	DELETE FROM categories
	WHERE category_id = $1
	`

	tag, err := db.pool.Exec(ctx, query, categoryID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("category %d still referenced: %w", categoryID, ErrForeignKeyViolation)
		}

		return fmt.Errorf("failed to delete category: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category with id %d not found: %w", categoryID, ErrResourceNotFound)
	}

	return nil
}
