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

func (db *DB) UserExists(
	ctx context.Context,
	username string,
) (bool, error) {
	// NOTE: Light transaction
	deadline := time.Now().Add(db.timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	query := `
	SELECT EXISTS(
		SELECT 1
		FROM users
		WHERE username = $1
	)
	`

	var exists bool
	if err := db.pool.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (db *DB) GetUserByUsername(
	ctx context.Context,
	username string,
) (*models.UserRow, error) {
	// NOTE: Light transaction
	deadline := time.Now().Add(db.timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	query := `
	SELECT
		user_id,
		username,
		password_hash,
		is_staff,
		created_at
	FROM users
	WHERE username = $1
	`

	rows, err := db.pool.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}

	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.UserRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q not found: %w", username, ErrResourceNotFound)
		}

		return nil, fmt.Errorf("failed to collect user row: %w", err)
	}

	return &user, nil
}

func (db *DB) CreateUser(
	ctx context.Context,
	username string,
	passwordHash string,
) (*models.UserRow, error) {
	// NOTE: Light transaction
	deadline := time.Now().Add(db.timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	query := `
	INSERT INTO users (username, password_hash)
	VALUES ($1, $2)
	RETURNING user_id
	`

	var userID int

	err := db.pool.QueryRow(ctx, query, username, passwordHash).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("username %q taken: %w", username, ErrDuplicateName)
		}

		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return db.GetUserByUsername(ctx, username)
}
