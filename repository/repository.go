// Package repository provides Postgres-backed persistence for users and
// campaigns. Repositories run against either the pool or a transaction.
package repository

import (
	"context"
	"errors"
	"fmt"

	"marketly-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a query matches no rows.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned on unique constraint violations.
	ErrDuplicateKey = errors.New("duplicate key")
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository persists users
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// CampaignRepository persists campaigns. Every read and delete is scoped by
// the owning user.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Campaign, error)
	GetByUserIDAndID(ctx context.Context, userID, id uuid.UUID) (*models.Campaign, error)
	DeleteByUserIDAndID(ctx context.Context, userID, id uuid.UUID) error
}

// Store hands out repositories and runs work inside a transaction.
type Store interface {
	Users() UserRepository
	Campaigns() CampaignRepository

	// InTx runs fn against a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(tx Store) error) error

	// Ping checks database connectivity.
	Ping(ctx context.Context) error
}

// PostgreSQL SQLSTATE codes: https://www.postgresql.org/docs/current/errcodes-appendix.html
const pgUniqueViolation = "23505"

// mapError translates driver errors into the package's sentinel errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.ConstraintName)
	}
	return fmt.Errorf("db error: %w", err)
}
