package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the pgx implementation of Store
type PostgresStore struct {
	pool *pgxpool.Pool
	db   DBTX
}

// NewPostgresStore creates a store bound to the connection pool
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, db: pool}
}

// Users returns a user repository bound to this store's connection
func (s *PostgresStore) Users() UserRepository {
	return NewUserRepository(s.db)
}

// Campaigns returns a campaign repository bound to this store's connection
func (s *PostgresStore) Campaigns() CampaignRepository {
	return NewCampaignRepository(s.db)
}

// InTx runs fn inside a transaction. Nested calls reuse the outer transaction.
func (s *PostgresStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	if _, inTx := s.db.(pgx.Tx); inTx {
		return fn(s)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&PostgresStore{pool: s.pool, db: tx})
	})
}

// Ping checks that the database is reachable
func (s *PostgresStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return errors.New("database pool not set")
	}
	return s.pool.Ping(ctx)
}
