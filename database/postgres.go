package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"hotel-review-graphrag/config"
)

// PostgresStore provides the relational side of the service: the review
// document store used for similarity retrieval.
type PostgresStore struct {
	db  *sql.DB
	cfg *config.DatabaseConfig
}

// NewPostgresStore opens a connection pool and verifies connectivity.
func NewPostgresStore(cfg *config.DatabaseConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MinConns)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db, cfg: cfg}, nil
}

// DB returns the underlying pool for repositories.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// Ping checks database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the review document tables if they do not exist.
// Intended for local development; production deployments run migrations.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS review_documents (
			id UUID PRIMARY KEY,
			hotel_name TEXT NOT NULL,
			review_text TEXT NOT NULL,
			language TEXT NOT NULL DEFAULT 'en',
			score DOUBLE PRECISION,
			traveler_type TEXT,
			embedding DOUBLE PRECISION[],
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_review_documents_hotel_name
			ON review_documents (hotel_name)`,
		`CREATE INDEX IF NOT EXISTS idx_review_documents_language
			ON review_documents (language)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	return nil
}

// Stats reports pool statistics for the metrics endpoint.
func (s *PostgresStore) Stats() sql.DBStats {
	return s.db.Stats()
}
