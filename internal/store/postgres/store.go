// Package postgres provides the PostgreSQL implementation of the store
// interfaces.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/tidelabs/oceanvoice/internal/models"
	"github.com/tidelabs/oceanvoice/internal/store"
)

// queryable abstracts over *sql.DB and *sql.Tx for query execution.
type queryable interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store implements store.Store using PostgreSQL.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	tweets *TweetLogStore
	posts  *PostLogStore
}

var _ store.Store = (*Store)(nil)

// Config holds PostgreSQL connection configuration.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(dsn string) *Config {
	return &Config{
		DSN:             dsn,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
	}
}

// NewStore opens a connection pool, verifies it, and creates the log tables
// if they do not exist yet.
func NewStore(cfg *Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
		tweets: &TweetLogStore{db: db, logger: logger},
		posts:  &PostLogStore{db: db, logger: logger},
	}

	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("connected to PostgreSQL database")
	return s, nil
}

// ensureSchema creates the log tables idempotently.
func (s *Store) ensureSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS tweets_log (
			id BIGSERIAL PRIMARY KEY,
			tweet_content TEXT NOT NULL,
			post_datetime TIMESTAMPTZ NOT NULL,
			data_summary TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS posts_log (
			id BIGSERIAL PRIMARY KEY,
			post_content TEXT NOT NULL,
			post_datetime TIMESTAMPTZ NOT NULL,
			event TEXT,
			coordinates TEXT
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating log tables: %w", err)
		}
	}
	return nil
}

// AppendTweet implements store.TweetLog.
func (s *Store) AppendTweet(ctx context.Context, content, dataSummary string) (*models.TweetRecord, error) {
	return s.tweets.Append(ctx, content, dataSummary)
}

// TweetsSince implements store.TweetLog.
func (s *Store) TweetsSince(ctx context.Context, since time.Time) ([]*models.TweetRecord, error) {
	return s.tweets.Since(ctx, since)
}

// AppendPost implements store.PostLog.
func (s *Store) AppendPost(ctx context.Context, content, event, coordinates string) (*models.PostRecord, error) {
	return s.posts.Append(ctx, content, event, coordinates)
}

// PostsSince implements store.PostLog.
func (s *Store) PostsSince(ctx context.Context, since time.Time) ([]*models.PostRecord, error) {
	return s.posts.Since(ctx, since)
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.logger.Info("closing PostgreSQL connection")
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// nullIfEmpty maps an empty string to SQL NULL for nullable text columns.
func nullIfEmpty(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
