package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/tidelabs/oceanvoice/internal/models"
)

// PostLogStore implements store.PostLog using PostgreSQL.
type PostLogStore struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger
}

// conn returns the queryable connection (transaction or database).
func (s *PostLogStore) conn() queryable {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// Append inserts a post record with its originating event and coordinates.
func (s *PostLogStore) Append(ctx context.Context, content, event, coordinates string) (*models.PostRecord, error) {
	query := `
		INSERT INTO posts_log (post_content, post_datetime, event, coordinates)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	rec := &models.PostRecord{
		Content:     content,
		PostedAt:    time.Now().UTC(),
		Event:       event,
		Coordinates: coordinates,
	}

	err := s.conn().QueryRowContext(ctx, query,
		rec.Content,
		rec.PostedAt,
		nullIfEmpty(rec.Event),
		nullIfEmpty(rec.Coordinates),
	).Scan(&rec.ID)

	if err != nil {
		return nil, fmt.Errorf("inserting post record: %w", err)
	}

	return rec, nil
}

// Since retrieves posts made at or after the given time, newest first.
func (s *PostLogStore) Since(ctx context.Context, since time.Time) ([]*models.PostRecord, error) {
	query := `
		SELECT id, post_content, post_datetime, event, coordinates
		FROM posts_log
		WHERE post_datetime >= $1
		ORDER BY post_datetime DESC, id DESC`

	rows, err := s.conn().QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("querying posts log: %w", err)
	}
	defer rows.Close()

	return s.scanPosts(rows)
}

// scanPosts scans multiple post record rows.
func (s *PostLogStore) scanPosts(rows *sql.Rows) ([]*models.PostRecord, error) {
	var records []*models.PostRecord

	for rows.Next() {
		rec := &models.PostRecord{}
		var event, coordinates sql.NullString

		err := rows.Scan(
			&rec.ID,
			&rec.Content,
			&rec.PostedAt,
			&event,
			&coordinates,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning post record: %w", err)
		}

		rec.Event = event.String
		rec.Coordinates = coordinates.String
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating post records: %w", err)
	}

	return records, nil
}
