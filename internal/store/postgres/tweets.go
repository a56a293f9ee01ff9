package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/tidelabs/oceanvoice/internal/models"
)

// TweetLogStore implements store.TweetLog using PostgreSQL.
type TweetLogStore struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger
}

// conn returns the queryable connection (transaction or database).
func (s *TweetLogStore) conn() queryable {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// Append inserts a tweet record. The database assigns the ID; the timestamp
// is taken at insert time. The row is committed before Append returns.
func (s *TweetLogStore) Append(ctx context.Context, content, dataSummary string) (*models.TweetRecord, error) {
	query := `
		INSERT INTO tweets_log (tweet_content, post_datetime, data_summary)
		VALUES ($1, $2, $3)
		RETURNING id`

	rec := &models.TweetRecord{
		Content:     content,
		PostedAt:    time.Now().UTC(),
		DataSummary: dataSummary,
	}

	err := s.conn().QueryRowContext(ctx, query,
		rec.Content,
		rec.PostedAt,
		nullIfEmpty(rec.DataSummary),
	).Scan(&rec.ID)

	if err != nil {
		return nil, fmt.Errorf("inserting tweet record: %w", err)
	}

	return rec, nil
}

// Since retrieves tweets posted at or after the given time, newest first.
func (s *TweetLogStore) Since(ctx context.Context, since time.Time) ([]*models.TweetRecord, error) {
	query := `
		SELECT id, tweet_content, post_datetime, data_summary
		FROM tweets_log
		WHERE post_datetime >= $1
		ORDER BY post_datetime DESC, id DESC`

	rows, err := s.conn().QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("querying tweets log: %w", err)
	}
	defer rows.Close()

	return s.scanTweets(rows)
}

// scanTweets scans multiple tweet record rows.
func (s *TweetLogStore) scanTweets(rows *sql.Rows) ([]*models.TweetRecord, error) {
	var records []*models.TweetRecord

	for rows.Next() {
		rec := &models.TweetRecord{}
		var dataSummary sql.NullString

		err := rows.Scan(
			&rec.ID,
			&rec.Content,
			&rec.PostedAt,
			&dataSummary,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning tweet record: %w", err)
		}

		rec.DataSummary = dataSummary.String
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tweet records: %w", err)
	}

	return records, nil
}
