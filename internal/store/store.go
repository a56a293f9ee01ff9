// Package store provides database access interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/tidelabs/oceanvoice/internal/models"
)

// TweetLog defines operations for the tweets log. The log is append-only:
// no update or delete path exists.
type TweetLog interface {
	// AppendTweet durably records a generated tweet. The store assigns the
	// ID and timestamp and commits before returning.
	AppendTweet(ctx context.Context, content, dataSummary string) (*models.TweetRecord, error)
	// TweetsSince retrieves all tweets posted at or after the given time,
	// newest first.
	TweetsSince(ctx context.Context, since time.Time) ([]*models.TweetRecord, error)
}

// PostLog defines operations for the Facebook posts log. Append-only,
// independent of the tweets log.
type PostLog interface {
	// AppendPost durably records a generated post with its originating
	// event and coordinates.
	AppendPost(ctx context.Context, content, event, coordinates string) (*models.PostRecord, error)
	// PostsSince retrieves all posts made at or after the given time,
	// newest first.
	PostsSince(ctx context.Context, since time.Time) ([]*models.PostRecord, error)
}

// Store is the main interface for database operations. It is constructed
// once at process start, injected into every component that needs it, and
// closed on shutdown.
type Store interface {
	TweetLog
	PostLog

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close closes the underlying connection.
	Close() error
}
