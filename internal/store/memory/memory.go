// Package memory provides an in-memory implementation of the store
// interfaces. It backs tests and runs without a configured database; records
// live only as long as the process.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tidelabs/oceanvoice/internal/models"
	"github.com/tidelabs/oceanvoice/internal/store"
)

// Store holds tweet and post records in memory. Safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	tweets    []*models.TweetRecord
	posts     []*models.PostRecord
	nextTweet int64
	nextPost  int64
	now       func() time.Time
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		nextTweet: 1,
		nextPost:  1,
		now:       time.Now,
	}
}

// SetClock overrides the timestamp source. Used by tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// AppendTweet records a tweet with the next ID and the current time.
func (s *Store) AppendTweet(ctx context.Context, content, dataSummary string) (*models.TweetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &models.TweetRecord{
		ID:          s.nextTweet,
		Content:     content,
		PostedAt:    s.now().UTC(),
		DataSummary: dataSummary,
	}
	s.nextTweet++
	s.tweets = append(s.tweets, rec)

	copied := *rec
	return &copied, nil
}

// TweetsSince returns tweets posted at or after since, newest first.
func (s *Store) TweetsSince(ctx context.Context, since time.Time) ([]*models.TweetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.TweetRecord
	for _, rec := range s.tweets {
		if rec.PostedAt.Before(since) {
			continue
		}
		copied := *rec
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PostedAt.After(out[j].PostedAt)
	})
	return out, nil
}

// AppendPost records a post with the next ID and the current time.
func (s *Store) AppendPost(ctx context.Context, content, event, coordinates string) (*models.PostRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &models.PostRecord{
		ID:          s.nextPost,
		Content:     content,
		PostedAt:    s.now().UTC(),
		Event:       event,
		Coordinates: coordinates,
	}
	s.nextPost++
	s.posts = append(s.posts, rec)

	copied := *rec
	return &copied, nil
}

// PostsSince returns posts made at or after since, newest first.
func (s *Store) PostsSince(ctx context.Context, since time.Time) ([]*models.PostRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.PostRecord
	for _, rec := range s.posts {
		if rec.PostedAt.Before(since) {
			continue
		}
		copied := *rec
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PostedAt.After(out[j].PostedAt)
	})
	return out, nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
