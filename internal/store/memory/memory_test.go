package memory

import (
	"context"
	"testing"
	"time"
)

func TestAppendTweetAssignsIncreasingIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.AppendTweet(ctx, "first", "obs one")
	if err != nil {
		t.Fatalf("AppendTweet: %v", err)
	}
	second, err := s.AppendTweet(ctx, "second", "obs two")
	if err != nil {
		t.Fatalf("AppendTweet: %v", err)
	}

	if first.ID >= second.ID {
		t.Errorf("expected increasing IDs, got %d then %d", first.ID, second.ID)
	}
	if first.PostedAt.IsZero() || second.PostedAt.IsZero() {
		t.Error("expected store-assigned timestamps")
	}
}

func TestTweetsSinceNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	current := base
	s.SetClock(func() time.Time {
		current = current.Add(time.Minute)
		return current
	})

	for _, content := range []string{"oldest", "middle", "newest"} {
		if _, err := s.AppendTweet(ctx, content, ""); err != nil {
			t.Fatalf("AppendTweet: %v", err)
		}
	}

	got, err := s.TweetsSince(ctx, base)
	if err != nil {
		t.Fatalf("TweetsSince: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 tweets, got %d", len(got))
	}
	if got[0].Content != "newest" || got[2].Content != "oldest" {
		t.Errorf("expected newest-first ordering, got %q, %q, %q",
			got[0].Content, got[1].Content, got[2].Content)
	}
}

func TestTweetsSinceExcludesOlderRecords(t *testing.T) {
	s := New()
	ctx := context.Background()

	times := []time.Time{
		time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 9, 0, 0, 0, 0, time.UTC),
	}
	i := 0
	s.SetClock(func() time.Time {
		ts := times[i]
		i++
		return ts
	})

	for _, content := range []string{"too old", "in window", "recent"} {
		if _, err := s.AppendTweet(ctx, content, ""); err != nil {
			t.Fatalf("AppendTweet: %v", err)
		}
	}

	got, err := s.TweetsSince(ctx, time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("TweetsSince: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tweets in window, got %d", len(got))
	}
	for _, rec := range got {
		if rec.Content == "too old" {
			t.Error("record older than since should be excluded")
		}
	}
}

func TestReadAfterWriteVisibility(t *testing.T) {
	s := New()
	ctx := context.Background()

	appended, err := s.AppendTweet(ctx, "just written", "summary")
	if err != nil {
		t.Fatalf("AppendTweet: %v", err)
	}

	got, err := s.TweetsSince(ctx, time.Now().Add(-time.Second))
	if err != nil {
		t.Fatalf("TweetsSince: %v", err)
	}
	found := false
	for _, rec := range got {
		if rec.ID == appended.ID && rec.Content == "just written" {
			found = true
		}
	}
	if !found {
		t.Error("just-appended tweet not visible to immediate query")
	}
}

func TestPostLogIndependentOfTweetLog(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.AppendPost(ctx, "a post", "Plastic waste accumulation detected", "15.30°S, 125.70°E"); err != nil {
		t.Fatalf("AppendPost: %v", err)
	}

	tweets, err := s.TweetsSince(ctx, time.Time{})
	if err != nil {
		t.Fatalf("TweetsSince: %v", err)
	}
	if len(tweets) != 0 {
		t.Errorf("posts must not appear in the tweets log, got %d tweets", len(tweets))
	}

	posts, err := s.PostsSince(ctx, time.Time{})
	if err != nil {
		t.Fatalf("PostsSince: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if posts[0].Event != "Plastic waste accumulation detected" {
		t.Errorf("unexpected event echo: %q", posts[0].Event)
	}
	if posts[0].Coordinates != "15.30°S, 125.70°E" {
		t.Errorf("unexpected coordinates echo: %q", posts[0].Coordinates)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	appended, err := s.AppendTweet(ctx, "original", "")
	if err != nil {
		t.Fatalf("AppendTweet: %v", err)
	}
	appended.Content = "mutated"

	got, err := s.TweetsSince(ctx, time.Time{})
	if err != nil {
		t.Fatalf("TweetsSince: %v", err)
	}
	if got[0].Content != "original" {
		t.Error("mutating a returned record must not affect stored data")
	}
}
