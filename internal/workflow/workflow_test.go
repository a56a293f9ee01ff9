package workflow

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tidelabs/oceanvoice/internal/pipeline"
	"github.com/tidelabs/oceanvoice/internal/publisher"
	"github.com/tidelabs/oceanvoice/internal/store/memory"
)

// fakeGenerator counts calls and records the last prompt.
type fakeGenerator struct {
	calls      int32
	lastPrompt string
	response   string
	err        error
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&g.calls, 1)
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

// fakePublisher records published content.
type fakePublisher struct {
	calls   int32
	last    string
	outcome publisher.Outcome
}

func (p *fakePublisher) Publish(ctx context.Context, content string) publisher.Outcome {
	atomic.AddInt32(&p.calls, 1)
	p.last = content
	return p.outcome
}

func deliveredPublisher() *fakePublisher {
	return &fakePublisher{outcome: publisher.Outcome{Status: publisher.StatusDelivered}}
}

func TestTweetWorkflowEndToEnd(t *testing.T) {
	gen := &fakeGenerator{response: "🌊 I am hurting near Chittagong today. An oil slick spreads across my surface. #OceanWatch"}
	pub := deliveredPublisher()
	s := memory.New()

	w, err := NewTweetWorkflow(gen, pub, s, nil)
	if err != nil {
		t.Fatalf("NewTweetWorkflow: %v", err)
	}

	start := time.Now().UTC()
	result := w.Run(context.Background(), "oil spill detected near Chittagong")

	if result.Stage != pipeline.StageCompleted {
		t.Errorf("expected completed run, got %s", result.Stage)
	}
	if result.Content == "" {
		t.Fatal("expected non-empty generated content")
	}
	if gen.calls != 1 {
		t.Errorf("expected exactly one generation call, got %d", gen.calls)
	}
	if !strings.Contains(gen.lastPrompt, "oil spill detected near Chittagong") {
		t.Error("expected prompt to embed the payload")
	}
	if pub.calls != 1 || pub.last != result.Content {
		t.Errorf("expected one publish of the generated content, got %d calls, last %q", pub.calls, pub.last)
	}

	records, err := s.TweetsSince(context.Background(), start.Add(-time.Second))
	if err != nil {
		t.Fatalf("TweetsSince: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one appended record, got %d", len(records))
	}
	if records[0].Content != result.Content {
		t.Errorf("record content %q != run content %q", records[0].Content, result.Content)
	}
	if records[0].PostedAt.Before(start.Add(-time.Second)) {
		t.Errorf("expected record timestamp >= run start, got %v", records[0].PostedAt)
	}
	if records[0].DataSummary != "oil spill detected near Chittagong" {
		t.Errorf("expected payload echo in data summary, got %q", records[0].DataSummary)
	}
}

// An empty payload yields the sentinel, which is still published and logged.
// This mirrors the documented pipeline behavior: the sentinel is content.
func TestTweetWorkflowEmptyPayloadSentinel(t *testing.T) {
	gen := &fakeGenerator{response: "should not be called"}
	pub := deliveredPublisher()
	s := memory.New()

	w, err := NewTweetWorkflow(gen, pub, s, nil)
	if err != nil {
		t.Fatalf("NewTweetWorkflow: %v", err)
	}

	result := w.Run(context.Background(), "   ")

	if gen.calls != 0 {
		t.Errorf("expected zero generation calls for empty payload, got %d", gen.calls)
	}
	if result.Content != TweetSentinel {
		t.Errorf("expected sentinel content, got %q", result.Content)
	}
	if pub.calls != 1 || pub.last != TweetSentinel {
		t.Errorf("expected the sentinel to be published, got %d calls, last %q", pub.calls, pub.last)
	}

	records, err := s.TweetsSince(context.Background(), time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("TweetsSince: %v", err)
	}
	if len(records) != 1 || records[0].Content != TweetSentinel {
		t.Fatalf("expected one sentinel record, got %+v", records)
	}
	if records[0].DataSummary != "No data provided" {
		t.Errorf("expected default data summary, got %q", records[0].DataSummary)
	}
}

func TestTweetWorkflowGenerationFailureFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exhausted")}
	pub := deliveredPublisher()
	s := memory.New()

	w, err := NewTweetWorkflow(gen, pub, s, nil)
	if err != nil {
		t.Fatalf("NewTweetWorkflow: %v", err)
	}

	result := w.Run(context.Background(), "coral bleaching off Saint Martin's Island")

	if result.GenerationErr == nil {
		t.Error("expected generation error reported on the result")
	}
	if !strings.HasPrefix(result.Content, "🌊 Status report from the deep: ") {
		t.Errorf("expected fallback template, got %q", result.Content)
	}
	if !strings.Contains(result.Content, "coral bleaching off Saint Martin's Island") {
		t.Errorf("expected fallback to echo the payload, got %q", result.Content)
	}
	if !result.Logged {
		t.Error("expected fallback content to be logged")
	}
	if pub.calls != 1 {
		t.Errorf("expected the fallback to be published, got %d calls", pub.calls)
	}
}

func TestTweetFallbackCappedAt280Runes(t *testing.T) {
	long := strings.Repeat("жираф плаває ", 100)
	got := TweetFallback(long)
	if n := len([]rune(got)); n > 280 {
		t.Errorf("expected fallback under 280 runes, got %d", n)
	}
	if !strings.HasSuffix(got, " #OceanWatch") {
		t.Errorf("expected hashtag suffix, got %q", got)
	}
}

func TestTweetWorkflowLogsRegardlessOfPublishOutcome(t *testing.T) {
	for _, outcome := range []publisher.Outcome{
		{Status: publisher.StatusSkipped, Reason: "no client"},
		{Status: publisher.StatusFailed, Reason: "rate limited"},
	} {
		gen := &fakeGenerator{response: "🌊 quiet tides"}
		pub := &fakePublisher{outcome: outcome}
		s := memory.New()

		w, err := NewTweetWorkflow(gen, pub, s, nil)
		if err != nil {
			t.Fatalf("NewTweetWorkflow: %v", err)
		}

		result := w.Run(context.Background(), "calm conditions")
		if !result.Logged {
			t.Errorf("publish outcome %s: expected log append anyway", outcome.Status)
		}
	}
}

func TestPostWorkflowEndToEnd(t *testing.T) {
	gen := &fakeGenerator{response: "🌊 A cyclone is forming in my Bay of Bengal waters. Stay safe, friends on the coast."}
	pub := deliveredPublisher()
	s := memory.New()

	w, err := NewPostWorkflow(gen, pub, s, nil)
	if err != nil {
		t.Fatalf("NewPostWorkflow: %v", err)
	}

	payload := PostPayload{Event: "cyclone forming", Coordinates: "18.5000° N, 89.0000° E"}
	result := w.Run(context.Background(), payload)

	if result.Stage != pipeline.StageCompleted || !result.Logged {
		t.Fatalf("expected completed logged run, got %+v", result)
	}
	if !strings.Contains(gen.lastPrompt, "cyclone forming") ||
		!strings.Contains(gen.lastPrompt, "18.5000° N, 89.0000° E") {
		t.Error("expected prompt to embed event and coordinates")
	}

	records, err := s.PostsSince(context.Background(), time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("PostsSince: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if records[0].Event != payload.Event || records[0].Coordinates != payload.Coordinates {
		t.Errorf("expected payload echo, got %+v", records[0])
	}
}

func TestPostWorkflowEmptyPayloadSentinel(t *testing.T) {
	gen := &fakeGenerator{response: "should not be called"}
	pub := deliveredPublisher()
	s := memory.New()

	w, err := NewPostWorkflow(gen, pub, s, nil)
	if err != nil {
		t.Fatalf("NewPostWorkflow: %v", err)
	}

	result := w.Run(context.Background(), PostPayload{})

	if gen.calls != 0 {
		t.Errorf("expected zero generation calls, got %d", gen.calls)
	}
	if result.Content != PostSentinel {
		t.Errorf("expected post sentinel, got %q", result.Content)
	}
}

func TestSummaryEmptyWindowUsesFallback(t *testing.T) {
	gen := &fakeGenerator{response: "should not be called"}
	pub := deliveredPublisher()
	s := memory.New()

	w, err := NewSummaryWorkflow(gen, pub, s, nil)
	if err != nil {
		t.Fatalf("NewSummaryWorkflow: %v", err)
	}

	result := w.Summarize(context.Background(), 7)

	if gen.calls != 0 {
		t.Errorf("expected zero generation calls for empty window, got %d", gen.calls)
	}
	if result.Content != SummaryFallback {
		t.Errorf("expected fixed fallback, got %q", result.Content)
	}
	if pub.calls != 1 || pub.last != SummaryFallback {
		t.Errorf("expected fallback published, got %d calls, last %q", pub.calls, pub.last)
	}
	if result.Logged {
		t.Error("summary must not be persisted")
	}
}

func TestSummaryWindowExcludesOldTweets(t *testing.T) {
	gen := &fakeGenerator{response: "🌊 Looking back on a turbulent week. #WeeklySummary"}
	pub := deliveredPublisher()
	s := memory.New()

	base := time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)
	times := []time.Time{
		base.AddDate(0, 0, -10), // outside the window
		base.AddDate(0, 0, -3),
		base.AddDate(0, 0, -1),
	}
	i := 0
	s.SetClock(func() time.Time {
		ts := times[i]
		i++
		return ts
	})
	for _, content := range []string{"ancient tide", "storm passing", "clear waters"} {
		if _, err := s.AppendTweet(context.Background(), content, ""); err != nil {
			t.Fatalf("AppendTweet: %v", err)
		}
	}

	w, err := NewSummaryWorkflow(gen, pub, s, nil)
	if err != nil {
		t.Fatalf("NewSummaryWorkflow: %v", err)
	}
	w.SetClock(func() time.Time { return base })

	result := w.Summarize(context.Background(), 7)

	if gen.calls != 1 {
		t.Fatalf("expected exactly one generation call, got %d", gen.calls)
	}
	if !strings.Contains(gen.lastPrompt, "- storm passing") ||
		!strings.Contains(gen.lastPrompt, "- clear waters") {
		t.Error("expected prompt to list in-window tweets")
	}
	if strings.Contains(gen.lastPrompt, "ancient tide") {
		t.Error("expected out-of-window tweet excluded from prompt")
	}
	if len(result.Payload) != 2 {
		t.Errorf("expected 2 retrieved records, got %d", len(result.Payload))
	}
	if result.Logged {
		t.Error("summary must not be persisted")
	}
}

func TestSummaryGenerationFailureFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("service timeout")}
	pub := deliveredPublisher()
	s := memory.New()

	if _, err := s.AppendTweet(context.Background(), "a tweet", ""); err != nil {
		t.Fatalf("AppendTweet: %v", err)
	}

	w, err := NewSummaryWorkflow(gen, pub, s, nil)
	if err != nil {
		t.Fatalf("NewSummaryWorkflow: %v", err)
	}

	result := w.Summarize(context.Background(), 7)

	if result.GenerationErr == nil {
		t.Error("expected generation error reported")
	}
	if result.Content != SummaryFallback {
		t.Errorf("expected quiet-week fallback, got %q", result.Content)
	}
	if pub.calls != 1 {
		t.Errorf("expected fallback published, got %d calls", pub.calls)
	}
}
