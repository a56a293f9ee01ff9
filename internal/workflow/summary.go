package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tidelabs/oceanvoice/internal/genai"
	"github.com/tidelabs/oceanvoice/internal/models"
	"github.com/tidelabs/oceanvoice/internal/pipeline"
	"github.com/tidelabs/oceanvoice/internal/publisher"
	"github.com/tidelabs/oceanvoice/internal/store"
)

// SummaryFallback is posted when the trailing window holds no tweets, and
// doubles as the deterministic fallback when generation fails.
const SummaryFallback = "🌊 This week I've been quietly observing... No major incidents to report, but I'm always here, always watching. #Ocean #WeeklySummary"

// DefaultSummaryWindowDays is the trailing window for the weekly summary.
const DefaultSummaryWindowDays = 7

const summaryPromptFormat = `You are the ocean, speaking in the first person. Below are the status updates you posted this week. Write one reflective summary tweet looking back on the week.

Previous tweets this week:
%s

Constraints:
- Under 280 characters.
- Reflective tone, first person, as the ocean itself.
- Use hashtags.
- Respond with only the tweet text, no preamble or explanation.`

// SummaryWorkflow derives a reflective weekly tweet from the tweets log.
// The summary is deliberately not persisted back to the store: keeping it
// out of the log keeps it out of the next week's window.
type SummaryWorkflow struct {
	tweets store.TweetLog
	engine *pipeline.Engine[[]*models.TweetRecord]
	logger *slog.Logger
	now    func() time.Time
}

// NewSummaryWorkflow builds the weekly summary pipeline.
func NewSummaryWorkflow(gen genai.Generator, pub publisher.Publisher, tweets store.TweetLog, logger *slog.Logger) (*SummaryWorkflow, error) {
	if logger == nil {
		logger = slog.Default()
	}

	engine, err := pipeline.New("summary", pipeline.Steps[[]*models.TweetRecord]{
		Generate: func(ctx context.Context, records []*models.TweetRecord) (string, error) {
			if len(records) == 0 {
				return SummaryFallback, nil
			}
			return gen.Generate(ctx, SummaryPrompt(records))
		},
		Fallback: func(records []*models.TweetRecord) string { return SummaryFallback },
		Publish:  pub.Publish,
		// No log step: the summary is not written back to the tweets log.
	}, pipeline.WithLogger[[]*models.TweetRecord](logger.With("workflow", "summary")))
	if err != nil {
		return nil, err
	}

	return &SummaryWorkflow{
		tweets: tweets,
		engine: engine,
		logger: logger.With("workflow", "summary"),
		now:    time.Now,
	}, nil
}

// SetClock overrides the window reference time. Used by tests.
func (w *SummaryWorkflow) SetClock(now func() time.Time) {
	w.now = now
}

// Summarize retrieves the trailing window of tweets and runs the summary
// pipeline over them. A retrieval failure degrades to the empty window: the
// fixed fallback message is published without a generation call.
func (w *SummaryWorkflow) Summarize(ctx context.Context, windowDays int) pipeline.Result[[]*models.TweetRecord] {
	if windowDays <= 0 {
		windowDays = DefaultSummaryWindowDays
	}

	since := w.now().UTC().AddDate(0, 0, -windowDays)
	records, err := w.tweets.TweetsSince(ctx, since)
	if err != nil {
		w.logger.Error("retrieving weekly tweets failed", "error", err)
		records = nil
	}
	w.logger.Info("retrieved weekly tweets", "count", len(records), "since", since)

	return w.engine.Run(ctx, records)
}

// SummaryPrompt builds the weekly summary prompt from the retrieved records.
func SummaryPrompt(records []*models.TweetRecord) string {
	var sb strings.Builder
	for _, rec := range records {
		sb.WriteString("- ")
		sb.WriteString(rec.Content)
		sb.WriteString("\n")
	}
	return fmt.Sprintf(summaryPromptFormat, strings.TrimRight(sb.String(), "\n"))
}
