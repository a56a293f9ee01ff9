// Package workflow wires the content generator, publishers, and log store
// into the concrete pipeline variants: the ocean status tweet, the Facebook
// event post, and the weekly summary.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tidelabs/oceanvoice/internal/genai"
	"github.com/tidelabs/oceanvoice/internal/pipeline"
	"github.com/tidelabs/oceanvoice/internal/publisher"
	"github.com/tidelabs/oceanvoice/internal/store"
)

// TweetSentinel is logged and published when a tweet run starts with no
// observation data. The sentinel short-circuits generation: no service call
// is made for an empty payload.
const TweetSentinel = "Error: No data to generate tweet."

// noDataSummary is the data_summary echo recorded for empty payloads.
const noDataSummary = "No data provided"

const tweetPromptFormat = `You are the ocean, speaking in the first person. Based on the following observational data, write a short status update about how you are doing today.

Data: %s

Constraints:
- Under 280 characters.
- First person, as the ocean itself.
- Respond with only the tweet text, no preamble or explanation.`

// TweetWorkflow runs the generate -> publish -> log pipeline for ocean
// status tweets.
type TweetWorkflow struct {
	engine *pipeline.Engine[string]
}

// NewTweetWorkflow builds the tweet pipeline.
func NewTweetWorkflow(gen genai.Generator, pub publisher.Publisher, tweets store.TweetLog, logger *slog.Logger) (*TweetWorkflow, error) {
	if logger == nil {
		logger = slog.Default()
	}

	engine, err := pipeline.New("tweet", pipeline.Steps[string]{
		Generate: func(ctx context.Context, data string) (string, error) {
			if strings.TrimSpace(data) == "" {
				return TweetSentinel, nil
			}
			return gen.Generate(ctx, fmt.Sprintf(tweetPromptFormat, data))
		},
		Fallback: TweetFallback,
		Publish:  pub.Publish,
		Log: func(ctx context.Context, data, content string) (int64, error) {
			summary := strings.TrimSpace(data)
			if summary == "" {
				summary = noDataSummary
			}
			rec, err := tweets.AppendTweet(ctx, content, summary)
			if err != nil {
				return 0, err
			}
			return rec.ID, nil
		},
	}, pipeline.WithLogger[string](logger.With("workflow", "tweet")))
	if err != nil {
		return nil, err
	}

	return &TweetWorkflow{engine: engine}, nil
}

// Run executes one tweet pipeline invocation for the given observation data.
func (w *TweetWorkflow) Run(ctx context.Context, data string) pipeline.Result[string] {
	return w.engine.Run(ctx, data)
}

// TweetFallback is the deterministic tweet used when the generation service
// fails. It embeds a truncated echo of the observation data.
func TweetFallback(data string) string {
	data = strings.TrimSpace(data)
	if data == "" {
		return TweetSentinel
	}

	const prefix = "🌊 Status report from the deep: "
	const suffix = " #OceanWatch"

	tweet := prefix + data + suffix
	runes := []rune(tweet)
	if len(runes) <= 280 {
		return tweet
	}

	keep := 280 - len([]rune(prefix)) - len([]rune(suffix)) - 1
	return prefix + string([]rune(data)[:keep]) + "…" + suffix
}
