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

// PostSentinel is the empty-payload sentinel for the Facebook post pipeline.
// It mirrors the tweet sentinel so both short-form variants share the same
// validation contract.
const PostSentinel = "Error: No data to generate post."

// PostPayload is the input to one Facebook post run.
type PostPayload struct {
	Event       string
	Coordinates string
}

func (p PostPayload) empty() bool {
	return strings.TrimSpace(p.Event) == "" && strings.TrimSpace(p.Coordinates) == ""
}

const postPromptFormat = `You are the ocean, speaking in the first person. An event has occurred in your waters and you want to tell the people following you about it.

Event: %s
Coordinates: %s

Constraints:
- A short social media post, a few sentences at most.
- First person, as the ocean itself.
- Respond with only the post text, no preamble or explanation.`

// PostWorkflow runs the generate -> publish -> log pipeline for Facebook
// event posts.
type PostWorkflow struct {
	engine *pipeline.Engine[PostPayload]
}

// NewPostWorkflow builds the Facebook post pipeline.
func NewPostWorkflow(gen genai.Generator, pub publisher.Publisher, posts store.PostLog, logger *slog.Logger) (*PostWorkflow, error) {
	if logger == nil {
		logger = slog.Default()
	}

	engine, err := pipeline.New("post", pipeline.Steps[PostPayload]{
		Generate: func(ctx context.Context, payload PostPayload) (string, error) {
			if payload.empty() {
				return PostSentinel, nil
			}
			return gen.Generate(ctx, fmt.Sprintf(postPromptFormat, payload.Event, payload.Coordinates))
		},
		Fallback: PostFallback,
		Publish:  pub.Publish,
		Log: func(ctx context.Context, payload PostPayload, content string) (int64, error) {
			rec, err := posts.AppendPost(ctx, content, payload.Event, payload.Coordinates)
			if err != nil {
				return 0, err
			}
			return rec.ID, nil
		},
	}, pipeline.WithLogger[PostPayload](logger.With("workflow", "post")))
	if err != nil {
		return nil, err
	}

	return &PostWorkflow{engine: engine}, nil
}

// Run executes one post pipeline invocation for the given event.
func (w *PostWorkflow) Run(ctx context.Context, payload PostPayload) pipeline.Result[PostPayload] {
	return w.engine.Run(ctx, payload)
}

// PostFallback is the deterministic post used when the generation service
// fails.
func PostFallback(payload PostPayload) string {
	if payload.empty() {
		return PostSentinel
	}
	return fmt.Sprintf(
		"🌊 I need to share something with you: %s near %s. I am watching it closely and will keep you informed. #OceanWatch",
		strings.TrimSpace(payload.Event), strings.TrimSpace(payload.Coordinates))
}
