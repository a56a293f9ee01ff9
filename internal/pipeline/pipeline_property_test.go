package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/tidelabs/oceanvoice/internal/publisher"
)

// genOutcome generates every possible publish outcome.
func genOutcome() gopter.Gen {
	return gen.OneConstOf(
		publisher.Outcome{Status: publisher.StatusDelivered},
		publisher.Outcome{Status: publisher.StatusSkipped, Reason: "no client"},
		publisher.Outcome{Status: publisher.StatusFailed, Reason: "channel error"},
	)
}

func TestPropertyLogAppendIffNonEmptyContent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("log append occurs iff content is non-empty, regardless of publish outcome", prop.ForAll(
		func(content string, outcome publisher.Outcome) bool {
			logCalls := 0

			e, err := New("prop", Steps[string]{
				Generate: func(ctx context.Context, payload string) (string, error) {
					return content, nil
				},
				Fallback: func(payload string) string { return "" },
				Publish: func(ctx context.Context, c string) publisher.Outcome {
					return outcome
				},
				Log: func(ctx context.Context, payload, c string) (int64, error) {
					logCalls++
					return int64(logCalls), nil
				},
			})
			if err != nil {
				return false
			}

			result := e.Run(context.Background(), "payload")

			if result.Content == "" {
				return logCalls == 0 && !result.Logged
			}
			return logCalls == 1 && result.Logged
		},
		gen.OneGenOf(gen.AnyString(), gen.OneConstOf("", "  ", "\n")),
		genOutcome(),
	))

	properties.TestingRun(t)
}

func TestPropertyRunAlwaysCompletes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("every run reaches the completed stage", prop.ForAll(
		func(genFails, logFails bool, outcome publisher.Outcome) bool {
			e, err := New("prop", Steps[string]{
				Generate: func(ctx context.Context, payload string) (string, error) {
					if genFails {
						return "", errors.New("service down")
					}
					return "generated", nil
				},
				Fallback: func(payload string) string { return "fallback" },
				Publish: func(ctx context.Context, c string) publisher.Outcome {
					return outcome
				},
				Log: func(ctx context.Context, payload, c string) (int64, error) {
					if logFails {
						return 0, errors.New("store down")
					}
					return 1, nil
				},
			})
			if err != nil {
				return false
			}

			result := e.Run(context.Background(), "payload")

			if result.Stage != StageCompleted {
				return false
			}
			if genFails && result.GenerationErr == nil {
				return false
			}
			if genFails && result.Content != "fallback" {
				return false
			}
			if logFails && result.Logged {
				return false
			}
			return true
		},
		gen.Bool(),
		gen.Bool(),
		genOutcome(),
	))

	properties.TestingRun(t)
}
