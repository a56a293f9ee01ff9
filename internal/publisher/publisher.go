// Package publisher delivers generated content to external social channels.
// A Publisher makes exactly one delivery attempt per call and never returns
// an error: every failure is absorbed into the Outcome.
package publisher

import (
	"context"
	"log/slog"

	"github.com/tidelabs/oceanvoice/pkg/logger"
)

// Status classifies the result of a publish attempt.
type Status string

const (
	// StatusDelivered indicates the channel accepted the content.
	StatusDelivered Status = "delivered"
	// StatusSkipped indicates no delivery was attempted (missing client
	// credentials or empty content).
	StatusSkipped Status = "skipped"
	// StatusFailed indicates the delivery attempt was rejected by the
	// channel or failed on the wire.
	StatusFailed Status = "failed"
)

// Outcome is the result of one publish attempt.
type Outcome struct {
	Status Status
	Reason string // populated for skipped and failed outcomes
}

// Delivered reports whether the content reached the channel.
func (o Outcome) Delivered() bool {
	return o.Status == StatusDelivered
}

// Publisher attempts delivery of content to one external channel.
type Publisher interface {
	Publish(ctx context.Context, content string) Outcome
}

func skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}

func failed(reason string) Outcome {
	return Outcome{Status: StatusFailed, Reason: reason}
}

func delivered() Outcome {
	return Outcome{Status: StatusDelivered}
}

// runLogger tags the base logger with the pipeline run ID carried in ctx,
// when one is present.
func runLogger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if runID := logger.RunIDFromContext(ctx); runID != "" {
		return base.With("run_id", runID)
	}
	return base
}
