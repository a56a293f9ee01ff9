// Package pipeline provides a fixed linear workflow engine. One run threads
// a payload through generate, publish, and log steps, strictly in order, and
// always reaches a terminal result: generation failures substitute a
// deterministic fallback, publish and log failures degrade to notices.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidelabs/oceanvoice/internal/publisher"
	"github.com/tidelabs/oceanvoice/pkg/logger"
)

// Stage identifies how far a run progressed.
type Stage string

const (
	// StageCreated means the run started with its payload but no content
	// has been generated yet.
	StageCreated Stage = "created"
	// StageGenerated means content has been produced (by the generate step
	// or its fallback).
	StageGenerated Stage = "generated"
	// StageCompleted means publish and log have both been attempted,
	// regardless of their outcomes.
	StageCompleted Stage = "completed"
)

// Steps holds the step functions for one pipeline variant. Each signature
// carries only the state valid at its stage: Generate sees the payload,
// Publish sees the content, Log sees both. A nil Log disables the log step
// (the weekly summary does not persist itself).
type Steps[P any] struct {
	Generate func(ctx context.Context, payload P) (string, error)
	Fallback func(payload P) string
	Publish  func(ctx context.Context, content string) publisher.Outcome
	Log      func(ctx context.Context, payload P, content string) (int64, error)
}

// Result is the terminal state of one run.
type Result[P any] struct {
	RunID         string
	Pipeline      string
	Stage         Stage
	Payload       P
	Content       string
	Publish       publisher.Outcome
	Logged        bool
	LogRecordID   int64
	GenerationErr error
	Notices       []string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Engine drives one pipeline variant. Runs are synchronous and sequential:
// no step starts before the previous one returns, and no step is retried
// or re-entered.
type Engine[P any] struct {
	name   string
	steps  Steps[P]
	logger *slog.Logger
}

// Option configures an Engine.
type Option[P any] func(*Engine[P])

// WithLogger sets the engine logger.
func WithLogger[P any](logger *slog.Logger) Option[P] {
	return func(e *Engine[P]) {
		e.logger = logger
	}
}

// New creates an engine for the named pipeline variant. Generate and Publish
// are required; Fallback is required so a generation failure still yields a
// completed run.
func New[P any](name string, steps Steps[P], opts ...Option[P]) (*Engine[P], error) {
	if name == "" {
		return nil, fmt.Errorf("pipeline name is required")
	}
	if steps.Generate == nil {
		return nil, fmt.Errorf("pipeline %s: generate step is required", name)
	}
	if steps.Fallback == nil {
		return nil, fmt.Errorf("pipeline %s: fallback is required", name)
	}
	if steps.Publish == nil {
		return nil, fmt.Errorf("pipeline %s: publish step is required", name)
	}

	e := &Engine[P]{
		name:   name,
		steps:  steps,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run executes one pipeline invocation to its terminal stage and returns the
// result. It never returns early: a generation failure is reported on the
// result and replaced by the fallback, and publish/log failures degrade to
// notices.
func (e *Engine[P]) Run(ctx context.Context, payload P) Result[P] {
	result := Result[P]{
		RunID:     uuid.New().String(),
		Pipeline:  e.name,
		Stage:     StageCreated,
		Payload:   payload,
		StartedAt: time.Now().UTC(),
	}

	// Steps see the run ID through the context so their own log lines can
	// be correlated with this run.
	ctx = logger.ContextWithRunID(ctx, result.RunID)

	log := e.logger.With("pipeline", e.name, "run_id", result.RunID)
	log.Info("pipeline run started")

	content, err := e.steps.Generate(ctx, payload)
	if err != nil {
		result.GenerationErr = err
		content = e.steps.Fallback(payload)
		log.Error("generation failed, using fallback content", "error", err)
		result.Notices = append(result.Notices, fmt.Sprintf("generation failed: %v", err))
	}
	result.Content = strings.TrimSpace(content)
	result.Stage = StageGenerated

	if result.Content == "" {
		// Empty content is never published or logged.
		result.Publish = publisher.Outcome{Status: publisher.StatusSkipped, Reason: "no content generated"}
		result.Notices = append(result.Notices, "publish skipped: no content")
		if e.steps.Log != nil {
			result.Notices = append(result.Notices, "log skipped: no content")
		}
		result.Stage = StageCompleted
		result.FinishedAt = time.Now().UTC()
		log.Warn("pipeline run completed without content")
		return result
	}

	result.Publish = e.steps.Publish(ctx, result.Content)
	switch result.Publish.Status {
	case publisher.StatusDelivered:
		log.Info("content published")
	case publisher.StatusSkipped:
		log.Info("publish skipped", "reason", result.Publish.Reason)
		result.Notices = append(result.Notices, "publish skipped: "+result.Publish.Reason)
	case publisher.StatusFailed:
		log.Error("publish failed", "reason", result.Publish.Reason)
		result.Notices = append(result.Notices, "publish failed: "+result.Publish.Reason)
	}

	if e.steps.Log != nil {
		recordID, err := e.steps.Log(ctx, payload, result.Content)
		if err != nil {
			log.Error("log write failed", "error", err)
			result.Notices = append(result.Notices, fmt.Sprintf("record not persisted: %v", err))
		} else {
			result.Logged = true
			result.LogRecordID = recordID
		}
	}

	result.Stage = StageCompleted
	result.FinishedAt = time.Now().UTC()
	log.Info("pipeline run completed",
		"publish_status", result.Publish.Status,
		"logged", result.Logged,
	)
	return result
}
